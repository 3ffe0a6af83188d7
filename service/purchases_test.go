package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"kinoseat-cli/model"
)

func TestGetPurchases_OK(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/purchases" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		if r.URL.Query().Get("page") != "1" || r.URL.Query().Get("size") != "20" {
			t.Fatalf("unexpected query: %s", r.URL.RawQuery)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
  "data": [
    {"id": "p-1", "filmId": "f-1", "ticketIds": ["t-1"], "totalCents": 50000, "status": "COMPLETED"},
    {"id": "p-2", "filmId": "f-2", "ticketIds": ["t-2", "t-3"], "totalCents": 100000, "status": "PENDING"}
  ],
  "pagination": {"page": 1, "limit": 20, "total": 2, "pages": 1}
}`))
	}))
	defer server.Close()

	client := testClient(server)

	res, err := client.GetPurchases(context.Background(), model.PageQuery{Page: 1, Size: 20})
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if len(res.Data) != 2 {
		t.Fatalf("expected 2 purchases, got %d", len(res.Data))
	}
	if res.Data[1].Status != model.PurchasePending {
		t.Fatalf("unexpected status: %s", res.Data[1].Status)
	}
}

func TestGetPurchase_OK(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/purchases/p-1" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id": "p-1", "ticketIds": ["t-1"], "totalCents": 50000, "status": "COMPLETED"}`))
	}))
	defer server.Close()

	client := testClient(server)

	purchase, err := client.GetPurchase(context.Background(), "p-1")
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if purchase.Status != model.PurchaseCompleted {
		t.Fatalf("unexpected status: %s", purchase.Status)
	}
}

func TestGetPurchase_RequiresID(t *testing.T) {
	client := NewClient("", nil)
	if _, err := client.GetPurchase(context.Background(), ""); err == nil {
		t.Fatal("expected error")
	}
}

func TestCancelPurchase_OK(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/purchases/p-1/cancel" {
			t.Fatalf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id": "p-1", "status": "CANCELLED"}`))
	}))
	defer server.Close()

	client := testClient(server)

	purchase, err := client.CancelPurchase(context.Background(), "p-1")
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if purchase.Status != model.PurchaseCancelled {
		t.Fatalf("unexpected status: %s", purchase.Status)
	}
}

func TestGetPaymentStatus_OK(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/payments/pay-1" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"paymentId": "pay-1", "status": "SUCCESS"}`))
	}))
	defer server.Close()

	client := testClient(server)

	res, err := client.GetPaymentStatus(context.Background(), "pay-1")
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if res.Status != model.PaymentSuccess {
		t.Fatalf("unexpected status: %s", res.Status)
	}
}

func TestGetSession_OK(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/sessions/sess-1" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id": "sess-1", "filmId": "f-1", "hallId": "h-1", "startAt": "2024-06-01T18:00:00Z"}`))
	}))
	defer server.Close()

	client := testClient(server)

	session, err := client.GetSession(context.Background(), "sess-1")
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if session.FilmId != "f-1" || session.HallId != "h-1" {
		t.Fatalf("unexpected session: %+v", session)
	}
}

func TestUpdateSession_SendsBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut || r.URL.Path != "/sessions/sess-1" {
			t.Fatalf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		var body model.SessionUpdate
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		if body.HallId != "h-2" {
			t.Fatalf("unexpected body: %+v", body)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id": "sess-1", "filmId": "f-1", "hallId": "h-2", "startAt": "2024-06-01T20:00:00Z"}`))
	}))
	defer server.Close()

	client := testClient(server)

	session, err := client.UpdateSession(context.Background(), "sess-1", model.SessionUpdate{
		FilmId: "f-1",
		HallId: "h-2",
	})
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if session.HallId != "h-2" {
		t.Fatalf("unexpected session: %+v", session)
	}
}

func TestGetFilm_MapsPosterURL(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/films/f-1" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id": "f-1", "title": "Solaris", "poster": {"id": "m-1"}}`))
	}))
	defer server.Close()

	client := testClient(server)

	film, err := client.GetFilm(context.Background(), "f-1")
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if film.Title != "Solaris" {
		t.Fatalf("unexpected film: %+v", film)
	}
	if film.ImageURL != server.URL+"/media/m-1" {
		t.Fatalf("unexpected poster url: %s", film.ImageURL)
	}
}
