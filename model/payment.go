package model

type PaymentStatus string

const (
	PaymentSuccess PaymentStatus = "SUCCESS"
	PaymentFailed  PaymentStatus = "FAILED"
	PaymentPending PaymentStatus = "PENDING"
)

type PaymentRequest struct {
	PurchaseId     PurchaseID `json:"purchaseId"`
	CardNumber     string     `json:"cardNumber"`
	ExpiryDate     string     `json:"expiryDate"`
	CVV            string     `json:"cvv"`
	CardHolderName string     `json:"cardHolderName"`
}

type PaymentResult struct {
	PaymentId PaymentID     `json:"paymentId"`
	Status    PaymentStatus `json:"status"`
	Message   string        `json:"message"`
}
