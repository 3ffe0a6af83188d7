package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	qrcode "github.com/skip2/go-qrcode"

	"kinoseat-cli/model"
)

// SavePurchaseQR writes a QR code PNG encoding the purchase id and
// returns the file path. The image is what gets scanned at the hall
// entrance.
func SavePurchaseQR(purchase model.Purchase) (string, error) {
	if purchase.Id == "" {
		return "", errors.New("purchase id is required")
	}
	path, err := cachePath(fmt.Sprintf("purchase_%s.png", purchase.Id))
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", err
	}
	if err := qrcode.WriteFile(string(purchase.Id), qrcode.Medium, 256, path); err != nil {
		return "", fmt.Errorf("write qr code: %w", err)
	}
	return path, nil
}
