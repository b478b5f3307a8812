// services/qrcode_service.go
package services

import (
	"errors"
	"fmt"

	"github.com/skip2/go-qrcode"

	"go-facilities-admin/models"
)

// Label edge bounds in pixels.
const (
	MinLabelSize = 64
	MaxLabelSize = 1024
)

// QRCodeEncoder renders content as a PNG of size pixels.
type QRCodeEncoder func(content string, level qrcode.RecoveryLevel, size int) ([]byte, error)

// DefaultQRCodeEncoder is the go-qrcode encoder.
var DefaultQRCodeEncoder QRCodeEncoder = qrcode.Encode

// GeneratePackageLabel creates the intake label for a package: a QR code
// encoding its normalized AWB number.
func GeneratePackageLabel(awbNumber string, size int, encode QRCodeEncoder) ([]byte, error) {
	if size < MinLabelSize || size > MaxLabelSize {
		return nil, fmt.Errorf("invalid size: must be between %d and %d", MinLabelSize, MaxLabelSize)
	}
	awb := models.AlphanumericUpper(awbNumber, models.AWBMaxLength)
	if awb == "" {
		return nil, errors.New("awb number is required")
	}
	if encode == nil {
		encode = DefaultQRCodeEncoder
	}
	png, err := encode(awb, qrcode.Medium, size)
	if err != nil {
		return nil, err
	}
	return png, nil
}
