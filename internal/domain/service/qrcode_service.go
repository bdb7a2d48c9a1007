package service

import "github.com/google/uuid"

// QRCodeService generates pickup QR codes for orders. The encoded payload
// identifies the order so staff can scan it at handover.
type QRCodeService interface {
	// GenerateOrderQR renders a PNG QR code for the given order id.
	GenerateOrderQR(orderID uuid.UUID) ([]byte, error)

	// ParseOrderQR decodes a scanned payload back into the order id.
	ParseOrderQR(qrData string) (uuid.UUID, error)
}
