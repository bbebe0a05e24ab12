package services

import (
	"fmt"
	"strings"

	"github.com/skip2/go-qrcode"
)

// QRService renders QR codes pointing at a check's public receipt URL, so a
// printed or on-screen code can be scanned straight into the shared view.
type QRService struct {
	repo    *CheckRepository
	baseURL string
}

func NewQRService(repo *CheckRepository, baseURL string) *QRService {
	return &QRService{
		repo:    repo,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// PublicReceiptURL returns the shareable URL for a check's public token.
func (s *QRService) PublicReceiptURL(token string) string {
	return fmt.Sprintf("%s/api/v1/checks/public/%s", s.baseURL, token)
}

// PublicReceiptPNG encodes the public receipt URL of the owner's check as a
// PNG QR code. Ownership is enforced the same way as any check read.
func (s *QRService) PublicReceiptPNG(ownerID, checkID int64, size int) ([]byte, error) {
	check, err := s.repo.GetCheckByID(ownerID, checkID)
	if err != nil {
		return nil, err
	}

	return qrcode.Encode(s.PublicReceiptURL(check.PublicToken), qrcode.Medium, size)
}
