package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	"github.com/chekline/backend/internal/services"
)

type QRHandler struct {
	service   *services.QRService
	validator *services.ValidationHelper
}

func NewQRHandler(service *services.QRService) *QRHandler {
	return &QRHandler{
		service:   service,
		validator: services.NewValidationHelper(),
	}
}

// GetCheckQR serves a QR code for a check's public receipt
// @Summary QR code for a shared receipt
// @Description PNG QR code encoding the check's public receipt URL
// @Tags checks
// @Produce png
// @Security BearerAuth
// @Param id path int true "Check ID"
// @Param size query int false "Image size in pixels, 64-1024 (default 256)"
// @Success 200 {file} binary "PNG image"
// @Failure 400 {object} services.ErrorResponse "Invalid request"
// @Failure 401 {object} services.ErrorResponse "Unauthorized"
// @Failure 404 {object} services.ErrorResponse "Check not found"
// @Router /checks/{id}/qr [get]
func (h *QRHandler) GetCheckQR(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("userID").(int64)
	if !ok {
		services.SendErrorResponse(w, "Unauthorized", http.StatusUnauthorized, nil)
		return
	}

	checkID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		services.SendErrorResponse(w, "Invalid check id", http.StatusBadRequest, nil)
		return
	}

	req := struct {
		Size int `validate:"gte=64,lte=1024"`
	}{Size: 256}

	if raw := r.URL.Query().Get("size"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			services.SendErrorResponse(w, "Invalid size", http.StatusBadRequest, nil)
			return
		}
		req.Size = v
	}

	if err := h.validator.ValidateStruct(&req); err != nil {
		services.SendErrorResponse(w, "Validation failed", http.StatusBadRequest, err)
		return
	}

	png, err := h.service.PublicReceiptPNG(userID, checkID, req.Size)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			services.SendErrorResponse(w, services.ErrNotFound.Error(), http.StatusNotFound, nil)
			return
		}
		logrus.Errorf("[QR] Failed to render QR for check %d: %v", checkID, err)
		services.SendErrorResponse(w, "Failed to render QR code", http.StatusInternalServerError, nil)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Write(png)
}
