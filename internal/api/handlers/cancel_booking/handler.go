package cancel_booking

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/TLP-LaunchService/internal/api/handlers"
	"github.com/m04kA/TLP-LaunchService/internal/service/slots"
)

const (
	msgInvalidProductID = "некорректный ID продукта"
	msgConflict         = "не удалось отменить из-за конкуренции, попробуйте еще раз"
)

type Handler struct {
	service SlotService
	logger  Logger
}

func NewHandler(service SlotService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// CancelResponse HTTP response model
type CancelResponse struct {
	Success bool   `json:"success"`
	Date    string `json:"date,omitempty"`
}

// Handle DELETE /api/v1/bookings/{productId}
//
// Идемпотентный маршрут: повторная отмена отвечает 200 с success=false
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	productIDStr := vars["productId"]

	productID, err := strconv.ParseInt(productIDStr, 10, 64)
	if err != nil || productID <= 0 {
		h.logger.Warn("DELETE /bookings/{productId} - Invalid product ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidProductID)
		return
	}

	result, err := h.service.Cancel(r.Context(), productID)
	if err != nil {
		switch {
		case errors.Is(err, slots.ErrInvalidInput):
			h.logger.Warn("DELETE /bookings/{productId} - Invalid input: product_id=%d", productID)
			handlers.RespondBadRequest(w, msgInvalidProductID)

		case errors.Is(err, slots.ErrConflict):
			h.logger.Warn("DELETE /bookings/{productId} - Write conflict: product_id=%d", productID)
			handlers.RespondError(w, http.StatusServiceUnavailable, msgConflict)

		default:
			h.logger.Error("DELETE /bookings/{productId} - Failed to cancel: product_id=%d, error=%v",
				productID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("DELETE /bookings/{productId} - Cancel processed: product_id=%d, cancelled=%t",
		productID, result.Cancelled)
	handlers.RespondJSON(w, http.StatusOK, &CancelResponse{
		Success: result.Cancelled,
		Date:    result.Date.String(),
	})
}
