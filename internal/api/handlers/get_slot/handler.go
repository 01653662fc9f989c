package get_slot

import (
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/m04kA/TLP-LaunchService/internal/api/handlers"
	"github.com/m04kA/TLP-LaunchService/internal/service/slots"
	"github.com/m04kA/TLP-LaunchService/internal/service/slots/models"
	"github.com/m04kA/TLP-LaunchService/pkg/types"
)

const msgInvalidDate = "некорректная дата, ожидается YYYY-MM-DD"

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

// SlotResponse HTTP response model
type SlotResponse struct {
	Date            string            `json:"date"`
	Capacity        int               `json:"capacity"`
	BookingCount    int               `json:"bookingCount"`
	NonPremiumCount int               `json:"nonPremiumCount"`
	Bookings        []BookingResponse `json:"bookings"`
}

// BookingResponse вложенная модель бронирования
type BookingResponse struct {
	ProductID   int64  `json:"productId"`
	ProductName string `json:"productName"`
	IsPremium   bool   `json:"isPremium"`
	Position    int    `json:"position"`
	BookedAt    string `json:"bookedAt"`
}

// Handle GET /api/v1/slots/{date}
// Публичный маршрут: листинг запусков дня
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	date, err := types.NewDateStringFromString(vars["date"])
	if err != nil {
		h.logger.Warn("GET /slots/{date} - Invalid date: %q", vars["date"])
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.service.GetSlot(r.Context(), date)
	if err != nil {
		switch {
		case errors.Is(err, slots.ErrInvalidInput):
			h.logger.Warn("GET /slots/{date} - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidDate)

		default:
			h.logger.Error("GET /slots/{date} - Failed to get slot: date=%s, error=%v", date, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /slots/{date} - OK: date=%s, bookings=%d", date, len(result.Bookings))
	handlers.RespondJSON(w, http.StatusOK, fromServiceResponse(result))
}

func fromServiceResponse(resp *models.SlotResponse) *SlotResponse {
	result := &SlotResponse{
		Date:            resp.Date.String(),
		Capacity:        resp.Capacity,
		BookingCount:    resp.BookingCount,
		NonPremiumCount: resp.NonPremiumCount,
		Bookings:        make([]BookingResponse, 0, len(resp.Bookings)),
	}

	for _, b := range resp.Bookings {
		result.Bookings = append(result.Bookings, BookingResponse{
			ProductID:   b.ProductID,
			ProductName: b.ProductName,
			IsPremium:   b.IsPremium,
			Position:    b.Position,
			BookedAt:    b.BookedAt.Format(time.RFC3339),
		})
	}

	return result
}
