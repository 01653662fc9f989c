package get_user_bookings

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/m04kA/TLP-LaunchService/internal/api/handlers"
	"github.com/m04kA/TLP-LaunchService/internal/api/middleware"
	"github.com/m04kA/TLP-LaunchService/internal/service/slots"
	"github.com/m04kA/TLP-LaunchService/internal/service/slots/models"
)

const (
	msgInvalidUserID = "некорректный ID пользователя"
	msgForbidden     = "доступ запрещен"
	msgUnauthorized  = "пользователь не аутентифицирован"
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

// BookingListResponse HTTP response model
type BookingListResponse struct {
	Bookings []BookingResponse `json:"bookings"`
}

// BookingResponse вложенная модель бронирования
type BookingResponse struct {
	ProductID   int64  `json:"productId"`
	Date        string `json:"date"`
	Position    int    `json:"position"`
	ProductName string `json:"productName"`
	IsPremium   bool   `json:"isPremium"`
	BookedAt    string `json:"bookedAt"`
}

// Handle GET /api/v1/users/{userId}/bookings
// Пользователь видит только собственные бронирования
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	authUserID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		h.logger.Warn("GET /users/{userId}/bookings - Missing user ID in context")
		handlers.RespondError(w, http.StatusUnauthorized, msgUnauthorized)
		return
	}

	vars := mux.Vars(r)
	userID, err := strconv.ParseInt(vars["userId"], 10, 64)
	if err != nil || userID <= 0 {
		h.logger.Warn("GET /users/{userId}/bookings - Invalid user ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidUserID)
		return
	}

	if userID != authUserID {
		h.logger.Warn("GET /users/{userId}/bookings - Access denied: user_id=%d, auth_user_id=%d", userID, authUserID)
		handlers.RespondForbidden(w, msgForbidden)
		return
	}

	result, err := h.service.GetUserBookings(r.Context(), userID)
	if err != nil {
		switch {
		case errors.Is(err, slots.ErrInvalidInput):
			h.logger.Warn("GET /users/{userId}/bookings - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidUserID)

		default:
			h.logger.Error("GET /users/{userId}/bookings - Failed: user_id=%d, error=%v", userID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /users/{userId}/bookings - OK: user_id=%d, bookings=%d", userID, len(result.Bookings))
	handlers.RespondJSON(w, http.StatusOK, fromServiceResponse(result))
}

func fromServiceResponse(resp *models.BookingListResponse) *BookingListResponse {
	result := &BookingListResponse{
		Bookings: make([]BookingResponse, 0, len(resp.Bookings)),
	}

	for _, b := range resp.Bookings {
		result.Bookings = append(result.Bookings, BookingResponse{
			ProductID:   b.ProductID,
			Date:        b.Date.String(),
			Position:    b.Position,
			ProductName: b.ProductName,
			IsPremium:   b.IsPremium,
			BookedAt:    b.BookedAt.Format(time.RFC3339),
		})
	}

	return result
}
