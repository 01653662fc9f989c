package create_booking

import (
	"errors"
	"net/http"

	"github.com/m04kA/TLP-LaunchService/internal/api/handlers"
	"github.com/m04kA/TLP-LaunchService/internal/api/middleware"
	createBooking "github.com/m04kA/TLP-LaunchService/internal/usecase/create_booking"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidDate        = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgUnauthorized       = "пользователь не аутентифицирован"
	msgProductNotFound    = "продукт не найден"
	msgAccessDenied       = "бронировать запуск может только владелец продукта"
	msgDuplicateBooking   = "продукт уже занимает слот запуска"
	msgSlotUnavailable    = "выбранная дата недоступна"
	msgNoAvailability     = "нет свободных дат в пределах горизонта бронирования"
	msgInvalidBookingDate = "некорректная дата бронирования"
	msgDateTooFar         = "дата бронирования слишком далеко в будущем"
	msgConflict           = "не удалось забронировать из-за конкуренции, попробуйте еще раз"
)

type Handler struct {
	useCase CreateBookingUseCase
	logger  Logger
}

func NewHandler(useCase CreateBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		h.logger.Warn("POST /bookings - Missing user ID in context")
		handlers.RespondError(w, http.StatusUnauthorized, msgUnauthorized)
		return
	}

	var req CreateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	// Конвертируем HTTP запрос в модель use case (с парсингом даты)
	useCaseReq, err := req.ToUseCaseRequest(userID)
	if err != nil {
		h.logger.Warn("POST /bookings - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	// Вызываем use case
	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		// Обработка ошибок use case
		switch {
		case errors.Is(err, createBooking.ErrDuplicateBooking):
			h.logger.Warn("POST /bookings - Duplicate booking: product_id=%d", req.ProductID)
			handlers.RespondConflict(w, msgDuplicateBooking)

		case errors.Is(err, createBooking.ErrSlotUnavailable):
			h.logger.Warn("POST /bookings - Slot not available: product_id=%d", req.ProductID)
			handlers.RespondConflict(w, msgSlotUnavailable)

		case errors.Is(err, createBooking.ErrNoAvailability):
			h.logger.Warn("POST /bookings - No availability: product_id=%d", req.ProductID)
			handlers.RespondConflict(w, msgNoAvailability)

		case errors.Is(err, createBooking.ErrProductNotFound):
			h.logger.Warn("POST /bookings - Product not found: product_id=%d", req.ProductID)
			handlers.RespondNotFound(w, msgProductNotFound)

		case errors.Is(err, createBooking.ErrAccessDenied):
			h.logger.Warn("POST /bookings - Access denied: product_id=%d, user_id=%d", req.ProductID, userID)
			handlers.RespondForbidden(w, msgAccessDenied)

		case errors.Is(err, createBooking.ErrInvalidDate):
			h.logger.Warn("POST /bookings - Invalid booking date: product_id=%d", req.ProductID)
			handlers.RespondBadRequest(w, msgInvalidBookingDate)

		case errors.Is(err, createBooking.ErrDateTooFarInFuture):
			h.logger.Warn("POST /bookings - Date too far in future: product_id=%d", req.ProductID)
			handlers.RespondBadRequest(w, msgDateTooFar)

		case errors.Is(err, createBooking.ErrInvalidInput):
			h.logger.Warn("POST /bookings - Invalid input: product_id=%d, error=%v", req.ProductID, err)
			handlers.RespondBadRequest(w, msgInvalidRequestBody)

		case errors.Is(err, createBooking.ErrConflict):
			h.logger.Warn("POST /bookings - Write conflict: product_id=%d", req.ProductID)
			handlers.RespondError(w, http.StatusServiceUnavailable, msgConflict)

		default:
			h.logger.Error("POST /bookings - Failed to create booking: product_id=%d, user_id=%d, error=%v",
				req.ProductID, userID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	// Формируем HTTP ответ
	response := FromUseCaseResponse(result)

	h.logger.Info("POST /bookings - Booking created: product_id=%d, date=%s, position=%d",
		result.ProductID, result.Date, result.Position)
	handlers.RespondJSON(w, http.StatusCreated, response)
}
