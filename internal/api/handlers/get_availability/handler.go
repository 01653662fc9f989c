package get_availability

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/m04kA/TLP-LaunchService/internal/api/handlers"
	getAvailability "github.com/m04kA/TLP-LaunchService/internal/usecase/get_availability"
)

const (
	msgInvalidProductID = "некорректный параметр productId"
	msgInvalidDays      = "некорректный параметр days"
	msgInvalidInput     = "некорректные параметры запроса"
)

type Handler struct {
	useCase GetAvailabilityUseCase
	logger  Logger
}

func NewHandler(useCase GetAvailabilityUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/availability?productId=123&days=30
// Оба параметра опциональны
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	req := &getAvailability.Request{}

	if raw := r.URL.Query().Get("productId"); raw != "" {
		productID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || productID <= 0 {
			h.logger.Warn("GET /availability - Invalid productId: %q", raw)
			handlers.RespondBadRequest(w, msgInvalidProductID)
			return
		}
		req.ProductID = productID
	}

	if raw := r.URL.Query().Get("days"); raw != "" {
		days, err := strconv.Atoi(raw)
		if err != nil || days <= 0 {
			h.logger.Warn("GET /availability - Invalid days: %q", raw)
			handlers.RespondBadRequest(w, msgInvalidDays)
			return
		}
		req.Days = days
	}

	result, err := h.useCase.Execute(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, getAvailability.ErrInvalidInput):
			h.logger.Warn("GET /availability - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("GET /availability - Failed to get availability: %v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /availability - OK: window [%s, %s]", result.From, result.To)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
