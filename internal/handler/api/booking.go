package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"hotel-broker/internal/domain/booking"
	reqdto "hotel-broker/internal/handler/dto/request"
	resdto "hotel-broker/internal/handler/dto/response"
	"hotel-broker/internal/handler/httperr"
	"hotel-broker/internal/usecase/commands"
)

type BookingHandler struct {
	bookingCommands commands.BookingCommands
}

func NewBookingHandler(bookingCommands commands.BookingCommands) *BookingHandler {
	return &BookingHandler{
		bookingCommands: bookingCommands,
	}
}

// @Summary Create booking
// @Description Book 1-6 rooms against the upstream inventory API
// @Tags bookings
// @Accept json
// @Produce json
// @Param Idempotency-Key header string false "Partner idempotency key when absent from the body"
// @Param request body reqdto.CreateBookingRequest true "Booking request"
// @Success 201 {object} resdto.BookingResponse
// @Success 200 {object} resdto.BookingResponse "Partial or failed outcome; inspect per-room failures"
// @Failure 400 {object} httperr.Response
// @Failure 500 {object} httperr.Response
// @Router /bookings [post]
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	var req reqdto.CreateBookingRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, bindErr,
			string(booking.CodeValidation), "Invalid request format", nil)
		return
	}

	intent, err := req.ToIntent(c.GetHeader("Idempotency-Key"))
	if err != nil {
		status, code, msg := mapIntentError(err)
		httperr.AbortWithError(c, status, err, code, msg, nil)
		return
	}

	outcome, err := h.bookingCommands.CreateBooking(c.Request.Context(), intent)
	if err != nil {
		if errors.Is(err, commands.ErrInvalidIntent) {
			httperr.AbortWithError(c, http.StatusBadRequest, err,
				string(booking.CodeValidation), "Invalid booking intent", nil)
			return
		}
		httperr.AbortWithError(c, http.StatusInternalServerError, err,
			string(booking.CodeUnknown), "Internal server error", nil)
		return
	}

	status := http.StatusOK
	if outcome.Status == booking.OutcomeSuccess {
		status = http.StatusCreated
	}
	c.JSON(status, resdto.FromOutcome(outcome))
}

// mapIntentError turns a normalization failure into the external status,
// machine code and message.
func mapIntentError(err error) (int, string, string) {
	switch {
	case errors.Is(err, booking.ErrMissingRateRef),
		errors.Is(err, booking.ErrUnknownRatePrefix):
		return http.StatusBadRequest, string(booking.CodeMissingBookingHash),
			"Missing or unrecognized booking hash"
	case errors.Is(err, booking.ErrMissingPartnerKey):
		return http.StatusBadRequest, string(booking.CodeValidation),
			"Partner idempotency key required"
	case errors.Is(err, booking.ErrNoRooms),
		errors.Is(err, booking.ErrTooManyRooms):
		return http.StatusBadRequest, string(booking.CodeValidation),
			"Booking must contain between 1 and 6 rooms"
	case errors.Is(err, booking.ErrInvalidAdults),
		errors.Is(err, booking.ErrInvalidChildAge):
		return http.StatusBadRequest, string(booking.CodeValidation),
			"Invalid guest composition"
	case errors.Is(err, booking.ErrInvalidResidency):
		return http.StatusBadRequest, string(booking.CodeValidation),
			"Invalid residency code"
	case errors.Is(err, booking.ErrInvalidPayment):
		return http.StatusBadRequest, string(booking.CodeValidation),
			"Unsupported payment type"
	case errors.Is(err, booking.ErrInvalidContact):
		return http.StatusBadRequest, string(booking.CodeValidation),
			"Invalid contact info"
	default:
		return http.StatusBadRequest, string(booking.CodeValidation),
			"Invalid booking request"
	}
}
