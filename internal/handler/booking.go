package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/newrelic/go-agent/v3/newrelic"

	"github.com/sarabibeach/booking-intake/internal/model"
	"github.com/sarabibeach/booking-intake/internal/server"
	"github.com/sarabibeach/booking-intake/internal/service"
)

// BookingResponse is the success body of the intake.
type BookingResponse struct {
	Success bool   `json:"success"`
	ID      string `json:"id"`
}

// BookingHandler serves the intake route.
type BookingHandler struct {
	Handler
	intake *service.IntakeService
}

// NewBookingHandler constructs a BookingHandler.
func NewBookingHandler(s *server.Server, intake *service.IntakeService) *BookingHandler {
	return &BookingHandler{
		Handler: NewHandler(s),
		intake:  intake,
	}
}

// Submit runs one intake. Errors are rendered by the global error handler.
func (h *BookingHandler) Submit(c echo.Context, req *model.BookingRequest) (*BookingResponse, error) {
	result, err := h.intake.Submit(c.Request().Context(), req)
	if err != nil {
		return nil, err
	}

	if txn := newrelic.FromContext(c.Request().Context()); txn != nil {
		txn.AddAttribute("booking.customer_id", result.CustomerID)
		txn.AddAttribute("booking.metafields", result.MetafieldsAttached)
		txn.AddAttribute("booking.consent", result.ConsentState)
	}

	return &BookingResponse{Success: true, ID: result.CustomerID}, nil
}

// SubmitHandler is Submit wrapped in the shared request pipeline.
func (h *BookingHandler) SubmitHandler() echo.HandlerFunc {
	return Handle(h.Handler, h.Submit, http.StatusOK, func() *model.BookingRequest {
		return &model.BookingRequest{}
	})
}
