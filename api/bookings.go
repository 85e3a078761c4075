package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/vmaslov/flightbooking/internal/domain"
	"github.com/vmaslov/flightbooking/internal/service/booking"
)

type BookingHandler struct {
	service booking.BookingUseCase
}

type bookingResponse struct {
	PNR          string             `json:"pnr"`
	ContactEmail string             `json:"contact_email"`
	ScheduleIDs  []string           `json:"schedule_ids"`
	Passengers   []domain.Passenger `json:"passengers"`
	Status       string             `json:"status"`
	CreatedAt    string             `json:"created_at"`
}

type cancelResponse struct {
	Message string `json:"message"`
}

func NewBookingHandler(service booking.BookingUseCase) *BookingHandler {
	return &BookingHandler{service: service}
}

func (h *BookingHandler) Register(router *gin.RouterGroup) {
	router.POST("", h.create)
	router.GET("", h.listByEmail)
	router.GET("/:pnr", h.get)
	router.DELETE("/:pnr", h.cancel)
}

func (h *BookingHandler) create(c *gin.Context) {
	var req booking.CreateBookingInput
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, domain.BadRequest(err.Error()))
		return
	}

	ticket, err := h.service.CreateBooking(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toTicketResponse(ticket))
}

func (h *BookingHandler) get(c *gin.Context) {
	b, err := h.service.GetBookingByPnr(c.Request.Context(), c.Param("pnr"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toBookingResponse(b))
}

func (h *BookingHandler) listByEmail(c *gin.Context) {
	email := c.Query("email")
	if email == "" {
		writeError(c, domain.BadRequest("email query parameter is required"))
		return
	}

	bookings, err := h.service.GetBookingsByContact(c.Request.Context(), email)
	if err != nil {
		writeError(c, err)
		return
	}

	out := make([]bookingResponse, 0, len(bookings))
	for i := range bookings {
		out = append(out, toBookingResponse(&bookings[i]))
	}
	c.JSON(http.StatusOK, out)
}

func (h *BookingHandler) cancel(c *gin.Context) {
	message, err := h.service.CancelBooking(c.Request.Context(), c.Param("pnr"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, cancelResponse{Message: message})
}

func toBookingResponse(b *domain.Booking) bookingResponse {
	return bookingResponse{
		PNR:          b.PNR,
		ContactEmail: b.ContactEmail,
		ScheduleIDs:  b.ScheduleIDs,
		Passengers:   b.Passengers,
		Status:       string(b.Status),
		CreatedAt:    b.CreatedAt.Format(time.RFC3339),
	}
}
