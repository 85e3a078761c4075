package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/vmaslov/flightbooking/internal/domain"
	"github.com/vmaslov/flightbooking/internal/service/tickets"
)

type TicketHandler struct {
	service tickets.TicketUseCase
}

type ticketResponse struct {
	PNR        string             `json:"pnr"`
	BookingID  string             `json:"booking_id"`
	ScheduleID string             `json:"schedule_id"`
	Passengers []domain.Passenger `json:"passengers"`
	Status     string             `json:"status"`
	IssuedAt   string             `json:"issued_at"`
	CreatedAt  string             `json:"created_at"`
}

func NewTicketHandler(service tickets.TicketUseCase) *TicketHandler {
	return &TicketHandler{service: service}
}

func (h *TicketHandler) Register(router *gin.RouterGroup) {
	router.GET("/:pnr", h.get)
}

func (h *TicketHandler) get(c *gin.Context) {
	ticket, err := h.service.GetByPnr(c.Request.Context(), c.Param("pnr"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toTicketResponse(ticket))
}

func toTicketResponse(t *domain.Ticket) ticketResponse {
	return ticketResponse{
		PNR:        t.PNR,
		BookingID:  t.BookingID,
		ScheduleID: t.ScheduleID,
		Passengers: t.Passengers,
		Status:     string(t.Status),
		IssuedAt:   t.IssuedAt.Format(time.RFC3339),
		CreatedAt:  t.CreatedAt.Format(time.RFC3339),
	}
}
