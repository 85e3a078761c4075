package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/vmaslov/flightbooking/internal/domain"
	"github.com/vmaslov/flightbooking/internal/service/inventory"
)

type ScheduleHandler struct {
	service inventory.InventoryUseCase
}

type seatRequest struct {
	Seats []string `json:"seats"`
}

type scheduleResponse struct {
	ID             string   `json:"id"`
	FlightNumber   string   `json:"flight_number"`
	Origin         string   `json:"origin"`
	Destination    string   `json:"destination"`
	FlightDate     string   `json:"flight_date"`
	DepartureTime  string   `json:"departure_time"`
	ArrivalTime    string   `json:"arrival_time"`
	FareCents      int64    `json:"fare_cents"`
	TotalSeats     int      `json:"total_seats"`
	AvailableSeats int      `json:"available_seats"`
	BookedSeats    []string `json:"booked_seats"`
	Status         string   `json:"status"`
}

func NewScheduleHandler(service inventory.InventoryUseCase) *ScheduleHandler {
	return &ScheduleHandler{service: service}
}

func (h *ScheduleHandler) Register(router *gin.RouterGroup) {
	router.POST("", h.create)
	router.GET("", h.search)
	router.GET("/:id", h.get)
	router.POST("/:id/reserve-seats", h.reserveSeats)
	router.POST("/:id/release-seats", h.releaseSeats)
}

func (h *ScheduleHandler) create(c *gin.Context) {
	var req inventory.CreateScheduleInput
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, domain.BadRequest(err.Error()))
		return
	}

	schedule, err := h.service.CreateSchedule(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toScheduleResponse(schedule))
}

func (h *ScheduleHandler) search(c *gin.Context) {
	origin := c.Query("origin")
	destination := c.Query("destination")

	var (
		schedules []domain.ScheduleInventory
		err       error
	)
	if origin == "" && destination == "" {
		schedules, err = h.service.List(c.Request.Context())
	} else {
		var date time.Time
		if raw := c.Query("date"); raw != "" {
			date, err = time.Parse("2006-01-02", raw)
			if err != nil {
				writeError(c, domain.BadRequest("date must be formatted YYYY-MM-DD"))
				return
			}
		}
		schedules, err = h.service.Search(c.Request.Context(), origin, destination, date)
	}
	if err != nil {
		writeError(c, err)
		return
	}

	out := make([]scheduleResponse, 0, len(schedules))
	for i := range schedules {
		out = append(out, toScheduleResponse(&schedules[i]))
	}
	c.JSON(http.StatusOK, out)
}

func (h *ScheduleHandler) get(c *gin.Context) {
	schedule, err := h.service.Lookup(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toScheduleResponse(schedule))
}

func (h *ScheduleHandler) reserveSeats(c *gin.Context) {
	var req seatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, domain.BadRequest(err.Error()))
		return
	}

	schedule, err := h.service.Reserve(c.Request.Context(), c.Param("id"), req.Seats)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toScheduleResponse(schedule))
}

func (h *ScheduleHandler) releaseSeats(c *gin.Context) {
	var req seatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, domain.BadRequest(err.Error()))
		return
	}

	schedule, err := h.service.Release(c.Request.Context(), c.Param("id"), req.Seats)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toScheduleResponse(schedule))
}

func toScheduleResponse(s *domain.ScheduleInventory) scheduleResponse {
	return scheduleResponse{
		ID:             s.ID,
		FlightNumber:   s.FlightNumber,
		Origin:         s.Origin,
		Destination:    s.Destination,
		FlightDate:     s.FlightDate.Format("2006-01-02"),
		DepartureTime:  s.DepartureTime.Format(time.RFC3339),
		ArrivalTime:    s.ArrivalTime.Format(time.RFC3339),
		FareCents:      s.FareCents,
		TotalSeats:     s.TotalSeats,
		AvailableSeats: s.AvailableSeats,
		BookedSeats:    s.BookedSeats,
		Status:         string(s.Status),
	}
}
