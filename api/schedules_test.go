package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/vmaslov/flightbooking/internal/domain"
	"github.com/vmaslov/flightbooking/internal/service/inventory"
)

// MockInventoryUseCase is a mock implementation of inventory.InventoryUseCase
type MockInventoryUseCase struct {
	mock.Mock
}

func (m *MockInventoryUseCase) CreateSchedule(ctx context.Context, input inventory.CreateScheduleInput) (*domain.ScheduleInventory, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ScheduleInventory), args.Error(1)
}

func (m *MockInventoryUseCase) Lookup(ctx context.Context, scheduleID string) (*domain.ScheduleInventory, error) {
	args := m.Called(ctx, scheduleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ScheduleInventory), args.Error(1)
}

func (m *MockInventoryUseCase) List(ctx context.Context) ([]domain.ScheduleInventory, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.ScheduleInventory), args.Error(1)
}

func (m *MockInventoryUseCase) Search(ctx context.Context, origin, destination string, date time.Time) ([]domain.ScheduleInventory, error) {
	args := m.Called(ctx, origin, destination, date)
	return args.Get(0).([]domain.ScheduleInventory), args.Error(1)
}

func (m *MockInventoryUseCase) Reserve(ctx context.Context, scheduleID string, seats []string) (*domain.ScheduleInventory, error) {
	args := m.Called(ctx, scheduleID, seats)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ScheduleInventory), args.Error(1)
}

func (m *MockInventoryUseCase) Release(ctx context.Context, scheduleID string, seats []string) (*domain.ScheduleInventory, error) {
	args := m.Called(ctx, scheduleID, seats)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ScheduleInventory), args.Error(1)
}

func testSchedule() *domain.ScheduleInventory {
	return &domain.ScheduleInventory{
		ID:             "S1",
		FlightNumber:   "FL101",
		Origin:         "DEL",
		Destination:    "BOM",
		FlightDate:     time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC),
		DepartureTime:  time.Date(2025, 7, 1, 9, 0, 0, 0, time.UTC),
		ArrivalTime:    time.Date(2025, 7, 1, 11, 0, 0, 0, time.UTC),
		FareCents:      450000,
		TotalSeats:     180,
		BookedSeats:    []string{"1A"},
		AvailableSeats: 179,
		Status:         domain.ScheduleStatusScheduled,
		Version:        3,
	}
}

func TestScheduleHandler_create(t *testing.T) {
	mockService := &MockInventoryUseCase{}
	handler := NewScheduleHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	input := inventory.CreateScheduleInput{
		FlightNumber:  "FL101",
		Origin:        "DEL",
		Destination:   "BOM",
		FlightDate:    time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC),
		DepartureTime: time.Date(2025, 7, 1, 9, 0, 0, 0, time.UTC),
		ArrivalTime:   time.Date(2025, 7, 1, 11, 0, 0, 0, time.UTC),
		FareCents:     450000,
		TotalSeats:    180,
	}
	body, _ := json.Marshal(input)
	c.Request = httptest.NewRequest("POST", "/schedules", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	mockService.On("CreateSchedule", c.Request.Context(), input).Return(testSchedule(), nil)

	handler.create(c)

	assert.Equal(t, http.StatusCreated, w.Code)

	var response scheduleResponse
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Equal(t, "S1", response.ID)
	assert.Equal(t, "FL101", response.FlightNumber)
	assert.Equal(t, "2025-07-01", response.FlightDate)
	assert.Equal(t, 179, response.AvailableSeats)

	mockService.AssertExpectations(t)
}

func TestScheduleHandler_get(t *testing.T) {
	mockService := &MockInventoryUseCase{}
	handler := NewScheduleHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	c.Params = gin.Params{{Key: "id", Value: "S1"}}
	c.Request = httptest.NewRequest("GET", "/schedules/S1", nil)

	mockService.On("Lookup", c.Request.Context(), "S1").Return(testSchedule(), nil)

	handler.get(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var response scheduleResponse
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Equal(t, []string{"1A"}, response.BookedSeats)
}

func TestScheduleHandler_get_notFound(t *testing.T) {
	mockService := &MockInventoryUseCase{}
	handler := NewScheduleHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	c.Params = gin.Params{{Key: "id", Value: "missing"}}
	c.Request = httptest.NewRequest("GET", "/schedules/missing", nil)

	mockService.On("Lookup", c.Request.Context(), "missing").
		Return(nil, domain.NotFound("flight schedule not found"))

	handler.get(c)

	assert.Equal(t, http.StatusNotFound, w.Code)

	var response errorResponse
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Equal(t, string(domain.KindNotFound), response.Code)
}

func TestScheduleHandler_search_listsAllWithoutFilters(t *testing.T) {
	mockService := &MockInventoryUseCase{}
	handler := NewScheduleHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	c.Request = httptest.NewRequest("GET", "/schedules", nil)

	mockService.On("List", c.Request.Context()).Return([]domain.ScheduleInventory{*testSchedule()}, nil)

	handler.search(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var response []scheduleResponse
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Len(t, response, 1)
	mockService.AssertNotCalled(t, "Search")
}

func TestScheduleHandler_search_byRoute(t *testing.T) {
	mockService := &MockInventoryUseCase{}
	handler := NewScheduleHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	c.Request = httptest.NewRequest("GET", "/schedules?origin=DEL&destination=BOM&date=2025-07-01", nil)

	date := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	mockService.On("Search", c.Request.Context(), "DEL", "BOM", date).
		Return([]domain.ScheduleInventory{*testSchedule()}, nil)

	handler.search(c)

	assert.Equal(t, http.StatusOK, w.Code)
	mockService.AssertExpectations(t)
}

func TestScheduleHandler_search_badDate(t *testing.T) {
	mockService := &MockInventoryUseCase{}
	handler := NewScheduleHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	c.Request = httptest.NewRequest("GET", "/schedules?origin=DEL&destination=BOM&date=01-07-2025", nil)

	handler.search(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockService.AssertNotCalled(t, "Search")
}

func TestScheduleHandler_reserveSeats(t *testing.T) {
	mockService := &MockInventoryUseCase{}
	handler := NewScheduleHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	c.Params = gin.Params{{Key: "id", Value: "S1"}}
	body, _ := json.Marshal(seatRequest{Seats: []string{"2B", "2C"}})
	c.Request = httptest.NewRequest("POST", "/schedules/S1/reserve-seats", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	updated := testSchedule()
	updated.BookedSeats = []string{"1A", "2B", "2C"}
	updated.AvailableSeats = 177
	mockService.On("Reserve", c.Request.Context(), "S1", []string{"2B", "2C"}).Return(updated, nil)

	handler.reserveSeats(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var response scheduleResponse
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Equal(t, 177, response.AvailableSeats)
	assert.Contains(t, response.BookedSeats, "2B")

	mockService.AssertExpectations(t)
}

func TestScheduleHandler_reserveSeats_conflict(t *testing.T) {
	mockService := &MockInventoryUseCase{}
	handler := NewScheduleHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	c.Params = gin.Params{{Key: "id", Value: "S1"}}
	body, _ := json.Marshal(seatRequest{Seats: []string{"1A"}})
	c.Request = httptest.NewRequest("POST", "/schedules/S1/reserve-seats", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	mockService.On("Reserve", c.Request.Context(), "S1", []string{"1A"}).
		Return(nil, domain.SeatConflict("seat 1A is already booked"))

	handler.reserveSeats(c)

	assert.Equal(t, http.StatusConflict, w.Code)

	var response errorResponse
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Equal(t, string(domain.KindSeatConflict), response.Code)
}

func TestScheduleHandler_releaseSeats(t *testing.T) {
	mockService := &MockInventoryUseCase{}
	handler := NewScheduleHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	c.Params = gin.Params{{Key: "id", Value: "S1"}}
	body, _ := json.Marshal(seatRequest{Seats: []string{"1A"}})
	c.Request = httptest.NewRequest("POST", "/schedules/S1/release-seats", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	updated := testSchedule()
	updated.BookedSeats = []string{}
	updated.AvailableSeats = 180
	mockService.On("Release", c.Request.Context(), "S1", []string{"1A"}).Return(updated, nil)

	handler.releaseSeats(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var response scheduleResponse
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Equal(t, 180, response.AvailableSeats)
	assert.Empty(t, response.BookedSeats)
}
