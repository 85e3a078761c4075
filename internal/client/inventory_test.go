package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmaslov/flightbooking/internal/domain"
)

func newTestClient(baseURL string, retries int) *HTTPInventoryClient {
	return NewHTTPInventoryClient(baseURL, 5*time.Second, retries, zerolog.Nop())
}

func TestHTTPInventoryClient_ReserveSeats_Success(t *testing.T) {
	var gotPath string
	var gotBody seatRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := newTestClient(server.URL, 0)
	err := client.ReserveSeats(context.Background(), "S1", []string{"1A", "1B"})

	require.NoError(t, err)
	assert.Equal(t, "/api/v1/schedules/S1/reserve-seats", gotPath)
	assert.Equal(t, []string{"1A", "1B"}, gotBody.Seats)
}

func TestHTTPInventoryClient_ReserveSeats_MapsErrorCode(t *testing.T) {
	testCases := []struct {
		name         string
		status       int
		code         string
		expectedKind domain.Kind
	}{
		{"seat conflict", http.StatusConflict, "SEAT_CONFLICT", domain.KindSeatConflict},
		{"insufficient inventory", http.StatusConflict, "INSUFFICIENT_INVENTORY", domain.KindInsufficientInventory},
		{"not found", http.StatusNotFound, "NOT_FOUND", domain.KindNotFound},
		{"bad request", http.StatusBadRequest, "BAD_REQUEST", domain.KindBadRequest},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tc.status)
				json.NewEncoder(w).Encode(map[string]interface{}{
					"timestamp": time.Now().Format(time.RFC3339),
					"status":    tc.status,
					"error":     "something went wrong",
					"code":      tc.code,
				})
			}))
			defer server.Close()

			client := newTestClient(server.URL, 0)
			err := client.ReserveSeats(context.Background(), "S1", []string{"1A"})

			assert.Equal(t, tc.expectedKind, domain.KindOf(err))
			assert.Contains(t, err.Error(), "something went wrong")
		})
	}
}

func TestHTTPInventoryClient_ReserveSeats_FallsBackOnStatus(t *testing.T) {
	// No machine-readable code in the body, only the HTTP status.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusNotFound)
	}))
	defer server.Close()

	client := newTestClient(server.URL, 0)
	err := client.ReserveSeats(context.Background(), "S1", []string{"1A"})

	assert.Equal(t, domain.KindNotFound, domain.KindOf(err))
}

func TestHTTPInventoryClient_ReserveSeats_ServerErrorIsTransient(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := newTestClient(server.URL, 0)
	err := client.ReserveSeats(context.Background(), "S1", []string{"1A"})

	assert.Equal(t, domain.KindTransient, domain.KindOf(err))
}

func TestHTTPInventoryClient_ReserveSeats_NetworkErrorIsTransient(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	client := newTestClient(server.URL, 0)
	err := client.ReserveSeats(context.Background(), "S1", []string{"1A"})

	assert.Equal(t, domain.KindTransient, domain.KindOf(err))
}

func TestHTTPInventoryClient_ReleaseSeats_RetriesTransient(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/schedules/S1/release-seats", r.URL.Path)
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := newTestClient(server.URL, 3)
	err := client.ReleaseSeats(context.Background(), "S1", []string{"1A"})

	require.NoError(t, err)
	assert.Equal(t, int32(3), calls.Load())
}

func TestHTTPInventoryClient_ReleaseSeats_StopsOnPermanentError(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status": http.StatusNotFound,
			"error":  "flight schedule not found",
			"code":   "NOT_FOUND",
		})
	}))
	defer server.Close()

	client := newTestClient(server.URL, 3)
	err := client.ReleaseSeats(context.Background(), "S1", []string{"1A"})

	assert.Equal(t, domain.KindNotFound, domain.KindOf(err))
	assert.Equal(t, int32(1), calls.Load())
}

func TestHTTPInventoryClient_ReleaseSeats_ExhaustsRetries(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := newTestClient(server.URL, 2)
	err := client.ReleaseSeats(context.Background(), "S1", []string{"1A"})

	assert.Equal(t, domain.KindTransient, domain.KindOf(err))
	assert.Equal(t, int32(3), calls.Load())
}

func TestHTTPInventoryClient_ReleaseSeats_ContextCancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := newTestClient(server.URL, 3)
	err := client.ReleaseSeats(ctx, "S1", []string{"1A"})

	assert.Equal(t, domain.KindTransient, domain.KindOf(err))
}
