package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/vmaslov/flightbooking/internal/domain"
)

// InventoryClient is the booking service's view of the remote inventory
// service. Reserve is atomic on the inventory side, so a timed-out reserve
// needs no compensation; release is idempotent and safe to retry.
type InventoryClient interface {
	ReserveSeats(ctx context.Context, scheduleID string, seats []string) error
	ReleaseSeats(ctx context.Context, scheduleID string, seats []string) error
}

type seatRequest struct {
	Seats []string `json:"seats"`
}

type errorBody struct {
	Timestamp string `json:"timestamp"`
	Status    int    `json:"status"`
	Error     string `json:"error"`
	Code      string `json:"code"`
}

type HTTPInventoryClient struct {
	baseURL        string
	http           *http.Client
	requestTimeout time.Duration
	releaseRetries int
	logger         zerolog.Logger
}

func NewHTTPInventoryClient(baseURL string, requestTimeout time.Duration, releaseRetries int, logger zerolog.Logger) *HTTPInventoryClient {
	return &HTTPInventoryClient{
		baseURL: baseURL,
		http: &http.Client{
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 100,
			},
		},
		requestTimeout: requestTimeout,
		releaseRetries: releaseRetries,
		logger:         logger,
	}
}

func (c *HTTPInventoryClient) ReserveSeats(ctx context.Context, scheduleID string, seats []string) error {
	return c.post(ctx, fmt.Sprintf("%s/api/v1/schedules/%s/reserve-seats", c.baseURL, scheduleID), seats)
}

// ReleaseSeats retries transient failures: seats must eventually be freed,
// and release is idempotent on the inventory side.
func (c *HTTPInventoryClient) ReleaseSeats(ctx context.Context, scheduleID string, seats []string) error {
	url := fmt.Sprintf("%s/api/v1/schedules/%s/release-seats", c.baseURL, scheduleID)

	var lastErr error
	for attempt := 0; attempt <= c.releaseRetries; attempt++ {
		if attempt > 0 {
			c.logger.Warn().Str("schedule_id", scheduleID).Int("attempt", attempt).Err(lastErr).Msg("retrying seat release")
			select {
			case <-time.After(time.Duration(attempt) * 500 * time.Millisecond):
			case <-ctx.Done():
				return domain.Transient("inventory service unreachable: " + ctx.Err().Error())
			}
		}

		lastErr = c.post(ctx, url, seats)
		if lastErr == nil {
			return nil
		}
		if !domain.IsKind(lastErr, domain.KindTransient) {
			return lastErr
		}
	}
	return lastErr
}

func (c *HTTPInventoryClient) post(ctx context.Context, url string, seats []string) error {
	body, err := json.Marshal(seatRequest{Seats: seats})
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, c.requestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return domain.Transient("inventory service unreachable: " + err.Error())
	}
	defer resp.Body.Close()

	if resp.StatusCode < 300 {
		return nil
	}
	return decodeError(resp)
}

func decodeError(resp *http.Response) error {
	var body errorBody
	if err := json.NewDecoder(resp.Body).Decode(&body); err == nil && body.Code != "" {
		if kind, ok := domain.ParseKind(body.Code); ok {
			return domain.NewError(kind, body.Error)
		}
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return domain.NotFound("flight schedule not found")
	case resp.StatusCode == http.StatusConflict:
		return domain.Conflict("seat reservation conflict")
	case resp.StatusCode >= 500:
		return domain.Transient(fmt.Sprintf("inventory service returned status %d", resp.StatusCode))
	default:
		return domain.Internal(fmt.Sprintf("inventory service returned status %d", resp.StatusCode))
	}
}

var _ InventoryClient = (*HTTPInventoryClient)(nil)
