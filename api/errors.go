package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/vmaslov/flightbooking/internal/domain"
)

type errorResponse struct {
	Timestamp string `json:"timestamp"`
	Status    int    `json:"status"`
	Error     string `json:"error"`
	Code      string `json:"code"`
}

// writeError renders the stable error body. Internal failures are masked;
// everything else passes its message through.
func writeError(c *gin.Context, err error) {
	kind := domain.KindOf(err)
	status := statusFor(kind)

	message := err.Error()
	if kind == domain.KindInternal {
		message = "internal error"
	}

	c.JSON(status, errorResponse{
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Status:    status,
		Error:     message,
		Code:      string(kind),
	})
}

func statusFor(kind domain.Kind) int {
	switch kind {
	case domain.KindNotFound:
		return http.StatusNotFound
	case domain.KindBadRequest:
		return http.StatusBadRequest
	case domain.KindConflict, domain.KindSeatConflict, domain.KindInsufficientInventory:
		return http.StatusConflict
	case domain.KindTransient:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
