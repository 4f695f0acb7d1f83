package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/JustJay7/consumer-case-tracker/internal/jagriti"
	"github.com/gin-gonic/gin"
)

// RequestIDKey is the gin context key holding the request id
const RequestIDKey = "request_id"

func asGatewayError(err error) *jagriti.Error {
	var gwErr *jagriti.Error
	if errors.As(err, &gwErr) {
		return gwErr
	}
	return nil
}

// statusFor maps a gateway error kind to the HTTP status returned to clients
func statusFor(err error) int {
	switch jagriti.KindOf(err) {
	case jagriti.KindInvalidInput, jagriti.KindInvalidRequest:
		return http.StatusBadRequest
	case jagriti.KindUpstreamBlocked, jagriti.KindUpstreamMalformed:
		return http.StatusBadGateway
	case jagriti.KindUpstreamUnavailable:
		if errors.Is(err, context.DeadlineExceeded) {
			return http.StatusGatewayTimeout
		}
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

// errorBody renders a gateway error in the response envelope
func errorBody(err error) gin.H {
	body := gin.H{
		"success": false,
		"error":   err.Error(),
	}
	if gwErr := asGatewayError(err); gwErr != nil {
		body["kind"] = gwErr.Kind
		body["error"] = gwErr.Message
		if gwErr.Err != nil {
			body["cause"] = gwErr.Err.Error()
		}
		if gwErr.Kind == jagriti.KindUpstreamMalformed {
			body["raw_preview"] = gwErr.Preview
		}
		if gwErr.Detail != "" {
			body["detail"] = gwErr.Detail
		}
	}
	return body
}

func (h *Handlers) respondError(c *gin.Context, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error("Gateway call failed", "path", c.FullPath(), "status", status, "error", err)
	} else {
		h.logger.Warn("Gateway call rejected", "path", c.FullPath(), "status", status, "error", err)
	}
	c.JSON(status, errorBody(err))
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{
		"success": false,
		"kind":    jagriti.KindInvalidInput,
		"error":   msg,
	})
}
