// Package middleware holds the gin middleware of the quotes API: request
// identifiers, logging, error forwarding, recovery, timeouts and auth.
package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/jsamuelsen/quotes-api/internal/platform/logging"
)

const (
	// HeaderRequestID identifies one HTTP request.
	HeaderRequestID = "X-Request-ID"

	// HeaderCorrelationID names a business transaction that may span several
	// services, unlike the per-request X-Request-ID.
	HeaderCorrelationID = "X-Correlation-ID"
)

// propagatedID is one identifier header echoed back to the caller.
type propagatedID struct {
	header string

	// withLogger adds the ID to the context logger.
	withLogger func(ctx context.Context, id string) context.Context
}

var (
	requestID     = propagatedID{HeaderRequestID, logging.WithRequestID}
	correlationID = propagatedID{HeaderCorrelationID, logging.WithCorrelationID}
)

// handler takes the ID from the request header or generates a UUID v4. The
// ID is echoed in the response and attached to the request's context logger,
// so every later log line carries it.
func (p propagatedID) handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(p.header)
		if id == "" {
			id = uuid.NewString()
		}

		c.Header(p.header, id)
		c.Request = c.Request.WithContext(p.withLogger(c.Request.Context(), id))

		c.Next()
	}
}

// RequestID propagates X-Request-ID.
func RequestID() gin.HandlerFunc { return requestID.handler() }

// CorrelationID propagates X-Correlation-ID, starting a new transaction when
// the caller sent none.
func CorrelationID() gin.HandlerFunc { return correlationID.handler() }
