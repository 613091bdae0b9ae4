package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/quotes-api/internal/adapters/http/dto"
)

// HandlerFunc is a gin handler that reports failure by returning an error
// instead of writing an error response itself.
type HandlerFunc func(c *gin.Context) error

// ForwardErrors adapts fn to gin. A returned error is recorded on the gin
// context and the chain is aborted; ErrorHandler renders it.
func ForwardErrors(fn HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := fn(c); err != nil {
			_ = c.Error(err)
			c.Abort()
		}
	}
}

// ErrorHandler renders the last error recorded on the gin context using the
// shared error envelope. It must be registered before the handlers whose
// errors it renders. Responses already written are left alone.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		dto.HandleError(c, c.Errors.Last().Err)
	}
}

// NoRoute renders unknown paths with the error envelope.
func NoRoute() gin.HandlerFunc {
	return func(c *gin.Context) {
		dto.AbortWithCode(c, dto.ErrorCodeNotFound, "route "+c.Request.URL.Path+" not found")
	}
}

// NoMethod renders a known path requested with an unsupported method.
func NoMethod() gin.HandlerFunc {
	return func(c *gin.Context) {
		dto.AbortWithCode(c, dto.ErrorCodeMethod, "method "+c.Request.Method+" not allowed")
	}
}
