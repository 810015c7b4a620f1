package response

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// The public failure contract is a single flat shape. Every pipeline
// failure collapses to {"error": ...}; an upstream rejection additionally
// carries the raw upstream body in "detail". Classification of what went
// wrong stays internal to the service layer and its logs.
type errorBody struct {
	Error string `json:"error"`
}

type errorDetailBody struct {
	Error  string `json:"error"`
	Detail string `json:"detail"`
}

// Error reports a pipeline failure with the uniform single-field body.
func Error(c *gin.Context, msg string) {
	c.JSON(http.StatusInternalServerError, errorBody{Error: msg})
}

// ErrorWithDetail reports an upstream rejection, attaching the raw upstream
// response body for diagnosis. Detail is serialized even when empty.
func ErrorWithDetail(c *gin.Context, msg, detail string) {
	c.JSON(http.StatusInternalServerError, errorDetailBody{Error: msg, Detail: detail})
}

// AbortError stops the middleware chain with the uniform body and the
// given status.
func AbortError(c *gin.Context, statusCode int, msg string) {
	c.AbortWithStatusJSON(statusCode, errorBody{Error: msg})
}

// RecoveryHandler converts an in-flight panic into the uniform failure
// body. Wired through gin.CustomRecovery in the router.
func RecoveryHandler(c *gin.Context, recovered any) {
	AbortError(c, http.StatusInternalServerError, fmt.Sprintf("%v", recovered))
}

// ContextKeyRequestID is the Gin context key for the request ID.
const ContextKeyRequestID = "request_id"

// RequestIDMiddleware tags every request with an ID for log correlation.
// An inbound X-Request-ID is honored; otherwise a UUID is generated. The
// ID travels on the response header only; the fixed body shapes above
// never carry it.
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		reqID := c.GetHeader("X-Request-ID")
		if reqID == "" {
			reqID = uuid.New().String()
		}
		c.Set(ContextKeyRequestID, reqID)
		c.Header("X-Request-ID", reqID)
		c.Next()
	}
}
