package daemon

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	CorrelationHeader = "X-Correlation-ID"

	// correlationIDKey is both the gin context key and the log field name
	correlationIDKey = "correlation_id"
)

// CorrelationMiddleware reuses the caller's X-Correlation-ID or generates
// one, stores it on the context and echoes it in the response.
func CorrelationMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {

		correlationID := c.GetHeader(CorrelationHeader)
		if len(correlationID) == 0 {
			correlationID = uuid.New().String()
		}

		c.Set(correlationIDKey, correlationID)
		c.Header(CorrelationHeader, correlationID)

		c.Next()
	}
}

func GetCorrelationID(c *gin.Context) string {
	if id, exists := c.Get(correlationIDKey); exists {
		if strID, ok := id.(string); ok {
			return strID
		}
	}
	return ""
}

// LogWithCorrelation returns a logger carrying the request correlation id,
// which the logs endpoint reports separately.
func LogWithCorrelation(c *gin.Context) *logrus.Entry {
	return logrus.WithField(correlationIDKey, GetCorrelationID(c))
}
