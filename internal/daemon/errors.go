package daemon

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/thand-io/components/internal/api"
	"github.com/thand-io/components/internal/models"
)

// writeError answers with a models.ErrorResponse. Details are never shown
// for a 500, they only go to the logs.
func (s *Server) writeError(c *gin.Context, code int, message string, err ...error) {

	log := LogWithCorrelation(c).WithField("code", code)

	var messages []string
	if len(err) == 0 {
		log.Errorln(message)
	}
	for _, e := range err {
		if e == nil {
			continue
		}
		log.WithError(e).Errorln(message)
		messages = append(messages, e.Error())
	}

	errorMessage := fmt.Sprintf(
		"An internal error occurred. Details are available in the logs at: %s.",
		time.Now().UTC().Format("2006-01-02 15:04:05"))

	if code != http.StatusInternalServerError {
		errorMessage = strings.Join(messages, ". ")
	}

	c.AbortWithStatusJSON(code, models.ErrorResponse{
		Code:    code,
		Title:   message,
		Message: errorMessage,
	})
}

// writeFailure answers a backend failure with the status api.HTTPStatus
// picks for it.
func (s *Server) writeFailure(c *gin.Context, failure api.Failure) {

	s.recordFailure(failure.Error.Kind)

	status := api.HTTPStatus(failure)

	LogWithCorrelation(c).WithFields(logrus.Fields{
		"kind":    failure.Error.Kind,
		"status":  failure.Error.StatusCode,
		"details": failure.Error.Details,
	}).Warnln("Backend request failed")

	message := failure.Error.Message
	if status == http.StatusInternalServerError {
		message = "An internal error occurred."
	}

	c.AbortWithStatusJSON(status, models.ErrorResponse{
		Code:    status,
		Title:   failureTitle(failure.Error.Kind),
		Message: message,
	})
}

func failureTitle(kind api.ErrorKind) string {
	switch kind {
	case api.ErrorKindTimeout:
		return "Backend request timed out"
	case api.ErrorKindConnectionError:
		return "Backend unavailable"
	case api.ErrorKindDecodeError:
		return "Unexpected backend response"
	case api.ErrorKindHttpError:
		return "Backend request failed"
	default:
		return "Internal Server Error"
	}
}

func (s *Server) recordFailure(kind api.ErrorKind) {
	s.failuresMu.Lock()
	defer s.failuresMu.Unlock()
	s.failures[kind.String()]++
}

func (s *Server) failureCounts() map[string]int64 {
	s.failuresMu.Lock()
	defer s.failuresMu.Unlock()
	counts := make(map[string]int64, len(s.failures))
	for kind, count := range s.failures {
		counts[kind] = count
	}
	return counts
}
