package daemon

import (
	"crypto/subtle"
	"errors"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/thand-io/components/internal/common"
	"github.com/thand-io/components/internal/models"
)

const (
	// csrfSessionKey is the session entry holding the CSRF token
	csrfSessionKey = "_components_csrf"
	CSRFHeader     = "X-CSRF-Token"

	csrfTokenLength = 43
)

var errCSRFMismatch = errors.New("missing or invalid " + CSRFHeader + " header")

// csrfToken returns the session CSRF token, creating it when absent. The
// boolean is true when a new token was stored and the session needs saving.
func csrfToken(session sessions.Session) (string, bool, error) {

	if stored, ok := session.Get(csrfSessionKey).(string); ok && len(stored) > 0 {
		return stored, false, nil
	}

	token, err := common.GenerateSecureRandomString(csrfTokenLength)
	if err != nil {
		return "", false, err
	}

	session.Set(csrfSessionKey, token)
	return token, true, nil
}

// getCSRFToken hands out the token the token mutation routes expect in the
// X-CSRF-Token header when session.csrf is enabled.
//
//	@Summary	CSRF token for the session
//	@Tags		tokens
//	@Produce	json
//	@Success	200	{object}	map[string]string
//	@Router		/api/v1/csrf [get]
func (s *Server) getCSRFToken(c *gin.Context) {

	session := sessions.Default(c)

	token, created, err := csrfToken(session)
	if err != nil {
		s.writeError(c, http.StatusInternalServerError, "Failed to generate CSRF token", err)
		return
	}

	if created && !s.saveSession(c, session) {
		return
	}

	c.JSON(http.StatusOK, gin.H{"csrf_token": token})
}

// CSRFMiddleware rejects unsafe requests whose X-CSRF-Token header does
// not match the session token. The token lives for the whole session.
func CSRFMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {

		switch c.Request.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			c.Next()
			return
		}

		stored, _ := sessions.Default(c).Get(csrfSessionKey).(string)
		provided := c.GetHeader(CSRFHeader)

		if len(stored) == 0 || subtle.ConstantTimeCompare([]byte(stored), []byte(provided)) != 1 {
			LogWithCorrelation(c).WithField("path", c.Request.URL.Path).
				Warnln("CSRF validation failed")
			c.AbortWithStatusJSON(http.StatusForbidden, models.ErrorResponse{
				Code:    http.StatusForbidden,
				Title:   "Forbidden",
				Message: errCSRFMismatch.Error(),
			})
			return
		}

		c.Next()
	}
}
