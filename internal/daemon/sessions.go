package daemon

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/thand-io/components/internal/config"
)

func getSessionStore(cfg *config.Config) sessions.Store {
	store := cookie.NewStore([]byte(cfg.GetSessionSecret()))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   int(cfg.Session.MaxAge.Seconds()),
		HttpOnly: true,
		Secure:   cfg.Session.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	return store
}

// saveSession persists the session cookie and answers 500 when that fails.
// It returns false when the handler should stop.
func (s *Server) saveSession(c *gin.Context, session sessions.Session) bool {
	if err := session.Save(); err != nil {
		s.writeError(c, http.StatusInternalServerError, "Failed to save session", err)
		return false
	}
	return true
}
