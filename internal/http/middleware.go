package httpapi

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"medicare/internal/domain"
	"medicare/internal/session"
)

const (
	sessionCookie = "medicare_session"
	sessionKey    = "session"
)

// requestLogger logs one line per request with logrus.
func requestLogger(log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		fields := logrus.Fields{
			"method":  c.Request.Method,
			"path":    c.Request.URL.Path,
			"status":  status,
			"latency": time.Since(start).String(),
			"ip":      c.ClientIP(),
		}
		if v, ok := c.Get(sessionKey); ok {
			fields["session"] = v.(*session.Session).ID
		}
		entry := log.WithFields(fields)
		if len(c.Errors) > 0 {
			entry = entry.WithError(c.Errors.Last())
		}
		switch {
		case status >= http.StatusInternalServerError:
			entry.Error("request")
		case status >= http.StatusBadRequest:
			entry.Warn("request")
		default:
			entry.Info("request")
		}
	}
}

// withSession resolves the visitor's session from the signed cookie, or
// starts an anonymous one, and holds it locked until the request is done.
func (s *Server) withSession(c *gin.Context) {
	sess := s.loadSession(c)
	sess.Lock()
	defer sess.Unlock()
	c.Set(sessionKey, sess)
	c.Next()
}

func (s *Server) loadSession(c *gin.Context) *session.Session {
	if token, err := c.Cookie(sessionCookie); err == nil {
		if id, err := s.signer.Verify(token); err == nil {
			if sess, ok := s.sessions.Get(id); ok {
				return sess
			}
		}
	}

	sess := s.sessions.New()
	token, err := s.signer.Sign(sess.ID)
	if err != nil {
		// serve the page with a session that will not survive the request
		s.log.WithError(err).Error("sign session cookie")
		return sess
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(sessionCookie, token, int(s.signer.TTL().Seconds()), "/", "", s.secureCookie, true)
	return sess
}

func currentSession(c *gin.Context) *session.Session {
	return c.MustGet(sessionKey).(*session.Session)
}

// requireLogin redirects anonymous visitors to the login page.
func (s *Server) requireLogin(c *gin.Context) {
	sess := currentSession(c)
	if !sess.LoggedIn() {
		sess.SetFlash(flashInfo, "please log in to continue")
		c.Redirect(http.StatusFound, "/login")
		c.Abort()
		return
	}
	c.Next()
}

func (s *Server) requireAdmin(c *gin.Context) {
	if currentSession(c).Role != domain.RoleAdmin {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin only"})
		return
	}
	c.Next()
}
