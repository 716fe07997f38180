package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/codyseavey/tcg-catalog/internal/services"
)

// SessionHeader carries the browsing session id in both directions
const SessionHeader = "X-Session-ID"

const sessionContextKey = "session"

// SessionMiddleware resolves the caller's session, creating one when the header
// is absent or unknown, and echoes its id back.
func SessionMiddleware(store *services.SessionStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := store.Get(c.GetHeader(SessionHeader))
		c.Header(SessionHeader, sess.ID)
		c.Set(sessionContextKey, sess)
		c.Next()
	}
}

func currentSession(c *gin.Context) *services.Session {
	return c.MustGet(sessionContextKey).(*services.Session)
}
