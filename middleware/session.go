package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	SessionCookie     = "hg_sid"
	SessionContextKey = "sessionID"

	sessionMaxAge = 365 * 24 * 60 * 60
)

// Session makes sure every visitor carries an anonymous hg_sid cookie. The storefront
// script reads it for analytics, so it is not HttpOnly.
func Session(secure bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		sid, err := c.Cookie(SessionCookie)
		if err == nil {
			_, err = uuid.Parse(sid)
		}
		if err != nil {
			sid = uuid.NewString()
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(SessionCookie, sid, sessionMaxAge, "/", "", secure, false)
		}
		c.Set(SessionContextKey, sid)
		c.Next()
	}
}

func GetSessionID(c *gin.Context) string {
	return c.GetString(SessionContextKey)
}
