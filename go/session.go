package storefrontserver

import (
	"net/http"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// SessionCookieName carries the shopping session for browsers.
	SessionCookieName = "storefront_session"
	// SessionHeader carries the shopping session for API clients.
	SessionHeader = "X-Session-Id"

	sessionContextKey = "storefront.session"
)

var sessionIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,128}$`)

// SessionMiddleware resolves the shopping session from the header or cookie
// and issues a new one when neither holds a usable id. The resolved id is
// echoed in both so clients can pick either.
func SessionMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := strings.TrimSpace(c.GetHeader(SessionHeader))
		if !sessionIDPattern.MatchString(id) {
			id, _ = c.Cookie(SessionCookieName)
		}
		if !sessionIDPattern.MatchString(id) {
			id = uuid.NewString()
		}
		c.Set(sessionContextKey, id)
		c.Header(SessionHeader, id)
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(SessionCookieName, id, 0, "/", "", false, true)
		c.Next()
	}
}

// ShoppingSession returns the session resolved by SessionMiddleware.
func ShoppingSession(c *gin.Context) string {
	return c.GetString(sessionContextKey)
}

// expireSession tells the browser to drop the session cookie.
func expireSession(c *gin.Context) {
	c.Header(SessionHeader, "")
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookieName, "", -1, "/", "", false, true)
}
