package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/ericogr/chimera-arena/internal/constants"
)

// sessionToken reads the token from the Authorization header, falling back
// to the session cookie for browser clients (websocket upgrades cannot set
// headers).
func sessionToken(c *gin.Context) string {
	if h := c.GetHeader(constants.HeaderAuthorization); strings.HasPrefix(h, constants.BearerPrefix) {
		return strings.TrimSpace(strings.TrimPrefix(h, constants.BearerPrefix))
	}
	if tok, err := c.Cookie(constants.CookieSessionName); err == nil {
		return tok
	}
	return ""
}

// AuthRequired validates the session token and injects the wallet address
// into the context.
func AuthRequired(signer *SessionSigner) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := sessionToken(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{constants.JSONKeyError: constants.ErrAuthRequired})
			return
		}
		addr, err := signer.Verify(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{constants.JSONKeyError: constants.ErrInvalidSession})
			return
		}
		c.Set(constants.ContextKeyAddress, addr)
		c.Next()
	}
}

// callerAddress returns the authenticated wallet address.
func callerAddress(c *gin.Context) string {
	return c.GetString(constants.ContextKeyAddress)
}
