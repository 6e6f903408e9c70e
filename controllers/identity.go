package controllers

import (
	"github.com/gin-gonic/gin"

	"retropod/resolver"
)

// requestIdentity derives the session key and persistence identity from the
// request. A signed-in user sends X-User-ID and gets a persistent session;
// anonymous browsers are keyed by X-Session-ID (client IP as a last resort)
// and get an in-memory session that dies with the process.
func requestIdentity(ctx *gin.Context) (key, userID string) {
	userID = ctx.GetHeader("X-User-ID")
	if userID != "" {
		return "user:" + userID, userID
	}
	sessionID := ctx.GetHeader("X-Session-ID")
	if sessionID == "" {
		sessionID = ctx.ClientIP()
	}
	return "anon:" + sessionID, ""
}

// resolutionStatus maps a resolution failure kind to an HTTP status.
func resolutionStatus(err error) int {
	switch resolver.KindOf(err) {
	case resolver.KindNotFound, resolver.KindEmptyPlaylist:
		return 404
	case resolver.KindQuotaExceeded:
		return 429
	case resolver.KindMissingCredential:
		return 503
	default:
		return 502
	}
}

func resolutionErrorJSON(ctx *gin.Context, err error) {
	ctx.JSON(resolutionStatus(err), gin.H{
		"error": resolver.UserMessage(err),
		"kind":  string(resolver.KindOf(err)),
	})
}
