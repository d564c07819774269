package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"
)

type channelKey struct{}

var ChannelContextKey = channelKey{}

func deriveChannelFromClient(client string) string {
	switch {
	case strings.HasPrefix(client, "app"):
		return "app"
	case strings.HasPrefix(client, "web"):
		return "web"
	case strings.HasPrefix(client, "partner"):
		return "partner"
	default:
		return "api"
	}
}

// Channel tags the request context with the originating client channel
// based on the X-Client header. Transactions record it for audit.
func Channel() gin.HandlerFunc {
	return func(c *gin.Context) {
		channel := deriveChannelFromClient(c.GetHeader("X-Client"))
		ctx := context.WithValue(c.Request.Context(), ChannelContextKey, channel)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// GetChannel returns the current channel (default "api").
func GetChannel(ctx context.Context) string {
	ch, ok := ctx.Value(ChannelContextKey).(string)
	if !ok {
		return "api"
	}
	return ch
}
