package rediskey

import "fmt"

// Session and quota keys (global convention across services)
const (
	SessionPrefix       = "session"
	ExchangeDailyPrefix = "exchange:daily"
)

func NamespaceKey(namespace, key string) string {
	return fmt.Sprintf("%s:%s", namespace, key)
}

// BuildSessionKey returns "session:{token}"
func BuildSessionKey(token string) string {
	return NamespaceKey(SessionPrefix, token)
}

// BuildExchangeDailyKey returns "exchange:daily:{userID}:{yyyymmdd}"
func BuildExchangeDailyKey(userID, day string) string {
	return NamespaceKey(ExchangeDailyPrefix, fmt.Sprintf("%s:%s", userID, day))
}
