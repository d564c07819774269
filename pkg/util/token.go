package util

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// GenerateSessionToken returns an opaque bearer token for the session store.
func GenerateSessionToken() string {
	return strings.ReplaceAll(uuid.NewString()+uuid.NewString(), "-", "")
}

// GenerateUserID returns "user_" + 12 hex chars.
func GenerateUserID() string {
	b := make([]byte, 6)
	_, _ = rand.Read(b)
	return "user_" + hex.EncodeToString(b)
}

// GenerateReferralCode returns "MN" + 8 uppercase hex chars.
func GenerateReferralCode() string {
	b := make([]byte, 4)
	_, _ = rand.Read(b)
	return "MN" + strings.ToUpper(hex.EncodeToString(b))
}

// GenerateEntityID returns "{prefix}_" + 12 hex chars.
func GenerateEntityID(prefix string) string {
	b := make([]byte, 6)
	_, _ = rand.Read(b)
	return fmt.Sprintf("%s_%s", prefix, hex.EncodeToString(b))
}
