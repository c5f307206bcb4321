package id

import (
	"crypto/rand"
	"encoding/hex"
	"regexp"
	"strings"
)

// Sentinel is the reserved "none" identifier (lender of an unfunded loan).
var Sentinel = strings.Repeat("0", 32)

var reHex32 = regexp.MustCompile(`^[a-f0-9]{32}$`)

// NewID32 returns exactly 32 hex characters (no separators/prefixes).
func NewID32() string {
	b := make([]byte, 16)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

// IsHex32 reports whether s is a 32-char lowercase hex identifier.
func IsHex32(s string) bool { return reHex32.MatchString(s) }

// IsParticipant reports whether s can identify a caller: well formed and not the sentinel.
func IsParticipant(s string) bool { return IsHex32(s) && s != Sentinel }
