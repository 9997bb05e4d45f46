package keys

import (
	"sort"
	"strings"
)

// NormalizeAddress canonicalizes a wallet address: trimmed, lower-cased,
// with a 0x prefix. AI addresses are returned as-is.
func NormalizeAddress(addr string) string {
	s := strings.ToLower(strings.TrimSpace(addr))
	if s == "" || IsAI(s) {
		return s
	}
	if !strings.HasPrefix(s, "0x") {
		s = "0x" + s
	}
	return s
}

// MatchupKey produces a canonical key for a set of participants. Addresses
// are normalized, sorted and joined with underscores, so the key is the
// same regardless of which side a player was on.
func MatchupKey(addrs []string) string {
	parts := make([]string, 0, len(addrs))
	for _, a := range addrs {
		s := NormalizeAddress(a)
		if s == "" {
			continue
		}
		parts = append(parts, s)
	}
	sort.Strings(parts)
	return strings.Join(parts, "_")
}

// AIAddress is the synthetic address given to an AI-controlled side.
func AIAddress(battleID string) string {
	return "ai:" + battleID
}

// IsAI reports whether the address belongs to an AI side.
func IsAI(addr string) bool {
	return strings.HasPrefix(addr, "ai:")
}
