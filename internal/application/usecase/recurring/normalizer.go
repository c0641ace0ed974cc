// Package recurring contains the recurring transaction detection use cases.
package recurring

import (
	"regexp"
	"strings"
)

// unknownMerchant is the clustering key for transactions without a usable
// merchant label.
const unknownMerchant = "unknown"

var nonAlphanumeric = regexp.MustCompile(`[^a-z0-9\s]+`)

// NormalizeMerchantName canonicalizes a raw merchant label into a stable
// clustering key: lowercase, punctuation stripped, whitespace collapsed.
// The key is used only for grouping and matching, never as a display name.
func NormalizeMerchantName(raw string) string {
	normalized := strings.ToLower(strings.TrimSpace(raw))
	normalized = nonAlphanumeric.ReplaceAllString(normalized, "")
	normalized = strings.Join(strings.Fields(normalized), " ")

	if normalized == "" {
		return unknownMerchant
	}
	return normalized
}
