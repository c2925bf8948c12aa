// Package importer implements the bulk contact import pipeline: tabular
// parsing, field mapping, phone normalization and upsert-by-phone
// reconciliation with partial-failure accounting.
package importer

import "strings"

// NormalizePhone strips every non-digit character from a raw phone string,
// preserving digit order. The result is the canonical phone key used for
// contact uniqueness. It performs no length or checksum validation; an
// all-formatting input normalizes to the empty string and must be rejected
// by the caller.
func NormalizePhone(raw string) string {
	var sb strings.Builder
	sb.Grow(len(raw))
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}
