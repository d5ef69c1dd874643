// Package vouchercode generates human-shareable voucher codes.
//
// The format is eight uppercase alphanumeric characters, a hyphen, and the
// generation time as uppercase base-36 unix seconds (e.g. K3F9QX2A-LK3J2P).
// Codes are displayed and printed by stores, so the format is a semi-stable
// external contract. The timestamp suffix makes codes sortable by issue time
// and keeps the collision probability of the random prefix negligible.
package vouchercode

import (
	"strconv"
	"strings"
	"time"
)

const alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

const prefixLen = 8

// IntSource yields uniform integers in [0, n). *math/rand.Rand satisfies it.
type IntSource interface {
	Intn(n int) int
}

// Generate builds a voucher code for the given generation time. Uniqueness
// is not guaranteed here; the caller must verify against its voucher
// namespace and retry on collision.
func Generate(now time.Time, rng IntSource) string {
	var b strings.Builder
	b.Grow(prefixLen + 1 + 8)
	for i := 0; i < prefixLen; i++ {
		b.WriteByte(alphabet[rng.Intn(len(alphabet))])
	}
	b.WriteByte('-')
	b.WriteString(strings.ToUpper(strconv.FormatInt(now.UTC().Unix(), 36)))
	return b.String()
}
