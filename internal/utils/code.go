package utils

import (
	"crypto/rand"
	"encoding/base32"
	"time"
)

// NewBookingCode returns RNT-YYYYMMDD-XXXXXX. Uniqueness is enforced by
// the bookings.code index; callers retry on a duplicate key.
func NewBookingCode(now time.Time) string {
	var buf [5]byte
	if _, err := rand.Read(buf[:]); err != nil {
		// crypto/rand does not fail on supported platforms
		panic(err)
	}
	suffix := base32.StdEncoding.WithPadding(base32.NoPadding).EncodeToString(buf[:])[:6]
	return "RNT-" + now.In(time.Local).Format("20060102") + "-" + suffix
}
