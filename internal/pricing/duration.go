package pricing

import (
	"time"

	"carrental/internal/domain"
)

// DurationDays counts whole calendar days between pickup and return.
// A same-day rental is billed as one day; time of day is ignored.
func DurationDays(pickup, ret time.Time) (int, error) {
	if pickup.IsZero() || ret.IsZero() {
		return 0, domain.ValidationError{Field: "date", Msg: "tanggal ambil dan kembali wajib diisi"}
	}
	p := time.Date(pickup.Year(), pickup.Month(), pickup.Day(), 0, 0, 0, 0, time.UTC)
	r := time.Date(ret.Year(), ret.Month(), ret.Day(), 0, 0, 0, 0, time.UTC)
	if r.Before(p) {
		return 0, domain.ValidationError{Field: "returnDate", Msg: "tanggal kembali sebelum tanggal ambil"}
	}
	days := int(r.Sub(p).Hours() / 24)
	if days < 1 {
		days = 1
	}
	return days, nil
}
