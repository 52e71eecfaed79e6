package utils

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var idPrinter = message.NewPrinter(language.Indonesian)

// FormatRupiah renders an integer amount with Indonesian thousand separators.
func FormatRupiah(amount int64) string {
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}
	return sign + "Rp" + idPrinter.Sprintf("%d", amount)
}

// ParseRupiahToInt parses "Rp 1.000" or "1,000" into an integer amount of Rupiah.
func ParseRupiahToInt(s string) (int64, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(strings.ToLower(s), "rp")
	s = strings.TrimSpace(s)
	replacer := strings.NewReplacer(".", "", ",", "", " ", "")
	s = replacer.Replace(s)
	if s == "" {
		return 0, fmt.Errorf("nominal rupiah tidak valid")
	}
	return strconv.ParseInt(s, 10, 64)
}

// Percent returns part/whole*100 rounded to one decimal, 0 when whole is 0.
func Percent(part, whole int64) float64 {
	if whole <= 0 {
		return 0
	}
	tenths := (part*1000 + whole/2) / whole
	return float64(tenths) / 10
}
