// Package format renders amounts and dates the way tenants read them in messages.
package format

import (
	"math"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// DisplayDateLayout is the dd/mm/yyyy layout used in Peru.
const DisplayDateLayout = "02/01/2006"

var printer = message.NewPrinter(language.English)

// Amount groups thousands with commas and keeps up to two decimals: 3200 -> "3,200", 950.5 -> "950.50".
func Amount(v float64) string {
	if v == math.Trunc(v) {
		return printer.Sprintf("%d", int64(v))
	}
	return printer.Sprintf("%.2f", v)
}

// Date formats a civil date as dd/mm/yyyy.
func Date(t time.Time) string {
	return t.Format(DisplayDateLayout)
}
