// Package format renders money and dates for receipts, reports and tags.
package format

import (
	"fmt"
	"time"
)

// Currency renders an amount with a dollar sign and two decimals, e.g. "$18.00".
func Currency(amount float64) string {
	return fmt.Sprintf("$%.2f", amount)
}

// Date renders a date as "MMM d, yyyy", e.g. "May 1, 2026".
func Date(d time.Time) string {
	return d.Format("Jan 2, 2006")
}

// Time renders a transaction timestamp as "m/d/yy h:mmAM", e.g. "5/1/26 3:04PM".
func Time(ts time.Time) string {
	return ts.Format("1/2/06 3:04PM")
}
