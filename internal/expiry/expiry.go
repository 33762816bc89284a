package expiry

import (
	"fmt"
	"time"
)

// MMYYYY returns the expiry encoded as "MM/YYYY", the format the acquiring
// bank expects on the wire.
func MMYYYY(month, year int) string {
	return fmt.Sprintf("%02d/%d", month, year)
}

// InFuture reports whether a card expiring in the given month is still valid
// at now. A card is valid through the last instant of its expiry month.
func InFuture(month, year int, now time.Time) bool {
	firstOfNextMonth := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC).AddDate(0, 1, 0)
	return now.Before(firstOfNextMonth)
}
