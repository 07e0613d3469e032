// Package dedup builds the external identities that define what counts as
// "the same event" for each notification type.
package dedup

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// MoverKey identifies a mover batch: the sorted, comma-joined qualifying
// symbols plus the run's calendar date. The same top movers on the same day
// are one event no matter how many runs see them.
func MoverKey(symbols []string, day time.Time) string {
	sorted := make([]string, len(symbols))
	copy(sorted, symbols)
	sort.Strings(sorted)
	return strings.Join(sorted, ",") + "|" + day.Format(dateLayout)
}

// NewsKey identifies an article by a content hash of its canonical URL.
func NewsKey(url string) string {
	sum := sha256.Sum256([]byte(url))
	return hex.EncodeToString(sum[:])
}

// RecapKey identifies a daily recap by calendar date alone: at most one
// recap per day regardless of content.
func RecapKey(day time.Time) string {
	return day.Format(dateLayout)
}
