package utils

import "time"

// NowUTC is the clock behind every generated record. Components keep it
// in a field so tests can pin it.
func NowUTC() time.Time {
	return time.Now().UTC()
}

// Timestamp formats t the way the backend writes created_at fields.
func Timestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
