package shared

import (
	"fmt"
	"time"
)

// TimeAgo renders a past timestamp relative to now as a human-readable
// string. Counts are truncated, not rounded, so 1h59m reads "1 hour ago".
// Always call with the current instant; the result must not be cached.
func TimeAgo(t, now time.Time) string {
	elapsed := now.Sub(t)
	if elapsed < 0 {
		elapsed = 0
	}

	switch {
	case elapsed < time.Minute:
		return "just now"
	case elapsed < time.Hour:
		return plural(int(elapsed.Minutes()), "minute")
	case elapsed < 24*time.Hour:
		return plural(int(elapsed.Hours()), "hour")
	case elapsed < 7*24*time.Hour:
		return plural(int(elapsed.Hours()/24), "day")
	case elapsed < 30*24*time.Hour:
		return plural(int(elapsed.Hours()/(24*7)), "week")
	case elapsed < 365*24*time.Hour:
		return plural(int(elapsed.Hours()/(24*30)), "month")
	default:
		return plural(int(elapsed.Hours()/(24*365)), "year")
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s ago", unit)
	}
	return fmt.Sprintf("%d %ss ago", n, unit)
}
