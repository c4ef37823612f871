package bridge

import (
	"strconv"
	"strings"
	"time"
)

const (
	msPerSecond = int64(time.Second / time.Millisecond)
	msPerMinute = 60 * msPerSecond
	msPerHour   = 60 * msPerMinute
	msPerDay    = 24 * msPerHour
)

// FormatUptime renders a millisecond duration as "1 days 2 hours 3 minutes 4 seconds ".
// Days, hours and minutes are left out when zero, seconds never are.
func FormatUptime(ms int64) string {
	if ms < 0 {
		ms = 0
	}
	days := ms / msPerDay
	hours := ms % msPerDay / msPerHour
	minutes := ms % msPerHour / msPerMinute
	seconds := ms % msPerMinute / msPerSecond

	out := strings.Builder{}
	write := func(v int64, unit string) {
		out.WriteString(strconv.FormatInt(v, 10))
		out.WriteString(" ")
		out.WriteString(unit)
		out.WriteString(" ")
	}
	if days > 0 {
		write(days, "days")
	}
	if hours > 0 {
		write(hours, "hours")
	}
	if minutes > 0 {
		write(minutes, "minutes")
	}
	write(seconds, "seconds")
	return out.String()
}
