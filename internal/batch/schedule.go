// Package batch drives the hourly briefing run: the per-user schedule gate,
// credential refresh, meeting fan-out, digest send, and run logging.
package batch

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/madeeas/meetingprep/internal/store"
)

// fallbackOffsetHours is the fixed offset applied when a user's timezone
// name cannot be resolved: UTC+4, matching the Asia/Dubai default of new
// users.
const fallbackOffsetHours = 4

// Location resolves an IANA timezone name, falling back to the fixed UTC+4
// zone for empty or unknown names.
func Location(tz string) *time.Location {
	if tz != "" {
		if loc, err := time.LoadLocation(tz); err == nil {
			return loc
		}
	}
	return time.FixedZone("fallback", fallbackOffsetHours*3600)
}

// SendHour parses the hour out of a stored "HH:MM:SS" send time.
func SendHour(sendTime string) (int, error) {
	parts := strings.SplitN(sendTime, ":", 2)
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, fmt.Errorf("invalid send time %q", sendTime)
	}
	return hour, nil
}

// ShouldSend is the schedule gate: it reports whether the user's local hour
// matches the hour of their preferred send time.
func ShouldSend(u store.User, now time.Time) bool {
	sendHour, err := SendHour(u.SendTime)
	if err != nil {
		return false
	}
	return now.In(Location(u.Timezone)).Hour() == sendHour
}

// DayBounds returns the user's local midnight-to-midnight window containing
// now.
func DayBounds(tz string, now time.Time) (start, end time.Time) {
	loc := Location(tz)
	local := now.In(loc)
	start = time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
	return start, start.AddDate(0, 0, 1)
}
