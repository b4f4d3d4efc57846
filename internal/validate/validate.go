// Package validate holds the pure text predicates and parsers the flows rely
// on. Everything here is deterministic; ParseDayTime takes the reference time
// explicitly.
package validate

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	nameRe       = regexp.MustCompile(`[a-zA-ZÁÉÍÓÚÜÑáéíóúüñ]{2,}`)
	identifierRe = regexp.MustCompile(`^[A-Za-z0-9_.\-]{5,12}$`)

	relativeDayRe = regexp.MustCompile(`(hoy|mañana)\s+(\d{1,2})(?::(\d{2}))?\s*(am|pm)?`)
	weekdayRe     = regexp.MustCompile(`(lun|mar|mi[eé]|jue|vie|s[aá]b|dom|lunes|martes|mi[eé]rcoles|jueves|viernes|s[aá]bado|domingo)\s+(\d{1,2})(?::(\d{2}))?`)
	clockRe       = regexp.MustCompile(`\b(\d{1,2}):(\d{2})\b`)
	hourRangeRe   = regexp.MustCompile(`\b([01]?\d|2[0-3])\s*[-–]\s*([01]?\d|2[0-3])\b`)
)

// weekdays maps Spanish day names (full and 3-letter, accent variants) to a
// Monday-based index.
var weekdays = map[string]int{
	"lun": 0, "mar": 1, "mie": 2, "mié": 2, "jue": 3, "vie": 4, "sab": 5, "sáb": 5, "dom": 6,
	"lunes": 0, "martes": 1, "miércoles": 2, "miercoles": 2, "jueves": 3, "viernes": 4,
	"sábado": 5, "sabado": 5, "domingo": 6,
}

// ValidName reports whether the text contains at least one run of two or more
// alphabetic characters, diacritics included. Pure punctuation and empty
// input fail.
func ValidName(text string) bool {
	return nameRe.MatchString(text)
}

// ValidIdentifier reports whether the trimmed text is a plausible document
// number: 5 to 12 characters from [A-Za-z0-9_.-], full-string match.
func ValidIdentifier(text string) bool {
	return identifierRe.MatchString(strings.TrimSpace(text))
}

// ParseDayTime resolves free text like "mañana 9", "martes 14:30", "10:00" or
// "9-11" against now. Rules are tried in fixed priority order, first match
// wins. Hours above 23 and minutes above 59 never match. Seconds and
// sub-seconds are always zeroed. The second return is false when nothing
// matched.
func ParseDayTime(text string, now time.Time) (time.Time, bool) {
	t := strings.ToLower(strings.TrimSpace(text))
	if t == "" {
		return time.Time{}, false
	}

	// hoy / mañana, with optional am/pm.
	if m := relativeDayRe.FindStringSubmatch(t); m != nil {
		h := atoi(m[2])
		mnt := atoi(m[3])
		if m[4] == "pm" && h < 12 {
			h += 12
		}
		if clockValid(h, mnt) {
			d := now
			if m[1] == "mañana" {
				d = d.AddDate(0, 0, 1)
			}
			return at(d, h, mnt), true
		}
	}

	// Named weekday: the next occurrence at or after now. Today counts when
	// the weekday matches (delta 0), not next week.
	if m := weekdayRe.FindStringSubmatch(t); m != nil {
		if target, ok := weekdays[m[1]]; ok && clockValid(atoi(m[2]), atoi(m[3])) {
			today := (int(now.Weekday()) + 6) % 7 // Monday-based
			delta := (target - today + 7) % 7
			return at(now.AddDate(0, 0, delta), atoi(m[2]), atoi(m[3])), true
		}
	}

	// Bare H:MM -> today. May be in the past; the caller does not reject that.
	if m := clockRe.FindStringSubmatch(t); m != nil && clockValid(atoi(m[1]), atoi(m[2])) {
		return at(now, atoi(m[1]), atoi(m[2])), true
	}

	// H-H range -> today at the first hour.
	if m := hourRangeRe.FindStringSubmatch(t); m != nil {
		return at(now, atoi(m[1]), 0), true
	}

	return time.Time{}, false
}

// clockValid rejects hour or minute values time.Date would silently roll over
// into the next day, turning a typo into a plausible-looking time.
func clockValid(hour, minute int) bool {
	return hour <= 23 && minute <= 59
}

func at(d time.Time, hour, minute int) time.Time {
	return time.Date(d.Year(), d.Month(), d.Day(), hour, minute, 0, 0, d.Location())
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
