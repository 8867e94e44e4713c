package subtitles

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// CaptionLength is how long a transcript caption stays on screen.
const CaptionLength = 5 * time.Second

// ParseTimestamp accepts whole or fractional seconds ("5", "05", "5.5"),
// clock forms ("MM:SS", "HH:MM:SS", either with ".mmm" or ",mmm") and
// FCPXML time values ("5s", "1001/30000s").
func ParseTimestamp(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty timestamp")
	}

	if strings.HasSuffix(s, "s") {
		return parseRational(strings.TrimSuffix(s, "s"))
	}
	if strings.Contains(s, ":") {
		return parseClock(s)
	}
	return parseSeconds(s)
}

func parseSeconds(s string) (time.Duration, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 || math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, fmt.Errorf("invalid timestamp %q", s)
	}
	return time.Duration(math.Round(v * float64(time.Second))), nil
}

func parseRational(s string) (time.Duration, error) {
	num, den, ok := strings.Cut(s, "/")
	if !ok {
		return parseSeconds(s)
	}
	n, err := strconv.ParseInt(num, 10, 64)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid time value %q", s+"s")
	}
	d, err := strconv.ParseInt(den, 10, 64)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid time value %q", s+"s")
	}
	return time.Duration(math.Round(float64(n) / float64(d) * float64(time.Second))), nil
}

func parseClock(s string) (time.Duration, error) {
	parts := strings.Split(strings.Replace(s, ",", ".", 1), ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, fmt.Errorf("invalid timestamp %q", s)
	}

	var total time.Duration
	units := []time.Duration{time.Hour, time.Minute}[3-len(parts):]
	for i, u := range units {
		n, err := strconv.Atoi(parts[i])
		if err != nil || n < 0 {
			return 0, fmt.Errorf("invalid timestamp %q", s)
		}
		total += time.Duration(n) * u
	}
	secs, err := parseSeconds(parts[len(parts)-1])
	if err != nil || secs >= time.Minute {
		return 0, fmt.Errorf("invalid timestamp %q", s)
	}
	return total + secs, nil
}

// FormatClock renders d as MM:SS. Minutes are not wrapped into hours.
func FormatClock(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int64(d / time.Second)
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}

// FormatSRT renders d as HH:MM:SS,mmm.
func FormatSRT(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	ms := d.Milliseconds()
	return fmt.Sprintf("%02d:%02d:%02d,%03d", ms/3600000, ms/60000%60, ms/1000%60, ms%1000)
}

// FormatFCPTime renders d as an FCPXML time value. Whole seconds are written
// as "Ns"; anything else is aligned to the 1001/30000s frame grid.
func FormatFCPTime(d time.Duration) string {
	if d <= 0 {
		return "0s"
	}
	if d%time.Second == 0 {
		return fmt.Sprintf("%ds", int64(d/time.Second))
	}
	frames := int64(math.Round(d.Seconds() * 30000 / 1001))
	return fmt.Sprintf("%d/30000s", frames*1001)
}
