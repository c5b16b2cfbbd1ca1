package discovery

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

const day = 24 * time.Hour

// TimeOfDay is an offset from midnight.
type TimeOfDay time.Duration

// ParseTimeOfDay parses "HH:MM" or "HH:MM:SS".
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{"15:04:05", "15:04"} {
		t, err := time.Parse(layout, s)
		if err == nil {
			return TimeOfDay(time.Duration(t.Hour())*time.Hour +
				time.Duration(t.Minute())*time.Minute +
				time.Duration(t.Second())*time.Second), nil
		}
	}
	return 0, fmt.Errorf("invalid time of day %q (want HH:MM or HH:MM:SS)", s)
}

// String formats t as HH:MM:SS.
func (t TimeOfDay) String() string {
	d := time.Duration(t)
	return fmt.Sprintf("%02d:%02d:%02d", int(d.Hours()), int(d.Minutes())%60, int(d.Seconds())%60)
}

// Window is a half-open [Start, End) time-of-day filter. A nil bound is
// unbounded on that side. When Start is after End the window wraps past
// midnight, so 22:00-02:00 keeps 23:30 and 01:00.
type Window struct {
	Start *TimeOfDay
	End   *TimeOfDay
}

// NewWindow parses optional start and end strings. Empty strings leave
// that side open.
func NewWindow(start, end string) (*Window, error) {
	w := &Window{}
	if start != "" {
		t, err := ParseTimeOfDay(start)
		if err != nil {
			return nil, fmt.Errorf("init time: %w", err)
		}
		w.Start = &t
	}
	if end != "" {
		t, err := ParseTimeOfDay(end)
		if err != nil {
			return nil, fmt.Errorf("end time: %w", err)
		}
		w.End = &t
	}
	return w, nil
}

// IsOpen reports whether the window has no bounds at all.
func (w *Window) IsOpen() bool {
	return w == nil || (w.Start == nil && w.End == nil)
}

// Contains reports whether t is inside the window.
func (w *Window) Contains(t TimeOfDay) bool {
	if w.IsOpen() {
		return true
	}
	switch {
	case w.Start == nil:
		return t < *w.End
	case w.End == nil:
		return t >= *w.Start
	case *w.Start <= *w.End:
		return t >= *w.Start && t < *w.End
	default:
		return t >= *w.Start || t < *w.End
	}
}

func (w *Window) String() string {
	if w.IsOpen() {
		return "any time"
	}
	start, end := "00:00:00", "24:00:00"
	if w.Start != nil {
		start = w.Start.String()
	}
	if w.End != nil {
		end = w.End.String()
	}
	return fmt.Sprintf("[%s, %s)", start, end)
}

// ALB log objects end in ..._<yyyymmdd>T<hhmm>Z_<ip>_<random>.log.gz.
var fileTimestamp = regexp.MustCompile(`(\d{8})T(\d{4}(?:\d{2})?)Z`)

// FileTimeOfDay extracts the time of day embedded in a log file name.
func FileTimeOfDay(name string) (TimeOfDay, bool) {
	m := fileTimestamp.FindStringSubmatch(name)
	if m == nil {
		return 0, false
	}

	layout := "20060102T1504"
	if len(m[2]) == 6 {
		layout = "20060102T150405"
	}
	t, err := time.Parse(layout, m[1]+"T"+m[2])
	if err != nil {
		return 0, false
	}

	midnight := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return TimeOfDay(t.Sub(midnight) % day), true
}
