package alert

import (
	"strings"
	"time"
)

const (
	vendorPrefix      = "aws."
	unknownSource     = "Unknown"
	unknownDetailType = "Unknown Event"
	unknownTimestamp  = "Unknown"

	dateLayout = "02-01-2006"
	timeLayout = "15:04:05"
)

// Alert is a formatted notification ready for delivery.
type Alert struct {
	Title string
	Body  string
}

// optionalDetailLines are appended to the body, in this order, when the
// detail key is present.
var optionalDetailLines = []struct {
	key   string
	label string
}{
	{"state", "State"},
	{"alarm-name", "Alarm"},
	{"reason", "Reason"},
}

// Formatter renders CloudEvents as a short title plus a date/time oriented
// body in a fixed display timezone.
type Formatter struct {
	loc *time.Location
}

// NewFormatter creates a Formatter that renders timestamps in loc.
// A nil loc renders in UTC.
func NewFormatter(loc *time.Location) *Formatter {
	if loc == nil {
		loc = time.UTC
	}
	return &Formatter{loc: loc}
}

// ServiceName strips the "aws." prefix from source and upper-cases the
// remainder. Other sources are returned verbatim.
func ServiceName(source string) string {
	if rest, ok := strings.CutPrefix(source, vendorPrefix); ok {
		return strings.ToUpper(rest)
	}
	return source
}

// Format builds the alert for ev.
//
// Title: "{service}: {detail-type}", plus " ({state})" when detail.state exists.
// Body:  Date, Time and Source lines, then State, Alarm and Reason lines for
// the detail keys that are present.
func (f *Formatter) Format(ev *CloudEvent) Alert {
	source := ev.Source
	if source == "" {
		source = unknownSource
	}
	detailType := ev.DetailType
	if detailType == "" {
		detailType = unknownDetailType
	}

	title := ServiceName(source) + ": " + detailType
	if state, ok := ev.DetailString("state"); ok {
		title += " (" + state + ")"
	}

	date, clock := f.localTimestamp(ev.Time)

	var b strings.Builder
	b.WriteString("Date: " + date)
	b.WriteString("\nTime: " + clock)
	b.WriteString("\nSource: " + source)
	for _, line := range optionalDetailLines {
		if v, ok := ev.DetailString(line.key); ok {
			b.WriteString("\n" + line.label + ": " + v)
		}
	}

	return Alert{Title: title, Body: b.String()}
}

// localTimestamp returns the date and time of raw in the display zone, or
// "Unknown" for both when raw is empty or unparsable.
func (f *Formatter) localTimestamp(raw string) (string, string) {
	t, ok := parseEventTime(raw)
	if !ok {
		return unknownTimestamp, unknownTimestamp
	}
	local := t.In(f.loc)
	return local.Format(dateLayout), local.Format(timeLayout)
}

// parseEventTime accepts RFC 3339 timestamps (with or without fractional
// seconds). Timestamps without a zone offset are taken as UTC.
func parseEventTime(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(time.RFC3339Nano, raw); err == nil {
		return t, true
	}
	if t, err := time.ParseInLocation("2006-01-02T15:04:05.999999999", raw, time.UTC); err == nil {
		return t, true
	}
	return time.Time{}, false
}
