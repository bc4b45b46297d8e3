package report

import (
	"strings"
	"time"
)

const (
	notSet          = "Not set"
	timestampLayout = "02.01.2006 15:04:05 UTC"
)

var inputLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999-0700",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999-0700",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04Z07:00",
	"2006-01-02T15:04",
	"2006-01-02",
}

// FormatTimestamp renders an ISO-8601 timestamp as "DD.MM.YYYY HH:MM:SS UTC".
// Values with an offset are converted to UTC, values without one are taken
// as UTC. A nil or blank value renders as "Not set"; anything unparsable is
// returned unchanged.
func FormatTimestamp(raw *string) string {
	if raw == nil {
		return notSet
	}
	return formatTimestamp(*raw)
}

func formatTimestamp(raw string) string {
	value := strings.TrimSpace(raw)
	if value == "" {
		return notSet
	}
	for _, layout := range inputLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC().Format(timestampLayout)
		}
	}
	return raw
}
