package cache

import (
	"fmt"
	"time"
)

// TTLs tuned per read pattern: lists churn with every registration,
// detail pages less so.
const (
	TTLEventList      = 2 * time.Minute
	TTLEventDetail    = 1 * time.Minute
	TTLEventsUpcoming = 5 * time.Minute
)

// Key namespaces; everything lives under campusevents: so a shared Redis
// instance can be swept per application.
const (
	prefix = "campusevents:"

	KeyEventsUpcoming = prefix + "events:upcoming"

	PatternEventsAll   = prefix + "events:*"
	PatternEventDetail = prefix + "events:detail:"
)

func BuildEventListKey(page, limit int, status, venue, department string) string {
	return fmt.Sprintf("%sevents:list:p%d:l%d:s%s:v%s:d%s", prefix, page, limit, status, venue, department)
}

func BuildEventDetailKey(eventID string) string {
	return PatternEventDetail + eventID
}

func BuildUpcomingKey(limit int) string {
	return fmt.Sprintf("%s:limit:%d", KeyEventsUpcoming, limit)
}
