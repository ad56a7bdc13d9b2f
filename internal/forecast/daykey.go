package forecast

import "time"

const dayKeyLayout = "2006-01-02"

// Clock is the reference clock used to decide which calendar day a sample
// belongs to. The zero value buckets by UTC.
type Clock struct {
	loc *time.Location
}

// OffsetClock buckets samples by the forecast location's own UTC offset,
// as reported in the provider's timezone field.
func OffsetClock(offsetSeconds int) Clock {
	return Clock{loc: time.FixedZone("", offsetSeconds)}
}

// ViewerClock buckets samples by the local zone of the running process.
func ViewerClock() Clock {
	return Clock{loc: time.Local}
}

// Location returns the zone the clock resolves days in.
func (c Clock) Location() *time.Location {
	if c.loc == nil {
		return time.UTC
	}
	return c.loc
}

// DayKey maps an epoch-seconds timestamp to a YYYY-MM-DD key. Two timestamps
// share a key iff they fall on the same calendar day under c.
func (c Clock) DayKey(ts int64) string {
	return time.Unix(ts, 0).In(c.Location()).Format(dayKeyLayout)
}
