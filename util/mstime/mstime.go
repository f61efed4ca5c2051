// Package mstime provides millisecond-precision wall clock helpers.
// CCP request expiries are stamped and compared at millisecond precision,
// so times produced here never carry sub-millisecond components.
package mstime

import "time"

const (
	nanosecondsInMillisecond = int64(time.Millisecond / time.Nanosecond)
	millisecondsInSecond     = int64(time.Second / time.Millisecond)
)

// Now returns the current time reduced to millisecond precision.
func Now() time.Time {
	return ReduceToMillisecondPrecision(time.Now())
}

// UnixMilliToTime converts a Unix timestamp in milliseconds to a time.Time.
func UnixMilliToTime(ms int64) time.Time {
	seconds := ms / millisecondsInSecond
	nanoseconds := (ms - seconds*millisecondsInSecond) * nanosecondsInMillisecond
	return time.Unix(seconds, nanoseconds)
}

// TimeToUnixMilli converts a time.Time to a Unix timestamp in milliseconds.
func TimeToUnixMilli(t time.Time) int64 {
	return t.UnixNano() / nanosecondsInMillisecond
}

// ReduceToMillisecondPrecision truncates t to millisecond precision.
func ReduceToMillisecondPrecision(t time.Time) time.Time {
	nanoseconds := int64(t.Nanosecond())
	millisecondPrecisionNanoseconds := (nanoseconds / nanosecondsInMillisecond) * nanosecondsInMillisecond
	return time.Unix(t.Unix(), millisecondPrecisionNanoseconds)
}
