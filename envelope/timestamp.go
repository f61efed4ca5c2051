package envelope

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/connectornet/ccp/ccperrors"
	"github.com/connectornet/ccp/util/mstime"
	"github.com/connectornet/ccp/util/serialization"
	"github.com/pkg/errors"
)

// Expiry timestamps travel as a fixed 17-character ASCII field holding a
// UTC wall-clock reading with millisecond precision.
const (
	timestampLength       = 17
	timestampSecondLayout = "20060102150405"
)

func writeTimestamp(w io.Writer, t time.Time) error {
	utc := mstime.ReduceToMillisecondPrecision(t.UTC())
	stamp := fmt.Sprintf("%s%03d",
		utc.Format(timestampSecondLayout), utc.Nanosecond()/int(time.Millisecond))
	_, err := io.WriteString(w, stamp)
	return errors.WithStack(err)
}

func readTimestamp(r io.Reader) (time.Time, error) {
	stamp, err := serialization.ReadBytes(r, timestampLength)
	if err != nil {
		return time.Time{}, err
	}
	seconds, err := time.ParseInLocation(timestampSecondLayout, string(stamp[:14]), time.UTC)
	if err != nil {
		return time.Time{}, ccperrors.Wrapf(ccperrors.ErrFormat, err,
			"malformed envelope timestamp %q", stamp)
	}
	milliseconds, err := strconv.Atoi(string(stamp[14:]))
	if err != nil {
		return time.Time{}, ccperrors.Wrapf(ccperrors.ErrFormat, err,
			"malformed envelope timestamp %q", stamp)
	}
	return seconds.Add(time.Duration(milliseconds) * time.Millisecond), nil
}
