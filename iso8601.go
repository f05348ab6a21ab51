// Package iso8601 parses ISO 8601 date and time strings into timestamps that
// always carry an offset from UTC.
//
// Accepted forms are a date (YYYY-MM-DD, YYYYMMDD, YYYY-MM or YYYY), optionally
// followed by T or a space and a time (hh:mm:ss, hhmmss, hh:mm, hhmm or hh,
// with an optional fraction after seconds), optionally followed by a zone
// designator (Z, ±hh:mm, ±hhmm or ±hh). Input without a zone designator gets a
// default offset, UTC unless another is supplied.
//
//   ts, err := iso8601.Parse("2006-10-20T15:34:56.123+0230")
//   if err != nil {
//       // err is a *iso8601.ParseError
//   }
//   fmt.Println(ts) // 2006-10-20T15:34:56.123000+02:30
package iso8601

import (
	"bytes"
	"encoding/gob"
	"time"

	"github.com/imarsman/iso8601/pkg/utility"
	"github.com/pkg/errors"
)

// Timestamp a validated date and time with microsecond resolution and an
// offset from UTC. Timestamps are only produced with every field in range so
// they can be passed and copied by value freely.
type Timestamp struct {
	year        int
	month       int
	day         int
	hour        int
	minute      int
	second      int
	microsecond int
	offset      FixedOffset
}

// field identifies a timestamp field for error reporting
type field int

const (
	yearField field = iota
	monthField
	dayField
	hourField
	minuteField
	secondField
	microsecondField
	fieldCount
)

// validate check every field against its range. The field that failed is
// returned with the error.
func (ts Timestamp) validate() (field, error) {
	switch {
	case ts.year < 1 || ts.year > 9999:
		return yearField, errors.Errorf("year %d is not between 1 and 9999", ts.year)
	case ts.month < 1 || ts.month > 12:
		return monthField, errors.Errorf("month %d is not between 1 and 12", ts.month)
	case !utility.ValidDate(ts.year, ts.month, ts.day):
		return dayField, errors.Errorf("day %d is out of range for %04d-%02d", ts.day, ts.year, ts.month)
	case ts.hour < 0 || ts.hour > 23:
		return hourField, errors.Errorf("hour %d is not between 0 and 23", ts.hour)
	case ts.minute < 0 || ts.minute > 59:
		return minuteField, errors.Errorf("minute %d is not between 0 and 59", ts.minute)
	case ts.second < 0 || ts.second > 59:
		return secondField, errors.Errorf("second %d is not between 0 and 59", ts.second)
	case ts.microsecond < 0 || ts.microsecond > 999999:
		return microsecondField, errors.Errorf("microsecond %d is not between 0 and 999999", ts.microsecond)
	}
	return fieldCount, nil
}

// FromTime get a timestamp from a time.Time. Nanoseconds are truncated to
// microseconds. The zone offset must be a whole number of minutes within 23:59
// of UTC and the year must be between 1 and 9999.
func FromTime(t time.Time) (Timestamp, error) {
	_, offsetSec := t.Zone()
	if offsetSec%60 != 0 {
		return Timestamp{}, errors.Errorf("iso8601.FromTime: zone offset of %d seconds is not a whole minute", offsetSec)
	}

	var offset FixedOffset
	if t.Location() == time.UTC {
		offset = UTC
	} else {
		var err error
		offset, err = NewFixedOffset(0, offsetSec/60, "")
		if err != nil {
			return Timestamp{}, errors.Wrap(err, "iso8601.FromTime")
		}
	}

	ts := Timestamp{
		year:        t.Year(),
		month:       int(t.Month()),
		day:         t.Day(),
		hour:        t.Hour(),
		minute:      t.Minute(),
		second:      t.Second(),
		microsecond: t.Nanosecond() / 1000,
		offset:      offset,
	}
	if _, err := ts.validate(); err != nil {
		return Timestamp{}, errors.Wrap(err, "iso8601.FromTime")
	}

	return ts, nil
}

// Year 1 to 9999
func (ts Timestamp) Year() int { return ts.year }

// Month January to December
func (ts Timestamp) Month() time.Month { return time.Month(ts.month) }

// Day of the month
func (ts Timestamp) Day() int { return ts.day }

// Hour 0 to 23
func (ts Timestamp) Hour() int { return ts.hour }

// Minute 0 to 59
func (ts Timestamp) Minute() int { return ts.minute }

// Second 0 to 59
func (ts Timestamp) Second() int { return ts.second }

// Microsecond 0 to 999999
func (ts Timestamp) Microsecond() int { return ts.microsecond }

// Offset offset from UTC the timestamp was parsed or built with
func (ts Timestamp) Offset() FixedOffset { return ts.offset }

// Date year, month and day
func (ts Timestamp) Date() (year int, month time.Month, day int) {
	return ts.year, time.Month(ts.month), ts.day
}

// Clock hour, minute and second
func (ts Timestamp) Clock() (hour, minute, second int) {
	return ts.hour, ts.minute, ts.second
}

// IsZero is this the zero Timestamp, which is never returned by a successful
// parse
func (ts Timestamp) IsZero() bool {
	return ts == Timestamp{}
}

// Time get the timestamp as a time.Time in a fixed zone for its offset
func (ts Timestamp) Time() time.Time {
	return time.Date(
		ts.year, time.Month(ts.month), ts.day,
		ts.hour, ts.minute, ts.second, ts.microsecond*1000,
		ts.offset.Location())
}

// Equal do both timestamps represent the same instant. Offsets may differ.
func (ts Timestamp) Equal(other Timestamp) bool {
	return ts.Time().Equal(other.Time())
}

// Before is the instant ts before other
func (ts Timestamp) Before(other Timestamp) bool {
	return ts.Time().Before(other.Time())
}

// After is the instant ts after other
func (ts Timestamp) After(other Timestamp) bool {
	return ts.Time().After(other.Time())
}

// Identical are all fields the same and are the offsets equal. Offset labels
// are not compared.
func (ts Timestamp) Identical(other Timestamp) bool {
	a, b := ts, other
	a.offset, b.offset = FixedOffset{}, FixedOffset{}
	return a == b && ts.offset.Equal(other.offset)
}

// appendDigits append v zero padded to width digits. v must not be negative.
func appendDigits(b []byte, v, width int) []byte {
	var digits [8]byte
	i := len(digits)
	for v > 0 || width > 0 {
		i--
		digits[i] = byte('0' + v%10)
		v /= 10
		width--
	}
	return append(b, digits[i:]...)
}

// ISO8601 canonical ISO-8601 rendering
//   "2006-01-02T15:04:05-07:00"
//   "2006-01-02T15:04:05.123000-07:00"
//
// Microseconds are only included when non-zero. UTC renders as +00:00 rather
// than Z.
func (ts Timestamp) ISO8601() string {
	b := make([]byte, 0, len("2006-01-02T15:04:05.000000-07:00"))
	b = appendDigits(b, ts.year, 4)
	b = append(b, '-')
	b = appendDigits(b, ts.month, 2)
	b = append(b, '-')
	b = appendDigits(b, ts.day, 2)
	b = append(b, 'T')
	b = appendDigits(b, ts.hour, 2)
	b = append(b, ':')
	b = appendDigits(b, ts.minute, 2)
	b = append(b, ':')
	b = appendDigits(b, ts.second, 2)
	if ts.microsecond != 0 {
		b = append(b, '.')
		b = appendDigits(b, ts.microsecond, 6)
	}
	b = append(b, formatOffset(ts.offset.minutes)...)

	return string(b)
}

func (ts Timestamp) String() string {
	return ts.ISO8601()
}

// MarshalText implements encoding.TextMarshaler using the canonical form
func (ts Timestamp) MarshalText() ([]byte, error) {
	if ts.IsZero() {
		return nil, errors.New("iso8601: cannot marshal zero Timestamp")
	}
	return []byte(ts.ISO8601()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. Input without an offset
// is taken to be UTC.
func (ts *Timestamp) UnmarshalText(text []byte) error {
	parsed, err := ParseInOffset(string(text), UTC)
	if err != nil {
		return err
	}
	*ts = parsed
	return nil
}

type timestampWire struct {
	Year, Month, Day     int
	Hour, Minute, Second int
	Microsecond          int
	Offset               FixedOffset
}

// GobEncode implements gob.GobEncoder. The offset label is kept.
func (ts Timestamp) GobEncode() ([]byte, error) {
	var buf bytes.Buffer
	w := timestampWire{
		Year: ts.year, Month: ts.month, Day: ts.day,
		Hour: ts.hour, Minute: ts.minute, Second: ts.second,
		Microsecond: ts.microsecond,
		Offset:      ts.offset,
	}
	if err := gob.NewEncoder(&buf).Encode(w); err != nil {
		return nil, errors.Wrap(err, "iso8601: encoding timestamp")
	}
	return buf.Bytes(), nil
}

// GobDecode implements gob.GobDecoder. Decoded fields are validated the same
// way parsed fields are.
func (ts *Timestamp) GobDecode(data []byte) error {
	var w timestampWire
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&w); err != nil {
		return errors.Wrap(err, "iso8601: decoding timestamp")
	}
	decoded := Timestamp{
		year: w.Year, month: w.Month, day: w.Day,
		hour: w.Hour, minute: w.Minute, second: w.Second,
		microsecond: w.Microsecond,
		offset:      w.Offset,
	}
	if _, err := decoded.validate(); err != nil {
		return errors.Wrap(err, "iso8601: decoding timestamp")
	}
	*ts = decoded
	return nil
}
