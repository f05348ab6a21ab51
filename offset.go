package iso8601

import (
	"bytes"
	"encoding/gob"
	"sync"
	"time"

	"github.com/JohnCGriffin/overflow"
	"github.com/imarsman/iso8601/pkg/utility"
	"github.com/pkg/errors"
)

// maxOffsetMinutes is 23:59, the largest magnitude an offset can have
const maxOffsetMinutes int = 23*60 + 59

// FixedOffset a constant displacement from UTC in whole minutes. The label is
// only for display. Two offsets are equal when their total minutes are equal,
// so compare with Equal rather than ==, and key maps with Minutes.
//
// The zero value is a zero offset and is equal to UTC.
type FixedOffset struct {
	minutes int
	label   string
}

// UTC the zero offset. Timestamps parsed with a Z zone designator always carry
// this offset.
var UTC = FixedOffset{minutes: 0, label: "UTC"}

// NewFixedOffset get an offset from hours and minutes. The total is
// hours*60 + minutes, so for a negative offset both values should be negative,
// as in NewFixedOffset(-3, -30, "-03:30"). The total must be within 23:59 of
// UTC. If label is empty the ±HH:MM form of the offset is used.
func NewFixedOffset(hours, minutes int, label string) (FixedOffset, error) {
	total, ok := overflow.Mul(hours, 60)
	if ok {
		total, ok = overflow.Add(total, minutes)
	}
	if !ok {
		return FixedOffset{}, errors.Errorf("iso8601.NewFixedOffset: %d hours and %d minutes overflows", hours, minutes)
	}
	if total > maxOffsetMinutes || total < -maxOffsetMinutes {
		return FixedOffset{}, errors.Errorf("iso8601.NewFixedOffset: offset of %d minutes is not within 23:59 of UTC", total)
	}
	if label == "" {
		label = formatOffset(total)
	}

	return FixedOffset{minutes: total, label: label}, nil
}

// MustFixedOffset is like NewFixedOffset but panics if the offset is out of
// range. Intended for package level variables and tests.
func MustFixedOffset(hours, minutes int, label string) FixedOffset {
	o, err := NewFixedOffset(hours, minutes, label)
	if err != nil {
		panic(err)
	}
	return o
}

// ParseOffset parse a zone designator on its own. Accepts Z, UTC, ±hh:mm,
// ±hhmm and ±hh.
func ParseOffset(s string) (FixedOffset, error) {
	if s == "UTC" {
		return UTC, nil
	}
	if s == "" {
		return FixedOffset{}, newParseError(s, -1, "empty offset", nil)
	}
	sc := scanner{input: s}
	o, found, perr := sc.zone()
	if perr != nil {
		return FixedOffset{}, perr
	}
	if !found || !sc.eof() {
		return FixedOffset{}, newParseError(s, sc.pos, "invalid offset", nil)
	}
	return o, nil
}

// Apply total minutes for an offset of hours and minutes. This is the value an
// offset built from the same hours and minutes would compare by.
//
// Can inline
func (o FixedOffset) Apply(hours, minutes int) int {
	return hours*60 + minutes
}

// Minutes total signed minutes from UTC
func (o FixedOffset) Minutes() int {
	return o.minutes
}

// Duration offset from UTC as a duration
func (o FixedOffset) Duration() time.Duration {
	return time.Duration(o.minutes) * time.Minute
}

// Label display label. An offset without a label uses its ±HH:MM form.
func (o FixedOffset) Label() string {
	if o.label == "" {
		return formatOffset(o.minutes)
	}
	return o.label
}

func (o FixedOffset) String() string {
	return o.Label()
}

// ISOString the ±HH:MM form of the offset. UTC is +00:00.
func (o FixedOffset) ISOString() string {
	return formatOffset(o.minutes)
}

// Equal offsets are equal when their total minutes are equal. Labels are not
// compared.
func (o FixedOffset) Equal(other FixedOffset) bool {
	return o.minutes == other.minutes
}

// IsUTC is the offset zero
func (o FixedOffset) IsUTC() bool {
	return o.minutes == 0
}

// A cache for zones tied to offsets to save the allocations needed to get a
// fixed zone. Offsets are bounded to ±23:59 so there are at most 2879 entries.
var zoneCache sync.Map // int minutes -> *time.Location

// Location get a fixed zone for the offset. Zero offsets use time.UTC.
func (o FixedOffset) Location() *time.Location {
	if o.minutes == 0 {
		return time.UTC
	}
	if l, ok := zoneCache.Load(o.minutes); ok {
		return l.(*time.Location)
	}
	l, _ := zoneCache.LoadOrStore(o.minutes, time.FixedZone(formatOffset(o.minutes), o.minutes*60))

	return l.(*time.Location)
}

// MarshalText implements encoding.TextMarshaler. UTC renders as Z.
func (o FixedOffset) MarshalText() ([]byte, error) {
	if o.minutes == 0 && (o.label == "" || o.label == UTC.label) {
		return []byte("Z"), nil
	}
	return []byte(formatOffset(o.minutes)), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (o *FixedOffset) UnmarshalText(text []byte) error {
	parsed, err := ParseOffset(string(text))
	if err != nil {
		return err
	}
	*o = parsed
	return nil
}

type offsetWire struct {
	Minutes int
	Label   string
}

// GobEncode implements gob.GobEncoder. The label is kept.
func (o FixedOffset) GobEncode() ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(offsetWire{Minutes: o.minutes, Label: o.label}); err != nil {
		return nil, errors.Wrap(err, "iso8601: encoding offset")
	}
	return buf.Bytes(), nil
}

// GobDecode implements gob.GobDecoder
func (o *FixedOffset) GobDecode(data []byte) error {
	var w offsetWire
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&w); err != nil {
		return errors.Wrap(err, "iso8601: decoding offset")
	}
	decoded, err := NewFixedOffset(0, w.Minutes, w.Label)
	if err != nil {
		return err
	}
	// Keep an empty label empty so a zero value decodes to a zero value
	decoded.label = w.Label
	*o = decoded
	return nil
}

// twoDigits get the tens and ones digit characters for a value between 0 and
// 99. This avoids fmt.Sprintf for building offset strings.
func twoDigits(in int) (byte, byte) {
	return byte('0' + in/10), byte('0' + in%10)
}

// offsetLabel get a ±HH:MM label from a sign character and unsigned hours and
// minutes. The sign is kept as given so that -00:00 keeps its sign.
func offsetLabel(sign byte, hours, minutes int) string {
	h1, h2 := twoDigits(hours)
	m1, m2 := twoDigits(minutes)

	return utility.BytesToString(sign, h1, h2, ':', m1, m2)
}

// formatOffset get an offset in ±HH:MM format from total minutes.
//
// For 5 hours and 30 minutes
//  +05:30
//
// For -5 hours and 30 minutes
//  -05:30
func formatOffset(minutes int) string {
	var sign byte = '+'
	if minutes < 0 {
		sign = '-'
		minutes = -minutes
	}
	return offsetLabel(sign, minutes/60, minutes%60)
}
