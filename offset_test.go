package iso8601_test

import (
	"bytes"
	"encoding/gob"
	"math"
	"testing"
	"time"

	"github.com/imarsman/iso8601"
	"github.com/matryer/is"
)

func TestFixedOffsetEquality(t *testing.T) {
	is := is.New(t)

	a := iso8601.MustFixedOffset(2, 0, "a")
	b := iso8601.MustFixedOffset(2, 0, "b")
	is.True(a.Equal(b)) // Labels are not compared
	is.True(a != b)     // but are kept

	// Different hour and minute decompositions of the same total
	is.True(iso8601.MustFixedOffset(2, 0, "+02:00").Equal(iso8601.MustFixedOffset(0, 120, "+0200")))
	is.True(iso8601.MustFixedOffset(1, 0, "").Equal(iso8601.MustFixedOffset(2, -60, "")))
	is.True(!iso8601.MustFixedOffset(2, 0, "").Equal(iso8601.MustFixedOffset(-2, 0, "")))

	// Any zero offset is equal to UTC
	is.True(iso8601.MustFixedOffset(0, 0, "+00:00").Equal(iso8601.UTC))
	is.True(iso8601.FixedOffset{}.Equal(iso8601.UTC))
	is.True(iso8601.UTC.Equal(iso8601.UTC))
	is.True(iso8601.UTC.IsUTC())

	// Minutes serves as a map key for equal offsets
	m := map[int]string{a.Minutes(): "two hours"}
	is.Equal(m[b.Minutes()], "two hours")
}

func TestNewFixedOffset(t *testing.T) {
	is := is.New(t)

	o, err := iso8601.NewFixedOffset(-3, -30, "")
	is.NoErr(err)
	is.Equal(o.Minutes(), -210)
	is.Equal(o.Label(), "-03:30") // Empty label uses ±HH:MM
	is.Equal(o.ISOString(), "-03:30")
	is.Equal(o.Duration(), -(3*time.Hour + 30*time.Minute))

	o, err = iso8601.NewFixedOffset(5, 30, "India")
	is.NoErr(err)
	is.Equal(o.String(), "India")     // String is the label
	is.Equal(o.ISOString(), "+05:30") // ISOString ignores the label

	is.Equal(o.Apply(-5, -30), -330) // Apply totals hours and minutes
	is.Equal(o.Apply(0, 90), 90)

	is.Equal(iso8601.UTC.Label(), "UTC")
	is.Equal(iso8601.UTC.ISOString(), "+00:00")
	is.Equal(iso8601.FixedOffset{}.Label(), "+00:00")

	_, err = iso8601.NewFixedOffset(23, 59, "")
	is.NoErr(err) // Largest offset
	_, err = iso8601.NewFixedOffset(-23, -59, "")
	is.NoErr(err) // Smallest offset
	_, err = iso8601.NewFixedOffset(24, 0, "")
	is.True(err != nil) // More than 23:59
	_, err = iso8601.NewFixedOffset(0, -1440, "")
	is.True(err != nil) // Less than -23:59
	_, err = iso8601.NewFixedOffset(math.MaxInt, 0, "")
	is.True(err != nil) // Overflow in hours
	_, err = iso8601.NewFixedOffset(0, math.MinInt, "")
	is.True(err != nil) // Out of range minutes
	_, err = iso8601.NewFixedOffset(1, math.MaxInt, "")
	is.True(err != nil) // Overflow in total
}

func TestMustFixedOffsetPanics(t *testing.T) {
	is := is.New(t)

	defer func() {
		is.True(recover() != nil) // Should panic for out of range offset
	}()
	iso8601.MustFixedOffset(30, 0, "")
}

func TestParseOffset(t *testing.T) {
	is := is.New(t)

	good := map[string]int{
		"Z":      0,
		"UTC":    0,
		"+00:00": 0,
		"-00:00": 0,
		"+02":    120,
		"+0230":  150,
		"-05:30": -330,
		"+23:59": 1439,
		"-2359":  -1439,
	}
	for in, minutes := range good {
		o, err := iso8601.ParseOffset(in)
		is.NoErr(err)                  // Offset should parse
		is.Equal(o.Minutes(), minutes) // Total minutes
	}

	for _, in := range []string{"", "z", "utc", "+2", "+24:00", "+05:60", "05:00", "+05:00 ", "+05:", "+0530Z"} {
		_, err := iso8601.ParseOffset(in)
		is.True(err != nil) // Offset should not parse
	}
}

func TestFixedOffsetLocation(t *testing.T) {
	is := is.New(t)

	is.Equal(iso8601.UTC.Location(), time.UTC)                             // UTC uses time.UTC
	is.Equal(iso8601.MustFixedOffset(0, 0, "+00:00").Location(), time.UTC) // as do other zero offsets

	o := iso8601.MustFixedOffset(-5, -30, "")
	l := o.Location()
	is.Equal(l, iso8601.MustFixedOffset(-5, -30, "other").Location()) // Zones are cached by offset

	name, offsetSec := time.Date(2020, 1, 1, 0, 0, 0, 0, l).Zone()
	is.Equal(name, "-05:30")
	is.Equal(offsetSec, -(5*3600 + 30*60))
}

func TestFixedOffsetText(t *testing.T) {
	is := is.New(t)

	text, err := iso8601.UTC.MarshalText()
	is.NoErr(err)
	is.Equal(string(text), "Z") // UTC is Z

	text, err = iso8601.MustFixedOffset(2, 30, "label").MarshalText()
	is.NoErr(err)
	is.Equal(string(text), "+02:30")

	var o iso8601.FixedOffset
	is.NoErr(o.UnmarshalText([]byte("-07:00")))
	is.Equal(o.Minutes(), -420)
	is.NoErr(o.UnmarshalText([]byte("Z")))
	is.Equal(o, iso8601.UTC)
	is.True(o.UnmarshalText([]byte("bogus")) != nil) // Bad offset text
}

func TestFixedOffsetGob(t *testing.T) {
	is := is.New(t)

	for _, o := range []iso8601.FixedOffset{
		iso8601.UTC,
		iso8601.MustFixedOffset(2, 0, "test offset"),
		iso8601.MustFixedOffset(-3, -30, ""),
	} {
		var buf bytes.Buffer
		is.NoErr(gob.NewEncoder(&buf).Encode(o))

		var decoded iso8601.FixedOffset
		is.NoErr(gob.NewDecoder(&buf).Decode(&decoded))
		is.True(decoded.Equal(o))            // Equality preserved
		is.Equal(decoded.Label(), o.Label()) // Label preserved
	}
}
