package iso8601_test

import (
	"fmt"

	"github.com/imarsman/iso8601"
)

func ExampleParse() {
	ts, err := iso8601.Parse("2006-10-20T15:34:56.123+0230")
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(ts)
	fmt.Println(ts.Microsecond(), ts.Offset())
	// Output:
	// 2006-10-20T15:34:56.123000+02:30
	// 123000 +02:30
}

func ExampleParse_dateOnly() {
	fmt.Println(iso8601.MustParse("19950204"))
	fmt.Println(iso8601.MustParse("2013-10"))
	// Output:
	// 1995-02-04T00:00:00+00:00
	// 2013-10-01T00:00:00+00:00
}

func ExampleParse_invalid() {
	_, err := iso8601.Parse("2007-06-23X06:40:34.00Z")
	fmt.Println(err)
	_, err = iso8601.Parse("2013-02-29")
	fmt.Println(err)
	// Output:
	// iso8601: unexpected character at position 10 near 'X06:40:3' in input '2007-06-23X06:40:34.00Z'
	// iso8601: invalid date or time: day 29 is out of range for 2013-02 at position 8 near '29' in input '2013-02-29'
}

func ExampleParseInOffset() {
	tz := iso8601.MustFixedOffset(2, 0, "test offset")

	ts, _ := iso8601.ParseInOffset("2007-01-01T08:00:00", tz)
	fmt.Println(ts, ts.Offset().Label())

	ts, _ = iso8601.ParseInOffset("2007-01-01T08:00:00Z", tz)
	fmt.Println(ts, ts.Offset().Label())
	// Output:
	// 2007-01-01T08:00:00+02:00 test offset
	// 2007-01-01T08:00:00+00:00 UTC
}

func ExampleFixedOffset_Equal() {
	a := iso8601.MustFixedOffset(2, 0, "a")
	b := iso8601.MustFixedOffset(0, 120, "b")
	fmt.Println(a.Equal(b), a.Label(), b.Label())
	// Output:
	// true a b
}
