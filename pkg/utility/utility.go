package utility

import "strings"

// BytesToString convert byte list to string
//
// A small cost a few ns in testing is incurred for using a string builder.
// There are no heap allocations using strings.Builder.
func BytesToString(bytes ...byte) string {
	var sb = new(strings.Builder)
	sb.Grow(len(bytes))
	for i := 0; i < len(bytes); i++ {
		sb.WriteByte(bytes[i])
	}
	return sb.String()
}

// IsDigit is the byte an ASCII digit
//
// Can inline
func IsDigit(b byte) bool {
	return '0' <= b && b <= '9'
}

// DaysBefore[m] counts the number of days in a non-leap year
// before month m begins. There is an entry for m=12, counting
// the number of days before January of next year (365).
var DaysBefore = [...]int32{
	0,
	31,
	31 + 28,
	31 + 28 + 31,
	31 + 28 + 31 + 30,
	31 + 28 + 31 + 30 + 31,
	31 + 28 + 31 + 30 + 31 + 30,
	31 + 28 + 31 + 30 + 31 + 30 + 31,
	31 + 28 + 31 + 30 + 31 + 30 + 31 + 31,
	31 + 28 + 31 + 30 + 31 + 30 + 31 + 31 + 30,
	31 + 28 + 31 + 30 + 31 + 30 + 31 + 31 + 30 + 31,
	31 + 28 + 31 + 30 + 31 + 30 + 31 + 31 + 30 + 31 + 30,
	31 + 28 + 31 + 30 + 31 + 30 + 31 + 31 + 30 + 31 + 30 + 31,
}

// IsLeap is year a leap year in the proleptic Gregorian calendar
func IsLeap(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

// DaysIn number of days in month (1-12) for year. Out of range months have
// zero days so any day value will fail a bounds check against them.
func DaysIn(month, year int) int {
	if month < 1 || month > 12 {
		return 0
	}
	// February 29
	if month == 2 && IsLeap(year) {
		return 29
	}
	return int(DaysBefore[month] - DaysBefore[month-1])
}

// ValidDate do year, month and day form an existing calendar date
func ValidDate(year, month, day int) bool {
	return day >= 1 && day <= DaysIn(month, year)
}
