package iso8601

import (
	"fmt"
	"reflect"
	"unicode/utf8"

	"github.com/imarsman/iso8601/pkg/utility"
	"github.com/pkg/errors"
	"lab.nexedi.com/kirr/go123/xfmt"
)

// maxLength the longest input the parser will look at. The longest canonical
// form is 32 bytes; the rest leaves room for long fractions.
const maxLength int = 64

// fragmentMax how much of a failing input is quoted in an error
const fragmentMax int = 40

// ErrInvalid matches every *ParseError with errors.Is
var ErrInvalid = errors.New("iso8601: invalid timestamp")

// ParseError is returned for any input that is not a valid ISO 8601 timestamp.
// This covers empty input, input that does not match the grammar and input
// whose fields do not form a valid date or time.
type ParseError struct {
	Input  string // the input as given
	Reason string // why it was rejected
	Pos    int    // byte offset of the problem, -1 if not tied to a position
	Err    error  // underlying cause, if any
}

func newParseError(input string, pos int, reason string, cause error) *ParseError {
	return &ParseError{Input: input, Reason: reason, Pos: pos, Err: cause}
}

func (e *ParseError) Error() string {
	// Avoid allocations that would occur with fmt.Sprintf
	xfmtBuf := new(xfmt.Buffer)
	xfmtBuf.S("iso8601: ").S(e.Reason)
	if e.Err != nil {
		xfmtBuf.S(": ").S(e.Err.Error())
	}
	if e.Pos >= 0 && e.Input != "" {
		xfmtBuf.S(" at position ").D(e.Pos)
		if e.Pos < len(e.Input) {
			start := e.Pos
			for start < len(e.Input) && !utf8.RuneStart(e.Input[start]) {
				start++
			}
			xfmtBuf.S(" near '").S(cut(e.Input[start:], 8)).S("'")
		}
		xfmtBuf.S(" in input '").S(truncate(e.Input, fragmentMax)).S("'")
	}

	return utility.BytesToString(xfmtBuf.Bytes()...)
}

// Cause underlying error for github.com/pkg/errors
func (e *ParseError) Cause() error { return e.Err }

// Unwrap underlying error for errors.Unwrap
func (e *ParseError) Unwrap() error { return e.Err }

// Is lets errors.Is(err, ErrInvalid) match any parse error
func (e *ParseError) Is(target error) bool { return target == ErrInvalid }

// cut limit s to at most max bytes without splitting a UTF-8 sequence
func cut(s string, max int) string {
	if len(s) <= max {
		return s
	}
	for max > 0 && !utf8.RuneStart(s[max]) {
		max--
	}
	return s[:max]
}

// truncate limit s to max bytes, marking truncation with ...
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return cut(s, max) + "..."
}

// Convert string of length 2 to int
func atoi2(in string) (int, bool) {
	_ = in[1] // This helps the compiler reduce the number of times it checks `in` is long enough
	a, b := int(in[0])-'0', int(in[1])-'0'
	if a < 0 || a > 9 || b < 0 || b > 9 {
		return 0, false
	}
	return a*10 + b, true
}

// Convert string of length 4 to int
func atoi4(in string) (int, bool) {
	_ = in[3] // This helps the compiler reduce the number of times it checks `in` is long enough
	a, b, c, d := int(in[0])-'0', int(in[1])-'0', int(in[2])-'0', int(in[3])-'0'
	if a < 0 || a > 9 || b < 0 || b > 9 || c < 0 || c > 9 || d < 0 || d > 9 {
		return 0, false
	}
	return a*1000 + b*100 + c*10 + d, true
}

// Parse parse an ISO 8601 timestamp. Input without a zone designator is
// taken to be UTC.
func Parse(timeStr string) (Timestamp, error) {
	return parseTimestamp(timeStr, UTC)
}

// ParseInOffset parse an ISO 8601 timestamp, using offset if the input has no
// zone designator. A Z designator always gives UTC regardless of offset.
func ParseInOffset(timeStr string, offset FixedOffset) (Timestamp, error) {
	return parseTimestamp(timeStr, offset)
}

// MustParse is like Parse but panics if the input cannot be parsed. Intended
// for constants in tests and package level variables.
func MustParse(timeStr string) Timestamp {
	ts, err := Parse(timeStr)
	if err != nil {
		panic(err)
	}
	return ts
}

// ParseValue parse a string-like value. Accepts string, []byte, *string and
// fmt.Stringer. A nil value, a nil pointer or any other type is a parse error.
func ParseValue(v any, offset FixedOffset) (Timestamp, error) {
	switch x := v.(type) {
	case nil:
		return Timestamp{}, newParseError("", -1, "no input value", nil)
	case string:
		return parseTimestamp(x, offset)
	case []byte:
		return parseTimestamp(string(x), offset)
	case *string:
		if x == nil {
			return Timestamp{}, newParseError("", -1, "nil string pointer", nil)
		}
		return parseTimestamp(*x, offset)
	case fmt.Stringer:
		rv := reflect.ValueOf(x)
		if rv.Kind() == reflect.Ptr && rv.IsNil() {
			return Timestamp{}, newParseError("", -1, "nil Stringer", nil)
		}
		return parseTimestamp(x.String(), offset)
	}

	return Timestamp{}, newParseError("", -1,
		"input of type "+reflect.TypeOf(v).String()+" is not string-like", nil)
}

// scanner a cursor over the input. Each component of the grammar is a fixed
// number of digits so there is never any backtracking.
type scanner struct {
	input string
	pos   int
}

func (s *scanner) eof() bool {
	return s.pos >= len(s.input)
}

// peek the next byte, 0 at end of input
func (s *scanner) peek() byte {
	if s.eof() {
		return 0
	}
	return s.input[s.pos]
}

// accept consume c if it is next
func (s *scanner) accept(c byte) bool {
	if s.peek() == c {
		s.pos++
		return true
	}
	return false
}

// nextIsDigit is the next byte a digit
func (s *scanner) nextIsDigit() bool {
	return utility.IsDigit(s.peek())
}

// two consume exactly two digits
func (s *scanner) two() (int, bool) {
	if len(s.input)-s.pos < 2 {
		return 0, false
	}
	v, ok := atoi2(s.input[s.pos : s.pos+2])
	if ok {
		s.pos += 2
	}
	return v, ok
}

// four consume exactly four digits
func (s *scanner) four() (int, bool) {
	if len(s.input)-s.pos < 4 {
		return 0, false
	}
	v, ok := atoi4(s.input[s.pos : s.pos+4])
	if ok {
		s.pos += 4
	}
	return v, ok
}

// fail get a parse error at the current position
func (s *scanner) fail(reason string) *ParseError {
	return newParseError(s.input, s.pos, reason, nil)
}

// zone scan a Z or ±hh[[:]mm] zone designator. found is false if the next
// byte does not start a zone designator.
func (s *scanner) zone() (offset FixedOffset, found bool, err *ParseError) {
	start := s.pos

	var sign byte
	switch s.peek() {
	case 'Z':
		s.pos++
		return UTC, true, nil
	case '+', '-':
		sign = s.peek()
		s.pos++
	default:
		return FixedOffset{}, false, nil
	}

	hourPos := s.pos
	offsetH, ok := s.two()
	if !ok {
		return FixedOffset{}, true, s.fail("offset hour must be 2 digits")
	}

	var offsetM int
	minutePos := s.pos
	if s.accept(':') {
		minutePos = s.pos
		if offsetM, ok = s.two(); !ok {
			return FixedOffset{}, true, s.fail("offset minute must be 2 digits after ':'")
		}
	} else if s.nextIsDigit() {
		if offsetM, ok = s.two(); !ok {
			return FixedOffset{}, true, s.fail("offset minute must be 2 digits")
		}
	}

	if offsetH > 23 {
		return FixedOffset{}, true, newParseError(s.input, hourPos,
			"offset hour out of range", errors.Errorf("offset hour %d is not between 0 and 23", offsetH))
	}
	if offsetM > 59 {
		return FixedOffset{}, true, newParseError(s.input, minutePos,
			"offset minute out of range", errors.Errorf("offset minute %d is not between 0 and 59", offsetM))
	}

	minutes := offsetH*60 + offsetM
	if sign == '-' {
		minutes = -minutes
	}
	o, cerr := NewFixedOffset(0, minutes, offsetLabel(sign, offsetH, offsetM))
	if cerr != nil {
		return FixedOffset{}, true, newParseError(s.input, start, "invalid offset", cerr)
	}

	return o, true, nil
}

// fraction scan fractional second digits and normalize them to microseconds.
// Digits past the sixth are dropped, not rounded.
func (s *scanner) fraction() (int, bool) {
	const microDigits int = 6

	var micro, count int
	for s.nextIsDigit() {
		if count < microDigits {
			micro = micro*10 + int(s.input[s.pos]-'0')
		}
		count++
		s.pos++
	}
	if count == 0 {
		return 0, false
	}
	for i := count; i < microDigits; i++ {
		micro *= 10
	}

	return micro, true
}

// parseTimestamp parse an ISO timestamp in a single pass. The result has the
// offset from the input, UTC for Z, or the default offset if the input has no
// zone designator.
func parseTimestamp(timeStr string, defaultOffset FixedOffset) (ts Timestamp, err error) {
	timeStrLength := len(timeStr)
	if timeStrLength == 0 {
		return Timestamp{}, newParseError(timeStr, -1, "empty input", nil)
	}
	if timeStrLength > maxLength {
		// Avoid allocations that would occur with fmt.Sprintf
		xfmtBuf := new(xfmt.Buffer)
		xfmtBuf.S("input length ").D(timeStrLength).S(" is greater than max of ").D(maxLength)

		return Timestamp{}, newParseError(timeStr, maxLength, utility.BytesToString(xfmtBuf.Bytes()...), nil)
	}

	// Start of each field for error reporting
	var positions [fieldCount]int

	s := scanner{input: timeStr}
	ts = Timestamp{month: 1, day: 1, offset: defaultOffset}

	// Date: YYYY, YYYY-MM, YYYY-MM-DD or YYYYMMDD
	var ok bool
	if ts.year, ok = s.four(); !ok {
		return Timestamp{}, s.fail("year must be 4 digits")
	}
	switch {
	case s.accept('-'):
		positions[monthField] = s.pos
		if ts.month, ok = s.two(); !ok {
			return Timestamp{}, s.fail("month must be 2 digits")
		}
		if s.accept('-') {
			positions[dayField] = s.pos
			if ts.day, ok = s.two(); !ok {
				return Timestamp{}, s.fail("day must be 2 digits")
			}
		}
	case s.nextIsDigit():
		positions[monthField] = s.pos
		if ts.month, ok = s.two(); !ok {
			return Timestamp{}, s.fail("month must be 2 digits")
		}
		positions[dayField] = s.pos
		if ts.day, ok = s.two(); !ok {
			return Timestamp{}, s.fail("compact date must be YYYYMMDD")
		}
	}

	// A zone is only allowed after a time
	if s.accept('T') || s.accept(' ') {
		positions[hourField] = s.pos
		if ts.hour, ok = s.two(); !ok {
			return Timestamp{}, s.fail("hour must be 2 digits")
		}

		// The separator style chosen for minutes must be used for seconds
		colon := false
		hasMinute := false
		switch {
		case s.accept(':'):
			colon = true
			hasMinute = true
		case s.nextIsDigit():
			hasMinute = true
		}
		if hasMinute {
			positions[minuteField] = s.pos
			if ts.minute, ok = s.two(); !ok {
				return Timestamp{}, s.fail("minute must be 2 digits")
			}

			var hasSecond bool
			if colon {
				hasSecond = s.accept(':')
			} else {
				hasSecond = s.nextIsDigit()
			}
			if hasSecond {
				positions[secondField] = s.pos
				if ts.second, ok = s.two(); !ok {
					return Timestamp{}, s.fail("second must be 2 digits")
				}
				if s.accept('.') {
					positions[microsecondField] = s.pos
					if ts.microsecond, ok = s.fraction(); !ok {
						return Timestamp{}, s.fail("fraction must have at least 1 digit")
					}
				}
			}
		}

		offset, found, perr := s.zone()
		if perr != nil {
			return Timestamp{}, perr
		}
		if found {
			ts.offset = offset
		}
	}

	// Anything left over makes the whole input invalid
	if !s.eof() {
		return Timestamp{}, s.fail("unexpected character")
	}

	if f, cerr := ts.validate(); cerr != nil {
		return Timestamp{}, newParseError(timeStr, positions[f], "invalid date or time", cerr)
	}

	return ts, nil
}
