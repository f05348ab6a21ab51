package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matryer/is"
)

// noEnv an env file path that does not exist so only defaults and flags apply
func noEnv(t *testing.T) string {
	return filepath.Join(t.TempDir(), "none.env")
}

func TestRunArgs(t *testing.T) {
	is := is.New(t)

	var stdout, stderr bytes.Buffer
	code := run([]string{"-env", noEnv(t), "-offset", "+02:00", "2007-01-01T08:00:00", "2007-01-01T08:00:00Z"},
		strings.NewReader(""), &stdout, &stderr)

	is.Equal(code, exitOK) // All inputs parse
	is.Equal(stdout.String(),
		"2007-01-01T08:00:00\t2007-01-01T08:00:00+02:00\n"+
			"2007-01-01T08:00:00Z\t2007-01-01T08:00:00+00:00\n")
	is.Equal(stderr.String(), "") // Nothing logged at info level
}

func TestRunStdin(t *testing.T) {
	is := is.New(t)

	var stdout, stderr bytes.Buffer
	in := "19950204\r\n\n1985-04-12T23:20:50.52-05:30\n2013-10-\n"
	code := run([]string{"-env", noEnv(t)}, strings.NewReader(in), &stdout, &stderr)

	is.Equal(code, exitInvalid) // One input fails
	is.Equal(stdout.String(),
		"19950204\t1995-02-04T00:00:00+00:00\n"+
			"1985-04-12T23:20:50.52-05:30\t1985-04-12T23:20:50.520000-05:30\n")
	is.True(strings.Contains(stderr.String(), "could not parse timestamp")) // Failure logged
	is.True(strings.Contains(stderr.String(), "2013-10-"))                  // with the input
}

func TestRunJSON(t *testing.T) {
	is := is.New(t)

	var stdout, stderr bytes.Buffer
	code := run([]string{"-env", noEnv(t), "-json", "19950204"}, strings.NewReader(""), &stdout, &stderr)

	is.Equal(code, exitOK)
	is.Equal(stdout.String(),
		`{"input":"19950204","timestamp":"1995-02-04T00:00:00+00:00","offset":"UTC","unix":791856000}`+"\n")
}

func TestRunJSONLogs(t *testing.T) {
	is := is.New(t)

	var stdout, stderr bytes.Buffer
	code := run([]string{"-env", noEnv(t), "-log-format", "json", "23"}, strings.NewReader(""), &stdout, &stderr)

	is.Equal(code, exitInvalid)
	is.True(strings.Contains(stderr.String(), `"level":"error"`)) // JSON log entry
	is.True(strings.Contains(stderr.String(), `"input":"23"`))    // with input field
}

func TestRunUsage(t *testing.T) {
	is := is.New(t)

	var stdout, stderr bytes.Buffer
	is.Equal(run([]string{"-env", noEnv(t), "-offset", "+99", "2013"}, strings.NewReader(""), &stdout, &stderr), exitUsage)
	is.True(strings.Contains(stderr.String(), "-offset")) // Bad offset flag reported

	stderr.Reset()
	is.Equal(run([]string{"-env", noEnv(t), "-log-level", "loud"}, strings.NewReader(""), &stdout, &stderr), exitUsage)
	is.Equal(run([]string{"-nope"}, strings.NewReader(""), &stdout, &stderr), exitUsage)
}
