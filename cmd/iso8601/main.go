package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/imarsman/iso8601"
	"github.com/imarsman/iso8601/internal/config"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const (
	exitOK      = 0
	exitInvalid = 1 // at least one input did not parse
	exitUsage   = 2
)

// result one line of JSON output
type result struct {
	Input     string            `json:"input"`
	Timestamp iso8601.Timestamp `json:"timestamp"`
	Offset    string            `json:"offset"`
	Unix      int64             `json:"unix"`
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// run parse each argument, or each line of stdin if there are no arguments,
// and print its canonical ISO 8601 form.
func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	flags := flag.NewFlagSet("iso8601", flag.ContinueOnError)
	flags.SetOutput(stderr)
	flags.Usage = func() {
		fmt.Fprintln(stderr, "Usage: iso8601 [flags] [timestamp ...]")
		flags.PrintDefaults()
	}

	envFile := flags.String("env", ".env", "file to load environment settings from")
	offsetFlag := flags.String("offset", "", "offset for input with no zone designator (Z or ±hh:mm)")
	levelFlag := flags.String("log-level", "", "log level (debug, info, warn, error)")
	formatFlag := flags.String("log-format", "", "log format (text or json)")
	jsonFlag := flags.Bool("json", false, "print one JSON object per input")

	if err := flags.Parse(args); err != nil {
		return exitUsage
	}

	cfg, err := loadConfig(*envFile, *offsetFlag, *levelFlag, *formatFlag)
	if err != nil {
		fmt.Fprintln(stderr, "iso8601:", err)
		return exitUsage
	}

	log := cfg.Logger()
	log.SetOutput(stderr)
	log.WithFields(logrus.Fields{
		"offset": cfg.DefaultOffset.Label(),
		"json":   *jsonFlag,
	}).Debug("starting")

	p := printer{
		out:    stdout,
		log:    log,
		offset: cfg.DefaultOffset,
		json:   *jsonFlag,
	}

	if flags.NArg() > 0 {
		for _, in := range flags.Args() {
			p.handle(in)
		}
	} else {
		scanner := bufio.NewScanner(stdin)
		for scanner.Scan() {
			line := strings.TrimRight(scanner.Text(), "\r")
			if strings.TrimSpace(line) == "" {
				continue
			}
			p.handle(line)
		}
		if err := scanner.Err(); err != nil {
			log.WithError(err).Error("reading input")
			return exitInvalid
		}
	}

	log.WithFields(logrus.Fields{"parsed": p.parsed, "failed": p.failed}).Debug("done")
	if p.failed > 0 {
		return exitInvalid
	}
	return exitOK
}

// loadConfig load config from the environment and apply any flag overrides
func loadConfig(envFile, offset, level, format string) (config.Config, error) {
	cfg, err := config.Load(envFile)
	if err != nil {
		return config.Config{}, err
	}
	if offset != "" {
		if cfg.DefaultOffset, err = iso8601.ParseOffset(offset); err != nil {
			return config.Config{}, errors.Wrap(err, "-offset")
		}
	}
	if level != "" {
		if cfg.LogLevel, err = logrus.ParseLevel(level); err != nil {
			return config.Config{}, errors.Wrap(err, "-log-level")
		}
	}
	if format != "" {
		if cfg.LogFormat, err = config.ParseFormat(format); err != nil {
			return config.Config{}, errors.Wrap(err, "-log-format")
		}
	}
	return cfg, nil
}

type printer struct {
	out    io.Writer
	log    *logrus.Logger
	offset iso8601.FixedOffset
	json   bool

	parsed int
	failed int
}

func (p *printer) handle(in string) {
	ts, err := iso8601.ParseInOffset(in, p.offset)
	if err != nil {
		p.failed++
		p.log.WithFields(logrus.Fields{"input": in, "error": err}).Error("could not parse timestamp")
		return
	}
	p.parsed++
	p.log.WithField("input", in).Debug("parsed")

	if !p.json {
		fmt.Fprintf(p.out, "%s\t%s\n", in, ts)
		return
	}
	b, err := json.Marshal(result{
		Input:     in,
		Timestamp: ts,
		Offset:    ts.Offset().Label(),
		Unix:      ts.Time().Unix(),
	})
	if err != nil {
		p.failed++
		p.log.WithError(err).Error("encoding result")
		return
	}
	fmt.Fprintln(p.out, string(b))
}
