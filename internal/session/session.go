// Package session runs the interactive search prompt.
package session

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"

	"weather-history/internal/collector"
	"weather-history/internal/geo"
)

const separator = "\n======================================================================================================="

type Searcher interface {
	MaxDays() int
	ValidateWindow(days int) error
	Resolve(ctx context.Context, location string) (geo.Coordinate, error)
	Fetch(ctx context.Context, location string, coord geo.Coordinate, days int) (*collector.Result, error)
}

type Session struct {
	searcher Searcher
	in       *bufio.Scanner
	out      io.Writer
}

func New(searcher Searcher, in io.Reader, out io.Writer) *Session {
	return &Session{
		searcher: searcher,
		in:       bufio.NewScanner(in),
		out:      out,
	}
}

// Run loops until the user quits, input ends, or a lookup yields an invalid
// coordinate, which is returned as the session's error.
func (s *Session) Run(ctx context.Context) error {
	maxDays := s.searcher.MaxDays()
	s.println("Hello! Thanks for searching historical weather data. Please note we just provide historical weather data")
	s.printf("for the previous %d days at most if you are a free account in openweathermap.org.\n", maxDays)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		s.println(separator)

		location, ok := s.prompt("Please type the city name, like 'London, UK': ")
		if !ok {
			return nil
		}

		coord, err := s.searcher.Resolve(ctx, location)
		if errors.Is(err, geo.ErrInvalidCoordinate) {
			return err
		}
		if err != nil {
			log.WithField("location", location).Debug(err)
			s.printf("Could not find coordinates for %q: %v\n", location, err)
			if !s.again("type 'q' to exit or 'c' to continue a new search.") {
				return nil
			}
			continue
		}

		answer, ok := s.prompt(fmt.Sprintf("Please type the timedelta in the range 1 to %d: ", maxDays))
		if !ok {
			return nil
		}
		days, err := strconv.Atoi(strings.TrimSpace(answer))
		if err == nil {
			err = s.searcher.ValidateWindow(days)
		}
		if err != nil {
			s.printf("Invalid timedelta. It should be a integer being range from 1 to %d.\n", maxDays)
			if !s.again("type 'q' to exit or 'c' to continue a new search.") {
				return nil
			}
			continue
		}

		result, err := s.searcher.Fetch(ctx, location, coord, days)
		if err != nil {
			return err
		}

		for _, offset := range result.FailedOffsets {
			s.printf("scratch weather data for previous %d day(s) failed.\n", offset)
		}
		s.println("Process completed. Data write to ", result.File)
		if !s.again("\nPlease type 'q' to exit or 'c' to continue a new search.") {
			return nil
		}
	}
}

// again asks the quit/continue question and reports whether to loop.
func (s *Session) again(question string) bool {
	s.println(question)
	option, ok := s.prompt("Your option: ")
	if !ok {
		return false
	}

	switch strings.TrimSpace(option) {
	case "q":
		s.println("Goodbye...")
		return false
	case "c":
		s.println("Once again...")
		return true
	default:
		s.println("Invalid input, exit...")
		return false
	}
}

func (s *Session) prompt(question string) (string, bool) {
	fmt.Fprint(s.out, question)
	if !s.in.Scan() {
		fmt.Fprintln(s.out)
		return "", false
	}
	return s.in.Text(), true
}

func (s *Session) println(a ...interface{}) {
	fmt.Fprintln(s.out, a...)
}

func (s *Session) printf(format string, a ...interface{}) {
	fmt.Fprintf(s.out, format, a...)
}
