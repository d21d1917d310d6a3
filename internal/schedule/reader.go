// Package schedule reads the league schedule and decides which games have been played.
package schedule

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"cap-ledger/internal/domain"
)

// ErrMalformedSchedule is returned when a schedule or league date file cannot be parsed.
var ErrMalformedSchedule = errors.New("malformed schedule")

// ReadSchedule reads a schedule file. Each game is a line
// "day month year home away status" followed by a score line that is ignored.
func ReadSchedule(path string) ([]domain.GameEntry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open schedule: %w", err)
	}
	defer f.Close()

	games, err := ParseSchedule(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return games, nil
}

// ParseSchedule parses schedule content in stored order.
func ParseSchedule(r io.Reader) ([]domain.GameEntry, error) {
	var games []domain.GameEntry

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}

		game, err := parseGameLine(fields)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		games = append(games, game)

		// Score line.
		if scanner.Scan() {
			lineNo++
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan schedule: %w", err)
	}

	return games, nil
}

func parseGameLine(fields []string) (domain.GameEntry, error) {
	if len(fields) < 6 {
		return domain.GameEntry{}, fmt.Errorf("%w: want 6 fields, got %d", ErrMalformedSchedule, len(fields))
	}

	var v [6]int
	for i := range v {
		n, err := strconv.Atoi(fields[i])
		if err != nil {
			return domain.GameEntry{}, fmt.Errorf("%w: field %d %q is not an integer", ErrMalformedSchedule, i+1, fields[i])
		}
		v[i] = n
	}

	return domain.GameEntry{
		Date:   domain.NewDate(v[2], v[1], v[0]),
		Home:   v[3],
		Away:   v[4],
		Status: v[5],
	}, nil
}

// ReadLeagueDate reads the current league date stored as "year month day".
func ReadLeagueDate(path string) (domain.Date, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.Date{}, fmt.Errorf("read league date: %w", err)
	}

	fields := strings.Fields(string(data))
	if len(fields) < 3 {
		return domain.Date{}, fmt.Errorf("%s: %w: league date needs year month day", path, ErrMalformedSchedule)
	}

	var v [3]int
	for i := range v {
		n, err := strconv.Atoi(fields[i])
		if err != nil {
			return domain.Date{}, fmt.Errorf("%s: %w: league date field %q", path, ErrMalformedSchedule, fields[i])
		}
		v[i] = n
	}

	return domain.NewDate(v[0], v[1], v[2]), nil
}
