package roster

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"cap-ledger/internal/domain"
)

// ErrMalformedRoster is returned when a roster file cannot be parsed.
var ErrMalformedRoster = errors.New("malformed roster")

var ratingColumns = [domain.NumRatings]string{
	domain.RatingFI:  "fi",
	domain.RatingSH:  "sh",
	domain.RatingPL:  "pl",
	domain.RatingST:  "st",
	domain.RatingCH:  "ch",
	domain.RatingPO:  "po",
	domain.RatingHI:  "hi",
	domain.RatingSK:  "sk",
	domain.RatingEN:  "en",
	domain.RatingPE:  "pe",
	domain.RatingFA:  "fa",
	domain.RatingLE:  "le",
	domain.RatingSTR: "str",
}

var requiredColumns = []string{
	"team", "salary", "years", "byear", "bday", "bmonth", "rights", "name_first", "name_last",
}

// CSVProvider reads a headed, comma-separated roster export.
// Rows without an id column are numbered from 0 in file order.
type CSVProvider struct {
	Path string
}

// NewCSVProvider creates a provider for path.
func NewCSVProvider(path string) *CSVProvider {
	return &CSVProvider{Path: path}
}

// Load reads every row of the roster file.
func (p *CSVProvider) Load(ctx context.Context) ([]*domain.RosterMember, error) {
	f, err := os.Open(p.Path)
	if err != nil {
		return nil, fmt.Errorf("open roster: %w", err)
	}
	defer f.Close()

	members, err := ParseCSV(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", p.Path, err)
	}
	return members, nil
}

// ParseCSV parses a headed roster export.
func ParseCSV(ctx context.Context, r io.Reader) ([]*domain.RosterMember, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("%w: read header: %v", ErrMalformedRoster, err)
	}
	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, name := range requiredColumns {
		if _, ok := cols[name]; !ok {
			return nil, fmt.Errorf("%w: missing column %q", ErrMalformedRoster, name)
		}
	}

	var members []*domain.RosterMember
	for row := 0; ; row++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedRoster, err)
		}

		m, err := parseRow(cols, rec, row)
		if err != nil {
			return nil, fmt.Errorf("%w: row %d: %v", ErrMalformedRoster, row+1, err)
		}
		members = append(members, m)
	}

	return members, nil
}

func parseRow(cols map[string]int, rec []string, row int) (*domain.RosterMember, error) {
	get := func(name string) (string, bool) {
		i, ok := cols[name]
		if !ok || i >= len(rec) {
			return "", false
		}
		return strings.TrimSpace(rec[i]), true
	}
	num := func(name string, required bool) (int64, error) {
		s, ok := get(name)
		if !ok || s == "" {
			if required {
				return 0, fmt.Errorf("column %s is empty", name)
			}
			return 0, nil
		}
		v, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("column %s: %q is not an integer", name, s)
		}
		return v, nil
	}

	m := &domain.RosterMember{ID: row}
	fields := []struct {
		name string
		dst  func(int64)
	}{
		{"team", func(v int64) { m.Team = int(v) }},
		{"salary", func(v int64) { m.Salary = v }},
		{"years", func(v int64) { m.Years = int(v) }},
		{"byear", func(v int64) { m.BirthYear = int(v) }},
		{"bday", func(v int64) { m.BirthDay = int(v) }},
		{"bmonth", func(v int64) { m.BirthMonth = int(v) }},
		{"rights", func(v int64) { m.Rights = int(v) }},
	}
	for _, f := range fields {
		v, err := num(f.name, true)
		if err != nil {
			return nil, err
		}
		f.dst(v)
	}

	// An empty id cell keeps the row index.
	if s, ok := get("id"); ok && s != "" {
		v, err := num("id", false)
		if err != nil {
			return nil, err
		}
		m.ID = int(v)
	}

	for i, name := range ratingColumns {
		v, err := num(name, false)
		if err != nil {
			return nil, err
		}
		m.Ratings[i] = int(v)
	}
	con, err := num("con", false)
	if err != nil {
		return nil, err
	}
	m.Consistency = int(con)

	m.FirstName, _ = get("name_first")
	m.LastName, _ = get("name_last")
	return m, nil
}
