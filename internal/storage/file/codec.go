package file

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"cap-ledger/internal/domain"
	"cap-ledger/internal/idhash"
	"cap-ledger/internal/storage"
)

const (
	headerFields = 7 // day month year cap penalties ltir count
	lineFields   = 5 // id team first last cap
)

// spaceReplacement stands in for whitespace inside names.
const spaceReplacement = '.'

// EncodeEntry renders an entry as one ledger line without the trailing newline.
// Format: D M Y cap penalties ltir n [id team first last cap]×n
// Whitespace inside names is written as '.', so such names do not round-trip;
// an empty name is written as a lone '.' and reads back empty.
func EncodeEntry(e *domain.LedgerEntry) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "%d %d %d %d %d %d %d",
		e.Date.Day, e.Date.Month, e.Date.Year,
		e.CapHit, e.Penalties, e.LTIR,
		len(e.Roster),
	)
	for _, l := range e.Roster {
		fmt.Fprintf(&sb, " %d %d %s %s %d",
			l.PlayerID, l.Team,
			encodeName(l.FirstName), encodeName(l.LastName),
			l.CapHit,
		)
	}
	return sb.String()
}

// DecodeEntry parses one ledger line for team.
// Any deviation from the format yields storage.ErrCorruptLedger.
func DecodeEntry(team, line string) (*domain.LedgerEntry, error) {
	fields := strings.Fields(line)
	if len(fields) < headerFields {
		return nil, corrupt("want at least %d fields, got %d", headerFields, len(fields))
	}

	var header [headerFields]int64
	for i := 0; i < headerFields; i++ {
		v, err := strconv.ParseInt(fields[i], 10, 64)
		if err != nil {
			return nil, corrupt("field %d %q is not an integer", i+1, fields[i])
		}
		header[i] = v
	}

	count := header[6]
	if count < 0 {
		return nil, corrupt("negative roster count %d", count)
	}
	if want := headerFields + int(count)*lineFields; len(fields) != want {
		return nil, corrupt("roster count %d needs %d fields, got %d", count, want, len(fields))
	}

	e := &domain.LedgerEntry{
		Team:      team,
		Date:      domain.NewDate(int(header[2]), int(header[1]), int(header[0])),
		CapHit:    header[3],
		Penalties: header[4],
		LTIR:      header[5],
		Roster:    make([]domain.RosterLine, 0, count),
	}
	e.EntryID = idhash.ComputeEntryID(team, e.Date)

	for i := 0; i < int(count); i++ {
		f := fields[headerFields+i*lineFields : headerFields+(i+1)*lineFields]

		id, err := strconv.Atoi(f[0])
		if err != nil {
			return nil, corrupt("roster line %d: player id %q is not an integer", i+1, f[0])
		}
		playerTeam, err := strconv.Atoi(f[1])
		if err != nil {
			return nil, corrupt("roster line %d: team %q is not an integer", i+1, f[1])
		}
		capHit, err := strconv.ParseInt(f[4], 10, 64)
		if err != nil {
			return nil, corrupt("roster line %d: cap hit %q is not an integer", i+1, f[4])
		}

		e.Roster = append(e.Roster, domain.RosterLine{
			PlayerID:  id,
			Team:      playerTeam,
			FirstName: decodeName(f[2]),
			LastName:  decodeName(f[3]),
			CapHit:    capHit,
		})
	}

	return e, nil
}

// encodeName replaces whitespace so a name stays a single field.
func encodeName(name string) string {
	if name == "" {
		return string(spaceReplacement)
	}
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return spaceReplacement
		}
		return r
	}, name)
}

func decodeName(field string) string {
	if field == string(spaceReplacement) {
		return ""
	}
	return field
}

func corrupt(format string, args ...any) error {
	return fmt.Errorf("%w: %s", storage.ErrCorruptLedger, fmt.Sprintf(format, args...))
}
