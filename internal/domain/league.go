package domain

import "fmt"

// DefaultTeamCodes lists the league's teams in file order.
var DefaultTeamCodes = []string{
	"ANA", "CBJ", "BOS", "BUF", "CGY", "CAR", "CHI", "COL", "WPG", "DAL",
	"DET", "EDM", "FLA", "LA", "MIN", "MTL", "NYI", "NYR", "NAS", "NJ",
	"OTT", "PHI", "ARZ", "PIT", "SJ", "STL", "TB", "TOR", "VAN", "WAS",
}

// League holds the accounting rules for one season.
type League struct {
	TeamCodes         []string // index i is team id i+1
	GamesPerSeason    int
	CapCeiling        int64
	MinorSalaryCap    int64   // deducted from every minor-league cap hit
	WaiverAge         float64 // minor leaguers at or above this age count against the cap
	WaiverReference   Date    // date the waiver age is measured at
	MinActivePros     int
	ReplacementCapHit int64 // charged per missing active pro
	SalaryFloor       int64 // minimum effective salary
}

// DefaultLeague returns the standard league rules.
func DefaultLeague() League {
	codes := make([]string, len(DefaultTeamCodes))
	copy(codes, DefaultTeamCodes)
	return League{
		TeamCodes:         codes,
		GamesPerSeason:    82,
		CapCeiling:        60_000_000,
		MinorSalaryCap:    800_000,
		WaiverAge:         23,
		WaiverReference:   NewDate(2023, 9, 15),
		MinActivePros:     22,
		ReplacementCapHit: 600_000,
		SalaryFloor:       320_000,
	}
}

// NumTeams returns the number of major-league teams.
func (l League) NumTeams() int {
	return len(l.TeamCodes)
}

// IsMajor reports whether team is a major-league roster (1..N).
func (l League) IsMajor(team int) bool {
	return team > 0 && team <= l.NumTeams()
}

// IsMinor reports whether team is a minor-league affiliate (N+1..2N).
func (l League) IsMinor(team int) bool {
	n := l.NumTeams()
	return team > n && team <= 2*n
}

// IsPro reports whether team is a major or minor roster.
func (l League) IsPro(team int) bool {
	return l.IsMajor(team) || l.IsMinor(team)
}

// ParentIndex maps a pro team number to the zero-based index of its
// major-league club. It returns -1 for anything else.
func (l League) ParentIndex(team int) int {
	switch {
	case l.IsMajor(team):
		return team - 1
	case l.IsMinor(team):
		return team - 1 - l.NumTeams()
	default:
		return -1
	}
}

// Code returns the team code for a zero-based index.
func (l League) Code(index int) string {
	if index < 0 || index >= len(l.TeamCodes) {
		return fmt.Sprintf("T%d", index+1)
	}
	return l.TeamCodes[index]
}

// Validate checks that the rules are usable.
func (l League) Validate() error {
	if len(l.TeamCodes) == 0 {
		return fmt.Errorf("league has no teams")
	}
	seen := make(map[string]struct{}, len(l.TeamCodes))
	for _, c := range l.TeamCodes {
		if c == "" {
			return fmt.Errorf("empty team code")
		}
		if _, ok := seen[c]; ok {
			return fmt.Errorf("duplicate team code %s", c)
		}
		seen[c] = struct{}{}
	}
	if l.GamesPerSeason <= 0 {
		return fmt.Errorf("games per season must be positive, got %d", l.GamesPerSeason)
	}
	if l.CapCeiling <= 0 {
		return fmt.Errorf("cap ceiling must be positive, got %d", l.CapCeiling)
	}
	if l.MinorSalaryCap < 0 || l.ReplacementCapHit < 0 || l.SalaryFloor < 0 {
		return fmt.Errorf("money constants must not be negative")
	}
	if l.MinActivePros < 0 {
		return fmt.Errorf("minimum active pros must not be negative, got %d", l.MinActivePros)
	}
	return nil
}
