package reporting

import (
	"sort"
	"time"

	"cap-ledger/internal/domain"
)

// CapReport is the output of one run.
type CapReport struct {
	RunID       string
	GeneratedAt time.Time
	LeagueDate  domain.Date

	// Projections in team order.
	Rows []*domain.Projection

	// Per-team roster breakdown at the league date, in team order.
	Breakdowns []TeamBreakdown

	Reconciliation ReconciliationSection
}

// ReconciliationSection summarizes ledger checks and appends.
type ReconciliationSection struct {
	CheckedGames int `json:"checked_games"`
	Mismatches   int `json:"mismatches"`
	Appended     int `json:"appended"`     // ledger entries written this run
	OutOfOrder   int `json:"out_of_order"` // played games found after unplayed ones
}

// TeamBreakdown lists a team's cap hits member by member.
type TeamBreakdown struct {
	Team      string
	Members   []BreakdownLine // cap hit descending, ties by id
	Roster    int64           // sum of member cap hits
	Penalties int64
	Final     int64 // team cap including surcharge and penalties
	Contracts int
}

// BreakdownLine is one member's cap hit.
type BreakdownLine struct {
	PlayerID  int
	FirstName string
	LastName  string
	CapHit    int64
}

// NewBreakdown builds a sorted breakdown from snapshot lines.
func NewBreakdown(team string, lines []domain.RosterLine, penalties, final int64, contracts int) TeamBreakdown {
	b := TeamBreakdown{
		Team:      team,
		Members:   make([]BreakdownLine, 0, len(lines)),
		Penalties: penalties,
		Final:     final,
		Contracts: contracts,
	}
	for _, l := range lines {
		b.Members = append(b.Members, BreakdownLine{
			PlayerID:  l.PlayerID,
			FirstName: l.FirstName,
			LastName:  l.LastName,
			CapHit:    l.CapHit,
		})
		b.Roster += l.CapHit
	}

	sort.SliceStable(b.Members, func(i, j int) bool {
		if b.Members[i].CapHit != b.Members[j].CapHit {
			return b.Members[i].CapHit > b.Members[j].CapHit
		}
		return b.Members[i].PlayerID < b.Members[j].PlayerID
	})
	return b
}
