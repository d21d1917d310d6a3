package caphit

import "cap-ledger/internal/domain"

// TeamCap is the aggregate cap position of one team.
type TeamCap struct {
	Total      int64 // cap hits + surcharge + penalty
	RosterCap  int64 // cap hits only
	Surcharge  int64
	Penalty    int64
	Contracts  int // major and minor members
	ActivePros int // major members
}

// Aggregator sums member cap hits into a team figure.
type Aggregator struct {
	calc *Calculator
}

// NewAggregator creates an Aggregator backed by calc.
func NewAggregator(calc *Calculator) *Aggregator {
	return &Aggregator{calc: calc}
}

// Aggregate computes a team's cap as of asOf.
// Members assigned outside the league's 2N rosters are ignored. When fewer
// than the minimum number of members are on the major roster, each missing
// spot is charged at the replacement cap hit. The penalty is added last.
func (a *Aggregator) Aggregate(members []*domain.RosterMember, penalty int64, asOf domain.Date) TeamCap {
	league := a.calc.league
	var tc TeamCap

	for _, m := range members {
		if m.Team > 2*league.NumTeams() {
			continue
		}
		tc.RosterCap += a.calc.CapHit(m, asOf)
		if league.IsPro(m.Team) {
			tc.Contracts++
		}
		if league.IsMajor(m.Team) {
			tc.ActivePros++
		}
	}

	if missing := league.MinActivePros - tc.ActivePros; missing > 0 {
		tc.Surcharge = int64(missing) * league.ReplacementCapHit
	}
	tc.Penalty = penalty
	tc.Total = tc.RosterCap + tc.Surcharge + penalty
	return tc
}

// Snapshot returns the roster lines recorded in a ledger entry dated asOf.
func (a *Aggregator) Snapshot(members []*domain.RosterMember, asOf domain.Date) []domain.RosterLine {
	lines := make([]domain.RosterLine, 0, len(members))
	for _, m := range members {
		lines = append(lines, domain.RosterLine{
			PlayerID:  m.ID,
			Team:      m.Team,
			FirstName: m.FirstName,
			LastName:  m.LastName,
			CapHit:    a.calc.CapHit(m, asOf),
		})
	}
	return lines
}
