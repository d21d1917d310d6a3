// Package projection turns ledger history into season-end cap projections.
package projection

import (
	"fmt"

	"cap-ledger/internal/domain"
	"cap-ledger/internal/ledger"
)

// AdjustedCap adds penalties to the cap and, when the total exceeds the
// ceiling, relieves up to ltir but never below the ceiling.
func AdjustedCap(capHit, penalties, ltir, ceiling int64) int64 {
	c := capHit + penalties
	if c > ceiling {
		c = max(ceiling, c-ltir)
	}
	return c
}

// RunningCap sums the adjusted caps of all entries. The entry count must
// equal the games played from the schedule.
func RunningCap(entries []*domain.LedgerEntry, expectedGP int, ceiling int64) (int64, error) {
	if len(entries) != expectedGP {
		team := ""
		if len(entries) > 0 {
			team = entries[0].Team
		}
		return 0, &ledger.IntegrityError{
			Team:   team,
			Reason: fmt.Sprintf("games counted %d doesn't match %d games played", len(entries), expectedGP),
		}
	}

	var total int64
	for _, e := range entries {
		total += AdjustedCap(e.CapHit, e.Penalties, e.LTIR, ceiling)
	}
	return total, nil
}

// Input is everything Project needs for one team.
type Input struct {
	Team        string
	TeamID      int
	GamesPlayed int
	Running     int64 // sum of adjusted caps over logged games
	CapHit      int64 // today's cap hit before penalties and LTIR
	Penalties   int64
	LTIR        int64
	Contracts   int
}

// Project computes the season-end projection for one team.
func Project(in Input, league domain.League) domain.Projection {
	games := float64(league.GamesPerSeason)
	ceiling := float64(league.CapCeiling)
	gp := float64(in.GamesPlayed)
	remaining := league.GamesPerSeason - in.GamesPlayed

	today := float64(AdjustedCap(in.CapHit, in.Penalties, in.LTIR, league.CapCeiling))

	var toDate float64
	if in.GamesPlayed > 0 {
		toDate = float64(in.Running) / gp
	}

	projected := (toDate*gp + today*float64(remaining)) / games

	var maxAllowable, headroom float64
	if remaining > 0 {
		maxAllowable = (ceiling*games - toDate*gp) / float64(remaining)
		headroom = maxAllowable - today
	}

	return domain.Projection{
		Team:           in.Team,
		TeamID:         in.TeamID,
		GamesPlayed:    in.GamesPlayed,
		GamesRemaining: remaining,
		Today:          today,
		ToDate:         toDate,
		Penalties:      in.Penalties,
		LTIR:           in.LTIR,
		Projected:      projected,
		OverCap:        projected > ceiling,
		Contracts:      in.Contracts,
		MaxAllowable:   maxAllowable,
		Headroom:       headroom,
	}
}
