package schedule

import (
	"errors"
	"fmt"

	"cap-ledger/internal/domain"
)

// ErrInvalidGame is returned for games that reference unknown teams or
// schedule a team twice on one date.
var ErrInvalidGame = errors.New("invalid scheduled game")

// Result is the outcome of walking a schedule up to the league date.
type Result struct {
	// Appearances holds each team's played games in schedule order, indexed by team-1.
	Appearances [][]domain.Appearance
	// GamesPlayed counts played games per team, indexed by team-1.
	GamesPlayed []int
	// Played lists the played games in schedule order.
	Played []domain.GameEntry
	// OutOfOrder counts played games found after an unplayed one.
	OutOfOrder int
}

// Walk scans every entry and collects the games played on or before current.
// numTeams bounds the valid 1-based team indexes.
func Walk(entries []domain.GameEntry, current domain.Date, numTeams int) (*Result, error) {
	res := &Result{
		Appearances: make([][]domain.Appearance, numTeams),
		GamesPlayed: make([]int, numTeams),
	}

	type teamDay struct {
		team int
		date domain.Date
	}
	seen := make(map[teamDay]struct{})
	sawUnplayed := false

	for i, g := range entries {
		if g.Home < 1 || g.Home > numTeams || g.Away < 1 || g.Away > numTeams {
			return nil, fmt.Errorf("%w: game %d on %s has teams %d and %d, want 1..%d",
				ErrInvalidGame, i+1, g.Date, g.Home, g.Away, numTeams)
		}
		if g.Home == g.Away {
			return nil, fmt.Errorf("%w: game %d on %s has team %d playing itself", ErrInvalidGame, i+1, g.Date, g.Home)
		}

		if !g.Date.OnOrBefore(current) {
			sawUnplayed = true
			continue
		}
		if sawUnplayed {
			res.OutOfOrder++
		}

		for _, team := range []int{g.Home, g.Away} {
			k := teamDay{team, g.Date}
			if _, dup := seen[k]; dup {
				return nil, fmt.Errorf("%w: team %d scheduled twice on %s", ErrInvalidGame, team, g.Date)
			}
			seen[k] = struct{}{}
		}

		res.Appearances[g.Home-1] = append(res.Appearances[g.Home-1], domain.Appearance{Date: g.Date, Home: true})
		res.Appearances[g.Away-1] = append(res.Appearances[g.Away-1], domain.Appearance{Date: g.Date, Home: false})
		res.GamesPlayed[g.Home-1]++
		res.GamesPlayed[g.Away-1]++
		res.Played = append(res.Played, g)
	}

	return res, nil
}
