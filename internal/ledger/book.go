package ledger

import (
	"context"
	"fmt"

	"cap-ledger/internal/domain"
	"cap-ledger/internal/storage"
)

// Book holds one Ledger per team in league order.
type Book struct {
	league  domain.League
	ledgers []*Ledger
}

// OpenBook opens every team ledger.
func OpenBook(ctx context.Context, store storage.LedgerStore, league domain.League) (*Book, error) {
	b := &Book{
		league:  league,
		ledgers: make([]*Ledger, league.NumTeams()),
	}
	for i := range b.ledgers {
		l, err := Open(ctx, store, league.Code(i))
		if err != nil {
			return nil, err
		}
		b.ledgers[i] = l
	}
	return b, nil
}

// Ledger returns the ledger for a 1-based team id.
func (b *Book) Ledger(team int) *Ledger {
	return b.ledgers[team-1]
}

// Ledgers returns all ledgers in league order.
func (b *Book) Ledgers() []*Ledger {
	return b.ledgers
}

// Reconcile checks one played game against both teams' ledgers.
// When both sides are logged they are verified and logged is true. When
// neither is, logged is false and the game should be appended. One side
// logged without the other is an integrity error.
func (b *Book) Reconcile(game domain.GameEntry, old, current SalaryLookup, sink Sink) (logged bool, err error) {
	home := b.Ledger(game.Home)
	away := b.Ledger(game.Away)

	homeLogged := home.HasEntry(game.Date)
	awayLogged := away.HasEntry(game.Date)

	if homeLogged != awayLogged {
		missing := away
		if !homeLogged {
			missing = home
		}
		return false, &IntegrityError{
			Team:   missing.Team(),
			Date:   game.Date,
			File:   missing.File(),
			Reason: fmt.Sprintf("home and away games not both logged (%s vs %s)", home.Team(), away.Team()),
		}
	}
	if !homeLogged {
		return false, nil
	}

	if _, err := home.Verify(game.Date, old, current, sink); err != nil {
		return true, err
	}
	if _, err := away.Verify(game.Date, old, current, sink); err != nil {
		return true, err
	}
	return true, nil
}
