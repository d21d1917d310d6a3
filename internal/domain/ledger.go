package domain

// LedgerEntry is one dated cap snapshot in a team ledger.
// Cap, Penalties and LTIR are kept apart so the adjusted cap can be recomputed.
type LedgerEntry struct {
	EntryID   string // derived from team and date
	Team      string // team code
	Date      Date
	CapHit    int64
	Penalties int64
	LTIR      int64
	Roster    []RosterLine
}

// RosterLine is one member's contribution in a ledger snapshot.
type RosterLine struct {
	PlayerID  int
	Team      int
	FirstName string
	LastName  string
	CapHit    int64
}

// Clone returns a deep copy of the entry.
func (e *LedgerEntry) Clone() *LedgerEntry {
	c := *e
	if e.Roster != nil {
		c.Roster = make([]RosterLine, len(e.Roster))
		copy(c.Roster, e.Roster)
	}
	return &c
}
