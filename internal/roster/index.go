package roster

import "cap-ledger/internal/domain"

// Index looks members up by id.
type Index struct {
	byID  map[int]*domain.RosterMember
	floor int64
}

// NewIndex indexes members. floor is the league salary floor.
func NewIndex(members []*domain.RosterMember, floor int64) *Index {
	byID := make(map[int]*domain.RosterMember, len(members))
	for _, m := range members {
		byID[m.ID] = m
	}
	return &Index{byID: byID, floor: floor}
}

// Member returns the member with id.
func (x *Index) Member(id int) (*domain.RosterMember, bool) {
	m, ok := x.byID[id]
	return m, ok
}

// Salary returns the effective salary for id, or 0 when the id is unknown.
func (x *Index) Salary(id int) int64 {
	m, ok := x.byID[id]
	if !ok {
		return 0
	}
	return m.EffectiveSalary(x.floor)
}

// Len returns the number of indexed members.
func (x *Index) Len() int {
	return len(x.byID)
}

// GroupByRights assigns each signed member to the club holding its rights.
// Members whose rights sit with a minor affiliate count for the parent club.
// The result is indexed by zero-based team index and keeps roster order.
func GroupByRights(members []*domain.RosterMember, league domain.League) [][]*domain.RosterMember {
	groups := make([][]*domain.RosterMember, league.NumTeams())
	for _, m := range members {
		if m.Years <= 0 {
			continue
		}
		idx := league.ParentIndex(m.Rights)
		if idx < 0 {
			continue
		}
		groups[idx] = append(groups[idx], m)
	}
	return groups
}
