// Package caphit applies the league's cap accounting rules to roster members.
package caphit

import "cap-ledger/internal/domain"

// Calculator computes per-member cap hits.
type Calculator struct {
	league domain.League
}

// NewCalculator creates a Calculator for the given league rules.
func NewCalculator(league domain.League) *Calculator {
	return &Calculator{league: league}
}

// League returns the rules the calculator applies.
func (c *Calculator) League() domain.League {
	return c.league
}

// Eligibility classifies a member by current roster assignment.
func (c *Calculator) Eligibility(m *domain.RosterMember) domain.Eligibility {
	switch {
	case c.league.IsMajor(m.Team):
		return domain.EligibilityMajor
	case c.league.IsMinor(m.Team):
		return domain.EligibilityMinor
	default:
		return domain.EligibilityNone
	}
}

// WaiverEligible reports whether a member has reached waiver age.
// Age is measured at the league's waiver reference date, or at asOf when
// no reference is configured.
func (c *Calculator) WaiverEligible(m *domain.RosterMember, asOf domain.Date) bool {
	ref := c.league.WaiverReference
	if ref.IsZero() {
		ref = asOf
	}
	return m.Age(ref) >= c.league.WaiverAge
}

// CapHit returns the member's cap hit as of asOf. Never negative.
func (c *Calculator) CapHit(m *domain.RosterMember, asOf domain.Date) int64 {
	var hit int64
	switch c.Eligibility(m) {
	case domain.EligibilityMajor:
		hit = m.EffectiveSalary(c.league.SalaryFloor)
	case domain.EligibilityMinor:
		if c.WaiverEligible(m, asOf) {
			hit = m.EffectiveSalary(c.league.SalaryFloor)
		}
		hit -= c.league.MinorSalaryCap
	}
	if hit < 0 {
		return 0
	}
	return hit
}
