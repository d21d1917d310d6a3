package contract

import (
	"cap-ledger/internal/domain"
)

// Rater combines offensive and defensive ratings into an overall.
type Rater struct {
	MaxWeight float64 // weight of the stronger side
	MinWeight float64 // weight of the weaker side
}

// DefaultRater weighs both sides equally.
func DefaultRater() Rater {
	return Rater{MaxWeight: 0.5, MinWeight: 0.5}
}

// Offense averages shooting, playmaking and stickhandling.
func (Rater) Offense(m *domain.RosterMember) float64 {
	return float64(m.Ratings[domain.RatingSH]+m.Ratings[domain.RatingPL]+m.Ratings[domain.RatingST]) / 3
}

// Defense averages checking, positioning and hitting.
func (Rater) Defense(m *domain.RosterMember) float64 {
	return float64(m.Ratings[domain.RatingCH]+m.Ratings[domain.RatingPO]+m.Ratings[domain.RatingHI]) / 3
}

// Overall weighs the stronger and weaker of offense and defense.
func (r Rater) Overall(m *domain.RosterMember) float64 {
	off, def := r.Offense(m), r.Defense(m)
	return max(off, def)*r.MaxWeight + min(off, def)*r.MinWeight
}

// SpecialistBonus rewards lopsided players: 500,000 for scorers, 250,000 for defenders.
func (r Rater) SpecialistBonus(m *domain.RosterMember) float64 {
	off, def := r.Offense(m), r.Defense(m)
	var bonus float64
	if off >= def+5 {
		bonus += 500_000
	}
	if def >= off+5 {
		bonus += 250_000
	}
	return bonus
}

// StatBonus adds 250,000 for every secondary rating above 80 and for high consistency.
func StatBonus(m *domain.RosterMember) float64 {
	var bonus float64
	for i := domain.RatingSK; i <= domain.RatingSTR; i++ {
		if m.Ratings[i] > 80 {
			bonus += 250_000
		}
	}
	if m.Consistency > 80 {
		bonus += 250_000
	}
	return bonus
}
