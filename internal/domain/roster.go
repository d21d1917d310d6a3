package domain

// Rating indexes into RosterMember.Ratings.
const (
	RatingFI = iota
	RatingSH
	RatingPL
	RatingST
	RatingCH
	RatingPO
	RatingHI
	RatingSK
	RatingEN
	RatingPE
	RatingFA
	RatingLE
	RatingSTR

	NumRatings
)

// RosterMember is one player record from a roster snapshot.
type RosterMember struct {
	ID          int
	Team        int // 0 unassigned, 1..N major, N+1..2N minor affiliate
	Rights      int // team holding the player's rights
	Salary      int64
	Years       int // contract years remaining
	BirthYear   int
	BirthMonth  int
	BirthDay    int
	FirstName   string
	LastName    string
	Ratings     [NumRatings]int
	Consistency int
}

// Age returns the approximate age at d: whole years plus month/12 plus day/365.
func (m *RosterMember) Age(d Date) float64 {
	age := float64(d.Year - m.BirthYear)
	age += float64(d.Month-m.BirthMonth) / 12
	age += float64(d.Day-m.BirthDay) / 365
	return age
}

// EffectiveSalary returns the salary raised to the league floor.
func (m *RosterMember) EffectiveSalary(floor int64) int64 {
	if m.Salary < floor {
		return floor
	}
	return m.Salary
}

// Eligibility classifies a member for cap purposes.
type Eligibility int

const (
	EligibilityNone Eligibility = iota
	EligibilityMajor
	EligibilityMinor
)

// String returns the string representation of Eligibility.
func (e Eligibility) String() string {
	switch e {
	case EligibilityMajor:
		return "major"
	case EligibilityMinor:
		return "minor"
	default:
		return "none"
	}
}
