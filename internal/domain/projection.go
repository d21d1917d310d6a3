package domain

// Projection is a team's season-end cap projection.
type Projection struct {
	RunID          string
	LeagueDate     Date
	Team           string
	TeamID         int // 1-based
	GamesPlayed    int
	GamesRemaining int
	Today          float64 // adjusted cap as of the league date
	ToDate         float64 // average adjusted cap over logged games
	Penalties      int64
	LTIR           int64
	Projected      float64
	OverCap        bool
	Contracts      int
	MaxAllowable   float64 // highest average allowed over the remaining games
	Headroom       float64
}
