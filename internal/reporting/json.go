package reporting

import (
	"time"

	"github.com/goccy/go-json"
)

type jsonReport struct {
	RunID          string                `json:"run_id"`
	GeneratedAt    string                `json:"generated_at"`
	LeagueDate     string                `json:"league_date"`
	Teams          []jsonTeam            `json:"teams"`
	Reconciliation ReconciliationSection `json:"reconciliation"`
}

type jsonTeam struct {
	Team           string  `json:"team"`
	TeamID         int     `json:"team_id"`
	GamesPlayed    int     `json:"games_played"`
	GamesRemaining int     `json:"games_remaining"`
	Today          float64 `json:"today"`
	ToDate         float64 `json:"to_date"`
	Penalties      int64   `json:"penalties"`
	LTIR           int64   `json:"ltir"`
	Projected      float64 `json:"projected"`
	OverCap        bool    `json:"over_cap"`
	Contracts      int     `json:"contracts"`
	MaxAllowable   float64 `json:"max_allowable"`
	Headroom       float64 `json:"headroom"`
}

// RenderJSON renders the report as indented JSON.
func RenderJSON(r *CapReport) ([]byte, error) {
	out := jsonReport{
		RunID:          r.RunID,
		GeneratedAt:    r.GeneratedAt.Format(time.RFC3339),
		LeagueDate:     r.LeagueDate.String(),
		Teams:          make([]jsonTeam, 0, len(r.Rows)),
		Reconciliation: r.Reconciliation,
	}
	for _, p := range r.Rows {
		out.Teams = append(out.Teams, jsonTeam{
			Team:           p.Team,
			TeamID:         p.TeamID,
			GamesPlayed:    p.GamesPlayed,
			GamesRemaining: p.GamesRemaining,
			Today:          p.Today,
			ToDate:         p.ToDate,
			Penalties:      p.Penalties,
			LTIR:           p.LTIR,
			Projected:      p.Projected,
			OverCap:        p.OverCap,
			Contracts:      p.Contracts,
			MaxAllowable:   p.MaxAllowable,
			Headroom:       p.Headroom,
		})
	}
	return json.MarshalIndent(out, "", "  ")
}
