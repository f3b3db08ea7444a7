package voteapi

import "github.com/14kear/online_voting/vote-client/internal/entity"

// FallbackPolls is the static dataset shown when live data is unavailable.
// It is never empty.
func FallbackPolls() []entity.Poll {
	return []entity.Poll{
		{
			Token:  "fallback-presupuesto-2024",
			Name:   "Presupuesto Municipal 2024",
			Active: true,
			Options: []entity.Option{
				{Selection: 1, Label: "Priorizar infraestructura", Votes: 45},
				{Selection: 2, Label: "Invertir en educación", Votes: 62},
				{Selection: 3, Label: "Mejorar servicios de salud", Votes: 38},
			},
		},
		{
			Token:  "fallback-parque-recreativo",
			Name:   "Nuevo Parque Recreativo",
			Active: true,
			Options: []entity.Option{
				{Selection: 1, Label: "Aprobar construcción", Votes: 78},
				{Selection: 2, Label: "Rechazar propuesta", Votes: 22},
			},
		},
	}
}

func IsFallback(token string) bool {
	for _, p := range FallbackPolls() {
		if p.Token == token {
			return true
		}
	}
	return false
}
