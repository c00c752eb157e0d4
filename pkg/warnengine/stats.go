package warnengine

import (
	"sort"

	"github.com/PancyStudios/PancyModGo/pkg/models"
)

// AppealCounts aggregates appeal outcomes across a guild.
type AppealCounts struct {
	Pending  int `json:"pending"`
	Approved int `json:"approved"`
	Denied   int `json:"denied"`
}

// Offender is one entry of the top-offender ranking.
type Offender struct {
	UserID string `json:"userId"`
	Active int    `json:"active"`
	Total  int    `json:"total"`
}

// WarningStats aggregates a guild's ledger by status and severity.
type WarningStats struct {
	Total      int                     `json:"total"`
	Active     int                     `json:"active"`
	Expired    int                     `json:"expired"`
	Removed    int                     `json:"removed"`
	BySeverity map[models.Severity]int `json:"bySeverity"`
	Appeals    AppealCounts            `json:"appeals"`
	// TopOffenders ranks users by active warnings, at most ten entries.
	TopOffenders []Offender `json:"topOffenders"`
}

const topOffenderLimit = 10

// GetWarningStats computes aggregate counts and the top-offender ranking for
// a guild. Runs the expiry sweep first so active counts are current.
func (e *Engine) GetWarningStats(guildID string) (*WarningStats, error) {
	e.sweepGuild(guildID)

	docs, err := e.store.LoadGuild(guildID)
	if err != nil {
		return nil, err
	}

	stats := &WarningStats{BySeverity: make(map[models.Severity]int)}
	perUser := make(map[string]*Offender)

	for _, doc := range docs {
		for i := range doc.Warns {
			w := &doc.Warns[i]
			stats.Total++
			stats.BySeverity[w.Severity]++

			switch {
			case w.Removed:
				stats.Removed++
			case w.Expired:
				stats.Expired++
			default:
				stats.Active++
			}

			switch w.AppealStatus {
			case models.AppealPending:
				stats.Appeals.Pending++
			case models.AppealApproved:
				stats.Appeals.Approved++
			case models.AppealDenied:
				stats.Appeals.Denied++
			}

			o, ok := perUser[doc.UserID]
			if !ok {
				o = &Offender{UserID: doc.UserID}
				perUser[doc.UserID] = o
			}
			o.Total++
			if w.Active() {
				o.Active++
			}
		}
	}

	for _, o := range perUser {
		stats.TopOffenders = append(stats.TopOffenders, *o)
	}
	sort.Slice(stats.TopOffenders, func(i, j int) bool {
		a, b := stats.TopOffenders[i], stats.TopOffenders[j]
		if a.Active != b.Active {
			return a.Active > b.Active
		}
		if a.Total != b.Total {
			return a.Total > b.Total
		}
		return a.UserID < b.UserID
	})
	if len(stats.TopOffenders) > topOffenderLimit {
		stats.TopOffenders = stats.TopOffenders[:topOffenderLimit]
	}

	return stats, nil
}
