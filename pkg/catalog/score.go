package catalog

import (
	"math"
	"time"
)

// Activity thresholds, in whole days since the last activity.
const (
	ActiveDays     = 180
	MaintainedDays = 365
)

const (
	coefActive       = 1.0
	coefMaintained   = 0.5
	coefUnmaintained = 0.1
)

// Scorer computes entry scores relative to a clock.
type Scorer struct {
	// Now returns the reference time. Defaults to time.Now.
	Now func() time.Time
}

// NewScorer creates a Scorer using the wall clock.
func NewScorer() *Scorer {
	return &Scorer{Now: time.Now}
}

// Score sets g.Score to floor(coefficient x recent downloads).
//
// An entry without a crate record is first scored 0 (not published) and then
// recomputed like any other; with no recent downloads the result stays 0.
func (s *Scorer) Score(g *GeneratedEntry) {
	var score uint64
	if g.Crate == nil {
		g.Score = &score
	}

	coef := Coefficient(LastActivity(g), s.now())
	recent := g.Crate.RecentDownloadCount()
	score = uint64(math.Floor(coef * float64(recent)))
	g.Score = &score
}

func (s *Scorer) now() time.Time {
	if s == nil || s.Now == nil {
		return time.Now()
	}
	return s.Now()
}

// LastActivity returns the later of the crate's last update and the
// repository's last push. It returns nil when the entry has neither record.
func LastActivity(g *GeneratedEntry) *time.Time {
	var last *time.Time
	if g.Crate != nil {
		t := g.Crate.UpdatedAt
		last = &t
	}
	if g.Repo != nil {
		if t := g.Repo.LastCommit; last == nil || t.After(*last) {
			last = &t
		}
	}
	return last
}

// InactiveDays returns the number of whole days between last and now,
// truncated toward zero.
func InactiveDays(last, now time.Time) int64 {
	return int64(now.Sub(last) / (24 * time.Hour))
}

// Coefficient maps the last activity to the download multiplier: 1.0 for
// activity within 180 days, 0.5 within 365 days, 0.1 otherwise or when no
// activity is known.
func Coefficient(last *time.Time, now time.Time) float64 {
	if last == nil {
		return coefUnmaintained
	}
	switch days := InactiveDays(*last, now); {
	case days <= ActiveDays:
		return coefActive
	case days <= MaintainedDays:
		return coefMaintained
	default:
		return coefUnmaintained
	}
}
