// Package scoring turns merged match figures into fantasy points.
package scoring

import (
	"strings"

	"github.com/okian/fantasy-cricket/internal/domain/model"
)

// Breakdown holds the per-discipline points for one player.
type Breakdown struct {
	Batting  int
	Bowling  int
	Fielding int
}

// Total sums the breakdown.
func (b Breakdown) Total() int { return b.Batting + b.Bowling + b.Fielding }

// Engine applies a Rules table. It is pure and safe for concurrent use.
type Engine struct {
	rules Rules
}

// NewEngine creates an engine with DefaultRules unless overridden.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{rules: DefaultRules()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Rules returns a copy of the active point table.
func (e *Engine) Rules() Rules { return e.rules }

// Score computes the batting, bowling and fielding components.
func (e *Engine) Score(s model.MergedPlayerStat) Breakdown {
	return Breakdown{
		Batting:  e.Batting(s),
		Bowling:  e.Bowling(s),
		Fielding: e.Fielding(s),
	}
}

// Batting scores runs, boundaries, milestones and the strike-rate band.
// Players that did not bat get 0.
func (e *Engine) Batting(s model.MergedPlayerStat) int {
	if !s.HasBatting {
		return 0
	}
	r := e.rules
	pts := s.Runs*r.Run + s.Fours*r.Four + s.Sixes*r.Six
	if r.MilestoneRuns > 0 {
		pts += (s.Runs / r.MilestoneRuns) * r.MilestoneBonus
	}
	if s.Balls > 0 && s.Balls >= r.StrikeRateMinBalls {
		sr := float64(s.Runs) / float64(s.Balls) * 100
		pts += bandPoints(r.StrikeRateBands, sr)
	}
	return pts
}

// Bowling scores wickets, maidens, dot balls, the economy band and extras.
// Players that did not bowl get 0.
func (e *Engine) Bowling(s model.MergedPlayerStat) int {
	if !s.HasBowling {
		return 0
	}
	r := e.rules
	pts := s.Wickets * r.Wicket
	if s.Wickets > 1 {
		pts += (s.Wickets - 1) * r.WicketBonus
	}
	pts += s.Maidens*r.Maiden + s.DotBalls*r.DotBall
	if s.Overs > 0 && s.Overs >= r.EconomyMinOvers {
		pts += bandPoints(r.EconomyBands, float64(s.RunsConceded)/s.Overs)
	}
	if r.WidesPerPenalty > 0 {
		pts -= s.Wides / r.WidesPerPenalty
	}
	pts -= s.NoBalls * r.NoBallPenalty
	return pts
}

// Fielding scores catches, stumpings and run outs.
func (e *Engine) Fielding(s model.MergedPlayerStat) int {
	r := e.rules
	return s.Catches*r.Catch + s.Stumpings*r.Stumping + s.RunOuts*r.RunOut
}

// Points scores every player of a match and awards the POTM bonus to exactly
// one of them: the first row whose player id matches the award, or failing
// that the first row whose name matches.
func (e *Engine) Points(matchID string, stats []model.MergedPlayerStat, award model.Award) []model.PlayerPoints {
	winner := -1
	if award.PlayerID != "" {
		for i := range stats {
			if stats[i].PlayerID == award.PlayerID {
				winner = i
				break
			}
		}
	}
	if winner < 0 && award.Name != "" {
		for i := range stats {
			if strings.EqualFold(stats[i].Name, award.Name) {
				winner = i
				break
			}
		}
	}

	out := make([]model.PlayerPoints, len(stats))
	for i, s := range stats {
		b := e.Score(s)
		out[i] = model.PlayerPoints{
			MatchID:  matchID,
			PlayerID: s.PlayerID,
			Player:   s.Name,
			Team:     s.Team,
			Batting:  b.Batting,
			Bowling:  b.Bowling,
			Fielding: b.Fielding,
		}
		if i == winner {
			out[i].POTM = e.rules.POTM
		}
	}
	return out
}
