// Package merge folds per-innings scorecard rows into one stat row per player.
package merge

import (
	"strings"

	"github.com/okian/fantasy-cricket/internal/domain/model"
)

// Merge produces one MergedPlayerStat per (canonical name, team). Batting and
// bowling figures are set from their rows, DNB entries only ensure a row
// exists, and fielding counts are applied last as an overlay that replaces
// whatever was there. Output order is first appearance.
func Merge(sc *model.Scorecard) []model.MergedPlayerStat {
	m := &merger{matchID: sc.MatchID, index: make(map[string]int)}

	for _, b := range sc.Batting {
		s := m.row(b.Name, b.Team, b.PlayerID)
		s.HasBatting = true
		s.Runs = b.Runs
		s.Balls = b.Balls
		s.Fours = b.Fours
		s.Sixes = b.Sixes
	}
	for _, b := range sc.Bowling {
		s := m.row(b.Name, b.Team, b.PlayerID)
		s.HasBowling = true
		s.Overs = b.Overs
		s.Maidens = b.Maidens
		s.RunsConceded = b.RunsConceded
		s.Wickets = b.Wickets
		s.NoBalls = b.NoBalls
		s.Wides = b.Wides
		s.DotBalls = b.DotBalls
	}
	for _, d := range sc.DNB {
		m.row(d.Name, d.Team, d.PlayerID)
	}

	overlay := make(map[string]model.FieldingRow)
	for _, f := range sc.Fielding {
		k := Key(f.Name, f.Team)
		acc, ok := overlay[k]
		if !ok {
			acc = model.FieldingRow{Name: f.Name, Team: f.Team, PlayerID: f.PlayerID}
		}
		if acc.PlayerID == "" {
			acc.PlayerID = f.PlayerID
		}
		acc.Catches += f.Catches
		acc.Stumpings += f.Stumpings
		acc.RunOuts += f.RunOuts
		overlay[k] = acc
	}
	for _, f := range sc.Fielding {
		k := Key(f.Name, f.Team)
		acc, ok := overlay[k]
		if !ok {
			continue
		}
		delete(overlay, k)
		s := m.row(acc.Name, acc.Team, acc.PlayerID)
		s.Catches = acc.Catches
		s.Stumpings = acc.Stumpings
		s.RunOuts = acc.RunOuts
	}

	return m.out
}

// Key is the merge identity of a player within a match.
func Key(name, team string) string {
	return strings.ToLower(strings.TrimSpace(name)) + "|" + strings.ToLower(strings.TrimSpace(team))
}

type merger struct {
	matchID string
	index   map[string]int
	out     []model.MergedPlayerStat
}

func (m *merger) row(name, team, id string) *model.MergedPlayerStat {
	k := Key(name, team)
	i, ok := m.index[k]
	if !ok {
		m.out = append(m.out, model.MergedPlayerStat{MatchID: m.matchID, Name: name, Team: team})
		i = len(m.out) - 1
		m.index[k] = i
	}
	s := &m.out[i]
	if s.PlayerID == "" && id != "" {
		s.PlayerID = id
	}
	return s
}
