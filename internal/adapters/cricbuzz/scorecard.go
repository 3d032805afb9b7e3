package cricbuzz

import (
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/okian/fantasy-cricket/internal/domain/identity"
	"github.com/okian/fantasy-cricket/internal/domain/model"
)

// NameLookup maps a profile id to a player's full name.
type NameLookup interface {
	FullName(id string) (string, bool)
}

const (
	sectionNone = iota
	sectionBatting
	sectionBowling
)

var (
	profileRe = regexp.MustCompile(`/profiles/(\d+)`)
	ordinalRe = regexp.MustCompile(`(?i)\s+\d+(?:st|nd|rd|th)$`)

	structuralRows = []string{"extras", "total", "fall of wickets"}
	squadLabels    = []string{"did not bat", "yet to bat"}
)

// ParseScorecard reads scorecard markup in two passes. The first collects
// batting, bowling and did-not-bat rows per innings; the second resolves the
// fielders named in each dismissal against the players seen in the first.
// names may be nil.
func ParseScorecard(r io.Reader, matchID string, names NameLookup) (*model.Scorecard, *identity.Resolver, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrParse, err)
	}

	sc := &model.Scorecard{MatchID: matchID}
	doc.Find(".cb-col.cb-col-100.cb-scrd-hdr-rw").Each(func(_ int, h *goquery.Selection) {
		sc.Teams = append(sc.Teams, teamFromHeader(h.Text()))
	})

	p := &parser{sc: sc, names: names, known: make(map[string]int)}
	doc.Find(".cb-col.cb-col-100.cb-ltst-wgt-hdr").Each(func(_ int, block *goquery.Selection) {
		p.block(block)
	})

	resolver := identity.New(p.players...)
	p.fielding(resolver)
	return sc, resolver, nil
}

type parser struct {
	sc      *model.Scorecard
	names   NameLookup
	innings int
	players []identity.Player
	known   map[string]int
}

func (p *parser) block(b *goquery.Selection) {
	section := sectionNone
	counted := false
	b.Find(".cb-scrd-sub-hdr, .cb-scrd-itms").Each(func(_ int, el *goquery.Selection) {
		if el.HasClass("cb-scrd-sub-hdr") {
			t := el.Text()
			switch {
			case strings.Contains(t, "Batter") || strings.Contains(t, "Batsman"):
				section = sectionBatting
				if !counted {
					p.innings++
					counted = true
				}
			case strings.Contains(t, "Bowler"):
				section = sectionBowling
			default:
				section = sectionNone
			}
			return
		}
		switch section {
		case sectionBatting:
			p.battingRow(el)
		case sectionBowling:
			p.bowlingRow(el)
		}
	})
}

func (p *parser) battingRow(row *goquery.Selection) {
	cells := row.ChildrenFiltered(".cb-col")
	first := cells.Eq(0)
	label := strings.ToLower(strings.TrimSpace(first.Text()))

	if hasAnyPrefix(label, squadLabels) {
		p.squadRow(row)
		return
	}

	link := first.Find("a").First()
	name := strings.TrimSpace(link.Text())
	if name == "" {
		if !hasAnyPrefix(label, structuralRows) {
			p.skip(model.KindBatting, "no player link")
		}
		return
	}
	if name == "Batter" || name == "Batsman" || model.IsSentinelName(name) {
		p.skip(model.KindBatting, "header or sentinel row")
		return
	}

	id := profileID(link)
	canon := p.register(id, name)
	p.sc.Batting = append(p.sc.Batting, model.BattingRow{
		Innings:    p.innings,
		Team:       p.sc.Team(p.innings - 1),
		PlayerID:   id,
		Name:       canon,
		Dismissal:  strings.TrimSpace(cells.Eq(1).Text()),
		Runs:       atoi(cells.Eq(2).Text()),
		Balls:      atoi(cells.Eq(3).Text()),
		Fours:      atoi(cells.Eq(4).Text()),
		Sixes:      atoi(cells.Eq(5).Text()),
		StrikeRate: atof(cells.Eq(6).Text()),
	})
}

func (p *parser) bowlingRow(row *goquery.Selection) {
	cells := row.ChildrenFiltered(".cb-col")
	link := cells.Eq(0).Find("a").First()
	name := strings.TrimSpace(link.Text())
	switch {
	case name == "" || name == "Bowler":
		p.skip(model.KindBowling, "no player link")
		return
	case p.innings == 0:
		p.skip(model.KindBowling, "bowling figures before any batting innings")
		return
	case cells.Length() < 8:
		p.skip(model.KindBowling, fmt.Sprintf("%d columns, need 8", cells.Length()))
		return
	}
	overs := strings.TrimSpace(cells.Eq(1).Text())
	if overs == "" {
		p.skip(model.KindBowling, "no overs")
		return
	}

	id := profileID(link)
	canon := p.register(id, name)
	p.sc.Bowling = append(p.sc.Bowling, model.BowlingRow{
		Innings:      p.innings,
		Team:         p.opponent(p.innings),
		PlayerID:     id,
		Name:         canon,
		Overs:        atof(overs),
		Maidens:      atoi(cells.Eq(2).Text()),
		RunsConceded: atoi(cells.Eq(3).Text()),
		Wickets:      atoi(cells.Eq(4).Text()),
		NoBalls:      atoi(cells.Eq(5).Text()),
		Wides:        atoi(cells.Eq(6).Text()),
		Economy:      atof(cells.Eq(7).Text()),
	})
}

// squadRow handles "Did not Bat" and "Yet to Bat" lists. Linked names carry
// profile ids; otherwise the text after the label is split on commas.
func (p *parser) squadRow(row *goquery.Selection) {
	team := p.sc.Team(p.innings - 1)
	add := func(id, name string) {
		if strings.TrimSpace(name) == "" || model.IsSentinelName(name) {
			return
		}
		canon := p.register(id, name)
		if canon == "" {
			return
		}
		p.sc.DNB = append(p.sc.DNB, model.DnbRow{Innings: p.innings, Team: team, PlayerID: id, Name: canon})
	}

	links := row.Find("a")
	if links.Length() > 0 {
		links.Each(func(_ int, a *goquery.Selection) {
			add(profileID(a), strings.Trim(a.Text(), ", \t\r\n"))
		})
		return
	}

	text := row.Text()
	lower := strings.ToLower(text)
	for _, l := range squadLabels {
		if i := strings.Index(lower, l); i >= 0 {
			text = text[i+len(l):]
			break
		}
	}
	text = strings.TrimLeft(text, ": \t\r\n")
	for _, name := range strings.Split(text, ",") {
		add("", name)
	}
}

func (p *parser) fielding(r *identity.Resolver) {
	index := make(map[string]int)
	for _, b := range p.sc.Batting {
		for _, c := range ParseDismissal(b.Dismissal) {
			name, ok := r.Resolve(c.Fielder)
			if !ok {
				p.sc.Unresolved = append(p.sc.Unresolved, c.Fielder)
			}
			if name == "" {
				continue
			}
			k := strconv.Itoa(b.Innings) + "|" + strings.ToLower(name)
			i, seen := index[k]
			if !seen {
				p.sc.Fielding = append(p.sc.Fielding, model.FieldingRow{
					Innings:  b.Innings,
					Team:     p.opponent(b.Innings),
					PlayerID: r.ID(name),
					Name:     name,
				})
				i = len(p.sc.Fielding) - 1
				index[k] = i
			}
			f := &p.sc.Fielding[i]
			switch c.Kind {
			case Catch:
				f.Catches++
			case Stumping:
				f.Stumpings++
			case RunOut:
				f.RunOuts++
			}
		}
	}
}

// register records a player for the resolver and returns the canonical
// name: the reference full name when the id is known, else the cleaned
// display name.
func (p *parser) register(id, display string) string {
	short := identity.CleanName(display)
	canon := short
	if id != "" && p.names != nil {
		if full, ok := p.names.FullName(id); ok {
			if c := identity.CleanName(full); c != "" {
				canon = c
			}
		}
	}
	if canon == "" {
		return ""
	}
	k := strings.ToLower(canon)
	if i, ok := p.known[k]; ok {
		pl := &p.players[i]
		if pl.ID == "" {
			pl.ID = id
		}
		if short != canon && !contains(pl.Aliases, short) {
			pl.Aliases = append(pl.Aliases, short)
		}
		return canon
	}
	pl := identity.Player{ID: id, Name: canon}
	if short != canon {
		pl.Aliases = []string{short}
	}
	p.known[k] = len(p.players)
	p.players = append(p.players, pl)
	return canon
}

// opponent is the fielding side in an innings: the first team header that
// differs from the batting side. Innings order is not strictly alternating
// once a side follows on.
func (p *parser) opponent(innings int) string {
	batting := p.sc.Team(innings - 1)
	for _, t := range p.sc.Teams {
		if t != "" && !strings.EqualFold(t, batting) {
			return t
		}
	}
	return p.sc.Team(innings % 2)
}

func (p *parser) skip(kind model.RowKind, reason string) {
	p.sc.Skipped = append(p.sc.Skipped, model.Skipped{Innings: p.innings, Kind: kind, Reason: reason})
}

func profileID(a *goquery.Selection) string {
	href, _ := a.Attr("href")
	if m := profileRe.FindStringSubmatch(href); m != nil {
		return m[1]
	}
	return ""
}

// teamFromHeader reads the side from an innings header such as
// "England Women 2nd Innings 210-4 (58 Ov)".
func teamFromHeader(text string) string {
	if i := strings.Index(text, "Innings"); i >= 0 {
		text = text[:i]
	}
	text = strings.TrimSpace(text)
	return ordinalRe.ReplaceAllString(text, "")
}

func hasAnyPrefix(s string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}

func contains(list []string, v string) bool {
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}

func atoi(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return n
}

func atof(s string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return f
}
