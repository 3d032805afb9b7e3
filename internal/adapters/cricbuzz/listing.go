package cricbuzz

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/PuerkitoBio/goquery"

	"github.com/okian/fantasy-cricket/internal/domain/model"
)

// ListingResult is the outcome of parsing a series page.
type ListingResult struct {
	Matches []model.Match
	// Dropped counts entries skipped for lack of a usable match link.
	Dropped int
}

// ParseMatchList extracts fixtures from a series matches page in page order.
// Entries without a detail link are dropped, not fatal. Entries without a
// schedule timestamp get now.
func ParseMatchList(r io.Reader, baseURL string, now time.Time) (*ListingResult, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParse, err)
	}

	res := &ListingResult{}
	doc.Find(".cb-series-matches").Each(func(_ int, el *goquery.Selection) {
		m, err := parseListingEntry(el, baseURL, now)
		if err != nil {
			res.Dropped++
			return
		}
		res.Matches = append(res.Matches, m)
	})
	return res, nil
}

func parseListingEntry(el *goquery.Selection, baseURL string, now time.Time) (model.Match, error) {
	link := el.Find("a.text-hvr-underline").First()
	href, ok := link.Attr("href")
	if !ok || strings.TrimSpace(href) == "" {
		return model.Match{}, ErrNoMatch
	}
	id := matchIDFromPath(href)
	if id == "" {
		return model.Match{}, ErrNoMatch
	}

	title := strings.TrimSpace(link.Find("span").First().Text())
	if title == "" {
		title = strings.TrimSpace(link.Text())
	}
	if i := strings.Index(title, ","); i >= 0 {
		title = title[:i]
	}
	teamA, teamB := title, ""
	if i := strings.Index(title, " vs "); i >= 0 {
		teamA, teamB = title[:i], title[i+len(" vs "):]
	}

	m := model.Match{
		ID:           id,
		TeamA:        strings.TrimSpace(teamA),
		TeamB:        strings.TrimSpace(teamB),
		StartsAt:     now,
		Venue:        strings.TrimSpace(el.Find(".text-gray").First().Text()),
		Result:       strings.TrimSpace(el.Find(".cb-text-complete").First().Text()),
		ScorecardURL: absolute(baseURL, href),
	}
	if ts, ok := el.Find(".schedule-date[timestamp]").First().Attr("timestamp"); ok {
		if ms, err := strconv.ParseInt(strings.TrimSpace(ts), 10, 64); err == nil && ms > 0 {
			m.StartsAt = time.UnixMilli(ms).UTC()
		}
	}
	return m, nil
}

// matchIDFromPath returns the first all-digit segment of a link such as
// /cricket-scores/115010/mi-vs-dc-1st-match.
func matchIDFromPath(href string) string {
	for _, seg := range strings.Split(href, "/") {
		if seg != "" && strings.IndexFunc(seg, func(r rune) bool { return !unicode.IsDigit(r) }) < 0 {
			return seg
		}
	}
	return ""
}

func absolute(baseURL, href string) string {
	if strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://") {
		return href
	}
	return strings.TrimRight(baseURL, "/") + "/" + strings.TrimLeft(href, "/")
}
