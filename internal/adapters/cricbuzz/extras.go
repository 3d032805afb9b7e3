package cricbuzz

import (
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/okian/fantasy-cricket/internal/domain/identity"
	"github.com/okian/fantasy-cricket/internal/domain/model"
)

var dotBallPrefixes = []string{"no run", "out", "byes", "leg byes"}

// ParsePlayerOfMatch finds the player of the match on a match page. A page
// without an award yields an empty Award and no error.
func ParsePlayerOfMatch(r io.Reader, matchID string) (model.Award, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return model.Award{}, fmt.Errorf("%w: %w", ErrParse, err)
	}

	award := model.Award{MatchID: matchID}
	doc.Find(".cb-mom-itm, .cb-mom-item, .cb-mat-mop-itm").EachWithBreak(func(_ int, el *goquery.Selection) bool {
		a := el.Find("a[href*='/profiles/']").First()
		if a.Length() == 0 && goquery.NodeName(el) == "a" {
			a = el
		}
		if a.Length() == 0 {
			return true
		}
		award.PlayerID = profileID(a)
		award.Name = identity.CleanName(a.Text())
		return award.Empty()
	})
	return award, nil
}

// CountDotBalls counts deliveries on a bowler's commentary page whose
// outcome, the clause after the first comma, is a dot for the bowler.
func CountDotBalls(r io.Reader) (int, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrParse, err)
	}

	dots := 0
	doc.Find(".cb-com-ln").Each(func(_ int, el *goquery.Selection) {
		text := el.Text()
		i := strings.Index(text, ",")
		if i < 0 {
			return
		}
		outcome := strings.ToLower(strings.TrimSpace(text[i+1:]))
		if hasAnyPrefix(outcome, dotBallPrefixes) {
			dots++
		}
	})
	return dots, nil
}
