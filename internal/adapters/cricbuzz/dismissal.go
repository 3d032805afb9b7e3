package cricbuzz

import (
	"regexp"
	"strings"
)

// CreditKind is the kind of fielding contribution named in a dismissal.
type CreditKind int

// Fielding credit kinds.
const (
	Catch CreditKind = iota + 1
	Stumping
	RunOut
)

func (k CreditKind) String() string {
	switch k {
	case Catch:
		return "catch"
	case Stumping:
		return "stumping"
	case RunOut:
		return "run out"
	default:
		return "unknown"
	}
}

// Credit is one fielder named in a dismissal. Fielder is raw scorecard
// text and still needs resolving.
type Credit struct {
	Kind    CreditKind
	Fielder string
}

var (
	caughtAndBowledRe = regexp.MustCompile(`(?i)^c\s+(?:&|and)\s+b\s+(.+)$`)
	caughtRe          = regexp.MustCompile(`(?i)^c\s+(.+?)\s+b\s+\S`)
	stumpedRe         = regexp.MustCompile(`(?i)^st\s+(.+?)\s+b\s+\S`)
	runOutRe          = regexp.MustCompile(`(?i)run\s*out\s*\(([^)]*)\)`)
)

// ParseDismissal extracts fielding credits from a dismissal description.
// "c & b X" credits the bowler with the catch; "c X b Y" credits X only.
// Stumpings and run outs are checked independently of catches, and a joint
// run out credits every named fielder.
func ParseDismissal(text string) []Credit {
	t := strings.Join(strings.Fields(text), " ")
	if t == "" {
		return nil
	}

	var out []Credit
	add := func(kind CreditKind, name string) {
		if name = strings.TrimSpace(name); name != "" {
			out = append(out, Credit{Kind: kind, Fielder: name})
		}
	}

	if m := caughtAndBowledRe.FindStringSubmatch(t); m != nil {
		add(Catch, m[1])
	} else if m := caughtRe.FindStringSubmatch(t); m != nil {
		add(Catch, m[1])
	}
	if m := stumpedRe.FindStringSubmatch(t); m != nil {
		add(Stumping, m[1])
	}
	if m := runOutRe.FindStringSubmatch(t); m != nil {
		for _, name := range strings.Split(m[1], "/") {
			add(RunOut, name)
		}
	}
	return out
}
