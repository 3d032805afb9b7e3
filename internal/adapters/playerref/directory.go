// Package playerref holds the read-only player reference list: full names,
// teams, roles and prices keyed by upstream profile id.
package playerref

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"
	"strings"

	jsoniter "github.com/json-iterator/go"

	"github.com/okian/fantasy-cricket/internal/domain/identity"
)

const defaultPrice = 5.0

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Player is one reference record.
type Player struct {
	ID      string
	Name    string
	Team    string
	Country string
	Role    string
	Price   float64
}

// Directory is an id-keyed view over the reference list.
type Directory struct {
	byID    map[string]Player
	players []Player
}

// NewDirectory builds a directory. Records without an id are ignored; a
// repeated id keeps the first record.
func NewDirectory(players ...Player) *Directory {
	d := &Directory{byID: make(map[string]Player, len(players))}
	for _, p := range players {
		p.ID = strings.TrimSpace(p.ID)
		if p.ID == "" {
			continue
		}
		if _, dup := d.byID[p.ID]; dup {
			continue
		}
		d.byID[p.ID] = p
		d.players = append(d.players, p)
	}
	return d
}

// Load reads a JSON array of player records. An empty path or a missing file
// yields an empty directory.
func Load(path string) (*Directory, error) {
	if strings.TrimSpace(path) == "" {
		return NewDirectory(), nil
	}
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return NewDirectory(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadPlayers, err)
	}
	defer f.Close()
	return Decode(f)
}

// Decode reads a JSON array of player records from r.
func Decode(r io.Reader) (*Directory, error) {
	var recs []record
	if err := json.NewDecoder(r).Decode(&recs); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadPlayers, err)
	}
	players := make([]Player, 0, len(recs))
	for _, rec := range recs {
		players = append(players, rec.player())
	}
	return NewDirectory(players...), nil
}

// Lookup returns the record for a profile id.
func (d *Directory) Lookup(id string) (Player, bool) {
	p, ok := d.byID[strings.TrimSpace(id)]
	return p, ok
}

// FullName returns the cleaned reference name for a profile id.
func (d *Directory) FullName(id string) (string, bool) {
	p, ok := d.Lookup(id)
	if !ok {
		return "", false
	}
	name := identity.CleanName(p.Name)
	return name, name != ""
}

// Players returns the records in file order.
func (d *Directory) Players() []Player {
	return append([]Player(nil), d.players...)
}

// Len is the number of records with a usable id.
func (d *Directory) Len() int { return len(d.byID) }

// record accepts both the spaced and the underscored key spellings found in
// exported player sheets.
type record struct {
	ID      flexString `json:"Player ID"`
	IDAlt   flexString `json:"Player_ID"`
	Name    string     `json:"Player"`
	Team    string     `json:"Team Name"`
	TeamAlt string     `json:"Team_Name"`
	Country string     `json:"Country"`
	Role    string     `json:"Player_Role"`
	RoleAlt string     `json:"Player Role"`
	Price   flexString `json:"Price"`
}

func (r record) player() Player {
	p := Player{
		ID:      firstNonEmpty(string(r.ID), string(r.IDAlt)),
		Name:    strings.TrimSpace(r.Name),
		Team:    strings.TrimSpace(firstNonEmpty(r.Team, r.TeamAlt)),
		Country: strings.TrimSpace(r.Country),
		Role:    strings.TrimSpace(firstNonEmpty(r.Role, r.RoleAlt)),
		Price:   defaultPrice,
	}
	if v, err := strconv.ParseFloat(string(r.Price), 64); err == nil && v > 0 {
		p.Price = v
	}
	return p
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

// flexString decodes a JSON string or number into its text form.
type flexString string

func (s *flexString) UnmarshalJSON(b []byte) error {
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	switch t := v.(type) {
	case nil:
		*s = ""
	case string:
		*s = flexString(strings.TrimSpace(t))
	case float64:
		*s = flexString(strconv.FormatFloat(t, 'f', -1, 64))
	default:
		return fmt.Errorf("unexpected value %s", string(b))
	}
	return nil
}
