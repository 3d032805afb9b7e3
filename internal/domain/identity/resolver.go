package identity

import "sort"

// Player is a known participant of a match. Aliases are extra names the
// player is known by, e.g. the full name from reference data when the
// scorecard shows a short form.
type Player struct {
	ID      string
	Name    string
	Aliases []string
}

// Resolver is a case-insensitive lookup from name variations to canonical
// names. It is built once per match and is read-only afterwards.
type Resolver struct {
	byKey     map[string]string
	exact     map[string]bool
	ids       map[string]string
	ambiguous map[string][]string
}

// New builds a resolver. Every player's own cleaned name is registered
// first so that an exact name always beats a derived variation of someone
// else. Derived variations that collide keep the first registration and are
// reported by Ambiguous.
func New(players ...Player) *Resolver {
	r := &Resolver{
		byKey:     make(map[string]string),
		exact:     make(map[string]bool),
		ids:       make(map[string]string),
		ambiguous: make(map[string][]string),
	}

	for _, p := range players {
		canon := CleanName(p.Name)
		if canon == "" {
			continue
		}
		k := key(canon)
		if _, ok := r.byKey[k]; !ok {
			r.byKey[k] = canon
			r.exact[k] = true
		}
		if p.ID != "" {
			if _, ok := r.ids[k]; !ok {
				r.ids[k] = p.ID
			}
		}
	}

	for _, p := range players {
		canon := CleanName(p.Name)
		if canon == "" {
			continue
		}
		sources := append([]string{p.Name}, p.Aliases...)
		for _, src := range sources {
			for _, v := range Variations(CleanName(src)) {
				r.register(key(v), canon)
			}
		}
	}
	return r
}

func (r *Resolver) register(k, canon string) {
	existing, ok := r.byKey[k]
	if !ok {
		r.byKey[k] = canon
		return
	}
	if existing == canon || r.exact[k] {
		return
	}
	r.ambiguous[k] = appendUnique(appendUnique(r.ambiguous[k], existing), canon)
}

func appendUnique(list []string, v string) []string {
	for _, x := range list {
		if x == v {
			return list
		}
	}
	return append(list, v)
}

// Resolve maps a free-text fragment to a canonical name. On a miss the
// cleaned fragment itself is returned and ok is false.
func (r *Resolver) Resolve(fragment string) (name string, ok bool) {
	if canon, hit := r.byKey[key(fragment)]; hit {
		return canon, true
	}
	cleaned := CleanName(fragment)
	if canon, hit := r.byKey[key(cleaned)]; hit {
		return canon, true
	}
	return cleaned, false
}

// ID returns the player id registered for a canonical name.
func (r *Resolver) ID(canonical string) string {
	return r.ids[key(canonical)]
}

// Ambiguous returns the lowercased variations claimed by more than one
// player, mapped to every candidate in registration order.
func (r *Resolver) Ambiguous() map[string][]string {
	out := make(map[string][]string, len(r.ambiguous))
	for k, v := range r.ambiguous {
		out[k] = append([]string(nil), v...)
	}
	return out
}

// AmbiguousKeys returns Ambiguous keys in sorted order.
func (r *Resolver) AmbiguousKeys() []string {
	keys := make([]string, 0, len(r.ambiguous))
	for k := range r.ambiguous {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Len is the number of registered variations.
func (r *Resolver) Len() int { return len(r.byKey) }
