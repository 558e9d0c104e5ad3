package megaschaak

import "strings"

// ExclusionList is the set of players barred from every Megaschaak pool,
// keyed on normalized (first name, last name). It is plain data so the club
// can extend it without touching the engine.
type ExclusionList map[nameKey]struct{}

type nameKey struct {
	first string
	last  string
}

func normalizeName(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// NewExclusionList builds a list from (first, last) pairs.
func NewExclusionList(pairs ...[2]string) ExclusionList {
	l := make(ExclusionList, len(pairs))
	for _, p := range pairs {
		l[nameKey{normalizeName(p[0]), normalizeName(p[1])}] = struct{}{}
	}
	return l
}

// Contains reports whether the named player is excluded.
func (l ExclusionList) Contains(firstName, lastName string) bool {
	_, ok := l[nameKey{normalizeName(firstName), normalizeName(lastName)}]
	return ok
}

// DefaultExclusions is the club's standing exclusion list: the competition
// leaders who price the pool do not take part in it themselves.
func DefaultExclusions() ExclusionList {
	return NewExclusionList(
		[2]string{"Henk", "Bakker"},
		[2]string{"Peter", "de Jong"},
	)
}
