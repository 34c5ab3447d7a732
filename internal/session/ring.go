package session

import "regexp"

// ringNamePattern matches a ring's full name, capturing its owning
// planet/star name: "<planet name> <X> Ring" where X is one letter
// (A, B, C, ...), per the glossary's "planet name from ring name" rule.
var ringNamePattern = regexp.MustCompile(`^(.+) [A-Za-z] Ring$`)

// isRingName reports whether name is a ring's full name rather than a
// body name, per §4.6's "body name ends with Ring" dispatch rule.
func isRingName(name string) bool {
	return ringNamePattern.MatchString(name)
}

// planetNameFromRingName strips a ring's trailing " <X> Ring" suffix,
// returning the owning body's name and ok=true, or ok=false if name
// does not match the ring-name shape.
func planetNameFromRingName(name string) (string, bool) {
	m := ringNamePattern.FindStringSubmatch(name)
	if m == nil {
		return "", false
	}
	return m[1], true
}
