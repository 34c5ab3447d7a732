package model

// Faction is a minor faction present in a system. Two factions compare
// equal by value (name, influence, reputation, government, allegiance,
// happiness) regardless of their storage row id — a faction whose
// standing hasn't changed since the last scan isn't rewritten.
type Faction struct {
	Name        string
	Influence   float64
	Reputation  float64
	Government  string
	Allegiance  string
	Happiness   string
}

// Equal reports whether two factions have identical standing, ignoring
// any storage identity.
func (f Faction) Equal(other Faction) bool {
	return f.Name == other.Name &&
		f.Influence == other.Influence &&
		f.Reputation == other.Reputation &&
		f.Government == other.Government &&
		f.Allegiance == other.Allegiance &&
		f.Happiness == other.Happiness
}
