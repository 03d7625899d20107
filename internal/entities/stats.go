package entities

// Stats are the six character attributes
type Stats struct {
	Strength     int `json:"strength"`
	Dexterity    int `json:"dexterity"`
	Intelligence int `json:"intelligence"`
	Wisdom       int `json:"wisdom"`
	Constitution int `json:"constitution"`
	Charisma     int `json:"charisma"`
}

// BaseStat is the starting value of every attribute before class bonuses
const BaseStat = 10

// Total returns the sum of all six attributes
func (s Stats) Total() int {
	return s.Strength + s.Dexterity + s.Intelligence + s.Wisdom + s.Constitution + s.Charisma
}

// Values returns the attributes in display order
func (s Stats) Values() []int {
	return []int{s.Strength, s.Dexterity, s.Intelligence, s.Wisdom, s.Constitution, s.Charisma}
}

// NoneLowerThan reports whether every attribute of s is at least the
// matching attribute of base.
func (s Stats) NoneLowerThan(base Stats) bool {
	current, old := s.Values(), base.Values()
	for i := range current {
		if current[i] < old[i] {
			return false
		}
	}
	return true
}

// BaseStats returns all attributes at BaseStat
func BaseStats() Stats {
	return Stats{
		Strength:     BaseStat,
		Dexterity:    BaseStat,
		Intelligence: BaseStat,
		Wisdom:       BaseStat,
		Constitution: BaseStat,
		Charisma:     BaseStat,
	}
}
