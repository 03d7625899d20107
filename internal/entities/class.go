package entities

// CharacterClass is one of the playable classes
type CharacterClass string

// Playable classes
const (
	ClassWarrior CharacterClass = "warrior"
	ClassMage    CharacterClass = "mage"
	ClassRogue   CharacterClass = "rogue"
	ClassCleric  CharacterClass = "cleric"
	ClassRanger  CharacterClass = "ranger"
	ClassPaladin CharacterClass = "paladin"
)

// Classes lists every playable class in menu order
var Classes = []CharacterClass{
	ClassWarrior, ClassMage, ClassRogue, ClassCleric, ClassRanger, ClassPaladin,
}

var classDescriptions = map[CharacterClass]string{
	ClassWarrior: "a mighty warrior with sword and shield",
	ClassMage:    "a wise mage wielding arcane powers",
	ClassRogue:   "a cunning rogue skilled in stealth and daggers",
	ClassCleric:  "a devoted cleric blessed with divine magic",
	ClassRanger:  "a skilled ranger, one with nature",
	ClassPaladin: "a righteous paladin, champion of justice",
}

// IsValid reports whether c is a playable class
func (c CharacterClass) IsValid() bool {
	_, ok := classDescriptions[c]
	return ok
}

// Description returns the flavor phrase used in the welcome scene
func (c CharacterClass) Description() string {
	if d, ok := classDescriptions[c]; ok {
		return d
	}
	return "a brave adventurer"
}

// StartingStats returns the class-biased attributes for a new character
func (c CharacterClass) StartingStats() Stats {
	s := BaseStats()
	switch c {
	case ClassWarrior:
		s.Strength = 15
		s.Constitution = 14
	case ClassPaladin:
		s.Strength = 14
		s.Constitution = 13
		s.Charisma = 15
	case ClassRogue:
		s.Dexterity = 15
	case ClassRanger:
		s.Dexterity = 14
		s.Wisdom = 13
	case ClassMage:
		s.Intelligence = 15
	case ClassCleric:
		s.Wisdom = 15
	}
	return s
}

// ClassNames returns the class identifiers as strings
func ClassNames() []string {
	names := make([]string, len(Classes))
	for i, c := range Classes {
		names[i] = string(c)
	}
	return names
}
