package narrative

import (
	"context"
	"fmt"
	"strings"

	"github.com/KirkDiggler/quest-forge/internal/entities"
	"github.com/KirkDiggler/quest-forge/internal/errors"
)

// DefaultNarrative is used when no keyword matches
const DefaultNarrative = "Your choice leads you to a new adventure..."

var initialChoices = []string{
	"Explore the mysterious forest path",
	"Visit the local tavern for information",
	"Head to the town market to gather supplies",
}

var defaultChoices = []string{
	"Continue your adventure",
	"Rest and plan your next move",
	"Seek guidance from locals",
}

type sceneRule struct {
	keyword   string
	narrative func(class entities.CharacterClass) string
	choices   []string
}

// sceneRules are checked in order; the first keyword found in the choice wins.
var sceneRules = []sceneRule{
	{
		keyword: "forest",
		narrative: func(class entities.CharacterClass) string {
			return fmt.Sprintf("You venture into the mysterious forest, where ancient trees whisper secrets of old. "+
				"Suddenly, you hear a rustling in the bushes ahead. Your %s instincts tell you that danger may be lurking nearby...",
				class)
		},
		choices: []string{
			"Draw your weapon and investigate the sound",
			"Try to sneak past quietly",
			"Call out to see who or what is there",
		},
	},
	{
		keyword: "tavern",
		narrative: func(entities.CharacterClass) string {
			return `You push open the heavy wooden door of "The Prancing Pony" tavern. The warm glow of the fireplace welcomes you, ` +
				"and you notice several interesting characters: a hooded figure in the corner, a merchant counting coins, and the talkative bartender..."
		},
		choices: []string{
			"Approach the hooded figure",
			"Talk to the merchant about local news",
			"Ask the bartender about recent strange events",
		},
	},
	{
		keyword: "market",
		narrative: func(entities.CharacterClass) string {
			return "The bustling town market is filled with vendors selling their wares. You notice a peculiar merchant selling " +
				"what appears to be magical items, while another vendor whispers about rare herbs found only in the haunted forest..."
		},
		choices: []string{
			"Examine the magical items for sale",
			"Ask about the herbs from the haunted forest",
			"Look for basic adventuring supplies",
		},
	},
}

// InitialNarrative is the welcome scene of a new character
func InitialNarrative(name string, class entities.CharacterClass) string {
	return fmt.Sprintf("Welcome, %s! You are %s, standing at the edge of the small village of Millhaven. "+
		"Dark clouds gather on the horizon, and rumors speak of strange happenings in the nearby forest. "+
		"The villagers look to you with hope in their eyes, for they know that an adventure of great importance is about to begin."+
		"\n\nWhat path will you choose to start your quest?",
		name, class.Description())
}

// InitialChoices is the menu of the welcome scene
func InitialChoices() []string {
	return append([]string(nil), initialChoices...)
}

// Scene resolves choice against the keyword table
func Scene(choice string, class entities.CharacterClass) (string, []string) {
	lower := strings.ToLower(choice)
	for _, rule := range sceneRules {
		if strings.Contains(lower, rule.keyword) {
			return rule.narrative(class), append([]string(nil), rule.choices...)
		}
	}
	return DefaultNarrative, append([]string(nil), defaultChoices...)
}

// Deterministic is the table-driven generator. It never fails on valid input.
type Deterministic struct{}

// NewDeterministic creates the table-driven generator
func NewDeterministic() *Deterministic {
	return &Deterministic{}
}

func (d *Deterministic) Next(_ context.Context, input *NextInput) (*NextOutput, error) {
	if input == nil || input.Session == nil {
		return nil, errors.InvalidArgument("session is required")
	}

	text, choices := Scene(input.Choice, input.Session.CharacterClass)
	if input.OnChunk != nil {
		input.OnChunk(text)
	}

	return &NextOutput{Narrative: text, Choices: choices, Source: SourceDeterministic}, nil
}
