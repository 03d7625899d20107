package narrative

import (
	"fmt"
	"strings"

	"github.com/KirkDiggler/quest-forge/internal/entities"
	"github.com/KirkDiggler/quest-forge/internal/errors"
)

const (
	maxChoiceLength = 100
	maxChoices      = 4
	minChoices      = 3
	recentScenes    = 3
	previewLength   = 100
)

const narratorSystemPrompt = `You are a creative fantasy game narrator for Quest Forge, a text-based RPG.
Generate immersive, descriptive narrative text (2-3 paragraphs) based on the player's choice.
Style: Medieval fantasy, descriptive, engaging, second-person perspective.
Keep it concise but vivid. Include sensory details and consequences of the player's action.`

const choicesSystemPrompt = `You are a creative fantasy game narrator for Quest Forge.
Generate exactly 3-4 contextual player choices based on the current narrative.
Each choice should be a short action statement (5-10 words).
Format: Return ONLY the choices, one per line, no numbers or bullet points.
Make choices diverse: combat, exploration, social, or clever solutions.`

const backstorySystemPrompt = `You are a creative fantasy writer for Quest Forge.
Generate a compelling character backstory (1-2 paragraphs) for a new adventurer.
Style: Medieval fantasy, personal, hints at motivations and past experiences.
Keep it concise but evocative.`

// BuildContext renders the character sheet and recent story for a prompt.
// previousChoice may be empty.
func BuildContext(session *entities.GameSession, previousChoice string, history []*entities.Scene) string {
	state := session.GameState
	parts := []string{
		fmt.Sprintf("Character: %s, a level %d %s", session.CharacterName, state.Level, session.CharacterClass),
		fmt.Sprintf("Health: %d/%d", state.Health, state.MaxHealth),
		"Stats: " + formatStats(state.Stats),
	}

	if len(state.Inventory) > 0 {
		parts = append(parts, "Inventory: "+strings.Join(state.Inventory, ", "))
	}

	if previousChoice != "" {
		parts = append(parts, "\nPrevious action: "+previousChoice)
	}

	if len(history) > 0 {
		recent := history
		if len(recent) > recentScenes {
			recent = recent[len(recent)-recentScenes:]
		}
		parts = append(parts, "\nRecent story:")
		for i, scene := range recent {
			parts = append(parts, fmt.Sprintf("%d. %s...", i+1, truncate(scene.Narrative, previewLength)))
			if scene.PlayerChoice != nil {
				parts = append(parts, "   → Player chose: "+*scene.PlayerChoice)
			}
		}
	}

	return strings.Join(parts, "\n")
}

// ExtractChoices turns free-form model output into a choice list: one
// choice per line, blank and overlong lines dropped, at most four kept.
// Fewer than three usable lines is a validation error.
func ExtractChoices(raw string) ([]string, error) {
	choices := make([]string, 0, maxChoices)
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || len([]rune(line)) >= maxChoiceLength {
			continue
		}
		choices = append(choices, line)
		if len(choices) == maxChoices {
			break
		}
	}

	if len(choices) < minChoices {
		return nil, errors.InvalidArgumentf("failed to generate enough choices: got %d, need %d", len(choices), minChoices).
			WithReason(errors.ReasonValidation)
	}
	return choices, nil
}

func formatStats(s entities.Stats) string {
	return fmt.Sprintf("STR %d, DEX %d, INT %d, WIS %d, CON %d, CHA %d",
		s.Strength, s.Dexterity, s.Intelligence, s.Wisdom, s.Constitution, s.Charisma)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

func narrativeUserPrompt(context, choice string) string {
	return fmt.Sprintf("%s\n\nNarrate what happens after the player chooses: \"%s\"", context, choice)
}

func choicesUserPrompt(context, narrative string) string {
	return fmt.Sprintf("%s\n\nCurrent scene: %s\n\nGenerate 3-4 possible actions the player can take:", context, narrative)
}

func backstoryUserPrompt(name string, class entities.CharacterClass, stats entities.Stats) string {
	return fmt.Sprintf("Create a backstory for:\nName: %s\nClass: %s\nStats: %s\n\n"+
		"Write a brief backstory explaining who they are and why they became a %s.",
		name, class, formatStats(stats), class)
}
