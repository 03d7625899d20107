package client

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/quest-forge/internal/handlers/questforge/v1alpha1"
)

var (
	sceneID    string
	choiceText string
	allocation v1alpha1.Stats
)

var chooseCmd = &cobra.Command{
	Use:   "choose",
	Short: "Answer the current scene and stream the next one",
	Long: `Answer the current scene. --choice takes the choice text or its number
in the scene menu. The next scene streams in as it is written.`,
	RunE: runChoose,
}

var allocateCmd = &cobra.Command{
	Use:   "allocate",
	Short: "Spend level-up points; pass the full new value of each attribute",
	RunE:  runAllocate,
}

var clearLevelUpCmd = &cobra.Command{
	Use:   "clear-level-up",
	Short: "Clear a level-up flag left with no points to spend",
	RunE:  runClearLevelUp,
}

var acknowledgeLevelUpCmd = &cobra.Command{
	Use:   "ack-level-up",
	Short: "Close the level-up prompt after spending its points",
	RunE:  runAcknowledgeLevelUp,
}

func init() {
	for _, cmd := range []*cobra.Command{chooseCmd, allocateCmd, clearLevelUpCmd, acknowledgeLevelUpCmd} {
		cmd.Flags().StringVar(&sessionID, "session-id", "", "Session ID (required)")
		_ = cmd.MarkFlagRequired("session-id") // nolint:errcheck // safe to ignore in init
	}

	chooseCmd.Flags().StringVar(&choiceText, "choice", "", "Choice text or menu number (required)")
	chooseCmd.Flags().StringVar(&sceneID, "scene-id", "", "Scene being answered; rejects repeated submissions")
	_ = chooseCmd.MarkFlagRequired("choice") // nolint:errcheck // safe to ignore in init

	allocateCmd.Flags().IntVar(&allocation.Strength, "str", 0, "Strength")
	allocateCmd.Flags().IntVar(&allocation.Dexterity, "dex", 0, "Dexterity")
	allocateCmd.Flags().IntVar(&allocation.Intelligence, "int", 0, "Intelligence")
	allocateCmd.Flags().IntVar(&allocation.Wisdom, "wis", 0, "Wisdom")
	allocateCmd.Flags().IntVar(&allocation.Constitution, "con", 0, "Constitution")
	allocateCmd.Flags().IntVar(&allocation.Charisma, "cha", 0, "Charisma")
}

func runChoose(_ *cobra.Command, _ []string) error {
	creds, err := credentials()
	if err != nil {
		return err
	}
	client, cleanup, err := createGameClient()
	if err != nil {
		return err
	}
	defer cleanup()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	choice := choiceText
	if n, err := strconv.Atoi(choiceText); err == nil {
		current, err := client.GetSession(ctx, &v1alpha1.GetSessionRequest{SessionID: sessionID}, creds)
		if err != nil {
			return explain("load session", err)
		}
		if current.CurrentScene == nil {
			return fmt.Errorf("there is no scene waiting for a choice")
		}
		if n < 1 || n > len(current.CurrentScene.Choices) {
			return fmt.Errorf("choice %d is not on the menu", n)
		}
		choice = current.CurrentScene.Choices[n-1]
		if sceneID == "" {
			sceneID = current.CurrentScene.ID
		}
	}

	stream, err := client.StreamChoice(ctx, &v1alpha1.MakeChoiceRequest{
		SessionID: sessionID,
		SceneID:   sceneID,
		Choice:    choice,
	}, creds)
	if err != nil {
		return explain("make choice", err)
	}

	fmt.Printf("➡️  %s\n\n", choice)
	for {
		event, err := stream.Recv()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return explain("make choice", err)
		}

		switch {
		case event.Reset:
			fmt.Println("\n… the storyteller starts over …")
		case event.Chunk != "":
			fmt.Print(event.Chunk)
		case event.Result != nil:
			printTurn(event.Result)
		}
	}
}

func printTurn(turn *v1alpha1.MakeChoiceResponse) {
	fmt.Printf("\n\n+%d XP", turn.ExperienceGained)
	if turn.Source != "" {
		fmt.Printf("  (scene by %s)", turn.Source)
	}
	fmt.Println()
	if turn.LevelUp != nil {
		fmt.Printf("⭐ Level %d! +%d HP, %d attribute points to spend\n",
			turn.LevelUp.NewLevel, turn.LevelUp.TotalHealthGained, turn.Session.GameState.AvailablePoints)
	}
	fmt.Println()
	for i, choice := range turn.NextScene.Choices {
		fmt.Printf("  %d. %s\n", i+1, choice)
	}
	fmt.Printf("\nScene ID: %s\n", turn.NextScene.ID)
}

func runAllocate(cmd *cobra.Command, _ []string) error {
	creds, err := credentials()
	if err != nil {
		return err
	}
	client, cleanup, err := createGameClient()
	if err != nil {
		return err
	}
	defer cleanup()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	current, err := client.GetSession(ctx, &v1alpha1.GetSessionRequest{SessionID: sessionID}, creds)
	if err != nil {
		return explain("load session", err)
	}

	stats := applyAllocation(cmd, current.Session.GameState.Stats)

	resp, err := client.UpdateStats(ctx, &v1alpha1.UpdateStatsRequest{SessionID: sessionID, Stats: stats}, creds)
	if err != nil {
		return explain("allocate points", err)
	}

	fmt.Printf("✅ Attributes updated\n\n")
	printCharacter(resp.Session)
	return nil
}

// applyAllocation overlays the attribute flags set on cmd onto stats.
// Unset flags keep the current value.
func applyAllocation(cmd *cobra.Command, stats v1alpha1.Stats) v1alpha1.Stats {
	for _, f := range []struct {
		flag string
		dst  *int
		val  int
	}{
		{"str", &stats.Strength, allocation.Strength},
		{"dex", &stats.Dexterity, allocation.Dexterity},
		{"int", &stats.Intelligence, allocation.Intelligence},
		{"wis", &stats.Wisdom, allocation.Wisdom},
		{"con", &stats.Constitution, allocation.Constitution},
		{"cha", &stats.Charisma, allocation.Charisma},
	} {
		if cmd.Flags().Changed(f.flag) {
			*f.dst = f.val
		}
	}
	return stats
}

func runClearLevelUp(_ *cobra.Command, _ []string) error {
	creds, err := credentials()
	if err != nil {
		return err
	}
	client, cleanup, err := createGameClient()
	if err != nil {
		return err
	}
	defer cleanup()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	resp, err := client.ClearPendingLevelUp(ctx, &v1alpha1.SessionIDRequest{SessionID: sessionID}, creds)
	if err != nil {
		return explain("clear level-up", err)
	}
	printCharacter(resp.Session)
	return nil
}

func runAcknowledgeLevelUp(_ *cobra.Command, _ []string) error {
	creds, err := credentials()
	if err != nil {
		return err
	}
	client, cleanup, err := createGameClient()
	if err != nil {
		return err
	}
	defer cleanup()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := client.AcknowledgeLevelUp(ctx, &v1alpha1.SessionIDRequest{SessionID: sessionID}, creds); err != nil {
		return explain("acknowledge level-up", err)
	}
	fmt.Println("✅ Level-up acknowledged")
	return nil
}
