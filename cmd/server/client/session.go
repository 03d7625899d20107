package client

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/quest-forge/internal/entities"
	"github.com/KirkDiggler/quest-forge/internal/handlers/questforge/v1alpha1"
)

var (
	characterName  string
	characterClass string
	backstory      string
	sessionID      string
	listLimit      int
)

var createCharacterCmd = &cobra.Command{
	Use:   "create-character",
	Short: "Create a character and start a new session",
	RunE:  runCreateCharacter,
}

var backstoryCmd = &cobra.Command{
	Use:   "backstory",
	Short: "Stream a generated backstory for a character you are about to create",
	RunE:  runBackstory,
}

var getSessionCmd = &cobra.Command{
	Use:   "get-session",
	Short: "Show a session; the most recent one without --session-id",
	RunE:  runGetSession,
}

var listSessionsCmd = &cobra.Command{
	Use:   "list-sessions",
	Short: "List your characters, most recently played first",
	RunE:  runListSessions,
}

func init() {
	classHelp := fmt.Sprintf("Class, one of: %s (required)", strings.Join(entities.ClassNames(), ", "))
	for _, cmd := range []*cobra.Command{createCharacterCmd, backstoryCmd} {
		cmd.Flags().StringVar(&characterName, "name", "", "Character name (required)")
		cmd.Flags().StringVar(&characterClass, "class", "", classHelp)
		_ = cmd.MarkFlagRequired("name")  // nolint:errcheck // safe to ignore in init
		_ = cmd.MarkFlagRequired("class") // nolint:errcheck // safe to ignore in init
	}
	createCharacterCmd.Flags().StringVar(&backstory, "backstory", "", "Optional backstory")

	getSessionCmd.Flags().StringVar(&sessionID, "session-id", "", "Session ID")
	listSessionsCmd.Flags().IntVar(&listLimit, "limit", 10, "Maximum sessions to list")
}

func runCreateCharacter(_ *cobra.Command, _ []string) error {
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

	resp, err := client.CreateCharacter(ctx, &v1alpha1.CreateCharacterRequest{
		CharacterName:  characterName,
		CharacterClass: characterClass,
		Backstory:      backstory,
	}, creds)
	if err != nil {
		return explain("create character", err)
	}

	fmt.Printf("✅ %s the %s is ready!\n", resp.Session.CharacterName, resp.Session.CharacterClass)
	fmt.Printf("Session ID: %s\n\n", resp.Session.ID)
	printScene(resp.Scene)
	return nil
}

func runBackstory(_ *cobra.Command, _ []string) error {
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

	stream, err := client.GenerateBackstory(ctx, &v1alpha1.GenerateBackstoryRequest{
		CharacterName:  characterName,
		CharacterClass: characterClass,
	}, creds)
	if err != nil {
		return explain("generate backstory", err)
	}

	streamed := false
	for {
		event, err := stream.Recv()
		if err == io.EOF {
			fmt.Println()
			return nil
		}
		if err != nil {
			return explain("generate backstory", err)
		}
		switch {
		case event.Reset:
			streamed = false
			fmt.Println("\n… retrying …")
		case event.Chunk != "":
			streamed = true
			fmt.Print(event.Chunk)
		case event.Backstory != "" && !streamed:
			fmt.Print(event.Backstory)
		}
	}
}

func runGetSession(_ *cobra.Command, _ []string) error {
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

	var resp *v1alpha1.SessionResponse
	if sessionID == "" {
		resp, err = client.GetLatestSession(ctx, creds)
	} else {
		resp, err = client.GetSession(ctx, &v1alpha1.GetSessionRequest{SessionID: sessionID}, creds)
	}
	if err != nil {
		return explain("load session", err)
	}

	printCharacter(resp.Session)
	fmt.Printf("Scenes played: %d\n\n", len(resp.Scenes))
	if resp.CurrentScene != nil {
		printScene(resp.CurrentScene)
	}
	return nil
}

func runListSessions(_ *cobra.Command, _ []string) error {
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

	resp, err := client.ListSessions(ctx, &v1alpha1.ListSessionsRequest{Limit: listLimit}, creds)
	if err != nil {
		return explain("list sessions", err)
	}

	if len(resp.Sessions) == 0 {
		fmt.Println("No characters yet. Try create-character.")
		return nil
	}
	for _, s := range resp.Sessions {
		fmt.Printf("%s  %-20s %-8s level %d  (last played %s)\n",
			s.ID, s.CharacterName, s.CharacterClass, s.GameState.Level,
			s.UpdatedAt.Local().Format("2006-01-02 15:04"))
	}
	return nil
}

func printCharacter(s *v1alpha1.Session) {
	state := s.GameState
	fmt.Printf("🧙 %s the %s  (session %s)\n", s.CharacterName, s.CharacterClass, s.ID)
	fmt.Printf("Level %d  XP %d/%d  HP %d/%d\n",
		state.Level, state.Experience, state.ExperienceToNextLevel, state.Health, state.MaxHealth)
	fmt.Printf("STR %d  DEX %d  INT %d  WIS %d  CON %d  CHA %d\n",
		state.Stats.Strength, state.Stats.Dexterity, state.Stats.Intelligence,
		state.Stats.Wisdom, state.Stats.Constitution, state.Stats.Charisma)
	if state.PendingLevelUp {
		fmt.Printf("⭐ Level up! %d attribute points to spend (use allocate)\n", state.AvailablePoints)
	}
}

func printScene(scene *v1alpha1.Scene) {
	fmt.Printf("%s\n\n", scene.Narrative)
	for i, choice := range scene.Choices {
		fmt.Printf("  %d. %s\n", i+1, choice)
	}
	fmt.Printf("\nScene ID: %s\n", scene.ID)
}
