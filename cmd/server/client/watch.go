package client

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/quest-forge/internal/handlers/questforge/v1alpha1"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Follow a session's changes and level-ups until interrupted",
	RunE:  runWatch,
}

func init() {
	watchCmd.Flags().StringVar(&sessionID, "session-id", "", "Session ID (required)")
	_ = watchCmd.MarkFlagRequired("session-id") // nolint:errcheck // safe to ignore in init
}

func runWatch(_ *cobra.Command, _ []string) error {
	creds, err := credentials()
	if err != nil {
		return err
	}
	client, cleanup, err := createGameClient()
	if err != nil {
		return err
	}
	defer cleanup()

	// No timeout; the stream runs until interrupted
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	stream, err := client.WatchSession(ctx, &v1alpha1.SessionIDRequest{SessionID: sessionID}, creds)
	if err != nil {
		return explain("watch session", err)
	}

	for {
		event, err := stream.Recv()
		if err == io.EOF || ctx.Err() != nil {
			return nil
		}
		if err != nil {
			return explain("watch session", err)
		}

		switch {
		case event.LevelUp != nil:
			fmt.Printf("⭐ LEVEL UP! Level %d, %d attribute points to spend\n\n",
				event.LevelUp.NewLevel, event.LevelUp.AvailablePoints)
		case event.Snapshot != nil:
			printCharacter(event.Snapshot.Session)
			fmt.Printf("Scenes played: %d\n\n", len(event.Snapshot.Scenes))
		}
	}
}
