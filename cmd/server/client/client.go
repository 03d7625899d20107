// Package client provides commands for playing Quest Forge against a running server
package client

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/KirkDiggler/quest-forge/internal/errors"
	"github.com/KirkDiggler/quest-forge/internal/handlers/questforge/v1alpha1"
	"github.com/KirkDiggler/quest-forge/internal/services/auth"
)

var (
	// Connection flags
	serverAddr string
	timeout    time.Duration
	token      string
)

// ClientCmd is the root command for all client commands
var ClientCmd = &cobra.Command{
	Use:   "client",
	Short: "Client commands for Quest Forge",
	Long: `Client commands play Quest Forge by making real gRPC requests.
Sign in first, then pass the access token with --token or QUESTFORGE_TOKEN.`,
}

func init() {
	ClientCmd.PersistentFlags().StringVar(&serverAddr, "server", "localhost:50051", "gRPC server address")
	ClientCmd.PersistentFlags().DurationVar(&timeout, "timeout", 60*time.Second, "Request timeout")
	ClientCmd.PersistentFlags().StringVar(&token, "token", os.Getenv("QUESTFORGE_TOKEN"), "Access token")

	// Account commands
	ClientCmd.AddCommand(signUpCmd)
	ClientCmd.AddCommand(signInCmd)
	ClientCmd.AddCommand(signOutCmd)
	ClientCmd.AddCommand(whoAmICmd)

	// Session commands
	ClientCmd.AddCommand(createCharacterCmd)
	ClientCmd.AddCommand(backstoryCmd)
	ClientCmd.AddCommand(getSessionCmd)
	ClientCmd.AddCommand(listSessionsCmd)

	// Play commands
	ClientCmd.AddCommand(chooseCmd)
	ClientCmd.AddCommand(allocateCmd)
	ClientCmd.AddCommand(clearLevelUpCmd)
	ClientCmd.AddCommand(acknowledgeLevelUpCmd)
	ClientCmd.AddCommand(watchCmd)
}

// createConnection creates a gRPC connection to the server
func createConnection() (*grpc.ClientConn, error) {
	conn, err := grpc.NewClient(serverAddr,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to server: %w", err)
	}

	return conn, nil
}

// createAuthClient creates an auth service client
func createAuthClient() (*v1alpha1.AuthServiceClient, func(), error) {
	conn, err := createConnection()
	if err != nil {
		return nil, nil, err
	}

	cleanup := func() {
		_ = conn.Close() // nolint:errcheck // safe to ignore in cleanup
	}
	return v1alpha1.NewAuthServiceClient(conn), cleanup, nil
}

// createGameClient creates a game service client
func createGameClient() (*v1alpha1.GameServiceClient, func(), error) {
	conn, err := createConnection()
	if err != nil {
		return nil, nil, err
	}

	cleanup := func() {
		_ = conn.Close() // nolint:errcheck // safe to ignore in cleanup
	}
	return v1alpha1.NewGameServiceClient(conn), cleanup, nil
}

// credentials returns the bearer token call option
func credentials() (grpc.CallOption, error) {
	if token == "" {
		return nil, fmt.Errorf("an access token is required; run sign-in and pass --token")
	}
	return v1alpha1.BearerToken(token), nil
}

// explainAuth describes a failed account call the way the sign-in screen would
func explainAuth(err error) error {
	desc := auth.Describe(errors.FromGRPCError(err))
	return fmt.Errorf("%s: %s", desc.Title, desc.Message)
}

// explain turns a failed game call into something a player can act on
func explain(action string, err error) error {
	converted := errors.FromGRPCError(err)
	if errors.IsUnauthenticated(converted) {
		return explainAuth(err)
	}

	switch errors.GetReason(converted) {
	case errors.ReasonNoActiveSession:
		return fmt.Errorf("%s: there is no scene waiting for a choice; create a character first", action)
	case errors.ReasonInvalidAllocation, errors.ReasonUnallocatedPoints, errors.ReasonValidation:
		return fmt.Errorf("%s: %s", action, errors.GetMessage(converted))
	case errors.ReasonGenerationFailed, errors.ReasonGenerationTimeout:
		return fmt.Errorf("%s: the storyteller is unavailable, try again shortly", action)
	case errors.ReasonSceneAlreadyResolved, errors.ReasonChoiceInFlight, errors.ReasonConcurrentUpdate:
		return fmt.Errorf("%s: that choice was already made, reload the session", action)
	}
	return fmt.Errorf("failed to %s: %w", action, err)
}
