package client

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/quest-forge/internal/handlers/questforge/v1alpha1"
)

var (
	email    string
	password string
	username string
)

var signUpCmd = &cobra.Command{
	Use:   "sign-up",
	Short: "Create an account",
	RunE:  runSignUp,
}

var signInCmd = &cobra.Command{
	Use:   "sign-in",
	Short: "Sign in and print an access token",
	RunE:  runSignIn,
}

var signOutCmd = &cobra.Command{
	Use:   "sign-out",
	Short: "Revoke the access token",
	RunE:  runSignOut,
}

var whoAmICmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in account",
	RunE:  runWhoAmI,
}

func init() {
	for _, cmd := range []*cobra.Command{signUpCmd, signInCmd} {
		cmd.Flags().StringVar(&email, "email", "", "Email address (required)")
		cmd.Flags().StringVar(&password, "password", "", "Password (required)")
		_ = cmd.MarkFlagRequired("email")    // nolint:errcheck // safe to ignore in init
		_ = cmd.MarkFlagRequired("password") // nolint:errcheck // safe to ignore in init
	}
	signUpCmd.Flags().StringVar(&username, "username", "", "Display name (required)")
	_ = signUpCmd.MarkFlagRequired("username") // nolint:errcheck // safe to ignore in init
}

func runSignUp(_ *cobra.Command, _ []string) error {
	client, cleanup, err := createAuthClient()
	if err != nil {
		return err
	}
	defer cleanup()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	resp, err := client.SignUp(ctx, &v1alpha1.SignUpRequest{
		Email:    email,
		Password: password,
		Username: username,
	})
	if err != nil {
		return explainAuth(err)
	}

	fmt.Printf("✅ Account created for %s\n\n", resp.Session.User.Username)
	printSession(resp.Session)
	return nil
}

func runSignIn(_ *cobra.Command, _ []string) error {
	client, cleanup, err := createAuthClient()
	if err != nil {
		return err
	}
	defer cleanup()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	resp, err := client.SignIn(ctx, &v1alpha1.SignInRequest{Email: email, Password: password})
	if err != nil {
		return explainAuth(err)
	}

	fmt.Printf("✅ Welcome back, %s\n\n", resp.Session.User.Username)
	printSession(resp.Session)
	return nil
}

func runSignOut(_ *cobra.Command, _ []string) error {
	creds, err := credentials()
	if err != nil {
		return err
	}
	client, cleanup, err := createAuthClient()
	if err != nil {
		return err
	}
	defer cleanup()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := client.SignOut(ctx, creds); err != nil {
		return explainAuth(err)
	}
	fmt.Println("👋 Signed out")
	return nil
}

func runWhoAmI(_ *cobra.Command, _ []string) error {
	creds, err := credentials()
	if err != nil {
		return err
	}
	client, cleanup, err := createAuthClient()
	if err != nil {
		return err
	}
	defer cleanup()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	resp, err := client.GetCurrentUser(ctx, creds)
	if err != nil {
		return explainAuth(err)
	}
	fmt.Printf("ID: %s\nEmail: %s\nUsername: %s\n", resp.User.ID, resp.User.Email, resp.User.Username)
	return nil
}

func printSession(session *v1alpha1.AuthSession) {
	fmt.Printf("Access token (expires %s):\n%s\n\n", session.ExpiresAt.Local().Format("2006-01-02 15:04"), session.AccessToken)
	fmt.Printf("export QUESTFORGE_TOKEN=%s\n", session.AccessToken)
}
