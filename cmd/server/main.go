// Package main is the entry point for the gRPC server
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/quest-forge/cmd/server/client"
)

var rootCmd = &cobra.Command{
	Use:   "quest-forge",
	Short: "Quest Forge gRPC Server",
	Long:  `Quest Forge serves a choose-your-own-adventure game over gRPC: characters, scenes, choices and level-ups.`,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(serverCmd)
	rootCmd.AddCommand(client.ClientCmd)
}
