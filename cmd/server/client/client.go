// Package client provides commands that drive a running progression server
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	v1alpha1 "github.com/KirkDiggler/rpg-progression/internal/handlers/progression/v1alpha1"
)

var (
	// Connection flags
	serverAddr string
	timeout    time.Duration
)

// ClientCmd is the root command for all client commands
var ClientCmd = &cobra.Command{
	Use:   "client",
	Short: "Client commands for the progression service",
	Long:  `Client commands make real gRPC requests against a running progression server and print the JSON responses.`,
}

func init() {
	ClientCmd.PersistentFlags().StringVar(&serverAddr, "server", "localhost:50051", "gRPC server address")
	ClientCmd.PersistentFlags().DurationVar(&timeout, "timeout", 30*time.Second, "Request timeout")

	// Roster commands
	ClientCmd.AddCommand(createCharacterCmd)
	ClientCmd.AddCommand(getCharacterCmd)
	ClientCmd.AddCommand(listCharactersCmd)

	// Level-up commands
	ClientCmd.AddCommand(startProgressionCmd)
	ClientCmd.AddCommand(getProgressionCmd)
	ClientCmd.AddCommand(submitHPCmd)
	ClientCmd.AddCommand(submitFeaturesCmd)
	ClientCmd.AddCommand(submitSpellsCmd)
	ClientCmd.AddCommand(backCmd)
	ClientCmd.AddCommand(confirmCmd)
	ClientCmd.AddCommand(cancelProgressionCmd)

	// Resource commands
	ClientCmd.AddCommand(listResourcesCmd)
	ClientCmd.AddCommand(spendResourceCmd)
	ClientCmd.AddCommand(recoverResourceCmd)
	ClientCmd.AddCommand(restCmd)
	ClientCmd.AddCommand(spendHitDiceCmd)
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

// createProgressionClient creates a progression service client
func createProgressionClient() (*v1alpha1.Client, func(), error) {
	conn, err := createConnection()
	if err != nil {
		return nil, nil, err
	}

	cleanup := func() {
		_ = conn.Close() // nolint:errcheck // safe to ignore in cleanup
	}

	return v1alpha1.NewClient(conn), cleanup, nil
}

// call runs one method and prints the response
func call(cmd *cobra.Command, method string, req, resp any) error {
	client, cleanup, err := createProgressionClient()
	if err != nil {
		return err
	}
	defer cleanup()

	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	if err := client.Do(ctx, method, req, resp); err != nil {
		return fmt.Errorf("%s failed: %w", method, err)
	}
	return printJSON(cmd.OutOrStdout(), resp)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
