// Package cli implements leadctl, the operator command line.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	app "leadcredit/internal"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "leadctl",
	Short: "Operate the lead credit ledger",
	Long: `leadctl manages buyers, wallets and leads of the lead credit service.
Database settings are read the same way as the API server: .env, then
CONFIG_FILE (TOML), then environment variables.`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// withApp initializes the application for the duration of fn.
func withApp(cmd *cobra.Command, fn func(ctx context.Context, a *app.Application) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	a := app.NewApplication()
	if err := a.Initialize(ctx); err != nil {
		return err
	}
	defer func() { _ = a.Shutdown(context.Background()) }()

	return fn(ctx, a)
}

func printJSON(w io.Writer, v interface{}) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	_, err = fmt.Fprintln(w, string(out))
	return err
}
