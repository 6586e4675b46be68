// Command speakwellctl runs operator tasks against the speakwell database.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/yungbote/speakwell-backend/internal/app"
)

func main() {
	_ = godotenv.Load()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "speakwellctl",
		Short:        "Operator tools for the speakwell assignment store",
		SilenceUsage: true,
	}
	root.AddCommand(
		newMigrateCmd(),
		newSeedCmd(),
		newVerifyLedgerCmd(),
		newTeardownCmd(),
		newTokenCmd(),
	)
	return root
}

// withApp builds the application, runs fn and closes it.
func withApp(ctx context.Context, migrate bool, fn func(*app.App) error) error {
	application, err := app.New(ctx, migrate)
	if err != nil {
		return fmt.Errorf("init app: %w", err)
	}
	defer application.Close()
	return fn(application)
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
