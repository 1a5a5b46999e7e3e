package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	_ "time/tzdata"

	"github.com/alquila-alerts/internal/app"
	"github.com/alquila-alerts/internal/config"
	jwtinfra "github.com/alquila-alerts/internal/infrastructure/jwt"
	"github.com/alquila-alerts/internal/infrastructure/sqlstore"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	// Load .env file if present
	_ = godotenv.Load()

	var rootCmd = &cobra.Command{
		Use:   "alerts",
		Short: "Rental alert scheduler",
	}

	rootCmd.AddCommand(scheduleCmd)
	rootCmd.AddCommand(processCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(bootstrapCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(tokenCmd)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func newApp(cmd *cobra.Command) (*app.App, error) {
	return app.New(cmd.Context(), config.Load())
}

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

var scheduleCmd = &cobra.Command{
	Use:   "schedule [payments|expiry]",
	Short: "Create and dispatch payment reminders or contract expiry alerts",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		switch args[0] {
		case "payments":
			rep, err := a.Scheduler.SchedulePaymentReminders(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(rep)
		case "expiry":
			rep, err := a.Scheduler.ScheduleContractExpiryAlerts(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(rep)
		default:
			return fmt.Errorf("unknown alert kind %q, want payments or expiry", args[0])
		}
	},
}

var processCmd = &cobra.Command{
	Use:   "process",
	Short: "Dispatch pending notifications whose scheduled date has arrived",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		rep, err := a.Scheduler.ProcessPendingNotifications(cmd.Context())
		if err != nil {
			return err
		}
		return printJSON(rep)
	},
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run one full scheduler tick, or keep ticking with --loop",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		loop, _ := cmd.Flags().GetBool("loop")
		if loop {
			a.Runner.Start(cmd.Context())
			return nil
		}
		rep, runErr := a.Runner.RunOnce(cmd.Context())
		if err := printJSON(rep); err != nil {
			return err
		}
		return runErr
	},
}

var bootstrapCmd = &cobra.Command{
	Use:   "bootstrap",
	Short: "Create the DynamoDB notification tables",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		a.Bootstrap(cmd.Context())
		return nil
	},
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the relational tables in a local database",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()
		db, err := sqlstore.Open(cfg.DatabaseDriver, cfg.DatabaseURL)
		if err != nil {
			return err
		}
		return sqlstore.Migrate(db)
	},
}

var tokenCmd = &cobra.Command{
	Use:   "token [user-id] [role]",
	Short: "Mint a bearer token for local testing (needs JWT_PRIVATE_KEY_PATH)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := jwtinfra.NewProvider(config.Load())
		if err != nil {
			return err
		}
		tok, err := p.Sign(args[0], args[1])
		if err != nil {
			return err
		}
		fmt.Println(tok)
		return nil
	},
}

func init() {
	runCmd.Flags().Bool("loop", false, "keep running on SCHEDULER_INTERVAL_MINUTES")
}
