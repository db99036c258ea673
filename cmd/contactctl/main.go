// Command contactctl is the operator tool for the contact message store.
package main

import (
	"fmt"
	"os"
	"time"

	"portfolio-backend/config"
	"portfolio-backend/pkg/logger"

	"github.com/spf13/cobra"
)

var (
	dbURL   string
	timeout time.Duration
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "contactctl",
	Short: "Inspect and maintain the contact message store",
	Long: `contactctl works directly against DATABASE_URL (or --database-url).

It applies the schema and lists stored contact messages, including those
whose notification email could not be sent.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level := "warn"
		if verbose {
			level = "debug"
		}
		logger.InitWithWriter(os.Stderr, level)

		if dbURL == "" {
			cfg, err := config.LoadConfig()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			dbURL = cfg.DBUrl
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbURL, "database-url", "", "Datastore URL (default: DATABASE_URL)")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 30*time.Second, "Operation timeout")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")

	messagesListCmd.Flags().IntVar(&listLimit, "limit", 20, "Maximum number of messages to show")
	messagesListCmd.Flags().IntVar(&listOffset, "offset", 0, "Number of newest messages to skip")
	messagesListCmd.Flags().BoolVar(&listJSON, "json", false, "Print messages as JSON")

	messagesCmd.AddCommand(messagesListCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(messagesCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
