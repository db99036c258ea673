package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"portfolio-backend/internal/domain"
	"portfolio-backend/internal/repository"
	"portfolio-backend/pkg/database"

	"github.com/spf13/cobra"
)

var (
	listLimit  int
	listOffset int
	listJSON   bool
)

// migrateCmd applies the embedded schema
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply the contact message schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
		defer cancel()
		return runMigrate(ctx, cmd.OutOrStdout(), dbURL)
	},
}

var messagesCmd = &cobra.Command{
	Use:   "messages",
	Short: "Work with stored contact messages",
}

// messagesListCmd prints stored messages, newest first
var messagesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored contact messages, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if listLimit <= 0 || listLimit > 500 {
			return fmt.Errorf("--limit must be between 1 and 500")
		}
		if listOffset < 0 {
			return fmt.Errorf("--offset must not be negative")
		}
		ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
		defer cancel()
		return runList(ctx, cmd.OutOrStdout(), dbURL, listLimit, listOffset, listJSON)
	},
}

func runMigrate(ctx context.Context, out io.Writer, url string) error {
	driver, _, err := database.ParseURL(url)
	if err != nil {
		return err
	}
	files, err := database.MigrationFiles(driver)
	if err != nil {
		return err
	}

	// Open applies every migration before returning
	_, closeDB, err := repository.Open(ctx, url)
	if err != nil {
		return err
	}
	defer closeDB()

	for _, f := range files {
		fmt.Fprintf(out, "applied %s\n", f)
	}
	return nil
}

func runList(ctx context.Context, out io.Writer, url string, limit, offset int, asJSON bool) error {
	repo, closeDB, err := repository.Open(ctx, url)
	if err != nil {
		return err
	}
	defer closeDB()

	messages, err := repo.List(ctx, limit, offset)
	if err != nil {
		return fmt.Errorf("list messages: %w", err)
	}
	if messages == nil {
		messages = []domain.ContactMessage{}
	}

	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(messages)
	}
	return printMessages(out, messages)
}

func printMessages(out io.Writer, messages []domain.ContactMessage) error {
	if len(messages) == 0 {
		_, err := fmt.Fprintln(out, "no messages")
		return err
	}
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tRECEIVED\tFROM\tSUBJECT")
	for _, m := range messages {
		fmt.Fprintf(tw, "%s\t%s\t%s <%s>\t%s\n",
			m.ID, m.CreatedAt.UTC().Format(time.RFC3339), m.Name, m.Email, truncate(m.Subject, 60))
	}
	return tw.Flush()
}

func truncate(s string, n int) string {
	s = strings.TrimSpace(s)
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
