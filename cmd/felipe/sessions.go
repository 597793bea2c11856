package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/Cyclone1070/felipe/internal/session"
)

func NewSessionsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "sessions",
		Short:   "Manage saved chat sessions",
		Aliases: []string{"session"},
	}

	cmd.AddCommand(NewSessionsListCmd(a))
	cmd.AddCommand(NewSessionsDeleteCmd(a))
	return cmd
}

type sessionsListOptions struct {
	Output string
}

func NewSessionsListCmd(a *app) *cobra.Command {
	options := &sessionsListOptions{}

	cmd := &cobra.Command{
		Use:     "list [flags]",
		Short:   "List saved sessions, most recent first",
		Aliases: []string{"ls"},
		Example: `  # List sessions
  felipe sessions list

  # List sessions in JSON format
  felipe sessions ls -o json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := session.Open(a.config.Session.DBPath)
			if err != nil {
				return err
			}
			defer store.Close()

			sessions, err := store.List(cmd.Context())
			if err != nil {
				return err
			}
			return renderSessions(cmd.OutOrStdout(), sessions, options.Output)
		},
	}

	cmd.Flags().StringVarP(&options.Output, "output", "o", "table", `output format ("table" or "json")`)

	return cmd
}

type sessionDisplay struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

func renderSessions(w io.Writer, sessions []session.Session, format string) error {
	displays := make([]sessionDisplay, len(sessions))
	for i, s := range sessions {
		displays[i] = sessionDisplay{
			ID:        s.ID,
			Title:     s.Title,
			CreatedAt: s.CreatedAt.Format("2006-01-02 15:04"),
			UpdatedAt: s.UpdatedAt.Format("2006-01-02 15:04"),
		}
	}

	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(displays)
	case "table", "":
		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tTITLE\tCREATED\tUPDATED")
		for _, d := range displays {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", d.ID, d.Title, d.CreatedAt, d.UpdatedAt)
		}
		return tw.Flush()
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}

type sessionsDeleteOptions struct {
	Force bool
}

func NewSessionsDeleteCmd(a *app) *cobra.Command {
	options := &sessionsDeleteOptions{}

	cmd := &cobra.Command{
		Use:     "delete <id>... [flags]",
		Short:   "Delete saved sessions",
		Aliases: []string{"rm"},
		Example: `  # Delete a session
  felipe sessions delete 3f2a9c1e-...

  # Force delete without confirmation
  felipe sessions rm 3f2a9c1e-... --force`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !options.Force && !confirmDeletion(cmd.InOrStdin(), cmd.OutOrStdout(), "session", args) {
				return nil
			}

			store, err := session.Open(a.config.Session.DBPath)
			if err != nil {
				return err
			}
			defer store.Close()

			for _, id := range args {
				if err := store.Delete(cmd.Context(), id); err != nil {
					return fmt.Errorf("failed to delete session %s: %w", id, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Session %s deleted\n", id)
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&options.Force, "force", "f", false, "Skip the confirmation prompt")

	return cmd
}

func confirmDeletion(stdin io.Reader, stdout io.Writer, kind string, ids []string) bool {
	if len(ids) == 0 {
		return false
	}
	if len(ids) > 1 {
		kind = kind + "s"
	}

	fmt.Fprintf(stdout, "Are you sure you want to delete %s %s? (y/n): ", kind, strings.Join(ids, " "))
	var answer string
	if _, err := fmt.Fscan(stdin, &answer); err != nil {
		return false
	}

	answer = strings.TrimSpace(strings.ToLower(answer))
	return answer == "y" || answer == "yes"
}
