package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/xavierca1/residence-leads/internal/usecase"
)

func NewLeadsCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "leads",
		Short: "List and triage leads",
	}
	cmd.AddCommand(newLeadsListCommand(opts))
	cmd.AddCommand(newLeadsSetStatusCommand(opts))
	return cmd
}

func newLeadsListCommand(opts *RootOptions) *cobra.Command {
	var input usecase.ListLeadsInput

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List leads, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, closeFn, err := opts.OpenRepo(opts)
			if err != nil {
				return err
			}
			defer closeFn()

			out, err := usecase.NewTriageLeadUseCase(repo, opts.Log).List(cmd.Context(), input)
			if err != nil {
				return err
			}

			if opts.Format == "json" {
				return writeJSON(cmd.OutOrStdout(), out)
			}
			return writeLeadTable(cmd.OutOrStdout(), out)
		},
	}

	cmd.Flags().StringVar(&input.Status, "status", "", "filter by status (new|in_progress|closed|spam)")
	cmd.Flags().StringVar(&input.Type, "type", "", "filter by inquiry type")
	cmd.Flags().IntVar(&input.Limit, "limit", usecase.DefaultListLimit, "page size")
	cmd.Flags().IntVar(&input.Offset, "offset", 0, "rows to skip")

	return cmd
}

func newLeadsSetStatusCommand(opts *RootOptions) *cobra.Command {
	var notes string

	cmd := &cobra.Command{
		Use:   "set-status <id> <status>",
		Short: "Move a lead to another status",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, closeFn, err := opts.OpenRepo(opts)
			if err != nil {
				return err
			}
			defer closeFn()

			input := usecase.UpdateLeadInput{ID: args[0], Status: &args[1]}
			if cmd.Flags().Changed("notes") {
				input.Notes = &notes
			}

			if err := usecase.NewTriageLeadUseCase(repo, opts.Log).Update(cmd.Context(), input); err != nil {
				return err
			}

			if opts.Format == "json" {
				return writeJSON(cmd.OutOrStdout(), map[string]any{"success": true, "id": args[0], "status": args[1]})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "lead %s is now %s\n", args[0], args[1])
			return nil
		},
	}

	cmd.Flags().StringVar(&notes, "notes", "", "replace the lead notes")
	return cmd
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeLeadTable(w io.Writer, out *usecase.ListLeadsOutput) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tCREATED\tSTATUS\tTYPE\tNAME\tEMAIL")
	for _, l := range out.Leads {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s %s\t%s\n",
			l.ID, l.CreatedAt.Format("2006-01-02 15:04"), l.Status, l.Type, l.FirstName, l.LastName, l.Email)
	}
	fmt.Fprintf(tw, "\n%d of %d lead(s)\n", len(out.Leads), out.Total)
	return tw.Flush()
}
