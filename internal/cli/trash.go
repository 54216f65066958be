package cli

import (
	"eisenhower-matrix/internal/models"
	"eisenhower-matrix/internal/report"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newTrashCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "trash",
		Short: "Inspect the completed tasks kept on this device",
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List completed tasks, oldest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := a.ledger.List()
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "Trash is empty.")
				return nil
			}
			printTrash(cmd.OutOrStdout(), entries)
			return nil
		},
	}

	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Empty the trash",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := a.ledger.Count()
			if err != nil {
				return err
			}
			if err := a.ledger.Clear(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %d completed tasks\n", n)
			return nil
		},
	}

	cmd.AddCommand(listCmd, clearCmd)
	return cmd
}

// reportOutput is what `report --yaml` prints.
type reportOutput struct {
	report.Report `yaml:",inline"`
	EndOfMonth    *report.Bundle `yaml:"endOfMonth,omitempty"`
}

func newReportCmd(a *app) *cobra.Command {
	var asYAML bool

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Summarize this month's completed tasks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := a.ledger.List()
			if err != nil {
				return err
			}

			now := a.now()
			out := reportOutput{Report: report.Generate(entries, now)}
			if bundle, ok := report.EndOfMonth(now, a.pick); ok {
				out.EndOfMonth = &bundle
			}

			if asYAML {
				enc := yaml.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent(2)
				if err := enc.Encode(out); err != nil {
					return err
				}
				return enc.Close()
			}
			printReport(cmd.OutOrStdout(), out)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asYAML, "yaml", false, "Print the report as YAML")
	return cmd
}

func printTrash(out io.Writer, entries []models.CompletedTask) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	for _, e := range entries {
		fmt.Fprintf(w, "%s\t%s\t%s\n", e.CompletedAt.Local().Format(time.DateTime), e.Quadrant, e.Title)
	}
	w.Flush()
}

func printReport(out io.Writer, r reportOutput) {
	fmt.Fprintf(out, "%s %d\n", r.Month, r.Year)
	fmt.Fprintf(out, "Completed:          %d\n", r.TotalTasksCompleted)
	fmt.Fprintf(out, "Average per day:    %.1f\n", r.AverageTasksPerDay)
	if r.MostProductiveDay > 0 {
		fmt.Fprintf(out, "Most productive:    day %d\n", r.MostProductiveDay)
	}
	fmt.Fprintf(out, "Current streak:     %d days\n", r.CurrentStreak)
	for _, q := range models.Quadrants {
		if n, ok := r.TasksByQuadrant[q]; ok {
			fmt.Fprintf(out, "  %-26s %d\n", q, n)
		}
	}

	if r.EndOfMonth != nil {
		fmt.Fprintf(out, "\n\"%s\"\n  - %s\n", r.EndOfMonth.Quote, r.EndOfMonth.Author)
		fmt.Fprintf(out, "Watch: %s %s\n", r.EndOfMonth.VideoTitle, r.EndOfMonth.VideoURL)
	}
}
