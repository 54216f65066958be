package cli

import (
	"context"
	"eisenhower-matrix/internal/gateway"
	"eisenhower-matrix/internal/models"
	"fmt"
	"io"
	"slices"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

var quadrantTitles = map[models.Quadrant]string{
	models.UrgentImportant:       "Do first (urgent, important)",
	models.UrgentNotImportant:    "Delegate (urgent, not important)",
	models.NotUrgentImportant:    "Schedule (not urgent, important)",
	models.NotUrgentNotImportant: "Eliminate (not urgent, not important)",
}

func newListCmd(a *app) *cobra.Command {
	var only string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks by quadrant",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			quadrants := models.Quadrants
			if only != "" {
				q, err := parseQuadrant(only)
				if err != nil {
					return err
				}
				quadrants = []models.Quadrant{q}
			}

			if err := a.load(cmd.Context()); err != nil {
				return err
			}
			printTasks(cmd.OutOrStdout(), a.tasks.Tasks(), quadrants)
			return nil
		},
	}

	cmd.Flags().StringVarP(&only, "quadrant", "q", "", "Only list one quadrant")
	return cmd
}

func newAddCmd(a *app) *cobra.Command {
	var description string

	cmd := &cobra.Command{
		Use:   "add <quadrant> <title>",
		Short: "Add a task to a quadrant",
		Long:  "Add a task. Quadrants are given by wire name or as do, delegate, schedule or eliminate.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			q, err := parseQuadrant(args[0])
			if err != nil {
				return err
			}
			if err := a.load(cmd.Context()); err != nil {
				return err
			}

			task, err := a.tasks.AddTask(cmd.Context(), q, args[1], description)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %s to %s\n", task.ID, task.Quadrant)
			return nil
		},
	}

	cmd.Flags().StringVarP(&description, "description", "d", "", "Task description")
	return cmd
}

func newEditCmd(a *app) *cobra.Command {
	var title, description, quadrant string
	var completed bool

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change fields of a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			patch := models.TaskPatch{}
			flags := cmd.Flags()
			if flags.Changed("title") {
				patch.Title = &title
			}
			if flags.Changed("description") {
				patch.Description = &description
			}
			if flags.Changed("quadrant") {
				q, err := parseQuadrant(quadrant)
				if err != nil {
					return err
				}
				patch.Quadrant = &q
			}
			if flags.Changed("completed") {
				patch.Completed = &completed
			}

			if err := a.load(cmd.Context()); err != nil {
				return err
			}
			task, found, err := a.tasks.UpdateTask(cmd.Context(), args[0], patch)
			if err != nil {
				return err
			}
			if !found {
				fmt.Fprintf(cmd.OutOrStdout(), "No task %s\n", args[0])
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated %s: %s\n", task.ID, task.Title)
			return nil
		},
	}

	cmd.Flags().StringVarP(&title, "title", "t", "", "New title")
	cmd.Flags().StringVarP(&description, "description", "d", "", "New description")
	cmd.Flags().StringVarP(&quadrant, "quadrant", "q", "", "New quadrant")
	cmd.Flags().BoolVar(&completed, "completed", false, "Mark completed without archiving")
	return cmd
}

func newMoveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "move <id> <quadrant>",
		Short: "Move a task to the end of another quadrant",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			to, err := parseQuadrant(args[1])
			if err != nil {
				return err
			}
			if err := a.load(cmd.Context()); err != nil {
				return err
			}
			task, err := findTask(a, args[0])
			if err != nil {
				return err
			}

			moved, err := a.tasks.MoveTask(cmd.Context(), task.ID, task.Quadrant, to)
			if err != nil {
				return err
			}
			if !moved {
				fmt.Fprintf(cmd.OutOrStdout(), "%s is already in %s\n", task.ID, to)
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Moved %s to %s\n", task.ID, to)
			return nil
		},
	}
}

func newRemoveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"delete"},
		Short:   "Delete a task permanently",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.load(cmd.Context()); err != nil {
				return err
			}

			var quadrant models.Quadrant
			if task, ok := a.tasks.Find(args[0]); ok {
				quadrant = task.Quadrant
			}
			if err := a.tasks.DeleteTask(cmd.Context(), quadrant, args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
			return nil
		},
	}
}

func newDoneCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "done <id>",
		Short: "Archive a task to the trash as completed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.load(cmd.Context()); err != nil {
				return err
			}
			task, err := findTask(a, args[0])
			if err != nil {
				return err
			}

			quote, err := a.tasks.ArchiveTask(cmd.Context(), task)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), quote)
			return nil
		},
	}
}

func newStatsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show completion statistics for the active tasks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			stats, err := a.stats(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Total:     %d\n", stats.TotalTasks)
			fmt.Fprintf(out, "Completed: %d\n", stats.CompletedTasks)
			fmt.Fprintf(out, "Pending:   %d\n", stats.PendingTasks)
			fmt.Fprintf(out, "Rate:      %d%%\n", stats.CompletionRate)
			for _, q := range models.Quadrants {
				fmt.Fprintf(out, "  %-26s %d\n", q, stats.TasksByQuadrant[q])
			}
			return nil
		},
	}
}

func newRecentCmd(a *app) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "recent",
		Short: "List the most recently updated tasks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tasks, err := a.recent(cmd.Context(), limit)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			for _, task := range tasks {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", task.UpdatedAt.Local().Format(time.DateTime), task.ID, task.Quadrant, task.Title)
			}
			return w.Flush()
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "Number of tasks to show (at most 100)")
	return cmd
}

func (a *app) stats(ctx context.Context) (models.Stats, error) {
	if a.mode == gateway.ModeRemote {
		return a.api().Stats(ctx)
	}
	if err := a.load(ctx); err != nil {
		return models.Stats{}, err
	}
	return models.ComputeStats(a.tasks.Tasks().Flatten()), nil
}

func (a *app) recent(ctx context.Context, limit int) ([]models.Task, error) {
	limit = min(max(limit, 1), 100)
	if a.mode == gateway.ModeRemote {
		return a.api().Activity(ctx, limit)
	}
	if err := a.load(ctx); err != nil {
		return nil, err
	}

	tasks := a.tasks.Tasks().Flatten()
	slices.SortStableFunc(tasks, func(x, y models.Task) int {
		return y.UpdatedAt.Compare(x.UpdatedAt)
	})
	return tasks[:min(limit, len(tasks))], nil
}

func printTasks(out io.Writer, tasks models.TasksByQuadrant, quadrants []models.Quadrant) {
	for i, q := range quadrants {
		if i > 0 {
			fmt.Fprintln(out)
		}
		fmt.Fprintf(out, "%s (%d)\n", quadrantTitles[q], len(tasks[q]))

		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		for _, task := range tasks[q] {
			mark := " "
			if task.Completed {
				mark = "x"
			}
			fmt.Fprintf(w, "  [%s]\t%s\t%s\n", mark, task.ID, task.Title)
		}
		w.Flush()
	}
}
