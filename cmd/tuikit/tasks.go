package main

import (
	"fmt"
	"strings"

	"github.com/loganmanery/tuikit/pkg/datafile"
	"github.com/loganmanery/tuikit/pkg/models"
	"github.com/loganmanery/tuikit/pkg/session"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func newTasksCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tasks",
		Short: "Manage the task tracker",
	}

	var notes string
	addCmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Add a task",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, done, err := login(session.TaskApp)
			if err != nil {
				return err
			}
			defer done()

			row, err := s.AddTask(strings.Join(args, " "), notes)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s Added task #%s: %s\n", color.GreenString("✓"), row["serial"], row["title"])
			return nil
		},
	}
	addUserFlag(addCmd)
	addCmd.Flags().StringVar(&notes, "notes", "", "task notes")

	var editNotes string
	editCmd := &cobra.Command{
		Use:   "edit <serial> <title>",
		Short: "Change a task's title and notes",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, done, err := login(session.TaskApp)
			if err != nil {
				return err
			}
			defer done()

			row, err := s.EditTask(args[0], strings.Join(args[1:], " "), editNotes)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s Updated task #%s: %s\n", color.GreenString("✓"), row["serial"], row["title"])
			return nil
		},
	}
	addUserFlag(editCmd)
	editCmd.Flags().StringVar(&editNotes, "notes", "", "task notes")

	var ascending bool
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, done, err := login(session.TaskApp)
			if err != nil {
				return err
			}
			defer done()

			tasks, err := s.Tasks()
			if err != nil {
				return err
			}
			if ascending {
				tasks = datafile.SortBySerial(tasks, datafile.DefaultSerialField, false)
			}

			out := cmd.OutOrStdout()
			if len(tasks) == 0 {
				fmt.Fprintln(out, "No tasks found.")
				return nil
			}

			fmt.Fprintln(out, "#    | Done | Title                          | Notes")
			fmt.Fprintln(out, "-----+------+--------------------------------+----------------------")
			for _, t := range tasks {
				status := " "
				if session.TaskDone(t) {
					status = "x"
				}
				fmt.Fprintf(out, "%-4s | [%s]  | %-30s | %s\n",
					t["serial"], status, truncateString(t["title"], 30), truncateString(t["notes"], 40))
			}
			return nil
		},
	}
	addUserFlag(listCmd)
	listCmd.Flags().BoolVar(&ascending, "ascending", false, "list oldest first")

	cmd.AddCommand(newRegisterCmd(session.TaskApp))
	cmd.AddCommand(newImportUsersCmd(session.TaskApp))
	cmd.AddCommand(addCmd)
	cmd.AddCommand(editCmd)
	cmd.AddCommand(listCmd)
	cmd.AddCommand(newSetDoneCmd("done", true))
	cmd.AddCommand(newSetDoneCmd("undone", false))
	cmd.AddCommand(newDeleteCmd(session.TaskApp, "task", (*session.Session).DeleteTask))
	return cmd
}

func newSetDoneCmd(use string, value bool) *cobra.Command {
	cmd := &cobra.Command{
		Use:   use + " <serial>",
		Short: fmt.Sprintf("Mark a task as %s", use),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, done, err := login(session.TaskApp)
			if err != nil {
				return err
			}
			defer done()

			if err := s.SetDone(args[0], value); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s Task #%s marked %s\n", color.GreenString("✓"), args[0], use)
			return nil
		},
	}
	addUserFlag(cmd)
	return cmd
}

// newDeleteCmd builds the delete subcommand shared by both trackers.
func newDeleteCmd(app, noun string, remove func(*session.Session, string) (models.Row, error)) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <serial>",
		Short: fmt.Sprintf("Delete a %s", noun),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, done, err := login(app)
			if err != nil {
				return err
			}
			defer done()

			if _, err := remove(s, args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s Deleted %s #%s\n", color.GreenString("✓"), noun, args[0])
			return nil
		},
	}
	addUserFlag(cmd)
	return cmd
}
