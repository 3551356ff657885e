package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/at-ishikawa/microcourse/internal/enrollment"
	"github.com/at-ishikawa/microcourse/internal/identity"
)

func newEnrollmentCommand() *cobra.Command {
	var actorEmail string
	enrollmentCmd := &cobra.Command{
		Use:   "enrollment",
		Short: "Enrollment commands",
	}
	enrollmentCmd.PersistentFlags().StringVar(&actorEmail, "as", "", "e-mail of the account performing the change")
	enrollmentCmd.AddCommand(
		newEnrollmentAssignCommand(&actorEmail),
		newEnrollmentProgressCommand(&actorEmail),
		newEnrollmentSuspendCommand(&actorEmail),
		newEnrollmentExportCommand(&actorEmail),
	)
	return enrollmentCmd
}

func newEnrollmentAssignCommand(actorEmail *string) *cobra.Command {
	var learnerID, courseID int64
	var yes bool

	cmd := &cobra.Command{
		Use:   "assign",
		Short: "Assign a course to a learner",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			a, err := newApp(cfg)
			if err != nil {
				return err
			}
			defer func() { _ = a.Close() }()

			ctx := cmd.Context()
			actor, err := a.actor(ctx, *actorEmail)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			input := enrollment.AssignInput{LearnerID: learnerID, CourseID: courseID}
			result, err := assignWithConfirmation(ctx, a.enrollments, actor, input, yes, bufio.NewReader(cmd.InOrStdin()), out)
			if errors.Is(err, errAssignCancelled) {
				fmt.Fprintln(out, "Cancelled; nothing was changed.")
				return nil
			}
			if err != nil {
				return err
			}

			for _, r := range result.Suspended {
				color.New(color.FgYellow).Fprintf(out, "  [SUSPENDED] %s (record %d)\n", r.CourseName, r.ID)
			}
			color.New(color.FgGreen).Fprintf(out, "  [ASSIGNED]  %s (record %d)\n", result.Record.CourseName, result.Record.ID)
			return nil
		},
	}
	cmd.Flags().Int64Var(&learnerID, "learner", 0, "learner id")
	cmd.Flags().Int64Var(&courseID, "course", 0, "course id")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "suspend the current course without asking")
	_ = cmd.MarkFlagRequired("learner")
	_ = cmd.MarkFlagRequired("course")
	return cmd
}

var errAssignCancelled = errors.New("assignment cancelled")

type assigner interface {
	Assign(ctx context.Context, actor identity.Principal, in enrollment.AssignInput) (*enrollment.AssignResult, error)
}

// assignWithConfirmation asks about every active course Assign would suspend and confirms exactly
// the record the question named. When the active course changes in between, the new one is asked about.
func assignWithConfirmation(ctx context.Context, service assigner, actor identity.Principal, input enrollment.AssignInput, yes bool, reader *bufio.Reader, out io.Writer) (*enrollment.AssignResult, error) {
	for {
		result, err := service.Assign(ctx, actor, input)
		var confirmation *enrollment.ConfirmationRequiredError
		if !errors.As(err, &confirmation) {
			return result, err
		}
		if confirmation.Existing.ID == input.ConfirmRecordID {
			return nil, err
		}
		if yes {
			fmt.Fprintln(out, confirmation.Prompt()+" [yes]")
		} else {
			ok, promptErr := confirm(reader, out, confirmation.Prompt())
			if promptErr != nil {
				return nil, promptErr
			}
			if !ok {
				return nil, errAssignCancelled
			}
		}
		input.ConfirmRecordID = confirmation.Existing.ID
	}
}

func newEnrollmentProgressCommand(actorEmail *string) *cobra.Command {
	var status string
	var percent, day int

	cmd := &cobra.Command{
		Use:   "progress <record-id>",
		Short: "Update the status and progress of an enrollment record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid record id %q: %w", args[0], err)
			}
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			a, err := newApp(cfg)
			if err != nil {
				return err
			}
			defer func() { _ = a.Close() }()

			ctx := cmd.Context()
			actor, err := a.actor(ctx, *actorEmail)
			if err != nil {
				return err
			}
			input := enrollment.ProgressInput{Status: enrollment.Status(status)}
			if cmd.Flags().Changed("percent") {
				input.Percent = &percent
			}
			if cmd.Flags().Changed("day") {
				input.CurrentDay = &day
			}
			record, err := a.enrollments.UpdateProgress(ctx, actor, id, input)
			if err != nil {
				return err
			}
			printRecord(cmd.OutOrStdout(), record)
			return nil
		},
	}
	cmd.Flags().StringVar(&status, "status", "", "scheduled, assigned, started, in_progress or completed")
	cmd.Flags().IntVar(&percent, "percent", 0, "progress percentage (default: derived from status)")
	cmd.Flags().IntVar(&day, "day", 0, "current day")
	_ = cmd.MarkFlagRequired("status")
	return cmd
}

func newEnrollmentSuspendCommand(actorEmail *string) *cobra.Command {
	return &cobra.Command{
		Use:   "suspend <record-id>",
		Short: "Suspend an enrollment record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid record id %q: %w", args[0], err)
			}
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			a, err := newApp(cfg)
			if err != nil {
				return err
			}
			defer func() { _ = a.Close() }()

			ctx := cmd.Context()
			actor, err := a.actor(ctx, *actorEmail)
			if err != nil {
				return err
			}
			record, err := a.enrollments.Suspend(ctx, actor, id)
			if err != nil {
				return err
			}
			printRecord(cmd.OutOrStdout(), record)
			return nil
		},
	}
}

func newEnrollmentExportCommand(actorEmail *string) *cobra.Command {
	var output string
	var learnerID int64

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export enrollment records to an .xlsx file",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			a, err := newApp(cfg)
			if err != nil {
				return err
			}
			defer func() { _ = a.Close() }()

			ctx := cmd.Context()
			actor, err := a.actor(ctx, *actorEmail)
			if err != nil {
				return err
			}
			records, err := a.enrollments.List(ctx, actor, enrollment.Filter{LearnerID: learnerID})
			if err != nil {
				return err
			}

			f, err := os.Create(output)
			if err != nil {
				return fmt.Errorf("os.Create(%s) > %w", output, err)
			}
			defer func() { _ = f.Close() }()
			if err := enrollment.Export(f, records); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d records to %s\n", len(records), output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "enrollments.xlsx", "output file")
	cmd.Flags().Int64Var(&learnerID, "learner", 0, "only export records of this learner")
	return cmd
}

func printRecord(w io.Writer, r *enrollment.Record) {
	fmt.Fprintf(w, "record %d: %s, %s, day %d, %d%%\n", r.ID, r.CourseName, r.Status, r.CurrentDay, r.ProgressPercent)
}
