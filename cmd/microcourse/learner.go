package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/at-ishikawa/microcourse/internal/course"
	"github.com/at-ishikawa/microcourse/internal/learner"
)

func newLearnerCommand() *cobra.Command {
	learnerCmd := &cobra.Command{
		Use:   "learner",
		Short: "Learner commands",
	}
	learnerCmd.AddCommand(newLearnerImportCommand(), newLearnerExportCommand())
	return learnerCmd
}

func newLearnerImportCommand() *cobra.Command {
	var dryRun bool
	var nameColumn, emailColumn, phoneColumn, actorEmail string

	cmd := &cobra.Command{
		Use:   "import <file.xlsx|file.csv>",
		Short: "Import learners from a spreadsheet",
		Args:  cobra.ExactArgs(1),
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

			var createdBy *int64
			if actorEmail != "" {
				actor, err := a.actor(cmd.Context(), actorEmail)
				if err != nil {
					return err
				}
				createdBy = &actor.ID
			}

			columns := make(map[learner.Field]string)
			for field, header := range map[learner.Field]string{
				learner.FieldName:  nameColumn,
				learner.FieldEmail: emailColumn,
				learner.FieldPhone: phoneColumn,
			} {
				if header != "" {
					columns[field] = header
				}
			}

			out := cmd.OutOrStdout()
			importer := learner.NewImporter(a.learnerRepo, cfg.Learners.DefaultCountryCode, out)
			result, err := importer.ImportFile(cmd.Context(), args[0], learner.ImportOptions{
				DryRun:    dryRun,
				Columns:   columns,
				CreatedBy: createdBy,
			})
			if err != nil {
				return fmt.Errorf("import learners: %w", err)
			}

			fmt.Fprintln(out, "\nImport Summary:")
			if dryRun {
				fmt.Fprintln(out, "  (dry-run mode — no changes made)")
			}
			fmt.Fprintf(out, "  Learners: %d new, %d skipped, %d invalid\n", result.Created, result.Skipped, result.Invalid)
			for _, p := range result.Problems {
				color.New(color.FgYellow).Fprintf(out, "  row %d: %s\n", p.Row, p.Reason)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Preview changes without modifying the database")
	cmd.Flags().StringVar(&nameColumn, "name-column", "", "header of the name column when it cannot be guessed")
	cmd.Flags().StringVar(&emailColumn, "email-column", "", "header of the e-mail column when it cannot be guessed")
	cmd.Flags().StringVar(&phoneColumn, "phone-column", "", "header of the phone column when it cannot be guessed")
	cmd.Flags().StringVar(&actorEmail, "as", "", "e-mail of the account recorded as creator")
	return cmd
}

func newLearnerExportCommand() *cobra.Command {
	var output, status string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export learners with their assigned course to an .xlsx file",
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
			learners, err := a.learners.List(ctx, learner.Filter{Status: learner.Status(status)})
			if err != nil {
				return err
			}
			courseNames := make(map[int64]string)
			for _, l := range learners {
				if l.AssignedCourseID == nil {
					continue
				}
				if _, ok := courseNames[*l.AssignedCourseID]; ok {
					continue
				}
				c, err := a.catalog.GetCourse(ctx, *l.AssignedCourseID)
				if errors.Is(err, course.ErrCourseNotFound) {
					continue
				}
				if err != nil {
					return err
				}
				courseNames[*l.AssignedCourseID] = c.Name
			}

			f, err := os.Create(output)
			if err != nil {
				return fmt.Errorf("os.Create(%s) > %w", output, err)
			}
			defer func() { _ = f.Close() }()
			if err := learner.Export(f, learners, courseNames); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d learners to %s\n", len(learners), output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "learners.xlsx", "output file")
	cmd.Flags().StringVar(&status, "status", "", "only export learners with this status")
	return cmd
}
