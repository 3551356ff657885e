package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/at-ishikawa/microcourse/internal/course"
)

func newCourseCommand() *cobra.Command {
	var actorEmail string
	courseCmd := &cobra.Command{
		Use:   "course",
		Short: "Course commands",
	}
	courseCmd.PersistentFlags().StringVar(&actorEmail, "as", "", "e-mail of the account performing the change")
	courseCmd.AddCommand(
		newCourseImportCommand(&actorEmail),
		newCourseExportCommand(),
		newCourseStatusCommand(&actorEmail),
		newCourseListCommand(),
	)
	return courseCmd
}

func newCourseImportCommand(actorEmail *string) *cobra.Command {
	var dryRun bool
	var dir string

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import course definition YAML files",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if dir == "" {
				dir = cfg.Courses.DefinitionsDirectory
			}
			a, err := newApp(cfg)
			if err != nil {
				return err
			}
			defer func() { _ = a.Close() }()

			ctx := cmd.Context()
			var createdBy *int64
			if *actorEmail != "" {
				actor, err := a.actor(ctx, *actorEmail)
				if err != nil {
					return err
				}
				createdBy = &actor.ID
			}

			defs, err := course.LoadDefinitions(dir)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			result, err := a.catalog.ImportDefinitions(ctx, defs, createdBy, dryRun, out)
			if err != nil {
				return fmt.Errorf("import courses: %w", err)
			}

			fmt.Fprintln(out, "\nImport Summary:")
			if dryRun {
				fmt.Fprintln(out, "  (dry-run mode — no changes made)")
			}
			fmt.Fprintf(out, "  Courses: %d new, %d skipped (%d days)\n", result.CoursesNew, result.CoursesSkipped, result.DaysNew)
			return nil
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Preview changes without modifying the database")
	cmd.Flags().StringVar(&dir, "dir", "", "directory of course definitions (default courses.definitions_directory)")
	return cmd
}

func newCourseExportCommand() *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "export <course-id>",
		Short: "Render a course's day sheets to PDF",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid course id %q: %w", args[0], err)
			}
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if dir == "" {
				dir = cfg.Courses.ExportDirectory
			}
			a, err := newApp(cfg)
			if err != nil {
				return err
			}
			defer func() { _ = a.Close() }()

			c, err := a.catalog.GetCourse(cmd.Context(), id)
			if err != nil {
				return err
			}
			path, err := course.ExportPDF(*c, dir)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %q to %s\n", c.Name, path)
			return nil
		},
	}
	cmd.Flags().StringVar(&dir, "dir", "", "output directory (default courses.export_directory)")
	return cmd
}

func newCourseStatusCommand(actorEmail *string) *cobra.Command {
	return &cobra.Command{
		Use:   "status <course-id> <draft|active|approved|archived>",
		Short: "Change the status of a whole course (super-admin)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid course id %q: %w", args[0], err)
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
			c, err := a.catalog.SetStatus(ctx, actor, id, course.Status(args[1]))
			if err != nil {
				return err
			}
			color.New(color.FgGreen).Fprintf(cmd.OutOrStdout(), "%q is now %s\n", c.Name, c.Status)
			return nil
		},
	}
}

func newCourseListCommand() *cobra.Command {
	var statuses []string
	var query string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List courses that can be assigned",
		RunE: func(cmd *cobra.Command, args []string) error {
			filter := course.Filter{Query: query}
			for _, s := range statuses {
				status := course.Status(s)
				if !status.Valid() {
					return fmt.Errorf("%q: %w", s, course.ErrInvalidStatus)
				}
				filter.Statuses = append(filter.Statuses, status)
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

			courses, err := a.catalog.ListEligibleCourses(cmd.Context(), filter)
			if err != nil {
				return err
			}
			printCourses(cmd.OutOrStdout(), courses)
			return nil
		},
	}
	cmd.Flags().StringSliceVar(&statuses, "status", nil, "statuses to list (default active,approved)")
	cmd.Flags().StringVarP(&query, "query", "q", "", "substring of the course name or category")
	return cmd
}

func printCourses(w io.Writer, courses []course.Course) {
	if len(courses) == 0 {
		fmt.Fprintln(w, "No courses found.")
		return
	}
	for _, c := range courses {
		fmt.Fprintf(w, "%5d  %-30s  %-9s  %-8s  %d days", c.ID, c.Name, c.Status, c.Visibility, len(c.Days))
		if tags := strings.TrimSpace(c.Category + " " + c.Language); tags != "" {
			fmt.Fprintf(w, "  (%s)", tags)
		}
		fmt.Fprintln(w)
	}
}
