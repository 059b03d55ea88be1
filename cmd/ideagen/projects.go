package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/seniordesign-sys/ideagen-backend/internal/ideas/presenter"
)

const exportFileName = "seniordesign-projects.json"

func listCmd(root *rootOptions) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List saved projects, most recent batch first",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd.Context(), root)
			if err != nil {
				return err
			}
			defer a.close()

			out := cmd.OutOrStdout()
			projects := a.projects.List()
			if len(projects) == 0 {
				fmt.Fprintln(out, "No projects yet. Run 'ideagen generate' to create some.")
				return nil
			}

			n := presenter.RecentLimit
			if all {
				n = len(projects)
			}
			for _, item := range presenter.Recent(projects, n) {
				fmt.Fprintf(out, "%-60s %8s  (id %d)\n", item.Label, item.Score, item.ID)
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&all, "all", "a", false, "List every project instead of the most recent five")
	return cmd
}

func showCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show [id]",
		Short: "Show the details and feasibility of a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid project id %q", args[0])
			}

			a, err := openApp(cmd.Context(), root)
			if err != nil {
				return err
			}
			defer a.close()

			p, err := a.projects.Get(id)
			if err != nil {
				return err
			}

			printOverview(cmd.OutOrStdout(), presenter.OverviewFor(p), presenter.FeasibilityFor(p))
			return nil
		},
	}
}

func printOverview(out io.Writer, o presenter.Overview, f presenter.Feasibility) {
	fmt.Fprintf(out, "%s  [%s]\n", o.Title, o.Overall)
	if o.Tagline != "" {
		fmt.Fprintf(out, "%s\n", o.Tagline)
	}
	fmt.Fprintln(out)
	for _, s := range o.Scores {
		fmt.Fprintf(out, "  %-12s %s %s\n", s.Label, s.Bar, s.Value)
	}
	if o.Description != "" {
		fmt.Fprintf(out, "\n%s\n", o.Description)
	}
	if len(o.KeyFeatures) > 0 {
		fmt.Fprintln(out, "\nKey features:")
		for _, k := range o.KeyFeatures {
			fmt.Fprintf(out, "  - %s\n", k)
		}
	}
	fmt.Fprintf(out, "\nCost: %s   Timeline: %s   Complexity: %s\n", o.EstimatedCost, o.Timeline, o.Complexity)
	fmt.Fprintf(out, "Target users: %s\n", o.TargetUsers)

	fmt.Fprintf(out, "\nFeasibility: %s (%s)\n", f.Score, f.Label)
	if len(f.Technologies) > 0 {
		fmt.Fprintf(out, "Technologies: %s\n", strings.Join(f.Technologies, ", "))
	}
	if len(f.Risks) > 0 {
		fmt.Fprintln(out, "Risks:")
		for _, r := range f.Risks {
			fmt.Fprintf(out, "  ! %s\n", r)
		}
	}
}

func exportCmd(root *rootOptions) *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export all projects as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd.Context(), root)
			if err != nil {
				return err
			}
			defer a.close()

			data, err := a.projects.ExportSnapshot()
			if err != nil {
				return err
			}

			if outPath == "-" {
				_, err := cmd.OutOrStdout().Write(append(data, '\n'))
				return err
			}
			if err := os.WriteFile(outPath, data, 0o644); err != nil {
				return fmt.Errorf("write export: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d projects to %s\n", a.projects.Count(), outPath)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outPath, "out", "o", exportFileName, "Output file, or - for stdout")
	return cmd
}

func importCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "import [file]",
		Short: "Replace all projects with an exported JSON file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read import: %w", err)
			}

			a, err := openApp(cmd.Context(), root)
			if err != nil {
				return err
			}
			defer a.close()

			n, err := a.projects.Import(cmd.Context(), data)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d projects\n", n)
			return nil
		},
	}
}

func clearCmd(root *rootOptions) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Erase all projects and settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd.Context(), root)
			if err != nil {
				return err
			}
			defer a.close()

			if err := a.projects.Clear(cmd.Context(), yes); err != nil {
				return fmt.Errorf("%w (pass --yes to confirm)", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "All data cleared.")
			return nil
		},
	}

	cmd.Flags().BoolVar(&yes, "yes", false, "Confirm that all data should be erased")
	return cmd
}
