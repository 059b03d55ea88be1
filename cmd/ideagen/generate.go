package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/seniordesign-sys/ideagen-backend/internal/ideas/domain"
	"github.com/seniordesign-sys/ideagen-backend/internal/ideas/presenter"
	"github.com/seniordesign-sys/ideagen-backend/internal/ideas/service"
)

type generateOptions struct {
	file         string
	apiKey       string
	model        string
	teamSize     int
	semesters    int
	budget       string
	complexity   string
	hwRatio      int
	problem      string
	technologies []string
}

func generateCmd(root *rootOptions) *cobra.Command {
	opts := &generateOptions{}

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate five project ideas from your team's constraints",
		Long: `Generate five senior design project ideas.

Constraints come from flags or from a YAML file (--file) with the keys
team_size, duration_semesters, budget, complexity, hw_sw_ratio,
problem_statement and technologies. Flags given explicitly override the file.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, root, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.file, "file", "f", "", "YAML file with constraints")
	cmd.Flags().StringVar(&opts.apiKey, "api-key", "", "Anthropic API key (default: saved key or ANTHROPIC_API_KEY)")
	cmd.Flags().StringVar(&opts.model, "model", "", "Model to use (default: saved model)")
	cmd.Flags().IntVar(&opts.teamSize, "team-size", 4, "Team size")
	cmd.Flags().IntVar(&opts.semesters, "semesters", 2, "Project duration in semesters")
	cmd.Flags().StringVar(&opts.budget, "budget", string(domain.BudgetMedium), "Budget: low, medium, high, unlimited")
	cmd.Flags().StringVar(&opts.complexity, "complexity", string(domain.ComplexityIntermediate), "Complexity: beginner, intermediate, advanced")
	cmd.Flags().IntVar(&opts.hwRatio, "hw-ratio", 50, "Hardware share in percent (0-100)")
	cmd.Flags().StringVar(&opts.problem, "problem", "", "Problem statement to focus on")
	cmd.Flags().StringSliceVarP(&opts.technologies, "tech", "t", nil, "Preferred technologies (repeatable)")

	return cmd
}

func runGenerate(cmd *cobra.Command, root *rootOptions, opts *generateOptions) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	constraints, err := loadConstraints(cmd, opts)
	if err != nil {
		return err
	}

	a, err := openApp(ctx, root)
	if err != nil {
		return err
	}
	defer a.close()

	out := cmd.OutOrStdout()
	errOut := cmd.ErrOrStderr()

	w := service.NewWizard(ctx, newModelClient(a.cfg), a.settings, a.projects, service.Config{
		DefaultModel:     a.cfg.Model.DefaultModel,
		MaxTokens:        a.cfg.Model.MaxTokens,
		Timeout:          a.cfg.Model.Timeout,
		ProgressInterval: a.cfg.Wizard.ProgressInterval,
	}, service.WithProgressListener(func(s service.Stage) {
		fmt.Fprintf(errOut, "%s %s\n", presenter.ProgressBar(s.Percent), s.Text)
	}))

	credential, model, err := resolveCredential(ctx, a, opts)
	if err != nil {
		return err
	}
	if err := w.SubmitCredentials(ctx, credential, model); err != nil {
		return err
	}

	seen := make(map[string]bool, len(constraints.Technologies))
	for _, tech := range constraints.Technologies {
		tech = strings.TrimSpace(tech)
		if tech == "" || seen[tech] {
			continue
		}
		seen[tech] = true
		if _, err := w.ToggleTechnology(tech); err != nil {
			return err
		}
	}
	constraints.Technologies = nil

	if err := w.Generate(ctx, constraints); err != nil {
		return err
	}
	if err := w.Wait(ctx); err != nil {
		w.Cancel()
		return fmt.Errorf("generation interrupted: %w", err)
	}

	st := w.State()
	if st.Err != nil {
		return fmt.Errorf("generation failed: %w", st.Err)
	}
	if st.Fallback {
		fmt.Fprintln(errOut, "warning: the model reply could not be parsed; showing a sample idea instead")
	}

	printCards(out, st.Projects)
	return nil
}

func loadConstraints(cmd *cobra.Command, opts *generateOptions) (domain.ConstraintSet, error) {
	cs := domain.ConstraintSet{}
	if opts.file != "" {
		data, err := os.ReadFile(opts.file)
		if err != nil {
			return cs, fmt.Errorf("read constraints: %w", err)
		}
		if err := yaml.Unmarshal(data, &cs); err != nil {
			return cs, fmt.Errorf("parse constraints: %w", err)
		}
	}

	flags := cmd.Flags()
	override := func(name string) bool { return opts.file == "" || flags.Changed(name) }

	if override("team-size") {
		cs.TeamSize = opts.teamSize
	}
	if override("semesters") {
		cs.DurationSemesters = opts.semesters
	}
	if override("budget") {
		cs.Budget = domain.BudgetTier(strings.ToLower(opts.budget))
	}
	if override("complexity") {
		cs.Complexity = domain.ComplexityTier(strings.ToLower(opts.complexity))
	}
	if override("hw-ratio") {
		cs.HwSwRatio = opts.hwRatio
	}
	if override("problem") {
		cs.ProblemStatement = opts.problem
	}
	if override("tech") {
		cs.Technologies = opts.technologies
	}
	return cs, nil
}

func resolveCredential(ctx context.Context, a *app, opts *generateOptions) (string, string, error) {
	saved, err := a.settings.Load(ctx)
	if err != nil {
		return "", "", err
	}

	credential := opts.apiKey
	if credential == "" {
		credential = saved.APIKey
	}
	if credential == "" {
		credential = os.Getenv("ANTHROPIC_API_KEY")
	}
	if credential == "" {
		return "", "", domain.ErrNoCredential
	}

	model := opts.model
	if model == "" {
		model = saved.Model
	}
	return credential, model, nil
}

func printCards(out io.Writer, projects []domain.Project) {
	for i, p := range projects {
		c := presenter.CardFor(i, p)
		fmt.Fprintf(out, "\n#%d  %s  [%s]  (id %d)\n", c.Rank, c.Title, c.Score, c.ID)
		if c.Tagline != "" {
			fmt.Fprintf(out, "    %s\n", c.Tagline)
		}
		if len(c.Technologies) > 0 {
			fmt.Fprintf(out, "    Tech: %s\n", strings.Join(c.Technologies, ", "))
		}
		fmt.Fprintf(out, "    Cost: %s   Timeline: %s\n", c.EstimatedCost, c.Timeline)
	}
}
