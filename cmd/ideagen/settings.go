package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/seniordesign-sys/ideagen-backend/internal/ideas/presenter"
	"github.com/seniordesign-sys/ideagen-backend/internal/ideas/repository"
)

func settingsCmd(root *rootOptions) *cobra.Command {
	var in repository.Settings

	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or change the saved API key, model and display preferences",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd.Context(), root)
			if err != nil {
				return err
			}
			defer a.close()

			ctx := cmd.Context()
			flags := cmd.Flags()
			if flags.Changed("api-key") || flags.Changed("model") || flags.Changed("crt") || flags.Changed("scheme") {
				current, err := a.settings.Load(ctx)
				if err != nil {
					return err
				}
				if !flags.Changed("model") {
					in.Model = current.Model
				}
				if err := a.settings.Update(ctx, in); err != nil {
					return err
				}
			}

			s, err := a.settings.Load(ctx)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "API status:   %s\n", presenter.APIStatus(s.APIKey))
			fmt.Fprintf(out, "Model:        %s\n", s.Model)
			fmt.Fprintf(out, "CRT effect:   %s\n", s.CRTEffect)
			fmt.Fprintf(out, "Color scheme: %s\n", s.ColorScheme)
			return nil
		},
	}

	cmd.Flags().StringVar(&in.APIKey, "api-key", "", "New API key")
	cmd.Flags().StringVar(&in.Model, "model", "", "Default model")
	cmd.Flags().StringVar(&in.CRTEffect, "crt", "", "CRT effect: on or off")
	cmd.Flags().StringVar(&in.ColorScheme, "scheme", "", "Color scheme, e.g. green or amber")
	return cmd
}

func statusCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show API status and project count",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd.Context(), root)
			if err != nil {
				return err
			}
			defer a.close()

			s, err := a.settings.Load(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "API:      %s\n", presenter.APIStatus(s.APIKey))
			fmt.Fprintf(out, "Model:    %s\n", s.Model)
			fmt.Fprintf(out, "Projects: %d\n", a.projects.Count())
			fmt.Fprintf(out, "Storage:  %s\n", a.cfg.KV.Backend)
			return nil
		},
	}
}
