package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"sessiond/internal/claude"
	"sessiond/internal/clidetect"
)

func newModelsCmd() *cobra.Command {
	var apiKey, baseURL string
	cmd := &cobra.Command{
		Use:   "models",
		Short: "List available chat models",
		RunE: func(cmd *cobra.Command, args []string) error {
			models, err := claude.ListModels(cmd.Context(), apiKey, baseURL)
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tNAME\tGROUP")
			for _, m := range models {
				fmt.Fprintf(tw, "%s\t%s\t%s\n", m.ID, m.Name, m.Group)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringVar(&apiKey, "api-key", "", "Override the resolved API key")
	cmd.Flags().StringVar(&baseURL, "base-url", "", "Override the resolved base URL")
	return cmd
}

func newCLICmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cli",
		Short: "Show discovered assistant CLI installations",
		RunE: func(cmd *cobra.Command, args []string) error {
			installs := clidetect.Discover()
			if len(installs) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no CLI found")
				return nil
			}
			for _, in := range installs {
				if in.Version != "" {
					fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s (%s)\n", in.CLIType, in.Path, in.Version)
				} else {
					fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", in.CLIType, in.Path)
				}
			}
			return nil
		},
	}
}
