package main

import (
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/soaringjerry/fitpages/internal/config"
	"github.com/soaringjerry/fitpages/internal/services"
)

// newTranslateCmd runs its arguments through the batch translator with the
// configured provider, printing the outcome and one line per text.
func newTranslateCmd(configFile *string) *cobra.Command {
	var target string
	cmd := &cobra.Command{
		Use:   "translate TEXT...",
		Short: "Batch-translate texts with the configured provider",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configFile)
			if err != nil {
				return fmt.Errorf("config: %w", err)
			}
			c := buildComponents(cfg, &http.Client{})
			ctx := cmd.Context()
			if target != "" {
				ctx = services.WithTargetLanguage(ctx, target)
			}
			res := c.batch.Batch(ctx, args)
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "outcome: %s\n", res.Outcome)
			if res.Err != nil {
				fmt.Fprintf(out, "reason: %v\n", res.Err)
			}
			for _, t := range res.Texts {
				fmt.Fprintln(out, t)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&target, "to", "", "target language, overrides FITPAGES_TRANSLATE_TARGET_LANG")
	return cmd
}
