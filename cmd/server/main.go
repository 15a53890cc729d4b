package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/soaringjerry/fitpages/internal/api"
	"github.com/soaringjerry/fitpages/internal/config"
	"github.com/soaringjerry/fitpages/internal/middleware"
	"github.com/soaringjerry/fitpages/internal/services"
	"github.com/soaringjerry/fitpages/internal/utils"
)

var (
	commit    = utils.SafeEnv("FITPAGES_COMMIT", "dev")
	buildTime = utils.SafeEnv("FITPAGES_BUILD_TIME", "")
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configFile string
	root := &cobra.Command{
		Use:          "fitpages",
		Short:        "Quote, exercise and nutrition pages backed by public APIs",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), configFile, "")
		},
	}
	root.PersistentFlags().StringVar(&configFile, "config", "", "config file (default ./fitpages.yaml if present)")
	root.AddCommand(newServeCmd(&configFile), newTranslateCmd(&configFile), newVersionCmd())
	return root
}

func newServeCmd(configFile *string) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the web server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), *configFile, addr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address, overrides FITPAGES_ADDR")
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "fitpages %s %s\n", commit, buildTime)
		},
	}
}

// components are the services built from one Config.
type components struct {
	batch     *services.BatchTranslator
	quotes    *services.QuoteService
	exercises *services.ExerciseService
	nutrition *services.NutritionService
}

func buildComponents(cfg *config.Config, client services.HTTPClient) components {
	translator := services.NewTranslator(services.TranslatorConfig{
		Provider: cfg.Translation.Provider,
		Endpoint: cfg.Translation.Endpoint,
		Timeout:  cfg.Translation.Timeout,
	}, client)
	if !translator.Available() {
		log.Printf("translation disabled (provider=%q); pages will show English text", cfg.Translation.Provider)
	}
	batch := services.NewBatchTranslator(translator, cfg.Translation.SourceLang, cfg.Translation.TargetLang)
	return components{
		batch:  batch,
		quotes: services.NewQuoteService(client, batch, cfg.Quotes.URL, cfg.Quotes.Timeout),
		exercises: services.NewExerciseService(client, batch, services.ExerciseConfig{
			BaseURL: cfg.Exercises.BaseURL,
			Host:    cfg.Exercises.Host,
			APIKey:  cfg.Exercises.APIKey,
			Limit:   cfg.Exercises.Limit,
			Timeout: cfg.Exercises.Timeout,
		}),
		nutrition: services.NewNutritionService(client, services.NutritionConfig{
			BaseURL: cfg.Nutrition.BaseURL,
			AppID:   cfg.Nutrition.AppID,
			AppKey:  cfg.Nutrition.AppKey,
			Timeout: cfg.Nutrition.Timeout,
		}),
	}
}

func runServe(ctx context.Context, configFile, addrOverride string) error {
	cfg, err := config.Load(configFile)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if addrOverride != "" {
		cfg.Addr = addrOverride
	}
	forms, err := middleware.NewFormTokens(cfg.FormSecret, 2*time.Hour)
	if err != nil {
		return err
	}
	if cfg.FormSecret == "" {
		log.Printf("FITPAGES_FORM_SECRET not set; using a per-process form key")
	}

	c := buildComponents(cfg, &http.Client{})
	router, err := api.NewRouter(api.Deps{
		Quotes:     c.quotes,
		Exercises:  c.exercises,
		Nutrition:  c.nutrition,
		Forms:      forms,
		SourceLang: cfg.Translation.SourceLang,
		Commit:     commit,
		BuildTime:  buildTime,
	})
	if err != nil {
		return fmt.Errorf("router: %w", err)
	}

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           router.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      45 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Printf("fitpages listening on %s", cfg.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}
	log.Printf("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
