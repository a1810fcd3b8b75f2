package main

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/optibudget/backend/internal/advice"
	"github.com/optibudget/backend/internal/config"
	v1 "github.com/optibudget/backend/internal/controllers/v1"
	"github.com/optibudget/backend/internal/jobs"
	"github.com/optibudget/backend/internal/ledger"
	"github.com/optibudget/backend/internal/metrics"
	"github.com/optibudget/backend/internal/models"
	"github.com/optibudget/backend/internal/notifications"
	"github.com/optibudget/backend/internal/payroll"
	"github.com/optibudget/backend/internal/reports"
	"github.com/optibudget/backend/internal/router"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	// gin uses debug as the default mode, we use release for
	// security reasons
	ginMode, ok := os.LookupEnv("GIN_MODE")
	if !ok {
		gin.SetMode("release")
	} else {
		gin.SetMode(ginMode)
	}

	configPath, ok := os.LookupEnv("OPTIBUDGET_CONFIG")
	if !ok {
		configPath = "config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatal().Msg(err.Error())
	}

	// Log format can be explicitly set.
	// If it is not set, it defaults to human readable for development
	// and JSON for release
	output := io.Writer(os.Stdout)
	if (cfg.LogFormat == "" && gin.IsDebugging()) || cfg.LogFormat == "human" {
		output = zerolog.ConsoleWriter{Out: os.Stdout}
	}

	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if gin.IsDebugging() {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = log.Output(output).With().Timestamp().Logger()

	// Create the data directory
	err = os.MkdirAll(filepath.Dir(cfg.Database.Path), os.ModePerm)
	if err != nil {
		log.Fatal().Msg(err.Error())
	}

	// Connect to the database and migrate the schema
	err = models.Connect(cfg.Database.Path)
	if err != nil {
		log.Fatal().Msg(err.Error())
	}

	if err := metrics.Register(); err != nil {
		log.Fatal().Msg(err.Error())
	}
	if err := router.RegisterPrometheusMetrics(); err != nil {
		log.Fatal().Msg(err.Error())
	}

	emitter := notifications.NewEmitter(models.DB)

	provider := advice.Provider(advice.ProviderFunc(
		func(_ context.Context, _ string) (string, error) {
			return advice.FallbackText, nil
		},
	))
	if cfg.Gemini.APIKey != "" {
		gemini, err := advice.NewGeminiProvider(context.Background(), cfg.Gemini.APIKey, cfg.Gemini.Model)
		if err != nil {
			log.Fatal().Msg(err.Error())
		}
		provider = gemini
		log.Info().Str("model", cfg.Gemini.Model).Msg("advice provider configured")
	} else {
		log.Info().Msg("no advice provider configured, using fallback text")
	}

	advisor := advice.NewService(models.DB, provider, cfg.Gemini.Timeout)

	controller := v1.Controller{
		DB:      models.DB,
		Ledger:  ledger.New(models.DB, emitter),
		Payroll: payroll.New(models.DB, emitter),
		Advisor: advisor,
		Reports: reports.New(models.DB),
	}

	if cfg.Jobs.Enabled {
		scheduler := jobs.NewScheduler(
			jobs.New(models.DB, emitter, advisor, cfg.Notifications.Retention),
			cfg.Jobs.Interval,
		)
		scheduler.Start()
		defer scheduler.Stop()
	}

	r, err := router.Config(cfg)
	if err != nil {
		log.Fatal().Msg(err.Error())
	}

	router.AttachRoutes(cfg, controller, r.Group(""))

	if err := r.Run(cfg.Listen); err != nil {
		log.Fatal().Msg(err.Error())
	}
}
