package main

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

const version = "v1.0.0"

func main() {
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})

	rootCmd := &cobra.Command{
		Use:     "epiforecast",
		Short:   "Seasonal forecasting and back-testing for health count series",
		Version: version,
		Long: `epiforecast fits seasonal ARIMA models to historical count series
(disease cases, health-card issuances), produces clamped forecasts with
uncertainty bounds, and back-tests model configurations against held-out
history before they are trusted in production.`,
	}

	rootCmd.PersistentFlags().String("config", "", "YAML config file overriding engine defaults")
	rootCmd.AddCommand(newForecastCmd())
	rootCmd.AddCommand(newBacktestCmd())

	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}
