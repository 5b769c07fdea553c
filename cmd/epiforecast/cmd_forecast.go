package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/epiwatch/epiforecast/engine"
	"github.com/epiwatch/epiforecast/sarima"
	"github.com/epiwatch/epiforecast/timeseries"
)

func newForecastCmd() *cobra.Command {
	var (
		input       string
		granularity string
		horizon     int
		orderSpec   string
	)

	cmd := &cobra.Command{
		Use:   "forecast",
		Short: "Forecast future counts from a date,count CSV",
		Long: `Reads a date,count CSV (rows from multiple sources are merged by date),
fits a seasonal ARIMA model, and writes the forecast as JSON to stdout.
Explosion clamping and near-constant detection are applied; advisories
appear in the output rather than failing the run.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadEngineConfig(cmd)
			if err != nil {
				return err
			}

			g := timeseries.Granularity(granularity)
			series, err := timeseries.LoadCSV(input, g, 0)
			if err != nil {
				return err
			}

			req := engine.Request{
				Pairs:       seriesPairs(series),
				Granularity: g,
				Horizon:     horizon,
			}
			if orderSpec != "" {
				order, err := parseOrder(orderSpec)
				if err != nil {
					return err
				}
				req.Order = &order
			}

			eng := engine.New(cfg, log.Logger)
			resp, err := eng.Forecast(req)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(resp)
		},
	}

	cmd.Flags().StringVar(&input, "input", "", "date,count CSV file (required)")
	cmd.Flags().StringVar(&granularity, "granularity", string(timeseries.Monthly), "daily or monthly")
	cmd.Flags().IntVar(&horizon, "horizon", 6, "number of intervals to forecast")
	cmd.Flags().StringVar(&orderSpec, "order", "", "model order p,d,q[,P,D,Q,s] (default per granularity)")
	_ = cmd.MarkFlagRequired("input")

	return cmd
}

func loadEngineConfig(cmd *cobra.Command) (engine.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		return engine.DefaultConfig(), nil
	}
	return engine.LoadConfig(path)
}

func seriesPairs(s *timeseries.Series) []timeseries.Pair {
	pairs := make([]timeseries.Pair, s.Len())
	for i, p := range s.Points() {
		pairs[i] = timeseries.Pair{Date: p.Timestamp, Count: p.Count}
	}
	return pairs
}

// parseOrder parses "p,d,q" or "p,d,q,P,D,Q,s".
func parseOrder(spec string) (sarima.Order, error) {
	parts := strings.Split(spec, ",")
	if len(parts) != 3 && len(parts) != 7 {
		return sarima.Order{}, fmt.Errorf("order %q: want p,d,q or p,d,q,P,D,Q,s", spec)
	}
	nums := make([]int, len(parts))
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return sarima.Order{}, fmt.Errorf("order %q: %w", spec, err)
		}
		nums[i] = n
	}
	order := sarima.Order{P: nums[0], D: nums[1], Q: nums[2], S: 1}
	if len(nums) == 7 {
		order.SP, order.SD, order.SQ, order.S = nums[3], nums[4], nums[5], nums[6]
	}
	return order, nil
}
