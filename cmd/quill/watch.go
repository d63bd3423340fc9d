package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/dshills/quill/internal/script"
)

var watchCmd = &cobra.Command{
	Use:   "watch SCRIPT",
	Short: "Rerun a command script whenever it changes",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		ctx := cmd.Context()
		addr := a.cfg.Metrics.Addr
		if cmd.Flags().Changed("metrics-addr") {
			addr, _ = cmd.Flags().GetString("metrics-addr")
		}
		if addr != "" {
			srv := &http.Server{
				Addr:              addr,
				Handler:           metricsHandler(a),
				ReadHeaderTimeout: 5 * time.Second,
			}
			go func() {
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					a.logger.Error("metrics server failed", "addr", addr, "error", err)
				}
			}()
			defer func() {
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				_ = srv.Shutdown(shutdownCtx)
			}()
			a.logger.Info("serving metrics", "addr", addr)
		}

		debounce, _ := cmd.Flags().GetDuration("debounce")
		out := cmd.OutOrStdout()
		err = a.runner().Watch(ctx, args[0], func(report *script.Report, err error) {
			fmt.Fprintf(out, "--- %s\n", time.Now().Format(time.TimeOnly))
			if err != nil {
				fmt.Fprintf(out, "error: %v\n", err)
				return
			}
			_ = report.Write(out)
		}, script.WithDebounce(debounce))

		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	},
}

func metricsHandler(a *app) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(a.prom, promhttp.HandlerOpts{}))
	return mux
}

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().String("metrics-addr", "", "Serve prometheus metrics on this address")
	watchCmd.Flags().Duration("debounce", script.DefaultDebounce, "Delay before rerunning after a change")
}
