package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/syssam/gqlbind/binder"
	"github.com/syssam/gqlbind/config"
	"github.com/syssam/gqlbind/gen"
	"github.com/syssam/gqlbind/scalar"
	"github.com/syssam/gqlbind/watch"
)

func newWatchCmd() *cobra.Command {
	var (
		regen       bool
		debounce    time.Duration
		metricsAddr string
	)
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Rebind the models whenever the project or schema files change",
		Long:  `Watches the project file and the schema files it lists. Every change triggers a new binding pass; a failed pass is logged and the previous models stay in effect.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			log := logger(cmd)
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			f, err := loadProject(cmd)
			if err != nil {
				return err
			}
			reg := prometheus.NewRegistry()
			metrics := binder.NewMetrics(reg)
			build := func() (*binder.Table, error) {
				current, err := config.Load(f.Path())
				if err != nil {
					return nil, err
				}
				return current.Build(scalar.Default, binder.WithLogger(log), binder.WithMetrics(metrics))
			}
			initial, err := build()
			if err != nil {
				return err
			}
			holder := binder.NewHolder(initial, log, metrics)

			patterns := append([]string{f.Path()}, f.SchemaPatterns()...)
			w := watch.New(holder, build, patterns, watch.WithDebounce(debounce), watch.WithLogger(log))
			if regen {
				generate := func(t *binder.Table) {
					g := gen.New(t, f.OutputDir(), gen.WithPackage(f.Output.Package), gen.WithLogger(log))
					if err := g.Generate(ctx); err != nil {
						log.Error("generation failed", slog.Any("error", err))
					}
				}
				generate(initial)
				w.OnChange(generate)
			}

			if metricsAddr != "" {
				srv := &http.Server{
					Addr:              metricsAddr,
					Handler:           promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
					ReadHeaderTimeout: 5 * time.Second,
				}
				go func() {
					if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
						log.Error("metrics server failed", slog.Any("error", err))
					}
				}()
				defer func() {
					shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
					defer cancel()
					_ = srv.Shutdown(shutdownCtx)
				}()
				log.Info("serving metrics", slog.String("addr", metricsAddr))
			}

			log.Info("watching for changes", slog.Int("models", initial.Len()))
			if err := w.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&regen, "gen", false, "Regenerate structs after every successful rebind")
	cmd.Flags().DurationVar(&debounce, "debounce", watch.DefaultDebounce, "Quiet period before rebinding")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address")
	return cmd
}
