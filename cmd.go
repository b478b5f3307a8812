// file: cmd.go
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"go-facilities-admin/config"
	"go-facilities-admin/logger"
	"go-facilities-admin/services"
)

// shutdownGrace bounds how long in-flight requests may finish on shutdown.
const shutdownGrace = 10 * time.Second

// newRootCmd builds the facilities-admin command tree.
func newRootCmd() *cobra.Command {
	var envFile string
	root := &cobra.Command{
		Use:           "facilities-admin",
		Short:         "Facilities admin console: meeting minutes and mail intake",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&envFile, "env-file", ".env", "Optional .env file read before the environment")

	load := func() (config.Config, error) {
		cfg, err := config.Load(envFile)
		if err != nil {
			return cfg, err
		}
		if err := logger.InitLogger(nil, cfg.LogLevel, cfg.LogFormat); err != nil {
			return cfg, fmt.Errorf("initialising logger: %w", err)
		}
		logger.SetLogLevel(cfg.AppEnv)
		return cfg, nil
	}

	root.AddCommand(newServeCmd(load), newEndpointsCmd(load))
	return root
}

// newServeCmd runs the HTTP server until interrupted.
func newServeCmd(load func() (config.Config, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the admin console",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			defer logger.Sync()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			a, err := newApp(ctx, cfg)
			if err != nil {
				return err
			}
			srv := &http.Server{
				Addr:              ":" + cfg.Port,
				Handler:           setupRouter(cfg, a),
				ReadHeaderTimeout: 10 * time.Second,
			}

			errCh := make(chan error, 1)
			go func() {
				logger.L().Infow("listening", "addr", srv.Addr, "env", cfg.AppEnv, "endpoints", len(a.table.All()))
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
				close(errCh)
			}()

			select {
			case err := <-errCh:
				return fmt.Errorf("failed to run server: %w", err)
			case <-ctx.Done():
			}
			logger.Info.Println("[serve] Shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	}
}

// newEndpointsCmd prints the binding table that serve would use.
func newEndpointsCmd(load func() (config.Config, error)) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "endpoints",
		Short: "Print the backend endpoint table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			table, err := services.LoadEndpointFile(cfg.EndpointsPath)
			if err != nil {
				return err
			}
			return printEndpoints(cmd.OutOrStdout(), table, asJSON)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output the table as JSON")
	return cmd
}

func printEndpoints(w io.Writer, table *services.EndpointTable, asJSON bool) error {
	if asJSON {
		data, err := json.MarshalIndent(table.All(), "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tMETHOD\tPATH\tENCODING")
	for _, e := range table.All() {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", e.Name, e.Method, e.Path, e.Encoding)
	}
	return tw.Flush()
}
