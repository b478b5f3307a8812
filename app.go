// file: app.go
package main

import (
	"context"

	"go-facilities-admin/config"
	"go-facilities-admin/controllers"
	"go-facilities-admin/logger"
	"go-facilities-admin/resource"
	"go-facilities-admin/services"
	"go-facilities-admin/websocket"
)

// app holds the long-lived services shared by every handler.
type app struct {
	table  *services.EndpointTable
	stores resource.StoreProvider
	hub    *websocket.Hub
	drafts *services.DraftService
	auth   *controllers.AuthController
}

// newApp wires the backend client, per-operator stores, the update hub and
// the draft service. Background loops stop when ctx is done.
func newApp(ctx context.Context, cfg config.Config) (*app, error) {
	table, err := services.LoadEndpointFile(cfg.EndpointsPath)
	if err != nil {
		return nil, err
	}

	var metrics services.MetricsPublisher = services.NoopMetrics{}
	if cfg.MetricsEnabled {
		pub, err := services.NewCloudWatchPublisher()
		if err != nil {
			logger.Warn.Printf("[newApp] CloudWatch metrics disabled: %v", err)
		} else {
			metrics = pub
		}
	}
	client := services.NewBackendClient(services.ClientOptions{
		Timeout: cfg.RequestTimeout,
		Metrics: metrics,
		Tracing: cfg.TracingEnabled,
	})
	bindings := services.NewBindings(client, table)

	a := &app{table: table, drafts: services.NewDraftService()}
	a.stores = resource.NewStoreProvider(func(s *resource.Store) error {
		if err := bindings.RegisterAll(s); err != nil {
			return err
		}
		a.hub.Attach(s)
		return nil
	})
	a.hub = websocket.NewHub(a.stores, cfg.ApplicationURL)
	a.auth = controllers.NewAuthController(cfg.OperatorCredsPath)

	go a.hub.Run(ctx)
	if cfg.DraftIdleTimeout > 0 {
		services.CleanupIdleDrafts(ctx, a.drafts, cfg.DraftIdleTimeout/2, cfg.DraftIdleTimeout)
	}

	logger.Info.Printf("[newApp] %d backend endpoints bound", len(table.Endpoints))
	return a, nil
}
