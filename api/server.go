// Package api exposes the inventory snapshot and the provisioning flow
// over HTTP.
package api

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"

	"github.com/lyric-engineering/fleetscope/aggregator"
	"github.com/lyric-engineering/fleetscope/provision"
	"github.com/lyric-engineering/fleetscope/storage"
	"github.com/lyric-engineering/fleetscope/telemetry"
	"github.com/lyric-engineering/fleetscope/types"
)

// SnapshotStore is the slice of the storage layer the API needs.
type SnapshotStore interface {
	ReplaceSnapshot(ctx context.Context, clusters []types.ClusterRecord) error
	ListSummaries(ctx context.Context) ([]storage.ClusterSummary, error)
	GetCluster(ctx context.Context, name string) (*storage.ClusterDetail, error)
}

// ClusterCollector runs one full collection cycle.
type ClusterCollector interface {
	CollectAll(ctx context.Context) *aggregator.Result
}

// ClusterProvisioner runs the provisioning flow.
type ClusterProvisioner interface {
	Provision(ctx context.Context, req provision.Request) error
}

// CommittedLister reads committed cluster manifests back out of the
// GitOps repository.
type CommittedLister interface {
	ListCommitted(ctx context.Context) ([]provision.CommittedCluster, error)
}

// Server holds the HTTP handlers and their collaborators.
type Server struct {
	store       SnapshotStore
	collector   ClusterCollector
	provisioner ClusterProvisioner
	lister      CommittedLister
	logger      *telemetry.Logger
}

// NewServer creates the API server.
func NewServer(store SnapshotStore, collector ClusterCollector, provisioner ClusterProvisioner) *Server {
	return &Server{
		store:       store,
		collector:   collector,
		provisioner: provisioner,
		logger:      telemetry.NewLogger("api"),
	}
}

// WithCommittedLister enables the committed-cluster listing endpoint.
func (s *Server) WithCommittedLister(lister CommittedLister) *Server {
	s.lister = lister
	return s
}

// App builds the fiber application with all routes registered.
func (s *Server) App(corsOrigins []string) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName: "FleetScope",
	})

	if len(corsOrigins) > 0 {
		app.Use(cors.New(cors.Config{
			AllowOrigins:     strings.Join(corsOrigins, ","),
			AllowCredentials: true,
		}))
	}

	app.Get("/health", s.Health)

	api := app.Group("/api")
	api.Get("/clusters/sync", s.SyncClusters)
	api.Get("/clusters", s.ListClusters)
	api.Get("/clusters/:name", s.GetCluster)
	api.Post("/provision", s.ProvisionCluster)
	api.Get("/provision", s.ListProvisioned)

	return app
}
