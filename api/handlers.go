package api

import (
	"github.com/gofiber/fiber/v2"

	"github.com/lyric-engineering/fleetscope/provision"
	"github.com/lyric-engineering/fleetscope/storage"
)

// Health reports service liveness.
func (s *Server) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "healthy"})
}

// SyncClusters runs a full collection cycle, replaces the stored snapshot
// and returns the fresh cluster list. Partial provider failures degrade to
// fewer clusters, never to an error response.
func (s *Server) SyncClusters(c *fiber.Ctx) error {
	ctx := c.UserContext()

	result := s.collector.CollectAll(ctx)

	if err := s.store.ReplaceSnapshot(ctx, result.Clusters); err != nil {
		// The caller still gets the collected data.
		s.logger.WithContext(ctx).Error().Err(err).Msg("failed to persist snapshot")
	}

	return c.JSON(result.Snapshot())
}

// ListClusters returns the summary view of the stored snapshot.
func (s *Server) ListClusters(c *fiber.Ctx) error {
	ctx := c.UserContext()

	summaries, err := s.store.ListSummaries(ctx)
	if err != nil {
		s.logger.WithContext(ctx).Error().Err(err).Msg("failed to list clusters")
		summaries = []storage.ClusterSummary{}
	}

	return c.JSON(fiber.Map{"clusters": summaries})
}

// GetCluster returns the detail view of one cluster, or a null cluster when
// it is not in the snapshot.
func (s *Server) GetCluster(c *fiber.Ctx) error {
	ctx := c.UserContext()
	name := c.Params("name")

	detail, err := s.store.GetCluster(ctx, name)
	if err != nil {
		s.logger.WithContext(ctx).Error().Err(err).Str("cluster", name).Msg("failed to fetch cluster")
		detail = nil
	}

	return c.JSON(fiber.Map{"cluster": detail})
}

// ProvisionCluster runs the provisioning flow for the posted request.
func (s *Server) ProvisionCluster(c *fiber.Ctx) error {
	if s.provisioner == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "provisioning is not configured"})
	}

	var req provision.Request
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	ctx := c.UserContext()
	if err := s.provisioner.Provision(ctx, req); err != nil {
		s.logger.WithContext(ctx).Error().Err(err).Str("cluster", req.ClusterName).Msg("provisioning failed")
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{"message": "Cluster provisioned successfully"})
}

// ListProvisioned returns the clusters whose manifests are committed to the
// GitOps repository.
func (s *Server) ListProvisioned(c *fiber.Ctx) error {
	if s.lister == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "provisioning is not configured"})
	}

	ctx := c.UserContext()

	clusters, err := s.lister.ListCommitted(ctx)
	if err != nil {
		s.logger.WithContext(ctx).Error().Err(err).Msg("failed to list committed clusters")
		clusters = []provision.CommittedCluster{}
	}
	if clusters == nil {
		clusters = []provision.CommittedCluster{}
	}

	return c.JSON(fiber.Map{"clusters": clusters})
}
