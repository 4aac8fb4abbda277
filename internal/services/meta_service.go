package services

import (
	"context"
	"fmt"

	"erd_visualizer/internal/models"
	"erd_visualizer/internal/warehouse"
)

// MetaService serves the endpoints that do not touch catalog metadata.
type MetaService struct {
	version string
}

func NewMetaService(version string) *MetaService {
	return &MetaService{version: version}
}

func (s *MetaService) Version() models.Version {
	return models.Version{Version: s.version}
}

// CurrentUser returns the identity behind the client's credential.
func (s *MetaService) CurrentUser(ctx context.Context, client warehouse.Client) (*models.User, error) {
	user, err := client.CurrentUser(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get current user: %w", err)
	}
	return user, nil
}
