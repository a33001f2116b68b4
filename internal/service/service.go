package service

import (
	"context"
	"fmt"

	"laximo/catalog/internal/cache"
	"laximo/catalog/internal/client"
	"laximo/catalog/internal/domain"
	"laximo/catalog/internal/protocol"

	log "github.com/sirupsen/logrus"
)

const defaultMaxWorkers = 5

// Service runs the multi-call workflows on top of the catalog clients. It
// keeps no per-vehicle state: ssd is passed in on every call.
type Service struct {
	oem         client.OEMClient
	aftermarket client.AftermarketClient
	catalogInfo cache.CatalogInfoCache
	maxWorkers  int
}

// NewService builds a Service. catalogInfo may be nil to disable caching.
func NewService(
	oem client.OEMClient,
	aftermarket client.AftermarketClient,
	catalogInfo cache.CatalogInfoCache,
	maxWorkers int,
) *Service {
	if maxWorkers <= 0 {
		maxWorkers = defaultMaxWorkers
	}
	return &Service{
		oem:         oem,
		aftermarket: aftermarket,
		catalogInfo: catalogInfo,
		maxWorkers:  maxWorkers,
	}
}

func (s *Service) ListCatalogs(ctx context.Context) ([]domain.CatalogInfo, error) {
	return s.oem.ListCatalogs(ctx)
}

// GetCatalogInfo reads through the catalog metadata cache when one is
// configured. Cache failures are logged and never fail the call.
func (s *Service) GetCatalogInfo(ctx context.Context, catalog string) (*domain.CatalogInfo, error) {
	if s.catalogInfo != nil {
		info, err := s.catalogInfo.Get(ctx, catalog)
		if err != nil {
			log.Warnf("⚠️ Catalog info cache read failed for %s: %v", catalog, err)
		} else if info != nil {
			log.Debugf("Catalog info for %s served from cache", catalog)
			return info, nil
		}
	}

	info, err := s.oem.GetCatalogInfo(ctx, catalog)
	if err != nil {
		return nil, err
	}

	if s.catalogInfo != nil && info != nil {
		if err := s.catalogInfo.Set(ctx, info); err != nil {
			log.Warnf("⚠️ Catalog info cache write failed for %s: %v", catalog, err)
		}
	}
	return info, nil
}

func (s *Service) GetVehicleInfo(ctx context.Context, catalog, vehicleID, ssd string) (*domain.Vehicle, error) {
	return s.oem.GetVehicleInfo(ctx, catalog, vehicleID, ssd)
}

func (s *Service) ListQuickGroupDetails(ctx context.Context, catalog, vehicleID, quickGroupID, ssd string) (*domain.QuickGroupDetails, error) {
	return s.oem.ListQuickGroupDetails(ctx, catalog, vehicleID, quickGroupID, ssd)
}

func (s *Service) FindByOEM(ctx context.Context, catalog, vehicleID, oem, ssd string) (*domain.OEMSearchResult, error) {
	return s.oem.FindByOEM(ctx, catalog, vehicleID, oem, ssd)
}

// FindCrossReferences looks a part number up in the aftermarket service.
func (s *Service) FindCrossReferences(ctx context.Context, oem, brand string, replacementTypes []string) (*domain.CrossReferenceResult, error) {
	return s.aftermarket.FindOEM(ctx, oem, brand, replacementTypes)
}

// isFatal reports errors that end a fallback chain: retrying another path
// with the same credentials or arguments cannot succeed.
func isFatal(err error) bool {
	return protocol.IsAccessDenied(err) || protocol.IsProtocolMismatch(err) || protocol.IsConfiguration(err)
}

func wrapStep(step string, err error) error {
	return fmt.Errorf("failed to %s: %w", step, err)
}
