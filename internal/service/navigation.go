package service

import (
	"context"

	"laximo/catalog/internal/client"
	"laximo/catalog/internal/domain"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

type treeLister func(ctx context.Context, catalog, vehicleID, ssd string) ([]*domain.TreeNode, error)

type treeStrategy struct {
	name string
	list treeLister
}

// firstNonEmptyTree tries strategies in order and returns the first
// non-empty tree. Transport failures move on to the next strategy; denials
// and contract violations end the chain. When every strategy errored the last
// error is returned, otherwise nothing found is an empty tree.
func firstNonEmptyTree(ctx context.Context, strategies []treeStrategy, catalog, vehicleID, ssd string) ([]*domain.TreeNode, error) {
	var (
		lastErr  error
		answered bool
	)

	for _, strategy := range strategies {
		nodes, err := strategy.list(ctx, catalog, vehicleID, ssd)
		if err != nil {
			if isFatal(err) {
				return nil, err
			}
			log.Warnf("⚠️ %s failed for %s, trying next listing: %v", strategy.name, catalog, err)
			lastErr = err
			continue
		}
		if len(nodes) > 0 {
			log.Debugf("Tree for %s/%s answered by %s", catalog, vehicleID, strategy.name)
			return nodes, nil
		}
		answered = true
		log.Debugf("%s is empty for %s", strategy.name, catalog)
	}

	if lastErr != nil && !answered {
		return nil, lastErr
	}
	return []*domain.TreeNode{}, nil
}

// ListTree returns the navigation tree of a vehicle from whichever listing
// the catalog supports: quick groups, then units, then categories.
func (s *Service) ListTree(ctx context.Context, catalog, vehicleID, ssd string) ([]*domain.TreeNode, error) {
	strategies := []treeStrategy{
		{name: "ListQuickGroups", list: s.oem.ListQuickGroups},
		{name: "ListUnits", list: func(ctx context.Context, catalog, vehicleID, ssd string) ([]*domain.TreeNode, error) {
			return s.oem.ListUnits(ctx, catalog, vehicleID, ssd, "")
		}},
		{name: "ListCategories", list: s.oem.ListCategories},
	}
	return firstNonEmptyTree(ctx, strategies, catalog, vehicleID, ssd)
}

// ListUnits lists the units of one category.
func (s *Service) ListUnits(ctx context.Context, catalog, vehicleID, ssd, categoryID string) ([]*domain.TreeNode, error) {
	return s.oem.ListUnits(ctx, catalog, vehicleID, ssd, categoryID)
}

// SearchByText runs the query variants in order and returns the first that
// finds details. A vehicle-scoped search that finds nothing is repeated once
// across the whole catalog. nil means no variant matched.
func (s *Service) SearchByText(ctx context.Context, catalog, vehicleID, query, ssd string) (*domain.TextSearchResult, error) {
	if vehicleID == "" {
		vehicleID = client.CatalogWideVehicleID
	}

	variants := QueryVariants(query)

	result, err := s.searchVariants(ctx, catalog, vehicleID, ssd, variants)
	if err != nil || result != nil {
		return result, err
	}

	if vehicleID != client.CatalogWideVehicleID && ssd != "" {
		log.Warnf("⚠️ No details for %q on vehicle %s, searching all of %s", query, vehicleID, catalog)
		result, err = s.searchVariants(ctx, catalog, client.CatalogWideVehicleID, "", variants)
		if result != nil {
			result.CatalogWide = true
		}
	}
	return result, err
}

func (s *Service) searchVariants(ctx context.Context, catalog, vehicleID, ssd string, variants []string) (*domain.TextSearchResult, error) {
	var (
		lastErr  error
		answered bool
	)

	for _, variant := range variants {
		details, err := s.oem.SearchByText(ctx, catalog, vehicleID, variant, ssd)
		if err != nil {
			if isFatal(err) {
				return nil, err
			}
			log.Warnf("⚠️ Text search for %q failed: %v", variant, err)
			lastErr = err
			continue
		}
		answered = true
		if len(details) > 0 {
			log.Debugf("Text search matched %d details with %q", len(details), variant)
			return &domain.TextSearchResult{
				Query:       variant,
				CatalogWide: vehicleID == client.CatalogWideVehicleID,
				Details:     details,
			}, nil
		}
	}

	if lastErr != nil && !answered {
		return nil, lastErr
	}
	return nil, nil
}

// UnitBundle fetches a unit's info, details and image map concurrently.
// Each part is optional: a transport failure leaves it empty. Denials fail
// the whole bundle.
func (s *Service) UnitBundle(ctx context.Context, catalog, unitID, ssd string) (*domain.UnitBundle, error) {
	bundle := &domain.UnitBundle{}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		unit, err := s.oem.GetUnitInfo(gctx, catalog, unitID, ssd)
		bundle.Unit = unit
		return optionalPart("unit info", unitID, err)
	})
	g.Go(func() error {
		details, err := s.oem.GetUnitDetails(gctx, catalog, unitID, ssd)
		bundle.Details = details
		return optionalPart("unit details", unitID, err)
	})
	g.Go(func() error {
		imageMap, err := s.oem.GetUnitImageMap(gctx, catalog, unitID, ssd)
		bundle.ImageMap = imageMap
		return optionalPart("unit image map", unitID, err)
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	if bundle.Unit != nil {
		bundle.Unit.Details = bundle.Details
	}
	return bundle, nil
}

func optionalPart(part, unitID string, err error) error {
	if err == nil {
		return nil
	}
	if isFatal(err) {
		return err
	}
	log.Warnf("⚠️ No %s for unit %s: %v", part, unitID, err)
	return nil
}
