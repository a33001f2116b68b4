package service

import (
	"context"

	"laximo/catalog/internal/domain"

	"github.com/alitto/pond"
	log "github.com/sirupsen/logrus"
)

type vehicleFinder func(ctx context.Context, catalog string) ([]domain.Vehicle, error)

// withGlobalFallback runs find scoped to catalog and, when that finds
// nothing, once more with the catalog omitted. Errors are never retried.
func withGlobalFallback(ctx context.Context, operation, catalog string, find vehicleFinder) ([]domain.Vehicle, error) {
	vehicles, err := find(ctx, catalog)
	if err != nil {
		return nil, err
	}
	if len(vehicles) > 0 || catalog == "" {
		return vehicles, nil
	}

	log.Warnf("⚠️ %s found nothing in %s, retrying across all catalogs", operation, catalog)
	return find(ctx, "")
}

func (s *Service) SearchByVIN(ctx context.Context, catalog, vin string) ([]domain.Vehicle, error) {
	return withGlobalFallback(ctx, "VIN search", catalog, func(ctx context.Context, catalog string) ([]domain.Vehicle, error) {
		return s.oem.FindVehicleByVIN(ctx, catalog, vin)
	})
}

func (s *Service) SearchByFrame(ctx context.Context, catalog, frame, frameNo string) ([]domain.Vehicle, error) {
	return withGlobalFallback(ctx, "Frame search", catalog, func(ctx context.Context, catalog string) ([]domain.Vehicle, error) {
		return s.oem.FindVehicleByFrame(ctx, catalog, frame, frameNo)
	})
}

func (s *Service) SearchByPlate(ctx context.Context, catalog, plate, countryCode string) ([]domain.Vehicle, error) {
	return withGlobalFallback(ctx, "Plate search", catalog, func(ctx context.Context, catalog string) ([]domain.Vehicle, error) {
		return s.oem.FindVehicleByPlateNumber(ctx, catalog, plate, countryCode)
	})
}

// GetWizardSteps returns the next wizard decision steps for ssd. An empty
// ssd starts the wizard.
func (s *Service) GetWizardSteps(ctx context.Context, catalog, ssd string) ([]domain.WizardStep, error) {
	return s.oem.GetWizardSteps(ctx, catalog, ssd)
}

// FindVehicleByWizard resolves the vehicles for a wizard ssd. Vehicles the
// upstream returns without their own ssd carry the input one.
func (s *Service) FindVehicleByWizard(ctx context.Context, catalog, ssd string) ([]domain.Vehicle, error) {
	vehicles, err := s.oem.FindVehicleByWizard(ctx, catalog, ssd)
	if err != nil {
		return nil, err
	}
	for i := range vehicles {
		if vehicles[i].SSD == "" {
			vehicles[i].SSD = ssd
		}
	}
	return vehicles, nil
}

// FindVehiclesByPartNumber finds every catalog referencing oem, then the
// applicable vehicles in each of them. A failing catalog is logged and left
// out; the breakdown keeps the order of the catalog lookup.
func (s *Service) FindVehiclesByPartNumber(ctx context.Context, oem string) (*domain.PartVehicleSearch, error) {
	catalogs, err := s.oem.FindCatalogsContaining(ctx, oem)
	if err != nil {
		return nil, wrapStep("find catalogs containing "+oem, err)
	}

	result := &domain.PartVehicleSearch{
		OEM:      oem,
		Catalogs: []domain.PartVehicles{},
	}
	if len(catalogs) == 0 {
		return result, nil
	}

	breakdown := make([]*domain.PartVehicles, len(catalogs))
	pool := pond.New(min(s.maxWorkers, len(catalogs)), len(catalogs))
	for i, catalog := range catalogs {
		pool.Submit(func() {
			breakdown[i] = s.partVehiclesIn(ctx, catalog, oem)
		})
	}
	pool.StopAndWait()

	if err := ctx.Err(); err != nil {
		return nil, wrapStep("find vehicles for part "+oem, err)
	}

	for _, pv := range breakdown {
		if pv == nil {
			continue
		}
		result.Catalogs = append(result.Catalogs, *pv)
		result.TotalVehicles += len(pv.Vehicles)
	}

	log.Infof("✅ Part %s applies to %d vehicles in %d of %d catalogs",
		oem, result.TotalVehicles, len(result.Catalogs), len(catalogs))
	return result, nil
}

func (s *Service) partVehiclesIn(ctx context.Context, catalog, oem string) *domain.PartVehicles {
	vehicles, err := s.oem.FindApplicableVehicles(ctx, catalog, oem)
	if err != nil {
		log.Warnf("⚠️ Skipping catalog %s for part %s: %v", catalog, oem, err)
		return nil
	}
	if len(vehicles) == 0 {
		return nil
	}

	pv := &domain.PartVehicles{
		Catalog:  catalog,
		Vehicles: vehicles,
	}

	info, err := s.GetCatalogInfo(ctx, catalog)
	if err != nil {
		log.Warnf("⚠️ No catalog info for %s: %v", catalog, err)
	}
	if info != nil {
		pv.Brand = info.Brand
		pv.Name = info.Name
	}
	return pv
}
