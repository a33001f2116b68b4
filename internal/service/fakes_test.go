package service

import (
	"context"
	"sync"

	"laximo/catalog/internal/domain"
)

// fakeOEM implements client.OEMClient with per-method hooks. Unset hooks
// answer with an empty result.
type fakeOEM struct {
	mu    sync.Mutex
	calls []string

	findVehicleByVIN       func(catalog, vin string) ([]domain.Vehicle, error)
	findVehicleByPlate     func(catalog, plate string) ([]domain.Vehicle, error)
	findVehicleByWizard    func(catalog, ssd string) ([]domain.Vehicle, error)
	getCatalogInfo         func(catalog string) (*domain.CatalogInfo, error)
	findCatalogsContaining func(oem string) ([]string, error)
	findApplicableVehicles func(catalog, oem string) ([]domain.Vehicle, error)
	listQuickGroups        func() ([]*domain.TreeNode, error)
	listUnits              func() ([]*domain.TreeNode, error)
	listCategories         func() ([]*domain.TreeNode, error)
	searchByText           func(vehicleID, query, ssd string) ([]domain.Detail, error)
	getUnitInfo            func() (*domain.Unit, error)
	getUnitDetails         func() ([]domain.Detail, error)
	getUnitImageMap        func() ([]domain.ImageCoordinate, error)
}

func (f *fakeOEM) record(call string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
}

func (f *fakeOEM) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeOEM) ListCatalogs(ctx context.Context) ([]domain.CatalogInfo, error) {
	f.record("ListCatalogs")
	return []domain.CatalogInfo{}, nil
}

func (f *fakeOEM) GetCatalogInfo(ctx context.Context, catalog string) (*domain.CatalogInfo, error) {
	f.record("GetCatalogInfo:" + catalog)
	if f.getCatalogInfo != nil {
		return f.getCatalogInfo(catalog)
	}
	return nil, nil
}

func (f *fakeOEM) FindVehicleByVIN(ctx context.Context, catalog, vin string) ([]domain.Vehicle, error) {
	f.record("FindVehicleByVIN:" + catalog)
	if f.findVehicleByVIN != nil {
		return f.findVehicleByVIN(catalog, vin)
	}
	return []domain.Vehicle{}, nil
}

func (f *fakeOEM) FindVehicleByFrame(ctx context.Context, catalog, frame, frameNo string) ([]domain.Vehicle, error) {
	f.record("FindVehicleByFrame:" + catalog)
	return []domain.Vehicle{}, nil
}

func (f *fakeOEM) FindVehicleByPlateNumber(ctx context.Context, catalog, plate, countryCode string) ([]domain.Vehicle, error) {
	f.record("FindVehicleByPlateNumber:" + catalog)
	if f.findVehicleByPlate != nil {
		return f.findVehicleByPlate(catalog, plate)
	}
	return []domain.Vehicle{}, nil
}

func (f *fakeOEM) GetWizardSteps(ctx context.Context, catalog, ssd string) ([]domain.WizardStep, error) {
	f.record("GetWizardSteps:" + catalog)
	return []domain.WizardStep{}, nil
}

func (f *fakeOEM) FindVehicleByWizard(ctx context.Context, catalog, ssd string) ([]domain.Vehicle, error) {
	f.record("FindVehicleByWizard:" + catalog)
	if f.findVehicleByWizard != nil {
		return f.findVehicleByWizard(catalog, ssd)
	}
	return []domain.Vehicle{}, nil
}

func (f *fakeOEM) GetVehicleInfo(ctx context.Context, catalog, vehicleID, ssd string) (*domain.Vehicle, error) {
	f.record("GetVehicleInfo:" + catalog)
	return nil, nil
}

func (f *fakeOEM) FindCatalogsContaining(ctx context.Context, oem string) ([]string, error) {
	f.record("FindCatalogsContaining:" + oem)
	if f.findCatalogsContaining != nil {
		return f.findCatalogsContaining(oem)
	}
	return []string{}, nil
}

func (f *fakeOEM) FindApplicableVehicles(ctx context.Context, catalog, oem string) ([]domain.Vehicle, error) {
	f.record("FindApplicableVehicles:" + catalog)
	if f.findApplicableVehicles != nil {
		return f.findApplicableVehicles(catalog, oem)
	}
	return []domain.Vehicle{}, nil
}

func (f *fakeOEM) ListQuickGroups(ctx context.Context, catalog, vehicleID, ssd string) ([]*domain.TreeNode, error) {
	f.record("ListQuickGroups")
	if f.listQuickGroups != nil {
		return f.listQuickGroups()
	}
	return []*domain.TreeNode{}, nil
}

func (f *fakeOEM) ListCategories(ctx context.Context, catalog, vehicleID, ssd string) ([]*domain.TreeNode, error) {
	f.record("ListCategories")
	if f.listCategories != nil {
		return f.listCategories()
	}
	return []*domain.TreeNode{}, nil
}

func (f *fakeOEM) ListUnits(ctx context.Context, catalog, vehicleID, ssd, categoryID string) ([]*domain.TreeNode, error) {
	f.record("ListUnits")
	if f.listUnits != nil {
		return f.listUnits()
	}
	return []*domain.TreeNode{}, nil
}

func (f *fakeOEM) ListQuickGroupDetails(ctx context.Context, catalog, vehicleID, quickGroupID, ssd string) (*domain.QuickGroupDetails, error) {
	f.record("ListQuickGroupDetails")
	return &domain.QuickGroupDetails{}, nil
}

func (f *fakeOEM) FindByOEM(ctx context.Context, catalog, vehicleID, oem, ssd string) (*domain.OEMSearchResult, error) {
	f.record("FindByOEM")
	return &domain.OEMSearchResult{}, nil
}

func (f *fakeOEM) SearchByText(ctx context.Context, catalog, vehicleID, query, ssd string) ([]domain.Detail, error) {
	f.record("SearchByText:" + vehicleID + ":" + query)
	if f.searchByText != nil {
		return f.searchByText(vehicleID, query, ssd)
	}
	return []domain.Detail{}, nil
}

func (f *fakeOEM) GetUnitInfo(ctx context.Context, catalog, unitID, ssd string) (*domain.Unit, error) {
	f.record("GetUnitInfo")
	if f.getUnitInfo != nil {
		return f.getUnitInfo()
	}
	return nil, nil
}

func (f *fakeOEM) GetUnitDetails(ctx context.Context, catalog, unitID, ssd string) ([]domain.Detail, error) {
	f.record("GetUnitDetails")
	if f.getUnitDetails != nil {
		return f.getUnitDetails()
	}
	return []domain.Detail{}, nil
}

func (f *fakeOEM) GetUnitImageMap(ctx context.Context, catalog, unitID, ssd string) ([]domain.ImageCoordinate, error) {
	f.record("GetUnitImageMap")
	if f.getUnitImageMap != nil {
		return f.getUnitImageMap()
	}
	return []domain.ImageCoordinate{}, nil
}

type fakeAftermarket struct {
	result *domain.CrossReferenceResult
}

func (f *fakeAftermarket) FindOEM(ctx context.Context, oem, brand string, replacementTypes []string) (*domain.CrossReferenceResult, error) {
	return f.result, nil
}

// memoryCache is an in-process CatalogInfoCache.
type memoryCache struct {
	mu    sync.Mutex
	infos map[string]domain.CatalogInfo
}

func (c *memoryCache) Get(ctx context.Context, catalog string) (*domain.CatalogInfo, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	info, ok := c.infos[catalog]
	if !ok {
		return nil, nil
	}
	return &info, nil
}

func (c *memoryCache) Set(ctx context.Context, info *domain.CatalogInfo) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.infos == nil {
		c.infos = make(map[string]domain.CatalogInfo)
	}
	c.infos[info.Code] = *info
	return nil
}
