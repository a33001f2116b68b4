package client

import (
	"context"
	"fmt"
	"strings"

	"laximo/catalog/internal/domain"
	"laximo/catalog/internal/protocol"

	log "github.com/sirupsen/logrus"
)

const (
	DefaultLocale = "ru_RU"
	// CatalogWideVehicleID scopes a text search to the whole catalog.
	CatalogWideVehicleID = "0"
)

// OEMClient exposes one method per command of the primary catalog service.
// Methods return empty results, not errors, when the upstream has nothing to say.
type OEMClient interface {
	ListCatalogs(ctx context.Context) ([]domain.CatalogInfo, error)
	GetCatalogInfo(ctx context.Context, catalog string) (*domain.CatalogInfo, error)

	FindVehicleByVIN(ctx context.Context, catalog, vin string) ([]domain.Vehicle, error)
	FindVehicleByFrame(ctx context.Context, catalog, frame, frameNo string) ([]domain.Vehicle, error)
	FindVehicleByPlateNumber(ctx context.Context, catalog, plate, countryCode string) ([]domain.Vehicle, error)
	GetWizardSteps(ctx context.Context, catalog, ssd string) ([]domain.WizardStep, error)
	FindVehicleByWizard(ctx context.Context, catalog, ssd string) ([]domain.Vehicle, error)
	GetVehicleInfo(ctx context.Context, catalog, vehicleID, ssd string) (*domain.Vehicle, error)
	FindCatalogsContaining(ctx context.Context, oem string) ([]string, error)
	FindApplicableVehicles(ctx context.Context, catalog, oem string) ([]domain.Vehicle, error)

	ListQuickGroups(ctx context.Context, catalog, vehicleID, ssd string) ([]*domain.TreeNode, error)
	ListCategories(ctx context.Context, catalog, vehicleID, ssd string) ([]*domain.TreeNode, error)
	ListUnits(ctx context.Context, catalog, vehicleID, ssd, categoryID string) ([]*domain.TreeNode, error)
	ListQuickGroupDetails(ctx context.Context, catalog, vehicleID, quickGroupID, ssd string) (*domain.QuickGroupDetails, error)
	FindByOEM(ctx context.Context, catalog, vehicleID, oem, ssd string) (*domain.OEMSearchResult, error)
	SearchByText(ctx context.Context, catalog, vehicleID, query, ssd string) ([]domain.Detail, error)

	GetUnitInfo(ctx context.Context, catalog, unitID, ssd string) (*domain.Unit, error)
	GetUnitDetails(ctx context.Context, catalog, unitID, ssd string) ([]domain.Detail, error)
	GetUnitImageMap(ctx context.Context, catalog, unitID, ssd string) ([]domain.ImageCoordinate, error)
}

type oemClient struct {
	querier protocol.Querier
	locale  string
}

func NewOEMClient(querier protocol.Querier, locale string) OEMClient {
	if locale == "" {
		locale = DefaultLocale
	}
	return &oemClient{
		querier: querier,
		locale:  locale,
	}
}

func (c *oemClient) command(verb string) protocol.Command {
	return protocol.NewCommand(verb).With("Locale", c.locale)
}

// query runs cmd and returns the content of the section named after its verb.
// A missing payload or section is a soft-empty result.
func (c *oemClient) query(ctx context.Context, cmd protocol.Command) (string, error) {
	payload, ok, err := c.querier.Query(ctx, cmd)
	if err != nil {
		return "", fmt.Errorf("failed to execute %s: %w", cmd.Verb(), err)
	}
	if !ok {
		log.Debugf("%s returned no payload", cmd.Verb())
		return "", nil
	}
	return sectionOrPayload(payload, cmd.Verb()), nil
}

func requireSSD(operation, ssd string) error {
	if strings.TrimSpace(ssd) == "" {
		return &protocol.ProtocolMismatchError{Operation: operation, Parameter: "ssd"}
	}
	return nil
}

func (c *oemClient) ListCatalogs(ctx context.Context) ([]domain.CatalogInfo, error) {
	section, err := c.query(ctx, c.command("ListCatalogs"))
	if err != nil {
		return nil, err
	}

	catalogs := parseCatalogList(section)
	log.Debugf("Listed %d catalogs", len(catalogs))
	return catalogs, nil
}

func (c *oemClient) GetCatalogInfo(ctx context.Context, catalog string) (*domain.CatalogInfo, error) {
	section, err := c.query(ctx, c.command("GetCatalogInfo").With("Catalog", catalog))
	if err != nil {
		return nil, err
	}
	return parseCatalogInfo(section), nil
}

func (c *oemClient) FindVehicleByVIN(ctx context.Context, catalog, vin string) ([]domain.Vehicle, error) {
	cmd := c.command("FindVehicleByVIN").
		WithOptional("Catalog", catalog).
		With("VIN", freeText(strings.ToUpper(strings.TrimSpace(vin)))).
		With("Localized", "true")
	return c.vehicles(ctx, cmd, catalog)
}

func (c *oemClient) FindVehicleByFrame(ctx context.Context, catalog, frame, frameNo string) ([]domain.Vehicle, error) {
	cmd := c.command("FindVehicleByFrame").
		WithOptional("Catalog", catalog).
		With("Frame", freeText(strings.TrimSpace(frame))).
		With("FrameNo", freeText(strings.TrimSpace(frameNo))).
		With("Localized", "true")
	return c.vehicles(ctx, cmd, catalog)
}

func (c *oemClient) FindVehicleByPlateNumber(ctx context.Context, catalog, plate, countryCode string) ([]domain.Vehicle, error) {
	if countryCode == "" {
		countryCode = "ru"
	}
	cmd := c.command("FindVehicleByPlateNumber").
		WithOptional("Catalog", catalog).
		With("PlateNumber", freeText(strings.ToUpper(strings.ReplaceAll(plate, " ", "")))).
		With("CountryCode", countryCode).
		With("Localized", "true")
	return c.vehicles(ctx, cmd, catalog)
}

func (c *oemClient) GetWizardSteps(ctx context.Context, catalog, ssd string) ([]domain.WizardStep, error) {
	section, err := c.query(ctx, c.command("GetWizard2").With("Catalog", catalog).WithOptional("ssd", ssd))
	if err != nil {
		return nil, err
	}
	return parseWizardSteps(section), nil
}

func (c *oemClient) FindVehicleByWizard(ctx context.Context, catalog, ssd string) ([]domain.Vehicle, error) {
	cmd := c.command("FindVehicleByWizard2").
		With("Catalog", catalog).
		WithOptional("ssd", ssd).
		With("Localized", "true")
	return c.vehicles(ctx, cmd, catalog)
}

func (c *oemClient) GetVehicleInfo(ctx context.Context, catalog, vehicleID, ssd string) (*domain.Vehicle, error) {
	if err := requireSSD("GetVehicleInfo", ssd); err != nil {
		return nil, err
	}

	vehicles, err := c.vehicles(ctx, c.command("GetVehicleInfo").
		With("Catalog", catalog).
		With("VehicleId", vehicleID).
		With("ssd", ssd).
		With("Localized", "true"), catalog)
	if err != nil || len(vehicles) == 0 {
		return nil, err
	}
	return &vehicles[0], nil
}

func (c *oemClient) FindCatalogsContaining(ctx context.Context, oem string) ([]string, error) {
	section, err := c.query(ctx, c.command("FindPartReferences").With("OEM", normalizeOEM(oem)))
	if err != nil {
		return nil, err
	}

	catalogs := parseCatalogReferences(section)
	log.Debugf("Part %s is referenced by %d catalogs", oem, len(catalogs))
	return catalogs, nil
}

func (c *oemClient) FindApplicableVehicles(ctx context.Context, catalog, oem string) ([]domain.Vehicle, error) {
	cmd := c.command("FindApplicableVehicles").
		With("Catalog", catalog).
		With("OEM", normalizeOEM(oem))
	return c.vehicles(ctx, cmd, catalog)
}

func (c *oemClient) vehicles(ctx context.Context, cmd protocol.Command, catalog string) ([]domain.Vehicle, error) {
	section, err := c.query(ctx, cmd)
	if err != nil {
		return nil, err
	}

	vehicles := parseVehicles(section, catalog)
	log.Debugf("%s found %d vehicles", cmd.Verb(), len(vehicles))
	return vehicles, nil
}

func (c *oemClient) ListQuickGroups(ctx context.Context, catalog, vehicleID, ssd string) ([]*domain.TreeNode, error) {
	section, err := c.query(ctx, c.command("ListQuickGroup").
		With("Catalog", catalog).
		With("VehicleId", vehicleID).
		WithOptional("ssd", ssd))
	if err != nil {
		return nil, err
	}
	return parseQuickGroups(section), nil
}

func (c *oemClient) ListCategories(ctx context.Context, catalog, vehicleID, ssd string) ([]*domain.TreeNode, error) {
	section, err := c.query(ctx, c.command("ListCategories").
		With("Catalog", catalog).
		With("VehicleId", vehicleID).
		With("CategoryId", "-1").
		WithOptional("ssd", ssd))
	if err != nil {
		return nil, err
	}
	return parseCategories(section), nil
}

func (c *oemClient) ListUnits(ctx context.Context, catalog, vehicleID, ssd, categoryID string) ([]*domain.TreeNode, error) {
	if categoryID == "" {
		categoryID = "-1"
	}
	section, err := c.query(ctx, c.command("ListUnits").
		With("Catalog", catalog).
		With("VehicleId", vehicleID).
		With("CategoryId", categoryID).
		WithOptional("ssd", ssd).
		With("Localized", "true"))
	if err != nil {
		return nil, err
	}
	return parseUnitNodes(section), nil
}

// ListQuickGroupDetails requires ssd: without it the upstream ignores the
// vehicle and answers with a misleading empty list.
func (c *oemClient) ListQuickGroupDetails(ctx context.Context, catalog, vehicleID, quickGroupID, ssd string) (*domain.QuickGroupDetails, error) {
	if err := requireSSD("ListQuickGroupDetails", ssd); err != nil {
		return nil, err
	}

	section, err := c.query(ctx, c.command("ListQuickDetail").
		With("Catalog", catalog).
		With("VehicleId", vehicleID).
		With("QuickGroupId", quickGroupID).
		With("ssd", ssd).
		With("Localized", "true").
		With("All", "1"))
	if err != nil {
		return nil, err
	}
	return &domain.QuickGroupDetails{Units: parseQuickDetailUnits(section)}, nil
}

func (c *oemClient) FindByOEM(ctx context.Context, catalog, vehicleID, oem, ssd string) (*domain.OEMSearchResult, error) {
	if err := requireSSD("FindByOEM", ssd); err != nil {
		return nil, err
	}

	section, err := c.query(ctx, c.command("FindDetailByOEM").
		With("Catalog", catalog).
		With("VehicleId", vehicleID).
		With("OEM", normalizeOEM(oem)).
		With("ssd", ssd).
		With("Localized", "true"))
	if err != nil {
		return nil, err
	}
	return &domain.OEMSearchResult{Categories: parseOEMSearch(section)}, nil
}

// SearchByText runs one fulltext query. Vehicle-scoped searches need ssd;
// CatalogWideVehicleID searches the whole catalog without one.
func (c *oemClient) SearchByText(ctx context.Context, catalog, vehicleID, query, ssd string) ([]domain.Detail, error) {
	if vehicleID == "" {
		vehicleID = CatalogWideVehicleID
	}
	if vehicleID != CatalogWideVehicleID {
		if err := requireSSD("SearchByText", ssd); err != nil {
			return nil, err
		}
	}

	section, err := c.query(ctx, c.command("SearchVehicleDetails").
		With("Catalog", catalog).
		With("VehicleId", vehicleID).
		With("Query", freeText(query)).
		WithOptional("ssd", ssd))
	if err != nil {
		return nil, err
	}
	return parseTextSearch(section), nil
}

func (c *oemClient) GetUnitInfo(ctx context.Context, catalog, unitID, ssd string) (*domain.Unit, error) {
	section, err := c.query(ctx, c.command("GetUnitInfo").
		With("Catalog", catalog).
		With("UnitId", unitID).
		WithOptional("ssd", ssd).
		With("Localized", "true"))
	if err != nil {
		return nil, err
	}
	return parseUnitInfo(section), nil
}

func (c *oemClient) GetUnitDetails(ctx context.Context, catalog, unitID, ssd string) ([]domain.Detail, error) {
	section, err := c.query(ctx, c.command("ListDetailByUnit").
		With("Catalog", catalog).
		With("UnitId", unitID).
		WithOptional("ssd", ssd).
		With("Localized", "true").
		With("WithLinks", "true"))
	if err != nil {
		return nil, err
	}
	return parseDetailRows(section), nil
}

func (c *oemClient) GetUnitImageMap(ctx context.Context, catalog, unitID, ssd string) ([]domain.ImageCoordinate, error) {
	section, err := c.query(ctx, c.command("ListImageMapByUnit").
		With("Catalog", catalog).
		With("UnitId", unitID).
		WithOptional("ssd", ssd))
	if err != nil {
		return nil, err
	}
	return parseImageMap(section), nil
}

func normalizeOEM(oem string) string {
	return strings.ToUpper(strings.Join(strings.Fields(freeText(oem)), ""))
}

// freeText keeps user input from adding command parameters, which are
// separated by |.
func freeText(value string) string {
	return strings.ReplaceAll(value, "|", " ")
}
