package client

import (
	"context"
	"testing"

	"laximo/catalog/internal/domain"
	"laximo/catalog/internal/protocol"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestOEMClient(t *testing.T, payloads map[string]string) (OEMClient, *fakeUpstream) {
	t.Helper()
	upstream := newFakeUpstream(t, payloads)
	return NewOEMClient(upstream.querier(t, "oem"), ""), upstream
}

func TestFindVehicleByVIN(t *testing.T) {
	c, upstream := newTestOEMClient(t, map[string]string{
		"FindVehicleByVIN": `<response><FindVehicleByVIN>
			<row brand="BMW" catalog="BM10" name="X5 3.0d" ssd="$SSD1$" vehicleid="42" transmission="AT">
				<attribute key="date" name="Дата выпуска" value="2010"/>
				<attribute key="engine" name="Двигатель" value="M57"/>
			</row>
		</FindVehicleByVIN></response>`,
	})

	vehicles, err := c.FindVehicleByVIN(context.Background(), "BM10", " wbafe41070lx12345 ")

	require.NoError(t, err)
	require.Len(t, vehicles, 1)
	v := vehicles[0]
	assert.Equal(t, "BM10", v.Catalog)
	assert.Equal(t, "42", v.VehicleID)
	assert.Equal(t, "BMW", v.Brand)
	assert.Equal(t, "$SSD1$", v.SSD)
	assert.Equal(t, "2010", v.Attributes.Get("date"))
	assert.Equal(t, "M57", v.Attributes.Get("engine"))
	assert.Equal(t, "AT", v.Attributes.Get("transmission"))
	assert.Equal(t, "", v.Attributes.Get("bodytype"))

	assert.Equal(t, []string{"FindVehicleByVIN:Locale=ru_RU|Catalog=BM10|VIN=WBAFE41070LX12345|Localized=true"}, upstream.Commands())
}

func TestFindVehicleByVINOmitsBlankCatalog(t *testing.T) {
	c, upstream := newTestOEMClient(t, nil)

	vehicles, err := c.FindVehicleByVIN(context.Background(), "", "VIN1")

	require.NoError(t, err)
	assert.Empty(t, vehicles)
	assert.Equal(t, []string{"FindVehicleByVIN:Locale=ru_RU|VIN=VIN1|Localized=true"}, upstream.Commands())
}

func TestVehicleSearchZeroRows(t *testing.T) {
	c, _ := newTestOEMClient(t, map[string]string{
		"FindVehicleByPlateNumber": `<response><FindVehicleByPlateNumber/></response>`,
	})

	vehicles, err := c.FindVehicleByPlateNumber(context.Background(), "TY1", "a 123 bc 77", "")

	require.NoError(t, err)
	assert.NotNil(t, vehicles)
	assert.Empty(t, vehicles)
}

func TestGetCatalogInfo(t *testing.T) {
	c, _ := newTestOEMClient(t, map[string]string{
		"GetCatalogInfo": `<response><GetCatalogInfo>
			<row brand="BMW" code="BM10" name="BMW Europe" icon="bmw.png" supportparameteridentification2="true" supportquickgroups="true">
				<features>
					<feature name="vinsearch" example="WBAPH5C55BA123456"/>
					<feature name="quickgroups"/>
				</features>
				<permissions>
					<permission>ListQuickGroup</permission>
					<permission name="FindVehicleByVIN"/>
				</permissions>
			</row>
		</GetCatalogInfo></response>`,
	})

	info, err := c.GetCatalogInfo(context.Background(), "BM10")

	require.NoError(t, err)
	require.NotNil(t, info)
	assert.Equal(t, "BM10", info.Code)
	assert.Equal(t, "BMW Europe", info.Name)
	assert.True(t, info.SupportVINSearch)
	assert.True(t, info.SupportQuickGroups)
	assert.True(t, info.SupportParameterIdentification)
	assert.False(t, info.SupportPlateSearch)
	assert.Equal(t, "WBAPH5C55BA123456", info.VINExample)
	assert.Equal(t, []string{"ListQuickGroup", "FindVehicleByVIN"}, info.Permissions)
}

func TestGetCatalogInfoEmptyIsNil(t *testing.T) {
	c, _ := newTestOEMClient(t, map[string]string{"GetCatalogInfo": `<response><GetCatalogInfo/></response>`})

	info, err := c.GetCatalogInfo(context.Background(), "XX")

	require.NoError(t, err)
	assert.Nil(t, info)
}

func TestGetWizardSteps(t *testing.T) {
	c, upstream := newTestOEMClient(t, map[string]string{
		"GetWizard2": `<response><GetWizard2>
			<row allowlistvehicles="false" automatic="false" conditionid="1" determined="true" name="Модель" type="model" value="X5" ssd="$A$"/>
			<row allowlistvehicles="true" automatic="false" conditionid="2" determined="false" name="Год" type="year">
				<options>
					<row key="$A2010$" value="2010"/>
					<row key="$A2011$" value="2011"/>
				</options>
			</row>
		</GetWizard2></response>`,
	})

	steps, err := c.GetWizardSteps(context.Background(), "BM10", "$A$")

	require.NoError(t, err)
	require.Len(t, steps, 2)
	assert.True(t, steps[0].Determined)
	assert.Equal(t, "X5", steps[0].Value)
	assert.Empty(t, steps[0].Options)
	assert.False(t, steps[1].Determined)
	assert.True(t, steps[1].AllowListVehicles)
	assert.Equal(t, []domain.WizardOption{{Key: "$A2010$", Value: "2010"}, {Key: "$A2011$", Value: "2011"}}, steps[1].Options)
	assert.Equal(t, []string{"GetWizard2:Locale=ru_RU|Catalog=BM10|ssd=$A$"}, upstream.Commands())
}

func TestFindCatalogsContaining(t *testing.T) {
	c, _ := newTestOEMClient(t, map[string]string{
		"FindPartReferences": `<response><FindPartReferences><CatalogReferences>
			<CatalogReference code="BM10" brand="BMW"/>
			<CatalogReference code="MI1" brand="MINI"/>
			<CatalogReference code="BM10" brand="BMW"/>
		</CatalogReferences></FindPartReferences></response>`,
	})

	catalogs, err := c.FindCatalogsContaining(context.Background(), "11 42 7 953 129")

	require.NoError(t, err)
	assert.Equal(t, []string{"BM10", "MI1"}, catalogs)
}

func TestListQuickGroupsTree(t *testing.T) {
	c, _ := newTestOEMClient(t, map[string]string{
		"ListQuickGroup": `<response><ListQuickGroups>
			<row quickgroupid="10" name="Двигатель" link="false">
				<row quickgroupid="101" name="Фильтры" link="true"/>
				<row quickgroupid="102" name="Ремни" link="true"/>
			</row>
			<row quickgroupid="20" name="Тормоза" link="true"/>
		</ListQuickGroups></response>`,
	})

	tree, err := c.ListQuickGroups(context.Background(), "BM10", "42", "$SSD$")

	require.NoError(t, err)
	require.Len(t, tree, 2)
	assert.Equal(t, 2, domain.Depth(tree))
	assert.Equal(t, "Двигатель", tree[0].Name)
	require.Len(t, tree[0].Children, 2)
	assert.Equal(t, "Фильтры", tree[0].Children[0].Name)
	assert.Equal(t, "10", tree[0].Children[0].ParentID)
	assert.True(t, tree[0].Children[0].Link)
	assert.Equal(t, "Ремни", tree[0].Children[1].Name)
	assert.Equal(t, domain.NodeKindQuickGroup, tree[1].Kind)
}

func TestListCategoriesRebuildsTreeFromParentLinks(t *testing.T) {
	c, upstream := newTestOEMClient(t, map[string]string{
		"ListCategories": `<response><ListCategories>
			<row categoryid="2" parentcategoryid="1" name="Головка блока"/>
			<row categoryid="1" parentcategoryid="-1" name="Двигатель" childrens="true"/>
			<row categoryid="3" parentcategoryid="1" name="Блок"/>
			<row categoryid="4" name="Кузов"/>
			<row categoryid="5" parentcategoryid="6" name="A"/>
			<row categoryid="6" parentcategoryid="5" name="B"/>
		</ListCategories></response>`,
	})

	tree, err := c.ListCategories(context.Background(), "BM10", "42", "")

	require.NoError(t, err)
	require.Len(t, tree, 4)
	assert.Equal(t, "Двигатель", tree[0].Name)
	require.Len(t, tree[0].Children, 2)
	assert.Equal(t, "Головка блока", tree[0].Children[0].Name)
	assert.Equal(t, "Блок", tree[0].Children[1].Name)
	assert.False(t, tree[0].Link)
	assert.True(t, tree[0].Children[0].Link)
	assert.Equal(t, "Кузов", tree[1].Name)
	assert.Equal(t, []string{"ListCategories:Locale=ru_RU|Catalog=BM10|VehicleId=42|CategoryId=-1"}, upstream.Commands())
}

func TestSSDRequiredCallsFailBeforeNetwork(t *testing.T) {
	c, upstream := newTestOEMClient(t, nil)
	ctx := context.Background()

	_, err := c.ListQuickGroupDetails(ctx, "BM10", "42", "10", "")
	assert.True(t, protocol.IsProtocolMismatch(err))

	_, err = c.FindByOEM(ctx, "BM10", "42", "11427953129", "   ")
	assert.True(t, protocol.IsProtocolMismatch(err))

	_, err = c.SearchByText(ctx, "BM10", "42", "filter", "")
	assert.True(t, protocol.IsProtocolMismatch(err))

	_, err = c.GetVehicleInfo(ctx, "BM10", "42", "")
	assert.True(t, protocol.IsProtocolMismatch(err))

	assert.Empty(t, upstream.Commands())
}

func TestSearchByTextCatalogWideNeedsNoSSD(t *testing.T) {
	c, upstream := newTestOEMClient(t, map[string]string{
		"SearchVehicleDetails": `<response><SearchVehicleDetails><row oem="11427953129" name="Фильтр масляный"/></SearchVehicleDetails></response>`,
	})

	details, err := c.SearchByText(context.Background(), "BM10", CatalogWideVehicleID, "фильтр", "")

	require.NoError(t, err)
	require.Len(t, details, 1)
	assert.Equal(t, "11427953129", details[0].OEM)
	assert.Equal(t, []string{"SearchVehicleDetails:Locale=ru_RU|Catalog=BM10|VehicleId=0|Query=фильтр"}, upstream.Commands())
}

func TestListQuickGroupDetails(t *testing.T) {
	c, _ := newTestOEMClient(t, map[string]string{
		"ListQuickDetail": `<response><ListQuickDetail>
			<Category categoryid="1" name="Двигатель" ssd="$C$">
				<Unit unitid="100" code="11_0123" name="Масляный фильтр" imageurl="https://img/%size%/1.png" ssd="$U$">
					<attribute key="note" value="unit note"/>
					<Detail codeonimage="1" name="Фильтр" oem="11427953129" ssd="$D$">
						<attribute key="amount" name="Количество" value="1"/>
					</Detail>
					<Detail codeonimage="2" name="Прокладка" oem="11427508971"/>
				</Unit>
			</Category>
		</ListQuickDetail></response>`,
	})

	result, err := c.ListQuickGroupDetails(context.Background(), "BM10", "42", "101", "$SSD$")

	require.NoError(t, err)
	require.Len(t, result.Units, 1)
	unit := result.Units[0]
	assert.Equal(t, "100", unit.UnitID)
	assert.Equal(t, "1", unit.CategoryID)
	assert.Equal(t, "https://img/source/1.png", unit.ImageURL)
	assert.Equal(t, "unit note", unit.Attributes.Get("note"))
	assert.Equal(t, "", unit.Attributes.Get("amount"))
	require.Len(t, unit.Details, 2)
	assert.Equal(t, "1", unit.Details[0].CodeOnImage)
	assert.Equal(t, "1", unit.Details[0].Attributes.Get("amount"))
	assert.Equal(t, "11427508971", unit.Details[1].OEM)
}

func TestFindByOEMTypedAndFlatShapes(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		units   int
		details int
	}{
		{
			name: "typed",
			payload: `<response><FindDetailByOEM><Category categoryid="1" name="Двигатель">
				<Unit unitid="100" name="Фильтр"><Detail oem="11427953129" name="Фильтр"/></Unit>
			</Category></FindDetailByOEM></response>`,
			units:   1,
			details: 1,
		},
		{
			name: "flat rows",
			payload: `<response><FindDetailByOEM>
				<row oem="11427953129" name="Фильтр" unitid="100" unitname="Масляный фильтр"/>
				<row oem="11427953129" name="Фильтр" unitid="100" unitname="Масляный фильтр"/>
				<row oem="11427953129" name="Фильтр" unitid="200" unitname="Модуль"/>
			</FindDetailByOEM></response>`,
			units:   2,
			details: 3,
		},
		{
			name:    "empty",
			payload: `<response><FindDetailByOEM/></response>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestOEMClient(t, map[string]string{"FindDetailByOEM": tt.payload})

			result, err := c.FindByOEM(context.Background(), "BM10", "42", "11427953129", "$SSD$")
			require.NoError(t, err)
			require.NotNil(t, result)

			units, details := 0, 0
			for _, category := range result.Categories {
				units += len(category.Units)
				for _, u := range category.Units {
					details += len(u.Details)
				}
			}
			assert.Equal(t, tt.units, units)
			assert.Equal(t, tt.details, details)
		})
	}
}

func TestUnitCalls(t *testing.T) {
	c, _ := newTestOEMClient(t, map[string]string{
		"GetUnitInfo":      `<response><GetUnitInfo><row unitid="100" code="11_0123" name="Фильтр" imageurl="https://img/%size%/1.png"/></GetUnitInfo></response>`,
		"ListDetailByUnit": `<response><ListDetailByUnit><row codeonimage="1" name="Фильтр" oem="11427953129" note="только M57"/></ListDetailByUnit></response>`,
		"ListImageMapByUnit": `<response><ListImageMapByUnit>
			<row code="1" type="0" x1="10" y1="20" x2="40" y2="60"/>
			<row code="2" type="circle" x="5" y="6" width="7" height="8"/>
			<row code="3" x1="bad"/>
		</ListImageMapByUnit></response>`,
	})
	ctx := context.Background()

	unit, err := c.GetUnitInfo(ctx, "BM10", "100", "$SSD$")
	require.NoError(t, err)
	require.NotNil(t, unit)
	assert.Equal(t, "https://img/source/1.png", unit.LargeImageURL)

	details, err := c.GetUnitDetails(ctx, "BM10", "100", "$SSD$")
	require.NoError(t, err)
	require.Len(t, details, 1)
	assert.Equal(t, "только M57", details[0].Attributes.Get("note"))

	coords, err := c.GetUnitImageMap(ctx, "BM10", "100", "$SSD$")
	require.NoError(t, err)
	assert.Equal(t, []domain.ImageCoordinate{
		{Code: "1", Shape: domain.ShapeRect, X: 10, Y: 20, Width: 30, Height: 40},
		{Code: "2", Shape: domain.ShapeCircle, X: 5, Y: 6, Width: 7, Height: 8},
		{Code: "3", Shape: domain.ShapeRect},
	}, coords)
}

func TestTransportErrorIsWrapped(t *testing.T) {
	upstream := newFakeUpstream(t, nil)
	querier := upstream.querier(t, "oem")
	upstream.server.Close()

	c := NewOEMClient(querier, "")
	_, err := c.ListCatalogs(context.Background())

	assert.True(t, protocol.IsTransport(err))
}

func TestFreeTextCannotAddParameters(t *testing.T) {
	c, upstream := newTestOEMClient(t, nil)
	ctx := context.Background()

	_, err := c.SearchByText(ctx, "BM10", CatalogWideVehicleID, "oil|VehicleId=42", "")
	require.NoError(t, err)
	_, err = c.FindVehicleByVIN(ctx, "", "wba1|Catalog=XX")
	require.NoError(t, err)
	_, err = c.FindCatalogsContaining(ctx, "114|Locale=en")
	require.NoError(t, err)

	assert.Equal(t, []string{
		"SearchVehicleDetails:Locale=ru_RU|Catalog=BM10|VehicleId=0|Query=oil VehicleId=42",
		"FindVehicleByVIN:Locale=ru_RU|VIN=WBA1 CATALOG=XX|Localized=true",
		"FindPartReferences:Locale=ru_RU|OEM=114LOCALE=EN",
	}, upstream.Commands())
}
