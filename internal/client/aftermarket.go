package client

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"laximo/catalog/internal/domain"
	"laximo/catalog/internal/protocol"

	log "github.com/sirupsen/logrus"
)

// AftermarketClient resolves aftermarket part numbers against the
// cross-reference service. It must be built on a CommandClient carrying the
// aftermarket credentials, never the primary catalog ones.
type AftermarketClient interface {
	FindOEM(ctx context.Context, oem, brand string, replacementTypes []string) (*domain.CrossReferenceResult, error)
}

type aftermarketClient struct {
	querier protocol.Querier
	locale  string
}

func NewAftermarketClient(querier protocol.Querier, locale string) AftermarketClient {
	if locale == "" {
		locale = DefaultLocale
	}
	return &aftermarketClient{
		querier: querier,
		locale:  locale,
	}
}

// FindOEM returns nil without error when the part number is unknown.
func (c *aftermarketClient) FindOEM(ctx context.Context, oem, brand string, replacementTypes []string) (*domain.CrossReferenceResult, error) {
	cmd := protocol.NewCommand("FindOEM").
		With("Locale", c.locale).
		With("OEM", normalizeOEM(oem)).
		WithOptional("Brand", freeText(strings.TrimSpace(brand))).
		WithOptional("ReplacementTypes", strings.Join(replacementTypes, ",")).
		With("Options", "crosses")

	payload, ok, err := c.querier.Query(ctx, cmd)
	if err != nil {
		return nil, fmt.Errorf("failed to execute FindOEM: %w", err)
	}
	if !ok {
		return nil, nil
	}

	details := parseCrossReferences(sectionOrPayload(payload, "FindOEM"))
	if len(details) == 0 {
		log.Debugf("No aftermarket match for %s", oem)
		return nil, nil
	}

	log.Debugf("Found %d aftermarket details for %s", len(details), oem)
	return &domain.CrossReferenceResult{Details: details}, nil
}

func parseCrossReferences(section string) []domain.CrossReference {
	rows := protocol.Rows(section, "detail")
	refs := make([]domain.CrossReference, 0, len(rows))
	for _, row := range rows {
		ref := domain.CrossReference{
			Detail:       aftermarketDetailFromRow(row),
			Replacements: []domain.Replacement{},
		}

		if replacements, ok := protocol.Section(row.Inner, "replacements"); ok {
			for _, r := range protocol.Rows(replacements, "replacement") {
				replacement := domain.Replacement{
					Type: r.Attr("type"),
					Way:  r.Attr("way"),
					Rate: parseRate(r.Attr("rate")),
				}
				if nested := protocol.Rows(r.Inner, "detail"); len(nested) > 0 {
					replacement.Detail = aftermarketDetailFromRow(nested[0])
				}
				ref.Replacements = append(ref.Replacements, replacement)
			}
		}

		refs = append(refs, ref)
	}
	return refs
}

func aftermarketDetailFromRow(row protocol.Row) domain.AftermarketDetail {
	detail := domain.AftermarketDetail{
		DetailID:       row.Attr("detailid"),
		ManufacturerID: row.Attr("manufacturerid"),
		Manufacturer:   row.Attr("manufacturer"),
		OEM:            row.Attr("oem"),
		FormattedOEM:   row.Attr("formattedoem"),
		Name:           row.Attr("name"),
		Weight:         row.Attr("weight"),
		Volume:         row.Attr("volume"),
		Dimensions:     row.Attr("dimensions"),
	}

	own := stripRows(row.Inner, "replacements")
	if properties, ok := protocol.Section(own, "properties"); ok {
		for _, p := range protocol.Rows(properties, "property") {
			detail.Properties = append(detail.Properties, domain.Attribute{
				Key:   p.Attr("code"),
				Name:  p.Attr("property"),
				Value: p.Attr("value"),
			})
		}
	}

	return detail
}

func parseRate(raw string) *float64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	rate, err := strconv.ParseFloat(strings.ReplaceAll(raw, ",", "."), 64)
	if err != nil {
		return nil
	}
	return &rate
}
