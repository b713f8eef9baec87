package usecase

import (
	"strings"

	"github.com/xavierca1/leadsync/internal/entity"
)

// LeadField é o campo lógico que um header da planilha pode preencher.
type LeadField string

const (
	FieldName               LeadField = "name"
	FieldMobile             LeadField = "mobile"
	FieldEmail              LeadField = "email"
	FieldBudget             LeadField = "budget"
	FieldPossessionTimeline LeadField = "possession_timeline"
	FieldUnitPreference     LeadField = "unit_preference"
	FieldLocationPreference LeadField = "location_preference"
	FieldCallSummary        LeadField = "call_summary"
	FieldSuccessEvaluation  LeadField = "success_evaluation"
	FieldNotes              LeadField = "notes"
	FieldLeadDate           LeadField = "lead_date"
)

// fieldAliases: headers aceitos por campo, em ordem de prioridade (o primeiro com valor ganha).
// Keys are already normalized.
var fieldAliases = map[LeadField][]string{
	FieldName:               {"name", "full name", "fullname", "customer name"},
	FieldMobile:             {"mobile number", "mobile", "phone", "phone number", "contact"},
	FieldEmail:              {"email id", "email", "email address", "e-mail"},
	FieldBudget:             {"budget", "price range", "budget range"},
	FieldPossessionTimeline: {"possession timeline", "possession", "timeline", "possession date"},
	FieldUnitPreference:     {"unit preference", "unit type", "unit", "property type", "bhk"},
	FieldLocationPreference: {"location preference", "location", "area", "locality", "location interest"},
	FieldCallSummary:        {"call summary", "summary", "call notes"},
	FieldSuccessEvaluation:  {"success evaluation", "success", "evaluation", "outcome"},
	FieldNotes:              {"notes", "remarks", "comments", "description"},

	// reconhecido mas não persistido; created_at é sempre o do banco
	FieldLeadDate: {"lead creation date & time", "date", "created date", "lead date"},
}

// Aliases devolve uma cópia da lista de sinônimos do campo.
func Aliases(field LeadField) []string {
	return append([]string(nil), fieldAliases[field]...)
}

// NormalizeHeader lower-cases, trims and collapses internal whitespace.
func NormalizeHeader(h string) string {
	return strings.Join(strings.Fields(strings.ToLower(h)), " ")
}

// ResolveField devolve o header normalizado que resolve para o campo, se existir.
func ResolveField(header string) (LeadField, bool) {
	n := NormalizeHeader(header)
	for field, aliases := range fieldAliases {
		for _, a := range aliases {
			if a == n {
				return field, true
			}
		}
	}
	return "", false
}

type DroppedRow struct {
	RowNumber int    // linha na planilha (1 = header)
	Name      string // nome resolvido, "Unknown" se ausente
}

type MapResult struct {
	Leads       []entity.MappedLead
	Dropped     int
	DroppedRows []DroppedRow
	Headers     []string // normalizados
	DataRows    int      // linhas abaixo do header, incluindo as vazias
}

// rowValues é a linha indexada pelo header normalizado. Células vazias não entram.
type rowValues map[string]string

func (r rowValues) lookup(field LeadField) string {
	for _, key := range fieldAliases[field] {
		if v := r[key]; v != "" {
			return v
		}
	}
	return ""
}

// MapRows converte a grade da planilha em leads normalizados do tenant.
func MapRows(companyID string, grid entity.SheetGrid) MapResult {
	result := MapResult{}
	if len(grid) == 0 {
		return result
	}

	headers := make([]string, len(grid.Headers()))
	for i, h := range grid.Headers() {
		headers[i] = NormalizeHeader(h)
	}
	result.Headers = headers

	rows := grid.DataRows()
	result.DataRows = len(rows)

	for i, row := range rows {
		if isBlankRow(row) {
			continue
		}

		values := make(rowValues, len(headers))
		for col, header := range headers {
			if col >= len(row) {
				break
			}
			if cell := strings.TrimSpace(row[col]); cell != "" {
				values[header] = cell
			}
		}

		lead := buildLead(companyID, values)
		if !lead.HasMobile() {
			result.Dropped++
			result.DroppedRows = append(result.DroppedRows, DroppedRow{RowNumber: i + 2, Name: lead.Name})
			continue
		}
		result.Leads = append(result.Leads, lead)
	}

	return result
}

func buildLead(companyID string, values rowValues) entity.MappedLead {
	name := values.lookup(FieldName)
	if name == "" {
		name = entity.UnknownLeadName
	}

	return entity.MappedLead{
		CompanyID:          companyID,
		Name:               name,
		Mobile:             values.lookup(FieldMobile),
		Email:              entity.StringPtr(values.lookup(FieldEmail)),
		Budget:             entity.StringPtr(values.lookup(FieldBudget)),
		PossessionTimeline: entity.StringPtr(values.lookup(FieldPossessionTimeline)),
		UnitPreference:     entity.StringPtr(values.lookup(FieldUnitPreference)),
		LocationPreference: entity.StringPtr(values.lookup(FieldLocationPreference)),
		Source:             entity.LeadSourceGoogleSheets,
		Status:             entity.LeadStatusNew,
		Notes:              buildNotes(values),
	}
}

func buildNotes(values rowValues) string {
	var parts []string
	if v := values.lookup(FieldCallSummary); v != "" {
		parts = append(parts, "Call Summary: "+v)
	}
	if v := values.lookup(FieldSuccessEvaluation); v != "" {
		parts = append(parts, "Success: "+v)
	}
	if v := values.lookup(FieldNotes); v != "" {
		parts = append(parts, v)
	}
	return strings.Join(parts, "\n\n")
}

func isBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
