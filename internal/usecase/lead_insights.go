package usecase

import (
	"context"
	"errors"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/xavierca1/leadsync/internal/entity"
)

const (
	BudgetNotSpecified = "Not specified"
	BudgetUnder70L     = "< 70L"
	Budget70LTo1Cr     = "70L - 1Cr"
	Budget1CrTo1_5Cr   = "1Cr - 1.5Cr"
	BudgetAbove1_5Cr   = "1.5Cr+"

	TimeCategoryWorking    = "Working Hours"
	TimeCategoryNonWorking = "Non-Working Hours"

	workdayStartHour = 9
	workdayEndHour   = 18
)

// budgetAmount casa um número e a unidade logo depois dele ("80 lakhs", "1.2cr", "70L").
var budgetAmount = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*(crores?|cr|lakhs?|lacs?|l\b)?`)

// BudgetRange classifica o orçamento em lakhs pelo limite inferior.
// Cada número usa a própria unidade; em "1 - 1.5 Cr" o primeiro herda a unidade do seguinte.
// Sem unidade, valores a partir de 100000 são rupias.
func BudgetRange(budget *string) string {
	if budget == nil {
		return BudgetNotSpecified
	}
	lower := strings.ToLower(strings.ReplaceAll(*budget, ",", ""))

	matches := budgetAmount.FindAllStringSubmatch(lower, -1)
	if len(matches) == 0 {
		return BudgetNotSpecified
	}
	lakhs, err := strconv.ParseFloat(matches[0][1], 64)
	if err != nil {
		return BudgetNotSpecified
	}

	unit := matches[0][2]
	if unit == "" && len(matches) > 1 {
		unit = matches[1][2]
	}

	switch {
	case strings.HasPrefix(unit, "cr"):
		lakhs *= 100
	case unit != "":
		// lakhs
	case lakhs >= 100000:
		lakhs /= 100000
	}

	switch {
	case lakhs < 70:
		return BudgetUnder70L
	case lakhs < 100:
		return Budget70LTo1Cr
	case lakhs < 150:
		return Budget1CrTo1_5Cr
	default:
		return BudgetAbove1_5Cr
	}
}

// IsWorkingHours: segunda a sexta, 09:00 até 17:59, no fuso de t.
func IsWorkingHours(t time.Time) bool {
	day := t.Weekday()
	if day == time.Saturday || day == time.Sunday {
		return false
	}
	h := t.Hour()
	return h >= workdayStartHour && h < workdayEndHour
}

func TimeCategory(t time.Time) string {
	if IsWorkingHours(t) {
		return TimeCategoryWorking
	}
	return TimeCategoryNonWorking
}

type LeadSummary struct {
	Total          int            `json:"total"`
	ByStatus       map[string]int `json:"by_status"`
	BySource       map[string]int `json:"by_source"`
	ByBudgetRange  map[string]int `json:"by_budget_range"`
	ByTimeCategory map[string]int `json:"by_time_category"`
	ByHour         [24]int        `json:"by_hour"`
	ByDay          map[string]int `json:"by_day"`
}

// SummarizeLeads agrega os leads pelo created_at convertido para loc.
func SummarizeLeads(leads []entity.Lead, loc *time.Location) LeadSummary {
	if loc == nil {
		loc = time.UTC
	}
	s := LeadSummary{
		Total:          len(leads),
		ByStatus:       map[string]int{},
		BySource:       map[string]int{},
		ByBudgetRange:  map[string]int{},
		ByTimeCategory: map[string]int{TimeCategoryWorking: 0, TimeCategoryNonWorking: 0},
		ByDay:          map[string]int{},
	}

	for _, l := range leads {
		created := l.CreatedAt.In(loc)
		s.ByStatus[l.Status]++
		s.BySource[l.Source]++
		s.ByBudgetRange[BudgetRange(l.Budget)]++
		s.ByTimeCategory[TimeCategory(created)]++
		s.ByHour[created.Hour()]++
		s.ByDay[created.Format("2006-01-02")]++
	}
	return s
}

type LeadInsightsInput struct {
	UserID   string
	From     time.Time
	To       time.Time
	Location *time.Location
}

type LeadInsightsUseCase struct {
	Users entity.UserRepositoryInterface
	Leads entity.LeadRepositoryInterface
}

func NewLeadInsightsUseCase(users entity.UserRepositoryInterface, leads entity.LeadRepositoryInterface) *LeadInsightsUseCase {
	return &LeadInsightsUseCase{Users: users, Leads: leads}
}

func (uc *LeadInsightsUseCase) Execute(ctx context.Context, input LeadInsightsInput) (*LeadSummary, error) {
	if strings.TrimSpace(input.UserID) == "" {
		return nil, ErrUnauthorized
	}
	if !input.From.IsZero() && !input.To.IsZero() && input.To.Before(input.From) {
		return nil, NewBadRequest("'to' must not be before 'from'")
	}

	companyID, err := uc.Users.FindCompanyID(ctx, input.UserID)
	if err != nil {
		if errors.Is(err, entity.ErrUserNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, NewPersistenceError("failed to load profile", err)
	}

	leads, err := uc.Leads.ListByCompany(ctx, companyID, input.From, input.To)
	if err != nil {
		return nil, NewPersistenceError("failed to list leads", err)
	}

	summary := SummarizeLeads(leads, input.Location)
	return &summary, nil
}
