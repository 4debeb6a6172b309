// Package funds serves the mutual fund catalog, return calculators and
// model-assisted recommendations.
package funds

import (
	"errors"
	"hash/fnv"
	"math"
	"math/rand/v2"
	"sort"
	"strings"
	"time"

	"fintrack-backend/internal/ai"
	"fintrack-backend/internal/apperr"

	"github.com/rs/zerolog/log"
)

const (
	DefaultLimit = 10
	MaxLimit     = 100
	baseNAV      = 100.0
	navStepDays  = 30
)

type Filter struct {
	Category    string  `query:"category"`
	SubCategory string  `query:"subCategory"`
	FundHouse   string  `query:"fundHouse"`
	RiskLevel   string  `query:"riskLevel" validate:"omitempty,oneof=Low Moderate High 'Very High'"`
	MinRating   float64 `query:"minRating" validate:"omitempty,min=1,max=5"`
	Page        int     `query:"page" validate:"omitempty,min=1"`
	Limit       int     `query:"limit" validate:"omitempty,min=1,max=100"`
}

type Pagination struct {
	Total int `json:"total"`
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Pages int `json:"pages"`
}

type ListResult struct {
	Funds      []Fund     `json:"funds"`
	Pagination Pagination `json:"pagination"`
}

type NAVPoint struct {
	Date string  `json:"date"`
	NAV  float64 `json:"nav"`
}

type Performance struct {
	Period         string     `json:"period"`
	FundID         string     `json:"fundId"`
	FundName       string     `json:"fundName"`
	Returns        Returns    `json:"returns"`
	HistoricalData []NAVPoint `json:"historicalData"`
}

type Holdings struct {
	FundID   string    `json:"fundId"`
	FundName string    `json:"fundName"`
	Category string    `json:"category"`
	Holdings []Holding `json:"holdings"`
}

type SIPInput struct {
	FundID         string  `json:"fundId" validate:"required"`
	MonthlyAmount  float64 `json:"monthlyAmount" validate:"required,gt=0"`
	Duration       int     `json:"duration" validate:"required,gt=0,max=50"`
	ExpectedReturn float64 `json:"expectedReturn" validate:"required,gt=0,max=50"`
}

type LumpSumInput struct {
	FundID         string  `json:"fundId" validate:"required"`
	Amount         float64 `json:"amount" validate:"required,gt=0"`
	Duration       int     `json:"duration" validate:"required,gt=0,max=50"`
	ExpectedReturn float64 `json:"expectedReturn" validate:"required,gt=0,max=50"`
}

type YearBalance struct {
	Year       int     `json:"year"`
	Investment float64 `json:"investment"`
	Returns    float64 `json:"returns"`
	Balance    float64 `json:"balance"`
}

type Calculation struct {
	TotalInvestment float64       `json:"totalInvestment"`
	TotalReturns    float64       `json:"totalReturns"`
	MaturityAmount  float64       `json:"maturityAmount"`
	Breakdown       []YearBalance `json:"breakdown"`
}

type Service struct {
	catalog []Fund
	llm     ai.Completer
	now     func() time.Time
}

func NewService(llm ai.Completer) *Service {
	return &Service{catalog: Catalog, llm: llm, now: time.Now}
}

// List returns active funds matching f, best rated first.
func (s *Service) List(f Filter) ListResult {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 {
		f.Limit = DefaultLimit
	}
	if f.Limit > MaxLimit {
		f.Limit = MaxLimit
	}

	matched := make([]Fund, 0, len(s.catalog))
	for _, fund := range s.catalog {
		if fund.IsActive && f.matches(fund) {
			matched = append(matched, fund)
		}
	}
	sort.SliceStable(matched, func(i, j int) bool {
		if matched[i].Rating != matched[j].Rating {
			return matched[i].Rating > matched[j].Rating
		}
		return matched[i].Name < matched[j].Name
	})

	total := len(matched)
	start := (f.Page - 1) * f.Limit
	if start > total {
		start = total
	}
	end := start + f.Limit
	if end > total {
		end = total
	}

	return ListResult{
		Funds: matched[start:end],
		Pagination: Pagination{
			Total: total,
			Page:  f.Page,
			Limit: f.Limit,
			Pages: int(math.Ceil(float64(total) / float64(f.Limit))),
		},
	}
}

func (f Filter) matches(fund Fund) bool {
	if f.Category != "" && !strings.EqualFold(fund.Category, f.Category) {
		return false
	}
	if f.SubCategory != "" && !strings.EqualFold(fund.SubCategory, f.SubCategory) {
		return false
	}
	if f.FundHouse != "" && !strings.Contains(strings.ToLower(fund.FundHouse), strings.ToLower(f.FundHouse)) {
		return false
	}
	if f.RiskLevel != "" && fund.RiskLevel != f.RiskLevel {
		return false
	}
	if f.MinRating > 0 && fund.Rating < f.MinRating {
		return false
	}
	return true
}

func (s *Service) Get(id string) (*Fund, error) {
	for i := range s.catalog {
		if s.catalog[i].ID == id {
			fund := s.catalog[i]
			return &fund, nil
		}
	}
	return nil, apperr.NotFound("Fund not found")
}

// Performance returns a monthly NAV series covering period. The series is
// seeded from the fund and period so repeated calls agree.
func (s *Service) Performance(id, period string) (*Performance, error) {
	if period == "" {
		period = "1Y"
	}
	days, ok := periodDays[period]
	if !ok {
		return nil, apperr.BadRequest("Period must be 1M, 3M, 6M, 1Y, 3Y, 5Y, or ALL")
	}
	fund, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	h := fnv.New64a()
	h.Write([]byte(fund.ID + "/" + period))
	rng := rand.New(rand.NewPCG(h.Sum64(), uint64(days)))

	today := s.now().UTC().Truncate(24 * time.Hour)
	nav := baseNAV
	points := make([]NAVPoint, 0, days/navStepDays+1)
	for i := 0; i < days; i += navStepDays {
		nav *= 1 + (rng.Float64()-0.5)*0.02
		points = append(points, NAVPoint{
			Date: today.AddDate(0, 0, -(days - i)).Format("2006-01-02"),
			NAV:  round2(nav),
		})
	}

	return &Performance{
		Period:         period,
		FundID:         fund.ID,
		FundName:       fund.Name,
		Returns:        fund.Returns,
		HistoricalData: points,
	}, nil
}

func (s *Service) Holdings(id string) (*Holdings, error) {
	fund, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	holdings, ok := holdingsByCategory[fund.Category]
	if !ok {
		holdings = holdingsByCategory["Equity"]
	}
	return &Holdings{
		FundID:   fund.ID,
		FundName: fund.Name,
		Category: fund.Category,
		Holdings: holdings,
	}, nil
}

func (s *Service) SIP(in SIPInput) (*Calculation, error) {
	if _, err := s.Get(in.FundID); err != nil {
		return nil, err
	}
	return CalculateSIP(in.MonthlyAmount, in.Duration, in.ExpectedReturn), nil
}

func (s *Service) LumpSum(in LumpSumInput) (*Calculation, error) {
	if _, err := s.Get(in.FundID); err != nil {
		return nil, err
	}
	return CalculateLumpSum(in.Amount, in.Duration, in.ExpectedReturn), nil
}

// CalculateSIP applies FV = P((1+r)^n - 1)/r with r the monthly rate.
func CalculateSIP(monthly float64, years int, annualRate float64) *Calculation {
	r := annualRate / 100 / 12
	fv := func(months int) float64 {
		if r == 0 {
			return monthly * float64(months)
		}
		return monthly * (math.Pow(1+r, float64(months)) - 1) / r
	}

	calc := &Calculation{
		TotalInvestment: monthly * float64(years*12),
		MaturityAmount:  fv(years * 12),
		Breakdown:       make([]YearBalance, 0, years),
	}
	calc.TotalReturns = calc.MaturityAmount - calc.TotalInvestment
	for year := 1; year <= years; year++ {
		invested := monthly * float64(year*12)
		balance := fv(year * 12)
		calc.Breakdown = append(calc.Breakdown, YearBalance{
			Year:       year,
			Investment: invested,
			Returns:    balance - invested,
			Balance:    balance,
		})
	}
	return calc
}

// CalculateLumpSum applies A = P(1+r)^t with r the annual rate.
func CalculateLumpSum(amount float64, years int, annualRate float64) *Calculation {
	r := annualRate / 100
	calc := &Calculation{
		TotalInvestment: amount,
		MaturityAmount:  amount * math.Pow(1+r, float64(years)),
		Breakdown:       make([]YearBalance, 0, years),
	}
	calc.TotalReturns = calc.MaturityAmount - calc.TotalInvestment
	for year := 1; year <= years; year++ {
		balance := amount * math.Pow(1+r, float64(year))
		calc.Breakdown = append(calc.Breakdown, YearBalance{
			Year:       year,
			Investment: amount,
			Returns:    balance - amount,
			Balance:    balance,
		})
	}
	return calc
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func lookup(catalog []Fund, ref string) (Fund, bool) {
	ref = strings.TrimSpace(ref)
	for _, f := range catalog {
		if f.ID == ref {
			return f, true
		}
	}
	needle := strings.ToLower(ref)
	if needle == "" {
		return Fund{}, false
	}
	for _, f := range catalog {
		name := strings.ToLower(f.Name)
		if strings.Contains(name, needle) || strings.Contains(needle, name) {
			return f, true
		}
	}
	return Fund{}, false
}

func logFallback(err error, what string) {
	log.Warn().Err(err).Str("feature", what).Msg("AI unavailable, using catalog fallback")
}

var errNoFunds = errors.New("llm recommended no funds")
