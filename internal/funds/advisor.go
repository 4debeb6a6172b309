package funds

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"fintrack-backend/internal/ai"
	"fintrack-backend/internal/apperr"
)

const (
	RecommendedMessage       = "AI-powered fund recommendations generated successfully"
	RecommendFallbackMessage = "Unable to generate AI recommendations at this time. Showing catalog recommendations instead."
	ComparedMessage          = "Fund comparison completed successfully"
	CompareFallbackMessage   = "Unable to generate AI comparison at this time. Please try again later."

	recommendCount = 3
	MinCompare     = 2
	MaxCompare     = 5
)

type Preferences struct {
	InvestmentGoal    string  `json:"investmentGoal" validate:"required"`
	InvestmentHorizon string  `json:"investmentHorizon" validate:"required"`
	RiskTolerance     string  `json:"riskTolerance" validate:"required,oneof=Low Moderate High 'Very High'"`
	InvestmentAmount  float64 `json:"investmentAmount" validate:"required,gt=0"`
	Category          string  `json:"category"`
}

type RecommendedFund struct {
	Fund
	Reason string `json:"reason"`
}

type Recommendation struct {
	RecommendedFunds []RecommendedFund `json:"recommendedFunds"`
	Reasoning        string            `json:"reasoning"`
	// AIGenerated is false when the catalog fallback produced the result.
	AIGenerated bool `json:"aiGenerated"`
}

// Recommend asks the model for three funds matching prefs. Any model failure
// falls back to a ranking of the catalog.
func (s *Service) Recommend(ctx context.Context, prefs Preferences) *Recommendation {
	var rec Recommendation
	err := ai.CompleteJSON(ctx, s.llm, recommendPrompt(prefs), &rec)
	if err == nil && len(rec.RecommendedFunds) == 0 {
		err = errNoFunds
	}
	if err != nil {
		logFallback(err, "recommend")
		return s.fallbackRecommendation(prefs)
	}
	if rec.Reasoning == "" {
		rec.Reasoning = "Personalized recommendations based on your profile."
	}
	rec.AIGenerated = true
	return &rec
}

func (s *Service) fallbackRecommendation(p Preferences) *Recommendation {
	want := riskRank[p.RiskTolerance]

	candidates := make([]Fund, 0, len(s.catalog))
	for _, f := range s.catalog {
		if !f.IsActive {
			continue
		}
		if p.Category != "" && !strings.EqualFold(f.Category, p.Category) {
			continue
		}
		candidates = append(candidates, f)
	}
	if len(candidates) == 0 {
		for _, f := range s.catalog {
			if f.IsActive {
				candidates = append(candidates, f)
			}
		}
	}

	distance := func(f Fund) int {
		d := riskRank[f.RiskLevel] - want
		if d < 0 {
			return -d
		}
		return d
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		di, dj := distance(candidates[i]), distance(candidates[j])
		if di != dj {
			return di < dj
		}
		if candidates[i].Rating != candidates[j].Rating {
			return candidates[i].Rating > candidates[j].Rating
		}
		return candidates[i].Name < candidates[j].Name
	})
	if len(candidates) > recommendCount {
		candidates = candidates[:recommendCount]
	}

	goal := strings.ToLower(p.InvestmentGoal)
	risk := strings.ToLower(p.RiskTolerance)
	out := make([]RecommendedFund, 0, len(candidates))
	for _, f := range candidates {
		out = append(out, RecommendedFund{
			Fund:   f,
			Reason: fmt.Sprintf("This fund aligns with your %s goals and %s risk tolerance.", goal, risk),
		})
	}

	return &Recommendation{
		RecommendedFunds: out,
		Reasoning: fmt.Sprintf("Based on your %s goal, %s horizon, and %s risk tolerance, we recommend these well-established funds. "+
			"These recommendations are based on fund performance, ratings, and alignment with your investment profile.",
			p.InvestmentGoal, p.InvestmentHorizon, p.RiskTolerance),
	}
}

type Analysis struct {
	Best1Year      string `json:"best1Year,omitempty"`
	Best3Year      string `json:"best3Year,omitempty"`
	Best5Year      string `json:"best5Year,omitempty"`
	LowestRisk     string `json:"lowestRisk,omitempty"`
	HighestRisk    string `json:"highestRisk,omitempty"`
	LowestExpense  string `json:"lowestExpense,omitempty"`
	HighestExpense string `json:"highestExpense,omitempty"`
	HighestRated   string `json:"highestRated,omitempty"`
	Largest        string `json:"largest,omitempty"`
	Smallest       string `json:"smallest,omitempty"`
	Analysis       string `json:"analysis"`
}

type Dimensions struct {
	Performance Analysis `json:"performance"`
	Risk        Analysis `json:"risk"`
	Cost        Analysis `json:"cost"`
	Rating      Analysis `json:"rating"`
	AUM         Analysis `json:"aum"`
}

type Picks struct {
	BestOverall         string `json:"bestOverall"`
	BestForConservative string `json:"bestForConservative"`
	BestForAggressive   string `json:"bestForAggressive"`
	BestValue           string `json:"bestValue"`
	Reasoning           string `json:"reasoning"`
}

type DetailedAnalysis struct {
	Strengths   map[string]string `json:"strengths"`
	Weaknesses  map[string]string `json:"weaknesses"`
	Suitability map[string]string `json:"suitability"`
}

type Comparison struct {
	Comparison       Dimensions       `json:"comparison"`
	Recommendations  Picks            `json:"recommendations"`
	Summary          string           `json:"summary"`
	DetailedAnalysis DetailedAnalysis `json:"detailedAnalysis"`
}

type CompareResult struct {
	Funds       []Fund     `json:"funds"`
	Comparison  Comparison `json:"comparison"`
	AIGenerated bool       `json:"aiGenerated"`
}

// Compare resolves each reference by id or name and compares the funds.
// Every reference must resolve.
func (s *Service) Compare(ctx context.Context, refs []string) (*CompareResult, error) {
	if len(refs) < MinCompare {
		return nil, apperr.BadRequest("At least 2 funds must be selected for comparison")
	}
	if len(refs) > MaxCompare {
		return nil, apperr.BadRequest("Maximum 5 funds can be compared at once")
	}

	funds := make([]Fund, 0, len(refs))
	var missing []string
	for _, ref := range refs {
		f, ok := lookup(s.catalog, ref)
		if !ok {
			missing = append(missing, ref)
			continue
		}
		funds = append(funds, f)
	}
	if len(missing) > 0 {
		return nil, apperr.NotFound("Funds not found: " + strings.Join(missing, ", "))
	}

	var cmp Comparison
	if err := ai.CompleteJSON(ctx, s.llm, comparePrompt(funds), &cmp); err != nil || cmp.Summary == "" {
		if err == nil {
			err = ai.ErrEmptyResponse
		}
		logFallback(err, "compare")
		return &CompareResult{Funds: funds, Comparison: compareFromData(funds)}, nil
	}
	return &CompareResult{Funds: funds, Comparison: cmp, AIGenerated: true}, nil
}

// compareFromData builds a comparison from catalog figures alone.
func compareFromData(funds []Fund) Comparison {
	pick := func(better func(a, b Fund) bool) Fund {
		best := funds[0]
		for _, f := range funds[1:] {
			if better(f, best) {
				best = f
			}
		}
		return best
	}

	best1 := pick(func(a, b Fund) bool { return a.Returns.OneYear > b.Returns.OneYear })
	best3 := pick(func(a, b Fund) bool { return a.Returns.ThreeYear > b.Returns.ThreeYear })
	best5 := pick(func(a, b Fund) bool { return a.Returns.FiveYear > b.Returns.FiveYear })
	lowRisk := pick(func(a, b Fund) bool { return riskRank[a.RiskLevel] < riskRank[b.RiskLevel] })
	highRisk := pick(func(a, b Fund) bool { return riskRank[a.RiskLevel] > riskRank[b.RiskLevel] })
	cheap := pick(func(a, b Fund) bool { return a.ExpenseRatio < b.ExpenseRatio })
	costly := pick(func(a, b Fund) bool { return a.ExpenseRatio > b.ExpenseRatio })
	rated := pick(func(a, b Fund) bool { return a.Rating > b.Rating })
	large := pick(func(a, b Fund) bool { return a.AUM > b.AUM })
	small := pick(func(a, b Fund) bool { return a.AUM < b.AUM })
	value := pick(func(a, b Fund) bool {
		return a.Returns.ThreeYear/a.ExpenseRatio > b.Returns.ThreeYear/b.ExpenseRatio
	})

	detail := DetailedAnalysis{
		Strengths:   make(map[string]string, len(funds)),
		Weaknesses:  make(map[string]string, len(funds)),
		Suitability: make(map[string]string, len(funds)),
	}
	for _, f := range funds {
		detail.Strengths[f.Name] = fmt.Sprintf("%.1f%% 3-year return with a %.1f rating", f.Returns.ThreeYear, f.Rating)
		detail.Weaknesses[f.Name] = fmt.Sprintf("%.2f%% expense ratio and %s risk", f.ExpenseRatio, strings.ToLower(f.RiskLevel))
		detail.Suitability[f.Name] = fmt.Sprintf("Investors comfortable with %s risk in %s %s funds", strings.ToLower(f.RiskLevel), f.Category, f.SubCategory)
	}

	return Comparison{
		Comparison: Dimensions{
			Performance: Analysis{
				Best1Year: best1.Name, Best3Year: best3.Name, Best5Year: best5.Name,
				Analysis: fmt.Sprintf("%s leads on 5-year returns at %.1f%%.", best5.Name, best5.Returns.FiveYear),
			},
			Risk: Analysis{
				LowestRisk: lowRisk.Name, HighestRisk: highRisk.Name,
				Analysis: fmt.Sprintf("Risk ranges from %s (%s) to %s (%s).", lowRisk.RiskLevel, lowRisk.Name, highRisk.RiskLevel, highRisk.Name),
			},
			Cost: Analysis{
				LowestExpense: cheap.Name, HighestExpense: costly.Name,
				Analysis: fmt.Sprintf("Expense ratios range from %.2f%% to %.2f%%.", cheap.ExpenseRatio, costly.ExpenseRatio),
			},
			Rating: Analysis{
				HighestRated: rated.Name,
				Analysis:     fmt.Sprintf("%s has the highest rating at %.1f.", rated.Name, rated.Rating),
			},
			AUM: Analysis{
				Largest: large.Name, Smallest: small.Name,
				Analysis: fmt.Sprintf("Assets under management range from %.0f to %.0f crore.", small.AUM, large.AUM),
			},
		},
		Recommendations: Picks{
			BestOverall:         rated.Name,
			BestForConservative: lowRisk.Name,
			BestForAggressive:   best5.Name,
			BestValue:           value.Name,
			Reasoning:           "Picks are derived from catalog ratings, returns, risk levels and expense ratios.",
		},
		Summary:          fmt.Sprintf("Compared %d funds on returns, risk, cost, rating and size.", len(funds)),
		DetailedAnalysis: detail,
	}
}
