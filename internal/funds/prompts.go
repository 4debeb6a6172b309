package funds

import (
	"encoding/json"
	"fmt"
	"strings"
)

func recommendPrompt(p Preferences) string {
	category := ""
	if p.Category != "" {
		category = ", Category: " + p.Category
	}
	return fmt.Sprintf(`Generate 3 Indian mutual fund recommendations for:
Goal: %s, Horizon: %s, Risk: %s, Amount: ₹%.0f%s

Return JSON only:
{
  "recommendedFunds": [
    {
      "id": "fund_001",
      "name": "Fund Name",
      "fundHouse": "Fund House",
      "category": "Equity",
      "subCategory": "Large Cap",
      "riskLevel": "%s",
      "rating": 4.2,
      "expenseRatio": 1.85,
      "nav": 125.45,
      "returns": {"1Y": 18.5, "3Y": 22.3, "5Y": 19.8},
      "aum": 25000,
      "minInvestment": 500,
      "description": "Brief description",
      "isActive": true,
      "reason": "Why suitable for this user"
    }
  ],
  "reasoning": "Brief strategy explanation"
}`, p.InvestmentGoal, p.InvestmentHorizon, p.RiskTolerance, p.InvestmentAmount, category, p.RiskTolerance)
}

func comparePrompt(funds []Fund) string {
	data, _ := json.MarshalIndent(funds, "", "  ")
	names := make([]string, len(funds))
	for i, f := range funds {
		names[i] = f.Name
	}
	return fmt.Sprintf(`You are a mutual fund analyst. Compare these Indian mutual funds: %s.

Fund data:
%s

Return JSON only, using fund names as values and keys:
{
  "comparison": {
    "performance": {"best1Year": "", "best3Year": "", "best5Year": "", "analysis": ""},
    "risk": {"lowestRisk": "", "highestRisk": "", "analysis": ""},
    "cost": {"lowestExpense": "", "highestExpense": "", "analysis": ""},
    "rating": {"highestRated": "", "analysis": ""},
    "aum": {"largest": "", "smallest": "", "analysis": ""}
  },
  "recommendations": {
    "bestOverall": "", "bestForConservative": "", "bestForAggressive": "", "bestValue": "", "reasoning": ""
  },
  "summary": "",
  "detailedAnalysis": {
    "strengths": {"Fund Name": ""},
    "weaknesses": {"Fund Name": ""},
    "suitability": {"Fund Name": ""}
  }
}`, strings.Join(names, ", "), data)
}
