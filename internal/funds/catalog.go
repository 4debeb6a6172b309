package funds

type Returns struct {
	OneYear   float64 `json:"1Y"`
	ThreeYear float64 `json:"3Y"`
	FiveYear  float64 `json:"5Y"`
}

type Fund struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	FundHouse     string  `json:"fundHouse"`
	Category      string  `json:"category"`
	SubCategory   string  `json:"subCategory"`
	RiskLevel     string  `json:"riskLevel"`
	Rating        float64 `json:"rating"`
	ExpenseRatio  float64 `json:"expenseRatio"`
	NAV           float64 `json:"nav"`
	Returns       Returns `json:"returns"`
	AUM           float64 `json:"aum"`
	MinInvestment float64 `json:"minInvestment"`
	Description   string  `json:"description"`
	IsActive      bool    `json:"isActive"`
}

var RiskLevels = []string{"Low", "Moderate", "High", "Very High"}

var riskRank = map[string]int{"Low": 0, "Moderate": 1, "High": 2, "Very High": 3}

// Catalog is the static list of funds the service offers.
var Catalog = []Fund{
	{
		ID: "fund_001", Name: "HDFC Mid-Cap Opportunities Fund", FundHouse: "HDFC Mutual Fund",
		Category: "Equity", SubCategory: "Mid Cap", RiskLevel: "High", Rating: 4.5, ExpenseRatio: 1.85, NAV: 125.45,
		Returns: Returns{18.5, 22.3, 19.8}, AUM: 25000, MinInvestment: 500, IsActive: true,
		Description: "A mid-cap equity fund focusing on growth opportunities in mid-sized companies.",
	},
	{
		ID: "fund_002", Name: "Axis Bluechip Fund", FundHouse: "Axis Mutual Fund",
		Category: "Equity", SubCategory: "Large Cap", RiskLevel: "Moderate", Rating: 4.2, ExpenseRatio: 1.75, NAV: 45.67,
		Returns: Returns{15.2, 18.9, 16.5}, AUM: 35000, MinInvestment: 500, IsActive: true,
		Description: "A large-cap equity fund investing in blue-chip companies.",
	},
	{
		ID: "fund_003", Name: "ICICI Prudential Balanced Advantage Fund", FundHouse: "ICICI Prudential Mutual Fund",
		Category: "Hybrid", SubCategory: "Balanced", RiskLevel: "Moderate", Rating: 4.0, ExpenseRatio: 1.95, NAV: 28.90,
		Returns: Returns{12.8, 15.6, 13.2}, AUM: 18000, MinInvestment: 1000, IsActive: true,
		Description: "A balanced fund with dynamic asset allocation between equity and debt.",
	},
	{
		ID: "fund_004", Name: "SBI Magnum Gilt Fund", FundHouse: "SBI Mutual Fund",
		Category: "Debt", SubCategory: "Gilt", RiskLevel: "Low", Rating: 3.8, ExpenseRatio: 1.25, NAV: 35.20,
		Returns: Returns{8.5, 9.2, 8.8}, AUM: 12000, MinInvestment: 5000, IsActive: true,
		Description: "A government securities fund with low risk and stable returns.",
	},
	{
		ID: "fund_005", Name: "Kotak Emerging Equity Fund", FundHouse: "Kotak Mutual Fund",
		Category: "Equity", SubCategory: "Small Cap", RiskLevel: "Very High", Rating: 4.3, ExpenseRatio: 2.10, NAV: 85.30,
		Returns: Returns{25.6, 28.4, 24.7}, AUM: 8500, MinInvestment: 1000, IsActive: true,
		Description: "A small-cap equity fund targeting high growth potential companies.",
	},
	{
		ID: "fund_006", Name: "Aditya Birla Sun Life Corporate Bond Fund", FundHouse: "Aditya Birla Sun Life Mutual Fund",
		Category: "Debt", SubCategory: "Corporate Bond", RiskLevel: "Low", Rating: 4.1, ExpenseRatio: 1.45, NAV: 42.15,
		Returns: Returns{9.8, 10.5, 9.9}, AUM: 15000, MinInvestment: 5000, IsActive: true,
		Description: "A corporate bond fund with focus on high-quality debt instruments.",
	},
	{
		ID: "fund_007", Name: "Mirae Asset Tax Saver Fund", FundHouse: "Mirae Asset Mutual Fund",
		Category: "Equity", SubCategory: "ELSS", RiskLevel: "High", Rating: 4.4, ExpenseRatio: 1.80, NAV: 65.80,
		Returns: Returns{20.3, 24.1, 21.5}, AUM: 9500, MinInvestment: 500, IsActive: true,
		Description: "An ELSS fund offering tax benefits under Section 80C.",
	},
	{
		ID: "fund_008", Name: "Nippon India Large Cap Fund", FundHouse: "Nippon India Mutual Fund",
		Category: "Equity", SubCategory: "Large Cap", RiskLevel: "Moderate", Rating: 3.9, ExpenseRatio: 1.70, NAV: 38.45,
		Returns: Returns{14.7, 17.2, 15.1}, AUM: 22000, MinInvestment: 500, IsActive: true,
		Description: "A large-cap fund with focus on established companies.",
	},
	{
		ID: "fund_009", Name: "UTI Banking and Financial Services Fund", FundHouse: "UTI Mutual Fund",
		Category: "Equity", SubCategory: "Sectoral", RiskLevel: "Very High", Rating: 4.0, ExpenseRatio: 2.05, NAV: 55.20,
		Returns: Returns{16.8, 19.5, 17.2}, AUM: 6800, MinInvestment: 1000, IsActive: true,
		Description: "A sectoral fund focused on banking and financial services.",
	},
	{
		ID: "fund_010", Name: "Franklin India Low Duration Fund", FundHouse: "Franklin Templeton Mutual Fund",
		Category: "Debt", SubCategory: "Low Duration", RiskLevel: "Low", Rating: 3.7, ExpenseRatio: 1.35, NAV: 25.90,
		Returns: Returns{7.2, 7.8, 7.5}, AUM: 8500, MinInvestment: 5000, IsActive: true,
		Description: "A low duration debt fund with minimal interest rate risk.",
	},
}

type Holding struct {
	Sector     string  `json:"sector,omitempty"`
	Instrument string  `json:"instrument,omitempty"`
	Asset      string  `json:"asset,omitempty"`
	Weight     float64 `json:"weight"`
}

var holdingsByCategory = map[string][]Holding{
	"Equity": {
		{Sector: "Technology", Weight: 25.5},
		{Sector: "Financial Services", Weight: 20.3},
		{Sector: "Healthcare", Weight: 15.7},
		{Sector: "Consumer Goods", Weight: 12.4},
		{Sector: "Energy", Weight: 10.1},
		{Sector: "Others", Weight: 16.0},
	},
	"Debt": {
		{Instrument: "Government Securities", Weight: 45.2},
		{Instrument: "Corporate Bonds", Weight: 30.8},
		{Instrument: "Money Market", Weight: 15.5},
		{Instrument: "Others", Weight: 8.5},
	},
	"Hybrid": {
		{Asset: "Equity", Weight: 65.0},
		{Asset: "Debt", Weight: 25.0},
		{Asset: "Others", Weight: 10.0},
	},
}

// periodDays maps a performance period to the number of days it covers.
var periodDays = map[string]int{
	"1M":  30,
	"3M":  90,
	"6M":  180,
	"1Y":  365,
	"3Y":  1095,
	"5Y":  1825,
	"ALL": 3650,
}
