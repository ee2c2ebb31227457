package models

import "time"

// ConfidenceLevel is the discrete ARV confidence bucket
type ConfidenceLevel string

const (
	ConfidenceNone   ConfidenceLevel = "none"
	ConfidenceLow    ConfidenceLevel = "low"
	ConfidenceMedium ConfidenceLevel = "medium"
	ConfidenceHigh   ConfidenceLevel = "high"
)

// Adjustment feature names
const (
	AdjBedrooms  = "bedrooms"
	AdjBathrooms = "bathrooms"
	AdjSqft      = "sqft"
	AdjYearBuilt = "year_built"
	AdjGarage    = "garage"
	AdjLotSize   = "lot_size"
)

// AdjustedComparable is a comparable sale with appraisal adjustments applied
type AdjustedComparable struct {
	Comparable         ComparableSale     `json:"comparable"`
	Adjustments        map[string]float64 `json:"adjustments"`
	TotalAdjustment    float64            `json:"total_adjustment"`
	AdjustedPrice      float64            `json:"adjusted_price"`
	GrossAdjustmentPct float64            `json:"gross_adjustment_pct"`
	Weight             float64            `json:"weight"`
}

// ArvResult is the after-repair value estimate with its supporting detail
type ArvResult struct {
	ARV                 float64              `json:"arv"`
	Confidence          ConfidenceLevel      `json:"confidence"`
	ConfidenceScore     float64              `json:"confidence_score"`
	CompCount           int                  `json:"comp_count"`
	AvgPricePerArea     *float64             `json:"avg_price_per_area"`
	NeighborhoodCeiling *float64             `json:"neighborhood_ceiling"`
	PriceCV             float64              `json:"price_cv"`
	AvgDistanceMiles    float64              `json:"avg_distance_miles"`
	AvgMonthsSinceSale  float64              `json:"avg_months_since_sale"`
	AvgDaysOnMarket     float64              `json:"avg_days_on_market"`
	Comparables         []AdjustedComparable `json:"comparables"`
}

// EmptyArvResult is the sentinel returned when no comparables are available
func EmptyArvResult() ArvResult {
	return ArvResult{
		Confidence:  ConfidenceNone,
		Comparables: []AdjustedComparable{},
	}
}

type RehabEstimate struct {
	Age                 int     `json:"age"`
	BasePpsf            float64 `json:"base_ppsf"`
	ConditionMultiplier float64 `json:"condition_multiplier"`
	EffectivePpsf       float64 `json:"effective_ppsf"`
	BaseCost            float64 `json:"base_cost"`
	ContingencyRate     float64 `json:"contingency_rate"`
	Contingency         float64 `json:"contingency"`
	LeadPaintAllowance  float64 `json:"lead_paint_allowance"`
	Total               float64 `json:"total"`
	PerSqft             float64 `json:"per_sqft"`
}

type HoldPeriod struct {
	RehabMonths  int `json:"rehab_months"`
	SaleMonths   int `json:"sale_months"`
	PermitBuffer int `json:"permit_buffer"`
	TotalMonths  int `json:"total_months"`
}

type TransactionCosts struct {
	PurchaseClosing float64 `json:"purchase_closing"`
	SaleCosts       float64 `json:"sale_costs"`
}

type HoldingCosts struct {
	MonthlyTax       float64 `json:"monthly_tax"`
	MonthlyInsurance float64 `json:"monthly_insurance"`
	MonthlyUtilities float64 `json:"monthly_utilities"`
	Monthly          float64 `json:"monthly"`
	Months           int     `json:"months"`
	Total            float64 `json:"total"`
}

// CashScenario is an all-cash flip
type CashScenario struct {
	Profit          float64 `json:"profit"`
	TotalInvestment float64 `json:"total_investment"`
	ROI             float64 `json:"roi"`
}

// FinancedScenario is a hard-money financed flip
type FinancedScenario struct {
	LoanAmount      float64 `json:"loan_amount"`
	Origination     float64 `json:"origination"`
	MonthlyInterest float64 `json:"monthly_interest"`
	FinancingCost   float64 `json:"financing_cost"`
	Profit          float64 `json:"profit"`
	CashInvested    float64 `json:"cash_invested"`
	CashOnCashROI   float64 `json:"cash_on_cash_roi"`
	AnnualizedROI   float64 `json:"annualized_roi"`
}

// RentalScenario is a buy-and-hold rental
type RentalScenario struct {
	MonthlyRent        float64 `json:"monthly_rent"`
	AnnualGross        float64 `json:"annual_gross"`
	Vacancy            float64 `json:"vacancy"`
	Management         float64 `json:"management"`
	Capex              float64 `json:"capex"`
	Maintenance        float64 `json:"maintenance"`
	Insurance          float64 `json:"insurance"`
	PropertyTax        float64 `json:"property_tax"`
	TotalExpenses      float64 `json:"total_expenses"`
	NOI                float64 `json:"noi"`
	MonthlyNOI         float64 `json:"monthly_noi"`
	CapRate            float64 `json:"cap_rate"`
	CashOnCash         float64 `json:"cash_on_cash"`
	GRM                float64 `json:"grm"`
	TotalInvestment    float64 `json:"total_investment"`
	AnnualDepreciation float64 `json:"annual_depreciation"`
	TaxShelter         float64 `json:"tax_shelter"`
}

// BrrrrScenario is a rental refinanced after rehab
type BrrrrScenario struct {
	RefiLoan          float64 `json:"refi_loan"`
	MonthlyPayment    float64 `json:"monthly_payment"`
	AnnualDebtService float64 `json:"annual_debt_service"`
	NOI               float64 `json:"noi"`
	PostRefiCashFlow  float64 `json:"post_refi_cash_flow"`
	MonthlyCashFlow   float64 `json:"monthly_cash_flow"`
	DSCR              float64 `json:"dscr"`
	TotalCashIn       float64 `json:"total_cash_in"`
	CashLeft          float64 `json:"cash_left"`
}

// OfferAnalysis holds maximum allowable offers and the breakeven ARV
type OfferAnalysis struct {
	ClassicMAO    float64 `json:"classic_mao"`
	AdjustedMAO   float64 `json:"adjusted_mao"`
	BreakevenARV  float64 `json:"breakeven_arv"`
	MarginCushion float64 `json:"margin_cushion"`
}

type RiskGrade struct {
	Grade   string             `json:"grade"`
	Score   float64            `json:"score"`
	Factors map[string]float64 `json:"factors"`
}

// Strategy is an investment exit strategy
type Strategy string

const (
	StrategyFlip   Strategy = "flip"
	StrategyBrrrr  Strategy = "brrrr"
	StrategyRental Strategy = "rental"
)

type Viability struct {
	Flip   bool `json:"flip"`
	Rental bool `json:"rental"`
	Brrrr  bool `json:"brrrr"`
}

// Scores are the composite opportunity scores, each in [0, 100]
type Scores struct {
	Financial float64 `json:"financial"`
	Property  float64 `json:"property"`
	Market    float64 `json:"market"`
	Overall   float64 `json:"overall"`
	Flip      float64 `json:"flip"`
	Rental    float64 `json:"rental"`
	Brrrr     float64 `json:"brrrr"`
}

// AnalysisResult is the complete evaluation of one subject property
type AnalysisResult struct {
	Subject                SubjectProperty  `json:"subject"`
	AnalyzedAt             time.Time        `json:"analyzed_at"`
	Arv                    ArvResult        `json:"arv"`
	Rehab                  RehabEstimate    `json:"rehab"`
	Hold                   HoldPeriod       `json:"hold"`
	Transaction            TransactionCosts `json:"transaction"`
	Holding                HoldingCosts     `json:"holding"`
	Cash                   CashScenario     `json:"cash"`
	Financed               FinancedScenario `json:"financed"`
	Rental                 RentalScenario   `json:"rental"`
	Brrrr                  BrrrrScenario    `json:"brrrr"`
	Offer                  OfferAnalysis    `json:"offer"`
	Risk                   RiskGrade        `json:"risk"`
	PriceToARV             float64          `json:"price_to_arv"`
	Viability              Viability        `json:"viability"`
	BestStrategy           *Strategy        `json:"best_strategy"`
	DisqualificationReason *string          `json:"disqualification_reason"`
	Scores                 Scores           `json:"scores"`
}
