package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v6"
)

// ErrInvalidConfig is returned by Validate for out-of-range assumptions.
var ErrInvalidConfig = errors.New("invalid config")

// Config holds every market assumption and threshold used by the analysis
// engine. Defaults are calibrated for a single metro market and can be
// overridden per field through the environment.
type Config struct {
	// Comparable search
	Search struct {
		// Radius tiers (miles) tried in order until MinComps is reached
		RadiusTiers []float64 `env:"SEARCH_RADIUS_TIERS" envDefault:"0.5,1,2,5,10" envSeparator:","`

		MaxRadius      float64 `env:"SEARCH_MAX_RADIUS" envDefault:"10"`
		MinComps       int     `env:"SEARCH_MIN_COMPS" envDefault:"3"`
		MaxComps       int     `env:"SEARCH_MAX_COMPS" envDefault:"15"`
		LookbackMonths int     `env:"SEARCH_LOOKBACK_MONTHS" envDefault:"12"`

		// Neighborhood ceiling
		CeilingRadius     float64 `env:"CEILING_RADIUS" envDefault:"0.5"`
		CeilingPercentile float64 `env:"CEILING_PERCENTILE" envDefault:"0.90"`
	}

	// Buy and sell side transaction costs, as fractions of price
	Transaction struct {
		BuyClosingRate  float64 `env:"BUY_CLOSING_RATE" envDefault:"0.01"`
		SellClosingRate float64 `env:"SELL_CLOSING_RATE" envDefault:"0.01"`
		TransferTaxRate float64 `env:"TRANSFER_TAX_RATE" envDefault:"0.01"`
		CommissionRate  float64 `env:"COMMISSION_RATE" envDefault:"0.04"`
	}

	// Carrying costs during the hold period
	Holding struct {
		DefaultTaxRate   float64 `env:"DEFAULT_TAX_RATE" envDefault:"0.0125"`
		InsuranceRate    float64 `env:"INSURANCE_RATE" envDefault:"0.005"`
		MonthlyUtilities float64 `env:"MONTHLY_UTILITIES" envDefault:"250"`
	}

	// Hard-money financing for the financed flip
	HardMoney struct {
		LTV          float64 `env:"HARD_MONEY_LTV" envDefault:"0.80"`
		Points       float64 `env:"HARD_MONEY_POINTS" envDefault:"0.02"`
		InterestRate float64 `env:"HARD_MONEY_RATE" envDefault:"0.12"`
	}

	// Buy-and-hold operating assumptions
	Rental struct {
		RentToValueRatio float64 `env:"RENT_TO_VALUE_RATIO" envDefault:"0.008"`
		VacancyRate      float64 `env:"RENTAL_VACANCY_RATE" envDefault:"0.08"`
		ManagementRate   float64 `env:"RENTAL_MANAGEMENT_RATE" envDefault:"0.10"`
		CapexRate        float64 `env:"RENTAL_CAPEX_RATE" envDefault:"0.05"`
		MaintenanceRate  float64 `env:"RENTAL_MAINTENANCE_RATE" envDefault:"0.01"`
		InsuranceRate    float64 `env:"RENTAL_INSURANCE_RATE" envDefault:"0.005"`
		PropertyTaxRate  float64 `env:"RENTAL_PROPERTY_TAX_RATE" envDefault:"0.0125"`
		LandValuePct     float64 `env:"LAND_VALUE_PCT" envDefault:"0.20"`
		TaxBracket       float64 `env:"TAX_BRACKET" envDefault:"0.24"`
	}

	// Post-rehab refinance for BRRRR
	Refinance struct {
		LTV       float64 `env:"REFI_LTV" envDefault:"0.75"`
		Rate      float64 `env:"REFI_RATE" envDefault:"0.07"`
		TermYears int     `env:"REFI_TERM_YEARS" envDefault:"30"`
	}

	// Maximum allowable offer
	Offer struct {
		MAOPercent float64 `env:"MAO_PERCENT" envDefault:"0.70"`
	}

	// Disqualification and viability thresholds
	Thresholds struct {
		MinListPrice     float64 `env:"MIN_LIST_PRICE" envDefault:"100000"`
		MinLivingArea    float64 `env:"MIN_LIVING_AREA" envDefault:"600"`
		MinFlipProfit    float64 `env:"MIN_FLIP_PROFIT" envDefault:"25000"`
		MinFlipROI       float64 `env:"MIN_FLIP_ROI" envDefault:"15"`
		MinCapRate       float64 `env:"MIN_CAP_RATE" envDefault:"3.0"`
		MinMonthlyNOI    float64 `env:"MIN_MONTHLY_NOI" envDefault:"-200"`
		MinDSCR          float64 `env:"MIN_DSCR" envDefault:"0.9"`
		MaxCashLeftRatio float64 `env:"MAX_CASH_LEFT_RATIO" envDefault:"2.0"`
	}

	Database struct {
		ListingsPath string `env:"LISTINGS_DB_PATH" envDefault:"database/listings.db"`
		ResultsPath  string `env:"RESULTS_DB_PATH" envDefault:"database/results.db"`
	}

	// Address lookup for ingested listings without coordinates
	Geocoding struct {
		Enabled      bool          `env:"GEOCODING_ENABLED" envDefault:"false"`
		URL          string        `env:"GEOCODING_URL" envDefault:"https://nominatim.openstreetmap.org/search"`
		CountryCodes string        `env:"GEOCODING_COUNTRY_CODES" envDefault:"us"`
		CacheDir     string        `env:"GEOCODING_CACHE_DIR" envDefault:"database"`
		RequestDelay time.Duration `env:"GEOCODING_REQUEST_DELAY" envDefault:"1s"`
	}

	// BatchProcessing configuration
	BatchProcessing struct {
		// Number of concurrent analysis workers
		Workers int `env:"BATCH_WORKERS" envDefault:"2"`

		// Listing ids per batch and batches the queue can hold
		BatchSize int `env:"BATCH_SIZE" envDefault:"50"`
		QueueSize int `env:"BATCH_QUEUE_SIZE" envDefault:"100"`

		// Maximum number of retries for failed saves
		MaxRetries int `env:"BATCH_MAX_RETRIES" envDefault:"3"`

		// Delay between retries in seconds
		RetryDelay int `env:"BATCH_RETRY_DELAY" envDefault:"5"`
	}

	Logging struct {
		Level  string `env:"LOG_LEVEL" envDefault:"info"`
		Format string `env:"LOG_FORMAT" envDefault:"json"`
	}
}

// LoadConfig reads the configuration from the environment.
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Default returns the calibrated defaults without reading the environment.
func Default() *Config {
	cfg := &Config{}
	if err := env.Parse(cfg, env.Options{Environment: map[string]string{}}); err != nil {
		// envDefault tags are static; a failure here is a programming error
		panic(fmt.Sprintf("invalid default config: %v", err))
	}
	return cfg
}

// SaleCostRate is the fraction of the sale price lost to selling costs.
func (c *Config) SaleCostRate() float64 {
	return c.Transaction.CommissionRate + c.Transaction.SellClosingRate + c.Transaction.TransferTaxRate
}

// LookbackStart returns the earliest close date a comparable sale may have.
func (c *Config) LookbackStart(now time.Time) time.Time {
	return now.AddDate(0, -c.Search.LookbackMonths, 0)
}

// Validate checks that all configuration values are usable
func (c *Config) Validate() error {
	if len(c.Search.RadiusTiers) == 0 {
		return fmt.Errorf("%w: search radius tiers must not be empty", ErrInvalidConfig)
	}
	for i, r := range c.Search.RadiusTiers {
		if r <= 0 {
			return fmt.Errorf("%w: radius tier %d must be positive", ErrInvalidConfig, i)
		}
		if i > 0 && r <= c.Search.RadiusTiers[i-1] {
			return fmt.Errorf("%w: radius tiers must be ascending", ErrInvalidConfig)
		}
	}
	if c.Search.MinComps < 1 {
		return fmt.Errorf("%w: search min comps must be at least 1", ErrInvalidConfig)
	}
	if c.Search.MaxComps < c.Search.MinComps {
		return fmt.Errorf("%w: search max comps must be >= min comps", ErrInvalidConfig)
	}
	if c.Search.LookbackMonths < 1 {
		return fmt.Errorf("%w: lookback must be at least 1 month", ErrInvalidConfig)
	}
	if c.Search.CeilingPercentile <= 0 || c.Search.CeilingPercentile > 1 {
		return fmt.Errorf("%w: ceiling percentile must be in (0, 1]", ErrInvalidConfig)
	}

	rates := map[string]float64{
		"buy closing rate":      c.Transaction.BuyClosingRate,
		"sell closing rate":     c.Transaction.SellClosingRate,
		"transfer tax rate":     c.Transaction.TransferTaxRate,
		"commission rate":       c.Transaction.CommissionRate,
		"default tax rate":      c.Holding.DefaultTaxRate,
		"insurance rate":        c.Holding.InsuranceRate,
		"hard money points":     c.HardMoney.Points,
		"hard money rate":       c.HardMoney.InterestRate,
		"vacancy rate":          c.Rental.VacancyRate,
		"management rate":       c.Rental.ManagementRate,
		"capex rate":            c.Rental.CapexRate,
		"maintenance rate":      c.Rental.MaintenanceRate,
		"rental insurance rate": c.Rental.InsuranceRate,
		"rental tax rate":       c.Rental.PropertyTaxRate,
		"land value pct":        c.Rental.LandValuePct,
		"tax bracket":           c.Rental.TaxBracket,
		"refi rate":             c.Refinance.Rate,
		"mao percent":           c.Offer.MAOPercent,
	}
	for name, v := range rates {
		if v < 0 || v > 1 {
			return fmt.Errorf("%w: %s must be between 0 and 1", ErrInvalidConfig, name)
		}
	}
	if c.SaleCostRate() >= 1 {
		return fmt.Errorf("%w: combined sale cost rate must be below 1", ErrInvalidConfig)
	}
	if c.HardMoney.LTV <= 0 || c.HardMoney.LTV >= 1 {
		return fmt.Errorf("%w: hard money ltv must be in (0, 1)", ErrInvalidConfig)
	}
	if c.Refinance.LTV <= 0 || c.Refinance.LTV >= 1 {
		return fmt.Errorf("%w: refi ltv must be in (0, 1)", ErrInvalidConfig)
	}
	if c.Refinance.TermYears < 1 {
		return fmt.Errorf("%w: refi term must be at least 1 year", ErrInvalidConfig)
	}

	if c.BatchProcessing.Workers < 1 || c.BatchProcessing.BatchSize < 1 || c.BatchProcessing.QueueSize < 1 {
		return fmt.Errorf("%w: batch workers, size and queue size must be positive", ErrInvalidConfig)
	}
	if c.BatchProcessing.MaxRetries < 0 || c.BatchProcessing.RetryDelay < 0 {
		return fmt.Errorf("%w: batch retries and delay must not be negative", ErrInvalidConfig)
	}

	if c.Geocoding.Enabled && c.Geocoding.URL == "" {
		return fmt.Errorf("%w: geocoding url is required when geocoding is enabled", ErrInvalidConfig)
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Logging.Level] {
		return fmt.Errorf("%w: log level must be one of: debug, info, warn, error", ErrInvalidConfig)
	}
	validFormats := map[string]bool{"json": true, "text": true}
	if !validFormats[c.Logging.Format] {
		return fmt.Errorf("%w: log format must be one of: json, text", ErrInvalidConfig)
	}
	return nil
}
