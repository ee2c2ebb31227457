package database

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"dealscout/internal/models"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var (
	ErrAnalysisNotFound = errors.New("analysis not found")
	ErrMissingListingID = errors.New("missing listing id")
)

// AnalysisRecord is a persisted AnalysisResult. The headline figures are
// columns for querying; the complete result is kept as JSON.
type AnalysisRecord struct {
	ID                     uint      `gorm:"primaryKey"`
	ListingID              string    `gorm:"index;not null"`
	AnalyzedAt             time.Time `gorm:"index"`
	ARV                    float64
	Confidence             string
	ConfidenceScore        float64
	CompCount              int
	ListPrice              *float64
	RehabTotal             float64
	HoldMonths             int
	CashProfit             float64
	CashROI                float64
	CapRate                float64
	DSCR                   float64
	RiskGrade              string
	RiskScore              float64
	BestStrategy           *string
	DisqualificationReason *string
	OverallScore           float64
	Result                 string             `gorm:"type:text"`
	Comparables            []ComparableRecord `gorm:"foreignKey:AnalysisID"`
	CreatedAt              time.Time
}

func (AnalysisRecord) TableName() string {
	return "analysis_results"
}

// ComparableRecord is one adjusted comparable of a persisted analysis
type ComparableRecord struct {
	ID                 uint   `gorm:"primaryKey"`
	AnalysisID         uint   `gorm:"index;not null"`
	ListingID          string `gorm:"not null"`
	ClosePrice         float64
	CloseDate          *time.Time
	DistanceMiles      float64
	TotalAdjustment    float64
	AdjustedPrice      float64
	GrossAdjustmentPct float64
	Weight             float64
}

func (ComparableRecord) TableName() string {
	return "analysis_comparables"
}

// OpenResults opens the results database at path
func OpenResults(path string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open results database: %w", err)
	}
	if err := MigrateSchema(db); err != nil {
		return nil, err
	}
	return db, nil
}

// NewTestDB returns an empty in-memory results database
func NewTestDB() (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, err
	}

	// Every pooled connection would otherwise get its own empty database
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)

	return db, nil
}

// MigrateSchema creates or updates the results tables
func MigrateSchema(db *gorm.DB) error {
	if err := db.AutoMigrate(&AnalysisRecord{}, &ComparableRecord{}); err != nil {
		return fmt.Errorf("failed to migrate results schema: %w", err)
	}
	return nil
}

// NewAnalysisRecord flattens a result and its comparables into records
func NewAnalysisRecord(result *models.AnalysisResult) (*AnalysisRecord, error) {
	if result == nil || result.Subject.ListingID == "" {
		return nil, ErrMissingListingID
	}

	payload, err := json.Marshal(result)
	if err != nil {
		return nil, fmt.Errorf("failed to encode analysis: %w", err)
	}

	record := &AnalysisRecord{
		ListingID:              result.Subject.ListingID,
		AnalyzedAt:             result.AnalyzedAt,
		ARV:                    result.Arv.ARV,
		Confidence:             string(result.Arv.Confidence),
		ConfidenceScore:        result.Arv.ConfidenceScore,
		CompCount:              result.Arv.CompCount,
		ListPrice:              result.Subject.ListPrice,
		RehabTotal:             result.Rehab.Total,
		HoldMonths:             result.Hold.TotalMonths,
		CashProfit:             result.Cash.Profit,
		CashROI:                result.Cash.ROI,
		CapRate:                result.Rental.CapRate,
		DSCR:                   result.Brrrr.DSCR,
		RiskGrade:              result.Risk.Grade,
		RiskScore:              result.Risk.Score,
		DisqualificationReason: result.DisqualificationReason,
		OverallScore:           result.Scores.Overall,
		Result:                 string(payload),
		Comparables:            make([]ComparableRecord, 0, len(result.Arv.Comparables)),
	}
	if result.BestStrategy != nil {
		s := string(*result.BestStrategy)
		record.BestStrategy = &s
	}

	for _, adj := range result.Arv.Comparables {
		record.Comparables = append(record.Comparables, ComparableRecord{
			ListingID:          adj.Comparable.ListingID,
			ClosePrice:         adj.Comparable.ClosePrice,
			CloseDate:          adj.Comparable.CloseDate,
			DistanceMiles:      adj.Comparable.DistanceMiles,
			TotalAdjustment:    adj.TotalAdjustment,
			AdjustedPrice:      adj.AdjustedPrice,
			GrossAdjustmentPct: adj.GrossAdjustmentPct,
			Weight:             adj.Weight,
		})
	}
	return record, nil
}

// SaveAnalysis writes a result and its comparables using tx and returns the
// assigned id
func SaveAnalysis(tx *gorm.DB, result *models.AnalysisResult) (uint, error) {
	record, err := NewAnalysisRecord(result)
	if err != nil {
		return 0, err
	}
	if err := tx.Create(record).Error; err != nil {
		return 0, fmt.Errorf("failed to save analysis for %s: %w", record.ListingID, err)
	}
	return record.ID, nil
}

// ResultStore persists analysis results
type ResultStore struct {
	db     *gorm.DB
	logger *logrus.Logger
}

// NewResultStore creates a result store over a migrated database
func NewResultStore(db *gorm.DB, logger *logrus.Logger) *ResultStore {
	if logger == nil {
		logger = logrus.New()
		logger.SetFormatter(&logrus.JSONFormatter{})
		logger.SetOutput(os.Stdout)
	}
	return &ResultStore{db: db, logger: logger}
}

// DB exposes the underlying handle for callers that manage transactions
func (s *ResultStore) DB() *gorm.DB {
	return s.db
}

// SaveAnalysis stores the result and its comparables in one transaction
func (s *ResultStore) SaveAnalysis(result *models.AnalysisResult) (uint, error) {
	var id uint
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var err error
		id, err = SaveAnalysis(tx, result)
		return err
	})
	if err != nil {
		return 0, err
	}

	s.logger.WithFields(logrus.Fields{
		"analysis_id": id,
		"listing_id":  result.Subject.ListingID,
	}).Debug("Saved analysis")
	return id, nil
}

// GetRecord returns the stored record with its comparables
func (s *ResultStore) GetRecord(id uint) (*AnalysisRecord, error) {
	var record AnalysisRecord
	err := s.db.Preload("Comparables").First(&record, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %d", ErrAnalysisNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get analysis %d: %w", id, err)
	}
	return &record, nil
}

// GetAnalysis returns the stored result
func (s *ResultStore) GetAnalysis(id uint) (*models.AnalysisResult, error) {
	record, err := s.GetRecord(id)
	if err != nil {
		return nil, err
	}

	var result models.AnalysisResult
	if err := json.Unmarshal([]byte(record.Result), &result); err != nil {
		return nil, fmt.Errorf("failed to decode analysis %d: %w", id, err)
	}
	return &result, nil
}

// ListAnalyses returns the stored analyses of a listing, newest first
func (s *ResultStore) ListAnalyses(listingID string) ([]AnalysisRecord, error) {
	var records []AnalysisRecord
	err := s.db.Where("listing_id = ?", listingID).Order("analyzed_at DESC").Order("id DESC").Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list analyses for %s: %w", listingID, err)
	}
	return records, nil
}

// DeleteAnalysis removes the comparables and then the analysis itself
func (s *ResultStore) DeleteAnalysis(id uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("analysis_id = ?", id).Delete(&ComparableRecord{}).Error; err != nil {
			return fmt.Errorf("failed to delete comparables of analysis %d: %w", id, err)
		}

		res := tx.Delete(&AnalysisRecord{}, id)
		if res.Error != nil {
			return fmt.Errorf("failed to delete analysis %d: %w", id, res.Error)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("%w: %d", ErrAnalysisNotFound, id)
		}
		return nil
	})
}
