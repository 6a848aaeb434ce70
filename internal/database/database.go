package database

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"leadrouter/internal/campaign"
)

//go:embed seed_campaigns.json
var embeddedSeedCampaigns []byte

var ErrInvalidDateFilter = errors.New("invalid date filter, expected YYYY-MM-DD")

const defaultListLimit = 100

// AssignmentRecord is one served assignment in the local ledger.
type AssignmentRecord struct {
	ID           string    `gorm:"type:char(36);primaryKey" json:"id"`
	LeadName     string    `json:"lead_name"`
	LeadIndustry string    `json:"lead_industry"`
	LeadKeywords string    `gorm:"type:json" json:"lead_keywords"`
	CampaignID   string    `gorm:"index:idx_assignment_feed_campaign_id" json:"campaign_id"`
	CampaignName string    `json:"campaign_name"`
	SmartleadID  string    `json:"smartlead_id"`
	Strategy     string    `gorm:"index:idx_assignment_feed_strategy" json:"strategy"`
	Fallback     bool      `json:"fallback"`
	MatchReason  string    `json:"match_reason"`
	Surface      string    `json:"surface"`
	CreatedAt    time.Time `gorm:"autoCreateTime;index:idx_assignment_feed_created_at" json:"created_at"`
}

func (AssignmentRecord) TableName() string {
	return "assignment_feed"
}

func (a *AssignmentRecord) BeforeCreate(_ *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}
	a.CreatedAt = a.CreatedAt.UTC()
	return nil
}

// NewAssignmentRecord captures a lead and the result served for it.
func NewAssignmentRecord(lead campaign.Lead, result campaign.MatchResult, surface string) AssignmentRecord {
	keywords, _ := json.Marshal(lead.Keywords)
	if lead.Keywords == nil {
		keywords = []byte("[]")
	}

	return AssignmentRecord{
		LeadName:     lead.Name,
		LeadIndustry: lead.Industry,
		LeadKeywords: string(keywords),
		CampaignID:   result.Campaign.ID,
		CampaignName: result.Campaign.Name,
		SmartleadID:  result.Campaign.SmartleadID,
		Strategy:     string(result.Strategy),
		Fallback:     result.Fallback,
		MatchReason:  result.Reason,
		Surface:      surface,
	}
}

// CampaignRecord is a row of the local campaign catalog.
type CampaignRecord struct {
	ID          string `gorm:"primaryKey" json:"id"`
	Position    int    `gorm:"index:idx_campaigns_position" json:"position"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Keywords    string `gorm:"type:json" json:"keywords"`
	SmartleadID string `json:"smartlead_id"`
}

func (CampaignRecord) TableName() string {
	return "campaigns"
}

// AssignmentFilters narrows ListAssignments. Date is a UTC calendar day.
type AssignmentFilters struct {
	CampaignID string
	Strategy   string
	Date       string
	Limit      int
}

// Service represents a service that interacts with a database.
type Service interface {
	// Health returns a map of health status information.
	Health() map[string]string

	// RecordAssignment appends a served assignment to the ledger.
	RecordAssignment(ctx context.Context, record *AssignmentRecord) error

	// ListAssignments returns ledger rows, newest first.
	ListAssignments(ctx context.Context, filters AssignmentFilters) ([]AssignmentRecord, error)

	// ListCampaigns returns the local catalog in position order.
	ListCampaigns(ctx context.Context) ([]campaign.Campaign, error)

	// ReplaceCampaigns swaps the local catalog for campaigns.
	ReplaceCampaigns(ctx context.Context, campaigns []campaign.Campaign) error

	// SeedCampaigns loads the embedded catalog when the local one is empty.
	SeedCampaigns(ctx context.Context) (int, error)

	// Close terminates the database connection.
	Close() error
}

type service struct {
	db    *gorm.DB
	sqlDB *sql.DB
}

// NewSQLiteAdapter opens (and migrates) the SQLite database at dsn.
func NewSQLiteAdapter(dsn string) (Service, error) {
	return newSQLiteService(dsn)
}

func newSQLiteService(dsn string) (*service, error) {
	if dsn == "" {
		dsn = "./leadrouter.db"
	}

	gormDB, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	if err := gormDB.AutoMigrate(&AssignmentRecord{}, &CampaignRecord{}); err != nil {
		return nil, err
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, err
	}

	return &service{db: gormDB, sqlDB: sqlDB}, nil
}

func (s *service) RecordAssignment(ctx context.Context, record *AssignmentRecord) error {
	if record == nil {
		return errors.New("nil assignment record")
	}
	return s.db.WithContext(ctx).Create(record).Error
}

func (s *service) ListAssignments(ctx context.Context, filters AssignmentFilters) ([]AssignmentRecord, error) {
	query := s.db.WithContext(ctx).Model(&AssignmentRecord{})

	if value := strings.TrimSpace(filters.CampaignID); value != "" {
		query = query.Where("campaign_id = ?", value)
	}
	if value := strings.TrimSpace(filters.Strategy); value != "" {
		query = query.Where("strategy = ?", value)
	}
	if value := strings.TrimSpace(filters.Date); value != "" {
		day, err := time.Parse("2006-01-02", value)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrInvalidDateFilter, value)
		}
		query = query.Where("created_at >= ? AND created_at < ?", day, day.AddDate(0, 0, 1))
	}

	limit := filters.Limit
	if limit <= 0 || limit > defaultListLimit {
		limit = defaultListLimit
	}

	var records []AssignmentRecord
	if err := query.Order("created_at DESC").Limit(limit).Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

func (s *service) ListCampaigns(ctx context.Context) ([]campaign.Campaign, error) {
	var rows []CampaignRecord
	if err := s.db.WithContext(ctx).Order("position ASC").Order("id ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("%w: sqlite: %w", campaign.ErrStoreUnavailable, err)
	}

	campaigns := make([]campaign.Campaign, 0, len(rows))
	for _, row := range rows {
		keywords := []string{}
		if strings.TrimSpace(row.Keywords) != "" {
			if err := json.Unmarshal([]byte(row.Keywords), &keywords); err != nil {
				return nil, fmt.Errorf("%w: sqlite: campaign %s keywords: %w", campaign.ErrStoreUnavailable, row.ID, err)
			}
		}
		campaigns = append(campaigns, campaign.Campaign{
			ID:          row.ID,
			Name:        row.Name,
			Description: row.Description,
			Keywords:    keywords,
			SmartleadID: row.SmartleadID,
		})
	}
	return campaigns, nil
}

func (s *service) ReplaceCampaigns(ctx context.Context, campaigns []campaign.Campaign) error {
	rows := make([]CampaignRecord, 0, len(campaigns))
	for i, c := range campaigns {
		if strings.TrimSpace(c.ID) == "" {
			return fmt.Errorf("campaign at position %d has no id", i)
		}
		keywords := c.Keywords
		if keywords == nil {
			keywords = []string{}
		}
		encoded, err := json.Marshal(keywords)
		if err != nil {
			return err
		}
		rows = append(rows, CampaignRecord{
			ID:          c.ID,
			Position:    i,
			Name:        c.Name,
			Description: c.Description,
			Keywords:    string(encoded),
			SmartleadID: c.SmartleadID,
		})
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&CampaignRecord{}).Error; err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}
		return tx.Create(&rows).Error
	})
}

func (s *service) SeedCampaigns(ctx context.Context) (int, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&CampaignRecord{}).Count(&count).Error; err != nil {
		return 0, err
	}
	if count > 0 {
		return 0, nil
	}

	seed, err := loadSeedCampaigns()
	if err != nil {
		return 0, err
	}
	if err := s.ReplaceCampaigns(ctx, seed); err != nil {
		return 0, err
	}
	return len(seed), nil
}

func loadSeedCampaigns() ([]campaign.Campaign, error) {
	var seed []campaign.Campaign
	if err := json.Unmarshal(embeddedSeedCampaigns, &seed); err != nil {
		return nil, fmt.Errorf("decode seed campaigns: %w", err)
	}
	return seed, nil
}

// Health checks the health of the database connection by pinging the database.
func (s *service) Health() map[string]string {
	ctx, cancel := context.WithTimeout(context.Background(), 1*time.Second)
	defer cancel()

	stats := make(map[string]string)

	err := s.sqlDB.PingContext(ctx)
	if err != nil {
		stats["status"] = "down"
		stats["error"] = fmt.Sprintf("db down: %v", err)
		return stats
	}

	stats["status"] = "up"
	stats["message"] = "It's healthy"

	dbStats := s.sqlDB.Stats()
	stats["open_connections"] = strconv.Itoa(dbStats.OpenConnections)
	stats["in_use"] = strconv.Itoa(dbStats.InUse)
	stats["idle"] = strconv.Itoa(dbStats.Idle)
	stats["wait_count"] = strconv.FormatInt(dbStats.WaitCount, 10)
	stats["wait_duration"] = dbStats.WaitDuration.String()

	if dbStats.WaitCount > 1000 {
		stats["message"] = "The database has a high number of wait events, indicating potential bottlenecks."
	}

	return stats
}

// Close closes the database connection.
func (s *service) Close() error {
	return s.sqlDB.Close()
}
