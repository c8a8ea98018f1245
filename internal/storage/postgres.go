package storage

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/aldoetobex/mojaz-backend/pkg/models"
)

// snapshotID is the primary key of the only row the gateway writes.
const snapshotID = 1

// DatasetSnapshot is the persisted document stored as jsonb.
type DatasetSnapshot struct {
	ID        uint           `gorm:"primaryKey"`
	Document  datatypes.JSON `gorm:"type:jsonb;not null"`
	UpdatedAt time.Time
}

func (DatasetSnapshot) TableName() string { return "datasets" }

// Postgres stores the same document JSONFile writes, as a single upserted row.
type Postgres struct {
	db *gorm.DB
}

// NewPostgres migrates the datasets table and returns the gateway.
func NewPostgres(db *gorm.DB) (*Postgres, error) {
	if err := db.AutoMigrate(&DatasetSnapshot{}); err != nil {
		return nil, fmt.Errorf("migrate datasets: %w", err)
	}
	return &Postgres{db: db}, nil
}

func (p *Postgres) Load() (*models.Dataset, error) {
	var snap DatasetSnapshot
	err := p.db.First(&snap, snapshotID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.NewDataset(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read dataset row: %w", err)
	}
	ds, err := Decode(snap.Document)
	if err != nil {
		return models.NewDataset(), &LoadError{Source: "postgres:datasets", Err: err}
	}
	return ds, nil
}

func (p *Postgres) Save(ds *models.Dataset) error {
	raw, err := Encode(ds)
	if err != nil {
		return err
	}
	snap := DatasetSnapshot{ID: snapshotID, Document: datatypes.JSON(raw), UpdatedAt: time.Now()}
	err = p.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"document", "updated_at"}),
	}).Create(&snap).Error
	if err != nil {
		return fmt.Errorf("upsert dataset row: %w", err)
	}
	return nil
}
