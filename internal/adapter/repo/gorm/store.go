package gormrepo

import (
	"context"
	"errors"
	"time"

	"tapvault/internal/app/ports"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ProgressRecord mirrors one persisted payload per record key.
type ProgressRecord struct {
	RecordKey string `gorm:"primaryKey"`
	Payload   string
	UpdatedAt time.Time
}

// Store mirrors progress records into Postgres. It sits at the tail of
// the fallback chain as an off-device copy; the engine works fine
// without it.
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) (Store, error) {
	if err := db.AutoMigrate(&ProgressRecord{}); err != nil {
		return Store{}, err
	}
	return Store{db: db}, nil
}

func (s Store) Name() string { return "postgres" }

func (s Store) Save(ctx context.Context, key string, payload []byte) error {
	rec := ProgressRecord{
		RecordKey: key,
		Payload:   string(payload),
		UpdatedAt: time.Now().UTC(),
	}
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "record_key"}},
			DoUpdates: clause.AssignmentColumns([]string{"payload", "updated_at"}),
		}).
		Create(&rec).Error
}

func (s Store) Load(ctx context.Context, key string) ([]byte, error) {
	var rec ProgressRecord
	err := s.db.WithContext(ctx).Where("record_key = ?", key).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ports.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return []byte(rec.Payload), nil
}
