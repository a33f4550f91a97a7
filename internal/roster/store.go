// Package roster remembers the player names between restarts.
package roster

import (
	"context"
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Store persists the names in turn order.
type Store interface {
	Load(ctx context.Context) ([]string, error)
	Save(ctx context.Context, names []string) error
}

// LoadOr returns the stored roster, or fallback when nothing is stored.
func LoadOr(ctx context.Context, store Store, fallback []string) ([]string, error) {
	names, err := store.Load(ctx)
	if err != nil {
		return nil, err
	}
	if len(names) == 0 {
		return fallback, nil
	}
	return names, nil
}

type entry struct {
	ID       uint   `gorm:"primaryKey"`
	Position int    `gorm:"not null;index"`
	Name     string `gorm:"not null"`
}

func (entry) TableName() string { return "roster_entries" }

type GormStore struct {
	db *gorm.DB
}

// OpenPostgres connects with dsn and migrates the roster table.
func OpenPostgres(dsn string) (*GormStore, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open roster db: %w", err)
	}
	return NewGormStore(db)
}

func NewGormStore(db *gorm.DB) (*GormStore, error) {
	if err := db.AutoMigrate(&entry{}); err != nil {
		return nil, fmt.Errorf("migrate roster: %w", err)
	}
	return &GormStore{db: db}, nil
}

func (s *GormStore) Load(ctx context.Context) ([]string, error) {
	var rows []entry
	if err := s.db.WithContext(ctx).Order("position").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("load roster: %w", err)
	}
	names := make([]string, len(rows))
	for i, row := range rows {
		names[i] = row.Name
	}
	return names, nil
}

// Save replaces the stored roster.
func (s *GormStore) Save(ctx context.Context, names []string) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&entry{}).Error; err != nil {
			return err
		}
		if len(names) == 0 {
			return nil
		}
		rows := make([]entry, len(names))
		for i, name := range names {
			rows[i] = entry{Position: i, Name: name}
		}
		return tx.Create(&rows).Error
	})
	if err != nil {
		return fmt.Errorf("save roster: %w", err)
	}
	return nil
}

func (s *GormStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
