// Package state is the durable key/value surface behind the in-memory
// stores. Each store serializes its whole collection to JSON under a fixed
// key after every mutation and reads it back once at startup.
package state

import (
	"context"
	"errors"
	"time"

	"go.uber.org/fx"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Logical keys, kept byte-compatible with backups of earlier releases.
const (
	KeyProducts  = "psh_products"
	KeyCustomers = "psh_customers"
	KeyOrders    = "psh_orders"
)

// Module provides the gorm-backed store.
var Module = fx.Module("state", fx.Provide(New))

// Store is the persistence collaborator contract: get-or-absent and
// fire-and-forget set.
type Store interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
}

type AppState struct {
	Key       string    `gorm:"primaryKey;type:text" json:"key"`
	Value     string    `gorm:"type:text;not null" json:"value"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (AppState) TableName() string { return "app_states" }

type gormStore struct {
	db *gorm.DB
}

func New(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) Get(ctx context.Context, key string) (string, bool, error) {
	var row AppState
	err := s.db.WithContext(ctx).First(&row, "key = ?", key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return row.Value, true, nil
}

func (s *gormStore) Set(ctx context.Context, key, value string) error {
	row := AppState{Key: key, Value: value, UpdatedAt: time.Now().UTC()}
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(&row).Error
}
