package kvstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Entry is a single row of the schemaless store: a unique key mapped to a
// JSON blob. Callers own the meaning of both.
type Entry struct {
	Key   string         `gorm:"column:key;primaryKey"`
	Value datatypes.JSON `gorm:"column:value;not null"`
}

func (Entry) TableName() string {
	return "kv_store"
}

// Store defines the key-value operations the domain layers build on.
type Store interface {
	Set(ctx context.Context, key string, value any) error
	Get(ctx context.Context, key string, dest any) (bool, error)
	Del(ctx context.Context, key string) error
	MSet(ctx context.Context, keys []string, values []any) error
	MGet(ctx context.Context, keys []string) ([]json.RawMessage, error)
	MDel(ctx context.Context, keys []string) error
	GetByPrefix(ctx context.Context, prefix string) ([]json.RawMessage, error)
}

// GormStore implements Store on a single relational table through GORM.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// Set upserts the whole value under key. There is no partial merge: an
// existing value is replaced entirely.
func (s *GormStore) Set(ctx context.Context, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("kvstore: marshal value for key %s: %w", key, err)
	}

	entry := Entry{Key: key, Value: datatypes.JSON(raw)}
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value"}),
		}).
		Create(&entry).Error
}

// Get unmarshals the value stored under key into dest. A missing key is
// reported as found=false, not as an error.
func (s *GormStore) Get(ctx context.Context, key string, dest any) (bool, error) {
	var entry Entry
	err := s.db.WithContext(ctx).Where("key = ?", key).First(&entry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}

	if err := json.Unmarshal(entry.Value, dest); err != nil {
		return false, fmt.Errorf("kvstore: unmarshal value for key %s: %w", key, err)
	}
	return true, nil
}

// Del removes the row for key. Deleting an absent key is not an error.
func (s *GormStore) Del(ctx context.Context, key string) error {
	return s.db.WithContext(ctx).Where("key = ?", key).Delete(&Entry{}).Error
}

// MSet upserts parallel key/value slices as one batch.
func (s *GormStore) MSet(ctx context.Context, keys []string, values []any) error {
	if len(keys) != len(values) {
		return fmt.Errorf("kvstore: mset got %d keys and %d values", len(keys), len(values))
	}
	if len(keys) == 0 {
		return nil
	}

	entries := make([]Entry, len(keys))
	for i, key := range keys {
		raw, err := json.Marshal(values[i])
		if err != nil {
			return fmt.Errorf("kvstore: marshal value for key %s: %w", key, err)
		}
		entries[i] = Entry{Key: key, Value: datatypes.JSON(raw)}
	}

	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value"}),
		}).
		Create(&entries).Error
}

// MGet returns the values found for keys. Absent keys are silently omitted
// and result order is not guaranteed to match input order.
func (s *GormStore) MGet(ctx context.Context, keys []string) ([]json.RawMessage, error) {
	if len(keys) == 0 {
		return nil, nil
	}

	var entries []Entry
	err := s.db.WithContext(ctx).Where("key IN ?", keys).Find(&entries).Error
	if err != nil {
		return nil, err
	}

	values := make([]json.RawMessage, len(entries))
	for i, entry := range entries {
		values[i] = json.RawMessage(entry.Value)
	}
	return values, nil
}

// MDel removes all rows for keys in one statement.
func (s *GormStore) MDel(ctx context.Context, keys []string) error {
	if len(keys) == 0 {
		return nil
	}
	return s.db.WithContext(ctx).Where("key IN ?", keys).Delete(&Entry{}).Error
}

// GetByPrefix returns every value whose key starts with prefix. The prefix
// is matched literally; LIKE metacharacters in it are escaped. No pagination.
func (s *GormStore) GetByPrefix(ctx context.Context, prefix string) ([]json.RawMessage, error) {
	var entries []Entry
	pattern := escapeLike(prefix) + "%"
	err := s.db.WithContext(ctx).Where("key LIKE ? ESCAPE '\\'", pattern).Find(&entries).Error
	if err != nil {
		return nil, err
	}

	values := make([]json.RawMessage, len(entries))
	for i, entry := range entries {
		values[i] = json.RawMessage(entry.Value)
	}
	return values, nil
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
