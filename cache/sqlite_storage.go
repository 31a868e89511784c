package cache

import (
	"log/slog"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"
)

type kvEntry struct {
	Key   string `gorm:"primaryKey;column:key"`
	Value string `gorm:"column:value;not null"`
}

func (kvEntry) TableName() string {
	return "kv_entries"
}

// SQLiteStorage is a file-backed Storage: a single-table string key-value
// store that survives process restarts, the closest server-side analogue of
// a browser's persistent local storage area.
type SQLiteStorage struct {
	db    *gorm.DB
	quota int64
}

// NewSQLiteStorage opens (creating if needed) the storage file at path.
// quotaBytes of 0 means unlimited.
func NewSQLiteStorage(path string, quotaBytes int64) (*SQLiteStorage, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, err
	}

	if err := db.AutoMigrate(&kvEntry{}); err != nil {
		return nil, err
	}

	slog.Info("sqlite storage opened", "path", path)

	return &SQLiteStorage{
		db:    db,
		quota: quotaBytes,
	}, nil
}

func (s *SQLiteStorage) Get(key string) (string, bool, error) {
	var entry kvEntry
	err := s.db.First(&entry, "key = ?", key).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return "", false, nil
		}
		return "", false, err
	}
	return entry.Value, true, nil
}

func (s *SQLiteStorage) Set(key, value string) error {
	if s.quota > 0 {
		used, err := s.usedBytes(key)
		if err != nil {
			return err
		}
		if used+int64(len(key)+len(value)) > s.quota {
			return ErrQuotaExceeded
		}
	}

	return s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value"}),
	}).Create(&kvEntry{Key: key, Value: value}).Error
}

func (s *SQLiteStorage) Delete(key string) error {
	return s.db.Delete(&kvEntry{}, "key = ?", key).Error
}

func (s *SQLiteStorage) Keys(prefix string) ([]string, error) {
	var keys []string
	err := s.db.Model(&kvEntry{}).
		Where("key LIKE ?", prefix+"%").
		Pluck("key", &keys).Error
	return keys, err
}

func (s *SQLiteStorage) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// usedBytes sums stored sizes excluding the key being replaced.
func (s *SQLiteStorage) usedBytes(excludeKey string) (int64, error) {
	var used int64
	err := s.db.Model(&kvEntry{}).
		Where("key <> ?", excludeKey).
		Select("COALESCE(SUM(LENGTH(key) + LENGTH(value)), 0)").
		Scan(&used).Error
	return used, err
}
