package services

import (
	"errors"
	"strconv"

	"github.com/alphabatem/common/context"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"github.com/Chucky-Funds/earnova/model"
	"github.com/Chucky-Funds/earnova/shared"
)

// StoreService is the durable key-value layer. Every value is a string;
// typed accessors parse on the way out and fall back to a default rather
// than surfacing corruption to callers.
type StoreService struct {
	context.DefaultService
	db *gorm.DB

	database string
}

const STORE_SVC = "store_svc"

// Id returns Service ID
func (svc StoreService) Id() string {
	return STORE_SVC
}

// Db Access to the raw gorm handle
func (svc StoreService) Db() *gorm.DB {
	return svc.db
}

// Configure the service
func (svc *StoreService) Configure(ctx *context.Context) error {
	cfg := ctx.Service(CONFIG_SVC).(*ConfigService)
	svc.database = cfg.Get().Database

	return svc.DefaultService.Configure(ctx)
}

// Start opens the database and migrates the single entries table.
func (svc *StoreService) Start() (err error) {
	svc.db, err = gorm.Open(sqlite.Open(svc.database), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Error),
	})
	if err != nil {
		return err
	}

	if err = svc.db.AutoMigrate(&model.StoreEntry{}); err != nil {
		log.WithError(err).Error("failed to migrate store")
		return err
	}

	log.Println("store connected and migrated")
	return nil
}

func (svc *StoreService) Shutdown() {
}

// Get returns the raw value for key, or ("", false) when absent.
func (svc *StoreService) Get(key string) (string, bool) {
	var entry model.StoreEntry
	err := svc.db.First(&entry, "key = ?", key).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.WithError(err).WithField("key", key).Warn("store read failed")
		}
		return "", false
	}
	return entry.Value, true
}

func (svc *StoreService) Set(key, value string) error {
	entry := model.StoreEntry{Key: key, Value: value}
	err := svc.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value"}),
	}).Create(&entry).Error
	if err != nil {
		log.WithError(err).WithField("key", key).Error("store write failed")
	}
	return err
}

func (svc *StoreService) Delete(key string) error {
	return svc.db.Delete(&model.StoreEntry{}, "key = ?", key).Error
}

// KeysWithPrefix lists every stored key beginning with prefix.
func (svc *StoreService) KeysWithPrefix(prefix string) []string {
	var keys []string
	err := svc.db.Model(&model.StoreEntry{}).
		Where("key LIKE ?", prefix+"%").
		Pluck("key", &keys).Error
	if err != nil {
		log.WithError(err).WithField("prefix", prefix).Warn("store scan failed")
		return nil
	}
	return keys
}

// GetInt parses the stored value as an integer, returning def on absence
// or garbage.
func (svc *StoreService) GetInt(key string, def int) int {
	raw, ok := svc.Get(key)
	if !ok {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		log.WithField("key", key).Warn("unparseable int in store, using default")
		return def
	}
	return n
}

// GetDecimal parses the stored value as a decimal, returning def on absence
// or garbage.
func (svc *StoreService) GetDecimal(key string, def decimal.Decimal) decimal.Decimal {
	raw, ok := svc.Get(key)
	if !ok {
		return def
	}
	v, err := decimal.NewFromString(raw)
	if err != nil {
		log.WithField("key", key).Warn("unparseable decimal in store, using default")
		return def
	}
	return v
}

// GetJSON unmarshals the stored value into out. Returns false and leaves
// out untouched on absence or decode failure.
func (svc *StoreService) GetJSON(key string, out interface{}) bool {
	raw, ok := svc.Get(key)
	if !ok {
		return false
	}
	if err := shared.JSON.Unmarshal([]byte(raw), out); err != nil {
		log.WithError(err).WithField("key", key).Warn("unparseable json in store, using default")
		return false
	}
	return true
}

func (svc *StoreService) SetJSON(key string, v interface{}) error {
	raw, err := shared.JSON.Marshal(v)
	if err != nil {
		log.WithError(err).WithField("key", key).Error("store marshal failed")
		return err
	}
	return svc.Set(key, string(raw))
}

func (svc *StoreService) SetInt(key string, v int) error {
	return svc.Set(key, strconv.Itoa(v))
}

func (svc *StoreService) SetDecimal(key string, v decimal.Decimal) error {
	return svc.Set(key, v.String())
}
