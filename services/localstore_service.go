package services

import (
	"encoding/json"
	"time"

	"github.com/avivhostel-jpg/Smart-Aviv/config"
	"github.com/avivhostel-jpg/Smart-Aviv/models"

	"gorm.io/gorm"
)

// Versioned storage keys. The version suffix must change whenever the stored
// shape changes, so incompatible old data is never deserialized.
const (
	StorageKeyResidents = "AVIV_PRO_RESIDENTS_V5"
	StorageKeyReports   = "AVIV_PRO_REPORTS_V5"
	StorageKeySession   = "AVIV_PRO_SESSION_V5"
)

// CacheEntry is one row of the local durable cache
type CacheEntry struct {
	Key       string    `gorm:"primaryKey;type:varchar(64)" json:"key"`
	Value     string    `gorm:"type:text" json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

// InterfaceLocalStoreService defines the local durable cache.
// Saves are fire-and-forget; loads of absent or corrupt data return the
// documented default and never fail startup.
type InterfaceLocalStoreService interface {
	LoadResidents() []models.Resident
	SaveResidents(residents []models.Resident)
	LoadReports() []models.ResidentReport
	SaveReports(reports []models.ResidentReport)
	LoadSession() models.AppState
	SaveSession(state models.AppState)
	ClearSession()
}

// LocalStoreService 基于嵌入式SQLite的本地持久化缓存
type LocalStoreService struct {
	DB *gorm.DB
}

// NewLocalStoreService 创建一个新的本地缓存服务
func NewLocalStoreService(db *gorm.DB) InterfaceLocalStoreService {
	return &LocalStoreService{DB: db}
}

// load reads and decodes one key; any failure reports false
func (s *LocalStoreService) load(key string, dest interface{}) bool {
	var entry CacheEntry
	if err := s.DB.First(&entry, "key = ?", key).Error; err != nil {
		return false
	}
	if err := json.Unmarshal([]byte(entry.Value), dest); err != nil {
		config.Warning("本地缓存数据损坏，使用默认值: key=%s err=%v", key, err)
		return false
	}
	return true
}

// save encodes and upserts one key; failures are logged, never returned
func (s *LocalStoreService) save(key string, value interface{}) {
	data, err := json.Marshal(value)
	if err != nil {
		config.Error("本地缓存序列化失败: key=%s err=%v", key, err)
		return
	}
	entry := CacheEntry{Key: key, Value: string(data), UpdatedAt: time.Now()}
	if err := s.DB.Save(&entry).Error; err != nil {
		config.Error("本地缓存写入失败: key=%s err=%v", key, err)
	}
}

// LoadResidents returns the cached residents, or the deterministic seed set
// when nothing usable is stored
func (s *LocalStoreService) LoadResidents() []models.Resident {
	var residents []models.Resident
	if !s.load(StorageKeyResidents, &residents) {
		return models.GenerateInitialResidents()
	}
	return residents
}

// SaveResidents persists the resident collection
func (s *LocalStoreService) SaveResidents(residents []models.Resident) {
	s.save(StorageKeyResidents, residents)
}

// LoadReports returns the cached reports, or an empty collection
func (s *LocalStoreService) LoadReports() []models.ResidentReport {
	var reports []models.ResidentReport
	if !s.load(StorageKeyReports, &reports) {
		return []models.ResidentReport{}
	}
	return reports
}

// SaveReports persists the report collection
func (s *LocalStoreService) SaveReports(reports []models.ResidentReport) {
	s.save(StorageKeyReports, reports)
}

// LoadSession returns the persisted view state, or a fresh default
func (s *LocalStoreService) LoadSession() models.AppState {
	var state models.AppState
	if !s.load(StorageKeySession, &state) {
		return models.DefaultAppState()
	}
	return state
}

// SaveSession persists the view state
func (s *LocalStoreService) SaveSession(state models.AppState) {
	s.save(StorageKeySession, state)
}

// ClearSession drops the persisted view state (logout)
func (s *LocalStoreService) ClearSession() {
	if err := s.DB.Delete(&CacheEntry{}, "key = ?", StorageKeySession).Error; err != nil {
		config.Warning("清除会话缓存失败: %v", err)
	}
}
