package services

import (
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/avivhostel-jpg/Smart-Aviv/config"
	"github.com/avivhostel-jpg/Smart-Aviv/models"
	"github.com/avivhostel-jpg/Smart-Aviv/utils"
)

// SyncStatus is the coarse synchronization signal surfaced to the views.
// Remote-layer failures never reach the views as errors, only as this signal.
type SyncStatus string

const (
	SyncStatusSynced  SyncStatus = "synced"
	SyncStatusSyncing SyncStatus = "syncing"
	SyncStatusLocal   SyncStatus = "local"
	SyncStatusError   SyncStatus = "error"
)

// Intent errors surfaced to the views
var (
	ErrResidentNotFound   = errors.New("resident not found")
	ErrReportNotFound     = errors.New("report not found")
	ErrHouseNotFound      = errors.New("house not found")
	ErrHouseMismatch      = errors.New("resident does not belong to the given house")
	ErrAttachmentNotFound = errors.New("attachment not found")
	ErrDeleteForbidden    = errors.New("role is not authorized to delete records")
	ErrClosureRequired    = errors.New("closure summary is required")
)

// collState is the per-collection synchronization state
type collState int

const (
	collUninitialized collState = iota
	collSyncing
	collSynced
	collLocalOnly
)

// InterfaceSyncService defines the synchronization coordinator: the single
// mutator of the in-memory entity collections. Views only read snapshots and
// issue intents.
type InterfaceSyncService interface {
	Start()
	Stop()
	Status() SyncStatus

	Residents() []models.Resident
	ResidentByID(id string) (models.Resident, bool)
	Reports() []models.ResidentReport
	ReportByID(id string) (models.ResidentReport, bool)

	AddResident(input models.Resident) (models.Resident, error)
	UpdateResident(updated models.Resident) (models.Resident, error)
	AddAttachment(residentID string, attachment models.FileAttachment) (models.Resident, error)
	DeleteAttachment(residentID, attachmentID string, actor models.StaffRole) (models.Resident, error)

	AddReport(input models.ResidentReport) (models.ResidentReport, error)
	UpdateReport(updated models.ResidentReport) (models.ResidentReport, error)
	CloseReport(id, closureSummary string) (models.ResidentReport, error)
	DeleteReport(id string, actor models.StaffRole) error
}

// SyncService 同步协调器：本地缓存、内存状态与远程文档存储之间的调解者。
//
// 写入协议：先无条件应用到内存与本地缓存（乐观写入），再尽力异步传播到
// 远程存储；远程失败只记录日志，本地状态从不回滚，直到下一次订阅快照
// 送达时以远程为准。
type SyncService struct {
	local  InterfaceLocalStoreService
	remote InterfaceRemoteStoreService // nil means no adapter is configured
	notify InterfaceNotifyService

	mu        sync.RWMutex
	residents []models.Resident
	reports   []models.ResidentReport
	resState  collState
	repState  collState
	localOnly bool
	unsubs    []func()

	// remoteQueue serializes best-effort propagation: per-client write order
	// must reach the store intact, or a stale write can win over a newer one.
	remoteQueue chan func()
	quit        chan struct{}
	stopOnce    sync.Once
}

// NewSyncService seeds the in-memory state synchronously from the local
// durable cache, so the views are usable before any remote round-trip.
func NewSyncService(local InterfaceLocalStoreService, remote InterfaceRemoteStoreService, notify InterfaceNotifyService) *SyncService {
	s := &SyncService{
		local:     local,
		remote:    remote,
		notify:    notify,
		residents: local.LoadResidents(),
		reports:   local.LoadReports(),
		quit:      make(chan struct{}),
	}
	if remote != nil {
		s.remoteQueue = make(chan func(), 256)
		go s.remoteWorker()
	}
	return s
}

// remoteWorker drains the propagation queue one write at a time, preserving
// the order the intents were applied locally
func (s *SyncService) remoteWorker() {
	for {
		select {
		case op := <-s.remoteQueue:
			op()
		case <-s.quit:
			return
		}
	}
}

// enqueueRemote hands one write to the worker; callers never await it
func (s *SyncService) enqueueRemote(op func()) {
	if s.remoteQueue == nil {
		return
	}
	select {
	case s.remoteQueue <- op:
	case <-s.quit:
	}
}

// Start runs the startup protocol: empty-check, best-effort provisioning of
// an empty remote store, then live subscriptions on both collections. Any
// failure permanently downgrades the process to local-only mode; there is no
// retry loop.
func (s *SyncService) Start() {
	if s.remote == nil {
		s.downgradeToLocalOnly("未配置远程存储")
		return
	}

	s.setStates(collSyncing, collSyncing)
	s.publishStatus()

	docs, err := s.remote.FetchAll(CollectionResidents)
	if err != nil {
		config.Error("远程初始读取失败，进入本地模式: %v", err)
		s.downgradeToLocalOnly(err.Error())
		return
	}

	if len(docs) == 0 {
		s.provisionSeed()
	}

	unsubResidents, err := s.remote.Subscribe(CollectionResidents, s.onResidentsSnapshot, s.onSubscriptionError)
	if err != nil {
		config.Error("住户订阅建立失败，进入本地模式: %v", err)
		s.downgradeToLocalOnly(err.Error())
		return
	}

	unsubReports, err := s.remote.Subscribe(CollectionReports, s.onReportsSnapshot, s.onSubscriptionError)
	if err != nil {
		config.Error("报告订阅建立失败，进入本地模式: %v", err)
		unsubResidents()
		s.downgradeToLocalOnly(err.Error())
		return
	}

	s.mu.Lock()
	s.unsubs = append(s.unsubs, unsubResidents, unsubReports)
	s.mu.Unlock()
}

// provisionSeed performs the "first writer wins" provisioning of an empty
// remote store. The sentinel claim keeps two concurrent first launches from
// both bulk-writing the seed set.
func (s *SyncService) provisionSeed() {
	claimed, err := s.remote.ClaimProvisioning()
	if err != nil {
		config.Error("预置声明失败: %v", err)
		return
	}
	if !claimed {
		config.Info("远程存储已由其他客户端预置")
		return
	}

	config.Info("远程存储为空，正在预置初始住户名单")
	seed := models.GenerateInitialResidents()
	batch := make([]Document, 0, len(seed))
	for _, resident := range seed {
		doc, err := entityToDoc(resident)
		if err != nil {
			config.Error("预置数据编码失败: id=%s err=%v", resident.ID, err)
			continue
		}
		batch = append(batch, doc)
	}
	if err := s.remote.PutBatch(CollectionResidents, batch); err != nil {
		config.Error("预置批量写入失败: %v", err)
	}
}

// Stop cancels the live subscriptions and the propagation worker (clean
// shutdown and tests)
func (s *SyncService) Stop() {
	s.mu.Lock()
	unsubs := s.unsubs
	s.unsubs = nil
	s.mu.Unlock()

	for _, unsub := range unsubs {
		unsub()
	}
	s.stopOnce.Do(func() { close(s.quit) })
}

// Status derives the coarse signal from the per-collection states
func (s *SyncService) Status() SyncStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.remote == nil || s.localOnly {
		return SyncStatusLocal
	}
	if s.resState == collSynced && s.repState == collSynced {
		return SyncStatusSynced
	}
	return SyncStatusSyncing
}

// Residents returns a snapshot copy of the in-memory resident collection
func (s *SyncService) Residents() []models.Resident {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Resident, len(s.residents))
	copy(out, s.residents)
	return out
}

// ResidentByID looks a resident up in the in-memory collection
func (s *SyncService) ResidentByID(id string) (models.Resident, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, r := range s.residents {
		if r.ID == id {
			return r, true
		}
	}
	return models.Resident{}, false
}

// Reports returns a snapshot copy of the in-memory report collection,
// newest first
func (s *SyncService) Reports() []models.ResidentReport {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.ResidentReport, len(s.reports))
	copy(out, s.reports)
	return out
}

// ReportByID looks a report up in the in-memory collection
func (s *SyncService) ReportByID(id string) (models.ResidentReport, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, r := range s.reports {
		if r.ID == id {
			return r, true
		}
	}
	return models.ResidentReport{}, false
}

// AddResident assigns an id and applies the optimistic add
func (s *SyncService) AddResident(input models.Resident) (models.Resident, error) {
	house, ok := models.HouseByName(input.HouseName)
	if !ok {
		return models.Resident{}, ErrHouseNotFound
	}

	s.mu.Lock()
	taken := make(map[string]bool, len(s.residents))
	for _, r := range s.residents {
		taken[r.ID] = true
	}
	input.ID = utils.NewResidentID(house.Prefix(), taken)
	input.Attachments = []models.FileAttachment{}
	s.residents = append(s.residents, input)
	s.persistResidentsLocked()
	s.mu.Unlock()

	s.propagatePut(CollectionResidents, input, false)
	s.publishChange(CollectionResidents, input.ID, "add")
	return input, nil
}

// UpdateResident applies the optimistic full-entity update. The id is
// immutable; the remote write is a field-level merge.
func (s *SyncService) UpdateResident(updated models.Resident) (models.Resident, error) {
	if updated.HouseName != "" {
		if _, ok := models.HouseByName(updated.HouseName); !ok {
			return models.Resident{}, ErrHouseNotFound
		}
	}

	s.mu.Lock()
	idx := -1
	for i, r := range s.residents {
		if r.ID == updated.ID {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		return models.Resident{}, ErrResidentNotFound
	}
	if updated.Attachments == nil {
		updated.Attachments = []models.FileAttachment{}
	}
	s.residents[idx] = updated
	s.persistResidentsLocked()
	s.mu.Unlock()

	s.propagatePut(CollectionResidents, updated, true)
	s.publishChange(CollectionResidents, updated.ID, "update")
	return updated, nil
}

// AddAttachment appends a file to the resident's archive, expressed as a
// resident update
func (s *SyncService) AddAttachment(residentID string, attachment models.FileAttachment) (models.Resident, error) {
	resident, ok := s.ResidentByID(residentID)
	if !ok {
		return models.Resident{}, ErrResidentNotFound
	}

	attachment.ID = utils.NewAttachmentID()
	if attachment.Date == "" {
		attachment.Date = time.Now().Format("2.1.2006")
	}
	if !attachment.Type.Valid() {
		attachment.Type = models.AttachmentGeneral
	}
	resident.Attachments = append(resident.Attachments, attachment)
	return s.UpdateResident(resident)
}

// DeleteAttachment removes a file from the resident's archive. Deletion is
// gated on the acting role.
func (s *SyncService) DeleteAttachment(residentID, attachmentID string, actor models.StaffRole) (models.Resident, error) {
	if !actor.CanDeleteRecords() {
		return models.Resident{}, ErrDeleteForbidden
	}

	resident, ok := s.ResidentByID(residentID)
	if !ok {
		return models.Resident{}, ErrResidentNotFound
	}

	kept := resident.Attachments[:0:0]
	for _, a := range resident.Attachments {
		if a.ID != attachmentID {
			kept = append(kept, a)
		}
	}
	if len(kept) == len(resident.Attachments) {
		return models.Resident{}, ErrAttachmentNotFound
	}
	resident.Attachments = kept
	return s.UpdateResident(resident)
}

// AddReport assigns id and timestamp and applies the optimistic add,
// prepending so the collection stays newest-first
func (s *SyncService) AddReport(input models.ResidentReport) (models.ResidentReport, error) {
	if strings.TrimSpace(input.HouseName) == "" {
		return models.ResidentReport{}, ErrHouseNotFound
	}
	if _, ok := models.HouseByName(input.HouseName); !ok {
		return models.ResidentReport{}, ErrHouseNotFound
	}
	if input.ResidentID != "" {
		resident, ok := s.ResidentByID(input.ResidentID)
		if !ok {
			return models.ResidentReport{}, ErrResidentNotFound
		}
		if resident.HouseName != input.HouseName {
			return models.ResidentReport{}, ErrHouseMismatch
		}
	}

	input.ID = utils.NewReportID()
	input.Timestamp = time.Now().UnixMilli()
	if input.Date == "" {
		input.Date = time.Now().Format("2.1.2006")
	}
	if !input.Status.Valid() {
		input.Status = models.TaskStatusOpen
	}

	s.mu.Lock()
	s.reports = append([]models.ResidentReport{input}, s.reports...)
	s.persistReportsLocked()
	s.mu.Unlock()

	s.propagatePut(CollectionReports, input, false)
	s.publishChange(CollectionReports, input.ID, "add")
	return input, nil
}

// UpdateReport applies the optimistic full-entity update; id and timestamp
// are immutable
func (s *SyncService) UpdateReport(updated models.ResidentReport) (models.ResidentReport, error) {
	s.mu.Lock()
	idx := -1
	for i, r := range s.reports {
		if r.ID == updated.ID {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		return models.ResidentReport{}, ErrReportNotFound
	}
	updated.Timestamp = s.reports[idx].Timestamp
	s.reports[idx] = updated
	s.persistReportsLocked()
	s.mu.Unlock()

	s.propagatePut(CollectionReports, updated, true)
	s.publishChange(CollectionReports, updated.ID, "update")
	return updated, nil
}

// CloseReport transitions a report into the completed status with its
// closure summary
func (s *SyncService) CloseReport(id, closureSummary string) (models.ResidentReport, error) {
	if strings.TrimSpace(closureSummary) == "" {
		return models.ResidentReport{}, ErrClosureRequired
	}
	report, ok := s.ReportByID(id)
	if !ok {
		return models.ResidentReport{}, ErrReportNotFound
	}
	report.Status = models.TaskStatusCompleted
	report.ClosureSummary = closureSummary
	return s.UpdateReport(report)
}

// DeleteReport removes a report. Deletion is gated on the acting role;
// unauthorized attempts leave the collection unchanged.
func (s *SyncService) DeleteReport(id string, actor models.StaffRole) error {
	if !actor.CanDeleteRecords() {
		return ErrDeleteForbidden
	}

	s.mu.Lock()
	idx := -1
	for i, r := range s.reports {
		if r.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		return ErrReportNotFound
	}
	s.reports = append(s.reports[:idx], s.reports[idx+1:]...)
	s.persistReportsLocked()
	s.mu.Unlock()

	if s.remote != nil {
		s.enqueueRemote(func() {
			if err := s.remote.Delete(CollectionReports, id); err != nil {
				config.Error("云端删除失败: id=%s err=%v", id, err)
			}
		})
	}
	s.publishChange(CollectionReports, id, "delete")
	return nil
}

// onResidentsSnapshot replaces the in-memory residents with a delivered
// snapshot. An empty delivery is treated as a transient read and ignored
// rather than wiping local state.
func (s *SyncService) onResidentsSnapshot(docs []Document) {
	s.mu.Lock()
	s.resState = collSynced
	if len(docs) > 0 {
		residents := make([]models.Resident, 0, len(docs))
		for _, doc := range docs {
			var r models.Resident
			if err := decodeDoc(doc, &r); err != nil {
				config.Warning("住户快照解码失败，已跳过: id=%s err=%v", doc.ID, err)
				continue
			}
			if r.Attachments == nil {
				r.Attachments = []models.FileAttachment{}
			}
			residents = append(residents, r)
		}
		s.residents = residents
		s.persistResidentsLocked()
	}
	s.mu.Unlock()
	s.publishStatus()
}

// onReportsSnapshot replaces the in-memory reports unconditionally; reports
// legitimately become empty. Delivered order (timestamp descending) is
// preserved.
func (s *SyncService) onReportsSnapshot(docs []Document) {
	s.mu.Lock()
	s.repState = collSynced
	reports := make([]models.ResidentReport, 0, len(docs))
	for _, doc := range docs {
		var r models.ResidentReport
		if err := decodeDoc(doc, &r); err != nil {
			config.Warning("报告快照解码失败，已跳过: id=%s err=%v", doc.ID, err)
			continue
		}
		reports = append(reports, r)
	}
	s.reports = reports
	s.persistReportsLocked()
	s.mu.Unlock()
	s.publishStatus()
}

// onSubscriptionError permanently downgrades to local-only mode. There is no
// transition out of it within a running process.
func (s *SyncService) onSubscriptionError(err error) {
	config.Error("订阅错误，进入本地模式: %v", err)
	s.downgradeToLocalOnly(err.Error())
}

func (s *SyncService) downgradeToLocalOnly(reason string) {
	s.mu.Lock()
	alreadyLocal := s.localOnly
	s.localOnly = true
	s.resState = collLocalOnly
	s.repState = collLocalOnly
	s.mu.Unlock()

	if !alreadyLocal {
		config.Warning("同步已降级为本地模式: %s", reason)
		s.publishStatus()
	}
}

func (s *SyncService) setStates(res, rep collState) {
	s.mu.Lock()
	s.resState = res
	s.repState = rep
	s.mu.Unlock()
}

// persistResidentsLocked mirrors the in-memory residents into the durable
// cache; callers hold s.mu
func (s *SyncService) persistResidentsLocked() {
	snapshot := make([]models.Resident, len(s.residents))
	copy(snapshot, s.residents)
	s.local.SaveResidents(snapshot)
}

func (s *SyncService) persistReportsLocked() {
	snapshot := make([]models.ResidentReport, len(s.reports))
	copy(snapshot, s.reports)
	s.local.SaveReports(snapshot)
}

// propagatePut issues the best-effort remote upsert. The caller never awaits
// it and the optimistic local state is never rolled back on failure.
func (s *SyncService) propagatePut(collection string, entity interface{}, merge bool) {
	if s.remote == nil {
		return
	}
	doc, err := entityToDoc(entity)
	if err != nil {
		config.Error("远程文档编码失败: %v", err)
		return
	}
	s.enqueueRemote(func() {
		if err := s.remote.Put(collection, doc.ID, doc.Data, merge); err != nil {
			config.Error("云同步失败: collection=%s id=%s err=%v", collection, doc.ID, err)
		}
	})
}

func (s *SyncService) publishChange(collection, id, action string) {
	if s.notify != nil {
		s.notify.PublishEntityChange(collection, id, action)
	}
}

func (s *SyncService) publishStatus() {
	if s.notify != nil {
		s.notify.PublishSyncStatus(string(s.Status()))
	}
}

// entityToDoc flattens an entity into its remote document form: the id as
// the document key, every other field in the data map.
func entityToDoc(entity interface{}) (Document, error) {
	raw, err := json.Marshal(entity)
	if err != nil {
		return Document{}, err
	}
	var data map[string]interface{}
	if err := json.Unmarshal(raw, &data); err != nil {
		return Document{}, err
	}
	id, _ := data["id"].(string)
	delete(data, "id")
	return Document{ID: id, Data: data}, nil
}

// decodeDoc reassembles an entity from its remote document form
func decodeDoc(doc Document, dest interface{}) error {
	data := make(map[string]interface{}, len(doc.Data)+1)
	for k, v := range doc.Data {
		data[k] = v
	}
	data["id"] = doc.ID
	raw, err := json.Marshal(data)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, dest)
}
