package services

import (
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/avivhostel-jpg/Smart-Aviv/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeLocalStore is an in-memory stand-in for the durable cache
type fakeLocalStore struct {
	mu        sync.Mutex
	residents []models.Resident
	reports   []models.ResidentReport
	session   *models.AppState

	residentSaves int
	reportSaves   int
}

func newFakeLocalStore() *fakeLocalStore {
	return &fakeLocalStore{}
}

func (f *fakeLocalStore) LoadResidents() []models.Resident {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.residents == nil {
		return models.GenerateInitialResidents()
	}
	out := make([]models.Resident, len(f.residents))
	copy(out, f.residents)
	return out
}

func (f *fakeLocalStore) SaveResidents(residents []models.Resident) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.residents = residents
	f.residentSaves++
}

func (f *fakeLocalStore) LoadReports() []models.ResidentReport {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.ResidentReport, len(f.reports))
	copy(out, f.reports)
	return out
}

func (f *fakeLocalStore) SaveReports(reports []models.ResidentReport) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reports = reports
	f.reportSaves++
}

func (f *fakeLocalStore) LoadSession() models.AppState {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.session == nil {
		return models.DefaultAppState()
	}
	return *f.session
}

func (f *fakeLocalStore) SaveSession(state models.AppState) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.session = &state
}

func (f *fakeLocalStore) ClearSession() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.session = nil
}

func (f *fakeLocalStore) storedReports() []models.ResidentReport {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.ResidentReport, len(f.reports))
	copy(out, f.reports)
	return out
}

// fakeRemoteStore is an in-memory stand-in for the remote document store.
// Writes redeliver the full collection to all subscribers, mirroring the
// live-subscription contract.
type fakeRemoteStore struct {
	mu          sync.Mutex
	collections map[string]map[string]map[string]interface{}
	subscribers map[string][]func([]Document)
	claimed     bool

	fetchErr     error
	subscribeErr error
	putErr       error

	putCount   int
	batchCount int

	// putGate, when set, blocks each Put until the test releases it
	putGate  chan struct{}
	putOrder []string
}

func newFakeRemoteStore() *fakeRemoteStore {
	return &fakeRemoteStore{
		collections: make(map[string]map[string]map[string]interface{}),
		subscribers: make(map[string][]func([]Document)),
	}
}

func (f *fakeRemoteStore) Ping() error { return nil }

func (f *fakeRemoteStore) snapshotLocked(collection string) []Document {
	docs := make([]Document, 0, len(f.collections[collection]))
	for id, data := range f.collections[collection] {
		copied := make(map[string]interface{}, len(data))
		for k, v := range data {
			copied[k] = v
		}
		docs = append(docs, Document{ID: id, Data: copied})
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i].ID < docs[j].ID })
	return docs
}

func (f *fakeRemoteStore) FetchAll(collection string) ([]Document, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	return f.snapshotLocked(collection), nil
}

func (f *fakeRemoteStore) Subscribe(collection string, onSnapshot func([]Document), onError func(error)) (func(), error) {
	f.mu.Lock()
	if f.subscribeErr != nil {
		f.mu.Unlock()
		return nil, f.subscribeErr
	}
	f.subscribers[collection] = append(f.subscribers[collection], onSnapshot)
	docs := f.snapshotLocked(collection)
	f.mu.Unlock()

	onSnapshot(docs)
	return func() {}, nil
}

func (f *fakeRemoteStore) notify(collection string) {
	f.mu.Lock()
	subs := append([]func([]Document){}, f.subscribers[collection]...)
	docs := f.snapshotLocked(collection)
	f.mu.Unlock()

	for _, sub := range subs {
		sub(docs)
	}
}

func (f *fakeRemoteStore) Put(collection, id string, data map[string]interface{}, merge bool) error {
	f.mu.Lock()
	gate := f.putGate
	f.mu.Unlock()
	if gate != nil {
		<-gate
	}

	f.mu.Lock()
	if f.putErr != nil {
		f.mu.Unlock()
		return f.putErr
	}
	if f.collections[collection] == nil {
		f.collections[collection] = make(map[string]map[string]interface{})
	}
	doc := data
	if merge {
		if existing, ok := f.collections[collection][id]; ok {
			doc = make(map[string]interface{}, len(existing)+len(data))
			for k, v := range existing {
				doc[k] = v
			}
			for k, v := range data {
				doc[k] = v
			}
		}
	}
	f.collections[collection][id] = doc
	f.putCount++
	if essence, ok := data["essence"].(string); ok {
		f.putOrder = append(f.putOrder, essence)
	}
	f.mu.Unlock()

	f.notify(collection)
	return nil
}

func (f *fakeRemoteStore) PutBatch(collection string, docs []Document) error {
	f.mu.Lock()
	f.batchCount++
	if f.collections[collection] == nil {
		f.collections[collection] = make(map[string]map[string]interface{})
	}
	for _, doc := range docs {
		f.collections[collection][doc.ID] = doc.Data
	}
	f.mu.Unlock()

	f.notify(collection)
	return nil
}

func (f *fakeRemoteStore) Delete(collection, id string) error {
	f.mu.Lock()
	delete(f.collections[collection], id)
	f.mu.Unlock()

	f.notify(collection)
	return nil
}

func (f *fakeRemoteStore) ClaimProvisioning() (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.claimed {
		return false, nil
	}
	f.claimed = true
	return true, nil
}

func (f *fakeRemoteStore) documentCount(collection string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.collections[collection])
}

func (f *fakeRemoteStore) document(collection, id string) (map[string]interface{}, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	doc, ok := f.collections[collection][id]
	return doc, ok
}

func (f *fakeRemoteStore) wasClaimed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.claimed
}

func (f *fakeRemoteStore) batchCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.batchCount
}

func (f *fakeRemoteStore) appliedEssences() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string{}, f.putOrder...)
}

const eventually = 2 * time.Second

func TestSeedFromLocalCacheBeforeStart(t *testing.T) {
	local := newFakeLocalStore()
	local.residents = []models.Resident{
		{ID: "SH-0001", FirstName: "דוד", LastName: "לוי", HouseName: "שיקמה", Attachments: []models.FileAttachment{}},
	}

	s := NewSyncService(local, nil, nil)

	residents := s.Residents()
	require.Len(t, residents, 1)
	assert.Equal(t, "SH-0001", residents[0].ID)
}

func TestStartWithoutRemoteGoesLocal(t *testing.T) {
	s := NewSyncService(newFakeLocalStore(), nil, nil)
	s.Start()
	assert.Equal(t, SyncStatusLocal, s.Status())
}

func TestStartProvisionsEmptyRemote(t *testing.T) {
	local := newFakeLocalStore()
	remote := newFakeRemoteStore()

	s := NewSyncService(local, remote, nil)
	s.Start()
	defer s.Stop()

	seed := models.GenerateInitialResidents()
	assert.Equal(t, len(seed), remote.documentCount(CollectionResidents))
	assert.Equal(t, SyncStatusSynced, s.Status())
	assert.Len(t, s.Residents(), len(seed))
}

func TestStartSkipsProvisioningWhenAlreadyClaimed(t *testing.T) {
	local := newFakeLocalStore()
	remote := newFakeRemoteStore()
	remote.claimed = true

	s := NewSyncService(local, remote, nil)
	s.Start()
	defer s.Stop()

	// 其他客户端已赢得预置权，本进程不批量写入
	assert.Equal(t, 0, remote.documentCount(CollectionResidents))
	assert.Equal(t, SyncStatusSynced, s.Status())
}

func TestStartFetchFailureDowngradesToLocal(t *testing.T) {
	remote := newFakeRemoteStore()
	remote.fetchErr = errors.New("connection refused")

	s := NewSyncService(newFakeLocalStore(), remote, nil)
	s.Start()

	assert.Equal(t, SyncStatusLocal, s.Status())
	// 本地种子数据仍然可用
	assert.NotEmpty(t, s.Residents())
}

func TestSubscribeFailureDowngradesToLocal(t *testing.T) {
	remote := newFakeRemoteStore()
	remote.subscribeErr = errors.New("subscription failed")

	s := NewSyncService(newFakeLocalStore(), remote, nil)
	s.Start()

	assert.Equal(t, SyncStatusLocal, s.Status())
}

func TestAddReportOptimisticAndPropagated(t *testing.T) {
	local := newFakeLocalStore()
	remote := newFakeRemoteStore()

	s := NewSyncService(local, remote, nil)
	s.Start()
	defer s.Stop()

	report, err := s.AddReport(models.ResidentReport{
		HouseName: "שיקמה",
		Essence:   "שיחת תמיכה",
		StaffName: "שרה כהן",
		StaffRole: models.RoleManager,
	})
	require.NoError(t, err)
	require.NotEmpty(t, report.ID)
	assert.Equal(t, models.TaskStatusOpen, report.Status)
	assert.NotZero(t, report.Timestamp)

	// 内存中立即可见，列表最新在前
	reports := s.Reports()
	require.NotEmpty(t, reports)
	assert.Equal(t, report.ID, reports[0].ID)

	// 本地缓存同步持久化
	stored := local.storedReports()
	require.NotEmpty(t, stored)
	assert.Equal(t, report.ID, stored[0].ID)

	// 远程写入异步完成
	require.Eventually(t, func() bool {
		_, ok := remote.document(CollectionReports, report.ID)
		return ok
	}, eventually, 10*time.Millisecond)
}

func TestRemotePutFailureKeepsLocalState(t *testing.T) {
	local := newFakeLocalStore()
	remote := newFakeRemoteStore()

	s := NewSyncService(local, remote, nil)
	s.Start()
	defer s.Stop()

	remote.mu.Lock()
	remote.putErr = errors.New("write refused")
	remote.mu.Unlock()

	report, err := s.AddReport(models.ResidentReport{HouseName: "מרזוק", Essence: "דיווח"})
	require.NoError(t, err)

	// 远程失败不回滚：报告仍在内存与本地缓存中
	_, ok := s.ReportByID(report.ID)
	assert.True(t, ok)
	assert.NotEmpty(t, local.storedReports())
}

func TestAddReportValidation(t *testing.T) {
	local := newFakeLocalStore()
	s := NewSyncService(local, nil, nil)

	_, err := s.AddReport(models.ResidentReport{Essence: "חסר בית"})
	assert.ErrorIs(t, err, ErrHouseNotFound)

	_, err = s.AddReport(models.ResidentReport{HouseName: "בית שלא קיים", Essence: "x"})
	assert.ErrorIs(t, err, ErrHouseNotFound)

	_, err = s.AddReport(models.ResidentReport{HouseName: "שיקמה", ResidentID: "XX-9999", Essence: "x"})
	assert.ErrorIs(t, err, ErrResidentNotFound)

	// 住户属于别的住房单元
	resident := s.Residents()[0]
	otherHouse := "שיקמה"
	if resident.HouseName == otherHouse {
		otherHouse = "מרזוק"
	}
	_, err = s.AddReport(models.ResidentReport{HouseName: otherHouse, ResidentID: resident.ID, Essence: "x"})
	assert.ErrorIs(t, err, ErrHouseMismatch)
}

func TestUpdateReportPreservesTimestamp(t *testing.T) {
	s := NewSyncService(newFakeLocalStore(), nil, nil)

	report, err := s.AddReport(models.ResidentReport{HouseName: "סביון", Essence: "ביקור"})
	require.NoError(t, err)

	report.Essence = "ביקור בית"
	report.Timestamp = 12345
	updated, err := s.UpdateReport(report)
	require.NoError(t, err)
	assert.Equal(t, "ביקור בית", updated.Essence)
	assert.NotEqual(t, int64(12345), updated.Timestamp)

	_, err = s.UpdateReport(models.ResidentReport{ID: "REP-missing"})
	assert.ErrorIs(t, err, ErrReportNotFound)
}

func TestCloseReport(t *testing.T) {
	s := NewSyncService(newFakeLocalStore(), nil, nil)

	report, err := s.AddReport(models.ResidentReport{HouseName: "רבדים", Essence: "מעקב"})
	require.NoError(t, err)

	_, err = s.CloseReport(report.ID, "   ")
	assert.ErrorIs(t, err, ErrClosureRequired)

	closed, err := s.CloseReport(report.ID, "הטיפול הסתיים")
	require.NoError(t, err)
	assert.Equal(t, models.TaskStatusCompleted, closed.Status)
	assert.Equal(t, "הטיפול הסתיים", closed.ClosureSummary)
}

func TestDeleteReportAuthorization(t *testing.T) {
	s := NewSyncService(newFakeLocalStore(), nil, nil)

	report, err := s.AddReport(models.ResidentReport{HouseName: "שיקמה", Essence: "למחיקה"})
	require.NoError(t, err)

	// 未知角色无权删除，集合不变
	err = s.DeleteReport(report.ID, models.StaffRole("אורח"))
	assert.ErrorIs(t, err, ErrDeleteForbidden)
	_, ok := s.ReportByID(report.ID)
	assert.True(t, ok)

	require.NoError(t, s.DeleteReport(report.ID, models.RoleManager))
	_, ok = s.ReportByID(report.ID)
	assert.False(t, ok)

	err = s.DeleteReport(report.ID, models.RoleManager)
	assert.ErrorIs(t, err, ErrReportNotFound)
}

func TestAddResidentAssignsHousePrefixedID(t *testing.T) {
	s := NewSyncService(newFakeLocalStore(), nil, nil)

	resident, err := s.AddResident(models.Resident{
		FirstName: "נועה",
		LastName:  "ברק",
		HouseName: "מרזוק",
	})
	require.NoError(t, err)
	assert.Regexp(t, `^MA-\d{4}$`, resident.ID)
	assert.NotNil(t, resident.Attachments)

	_, err = s.AddResident(models.Resident{FirstName: "x", LastName: "y", HouseName: "לא קיים"})
	assert.ErrorIs(t, err, ErrHouseNotFound)
}

func TestAttachmentLifecycle(t *testing.T) {
	s := NewSyncService(newFakeLocalStore(), nil, nil)
	resident := s.Residents()[0]

	updated, err := s.AddAttachment(resident.ID, models.FileAttachment{
		Name: "סיכום רפואי.pdf",
		Type: models.AttachmentMedical,
		URL:  "data:application/pdf;base64,JVBERi0=",
	})
	require.NoError(t, err)
	require.Len(t, updated.Attachments, 1)
	attachment := updated.Attachments[0]
	assert.NotEmpty(t, attachment.ID)
	assert.NotEmpty(t, attachment.Date)

	// 删除受角色限制
	_, err = s.DeleteAttachment(resident.ID, attachment.ID, models.StaffRole(""))
	assert.ErrorIs(t, err, ErrDeleteForbidden)

	_, err = s.DeleteAttachment(resident.ID, "missing", models.RoleSocialWorker)
	assert.ErrorIs(t, err, ErrAttachmentNotFound)

	cleaned, err := s.DeleteAttachment(resident.ID, attachment.ID, models.RoleSocialWorker)
	require.NoError(t, err)
	assert.Empty(t, cleaned.Attachments)
}

func TestEmptyResidentsSnapshotIgnored(t *testing.T) {
	local := newFakeLocalStore()
	s := NewSyncService(local, newFakeRemoteStore(), nil)

	before := len(s.Residents())
	require.NotZero(t, before)

	// 空快照视为瞬时读取，不清空本地数据
	s.onResidentsSnapshot(nil)
	assert.Len(t, s.Residents(), before)

	// 报告的空快照是合法状态，照常替换
	_, err := s.AddReport(models.ResidentReport{HouseName: "שיקמה", Essence: "x"})
	require.NoError(t, err)
	s.onReportsSnapshot(nil)
	assert.Empty(t, s.Reports())
}

func TestSnapshotReplacesStateAndPersists(t *testing.T) {
	local := newFakeLocalStore()
	remote := newFakeRemoteStore()

	s := NewSyncService(local, remote, nil)
	s.Start()
	defer s.Stop()

	// 模拟另一个客户端写入远程
	other := NewSyncService(newFakeLocalStore(), remote, nil)
	other.Start()
	defer other.Stop()

	report, err := other.AddReport(models.ResidentReport{HouseName: "סביון", Essence: "מבחוץ"})
	require.NoError(t, err)

	// 订阅快照最终送达第一个客户端并落盘
	require.Eventually(t, func() bool {
		_, ok := s.ReportByID(report.ID)
		return ok
	}, eventually, 10*time.Millisecond)

	require.Eventually(t, func() bool {
		for _, r := range local.storedReports() {
			if r.ID == report.ID {
				return true
			}
		}
		return false
	}, eventually, 10*time.Millisecond)
}

func TestSubscriptionErrorDowngradesPermanently(t *testing.T) {
	remote := newFakeRemoteStore()
	s := NewSyncService(newFakeLocalStore(), remote, nil)
	s.Start()
	defer s.Stop()

	require.Equal(t, SyncStatusSynced, s.Status())

	s.onSubscriptionError(errors.New("stream broken"))
	assert.Equal(t, SyncStatusLocal, s.Status())

	// 降级后写入仍然成功
	_, err := s.AddReport(models.ResidentReport{HouseName: "שיקמה", Essence: "עדיין עובד"})
	assert.NoError(t, err)
}

func TestStartSkipsSeedWhenRemoteNotEmpty(t *testing.T) {
	local := newFakeLocalStore()
	remote := newFakeRemoteStore()
	remote.collections[CollectionResidents] = map[string]map[string]interface{}{
		"SH-7777": {
			"tz":        "307777777",
			"firstName": "יעל",
			"lastName":  "אדר",
			"houseName": "שיקמה",
		},
	}

	s := NewSyncService(local, remote, nil)
	s.Start()
	defer s.Stop()

	// 远程已有数据时不预置：不争抢哨兵键，也不批量写入种子
	assert.False(t, remote.wasClaimed())
	assert.Equal(t, 0, remote.batchCalls())
	assert.Equal(t, 1, remote.documentCount(CollectionResidents))

	// 远程名册取代本地种子
	residents := s.Residents()
	require.Len(t, residents, 1)
	assert.Equal(t, "SH-7777", residents[0].ID)
	assert.Equal(t, SyncStatusSynced, s.Status())
}

func TestUpdateResidentClearsRemoteField(t *testing.T) {
	local := newFakeLocalStore()
	remote := newFakeRemoteStore()

	s := NewSyncService(local, remote, nil)
	s.Start()
	defer s.Stop()

	resident := s.Residents()[0]
	require.NotEmpty(t, resident.Avatar)

	resident.Avatar = ""
	_, err := s.UpdateResident(resident)
	require.NoError(t, err)

	// merge 写入必须携带清空的字段，否则远程保留旧值
	require.Eventually(t, func() bool {
		doc, ok := remote.document(CollectionResidents, resident.ID)
		if !ok {
			return false
		}
		avatar, present := doc["avatar"]
		return present && avatar == ""
	}, eventually, 10*time.Millisecond)

	// 快照回传后本地也不得复活旧值
	got, ok := s.ResidentByID(resident.ID)
	require.True(t, ok)
	assert.Empty(t, got.Avatar)
}

func TestUpdateReportClearsResidentBinding(t *testing.T) {
	local := newFakeLocalStore()
	remote := newFakeRemoteStore()

	s := NewSyncService(local, remote, nil)
	s.Start()
	defer s.Stop()

	resident := s.Residents()[0]
	report, err := s.AddReport(models.ResidentReport{
		HouseName:  resident.HouseName,
		ResidentID: resident.ID,
		Essence:    "מעבר למשימת דירה",
	})
	require.NoError(t, err)

	// 取消与住户的关联，报告转为住房级任务
	report.ResidentID = ""
	_, err = s.UpdateReport(report)
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		doc, ok := remote.document(CollectionReports, report.ID)
		if !ok {
			return false
		}
		residentID, present := doc["residentId"]
		return present && residentID == ""
	}, eventually, 10*time.Millisecond)

	got, ok := s.ReportByID(report.ID)
	require.True(t, ok)
	assert.True(t, got.IsHouseLevel())
}

func TestRemoteWritesPreserveLocalOrder(t *testing.T) {
	local := newFakeLocalStore()
	remote := newFakeRemoteStore()

	s := NewSyncService(local, remote, nil)
	s.Start()
	defer s.Stop()

	report, err := s.AddReport(models.ResidentReport{HouseName: "שיקמה", Essence: "גרסה ראשונית"})
	require.NoError(t, err)
	require.Eventually(t, func() bool {
		_, ok := remote.document(CollectionReports, report.ID)
		return ok
	}, eventually, 10*time.Millisecond)

	// 堵住远程写入，让两次编辑在队列中排队
	gate := make(chan struct{})
	remote.mu.Lock()
	remote.putGate = gate
	remote.mu.Unlock()

	report.Essence = "עריכה ראשונה"
	_, err = s.UpdateReport(report)
	require.NoError(t, err)

	report.Essence = "עריכה שנייה"
	_, err = s.UpdateReport(report)
	require.NoError(t, err)

	gate <- struct{}{}
	gate <- struct{}{}

	// 最后一次本地编辑必须是远程的最终状态
	require.Eventually(t, func() bool {
		doc, ok := remote.document(CollectionReports, report.ID)
		return ok && doc["essence"] == "עריכה שנייה"
	}, eventually, 10*time.Millisecond)

	applied := remote.appliedEssences()
	require.GreaterOrEqual(t, len(applied), 2)
	assert.Equal(t, []string{"עריכה ראשונה", "עריכה שנייה"}, applied[len(applied)-2:])
}
