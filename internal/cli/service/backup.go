package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"BinderKeeper/internal/cli/model"
	"BinderKeeper/internal/cli/repo"

	"github.com/google/uuid"
)

// ErrNothingToBackUp — автоматический снапшот пропущен: ожидающих изменений нет,
// а предыдущий бэкап уже существует.
var ErrNothingToBackUp = errors.New("nothing to back up")

// ErrBackupNotFound — снапшот с указанным id отсутствует.
var ErrBackupNotFound = errors.New("backup not found")

// RestoreOptions — параметры восстановления.
type RestoreOptions struct {
	// ReplaceExisting очищает хранилище перед восстановлением.
	ReplaceExisting bool
	// MergeData: true — перезаписывать существующие сущности с совпадающими id;
	// false — добавлять только отсутствующие локально.
	MergeData bool
	// OnlyIDs ограничивает восстановление перечисленными id биндеров/колод.
	OnlyIDs []string
}

// RestoreResult — структурированный итог восстановления.
type RestoreResult struct {
	Success         bool
	RestoredBinders int
	RestoredDecks   int
	Errors          []string
	Warnings        []string
}

// BackupService — периодические и ручные снапшоты с ротацией и восстановлением.
type BackupService struct {
	store *StoreService
	docs  repo.Store

	mu       sync.Mutex
	running  bool
	stopChan chan struct{}
}

// NewBackupService создаёт менеджер бэкапов.
func NewBackupService(store *StoreService, docs repo.Store) *BackupService {
	return &BackupService{store: store, docs: docs}
}

func (b *BackupService) loadIndex() (map[string]model.BackupMeta, error) {
	raw, err := b.docs.ReadDoc(repo.DocBackupIdx)
	if err != nil {
		if err == repo.ErrNotFound {
			return map[string]model.BackupMeta{}, nil
		}
		return nil, err
	}
	var idx map[string]model.BackupMeta
	if err := json.Unmarshal(raw, &idx); err != nil {
		return nil, fmt.Errorf("%w: decode backup index: %v", repo.ErrStorage, err)
	}
	return idx, nil
}

// CreateBackup делает снапшот всех данных. Для автоматического снапшота
// действует пропуск "нечего бэкапить"; ручной выполняется всегда.
// После записи применяется ротация по maxBackups.
func (b *BackupService) CreateBackup(automatic bool) (*model.BackupMeta, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	idx, err := b.loadIndex()
	if err != nil {
		return nil, err
	}

	if automatic {
		status, err := b.store.SyncStatus()
		if err != nil {
			return nil, err
		}
		if len(status.PendingChanges.Binders) == 0 && len(status.PendingChanges.Decks) == 0 && len(idx) > 0 {
			return nil, ErrNothingToBackUp
		}
	}

	payload, err := b.store.Snapshot()
	if err != nil {
		return nil, err
	}

	snap := model.BackupSnapshot{
		ID:            uuid.NewString(),
		Timestamp:     time.Now().Unix(),
		SchemaVersion: model.SchemaVersion,
		IsAutomatic:   automatic,
		Payload:       *payload,
	}
	// compressionEnabled — зарезервированный флаг: снапшоты хранятся как есть
	raw, err := json.Marshal(&snap)
	if err != nil {
		return nil, fmt.Errorf("%w: encode snapshot: %v", repo.ErrStorage, err)
	}
	snap.SizeBytes = int64(len(raw))
	raw, err = json.Marshal(&snap)
	if err != nil {
		return nil, fmt.Errorf("%w: encode snapshot: %v", repo.ErrStorage, err)
	}

	seq := int64(0)
	for _, m := range idx {
		if m.Seq > seq {
			seq = m.Seq
		}
	}
	meta := model.BackupMeta{
		ID:            snap.ID,
		Timestamp:     snap.Timestamp,
		Seq:           seq + 1,
		SchemaVersion: snap.SchemaVersion,
		IsAutomatic:   snap.IsAutomatic,
		SizeBytes:     snap.SizeBytes,
	}
	idx[snap.ID] = meta

	docs := map[string][]byte{
		repo.BackupDocPrefix + snap.ID: raw,
	}

	// ротация: старейшие по метке времени удаляются, пока не уложимся в лимит
	cfg, err := b.store.AppConfig()
	if err != nil {
		return nil, err
	}
	maxBackups := cfg.MaxBackups
	if maxBackups < 1 {
		maxBackups = 1
	}
	for _, victim := range rotationVictims(idx, maxBackups) {
		delete(idx, victim)
		docs[repo.BackupDocPrefix+victim] = nil
	}

	idxRaw, err := json.Marshal(idx)
	if err != nil {
		return nil, fmt.Errorf("%w: encode backup index: %v", repo.ErrStorage, err)
	}
	docs[repo.DocBackupIdx] = idxRaw

	if err := b.docs.WriteDocs(docs); err != nil {
		return nil, err
	}
	return &meta, nil
}

// rotationVictims возвращает id снапшотов на удаление (старейшие первыми).
// При равных метках времени порядок определяет Seq: свежесозданный снапшот
// под ротацию не попадает.
func rotationVictims(idx map[string]model.BackupMeta, maxBackups int) []string {
	if len(idx) <= maxBackups {
		return nil
	}
	metas := make([]model.BackupMeta, 0, len(idx))
	for _, m := range idx {
		metas = append(metas, m)
	}
	sort.Slice(metas, func(i, j int) bool {
		if metas[i].Timestamp != metas[j].Timestamp {
			return metas[i].Timestamp < metas[j].Timestamp
		}
		if metas[i].Seq != metas[j].Seq {
			return metas[i].Seq < metas[j].Seq
		}
		return metas[i].ID < metas[j].ID
	})
	victims := make([]string, 0, len(idx)-maxBackups)
	for _, m := range metas[:len(idx)-maxBackups] {
		victims = append(victims, m.ID)
	}
	return victims
}

// ListBackups возвращает метаданные снапшотов, новые первыми.
func (b *BackupService) ListBackups() ([]model.BackupMeta, error) {
	idx, err := b.loadIndex()
	if err != nil {
		return nil, err
	}
	metas := make([]model.BackupMeta, 0, len(idx))
	for _, m := range idx {
		metas = append(metas, m)
	}
	sort.Slice(metas, func(i, j int) bool {
		if metas[i].Timestamp != metas[j].Timestamp {
			return metas[i].Timestamp > metas[j].Timestamp
		}
		return metas[i].Seq > metas[j].Seq
	})
	return metas, nil
}

// GetBackup читает полный снапшот по id.
func (b *BackupService) GetBackup(id string) (*model.BackupSnapshot, error) {
	raw, err := b.docs.ReadDoc(repo.BackupDocPrefix + id)
	if err != nil {
		if err == repo.ErrNotFound {
			return nil, ErrBackupNotFound
		}
		return nil, err
	}
	var snap model.BackupSnapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return nil, fmt.Errorf("%w: decode snapshot %s: %v", repo.ErrStorage, id, err)
	}
	return &snap, nil
}

// Restore восстанавливает данные из снапшота по двум осям:
// replaceExisting (очистить хранилище) × mergeData (перезаписывать совпадающие id).
// Необязательный список id ограничивает восстанавливаемые сущности.
func (b *BackupService) Restore(id string, opts RestoreOptions) RestoreResult {
	var res RestoreResult

	snap, err := b.GetBackup(id)
	if err != nil {
		res.Errors = append(res.Errors, err.Error())
		return res
	}

	wanted := func(entityID string) bool {
		if len(opts.OnlyIDs) == 0 {
			return true
		}
		for _, v := range opts.OnlyIDs {
			if v == entityID {
				return true
			}
		}
		return false
	}

	var curBinders []model.Binder
	var curDecks []model.Deck
	if !opts.ReplaceExisting {
		curBinders, err = b.store.ListBinders()
		if err != nil {
			res.Errors = append(res.Errors, err.Error())
			return res
		}
		curDecks, err = b.store.ListDecks()
		if err != nil {
			res.Errors = append(res.Errors, err.Error())
			return res
		}
	}

	binderIdx := map[string]int{}
	for i, v := range curBinders {
		binderIdx[v.ID] = i
	}
	for _, v := range snap.Payload.Binders {
		if !wanted(v.ID) {
			continue
		}
		if i, exists := binderIdx[v.ID]; exists {
			if !opts.MergeData {
				res.Warnings = append(res.Warnings, fmt.Sprintf("binder %s already exists, skipped", v.ID))
				continue
			}
			curBinders[i] = v
		} else {
			binderIdx[v.ID] = len(curBinders)
			curBinders = append(curBinders, v)
		}
		res.RestoredBinders++
	}

	deckIdx := map[string]int{}
	for i, v := range curDecks {
		deckIdx[v.ID] = i
	}
	for _, v := range snap.Payload.Decks {
		if !wanted(v.ID) {
			continue
		}
		if i, exists := deckIdx[v.ID]; exists {
			if !opts.MergeData {
				res.Warnings = append(res.Warnings, fmt.Sprintf("deck %s already exists, skipped", v.ID))
				continue
			}
			curDecks[i] = v
		} else {
			deckIdx[v.ID] = len(curDecks)
			curDecks = append(curDecks, v)
		}
		res.RestoredDecks++
	}

	if err := b.store.ReplaceEntities(curBinders, curDecks); err != nil {
		res.Errors = append(res.Errors, err.Error())
		return res
	}

	// настройки восстанавливаются только при полной замене без выборочного списка
	if opts.ReplaceExisting && len(opts.OnlyIDs) == 0 {
		cfg := snap.Payload.Config
		if err := b.store.SaveAppConfig(&cfg); err != nil {
			res.Warnings = append(res.Warnings, fmt.Sprintf("app config not restored: %v", err))
		}
	}

	res.Success = true
	return res
}

// AutoBackupHook — хук для StoreService.SetOnSave: делает автоматический
// снапшот после сохранения, если autoBackup включён.
func (b *BackupService) AutoBackupHook() {
	cfg, err := b.store.AppConfig()
	if err != nil || !cfg.AutoBackup {
		return
	}
	_, err = b.CreateBackup(true)
	if err != nil && !errors.Is(err, ErrNothingToBackUp) {
		// авто-бэкап не должен ронять сохранение; ошибка теряется сознательно
		return
	}
}

// StartScheduler запускает периодические автоматические снапшоты с интервалом
// из настроек. Таймер бэкапа независим от таймера синхронизации.
func (b *BackupService) StartScheduler() error {
	b.mu.Lock()
	if b.running {
		b.mu.Unlock()
		return fmt.Errorf("backup scheduler is already running")
	}
	cfg, err := b.store.AppConfig()
	if err != nil {
		b.mu.Unlock()
		return err
	}
	interval := time.Duration(cfg.BackupInterval) * time.Minute
	if interval <= 0 {
		interval = time.Hour
	}
	b.running = true
	b.stopChan = make(chan struct{})
	stop := b.stopChan
	b.mu.Unlock()

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				_, _ = b.CreateBackup(true)
			case <-stop:
				return
			}
		}
	}()
	return nil
}

// StopScheduler останавливает периодические снапшоты.
func (b *BackupService) StopScheduler() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.running {
		return
	}
	close(b.stopChan)
	b.running = false
}
