package service

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"BinderKeeper/internal/cli/model"
	"BinderKeeper/internal/cli/repo"

	"github.com/google/uuid"
)

// ErrEntityNotFound возвращается при отсутствии сущности с указанным id.
var ErrEntityNotFound = fmt.Errorf("entity not found")

// StoreService — единая точка чтения/записи локальных сущностей.
// Все мутации проходят через save/delete; инварианты (единственный избранный
// биндер, монотонный modifiedAt, пометка pending-sync, чистка ссылок при
// удалении) обеспечиваются здесь. Последовательность read-modify-write
// защищена мьютексом: таймеры бэкапа и синхронизации работают в своих
// горутинах, но сериализуются через одно хранилище.
type StoreService struct {
	store repo.Store
	mu    sync.Mutex

	// onSave вызывается асинхронно после каждого успешного сохранения
	// (точка подключения авто-бэкапа).
	onSave func()
}

// NewStoreService создаёт сервис поверх переданного хранилища документов.
func NewStoreService(store repo.Store) *StoreService {
	return &StoreService{store: store}
}

// SetOnSave задаёт хук, вызываемый после успешного сохранения сущности.
func (s *StoreService) SetOnSave(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onSave = fn
}

// --- Чтение документов ---

func readListDoc[T any](st repo.Store, key string) ([]T, error) {
	raw, err := st.ReadDoc(key)
	if err != nil {
		if err == repo.ErrNotFound {
			return nil, nil
		}
		return nil, err
	}
	var list []T
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, fmt.Errorf("%w: decode %q: %v", repo.ErrStorage, key, err)
	}
	return list, nil
}

// ListBinders возвращает все биндеры.
func (s *StoreService) ListBinders() ([]model.Binder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return readListDoc[model.Binder](s.store, repo.DocBinders)
}

// ListDecks возвращает все колоды.
func (s *StoreService) ListDecks() ([]model.Deck, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return readListDoc[model.Deck](s.store, repo.DocDecks)
}

// GetBinder возвращает биндер по id или ErrEntityNotFound.
func (s *StoreService) GetBinder(id string) (*model.Binder, error) {
	binders, err := s.ListBinders()
	if err != nil {
		return nil, err
	}
	for i := range binders {
		if binders[i].ID == id {
			return &binders[i], nil
		}
	}
	return nil, ErrEntityNotFound
}

// GetDeck возвращает колоду по id или ErrEntityNotFound.
func (s *StoreService) GetDeck(id string) (*model.Deck, error) {
	decks, err := s.ListDecks()
	if err != nil {
		return nil, err
	}
	for i := range decks {
		if decks[i].ID == id {
			return &decks[i], nil
		}
	}
	return nil, ErrEntityNotFound
}

// SyncStatus возвращает текущее состояние синхронизации (пустое, если не сохранялось).
func (s *StoreService) SyncStatus() (*model.SyncStatus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.syncStatusLocked()
}

func (s *StoreService) syncStatusLocked() (*model.SyncStatus, error) {
	raw, err := s.store.ReadDoc(repo.DocSyncStatus)
	if err != nil {
		if err == repo.ErrNotFound {
			return &model.SyncStatus{}, nil
		}
		return nil, err
	}
	var st model.SyncStatus
	if err := json.Unmarshal(raw, &st); err != nil {
		return nil, fmt.Errorf("%w: decode sync status: %v", repo.ErrStorage, err)
	}
	return &st, nil
}

// SaveSyncStatus сохраняет состояние синхронизации.
func (s *StoreService) SaveSyncStatus(st *model.SyncStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	raw, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("%w: encode sync status: %v", repo.ErrStorage, err)
	}
	return s.store.WriteDocs(map[string][]byte{repo.DocSyncStatus: raw})
}

// AppConfig возвращает настройки приложения (значения по умолчанию, если не сохранялись).
func (s *StoreService) AppConfig() (*model.AppConfig, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	raw, err := s.store.ReadDoc(repo.DocAppConfig)
	if err != nil {
		if err == repo.ErrNotFound {
			cfg := model.DefaultAppConfig()
			return &cfg, nil
		}
		return nil, err
	}
	var cfg model.AppConfig
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("%w: decode app config: %v", repo.ErrStorage, err)
	}
	return &cfg, nil
}

// SaveAppConfig сохраняет настройки приложения.
func (s *StoreService) SaveAppConfig(cfg *model.AppConfig) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	raw, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("%w: encode app config: %v", repo.ErrStorage, err)
	}
	return s.store.WriteDocs(map[string][]byte{repo.DocAppConfig: raw})
}

// --- Сохранение сущностей ---

// stampModified выставляет modifiedAt в "сейчас", не позволяя метке двигаться назад.
func stampModified(prev int64) int64 {
	now := time.Now().Unix()
	if now <= prev {
		return prev + 1
	}
	return now
}

// SaveBinder сохраняет биндер: назначает id при отсутствии, штампует modifiedAt,
// снимает флаг избранного с остальных биндеров и помечает сущность как pending-sync.
// Запись списка и статуса — одна транзакция.
func (s *StoreService) SaveBinder(b *model.Binder) error {
	s.mu.Lock()
	binders, err := readListDoc[model.Binder](s.store, repo.DocBinders)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	status, err := s.syncStatusLocked()
	if err != nil {
		s.mu.Unlock()
		return err
	}

	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	if b.CreatedAt == 0 {
		b.CreatedAt = time.Now().Unix()
	}
	prev := int64(0)
	idx := -1
	for i := range binders {
		if binders[i].ID == b.ID {
			idx = i
			prev = binders[i].ModifiedAt
			break
		}
	}
	b.ModifiedAt = stampModified(prev)

	if b.IsFavorite {
		// не более одного избранного биндера
		for i := range binders {
			if binders[i].ID != b.ID {
				binders[i].IsFavorite = false
			}
		}
	}
	if idx >= 0 {
		binders[idx] = *b
	} else {
		binders = append(binders, *b)
	}

	status.MarkPending(model.EntityBinder, b.ID)
	err = s.writeEntitiesLocked(repo.DocBinders, binders, status)
	hook := s.onSave
	s.mu.Unlock()
	if err == nil && hook != nil {
		go hook()
	}
	return err
}

// SaveDeck сохраняет колоду: назначает id при отсутствии, штампует modifiedAt
// и помечает сущность как pending-sync.
func (s *StoreService) SaveDeck(d *model.Deck) error {
	s.mu.Lock()
	decks, err := readListDoc[model.Deck](s.store, repo.DocDecks)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	status, err := s.syncStatusLocked()
	if err != nil {
		s.mu.Unlock()
		return err
	}

	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	if d.CreatedAt == 0 {
		d.CreatedAt = time.Now().Unix()
	}
	prev := int64(0)
	idx := -1
	for i := range decks {
		if decks[i].ID == d.ID {
			idx = i
			prev = decks[i].ModifiedAt
			break
		}
	}
	d.ModifiedAt = stampModified(prev)
	if idx >= 0 {
		decks[idx] = *d
	} else {
		decks = append(decks, *d)
	}

	status.MarkPending(model.EntityDeck, d.ID)
	err = s.writeEntitiesLocked(repo.DocDecks, decks, status)
	hook := s.onSave
	s.mu.Unlock()
	if err == nil && hook != nil {
		go hook()
	}
	return err
}

func writeList[T any](docs map[string][]byte, key string, list []T) error {
	if list == nil {
		list = []T{}
	}
	raw, err := json.Marshal(list)
	if err != nil {
		return fmt.Errorf("%w: encode %q: %v", repo.ErrStorage, key, err)
	}
	docs[key] = raw
	return nil
}

func (s *StoreService) writeEntitiesLocked(key string, list any, status *model.SyncStatus) error {
	docs := map[string][]byte{}
	raw, err := json.Marshal(list)
	if err != nil {
		return fmt.Errorf("%w: encode %q: %v", repo.ErrStorage, key, err)
	}
	docs[key] = raw
	if status != nil {
		sraw, err := json.Marshal(status)
		if err != nil {
			return fmt.Errorf("%w: encode sync status: %v", repo.ErrStorage, err)
		}
		docs[repo.DocSyncStatus] = sraw
	}
	return s.store.WriteDocs(docs)
}

// --- Удаление ---

// DeleteBinder удаляет биндер и все связанные pending/conflict-записи.
func (s *StoreService) DeleteBinder(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	binders, err := readListDoc[model.Binder](s.store, repo.DocBinders)
	if err != nil {
		return err
	}
	status, err := s.syncStatusLocked()
	if err != nil {
		return err
	}
	out := binders[:0]
	found := false
	for _, b := range binders {
		if b.ID == id {
			found = true
			continue
		}
		out = append(out, b)
	}
	if !found {
		return ErrEntityNotFound
	}
	status.ClearPending(model.EntityBinder, id)
	status.RemoveConflicts(model.EntityBinder, id)
	return s.writeEntitiesLocked(repo.DocBinders, out, status)
}

// DeleteDeck удаляет колоду и все связанные pending/conflict-записи.
func (s *StoreService) DeleteDeck(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	decks, err := readListDoc[model.Deck](s.store, repo.DocDecks)
	if err != nil {
		return err
	}
	status, err := s.syncStatusLocked()
	if err != nil {
		return err
	}
	out := decks[:0]
	found := false
	for _, d := range decks {
		if d.ID == id {
			found = true
			continue
		}
		out = append(out, d)
	}
	if !found {
		return ErrEntityNotFound
	}
	status.ClearPending(model.EntityDeck, id)
	status.RemoveConflicts(model.EntityDeck, id)
	return s.writeEntitiesLocked(repo.DocDecks, out, status)
}

// --- Применение удалённых копий (синхронизация) ---

// ApplyRemoteBinder записывает копию биндера, полученную с сервера,
// без пометки pending-sync; ожидающие и конфликтные записи по id снимаются.
func (s *StoreService) ApplyRemoteBinder(b *model.Binder) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	binders, err := readListDoc[model.Binder](s.store, repo.DocBinders)
	if err != nil {
		return err
	}
	status, err := s.syncStatusLocked()
	if err != nil {
		return err
	}
	if b.IsFavorite {
		// не более одного избранного биндера, в том числе при применении удалённой копии
		for i := range binders {
			if binders[i].ID != b.ID {
				binders[i].IsFavorite = false
			}
		}
	}
	idx := -1
	for i := range binders {
		if binders[i].ID == b.ID {
			idx = i
			break
		}
	}
	if idx >= 0 {
		binders[idx] = *b
	} else {
		binders = append(binders, *b)
	}
	status.ClearPending(model.EntityBinder, b.ID)
	status.RemoveConflicts(model.EntityBinder, b.ID)
	return s.writeEntitiesLocked(repo.DocBinders, binders, status)
}

// ApplyRemoteDeck — то же для колод.
func (s *StoreService) ApplyRemoteDeck(d *model.Deck) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	decks, err := readListDoc[model.Deck](s.store, repo.DocDecks)
	if err != nil {
		return err
	}
	status, err := s.syncStatusLocked()
	if err != nil {
		return err
	}
	idx := -1
	for i := range decks {
		if decks[i].ID == d.ID {
			idx = i
			break
		}
	}
	if idx >= 0 {
		decks[idx] = *d
	} else {
		decks = append(decks, *d)
	}
	status.ClearPending(model.EntityDeck, d.ID)
	status.RemoveConflicts(model.EntityDeck, d.ID)
	return s.writeEntitiesLocked(repo.DocDecks, decks, status)
}

// --- Массовые операции (бэкап/восстановление) ---

// Snapshot возвращает полную копию пользовательских данных для снапшота.
func (s *StoreService) Snapshot() (*model.BackupPayload, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	binders, err := readListDoc[model.Binder](s.store, repo.DocBinders)
	if err != nil {
		return nil, err
	}
	decks, err := readListDoc[model.Deck](s.store, repo.DocDecks)
	if err != nil {
		return nil, err
	}
	cfg := model.DefaultAppConfig()
	if raw, err := s.store.ReadDoc(repo.DocAppConfig); err == nil {
		if derr := json.Unmarshal(raw, &cfg); derr != nil {
			return nil, fmt.Errorf("%w: decode app config: %v", repo.ErrStorage, derr)
		}
	} else if err != repo.ErrNotFound {
		return nil, err
	}
	return &model.BackupPayload{Binders: binders, Decks: decks, Config: cfg}, nil
}

// ReplaceEntities атомарно записывает полные списки биндеров и колод.
// Ожидающие изменения и конфликты, ссылающиеся на исчезнувшие id, снимаются.
func (s *StoreService) ReplaceEntities(binders []model.Binder, decks []model.Deck) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	status, err := s.syncStatusLocked()
	if err != nil {
		return err
	}
	// не более одного избранного биндера: остаётся последний по modifiedAt
	keep := -1
	for i := range binders {
		if binders[i].IsFavorite && (keep < 0 || binders[i].ModifiedAt > binders[keep].ModifiedAt) {
			keep = i
		}
	}
	for i := range binders {
		if binders[i].IsFavorite && i != keep {
			binders[i].IsFavorite = false
		}
	}
	binderIDs := map[string]bool{}
	for _, b := range binders {
		binderIDs[b.ID] = true
	}
	deckIDs := map[string]bool{}
	for _, d := range decks {
		deckIDs[d.ID] = true
	}
	prune := func(set []string, exists map[string]bool) []string {
		out := set[:0]
		for _, id := range set {
			if exists[id] {
				out = append(out, id)
			}
		}
		return out
	}
	status.PendingChanges.Binders = prune(status.PendingChanges.Binders, binderIDs)
	status.PendingChanges.Decks = prune(status.PendingChanges.Decks, deckIDs)
	conflicts := status.Conflicts[:0]
	for _, c := range status.Conflicts {
		if c.EntityType == model.EntityBinder && !binderIDs[c.ID] {
			continue
		}
		if c.EntityType == model.EntityDeck && !deckIDs[c.ID] {
			continue
		}
		conflicts = append(conflicts, c)
	}
	status.Conflicts = conflicts

	docs := map[string][]byte{}
	if err := writeList(docs, repo.DocBinders, binders); err != nil {
		return err
	}
	if err := writeList(docs, repo.DocDecks, decks); err != nil {
		return err
	}
	sraw, err := json.Marshal(status)
	if err != nil {
		return fmt.Errorf("%w: encode sync status: %v", repo.ErrStorage, err)
	}
	docs[repo.DocSyncStatus] = sraw
	return s.store.WriteDocs(docs)
}
