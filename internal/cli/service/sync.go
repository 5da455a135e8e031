package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"BinderKeeper/internal/cli/model"
)

// Политики разрешения конфликтов при более новой удалённой копии.
const (
	PolicyManual = "manual" // зафиксировать конфликт, ничего не трогать
	PolicyLocal  = "local"  // принудительно выгрузить локальную копию
	PolicyRemote = "remote" // применить удалённую копию локально
)

// ErrSyncBusy — проход синхронизации уже выполняется.
var ErrSyncBusy = errors.New("synchronization already in progress")

// ErrUnknownPolicy — неизвестная политика разрешения конфликтов.
var ErrUnknownPolicy = errors.New("unknown conflict policy")

// RemoteGateway — порт удалённого сервиса коллекций, как его видит синхронизатор.
type RemoteGateway interface {
	// FetchBinder возвращает (binder, found, err); found=false — на сервере копии нет.
	FetchBinder(id string) (*model.Binder, bool, error)
	UploadBinder(b *model.Binder) error
	FetchDeck(id string) (*model.Deck, bool, error)
	UploadDeck(d *model.Deck) error
}

// SyncResult — итог одного прохода синхронизации.
type SyncResult struct {
	Success    bool
	Uploaded   int // выгружено, применено локально или уже согласовано
	Conflicted int // новых конфликтов зафиксировано
	Failed     int
	Errors     []string
	Warnings   []string
}

// SyncService сверяет локальные ожидающие изменения с удалённым сервисом.
// Конечный автомат для каждой ожидающей сущности: Pending → Uploaded | Conflicted | Failed.
type SyncService struct {
	store  *StoreService
	remote RemoteGateway

	mu      sync.Mutex
	running bool
}

// NewSyncService создаёт синхронизатор поверх хранилища и удалённого шлюза.
func NewSyncService(store *StoreService, remote RemoteGateway) *SyncService {
	return &SyncService{store: store, remote: remote}
}

func (s *SyncService) acquire(force bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running && !force {
		return ErrSyncBusy
	}
	s.running = true
	return nil
}

func (s *SyncService) release() {
	s.mu.Lock()
	s.running = false
	s.mu.Unlock()
}

// RunPass выполняет один проход синхронизации с указанной политикой.
// Одновременно может выполняться только один проход: повторный вызов
// отклоняется с ErrSyncBusy, если не задан force.
// Ожидающие id обрабатываются в стабильном детерминированном порядке.
func (s *SyncService) RunPass(ctx context.Context, policy string, force bool) (SyncResult, error) {
	switch policy {
	case PolicyManual, PolicyLocal, PolicyRemote:
	default:
		return SyncResult{}, fmt.Errorf("%w: %q", ErrUnknownPolicy, policy)
	}
	if err := s.acquire(force); err != nil {
		return SyncResult{}, err
	}
	defer s.release()

	var res SyncResult

	status, err := s.store.SyncStatus()
	if err != nil {
		return res, err
	}
	binderIDs := append([]string(nil), status.PendingChanges.Binders...)
	deckIDs := append([]string(nil), status.PendingChanges.Decks...)
	sort.Strings(binderIDs)
	sort.Strings(deckIDs)

	for _, id := range binderIDs {
		if err := ctx.Err(); err != nil {
			res.Errors = append(res.Errors, fmt.Sprintf("pass cancelled: %v", err))
			res.Failed++
			break
		}
		s.syncBinder(id, policy, &res)
	}
	for _, id := range deckIDs {
		if err := ctx.Err(); err != nil {
			res.Errors = append(res.Errors, fmt.Sprintf("pass cancelled: %v", err))
			res.Failed++
			break
		}
		s.syncDeck(id, policy, &res)
	}

	// pendingChanges очищается целиком только за безошибочный и бесконфликтный проход
	if res.Failed == 0 && res.Conflicted == 0 && len(res.Errors) == 0 {
		status, err := s.store.SyncStatus()
		if err != nil {
			return res, err
		}
		status.PendingChanges = model.PendingChanges{}
		status.LastSync = time.Now().Unix()
		if err := s.store.SaveSyncStatus(status); err != nil {
			return res, err
		}
		res.Success = true
	}
	return res, nil
}

func (s *SyncService) syncBinder(id string, policy string, res *SyncResult) {
	local, err := s.store.GetBinder(id)
	if err != nil {
		// сущность исчезла из хранилища — снимаем её из ожидающих
		if errors.Is(err, ErrEntityNotFound) {
			s.clearPending(model.EntityBinder, id)
			res.Warnings = append(res.Warnings, fmt.Sprintf("binder %s no longer exists, removed from pending", id))
			return
		}
		res.Failed++
		res.Errors = append(res.Errors, fmt.Sprintf("binder %s: %v", id, err))
		return
	}

	remote, found, err := s.remote.FetchBinder(id)
	if err != nil {
		res.Failed++
		res.Errors = append(res.Errors, fmt.Sprintf("binder %s: fetch: %v", id, err))
		return
	}

	upload := func() {
		if err := s.remote.UploadBinder(local); err != nil {
			res.Failed++
			res.Errors = append(res.Errors, fmt.Sprintf("binder %s: upload: %v", id, err))
			return
		}
		s.clearPending(model.EntityBinder, id)
		res.Uploaded++
	}

	switch {
	case !found:
		// на сервере копии нет — сущность новая
		upload()
	case remote.ModifiedAt == local.ModifiedAt:
		// уже согласовано
		s.clearPending(model.EntityBinder, id)
		res.Uploaded++
	case local.ModifiedAt > remote.ModifiedAt:
		upload()
	default:
		// удалённая копия новее
		switch policy {
		case PolicyRemote:
			if err := s.store.ApplyRemoteBinder(remote); err != nil {
				res.Failed++
				res.Errors = append(res.Errors, fmt.Sprintf("binder %s: apply remote: %v", id, err))
				return
			}
			res.Uploaded++
		case PolicyLocal:
			upload()
		default:
			s.recordConflict(model.Conflict{
				EntityType:       model.EntityBinder,
				ID:               id,
				LocalModifiedAt:  local.ModifiedAt,
				RemoteModifiedAt: remote.ModifiedAt,
			}, res)
		}
	}
}

func (s *SyncService) syncDeck(id string, policy string, res *SyncResult) {
	local, err := s.store.GetDeck(id)
	if err != nil {
		if errors.Is(err, ErrEntityNotFound) {
			s.clearPending(model.EntityDeck, id)
			res.Warnings = append(res.Warnings, fmt.Sprintf("deck %s no longer exists, removed from pending", id))
			return
		}
		res.Failed++
		res.Errors = append(res.Errors, fmt.Sprintf("deck %s: %v", id, err))
		return
	}

	remote, found, err := s.remote.FetchDeck(id)
	if err != nil {
		res.Failed++
		res.Errors = append(res.Errors, fmt.Sprintf("deck %s: fetch: %v", id, err))
		return
	}

	upload := func() {
		if err := s.remote.UploadDeck(local); err != nil {
			res.Failed++
			res.Errors = append(res.Errors, fmt.Sprintf("deck %s: upload: %v", id, err))
			return
		}
		s.clearPending(model.EntityDeck, id)
		res.Uploaded++
	}

	switch {
	case !found:
		upload()
	case remote.ModifiedAt == local.ModifiedAt:
		s.clearPending(model.EntityDeck, id)
		res.Uploaded++
	case local.ModifiedAt > remote.ModifiedAt:
		upload()
	default:
		switch policy {
		case PolicyRemote:
			if err := s.store.ApplyRemoteDeck(remote); err != nil {
				res.Failed++
				res.Errors = append(res.Errors, fmt.Sprintf("deck %s: apply remote: %v", id, err))
				return
			}
			res.Uploaded++
		case PolicyLocal:
			upload()
		default:
			s.recordConflict(model.Conflict{
				EntityType:       model.EntityDeck,
				ID:               id,
				LocalModifiedAt:  local.ModifiedAt,
				RemoteModifiedAt: remote.ModifiedAt,
			}, res)
		}
	}
}

// clearPending перечитывает статус непосредственно перед слиянием изменения,
// чтобы не потерять id, добавленные во время сетевого ожидания.
func (s *SyncService) clearPending(entityType, id string) {
	status, err := s.store.SyncStatus()
	if err != nil {
		return
	}
	status.ClearPending(entityType, id)
	_ = s.store.SaveSyncStatus(status)
}

func (s *SyncService) recordConflict(c model.Conflict, res *SyncResult) {
	status, err := s.store.SyncStatus()
	if err != nil {
		res.Failed++
		res.Errors = append(res.Errors, fmt.Sprintf("%s %s: record conflict: %v", c.EntityType, c.ID, err))
		return
	}
	if _, exists := status.FindConflict(c.EntityType, c.ID); !exists {
		status.Conflicts = append(status.Conflicts, c)
		if err := s.store.SaveSyncStatus(status); err != nil {
			res.Failed++
			res.Errors = append(res.Errors, fmt.Sprintf("%s %s: record conflict: %v", c.EntityType, c.ID, err))
			return
		}
	}
	res.Conflicted++
	res.Warnings = append(res.Warnings, fmt.Sprintf("%s %s: remote copy is newer, conflict recorded", c.EntityType, c.ID))
}

// ResolveConflict применяет выбранную сторону зафиксированного конфликта
// и удаляет запись о конфликте.
func (s *SyncService) ResolveConflict(entityType, id, side string) error {
	status, err := s.store.SyncStatus()
	if err != nil {
		return err
	}
	if _, ok := status.FindConflict(entityType, id); !ok {
		return fmt.Errorf("no recorded conflict for %s %s", entityType, id)
	}

	switch side {
	case PolicyLocal:
		switch entityType {
		case model.EntityBinder:
			local, err := s.store.GetBinder(id)
			if err != nil {
				return err
			}
			if err := s.remote.UploadBinder(local); err != nil {
				return err
			}
		case model.EntityDeck:
			local, err := s.store.GetDeck(id)
			if err != nil {
				return err
			}
			if err := s.remote.UploadDeck(local); err != nil {
				return err
			}
		default:
			return fmt.Errorf("unknown entity type %q", entityType)
		}
		// успешная выгрузка снимает конфликт и ожидание
		status, err := s.store.SyncStatus()
		if err != nil {
			return err
		}
		status.RemoveConflicts(entityType, id)
		status.ClearPending(entityType, id)
		return s.store.SaveSyncStatus(status)

	case PolicyRemote:
		switch entityType {
		case model.EntityBinder:
			remote, found, err := s.remote.FetchBinder(id)
			if err != nil {
				return err
			}
			if !found {
				return fmt.Errorf("binder %s not found on server", id)
			}
			return s.store.ApplyRemoteBinder(remote)
		case model.EntityDeck:
			remote, found, err := s.remote.FetchDeck(id)
			if err != nil {
				return err
			}
			if !found {
				return fmt.Errorf("deck %s not found on server", id)
			}
			return s.store.ApplyRemoteDeck(remote)
		default:
			return fmt.Errorf("unknown entity type %q", entityType)
		}

	default:
		return fmt.Errorf("%w: %q (expected local or remote)", ErrUnknownPolicy, side)
	}
}

// OnNetworkOnline — переход в онлайн автоматически запускает один проход
// с политикой manual. Занятость синхронизатора не считается ошибкой.
func (s *SyncService) OnNetworkOnline(ctx context.Context) (SyncResult, error) {
	res, err := s.RunPass(ctx, PolicyManual, false)
	if errors.Is(err, ErrSyncBusy) {
		return SyncResult{}, nil
	}
	return res, err
}
