package model

// Типы сущностей, участвующих в синхронизации.
const (
	EntityBinder = "binder"
	EntityDeck   = "deck"
)

// PendingChanges — множества id сущностей, ожидающих сверки с сервером.
type PendingChanges struct {
	Binders []string `json:"binders"`
	Decks   []string `json:"decks"`
}

// Conflict — зафиксированный конфликт: обе копии изменились после последней синхронизации.
type Conflict struct {
	EntityType       string `json:"entityType"`
	ID               string `json:"id"`
	LocalModifiedAt  int64  `json:"localModifiedAt"`
	RemoteModifiedAt int64  `json:"remoteModifiedAt"`
}

// SyncStatus — состояние синхронизации: метка последнего прохода,
// ожидающие изменения и упорядоченный список конфликтов.
type SyncStatus struct {
	LastSync       int64          `json:"lastSync"`
	PendingChanges PendingChanges `json:"pendingChanges"`
	Conflicts      []Conflict     `json:"conflicts"`
}

// IsPending сообщает, ожидает ли сущность синхронизации.
func (s *SyncStatus) IsPending(entityType, id string) bool {
	for _, v := range s.pendingSet(entityType) {
		if v == id {
			return true
		}
	}
	return false
}

// MarkPending добавляет id в ожидающие (идемпотентно).
func (s *SyncStatus) MarkPending(entityType, id string) {
	if s.IsPending(entityType, id) {
		return
	}
	switch entityType {
	case EntityBinder:
		s.PendingChanges.Binders = append(s.PendingChanges.Binders, id)
	case EntityDeck:
		s.PendingChanges.Decks = append(s.PendingChanges.Decks, id)
	}
}

// ClearPending убирает id из ожидающих.
func (s *SyncStatus) ClearPending(entityType, id string) {
	set := s.pendingSet(entityType)
	out := set[:0]
	for _, v := range set {
		if v != id {
			out = append(out, v)
		}
	}
	switch entityType {
	case EntityBinder:
		s.PendingChanges.Binders = out
	case EntityDeck:
		s.PendingChanges.Decks = out
	}
}

// RemoveConflicts удаляет все конфликты для указанной сущности.
func (s *SyncStatus) RemoveConflicts(entityType, id string) {
	out := s.Conflicts[:0]
	for _, c := range s.Conflicts {
		if c.EntityType == entityType && c.ID == id {
			continue
		}
		out = append(out, c)
	}
	s.Conflicts = out
}

// FindConflict ищет конфликт по типу и id.
func (s *SyncStatus) FindConflict(entityType, id string) (Conflict, bool) {
	for _, c := range s.Conflicts {
		if c.EntityType == entityType && c.ID == id {
			return c, true
		}
	}
	return Conflict{}, false
}

func (s *SyncStatus) pendingSet(entityType string) []string {
	switch entityType {
	case EntityBinder:
		return s.PendingChanges.Binders
	case EntityDeck:
		return s.PendingChanges.Decks
	}
	return nil
}
