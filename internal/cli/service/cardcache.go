package service

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"sync"
	"time"

	"BinderKeeper/internal/cli/model"
	"BinderKeeper/internal/cli/repo"
)

// Ограничения кэша карт по умолчанию.
const (
	DefaultCardCacheMaxEntries = 5000
	DefaultCardCacheTTL        = 7 * 24 * time.Hour
)

// CardCacheService — ограниченный кэш метаданных карт.
// Записи вытесняются по TTL и по превышению ёмкости (старейшие первыми),
// чтобы кэш не рос безгранично.
type CardCacheService struct {
	store      repo.Store
	mu         sync.Mutex
	maxEntries int
	ttl        time.Duration
}

// NewCardCacheService создаёт кэш с лимитами по умолчанию.
func NewCardCacheService(store repo.Store) *CardCacheService {
	return &CardCacheService{
		store:      store,
		maxEntries: DefaultCardCacheMaxEntries,
		ttl:        DefaultCardCacheTTL,
	}
}

// NewCardCacheServiceWithLimits создаёт кэш с явными лимитами (для тестов).
func NewCardCacheServiceWithLimits(store repo.Store, maxEntries int, ttl time.Duration) *CardCacheService {
	return &CardCacheService{store: store, maxEntries: maxEntries, ttl: ttl}
}

func (c *CardCacheService) load() (map[string]model.Card, error) {
	raw, err := c.store.ReadDoc(repo.DocCardCache)
	if err != nil {
		if err == repo.ErrNotFound {
			return map[string]model.Card{}, nil
		}
		return nil, err
	}
	var m map[string]model.Card
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("%w: decode card cache: %v", repo.ErrStorage, err)
	}
	return m, nil
}

func (c *CardCacheService) save(m map[string]model.Card) error {
	raw, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("%w: encode card cache: %v", repo.ErrStorage, err)
	}
	return c.store.WriteDocs(map[string][]byte{repo.DocCardCache: raw})
}

// Card возвращает карту из кэша; просроченные записи не отдаются.
func (c *CardCacheService) Card(id int) (*model.Card, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	m, err := c.load()
	if err != nil {
		return nil, false
	}
	card, ok := m[strconv.Itoa(id)]
	if !ok {
		return nil, false
	}
	if c.ttl > 0 && time.Since(time.Unix(card.CachedAt, 0)) > c.ttl {
		return nil, false
	}
	return &card, true
}

// Put добавляет карты в кэш, штампуя CachedAt, и применяет политику вытеснения.
func (c *CardCacheService) Put(cards ...model.Card) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	m, err := c.load()
	if err != nil {
		return err
	}
	now := time.Now().Unix()
	for _, card := range cards {
		card.CachedAt = now
		m[strconv.Itoa(card.ID)] = card
	}
	c.evict(m)
	return c.save(m)
}

// Size возвращает текущее число записей в кэше.
func (c *CardCacheService) Size() (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	m, err := c.load()
	if err != nil {
		return 0, err
	}
	return len(m), nil
}

// evict удаляет просроченные записи, затем старейшие сверх ёмкости.
func (c *CardCacheService) evict(m map[string]model.Card) {
	if c.ttl > 0 {
		cutoff := time.Now().Add(-c.ttl).Unix()
		for k, v := range m {
			if v.CachedAt < cutoff {
				delete(m, k)
			}
		}
	}
	if c.maxEntries <= 0 || len(m) <= c.maxEntries {
		return
	}
	type entry struct {
		key      string
		cachedAt int64
	}
	entries := make([]entry, 0, len(m))
	for k, v := range m {
		entries = append(entries, entry{k, v.CachedAt})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].cachedAt != entries[j].cachedAt {
			return entries[i].cachedAt < entries[j].cachedAt
		}
		return entries[i].key < entries[j].key
	})
	for _, e := range entries[:len(m)-c.maxEntries] {
		delete(m, e.key)
	}
}
