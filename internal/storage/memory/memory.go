package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"budget/internal/core"
)

type storedTransaction struct {
	seq int
	tx  core.Transaction
}

// Store keeps everything in process memory. It honours the same constraints
// as the SQLite schema: unique category names, set-null on category delete
// and a single settings row.
type Store struct {
	mu           sync.RWMutex
	seq          int
	categories   map[string]core.Category
	transactions map[string]storedTransaction
	settings     *core.Settings
	now          func() time.Time
}

func New() *Store {
	return &Store{
		categories:   make(map[string]core.Category),
		transactions: make(map[string]storedTransaction),
		now:          time.Now,
	}
}

func (s *Store) Ping(context.Context) error { return nil }

func (s *Store) Close() error { return nil }

// ListTransactions implements ports.TransactionQuerier.
func (s *Store) ListTransactions(_ context.Context, f core.Filter) ([]core.TransactionView, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := make([]storedTransaction, 0, len(s.transactions))
	for _, st := range s.transactions {
		if f.Matches(st.tx) {
			matched = append(matched, st)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		a, b := matched[i], matched[j]
		if !a.tx.Date.Equal(b.tx.Date.Time) {
			return a.tx.Date.After(b.tx.Date.Time)
		}
		return a.seq > b.seq
	})

	views := make([]core.TransactionView, 0, len(matched))
	for _, st := range matched {
		v := core.TransactionView{Transaction: st.tx}
		if st.tx.CategoryID != nil {
			if c, ok := s.categories[*st.tx.CategoryID]; ok {
				v.Category = &core.CategoryRef{ID: c.ID, Name: c.Name}
			}
		}
		views = append(views, v)
	}
	return views, nil
}

func (s *Store) CreateTransaction(_ context.Context, tx core.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkCategoryLocked(tx.CategoryID); err != nil {
		return fmt.Errorf("create transaction: %w", err)
	}
	if _, ok := s.transactions[tx.ID]; ok {
		return fmt.Errorf("create transaction: duplicate id %s", tx.ID)
	}
	now := s.now().UTC()
	tx.CreatedAt, tx.UpdatedAt = now, now
	tx.CategoryID = cloneID(tx.CategoryID)
	s.seq++
	s.transactions[tx.ID] = storedTransaction{seq: s.seq, tx: tx}
	return nil
}

func (s *Store) UpdateTransaction(_ context.Context, tx core.Transaction) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.transactions[tx.ID]
	if !ok {
		return false, nil
	}
	if err := s.checkCategoryLocked(tx.CategoryID); err != nil {
		return false, fmt.Errorf("update transaction: %w", err)
	}
	tx.CreatedAt = st.tx.CreatedAt
	tx.UpdatedAt = s.now().UTC()
	tx.CategoryID = cloneID(tx.CategoryID)
	st.tx = tx
	s.transactions[tx.ID] = st
	return true, nil
}

func (s *Store) DeleteTransaction(_ context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.transactions[id]; !ok {
		return false, nil
	}
	delete(s.transactions, id)
	return true, nil
}

func (s *Store) ListCategories(_ context.Context) ([]core.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]core.Category, 0, len(s.categories))
	for _, c := range s.categories {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *Store) GetCategory(_ context.Context, id string) (core.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.categories[id]
	if !ok {
		return core.Category{}, fmt.Errorf("get category %s: %w", id, core.ErrNotFound)
	}
	return c, nil
}

func (s *Store) CreateCategory(_ context.Context, c core.Category) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.nameTakenLocked(c.Name, "") {
		return fmt.Errorf("create category %q: %w", c.Name, core.ErrDuplicateCategory)
	}
	now := s.now().UTC()
	c.CreatedAt, c.UpdatedAt = now, now
	s.categories[c.ID] = c
	return nil
}

func (s *Store) UpdateCategory(_ context.Context, c core.Category) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.categories[c.ID]
	if !ok {
		return false, nil
	}
	if s.nameTakenLocked(c.Name, c.ID) {
		return false, fmt.Errorf("update category %q: %w", c.Name, core.ErrDuplicateCategory)
	}
	existing.Name = c.Name
	existing.UpdatedAt = s.now().UTC()
	s.categories[c.ID] = existing
	return true, nil
}

// DeleteCategory removes the category and clears it from its transactions.
func (s *Store) DeleteCategory(_ context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.categories[id]; !ok {
		return false, nil
	}
	delete(s.categories, id)
	for txID, st := range s.transactions {
		if st.tx.CategoryID != nil && *st.tx.CategoryID == id {
			st.tx.CategoryID = nil
			s.transactions[txID] = st
		}
	}
	return true, nil
}

func (s *Store) GetSettings(_ context.Context, def core.Currency) (core.Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.settings == nil {
		s.settings = &core.Settings{ID: core.SettingsKey, Currency: def}
	}
	return *s.settings, nil
}

func (s *Store) SetCurrency(_ context.Context, c core.Currency) (core.Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.settings = &core.Settings{ID: core.SettingsKey, Currency: c}
	return *s.settings, nil
}

func (s *Store) checkCategoryLocked(id *string) error {
	if id == nil {
		return nil
	}
	if _, ok := s.categories[*id]; !ok {
		return core.ErrUnknownCategory
	}
	return nil
}

func (s *Store) nameTakenLocked(name, exceptID string) bool {
	for id, c := range s.categories {
		if id != exceptID && c.Name == name {
			return true
		}
	}
	return false
}

func cloneID(id *string) *string {
	if id == nil {
		return nil
	}
	v := *id
	return &v
}
