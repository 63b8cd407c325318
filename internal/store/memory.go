package store

import (
	"context"
	"strings"
	"sync"

	"github.com/cleared-dev/spendsync/internal/model"
)

var _ Store = (*Memory)(nil)

// Memory is an in-memory Store. The zero value is not usable; call NewMemory.
type Memory struct {
	mu    sync.RWMutex
	items []model.StoredExpense
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) filter(keep func(model.StoredExpense) bool) []model.StoredExpense {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []model.StoredExpense
	for _, it := range m.items {
		if keep(it) {
			out = append(out, it)
		}
	}
	return out
}

func (m *Memory) FindByPeriod(_ context.Context, month, year int, userID string) ([]model.StoredExpense, error) {
	return m.filter(func(it model.StoredExpense) bool {
		return it.Month == month && it.Year == year && it.UserID == userID
	}), nil
}

func (m *Memory) FindByCategory(_ context.Context, category, userID string) ([]model.StoredExpense, error) {
	return m.filter(func(it model.StoredExpense) bool {
		return strings.EqualFold(it.Category, category) && it.UserID == userID
	}), nil
}

func (m *Memory) FindByMonthYear(_ context.Context, q Query) (Page, error) {
	all := m.filter(func(it model.StoredExpense) bool {
		if it.Month != q.Month || it.Year != q.Year || it.UserID != q.UserID {
			return false
		}
		if q.Paid != nil && it.Paid != *q.Paid {
			return false
		}
		if q.ExcludeCategory != "" && strings.EqualFold(it.Category, q.ExcludeCategory) {
			return false
		}
		return true
	})

	page := Page{Total: len(all)}
	start := min(max(q.Offset, 0), len(all))
	end := len(all)
	if q.Limit > 0 {
		end = min(start+q.Limit, len(all))
	}
	page.Items = all[start:end]
	return page, nil
}

func (m *Memory) SaveAll(_ context.Context, records []model.Expense) ([]model.StoredExpense, error) {
	stored, err := prepare(records)
	if err != nil {
		return nil, err
	}
	m.mu.Lock()
	m.items = append(m.items, stored...)
	m.mu.Unlock()
	return stored, nil
}

func (m *Memory) Get(_ context.Context, id string) (model.StoredExpense, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, it := range m.items {
		if it.ID == id {
			return it, nil
		}
	}
	return model.StoredExpense{}, ErrNotFound
}

func (m *Memory) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, it := range m.items {
		if it.ID == id {
			m.items = append(m.items[:i], m.items[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func (m *Memory) MarkPaid(_ context.Context, id string, paid bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.items {
		if m.items[i].ID == id {
			m.items[i].Paid = paid
			return nil
		}
	}
	return ErrNotFound
}

func (m *Memory) Close() error { return nil }
