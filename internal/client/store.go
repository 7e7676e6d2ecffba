package client

import "spendtrack/internal/models"

// Store holds the in-memory mirror of the remote collections. It is owned by
// the dispatcher's single goroutine; callers outside that goroutine must go
// through dispatched commands and read snapshots, never the live slices.
type Store struct {
	transactions []models.Transaction
	categories   []models.Category
	plans        []models.Plan
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{}
}

// Snapshot returns a deep enough copy of the mirror for safe reading:
// fresh slices, plus copied category sets inside plans since reconciliation
// mutates plan entries in place.
func (s *Store) Snapshot() Collections {
	snap := Collections{
		Transactions: make([]models.Transaction, len(s.transactions)),
		Categories:   make([]models.Category, len(s.categories)),
		Plans:        make([]models.Plan, len(s.plans)),
	}
	copy(snap.Transactions, s.transactions)
	copy(snap.Categories, s.categories)
	for i, p := range s.plans {
		cats := make([]models.PlanCategory, len(p.Categories))
		copy(cats, p.Categories)
		p.Categories = cats
		snap.Plans[i] = p
	}
	return snap
}

// Restore replaces the whole mirror with a previously taken snapshot.
func (s *Store) Restore(snap Collections) {
	s.transactions = snap.Transactions
	s.categories = snap.Categories
	s.plans = snap.Plans
}

// Merge replaces each collection present in the authoritative payload.
// Collections the server did not echo are left as they are.
func (s *Store) Merge(c *Collections) {
	if c.Transactions != nil {
		s.transactions = c.Transactions
	}
	if c.Categories != nil {
		s.categories = c.Categories
	}
	if c.Plans != nil {
		s.plans = c.Plans
	}
}

// Transactions returns the live transaction mirror.
func (s *Store) Transactions() []models.Transaction { return s.transactions }

// Categories returns the live category mirror.
func (s *Store) Categories() []models.Category { return s.categories }

// Plans returns the live plan mirror.
func (s *Store) Plans() []models.Plan { return s.plans }

// PrependTransaction inserts an optimistic transaction at the head of the
// list, where a freshly added row renders.
func (s *Store) PrependTransaction(t models.Transaction) {
	s.transactions = append([]models.Transaction{t}, s.transactions...)
}

// RemoveTransaction drops the transaction with the given ID from the mirror.
func (s *Store) RemoveTransaction(id uint) {
	for i, t := range s.transactions {
		if t.ID == id {
			s.transactions = append(s.transactions[:i], s.transactions[i+1:]...)
			return
		}
	}
}

// ReplaceTransaction swaps the transaction with the given ID in place.
func (s *Store) ReplaceTransaction(id uint, t models.Transaction) {
	for i := range s.transactions {
		if s.transactions[i].ID == id {
			s.transactions[i] = t
			return
		}
	}
}

// FindTransaction returns a copy of the transaction with the given ID.
func (s *Store) FindTransaction(id uint) (models.Transaction, bool) {
	for _, t := range s.transactions {
		if t.ID == id {
			return t, true
		}
	}
	return models.Transaction{}, false
}
