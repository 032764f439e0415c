// Package memstore provides in-memory account and transaction stores with an
// optimistic unit of work.
//
// Every committed account carries a version. A unit of work remembers the version
// of each account it read and commits only if none of them changed in the meantime;
// otherwise ExecTx returns domain.ErrConflict and nothing is applied. Ids are drawn
// when a record is saved, so rolled back work leaves gaps like a database sequence.
package memstore

import (
	"context"
	"sort"
	"sync"

	"github.com/go-petr/pet-ledger/internal/domain"
	"github.com/go-petr/pet-ledger/pkg/errorspkg"
)

type versioned struct {
	account domain.Account
	version uint64
}

// Store is a concurrency safe in-memory ledger store.
type Store struct {
	mu                sync.Mutex
	accounts          map[int64]versioned
	byNumber          map[domain.AccountNumber]int64
	transactions      map[int64]domain.Transaction
	nextAccountID     int64
	nextTransactionID int64
}

// New returns an empty Store.
func New() *Store {
	return &Store{
		accounts:     make(map[int64]versioned),
		byNumber:     make(map[domain.AccountNumber]int64),
		transactions: make(map[int64]domain.Transaction),
	}
}

// Accounts returns the account store operating on committed state.
// Each Save commits on its own.
func (s *Store) Accounts() domain.AccountStore { return committedAccounts{s} }

// Transactions returns the transaction store operating on committed state.
// Each Save commits on its own.
func (s *Store) Transactions() domain.TransactionStore { return committedTransactions{s} }

// ExecTx runs fn with buffered stores and applies the buffered writes iff fn
// returns nil and no account read by fn was changed concurrently.
func (s *Store) ExecTx(ctx context.Context, fn func(ctx context.Context, st domain.Stores) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	u := &unit{
		store:        s,
		reads:        make(map[int64]uint64),
		accounts:     make(map[int64]domain.Account),
		transactions: make(map[int64]domain.Transaction),
	}

	if err := fn(ctx, u); err != nil {
		return err
	}

	return s.commit(u)
}

func (s *Store) commit(u *unit) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, version := range u.reads {
		if s.accounts[id].version != version {
			return domain.ErrConflict
		}
	}

	for id, a := range u.accounts {
		if owner, ok := s.byNumber[a.Number]; ok && owner != id {
			return domain.ErrAccountNumberExists
		}
	}

	for id, a := range u.accounts {
		current := s.accounts[id]
		s.accounts[id] = versioned{account: a, version: current.version + 1}
		s.byNumber[a.Number] = id
	}

	for id, t := range u.transactions {
		s.transactions[id] = t
	}

	return nil
}

func (s *Store) drawAccountID() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextAccountID++

	return s.nextAccountID
}

func (s *Store) drawTransactionID() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextTransactionID++

	return s.nextTransactionID
}

// committed returns the committed account and its version.
func (s *Store) committed(id int64) (versioned, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := s.accounts[id]

	return v, ok
}

func (s *Store) committedByNumber(number domain.AccountNumber) (versioned, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.byNumber[number]
	if !ok {
		return versioned{}, false
	}

	return s.accounts[id], true
}

func (s *Store) committedAccounts() []domain.Account {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := make([]domain.Account, 0, len(s.accounts))
	for _, v := range s.accounts {
		items = append(items, v.account)
	}

	return items
}

func (s *Store) committedTransactions() []domain.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := make([]domain.Transaction, 0, len(s.transactions))
	for _, t := range s.transactions {
		items = append(items, t)
	}

	return items
}

func (s *Store) committedTransaction(id int64) (domain.Transaction, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.transactions[id]

	return t, ok
}

// unit is the buffered state of one ExecTx call. It is used by a single goroutine.
type unit struct {
	store        *Store
	reads        map[int64]uint64
	accounts     map[int64]domain.Account
	transactions map[int64]domain.Transaction
}

func (u *unit) Accounts() domain.AccountStore         { return txAccounts{u} }
func (u *unit) Transactions() domain.TransactionStore { return txTransactions{u} }

func (u *unit) account(id int64) (domain.Account, bool) {
	if a, ok := u.accounts[id]; ok {
		return a, true
	}

	v, ok := u.store.committed(id)
	if !ok {
		return domain.Account{}, false
	}

	if _, seen := u.reads[id]; !seen {
		u.reads[id] = v.version
	}

	return v.account, true
}

func (u *unit) allAccounts() []domain.Account {
	merged := make(map[int64]domain.Account)
	for _, a := range u.store.committedAccounts() {
		merged[a.ID] = a
	}

	for id, a := range u.accounts {
		merged[id] = a
	}

	items := make([]domain.Account, 0, len(merged))
	for _, a := range merged {
		items = append(items, a)
	}

	sortAccounts(items)

	return items
}

func (u *unit) allTransactions() []domain.Transaction {
	items := u.store.committedTransactions()
	for _, t := range u.transactions {
		items = append(items, t)
	}

	sortTransactions(items)

	return items
}

type txAccounts struct{ u *unit }

func (r txAccounts) FindByID(_ context.Context, id int64) (domain.Account, error) {
	a, ok := r.u.account(id)
	if !ok {
		return domain.Account{}, domain.ErrAccountNotFound
	}

	return a, nil
}

func (r txAccounts) FindByIDForUpdate(ctx context.Context, id int64) (domain.Account, error) {
	return r.FindByID(ctx, id)
}

func (r txAccounts) FindByNumber(ctx context.Context, number domain.AccountNumber) (domain.Account, error) {
	for id, a := range r.u.accounts {
		if a.Number == number {
			return r.FindByID(ctx, id)
		}
	}

	v, ok := r.u.store.committedByNumber(number)
	if !ok {
		return domain.Account{}, domain.ErrAccountNotFound
	}

	return r.FindByID(ctx, v.account.ID)
}

func (r txAccounts) ListByOwner(_ context.Context, ownerID int64) ([]domain.Account, error) {
	items := []domain.Account{}
	for _, a := range r.u.allAccounts() {
		if a.OwnerID == ownerID {
			items = append(items, a)
		}
	}

	return items, nil
}

func (r txAccounts) ListAll(_ context.Context) ([]domain.Account, error) {
	return r.u.allAccounts(), nil
}

func (r txAccounts) Save(_ context.Context, a domain.Account) (domain.Account, error) {
	if a.Balance.IsNegative() {
		return domain.Account{}, domain.ErrInsufficientBalance
	}

	if a.ID == 0 {
		for _, existing := range r.u.allAccounts() {
			if existing.Number == a.Number {
				return domain.Account{}, domain.ErrAccountNumberExists
			}
		}

		a.ID = r.u.store.drawAccountID()
		r.u.accounts[a.ID] = a

		return a, nil
	}

	current, ok := r.u.account(a.ID)
	if !ok {
		return domain.Account{}, domain.ErrAccountNotFound
	}

	// Number, owner, kind and creation time are immutable.
	current.Balance = a.Balance
	current.Status = a.Status
	current.UpdatedAt = a.UpdatedAt
	r.u.accounts[current.ID] = current

	return current, nil
}

type txTransactions struct{ u *unit }

func (r txTransactions) Save(_ context.Context, t domain.Transaction) (domain.Transaction, error) {
	if t.ID != 0 {
		return domain.Transaction{}, errorspkg.ErrInternal
	}

	if !t.Amount.IsPositive() {
		return domain.Transaction{}, domain.ErrInvalidAmount
	}

	if t.FromAccountID != 0 {
		if _, ok := r.u.account(t.FromAccountID); !ok {
			return domain.Transaction{}, domain.ErrSourceAccountNotFound
		}
	}

	if t.ToAccountID != 0 {
		if _, ok := r.u.account(t.ToAccountID); !ok {
			return domain.Transaction{}, domain.ErrDestinationAccountNotFound
		}
	}

	t.ID = r.u.store.drawTransactionID()
	r.u.transactions[t.ID] = t

	return t, nil
}

func (r txTransactions) FindByID(_ context.Context, id int64) (domain.Transaction, error) {
	if t, ok := r.u.transactions[id]; ok {
		return t, nil
	}

	t, ok := r.u.store.committedTransaction(id)
	if !ok {
		return domain.Transaction{}, domain.ErrTransactionNotFound
	}

	return t, nil
}

func (r txTransactions) ListByAccount(_ context.Context, accountID int64) ([]domain.Transaction, error) {
	items := []domain.Transaction{}
	for _, t := range r.u.allTransactions() {
		if t.FromAccountID == accountID || t.ToAccountID == accountID {
			items = append(items, t)
		}
	}

	return items, nil
}

func (r txTransactions) ListAll(_ context.Context) ([]domain.Transaction, error) {
	return r.u.allTransactions(), nil
}

func sortAccounts(items []domain.Account) {
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
}

// sortTransactions orders most recent first.
func sortTransactions(items []domain.Transaction) {
	sort.Slice(items, func(i, j int) bool {
		if !items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].CreatedAt.After(items[j].CreatedAt)
		}

		return items[i].ID > items[j].ID
	})
}
