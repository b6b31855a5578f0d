package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"pos-api/models"
	"pos-api/store"
)

var _ store.Store = (*Store)(nil)

// Store keeps everything in maps behind one RWMutex. Conditional writes are
// checked and applied under the write lock, which gives the same
// all-or-nothing behaviour the database backends get from transactions.
type Store struct {
	mu sync.RWMutex

	products     map[string]*models.Product
	transactions map[string]*models.Transaction
	users        map[string]*models.User
}

func New() *Store {
	return &Store{
		products:     make(map[string]*models.Product),
		transactions: make(map[string]*models.Transaction),
		users:        make(map[string]*models.User),
	}
}

func (s *Store) Migrate(context.Context) error { return nil }
func (s *Store) Ping(context.Context) error    { return nil }
func (s *Store) Close() error                  { return nil }

// ==================== Products ====================

func (s *Store) CreateProduct(_ context.Context, p *models.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.products[p.ID]; exists {
		return models.ErrDuplicate
	}
	s.products[p.ID] = copyProduct(p)
	return nil
}

func (s *Store) GetProduct(_ context.Context, id string) (*models.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.products[id]
	if !ok {
		return nil, models.ErrProductNotFound
	}
	return copyProduct(p), nil
}

func (s *Store) ListProducts(_ context.Context, q store.ProductQuery) ([]models.Product, int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]models.Product, 0)
	for _, p := range s.products {
		if matchProduct(p, q) {
			result = append(result, *copyProduct(p))
		}
	}

	sort.SliceStable(result, func(i, j int) bool {
		a, b := result[i], result[j]
		switch q.Sort {
		case store.SortPriceLow:
			return a.Price < b.Price
		case store.SortPriceHigh:
			return a.Price > b.Price
		case store.SortBestSeller:
			if a.IsBestSeller != b.IsBestSeller {
				return a.IsBestSeller
			}
		}
		return a.CreatedAt.After(b.CreatedAt)
	})

	total := int64(len(result))
	return paginate(result, q.Page), total, nil
}

func matchProduct(p *models.Product, q store.ProductQuery) bool {
	if q.OnlineOnly && !p.IsOnline {
		return false
	}
	if q.Category != "" && p.Category != q.Category {
		return false
	}
	if q.SubCategory != "" && p.SubCategory != q.SubCategory {
		return false
	}
	if q.MinPrice != nil && p.Price < *q.MinPrice {
		return false
	}
	if q.MaxPrice != nil && p.Price > *q.MaxPrice {
		return false
	}
	if q.Search != "" {
		desc := ""
		if p.Description != nil {
			desc = *p.Description
		}
		if !store.ContainsFold(p.Name, q.Search) &&
			!store.ContainsFold(desc, q.Search) &&
			!store.ContainsFold(p.SubCategory, q.Search) {
			return false
		}
	}
	return true
}

func (s *Store) DeleteProduct(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.products[id]; !ok {
		return models.ErrProductNotFound
	}
	delete(s.products, id)
	return nil
}

func (s *Store) MarkProductSold(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.markSoldLocked(id, time.Now())
}

func (s *Store) markSoldLocked(id string, at time.Time) error {
	p, ok := s.products[id]
	if !ok {
		return models.ErrProductNotFound
	}
	if p.StockStatus != models.InStock {
		return models.ErrProductSold
	}
	p.StockStatus = models.OutOfStock
	p.IsOnline = false
	p.UpdatedAt = at
	return nil
}

// ==================== Transactions ====================

func (s *Store) CommitSale(_ context.Context, tx *models.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.transactions[tx.ID]; exists {
		return models.ErrDuplicate
	}
	if tx.ProductID != nil {
		if err := s.markSoldLocked(*tx.ProductID, tx.CreatedAt); err != nil {
			return err
		}
	}
	s.transactions[tx.ID] = copyTransaction(tx)
	return nil
}

func (s *Store) CreateTransaction(_ context.Context, tx *models.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.transactions[tx.ID]; exists {
		return models.ErrDuplicate
	}
	s.transactions[tx.ID] = copyTransaction(tx)
	return nil
}

func (s *Store) GetTransaction(_ context.Context, id string) (*models.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.transactions[id]
	if !ok {
		return nil, models.ErrTransactionNotFound
	}
	return copyTransaction(t), nil
}

func (s *Store) ListTransactions(_ context.Context, q store.TransactionQuery) ([]models.Transaction, int64, error) {
	return s.filterTransactions(func(t *models.Transaction) bool {
		if q.Since != nil && t.CreatedAt.Before(*q.Since) {
			return false
		}
		return q.Type == "" || t.Type == q.Type
	}, newestFirst, q.Page)
}

func (s *Store) ListDues(_ context.Context, q store.DuesQuery) ([]models.Transaction, int64, error) {
	return s.filterTransactions(func(t *models.Transaction) bool {
		if t.PaymentStatus != models.PaymentDue || t.DueAmount <= 0 {
			return false
		}
		if q.Search == "" {
			return true
		}
		return store.ContainsFold(t.Customer.Name, q.Search) ||
			store.ContainsFold(t.Customer.PhoneNumber, q.Search)
	}, newestFirst, q.Page)
}

func (s *Store) ListOverdue(_ context.Context, before time.Time, page store.Page) ([]models.Transaction, int64, error) {
	return s.filterTransactions(func(t *models.Transaction) bool {
		return t.PaymentStatus == models.PaymentDue && t.DueDate != nil && t.DueDate.Before(before)
	}, func(a, b *models.Transaction) bool {
		return a.DueDate.Before(*b.DueDate)
	}, page)
}

func newestFirst(a, b *models.Transaction) bool {
	return a.CreatedAt.After(b.CreatedAt)
}

func (s *Store) filterTransactions(keep func(*models.Transaction) bool, less func(a, b *models.Transaction) bool, page store.Page) ([]models.Transaction, int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := make([]*models.Transaction, 0)
	for _, t := range s.transactions {
		if keep(t) {
			matched = append(matched, t)
		}
	}
	sort.SliceStable(matched, func(i, j int) bool { return less(matched[i], matched[j]) })

	result := make([]models.Transaction, 0, len(matched))
	for _, t := range matched {
		result = append(result, *copyTransaction(t))
	}
	return paginate(result, page), int64(len(matched)), nil
}

func (s *Store) ApplyCollection(_ context.Context, c store.Collection) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.transactions[c.TransactionID]
	if !ok {
		return models.ErrTransactionNotFound
	}
	if t.Version != c.ExpectedVersion || t.PaymentStatus != models.PaymentDue {
		return models.ErrStaleVersion
	}

	t.AmountPaid = c.AmountPaid
	t.DueAmount = c.DueAmount
	t.PaymentStatus = c.Status
	t.PaymentBreakdown = c.Breakdown
	t.PaymentTypes = append(t.PaymentTypes, copyRecord(c.Payment))
	t.Version++
	t.UpdatedAt = c.At
	return nil
}

func (s *Store) UpdateDueCustomer(_ context.Context, id string, u store.CustomerUpdate) (*models.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.transactions[id]
	if !ok || t.PaymentStatus != models.PaymentDue {
		return nil, models.ErrDueNotFound
	}
	if u.Name != nil {
		t.Customer.Name = *u.Name
	}
	if u.PhoneNumber != nil {
		t.Customer.PhoneNumber = *u.PhoneNumber
	}
	if u.DueDate != nil {
		d := *u.DueDate
		t.DueDate = &d
	}
	t.Version++
	t.UpdatedAt = u.At
	return copyTransaction(t), nil
}

// ==================== Users ====================

func (s *Store) CreateUser(_ context.Context, u *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.users {
		if sameOptional(existing.Email, u.Email) || sameOptional(existing.StaffID, u.StaffID) {
			return models.ErrDuplicate
		}
	}
	cp := *u
	s.users[u.ID] = &cp
	return nil
}

func sameOptional(a, b *string) bool {
	return a != nil && b != nil && *a == *b
}

func (s *Store) GetUser(_ context.Context, id string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if u, ok := s.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, models.ErrUserNotFound
}

func (s *Store) FindUserByEmail(_ context.Context, email string) (*models.User, error) {
	return s.findUser(func(u *models.User) bool { return u.Email != nil && *u.Email == email })
}

func (s *Store) FindUserByStaffID(_ context.Context, staffID string) (*models.User, error) {
	return s.findUser(func(u *models.User) bool { return u.StaffID != nil && *u.StaffID == staffID })
}

func (s *Store) findUser(match func(*models.User) bool) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if match(u) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, models.ErrUserNotFound
}

// ==================== Reports ====================

func (s *Store) Summarize(_ context.Context, since time.Time) (models.StatsSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var sum models.StatsSummary
	for _, t := range s.transactions {
		if t.CreatedAt.Before(since) {
			continue
		}
		switch t.Type {
		case models.TransactionSale:
			sum.TotalRevenue = models.RoundMoney(sum.TotalRevenue + t.Amount)
			sum.TotalSalesCount++
		case models.TransactionExpense:
			sum.TotalExpenses = models.RoundMoney(sum.TotalExpenses + t.Amount)
		}
	}
	return sum, nil
}

func (s *Store) SalesByDay(_ context.Context, from, to time.Time, loc *time.Location) (map[string]float64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows := make([]models.Transaction, 0)
	for _, t := range s.transactions {
		if t.Type == models.TransactionSale && !t.CreatedAt.Before(from) && t.CreatedAt.Before(to) {
			rows = append(rows, *t)
		}
	}
	return store.BucketByDay(rows, loc), nil
}

func (s *Store) SalesByCategory(_ context.Context, since time.Time, metric models.CategoryMetric) ([]models.CategorySlice, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	values := make(map[string]float64)
	for _, t := range s.transactions {
		if t.Type != models.TransactionSale || t.CreatedAt.Before(since) {
			continue
		}
		k := t.ProductSnapshot.Category
		if metric == models.MetricAmount {
			values[k] = models.RoundMoney(values[k] + t.Amount)
		} else {
			values[k]++
		}
	}

	result := make([]models.CategorySlice, 0, len(values))
	for name, v := range values {
		result = append(result, models.CategorySlice{Name: name, Value: v})
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

func (s *Store) DuesStatistics(_ context.Context, r store.DateRange) (models.DuesStatistics, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := models.NewDuesStatistics()
	for _, t := range s.transactions {
		if t.PaymentStatus != models.PaymentDue {
			continue
		}
		if r.From != nil && t.CreatedAt.Before(*r.From) {
			continue
		}
		if r.To != nil && !t.CreatedAt.Before(*r.To) {
			continue
		}
		stats.Add(t.AmountPaid, t.DueAmount)
	}
	return stats, nil
}

// ==================== helpers ====================

func paginate[T any](items []T, p store.Page) []T {
	start := p.Offset()
	if start > len(items) {
		start = len(items)
	}
	end := start + p.Limit
	if p.Limit <= 0 || end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

func copyProduct(p *models.Product) *models.Product {
	cp := *p
	cp.Images = append([]models.ProductImage(nil), p.Images...)
	if p.Description != nil {
		d := *p.Description
		cp.Description = &d
	}
	return &cp
}

func copyRecord(r models.PaymentRecord) models.PaymentRecord {
	cp := r
	if r.ProductID != nil {
		id := *r.ProductID
		cp.ProductID = &id
	}
	if r.DuesDetails != nil {
		d := *r.DuesDetails
		cp.DuesDetails = &d
	}
	return cp
}

func copyTransaction(t *models.Transaction) *models.Transaction {
	cp := *t
	if t.ProductID != nil {
		id := *t.ProductID
		cp.ProductID = &id
	}
	if t.DueDate != nil {
		d := *t.DueDate
		cp.DueDate = &d
	}
	if t.Description != nil {
		d := *t.Description
		cp.Description = &d
	}
	cp.PaymentTypes = make([]models.PaymentRecord, 0, len(t.PaymentTypes))
	for _, r := range t.PaymentTypes {
		cp.PaymentTypes = append(cp.PaymentTypes, copyRecord(r))
	}
	return &cp
}
