package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"pos-api/dtos"
	"pos-api/models"
	"pos-api/store"
	"pos-api/utils"
)

type TransactionService interface {
	RecordSale(ctx context.Context, staff models.Identity, input dtos.SaleInput) (*models.Transaction, error)
	RecordSplitSale(ctx context.Context, staff models.Identity, input dtos.SaleInput) (*models.Transaction, error)
	RecordExpense(ctx context.Context, staff models.Identity, input dtos.ExpenseInput) (*models.Transaction, error)
	History(ctx context.Context, q dtos.HistoryQuery, page store.Page) ([]models.Transaction, int64, error)
	Get(ctx context.Context, id string) (*models.Transaction, error)
}

type transactionService struct {
	store store.Store
	now   Clock
	loc   *time.Location
}

func NewTransactionService(s store.Store, now Clock, loc *time.Location) TransactionService {
	if now == nil {
		now = time.Now
	}
	if loc == nil {
		loc = time.UTC
	}
	return &transactionService{store: s, now: now, loc: loc}
}

func (s *transactionService) RecordSale(ctx context.Context, staff models.Identity, input dtos.SaleInput) (*models.Transaction, error) {
	price, err := salePrice(input)
	if err != nil {
		return nil, err
	}
	product, err := s.availableProduct(ctx, input.ProductID)
	if err != nil {
		return nil, err
	}

	paid := price
	if input.AmountPaid != nil {
		paid = models.RoundMoney(*input.AmountPaid)
	}
	if paid < 0 || paid > price {
		return nil, models.InvalidArgument("amountPaid must be between 0 and the sale price")
	}
	due := models.RoundMoney(price - paid)

	mode := models.PaymentMethod(strings.ToUpper(strings.TrimSpace(input.PaymentMode)))
	// a bare {productId, salePrice} body is a full cash sale
	if input.AmountPaid == nil && mode == "" {
		mode = models.MethodCash
	}
	if paid > 0 && !mode.Collectable() {
		return nil, models.InvalidArgument("paymentMode must be CASH or ONLINE")
	}

	customer, err := saleCustomer(input.Customer, due > 0)
	if err != nil {
		return nil, err
	}
	dueDate, err := s.saleDueDate(input.DueDate, due > 0)
	if err != nil {
		return nil, err
	}

	now := s.now()
	tx := s.newSale(staff, product, price, now)
	tx.AmountPaid = paid
	tx.DueAmount = due
	tx.Customer = customer
	tx.DueDate = dueDate
	tx.PaymentBreakdown.Dues = due
	if paid > 0 {
		tx.PaymentTypes = append(tx.PaymentTypes, newRecord(tx, mode, paid, models.RecordPaid, nil, now))
		addToBreakdown(&tx.PaymentBreakdown, mode, paid)
	}
	tx.DeriveStatus()

	return s.commit(ctx, tx)
}

func (s *transactionService) RecordSplitSale(ctx context.Context, staff models.Identity, input dtos.SaleInput) (*models.Transaction, error) {
	price, err := salePrice(input)
	if err != nil {
		return nil, err
	}
	if len(input.PaymentMethods) == 0 {
		return nil, models.InvalidArgument("at least one payment method is required")
	}
	product, err := s.availableProduct(ctx, input.ProductID)
	if err != nil {
		return nil, err
	}

	type entry struct {
		method  models.PaymentMethod
		amount  float64
		details *models.Customer
	}
	entries := make([]entry, 0, len(input.PaymentMethods))
	var (
		sum      float64
		customer models.Customer
		hasDues  bool
	)
	for i, pm := range input.PaymentMethods {
		method := models.PaymentMethod(strings.ToUpper(strings.TrimSpace(pm.Type)))
		if !method.Valid() {
			return nil, models.InvalidArgument("paymentMethods[%d]: unknown payment type %q", i, pm.Type)
		}
		amount := models.RoundMoney(pm.Amount)
		if amount <= 0 {
			return nil, models.InvalidArgument("paymentMethods[%d]: amount must be positive", i)
		}
		e := entry{method: method, amount: amount}
		if method == models.MethodDues {
			if hasDues {
				return nil, models.InvalidArgument("only one DUES entry is allowed")
			}
			hasDues = true
			c, err := saleCustomer(pm.DuesDetails, true)
			if err != nil {
				return nil, models.InvalidArgument("paymentMethods[%d]: %s", i, models.PublicMessage(err))
			}
			customer = c
			e.details = &c
		}
		sum += amount
		entries = append(entries, e)
	}
	if !models.AmountsEqual(sum, price) {
		return nil, models.InvalidArgument("payment amounts add up to %.2f but the sale price is %.2f", sum, price)
	}

	dueDate, err := s.saleDueDate(input.DueDate, hasDues)
	if err != nil {
		return nil, err
	}

	now := s.now()
	tx := s.newSale(staff, product, price, now)
	tx.Customer = customer
	tx.DueDate = dueDate
	for _, e := range entries {
		status := models.RecordPaid
		if e.method == models.MethodDues {
			status = models.RecordPending
		}
		tx.PaymentTypes = append(tx.PaymentTypes, newRecord(tx, e.method, e.amount, status, e.details, now))
		addToBreakdown(&tx.PaymentBreakdown, e.method, e.amount)
	}
	tx.AmountPaid = models.RoundMoney(tx.PaymentBreakdown.Cash + tx.PaymentBreakdown.Online)
	tx.DueAmount = tx.PaymentBreakdown.Dues
	tx.DeriveStatus()

	return s.commit(ctx, tx)
}

func (s *transactionService) RecordExpense(ctx context.Context, staff models.Identity, input dtos.ExpenseInput) (*models.Transaction, error) {
	amount := models.RoundMoney(input.Amount)
	if amount <= 0 {
		return nil, models.InvalidArgument("amount must be positive")
	}
	description := strings.TrimSpace(input.Description)
	if description == "" {
		return nil, models.InvalidArgument("description is required")
	}
	mode := models.MethodCash
	if input.PaymentMode != "" {
		mode = models.PaymentMethod(strings.ToUpper(strings.TrimSpace(input.PaymentMode)))
		if !mode.Collectable() {
			return nil, models.InvalidArgument("paymentMode must be CASH or ONLINE")
		}
	}

	now := s.now()
	tx := &models.Transaction{
		ID:          uuid.NewString(),
		Type:        models.TransactionExpense,
		Amount:      amount,
		AmountPaid:  amount,
		StaffID:     staff.ID,
		StaffName:   staff.Name,
		Description: &description,
		Version:     1,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	tx.PaymentTypes = []models.PaymentRecord{newRecord(tx, mode, amount, models.RecordPaid, nil, now)}
	addToBreakdown(&tx.PaymentBreakdown, mode, amount)
	tx.DeriveStatus()

	if err := s.store.CreateTransaction(ctx, tx); err != nil {
		return nil, err
	}
	zap.L().Info("expense recorded",
		zap.String("transactionId", tx.ID),
		zap.String("staffId", staff.ID),
		zap.Float64("amount", amount))
	return tx, nil
}

func (s *transactionService) History(ctx context.Context, q dtos.HistoryQuery, page store.Page) ([]models.Transaction, int64, error) {
	query := store.TransactionQuery{Page: page}

	filter := strings.ToLower(strings.TrimSpace(q.Filter))
	if filter != "" && filter != FilterAll {
		since, err := WindowStart(filter, s.now(), s.loc)
		if err != nil {
			return nil, 0, err
		}
		query.Since = &since
	}
	if q.Type != "" {
		t := models.TransactionType(strings.ToUpper(q.Type))
		if !t.Valid() {
			return nil, 0, models.InvalidArgument("type must be SALE or EXPENSE")
		}
		query.Type = t
	}
	return s.store.ListTransactions(ctx, query)
}

func (s *transactionService) Get(ctx context.Context, id string) (*models.Transaction, error) {
	return s.store.GetTransaction(ctx, id)
}

func (s *transactionService) availableProduct(ctx context.Context, id string) (*models.Product, error) {
	product, err := s.store.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	if !product.Available() {
		return nil, models.ErrProductSold
	}
	return product, nil
}

func (s *transactionService) saleDueDate(raw string, required bool) (*time.Time, error) {
	if strings.TrimSpace(raw) == "" {
		if required {
			return nil, models.InvalidArgument("dueDate is required when an amount is left due")
		}
		return nil, nil
	}
	d, _, err := parseDate(raw, s.loc)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (s *transactionService) newSale(staff models.Identity, product *models.Product, price float64, now time.Time) *models.Transaction {
	productID := product.ID
	return &models.Transaction{
		ID:              uuid.NewString(),
		Type:            models.TransactionSale,
		Amount:          price,
		StaffID:         staff.ID,
		StaffName:       staff.Name,
		ProductID:       &productID,
		ProductSnapshot: product.Snapshot(),
		PaymentTypes:    []models.PaymentRecord{},
		Version:         1,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

// commit hands a fully validated sale to the store, which flips the product
// and writes the ledger in one unit.
func (s *transactionService) commit(ctx context.Context, tx *models.Transaction) (*models.Transaction, error) {
	if !tx.Reconciled() {
		return nil, models.InvalidArgument("payment amounts do not reconcile with the sale price")
	}
	if err := s.store.CommitSale(ctx, tx); err != nil {
		if models.KindOf(err) == models.KindFatal {
			zap.L().Error("sale commit outcome unknown, reconcile manually",
				zap.String("transactionId", tx.ID),
				zap.Stringp("productId", tx.ProductID),
				zap.Error(err))
		}
		return nil, err
	}
	zap.L().Info("sale recorded", append(utils.TransactionChangeFields("create", nil, tx),
		zap.Stringp("productId", tx.ProductID),
		zap.String("staffId", tx.StaffID),
		zap.Float64("amount", tx.Amount),
		zap.Float64("dueAmount", tx.DueAmount),
		zap.String("paymentStatus", string(tx.PaymentStatus)))...)
	return tx, nil
}

func salePrice(input dtos.SaleInput) (float64, error) {
	if strings.TrimSpace(input.ProductID) == "" {
		return 0, models.InvalidArgument("productId is required")
	}
	if input.SalePrice == nil {
		return 0, models.InvalidArgument("salePrice is required")
	}
	price := models.RoundMoney(*input.SalePrice)
	if price < 0 {
		return 0, models.InvalidArgument("salePrice cannot be negative")
	}
	return price, nil
}

// saleCustomer validates contact details. They are mandatory when money is
// left owing and must still be well formed when given voluntarily.
func saleCustomer(in *dtos.CustomerInput, required bool) (models.Customer, error) {
	var c models.Customer
	if in != nil {
		c = models.Customer{Name: strings.TrimSpace(in.Name), PhoneNumber: strings.TrimSpace(in.PhoneNumber)}
	}
	if c == (models.Customer{}) && !required {
		return c, nil
	}
	if c.Name == "" {
		return c, models.InvalidArgument("customer name is required for dues")
	}
	if !models.ValidPhone(c.PhoneNumber) {
		return c, models.InvalidArgument("customer phone number must be exactly 10 digits")
	}
	return c, nil
}

func newRecord(tx *models.Transaction, method models.PaymentMethod, amount float64, status models.RecordStatus, details *models.Customer, at time.Time) models.PaymentRecord {
	return models.PaymentRecord{
		ID:            uuid.NewString(),
		TransactionID: tx.ID,
		ProductID:     tx.ProductID,
		Method:        method,
		Amount:        amount,
		Status:        status,
		DuesDetails:   details,
		CreatedAt:     at,
	}
}

func addToBreakdown(b *models.PaymentBreakdown, method models.PaymentMethod, amount float64) {
	switch method {
	case models.MethodCash:
		b.Cash = models.RoundMoney(b.Cash + amount)
	case models.MethodOnline:
		b.Online = models.RoundMoney(b.Online + amount)
	case models.MethodDues:
		b.Dues = models.RoundMoney(b.Dues + amount)
	}
}
