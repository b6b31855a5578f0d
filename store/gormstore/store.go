// Package gormstore backs the POS core with MySQL or PostgreSQL through gorm.
package gormstore

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	pkgerrors "github.com/pkg/errors"
	"gorm.io/gorm"

	"pos-api/models"
	"pos-api/store"
)

var _ store.Store = (*Store)(nil)

type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Migrate(ctx context.Context) error {
	err := s.db.WithContext(ctx).AutoMigrate(
		&models.Product{},
		&models.Transaction{},
		&models.PaymentRecord{},
		&models.User{},
	)
	return pkgerrors.Wrap(err, "auto migrate")
}

func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// ==================== Products ====================

func (s *Store) CreateProduct(ctx context.Context, p *models.Product) error {
	return translate(s.db.WithContext(ctx).Create(p).Error, "create product")
}

func (s *Store) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	var p models.Product
	if err := s.db.WithContext(ctx).First(&p, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrProductNotFound
		}
		return nil, translate(err, "get product")
	}
	return &p, nil
}

func (s *Store) ListProducts(ctx context.Context, q store.ProductQuery) ([]models.Product, int64, error) {
	query := s.db.WithContext(ctx).Model(&models.Product{})
	if q.OnlineOnly {
		query = query.Where("is_online = ?", true)
	}
	if q.Category != "" {
		query = query.Where("category = ?", q.Category)
	}
	if q.SubCategory != "" {
		query = query.Where("sub_category = ?", q.SubCategory)
	}
	if q.MinPrice != nil {
		query = query.Where("price >= ?", *q.MinPrice)
	}
	if q.MaxPrice != nil {
		query = query.Where("price <= ?", *q.MaxPrice)
	}
	if q.Search != "" {
		term := likePattern(q.Search)
		query = query.Where(
			"LOWER(name) LIKE ? OR LOWER(COALESCE(description, '')) LIKE ? OR LOWER(sub_category) LIKE ?",
			term, term, term,
		)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, translate(err, "count products")
	}

	products := make([]models.Product, 0)
	err := query.Order(productOrder(q.Sort)).
		Offset(q.Page.Offset()).
		Limit(q.Page.Limit).
		Find(&products).Error
	if err != nil {
		return nil, 0, translate(err, "list products")
	}
	return products, total, nil
}

func (s *Store) DeleteProduct(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Delete(&models.Product{}, "id = ?", id)
	if res.Error != nil {
		return translate(res.Error, "delete product")
	}
	if res.RowsAffected == 0 {
		return models.ErrProductNotFound
	}
	return nil
}

func (s *Store) MarkProductSold(ctx context.Context, id string) error {
	return markSold(s.db.WithContext(ctx), id, time.Now())
}

// markSold is the compare-and-set on stock status. Zero affected rows means
// either the product is gone or somebody else sold it first.
func markSold(db *gorm.DB, id string, at time.Time) error {
	res := db.Model(&models.Product{}).
		Where("id = ? AND stock_status = ?", id, models.InStock).
		Updates(map[string]interface{}{
			"stock_status": models.OutOfStock,
			"is_online":    false,
			"updated_at":   at,
		})
	if res.Error != nil {
		return translate(res.Error, "mark product sold")
	}
	if res.RowsAffected == 1 {
		return nil
	}

	var n int64
	if err := db.Model(&models.Product{}).Where("id = ?", id).Count(&n).Error; err != nil {
		return translate(err, "check product")
	}
	if n == 0 {
		return models.ErrProductNotFound
	}
	return models.ErrProductSold
}

// ==================== Transactions ====================

func (s *Store) CommitSale(ctx context.Context, t *models.Transaction) error {
	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return translate(tx.Error, "begin sale")
	}

	if t.ProductID != nil {
		if err := markSold(tx, *t.ProductID, t.CreatedAt); err != nil {
			tx.Rollback()
			return err
		}
	}
	if err := tx.Create(t).Error; err != nil {
		tx.Rollback()
		return translate(err, "create sale")
	}

	if err := tx.Commit().Error; err != nil {
		return models.Fatal(err, "commit of sale %s has an unknown outcome", t.ID)
	}
	return nil
}

func (s *Store) CreateTransaction(ctx context.Context, t *models.Transaction) error {
	return translate(s.db.WithContext(ctx).Create(t).Error, "create transaction")
}

func (s *Store) GetTransaction(ctx context.Context, id string) (*models.Transaction, error) {
	var t models.Transaction
	err := s.db.WithContext(ctx).
		Preload("PaymentTypes", orderRecords).
		First(&t, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrTransactionNotFound
		}
		return nil, translate(err, "get transaction")
	}
	return &t, nil
}

func orderRecords(db *gorm.DB) *gorm.DB {
	return db.Order("created_at ASC")
}

func (s *Store) ListTransactions(ctx context.Context, q store.TransactionQuery) ([]models.Transaction, int64, error) {
	query := s.db.WithContext(ctx).Model(&models.Transaction{})
	if q.Since != nil {
		query = query.Where("created_at >= ?", *q.Since)
	}
	if q.Type != "" {
		query = query.Where("kind = ?", q.Type)
	}
	return s.pageTransactions(query, "created_at DESC", q.Page)
}

func (s *Store) ListDues(ctx context.Context, q store.DuesQuery) ([]models.Transaction, int64, error) {
	query := s.db.WithContext(ctx).Model(&models.Transaction{}).
		Where("payment_status = ? AND due_amount > 0", models.PaymentDue)
	if q.Search != "" {
		term := likePattern(q.Search)
		query = query.Where("LOWER(customer_name) LIKE ? OR customer_phone_number LIKE ?", term, term)
	}
	return s.pageTransactions(query, "created_at DESC", q.Page)
}

func (s *Store) ListOverdue(ctx context.Context, before time.Time, page store.Page) ([]models.Transaction, int64, error) {
	query := s.db.WithContext(ctx).Model(&models.Transaction{}).
		Where("payment_status = ? AND due_date IS NOT NULL AND due_date < ?", models.PaymentDue, before)
	return s.pageTransactions(query, "due_date ASC", page)
}

func (s *Store) pageTransactions(query *gorm.DB, order string, page store.Page) ([]models.Transaction, int64, error) {
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, translate(err, "count transactions")
	}

	transactions := make([]models.Transaction, 0)
	err := query.Preload("PaymentTypes", orderRecords).
		Order(order).
		Offset(page.Offset()).
		Limit(page.Limit).
		Find(&transactions).Error
	if err != nil {
		return nil, 0, translate(err, "list transactions")
	}
	return transactions, total, nil
}

func (s *Store) ApplyCollection(ctx context.Context, c store.Collection) error {
	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return translate(tx.Error, "begin collection")
	}

	res := tx.Model(&models.Transaction{}).
		Where("id = ? AND version = ? AND payment_status = ?", c.TransactionID, c.ExpectedVersion, models.PaymentDue).
		Updates(map[string]interface{}{
			"amount_paid":      c.AmountPaid,
			"due_amount":       c.DueAmount,
			"payment_status":   c.Status,
			"breakdown_cash":   c.Breakdown.Cash,
			"breakdown_online": c.Breakdown.Online,
			"breakdown_dues":   c.Breakdown.Dues,
			"version":          gorm.Expr("version + 1"),
			"updated_at":       c.At,
		})
	if res.Error != nil {
		tx.Rollback()
		return translate(res.Error, "apply collection")
	}
	if res.RowsAffected == 0 {
		var n int64
		err := tx.Model(&models.Transaction{}).Where("id = ?", c.TransactionID).Count(&n).Error
		tx.Rollback()
		if err != nil {
			return translate(err, "check transaction")
		}
		if n == 0 {
			return models.ErrTransactionNotFound
		}
		return models.ErrStaleVersion
	}

	record := c.Payment
	record.TransactionID = c.TransactionID
	if err := tx.Create(&record).Error; err != nil {
		tx.Rollback()
		return translate(err, "append payment record")
	}

	if err := tx.Commit().Error; err != nil {
		return models.Fatal(err, "commit of collection on %s has an unknown outcome", c.TransactionID)
	}
	return nil
}

func (s *Store) UpdateDueCustomer(ctx context.Context, id string, u store.CustomerUpdate) (*models.Transaction, error) {
	fields := map[string]interface{}{
		"version":    gorm.Expr("version + 1"),
		"updated_at": u.At,
	}
	if u.Name != nil {
		fields["customer_name"] = *u.Name
	}
	if u.PhoneNumber != nil {
		fields["customer_phone_number"] = *u.PhoneNumber
	}
	if u.DueDate != nil {
		fields["due_date"] = *u.DueDate
	}

	res := s.db.WithContext(ctx).Model(&models.Transaction{}).
		Where("id = ? AND payment_status = ?", id, models.PaymentDue).
		Updates(fields)
	if res.Error != nil {
		return nil, translate(res.Error, "update due customer")
	}
	if res.RowsAffected == 0 {
		return nil, models.ErrDueNotFound
	}
	return s.GetTransaction(ctx, id)
}

// ==================== Users ====================

func (s *Store) CreateUser(ctx context.Context, u *models.User) error {
	return translate(s.db.WithContext(ctx).Create(u).Error, "create user")
}

func (s *Store) GetUser(ctx context.Context, id string) (*models.User, error) {
	return s.findUser(ctx, "id = ?", id)
}

func (s *Store) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.findUser(ctx, "email = ?", email)
}

func (s *Store) FindUserByStaffID(ctx context.Context, staffID string) (*models.User, error) {
	return s.findUser(ctx, "staff_id = ?", staffID)
}

func (s *Store) findUser(ctx context.Context, cond string, arg interface{}) (*models.User, error) {
	var u models.User
	if err := s.db.WithContext(ctx).Where(cond, arg).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrUserNotFound
		}
		return nil, translate(err, "find user")
	}
	return &u, nil
}

// ==================== helpers ====================

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// likePattern lowercases and escapes s for a contains match.
func likePattern(s string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(s)) + "%"
}

func productOrder(sort store.ProductSort) string {
	switch sort {
	case store.SortPriceLow:
		return "price ASC, created_at DESC"
	case store.SortPriceHigh:
		return "price DESC, created_at DESC"
	case store.SortBestSeller:
		return "is_best_seller DESC, created_at DESC"
	default:
		return "created_at DESC"
	}
}

// translate maps unique-key violations onto models.ErrDuplicate and wraps
// everything else with the failing operation.
func translate(err error, op string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return models.ErrDuplicate
	}
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) && myErr.Number == 1062 {
		return models.ErrDuplicate
	}
	var appErr *models.AppError
	if errors.As(err, &appErr) {
		return err
	}
	return pkgerrors.Wrap(err, op)
}
