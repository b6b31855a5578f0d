package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"
	"go.uber.org/zap"

	"pos-api/dtos"
	"pos-api/models"
	"pos-api/store"
	"pos-api/utils"
)

const (
	collectMaxAttempts   = 5
	collectRetryInterval = 20 * time.Millisecond
)

type DuesService interface {
	List(ctx context.Context, search string, page store.Page) ([]models.Transaction, int64, error)
	Get(ctx context.Context, id string) (*models.Transaction, error)
	Collect(ctx context.Context, staff models.Identity, id string, input dtos.CollectInput) (*models.Transaction, error)
	Overdue(ctx context.Context, page store.Page) ([]models.Transaction, int64, error)
	Statistics(ctx context.Context, q dtos.DuesStatisticsQuery) (models.DuesStatistics, error)
	UpdateCustomer(ctx context.Context, id string, input dtos.UpdateCustomerInput) (*models.Transaction, error)
}

type duesService struct {
	store store.Store
	now   Clock
	loc   *time.Location
}

func NewDuesService(s store.Store, now Clock, loc *time.Location) DuesService {
	if now == nil {
		now = time.Now
	}
	if loc == nil {
		loc = time.UTC
	}
	return &duesService{store: s, now: now, loc: loc}
}

func (s *duesService) List(ctx context.Context, search string, page store.Page) ([]models.Transaction, int64, error) {
	return s.store.ListDues(ctx, store.DuesQuery{Page: page, Search: strings.TrimSpace(search)})
}

func (s *duesService) Get(ctx context.Context, id string) (*models.Transaction, error) {
	tx, err := s.store.GetTransaction(ctx, id)
	if errors.Is(err, models.ErrTransactionNotFound) {
		return nil, models.ErrDueNotFound
	}
	if err != nil {
		return nil, err
	}
	if tx.PaymentStatus != models.PaymentDue {
		return nil, models.ErrDueNotFound
	}
	return tx, nil
}

// Collect records money received against an outstanding due. Each attempt
// re-reads the transaction and re-validates the amount, so a collection that
// loses a race is judged against the balance the winner left behind.
func (s *duesService) Collect(ctx context.Context, staff models.Identity, id string, input dtos.CollectInput) (*models.Transaction, error) {
	amount := models.RoundMoney(input.Amount)
	if amount <= 0 {
		return nil, models.InvalidArgument("amount must be positive")
	}
	mode := models.PaymentMethod(strings.ToUpper(strings.TrimSpace(input.PaymentMode)))
	if !mode.Collectable() {
		return nil, models.InvalidArgument("paymentMode must be CASH or ONLINE")
	}

	var before *models.Transaction
	attempt := func() (*models.Transaction, error) {
		current, err := s.store.GetTransaction(ctx, id)
		if err != nil {
			return nil, backoff.Permanent(err)
		}
		before = current
		if current.PaymentStatus != models.PaymentDue || current.DueAmount <= 0 {
			return nil, backoff.Permanent(models.ErrNotDue)
		}
		if amount > current.DueAmount {
			return nil, backoff.Permanent(models.InvalidArgument(
				"amount %.2f exceeds the outstanding due of %.2f", amount, current.DueAmount))
		}

		now := s.now()
		next := *current
		next.PaymentTypes = append([]models.PaymentRecord(nil), current.PaymentTypes...)
		next.AmountPaid = models.RoundMoney(current.AmountPaid + amount)
		next.DueAmount = models.RoundMoney(current.DueAmount - amount)
		addToBreakdown(&next.PaymentBreakdown, mode, amount)
		next.PaymentBreakdown.Dues = next.DueAmount
		next.DeriveStatus()
		record := newRecord(current, mode, amount, models.RecordPaid, nil, now)

		err = s.store.ApplyCollection(ctx, store.Collection{
			TransactionID:   current.ID,
			ExpectedVersion: current.Version,
			AmountPaid:      next.AmountPaid,
			DueAmount:       next.DueAmount,
			Status:          next.PaymentStatus,
			Breakdown:       next.PaymentBreakdown,
			Payment:         record,
			At:              now,
		})
		if errors.Is(err, models.ErrStaleVersion) {
			zap.L().Debug("collection lost a race, retrying", zap.String("transactionId", id))
			return nil, err
		}
		if err != nil {
			return nil, backoff.Permanent(err)
		}

		next.PaymentTypes = append(next.PaymentTypes, record)
		next.Version = current.Version + 1
		next.UpdatedAt = now
		return &next, nil
	}

	updated, err := backoff.Retry(ctx, attempt,
		backoff.WithBackOff(backoff.NewConstantBackOff(collectRetryInterval)),
		backoff.WithMaxTries(collectMaxAttempts))
	if err != nil {
		return nil, err
	}

	zap.L().Info("dues collected", append(utils.TransactionChangeFields("collect", before, updated),
		zap.String("staffId", staff.ID),
		zap.String("paymentMode", string(mode)),
		zap.Float64("amount", amount))...)
	return updated, nil
}

func (s *duesService) Overdue(ctx context.Context, page store.Page) ([]models.Transaction, int64, error) {
	return s.store.ListOverdue(ctx, startOfDay(s.now(), s.loc), page)
}

func (s *duesService) Statistics(ctx context.Context, q dtos.DuesStatisticsQuery) (models.DuesStatistics, error) {
	r, err := statisticsRange(q.StartDate, q.EndDate, s.loc)
	if err != nil {
		return models.DuesStatistics{}, err
	}
	return s.store.DuesStatistics(ctx, r)
}

func (s *duesService) UpdateCustomer(ctx context.Context, id string, input dtos.UpdateCustomerInput) (*models.Transaction, error) {
	u := store.CustomerUpdate{At: s.now()}
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, models.InvalidArgument("customer name cannot be empty")
		}
		u.Name = &name
	}
	if input.PhoneNumber != nil {
		phone := strings.TrimSpace(*input.PhoneNumber)
		if !models.ValidPhone(phone) {
			return nil, models.InvalidArgument("customer phone number must be exactly 10 digits")
		}
		u.PhoneNumber = &phone
	}
	if input.DueDate != nil {
		d, _, err := parseDate(*input.DueDate, s.loc)
		if err != nil {
			return nil, err
		}
		u.DueDate = &d
	}
	if u.Empty() {
		return nil, models.InvalidArgument("provide at least one of name, phoneNumber or dueDate")
	}

	before, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	updated, err := s.store.UpdateDueCustomer(ctx, id, u)
	if err != nil {
		return nil, err
	}
	zap.L().Info("dues customer updated", utils.TransactionChangeFields("update", before, updated)...)
	return updated, nil
}
