package models

import (
	"time"
)

type TransactionType string

const (
	TransactionSale    TransactionType = "SALE"
	TransactionExpense TransactionType = "EXPENSE"
)

func (t TransactionType) Valid() bool {
	return t == TransactionSale || t == TransactionExpense
}

type PaymentStatus string

const (
	PaymentPaid PaymentStatus = "PAID"
	PaymentDue  PaymentStatus = "DUE"
)

// Customer is only filled in while a sale carries (or carried) a due.
type Customer struct {
	Name        string `gorm:"size:120" json:"name"`
	PhoneNumber string `gorm:"size:10" json:"phoneNumber"`
}

// ProductSnapshot is captured at sale time and never follows later product edits.
type ProductSnapshot struct {
	Name        string `gorm:"size:200" json:"name"`
	Category    string `gorm:"size:32;index" json:"category"`
	SubCategory string `gorm:"size:100" json:"subCategory"`
	URL         string `gorm:"size:1024" json:"url"`
}

// PaymentBreakdown keeps running per-method totals. Cash+Online always equals
// AmountPaid and Dues equals DueAmount.
type PaymentBreakdown struct {
	Cash   float64 `gorm:"not null;default:0" json:"cash"`
	Online float64 `gorm:"not null;default:0" json:"online"`
	Dues   float64 `gorm:"not null;default:0" json:"dues"`
}

type Transaction struct {
	ID            string          `gorm:"primaryKey;size:36" json:"id"`
	Type          TransactionType `gorm:"column:kind;size:16;not null" json:"type"`
	Amount        float64         `gorm:"not null;default:0" json:"amount"`
	AmountPaid    float64         `gorm:"not null;default:0" json:"amountPaid"`
	DueAmount     float64         `gorm:"not null;default:0;index:idx_status_due,priority:2" json:"dueAmount"`
	PaymentStatus PaymentStatus   `gorm:"size:8;not null;default:'PAID';index:idx_status_due,priority:1" json:"paymentStatus"`

	StaffID   string `gorm:"size:36;not null;index:idx_staff_created,priority:1" json:"staffId"`
	StaffName string `gorm:"size:120" json:"staffName"`

	ProductID       *string         `gorm:"size:36;index" json:"productId,omitempty"`
	ProductSnapshot ProductSnapshot `gorm:"embedded;embeddedPrefix:snapshot_" json:"productSnapshot"`

	Customer Customer   `gorm:"embedded;embeddedPrefix:customer_" json:"customer"`
	DueDate  *time.Time `json:"dueDate,omitempty"`

	PaymentTypes     []PaymentRecord  `gorm:"foreignKey:TransactionID" json:"paymentTypes"`
	PaymentBreakdown PaymentBreakdown `gorm:"embedded;embeddedPrefix:breakdown_" json:"paymentBreakdown"`

	Description *string `gorm:"type:text" json:"description,omitempty"`
	Version     int     `gorm:"not null;default:1" json:"version"`

	CreatedAt time.Time `gorm:"index;index:idx_staff_created,priority:2" json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// DeriveStatus recomputes the cached payment status from the due amount.
func (t *Transaction) DeriveStatus() {
	if t.DueAmount > 0 {
		t.PaymentStatus = PaymentDue
		return
	}
	t.DueAmount = 0
	t.PaymentStatus = PaymentPaid
}

// Reconciled reports whether paid and due amounts add up to the total and
// the per-method breakdown agrees with them.
func (t *Transaction) Reconciled() bool {
	if t.AmountPaid < 0 || t.DueAmount < 0 {
		return false
	}
	if !AmountsEqual(t.AmountPaid+t.DueAmount, t.Amount) {
		return false
	}
	if !AmountsEqual(t.PaymentBreakdown.Cash+t.PaymentBreakdown.Online, t.AmountPaid) {
		return false
	}
	return AmountsEqual(t.PaymentBreakdown.Dues, t.DueAmount)
}

// PaidTotal sums the records that represent money actually received.
func (t *Transaction) PaidTotal() float64 {
	var total float64
	for _, p := range t.PaymentTypes {
		if p.Status == RecordPaid {
			total += p.Amount
		}
	}
	return RoundMoney(total)
}
