package models

import "time"

type PaymentMethod string

const (
	MethodCash   PaymentMethod = "CASH"
	MethodOnline PaymentMethod = "ONLINE"
	MethodDues   PaymentMethod = "DUES"
)

// Collectable reports whether money can be received through this method.
func (m PaymentMethod) Collectable() bool {
	return m == MethodCash || m == MethodOnline
}

func (m PaymentMethod) Valid() bool {
	return m.Collectable() || m == MethodDues
}

type RecordStatus string

const (
	RecordPaid    RecordStatus = "PAID"
	RecordPending RecordStatus = "PENDING"
)

// PaymentRecord is immutable once written. New collections append records.
type PaymentRecord struct {
	ID            string        `gorm:"primaryKey;size:36" json:"id"`
	TransactionID string        `gorm:"size:36;not null;index" json:"transaction"`
	ProductID     *string       `gorm:"size:36" json:"product,omitempty"`
	Method        PaymentMethod `gorm:"column:method;size:8;not null;index" json:"type"`
	Amount        float64       `gorm:"not null" json:"amount"`
	Status        RecordStatus  `gorm:"size:8;not null;default:'PAID'" json:"status"`
	DuesDetails   *Customer     `gorm:"serializer:json;type:text" json:"duesDetails,omitempty"`
	CreatedAt     time.Time     `gorm:"index" json:"createdAt"`
}

func (PaymentRecord) TableName() string {
	return "payment_records"
}
