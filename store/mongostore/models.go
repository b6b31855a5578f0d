package mongostore

import (
	"time"

	"pos-api/models"
)

// ==================== Product documents ====================

type imageDoc struct {
	URL      string `bson:"url"`
	PublicID string `bson:"publicId"`
}

type productDoc struct {
	ID           string     `bson:"_id"`
	Name         string     `bson:"name"`
	Description  *string    `bson:"description,omitempty"`
	Price        float64    `bson:"price"`
	Images       []imageDoc `bson:"images"`
	Category     string     `bson:"category"`
	SubCategory  string     `bson:"subCategory"`
	StockStatus  string     `bson:"stockStatus"`
	IsOnline     bool       `bson:"isOnline"`
	IsNewArrival bool       `bson:"isNewArrival"`
	IsBestSeller bool       `bson:"isBestSeller"`
	CreatedAt    time.Time  `bson:"createdAt"`
	UpdatedAt    time.Time  `bson:"updatedAt"`
}

func toProductDoc(p *models.Product) *productDoc {
	images := make([]imageDoc, len(p.Images))
	for i, img := range p.Images {
		images[i] = imageDoc{URL: img.URL, PublicID: img.PublicID}
	}
	return &productDoc{
		ID:           p.ID,
		Name:         p.Name,
		Description:  p.Description,
		Price:        p.Price,
		Images:       images,
		Category:     p.Category,
		SubCategory:  p.SubCategory,
		StockStatus:  string(p.StockStatus),
		IsOnline:     p.IsOnline,
		IsNewArrival: p.IsNewArrival,
		IsBestSeller: p.IsBestSeller,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}

func fromProductDoc(d *productDoc) models.Product {
	images := make([]models.ProductImage, len(d.Images))
	for i, img := range d.Images {
		images[i] = models.ProductImage{URL: img.URL, PublicID: img.PublicID}
	}
	return models.Product{
		ID:           d.ID,
		Name:         d.Name,
		Description:  d.Description,
		Price:        d.Price,
		Images:       images,
		Category:     d.Category,
		SubCategory:  d.SubCategory,
		StockStatus:  models.StockStatus(d.StockStatus),
		IsOnline:     d.IsOnline,
		IsNewArrival: d.IsNewArrival,
		IsBestSeller: d.IsBestSeller,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
}

// ==================== Transaction documents ====================

type customerDoc struct {
	Name        string `bson:"name"`
	PhoneNumber string `bson:"phoneNumber"`
}

type snapshotDoc struct {
	Name        string `bson:"name"`
	Category    string `bson:"category"`
	SubCategory string `bson:"subCategory"`
	URL         string `bson:"url"`
}

type breakdownDoc struct {
	Cash   float64 `bson:"cash"`
	Online float64 `bson:"online"`
	Dues   float64 `bson:"dues"`
}

// paymentDoc lives inside its transaction, so a collection is a single
// document update.
type paymentDoc struct {
	ID          string       `bson:"id"`
	ProductID   *string      `bson:"productId,omitempty"`
	Method      string       `bson:"type"`
	Amount      float64      `bson:"amount"`
	Status      string       `bson:"status"`
	DuesDetails *customerDoc `bson:"duesDetails,omitempty"`
	CreatedAt   time.Time    `bson:"createdAt"`
}

type transactionDoc struct {
	ID               string       `bson:"_id"`
	Type             string       `bson:"type"`
	Amount           float64      `bson:"amount"`
	AmountPaid       float64      `bson:"amountPaid"`
	DueAmount        float64      `bson:"dueAmount"`
	PaymentStatus    string       `bson:"paymentStatus"`
	StaffID          string       `bson:"staffId"`
	StaffName        string       `bson:"staffName"`
	ProductID        *string      `bson:"productId,omitempty"`
	ProductSnapshot  snapshotDoc  `bson:"productSnapshot"`
	Customer         customerDoc  `bson:"customer"`
	DueDate          *time.Time   `bson:"dueDate,omitempty"`
	PaymentTypes     []paymentDoc `bson:"paymentTypes"`
	PaymentBreakdown breakdownDoc `bson:"paymentBreakdown"`
	Description      *string      `bson:"description,omitempty"`
	Version          int          `bson:"version"`
	CreatedAt        time.Time    `bson:"createdAt"`
	UpdatedAt        time.Time    `bson:"updatedAt"`
}

func toPaymentDoc(r models.PaymentRecord) paymentDoc {
	d := paymentDoc{
		ID:        r.ID,
		ProductID: r.ProductID,
		Method:    string(r.Method),
		Amount:    r.Amount,
		Status:    string(r.Status),
		CreatedAt: r.CreatedAt,
	}
	if r.DuesDetails != nil {
		d.DuesDetails = &customerDoc{Name: r.DuesDetails.Name, PhoneNumber: r.DuesDetails.PhoneNumber}
	}
	return d
}

func fromPaymentDoc(transactionID string, d paymentDoc) models.PaymentRecord {
	r := models.PaymentRecord{
		ID:            d.ID,
		TransactionID: transactionID,
		ProductID:     d.ProductID,
		Method:        models.PaymentMethod(d.Method),
		Amount:        d.Amount,
		Status:        models.RecordStatus(d.Status),
		CreatedAt:     d.CreatedAt,
	}
	if d.DuesDetails != nil {
		r.DuesDetails = &models.Customer{Name: d.DuesDetails.Name, PhoneNumber: d.DuesDetails.PhoneNumber}
	}
	return r
}

func toTransactionDoc(t *models.Transaction) *transactionDoc {
	payments := make([]paymentDoc, len(t.PaymentTypes))
	for i, r := range t.PaymentTypes {
		payments[i] = toPaymentDoc(r)
	}
	return &transactionDoc{
		ID:            t.ID,
		Type:          string(t.Type),
		Amount:        t.Amount,
		AmountPaid:    t.AmountPaid,
		DueAmount:     t.DueAmount,
		PaymentStatus: string(t.PaymentStatus),
		StaffID:       t.StaffID,
		StaffName:     t.StaffName,
		ProductID:     t.ProductID,
		ProductSnapshot: snapshotDoc{
			Name:        t.ProductSnapshot.Name,
			Category:    t.ProductSnapshot.Category,
			SubCategory: t.ProductSnapshot.SubCategory,
			URL:         t.ProductSnapshot.URL,
		},
		Customer:     customerDoc{Name: t.Customer.Name, PhoneNumber: t.Customer.PhoneNumber},
		DueDate:      t.DueDate,
		PaymentTypes: payments,
		PaymentBreakdown: breakdownDoc{
			Cash:   t.PaymentBreakdown.Cash,
			Online: t.PaymentBreakdown.Online,
			Dues:   t.PaymentBreakdown.Dues,
		},
		Description: t.Description,
		Version:     t.Version,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

func fromTransactionDoc(d *transactionDoc) models.Transaction {
	records := make([]models.PaymentRecord, len(d.PaymentTypes))
	for i, p := range d.PaymentTypes {
		records[i] = fromPaymentDoc(d.ID, p)
	}
	return models.Transaction{
		ID:            d.ID,
		Type:          models.TransactionType(d.Type),
		Amount:        d.Amount,
		AmountPaid:    d.AmountPaid,
		DueAmount:     d.DueAmount,
		PaymentStatus: models.PaymentStatus(d.PaymentStatus),
		StaffID:       d.StaffID,
		StaffName:     d.StaffName,
		ProductID:     d.ProductID,
		ProductSnapshot: models.ProductSnapshot{
			Name:        d.ProductSnapshot.Name,
			Category:    d.ProductSnapshot.Category,
			SubCategory: d.ProductSnapshot.SubCategory,
			URL:         d.ProductSnapshot.URL,
		},
		Customer:     models.Customer{Name: d.Customer.Name, PhoneNumber: d.Customer.PhoneNumber},
		DueDate:      d.DueDate,
		PaymentTypes: records,
		PaymentBreakdown: models.PaymentBreakdown{
			Cash:   d.PaymentBreakdown.Cash,
			Online: d.PaymentBreakdown.Online,
			Dues:   d.PaymentBreakdown.Dues,
		},
		Description: d.Description,
		Version:     d.Version,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

// ==================== User documents ====================

type userDoc struct {
	ID        string    `bson:"_id"`
	Name      string    `bson:"name"`
	Role      string    `bson:"role"`
	Email     *string   `bson:"email,omitempty"`
	StaffID   *string   `bson:"staffId,omitempty"`
	Password  string    `bson:"password"`
	CreatedAt time.Time `bson:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt"`
}

func toUserDoc(u *models.User) *userDoc {
	return &userDoc{
		ID:        u.ID,
		Name:      u.Name,
		Role:      string(u.Role),
		Email:     u.Email,
		StaffID:   u.StaffID,
		Password:  u.Password,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func fromUserDoc(d *userDoc) *models.User {
	return &models.User{
		ID:        d.ID,
		Name:      d.Name,
		Role:      models.Role(d.Role),
		Email:     d.Email,
		StaffID:   d.StaffID,
		Password:  d.Password,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}
