package dtos

import "pos-api/models"

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	StaffID  string `json:"staffId"`
	Pin      string `json:"pin"`
}

type RegisterStaffInput struct {
	Name    string `json:"name" binding:"required"`
	StaffID string `json:"staffId" binding:"required"`
	Pin     string `json:"pin" binding:"required,min=4"`
}

type AuthResponse struct {
	Message string          `json:"message"`
	Token   string          `json:"token"`
	User    models.Identity `json:"user"`
}

type CustomerInput struct {
	Name        string `json:"name"`
	PhoneNumber string `json:"phoneNumber" binding:"omitempty,phone10"`
}

type PaymentMethodInput struct {
	Type        string         `json:"type" binding:"required"`
	Amount      float64        `json:"amount"`
	DuesDetails *CustomerInput `json:"duesDetails,omitempty"`
}

// SaleInput covers both sale shapes. A non-empty PaymentMethods selects the
// split variant and AmountPaid/PaymentMode are ignored.
type SaleInput struct {
	ProductID      string               `json:"productId" binding:"required"`
	SalePrice      *float64             `json:"salePrice" binding:"required"`
	AmountPaid     *float64             `json:"amountPaid"`
	PaymentMode    string               `json:"paymentMode"`
	Customer       *CustomerInput       `json:"customer"`
	DueDate        string               `json:"dueDate"`
	PaymentMethods []PaymentMethodInput `json:"paymentMethods" binding:"omitempty,dive"`
}

func (in SaleInput) IsSplit() bool {
	return len(in.PaymentMethods) > 0
}

type ExpenseInput struct {
	Amount      float64 `json:"amount"`
	Description string  `json:"description"`
	PaymentMode string  `json:"paymentMode"`
}

type CollectInput struct {
	Amount      float64 `json:"amount"`
	PaymentMode string  `json:"paymentMode"`
}

type UpdateCustomerInput struct {
	Name        *string `json:"name"`
	PhoneNumber *string `json:"phoneNumber" binding:"omitempty,phone10"`
	DueDate     *string `json:"dueDate"`
}

type CreateProductInput struct {
	Name         string                `json:"name" binding:"required"`
	Description  *string               `json:"description"`
	Price        float64               `json:"price"`
	Images       []models.ProductImage `json:"images"`
	Category     string                `json:"category" binding:"required"`
	SubCategory  string                `json:"subCategory" binding:"required"`
	IsOnline     *bool                 `json:"isOnline"`
	IsNewArrival bool                  `json:"isNewArrival"`
	IsBestSeller bool                  `json:"isBestSeller"`
}

type HistoryQuery struct {
	Filter string
	Type   string
}

type DuesStatisticsQuery struct {
	StartDate string
	EndDate   string
}

type UploadSignature struct {
	Signature      string `json:"signature"`
	Timestamp      int64  `json:"timestamp"`
	APIKey         string `json:"apiKey"`
	CloudName      string `json:"cloudName"`
	Folder         string `json:"folder"`
	Transformation string `json:"transformation"`
	AllowedFormats string `json:"allowedFormats"`
}

type DashboardOverview struct {
	Stats      models.StatsSummary    `json:"stats"`
	SalesChart []models.DailySales    `json:"salesChart"`
	Categories []models.CategorySlice `json:"categoryChart"`
}
