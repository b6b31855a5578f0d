package models

import "time"

type Role string

const (
	RoleOwner Role = "OWNER"
	RoleStaff Role = "STAFF"
)

type User struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	Name      string    `gorm:"size:120;not null" json:"name"`
	Role      Role      `gorm:"size:8;not null;default:'STAFF'" json:"role"`
	Email     *string   `gorm:"size:200;uniqueIndex" json:"email,omitempty"`
	StaffID   *string   `gorm:"size:64;uniqueIndex" json:"staffId,omitempty"`
	Password  string    `gorm:"size:255;not null" json:"-"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Identity is what the auth layer hands to the core for every request.
type Identity struct {
	ID   string `json:"id"`
	Role Role   `json:"role"`
	Name string `json:"name"`
}
