// internal/domain/user/entity.go
package user

import (
	"strings"
	"time"

	"github.com/bayt-organic/storefront/internal/pkg/entityid"
	"gorm.io/gorm"
)

// User represents the user entity
type User struct {
	ID          string     `gorm:"type:uuid;primaryKey" json:"id"`
	Email       string     `gorm:"uniqueIndex;not null;size:255" json:"email"`
	Password    string     `gorm:"not null;size:255" json:"-"`
	FirstName   string     `gorm:"size:100" json:"first_name"`
	LastName    string     `gorm:"size:100" json:"last_name"`
	Phone       string     `gorm:"size:20" json:"phone"`
	IsActive    bool       `gorm:"default:true" json:"is_active"`
	IsAdmin     bool       `gorm:"default:false" json:"is_admin"`
	LastLoginAt *time.Time `json:"last_login_at"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// Address is a shipping address. Guest checkouts create addresses with no owner.
// Orders reference an address by id, so an address is never edited after use.
type Address struct {
	ID            string    `gorm:"type:uuid;primaryKey" json:"id"`
	OwnerUserID   *string   `gorm:"type:uuid;index" json:"owner_user_id,omitempty"`
	RecipientName string    `gorm:"size:200;not null" json:"recipient_name"`
	Phone         string    `gorm:"size:20;not null" json:"phone"`
	Street        string    `gorm:"size:255;not null" json:"street"`
	City          string    `gorm:"size:100;not null" json:"city"`
	State         string    `gorm:"size:100;not null" json:"state"`
	PostalCode    string    `gorm:"size:20;not null" json:"postal_code"`
	Country       string    `gorm:"size:100;not null" json:"country"`
	IsDefault     bool      `gorm:"default:false" json:"is_default"`
	CreatedAt     time.Time `json:"created_at"`
}

// TableName overrides the table name for User
func (User) TableName() string {
	return "users"
}

// TableName overrides the table name for Address
func (Address) TableName() string {
	return "shipping_addresses"
}

// BeforeCreate normalises the email and assigns an identifier
func (u *User) BeforeCreate(tx *gorm.DB) error {
	u.Email = strings.ToLower(u.Email)
	if u.ID == "" {
		u.ID = entityid.New()
	}
	return nil
}

// BeforeCreate assigns an identifier when none is set
func (a *Address) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = entityid.New()
	}
	return nil
}

// GetFullName returns the user's full name
func (u *User) GetFullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// GetDisplayName returns display name (full name or email)
func (u *User) GetDisplayName() string {
	fullName := u.GetFullName()
	if fullName != "" {
		return fullName
	}
	return u.Email
}
