package database

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Category struct {
	ID          uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string    `gorm:"not null;unique" json:"name"`
	Description *string   `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`

	Products []Product `gorm:"foreignKey:CategoryID" json:"-"`
}

type Product struct {
	ID          uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string    `gorm:"not null" json:"name"`
	Description *string   `json:"description"`
	Price       float64   `gorm:"not null;default:0" json:"price"`
	Quantity    int       `gorm:"not null;default:0" json:"quantity"`
	CategoryID  uint      `gorm:"not null;index" json:"categoryId"`
	ImageURL    *string   `json:"imageUrl"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type User struct {
	ID        string    `gorm:"primaryKey" json:"id"`
	Email     string    `gorm:"not null;unique" json:"email"`
	Name      string    `gorm:"not null" json:"name"`
	Password  string    `gorm:"not null" json:"-"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

// UserKeys stores the random component of issued refresh tokens so they can be
// revoked on logout and pruned by the maintenance job once expired.
type UserKeys struct {
	Random    string    `gorm:"primaryKey" json:"random"`
	UserID    string    `gorm:"not null;index" json:"userId"`
	ExpiredAt time.Time `gorm:"not null" json:"expiredAt"`
}
