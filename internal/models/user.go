// internal/models/user.go
package models

import (
	"golang.org/x/crypto/bcrypt"
)

type User struct {
	BaseModel
	FirstName    string   `json:"firstname" gorm:"size:100"`
	LastName     string   `json:"lastname" gorm:"size:100"`
	Email        string   `json:"email" gorm:"uniqueIndex;size:255;not null"`
	PasswordHash string   `json:"-" gorm:"size:255;not null"`
	PhoneNumber  string   `json:"phonenumber" gorm:"size:30"`
	Role         UserRole `json:"role" gorm:"type:varchar(20);not null"`

	// Relationships
	Products []Product `json:"products,omitempty" gorm:"foreignKey:OwnerID"`
	Orders   []Order   `json:"orders,omitempty" gorm:"foreignKey:BuyerID"`
}

func (u *User) SetPassword(password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hashedPassword)
	return nil
}

func (u *User) CheckPassword(password string) error {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password))
}
