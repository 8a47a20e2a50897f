package models

import (
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type UserType string

const (
	UserTypeRider  UserType = "rider"
	UserTypeDriver UserType = "driver"
)

type User struct {
	gorm.Model
	Username     string `json:"username" gorm:"column:username;unique;not null"`
	Email        string `json:"email" gorm:"column:email;unique;not null"`
	PasswordHash string `json:"-" gorm:"column:password_hash;not null"`
	PhoneNumber  string `json:"phoneNumber" gorm:"column:phone_number"`
	UserType     string `json:"userType" gorm:"column:user_type;not null"`
	FCMToken     string `json:"-" gorm:"column:fcm_token;default:''"`
}

// TableName specifies the table name
func (User) TableName() string {
	return "users"
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
