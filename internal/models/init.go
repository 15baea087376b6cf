package models

import (
	"errors"
	"strings"

	"github.com/homeclean-next/internal/logger"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// EnsureDemoUser 初始化演示账号，已存在时不做修改
func EnsureDemoUser(email, password, displayName string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return errors.New("demo user email is required")
	}
	var existing User
	err := DB.Where("email = ?", email).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	defaultPassword := password == ""
	if defaultPassword {
		password = "demo12345"
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user := User{
		Email:        email,
		PasswordHash: string(hash),
		DisplayName:  displayName,
		Locale:       "en-US",
		Status:       "active",
	}
	if err := DB.Create(&user).Error; err != nil {
		return err
	}

	if defaultPassword {
		logger.Warnw("demo_user_created_with_default_password", "email", email, "password", password)
	} else {
		logger.Warnw("demo_user_created", "email", email, "password_hidden", true)
	}
	return nil
}
