package models

import (
	"strings"

	"github.com/ecofinds/internal/logger"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	defaultAdminUsername = "admin"
	defaultAdminPassword = "admin123"
)

// InitDefaultAdmin 在全局 DB 上初始化超级管理员
func InitDefaultAdmin(username, password string) error {
	_, err := EnsureDefaultAdmin(DB, username, password)
	return err
}

// EnsureDefaultAdmin 管理员表为空时创建超级管理员，返回是否新建
func EnsureDefaultAdmin(db *gorm.DB, username, password string) (bool, error) {
	var count int64
	if err := db.Model(&Admin{}).Count(&count).Error; err != nil {
		return false, err
	}
	if count > 0 {
		return false, nil
	}

	if username = strings.TrimSpace(username); username == "" {
		username = defaultAdminUsername
	}
	usingDefault := password == ""
	if usingDefault {
		password = defaultAdminPassword
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return false, err
	}
	if err := db.Create(&Admin{Username: username, PasswordHash: string(hash), IsSuper: true}).Error; err != nil {
		return false, err
	}

	log := logger.SW("username", username)
	if usingDefault {
		log.Warnw("default_admin_created_with_default_password")
	} else {
		log.Infow("default_admin_created")
	}
	return true, nil
}
