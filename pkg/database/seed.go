package database

import (
	"errors"

	"stockwatch-backend/pkg/config"
	"stockwatch-backend/pkg/logger"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// SeedAdminUser creates the initial admin account when the users table is
// empty. Without it a fresh deployment has no way to log in.
func (d *DatabaseInst) SeedAdminUser(cfg *config.Config, log *logger.Logger) error {
	var user User
	err := d.client.First(&user).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	if cfg.AdminPassword == "" {
		log.PrintfWarning("No users exist and ADMIN_PASSWORD is not set, skipping admin seed")
		return nil
	}

	password, err := bcrypt.GenerateFromPassword([]byte(cfg.AdminPassword), cfg.SaltRounds)
	if err != nil {
		return err
	}

	admin := User{
		Email:    cfg.AdminEmail,
		Name:     "Administrator",
		Password: string(password),
	}
	if err := d.client.Create(&admin).Error; err != nil {
		return err
	}

	log.PrintfInfo("Seeded admin user %s", cfg.AdminEmail)
	return nil
}
