package main

import (
	"flag"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"

	"go-bizman-ws/internal/model"
	"go-bizman-ws/pkg/database"
	"go-bizman-ws/pkg/logger"
)

// Resets a user's password and clears their token version, forcing every
// device to log in again.
func main() {
	email := flag.String("email", "admin@example.com", "email of the account to reset")
	password := flag.String("password", "admin123", "new password")
	flag.Parse()

	log := logger.WithModule("reset-password")

	if err := godotenv.Load(); err != nil {
		log.Warn(".env file not found, relying on system env")
	}

	db := database.ConnectDB()

	var user model.User
	if err := db.Where("email = ?", *email).First(&user).Error; err != nil {
		log.WithError(err).WithField("email", *email).Fatal("user not found")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(*password), bcrypt.DefaultCost)
	if err != nil {
		log.WithError(err).Fatal("failed to hash password")
	}

	if err := db.Model(&user).Updates(map[string]interface{}{
		"password":      string(hashedPassword),
		"token_version": "",
	}).Error; err != nil {
		log.WithError(err).Fatal("failed to update password")
	}

	log.WithField("email", *email).Info("password reset, all sessions invalidated")
}
