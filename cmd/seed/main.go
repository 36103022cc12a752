// Command seed prepares a local database with demo accounts.
package main

import (
	"log"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm/clause"

	"clipvault/internal/database"
	"clipvault/internal/domain"
)

func main() {
	db, err := database.Connect("clipvault.db")
	if err != nil {
		log.Fatal("DB connection failed:", err)
	}

	log.Println("Running AutoMigrate...")
	if err := db.AutoMigrate(
		&domain.User{},
		&domain.VerificationCode{},
		&domain.RefreshToken{},
	); err != nil {
		log.Fatal("AutoMigrate failed:", err)
	}

	now := time.Now()
	users := []domain.User{
		{PublicID: uuid.NewString(), Email: "demo@clipvault.app", Name: "Demo", IsActive: true, LastLoginAt: &now},
		{PublicID: uuid.NewString(), Email: "reviewer@clipvault.app", Name: "Reviewer", IsActive: true},
	}

	for i := range users {
		if err := db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "email"}},
			DoNothing: true,
		}).Create(&users[i]).Error; err != nil {
			log.Fatal("seed user failed:", err)
		}
	}

	log.Printf("Seed complete: %d demo users", len(users))
}
