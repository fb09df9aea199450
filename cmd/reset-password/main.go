package main

import (
	"flag"
	"log"

	"go-pos-ws/internal/model"
	"go-pos-ws/pkg/database"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	userID := flag.String("user", model.SuperAdminID, "user id to reset")
	newPassword := flag.String("password", "0", "new password")
	flag.Parse()

	// 1. Load Env
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, relying on system env")
	}

	// 2. Setup Database
	db := database.ConnectDB()

	// 3. Find the user
	var user model.User
	if err := db.First(&user, "id = ?", *userID).Error; err != nil {
		log.Fatalf("❌ User %s not found in database: %v", *userID, err)
	}

	// 4. Hash new password
	hashed, err := bcrypt.GenerateFromPassword([]byte(*newPassword), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("❌ Failed to hash password: %v", err)
	}

	// 5. Update
	if err := db.Model(&user).Update("password", string(hashed)).Error; err != nil {
		log.Fatalf("❌ Failed to update password in DB: %v", err)
	}

	log.Printf("✅ Success! Password for %s (%s) has been reset", user.Name, user.ID)
}
