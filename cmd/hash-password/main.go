// Command hash-password provisions or resets a user's credentials directly
// against the database. User provisioning happens out-of-band; there is no
// self-registration endpoint.
package main

import (
	"flag"
	"log"

	"go-taskboard-ws/internal/config"
	"go-taskboard-ws/internal/model"
	"go-taskboard-ws/pkg/database"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	username := flag.String("username", "", "username to reset or create")
	password := flag.String("password", "", "new plaintext password")
	create := flag.Bool("create", false, "create the user if it does not exist")
	flag.Parse()

	if *username == "" || *password == "" {
		log.Fatal("❌ Both -username and -password are required")
	}

	// 1. Load env
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, relying on system env")
	}
	cfg, err := config.LoadAPI()
	if err != nil {
		log.Fatal("Failed to load config: ", err)
	}

	// 2. Setup database
	db := database.Connect(cfg.DSN())

	// 3. Hash the new password
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(*password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("❌ Failed to hash password: %v", err)
	}

	// 4. Find or create the user
	var user model.User
	if err := db.Where("username = ?", *username).First(&user).Error; err != nil {
		if !*create {
			log.Fatalf("❌ User %s not found in database (use -create to add): %v", *username, err)
		}
		user = model.User{Username: *username, Password: string(hashedPassword)}
		if err := db.Create(&user).Error; err != nil {
			log.Fatalf("❌ Failed to create user: %v", err)
		}
		log.Printf("✅ User %s created. Assign roles before they can do anything.", *username)
		return
	}

	// 5. Update
	if err := db.Model(&user).Update("password", string(hashedPassword)).Error; err != nil {
		log.Fatalf("❌ Failed to update password in DB: %v", err)
	}

	log.Printf("✅ Success! Password for %s has been reset", *username)
}
