package main

import (
	"context"
	"log"
	"os"
	"time"

	"campus-finance-be/internal/entity"
	"campus-finance-be/internal/repository/specification"
	"campus-finance-be/internal/repository/unitofwork"
	"campus-finance-be/pkg/database"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

// Seeds the first ADMIN account. Re-running is a no-op once the identifier exists.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}
	identifier := getEnv("SEED_ADMIN_IDENTIFIER", "admin")
	password := os.Getenv("SEED_ADMIN_PASSWORD")
	if len(password) < 6 || len(password) > 72 {
		log.Fatal("Error: SEED_ADMIN_PASSWORD must be 6-72 bytes")
	}

	db, err := database.NewGormDBFromDSN(dsn, nil)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	ctx := context.Background()
	uow := unitofwork.NewRepositoryFactory(db).NewUnitOfWork(ctx)

	existing, err := uow.UserRepository().FindOne(ctx, specification.ByIdentifier{Identifier: identifier})
	if err != nil {
		log.Fatalf("Error: lookup failed: %v", err)
	}
	if existing != nil {
		log.Printf("Admin '%s' already exists, skipping...", identifier)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("Error: hash failed: %v", err)
	}

	admin := &entity.User{
		Id:                 uuid.New(),
		Identifier:         identifier,
		Name:               getEnv("SEED_ADMIN_NAME", "Administrator"),
		Role:               entity.UserRoleAdmin,
		PasswordHash:       string(hash),
		IsActive:           true,
		MustChangePassword: true,
		CreatedAt:          time.Now(),
	}
	if err := uow.UserRepository().Create(ctx, admin); err != nil {
		log.Fatalf("Error: create admin failed: %v", err)
	}

	log.Printf("Created admin: %s", identifier)
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}
