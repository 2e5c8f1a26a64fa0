// Command seed prepares a fresh database for first use: it creates the
// Admin and Employee roles and an initial admin account. Credentials for
// the admin come from SEED_ADMIN_EMAIL and SEED_ADMIN_PASSWORD; the run
// is idempotent, so re-seeding an already-populated database is safe.
package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/iliyamo/vacation-tracker/internal/config"
	"github.com/iliyamo/vacation-tracker/internal/database"
	"github.com/iliyamo/vacation-tracker/internal/model"
	"github.com/iliyamo/vacation-tracker/internal/repository"
	"github.com/iliyamo/vacation-tracker/internal/utils"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	roles := repository.NewRoleRepo(db)
	admin, err := roles.Ensure(ctx, "Admin", model.CapabilityAdmin)
	if err != nil {
		log.Fatalf("ensure Admin role: %v", err)
	}
	if _, err := roles.Ensure(ctx, "Employee", model.CapabilityEmployee); err != nil {
		log.Fatalf("ensure Employee role: %v", err)
	}

	email := os.Getenv("SEED_ADMIN_EMAIL")
	password := os.Getenv("SEED_ADMIN_PASSWORD")
	if email == "" || password == "" {
		log.Println("roles seeded; set SEED_ADMIN_EMAIL and SEED_ADMIN_PASSWORD to also create an admin user")
		return
	}

	users := repository.NewUserRepo(db)
	if _, err := users.GetByEmail(ctx, email); err == nil {
		log.Printf("admin %s already exists", email)
		return
	} else if err != repository.ErrNotFound {
		log.Fatalf("look up admin: %v", err)
	}

	hash, err := utils.HashPassword(password, cfg.BcryptCost)
	if err != nil {
		log.Fatalf("hash password: %v", err)
	}
	id, err := users.Create(ctx, email, hash, "Administrator", admin.ID)
	if err != nil {
		log.Fatalf("create admin: %v", err)
	}
	log.Printf("seeded admin %s (id=%d)", email, id)
}
