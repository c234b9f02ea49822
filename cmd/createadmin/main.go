// Command createadmin seeds an administrator account, for bootstrapping a
// fresh deployment. Username and password come from CLI flags.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"github.com/spec-kit/supplier-service/internal/auth"
	"github.com/spec-kit/supplier-service/internal/config"
	"github.com/spec-kit/supplier-service/internal/domain"
	"github.com/spec-kit/supplier-service/internal/observability"
	"github.com/spec-kit/supplier-service/internal/persistence"
	"github.com/spec-kit/supplier-service/internal/repository"
)

func main() {
	username := flag.String("username", "admin", "admin username")
	password := flag.String("password", "", "admin password (required)")
	flag.Parse()

	if *password == "" {
		log.Fatal("-password is required")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx := context.Background()
	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		log.Fatalf("failed to connect postgres: %v", err)
	}
	defer pg.Close()

	hash, err := auth.HashPassword(*password, cfg.Auth.BcryptCost)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}

	users := repository.NewUserRepository(pg.PoolHandle())
	user := &domain.User{
		Username:     *username,
		PasswordHash: hash,
		Role:         domain.RoleAdmin,
	}
	if err := users.Create(ctx, user); err != nil {
		if repository.IsUniqueViolation(err) {
			log.Fatalf("user %q already exists", *username)
		}
		log.Fatalf("failed to create user: %v", err)
	}

	fmt.Printf("created admin user %s (%s)\n", user.Username, user.ID)
}
