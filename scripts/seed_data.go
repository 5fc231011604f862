//go:build ignore

package main

import (
	"context"
	"log"

	"github.com/abenezer/localserve/internal/auth"
	"github.com/abenezer/localserve/internal/config"
	"github.com/abenezer/localserve/internal/database"
	"github.com/abenezer/localserve/internal/models"
	"github.com/abenezer/localserve/internal/repository"
	"github.com/google/uuid"
)

var regions = []string{"Bole", "Piazza", "Kazanchis", "Sarbet"}

var providerSeeds = []struct {
	name, email, service, location string
}{
	{"Dawit Plumbing", "dawit@example.com", "Plumber", "Bole, Addis Ababa"},
	{"Hanna Electric", "hanna@example.com", "Electrician", "Piazza, Addis Ababa"},
	{"Samuel Carpentry", "samuel@example.com", "Carpenter", "Kazanchis, Addis Ababa"},
	{"Lily Cleaning", "lily@example.com", "Cleaner", "Bole, Addis Ababa"},
}

var customerSeeds = []struct {
	name, email string
}{
	{"Selam Bekele", "selam@example.com"},
	{"Yonas Tadesse", "yonas@example.com"},
}

var reviewSeeds = []struct {
	customerEmail, providerEmail string
	rating                       int
	comment                      string
}{
	{"selam@example.com", "dawit@example.com", 5, "Fixed the leak in under an hour."},
	{"yonas@example.com", "dawit@example.com", 4, "Good work, arrived a bit late."},
	{"selam@example.com", "hanna@example.com", 5, "Rewired the kitchen safely."},
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := database.NewPostgres(cfg.DatabaseURL, cfg.DBMaxConnections, cfg.DBMaxIdleConnections)
	if err != nil {
		log.Fatalf("Failed to connect to PostgreSQL: %v", err)
	}
	defer db.Close()

	ctx := context.Background()

	userRepo := repository.NewUserRepository(db.DB)
	regionRepo := repository.NewRegionRepository(db.DB)

	password, err := auth.HashPassword("password123")
	if err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}

	// Super admin
	log.Println("Creating super admin...")
	if err := createUser(ctx, db, userRepo, &models.User{
		Name:     "Root Admin",
		Email:    "root@localserve.dev",
		Password: password,
		Role:     models.RoleSuperAdmin,
	}); err != nil {
		log.Fatalf("Failed to create super admin: %v", err)
	}

	// Regional admins, one per region
	log.Printf("Creating %d regional admins...", len(regions))
	for _, region := range regions {
		region := region
		if err := regionRepo.Upsert(ctx, region); err != nil {
			log.Fatalf("Failed to register region %s: %v", region, err)
		}
		if err := createUser(ctx, db, userRepo, &models.User{
			Name:     region + " Admin",
			Email:    "admin." + region + "@localserve.dev",
			Password: password,
			Role:     models.RoleAdmin,
			Region:   &region,
		}); err != nil {
			log.Fatalf("Failed to create admin for %s: %v", region, err)
		}
	}

	// Approved providers
	log.Printf("Creating %d providers...", len(providerSeeds))
	for _, seed := range providerSeeds {
		user := &models.User{
			Name:     seed.name,
			Email:    seed.email,
			Password: password,
			Role:     models.RoleProvider,
		}
		if err := createUser(ctx, db, userRepo, user); err != nil {
			log.Fatalf("Failed to create provider user %s: %v", seed.email, err)
		}

		_, err := db.ExecContext(ctx, `
			INSERT INTO providers (id, user_id, service_type, location, contact_number,
				description, status, rating, created_at, updated_at)
			VALUES ($1, $2, $3, $4, '', '', $5, 0, now(), now())
			ON CONFLICT (user_id) DO NOTHING`,
			uuid.New().String(), user.ID, seed.service, seed.location, models.ProviderStatusApproved)
		if err != nil {
			log.Fatalf("Failed to create provider row for %s: %v", seed.email, err)
		}
	}

	// Customers and their reviews
	log.Printf("Creating %d customers...", len(customerSeeds))
	for _, seed := range customerSeeds {
		if err := createUser(ctx, db, userRepo, &models.User{
			Name:     seed.name,
			Email:    seed.email,
			Password: password,
			Role:     models.RoleCustomer,
		}); err != nil {
			log.Fatalf("Failed to create customer %s: %v", seed.email, err)
		}
	}

	log.Printf("Creating %d reviews...", len(reviewSeeds))
	for _, seed := range reviewSeeds {
		customer, err := userRepo.GetByEmail(ctx, seed.customerEmail)
		if err != nil || customer == nil {
			log.Fatalf("Failed to look up customer %s: %v", seed.customerEmail, err)
		}

		var providerID string
		err = db.GetContext(ctx, &providerID, `
			SELECT p.id FROM providers p
			JOIN users u ON p.user_id = u.id
			WHERE u.email = $1`, seed.providerEmail)
		if err != nil {
			log.Fatalf("Failed to look up provider %s: %v", seed.providerEmail, err)
		}

		var exists bool
		err = db.GetContext(ctx, &exists,
			`SELECT EXISTS (SELECT 1 FROM reviews WHERE customer_id = $1 AND provider_id = $2)`,
			customer.ID, providerID)
		if err != nil {
			log.Fatalf("Failed to check existing review: %v", err)
		}
		if exists {
			continue
		}

		_, err = db.ExecContext(ctx, `
			INSERT INTO reviews (id, customer_id, provider_id, rating, comment, created_at)
			VALUES ($1, $2, $3, $4, $5, now())`,
			uuid.New().String(), customer.ID, providerID, seed.rating, seed.comment)
		if err != nil {
			log.Fatalf("Failed to create review: %v", err)
		}

		_, err = db.ExecContext(ctx, `
			UPDATE providers
			SET rating = COALESCE((SELECT AVG(rating) FROM reviews WHERE provider_id = $1), 0)
			WHERE id = $1`, providerID)
		if err != nil {
			log.Fatalf("Failed to recompute rating: %v", err)
		}
	}

	log.Println("Seeding complete")
	log.Println("Super admin login: root@localserve.dev / password123")
}

func createUser(ctx context.Context, db *database.PostgresDB, userRepo repository.UserRepository, user *models.User) error {
	existing, err := userRepo.GetByEmail(ctx, user.Email)
	if err != nil {
		return err
	}
	if existing != nil {
		user.ID = existing.ID
		return nil
	}
	return userRepo.Create(ctx, user)
}
