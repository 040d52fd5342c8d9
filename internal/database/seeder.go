package database

import (
	"context"
	"fmt"
	"time"

	"ihub-asset-api-server/config"
	"ihub-asset-api-server/internal/auth"
	"ihub-asset-api-server/internal/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// SeedAdmin creates the initial admin account when the users collection has
// none. Credentials come from config so deployments never ship a hardcoded
// password.
func SeedAdmin(ctx context.Context, db *mongo.Database, cfg config.Config, log *zap.Logger) error {
	if cfg.Seed.AdminEmail == "" || cfg.Seed.AdminPassword == "" {
		log.Info("admin seed credentials not configured, seeding skipped")
		return nil
	}

	userCollection := db.Collection("users")

	count, err := userCollection.CountDocuments(ctx, bson.M{"email": cfg.Seed.AdminEmail})
	if err != nil {
		return fmt.Errorf("failed to check for existing admin: %w", err)
	}
	if count > 0 {
		log.Info("admin already exists, seeding skipped")
		return nil
	}

	hashedPassword, err := auth.HashPassword(cfg.Seed.AdminPassword)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	admin := models.User{
		EmployeeID: fmt.Sprintf("EMP-%s", uuid.New().String()[:8]),
		Email:      cfg.Seed.AdminEmail,
		Name:       "System Admin",
		Password:   hashedPassword,
		Role:       "admin",
		Status:     "active",
		CreatedAt:  time.Now(),
	}

	if _, err := userCollection.InsertOne(ctx, admin); err != nil {
		return fmt.Errorf("failed to seed admin user: %w", err)
	}

	log.Info("admin user seeded", zap.String("email", admin.Email), zap.String("employeeID", admin.EmployeeID))
	return nil
}
