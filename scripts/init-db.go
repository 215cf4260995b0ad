package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"food_store/internal/config"
	"food_store/internal/database"
	"food_store/internal/middleware"
	"food_store/internal/migrations"
	"food_store/internal/models"
	"food_store/internal/repository"
	"food_store/internal/services"
)

func main() {
	reset := flag.Bool("reset", false, "drop all tables before migrating")
	seed := flag.Bool("seed", true, "create a demo order and print dev tokens")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	if err := run(logger, *reset, *seed); err != nil {
		logger.Error("init_db_failed", "error", err)
		os.Exit(1)
	}
	fmt.Println("Database initialization completed successfully!")
}

func run(logger *slog.Logger, reset, seed bool) error {
	// Load configuration
	cfg := config.Load()

	// Initialize database
	db, err := database.Initialize(cfg.DatabaseURL, cfg.DBLogLevel, logger)
	if err != nil {
		return err
	}

	if reset {
		fmt.Println("Dropping existing tables...")
		if err := db.Migrator().DropTable(migrations.Models()...); err != nil {
			logger.Warn("drop_tables_failed", "error", err)
		}
	}

	fmt.Println("Creating tables...")
	if err := migrations.RunMigrations(db, logger); err != nil {
		return err
	}

	if !seed {
		return nil
	}

	adminActor := models.Actor{Role: models.RoleAdmin, ID: 1}
	customerActor := models.Actor{Role: models.RoleCustomer, ID: 1001}

	fmt.Println("Creating demo order...")
	orders := services.NewOrderService(repository.NewStore(db), services.OrderServiceConfig{
		DeliveryWindow: cfg.DeliveryWindow,
	}, logger)
	order, err := orders.CreateOrder(context.Background(), customerActor, services.NewOrder{
		Items: []services.NewOrderItem{
			{Name: "Margherita Pizza", Price: 11.5, Quantity: 1},
			{Name: "Garlic Bread", Price: 4, Quantity: 2},
		},
		FullName:      "Demo Customer",
		Phone:         "555-0100",
		Street:        "1 Main St",
		City:          "Springfield",
		PostalCode:    "12345",
		Subtotal:      19.5,
		Tax:           1.95,
		Shipping:      2.5,
		Total:         23.95,
		PaymentMethod: models.PaymentCOD,
	})
	if err != nil {
		return err
	}
	fmt.Printf("Demo order #%d created (status %s)\n", order.ID, order.Status)

	// Tokens for local testing only.
	secret := []byte(cfg.JWTSecret)
	for _, actor := range []models.Actor{adminActor, customerActor} {
		token, err := middleware.IssueToken(secret, actor, 24*time.Hour, time.Now())
		if err != nil {
			return err
		}
		fmt.Printf("%s (id %d) token: %s\n", actor.Role, actor.ID, token)
	}
	return nil
}
