// Package main provides a CLI tool for seeding the database with initial data.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"

	"integratorpro/internal/core/id"
	"integratorpro/internal/infrastructure/storage/postgres"
	"integratorpro/pkg/logger"
)

func main() {
	_ = godotenv.Load()

	log, err := logger.New(logger.Config{
		Level:       "info",
		Development: true,
	})
	if err != nil {
		fmt.Printf("failed to create logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()

	// Connect to database
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL environment variable is required")
	}

	poolCfg := postgres.DefaultPoolConfig(dbURL)
	pool, err := postgres.NewPool(ctx, poolCfg)
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()

	log.Info("connected to database")

	// Seed admin user
	if _, err := seedAdminUser(ctx, pool, log); err != nil {
		log.Fatalw("failed to seed admin user", "error", err)
	}

	// Seed demo data if requested
	if os.Getenv("SEED_DEMO_DATA") == "true" {
		if err := seedDemoData(ctx, pool, log); err != nil {
			log.Fatalw("failed to seed demo data", "error", err)
		}
	}

	log.Info("seeding completed successfully")
}

func seedAdminUser(ctx context.Context, pool *postgres.Pool, log *logger.Logger) (id.ID, error) {
	adminEmail := os.Getenv("ADMIN_EMAIL")
	if adminEmail == "" {
		adminEmail = "admin@integratorpro.io"
	}

	adminPassword := os.Getenv("ADMIN_PASSWORD")
	if adminPassword == "" {
		adminPassword = "Admin123!"
	}

	// Check if admin already exists
	var existingID id.ID
	err := pool.Pool.QueryRow(ctx,
		`SELECT id FROM users WHERE email = $1 AND NOT deletion_mark`,
		adminEmail,
	).Scan(&existingID)
	if err == nil {
		log.Infow("admin user already exists", "email", adminEmail, "user_id", existingID)
		return existingID, nil
	}
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return id.Nil(), fmt.Errorf("check admin exists: %w", err)
	}

	// Hash password
	passwordHash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	if err != nil {
		return id.Nil(), fmt.Errorf("hash password: %w", err)
	}

	userID := id.New()
	now := time.Now()

	// Create admin user
	_, err = pool.Pool.Exec(ctx, `
		INSERT INTO users (
			id, email, password_hash, first_name, last_name,
			is_active, is_admin, email_verified, email_verified_at, version
		)
		VALUES ($1, $2, $3, 'System', 'Admin', true, true, true, $4, 1)
	`, userID, adminEmail, string(passwordHash), now)
	if err != nil {
		return id.Nil(), fmt.Errorf("insert admin user: %w", err)
	}

	// Assign admin role
	var adminRoleID id.ID
	err = pool.Pool.QueryRow(ctx,
		`SELECT id FROM roles WHERE code = 'admin'`,
	).Scan(&adminRoleID)
	if err != nil {
		log.Warnw("admin role not found, skipping role assignment", "error", err)
	} else {
		_, err = pool.Pool.Exec(ctx, `
			INSERT INTO user_roles (user_id, role_id, granted_by)
			VALUES ($1, $2, NULL)
			ON CONFLICT (user_id, role_id) DO NOTHING
		`, userID, adminRoleID)
		if err != nil {
			log.Warnw("failed to assign admin role", "error", err)
		}
	}

	log.Infow("admin user created",
		"email", adminEmail,
		"user_id", userID,
	)

	return userID, nil
}

func seedDemoData(ctx context.Context, pool *postgres.Pool, log *logger.Logger) error {
	log.Info("seeding demo data...")

	// 1. Warehouses
	warehouses := []struct {
		name      string
		address   string
		city      string
		isDefault bool
	}{
		{"Main Warehouse", "100 Industrial Pkwy", "Austin", true},
		{"Overflow Storage", "220 Commerce Dr", "Austin", false},
	}

	for i, w := range warehouses {
		whID := id.New()
		code := fmt.Sprintf("WH-%03d", i+1)
		_, err := pool.Pool.Exec(ctx, `
			INSERT INTO cat_warehouses (id, code, name, address, city, state, is_active, is_default, version, deletion_mark, attributes)
			VALUES ($1, $2, $3, $4, $5, 'TX', true, $6, 1, false, '{}')
			ON CONFLICT (code) WHERE deletion_mark = FALSE DO NOTHING
		`, whID, code, w.name, w.address, w.city, w.isDefault)
		if err != nil {
			log.Warnw("failed to seed warehouse", "name", w.name, "error", err)
		}
	}

	// 2. Trucks
	vehicles := []struct {
		name  string
		plate string
		make_ string
		model string
		year  int
		tech  string
	}{
		{"Service Van 1", "ABC123", "Ford", "Transit", 2020, "Mike Rodriguez"},
		{"Service Van 2", "XYZ789", "Chevrolet", "Express", 2019, "Dan Foster"},
	}

	for i, v := range vehicles {
		vhID := id.New()
		code := fmt.Sprintf("VH-%03d", i+1)
		_, err := pool.Pool.Exec(ctx, `
			INSERT INTO cat_vehicles (id, code, name, license_plate, make, model, year, assigned_tech, is_active, version, deletion_mark, attributes)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, true, 1, false, '{}')
			ON CONFLICT (code) WHERE deletion_mark = FALSE DO NOTHING
		`, vhID, code, v.name, v.plate, v.make_, v.model, v.year, v.tech)
		if err != nil {
			log.Warnw("failed to seed vehicle", "name", v.name, "error", err)
		}
	}

	// 3. Vendors
	vendors := []struct {
		name    string
		contact string
		email   string
	}{
		{"Supply Co", "John Supplier", "orders@supplyco.example"},
		{"Parts Unlimited", "Jane Parts", "sales@partsunlimited.example"},
	}

	vendorIDs := make(map[string]id.ID)
	for i, v := range vendors {
		vnID := id.New()
		code := fmt.Sprintf("VN-%03d", i+1)
		commandTag, err := pool.Pool.Exec(ctx, `
			INSERT INTO cat_vendors (id, code, name, contact_person, email, version, deletion_mark, attributes)
			VALUES ($1, $2, $3, $4, $5, 1, false, '{}')
			ON CONFLICT (code) WHERE deletion_mark = FALSE DO NOTHING
		`, vnID, code, v.name, v.contact, v.email)
		if err != nil {
			log.Warnw("failed to seed vendor", "name", v.name, "error", err)
			continue
		}
		if commandTag.RowsAffected() == 0 {
			err = pool.Pool.QueryRow(ctx, `
				SELECT id FROM cat_vendors WHERE code = $1 AND deletion_mark = FALSE
			`, code).Scan(&vnID)
			if err != nil {
				log.Warnw("failed to fetch existing vendor id", "code", code, "error", err)
				continue
			}
		}
		vendorIDs[v.name] = vnID
	}

	// 4. Customers
	customers := []struct {
		name    string
		contact string
		city    string
	}{
		{"Acme Corporation", "Bill Coyote", "Dallas"},
		{"Tech Solutions Inc", "Sara Chen", "Houston"},
	}

	for i, cu := range customers {
		cuID := id.New()
		code := fmt.Sprintf("CU-%03d", i+1)
		_, err := pool.Pool.Exec(ctx, `
			INSERT INTO cat_customers (id, code, name, contact_person, city, state, version, deletion_mark, attributes)
			VALUES ($1, $2, $3, $4, $5, 'TX', 1, false, '{}')
			ON CONFLICT (code) WHERE deletion_mark = FALSE DO NOTHING
		`, cuID, code, cu.name, cu.contact, cu.city)
		if err != nil {
			log.Warnw("failed to seed customer", "name", cu.name, "error", err)
		}
	}

	// 5. Items
	items := []struct {
		partNumber   string
		name         string
		category     string
		manufacturer string
		vendor       string
		cost         string
		price        string
		minStock     int64
		maxStock     int64
	}{
		{"HDMI-25FT", "HDMI Cable 25ft", "Cables", "CableCo", "Supply Co", "12.50", "29.99", 10, 100},
		{"CAT6-1000", "Cat6 Cable 1000ft Spool", "Cables", "CableCo", "Supply Co", "89.00", "189.00", 5, 40},
		{"AMP-200W", "200W Distribution Amplifier", "Amplifiers", "SoundWorks", "Parts Unlimited", "240.00", "449.00", 2, 20},
		{"SPK-IC6", "6.5in In-Ceiling Speaker Pair", "Speakers", "SoundWorks", "Parts Unlimited", "75.00", "159.00", 8, 60},
		{"MNT-TLT55", "Tilting TV Mount 55in", "Mounts", "MountPro", "Supply Co", "28.00", "69.00", 5, 50},
	}

	for i, it := range items {
		itemID := id.New()
		code := fmt.Sprintf("IT-%05d", i+1)

		var vendorIDValue any
		if vid, ok := vendorIDs[it.vendor]; ok {
			vendorIDValue = vid
		}

		commandTag, err := pool.Pool.Exec(ctx, `
			INSERT INTO cat_items (
				id, code, name, part_number, category, manufacturer, vendor_id,
				cost, price, min_stock, max_stock, version, deletion_mark, attributes
			)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, 1, false, '{}')
			ON CONFLICT (code) WHERE deletion_mark = FALSE DO NOTHING
		`, itemID, code, it.name, it.partNumber, it.category, it.manufacturer, vendorIDValue,
			it.cost, it.price, it.minStock, it.maxStock)
		if err != nil {
			log.Warnw("failed to seed item", "part_number", it.partNumber, "error", err)
			continue
		}
		if commandTag.RowsAffected() == 0 {
			continue
		}

		// Opening warehouse stock at the max level
		_, err = pool.Pool.Exec(ctx, `
			INSERT INTO reg_stock_records (part_number, warehouse_qty, truck_qty, allocated_qty, updated_at)
			VALUES ($1, $2, 0, 0, NOW())
			ON CONFLICT (part_number) DO NOTHING
		`, it.partNumber, it.maxStock)
		if err != nil {
			log.Warnw("failed to seed opening stock", "part_number", it.partNumber, "error", err)
		}
	}

	log.Info("demo data seeded successfully")
	return nil
}
