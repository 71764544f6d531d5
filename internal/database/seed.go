package database

import (
	"log"

	"wasteflow-backend/internal/models"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"
)

func SeedUsers(db *sqlx.DB) error {
	var count int
	if err := db.Get(&count, "SELECT COUNT(*) FROM users"); err != nil {
		return err
	}

	if count > 0 {
		log.Println("✓ Users already seeded, skipping...")
		return nil
	}

	log.Println("🌱 Seeding initial accounts...")

	users := []struct {
		email    string
		password string
		surname  string
		others   string
		phone    string
		role     string
	}{
		{"manager@wasteflow.app", "manager123", "Mensah", "Kojo", "+233200000001", models.RoleManager},
		{"driver1@wasteflow.app", "driver123", "Owusu", "Yaw", "+233200000002", models.RoleDriver},
		{"driver2@wasteflow.app", "driver123", "Asante", "Kwame", "+233200000003", models.RoleDriver},
	}

	for _, u := range users {
		hash, err := bcrypt.GenerateFromPassword([]byte(u.password), bcrypt.DefaultCost)
		if err != nil {
			return err
		}

		_, err = db.Exec(`
			INSERT INTO users (id, email, password, surname, othernames, phone, role, is_approved)
			VALUES ($1, $2, $3, $4, $5, $6, $7, TRUE)
		`, uuid.NewString(), u.email, string(hash), u.surname, u.others, u.phone, u.role)
		if err != nil {
			return err
		}
	}

	log.Printf("✅ Seeded %d accounts", len(users))
	return nil
}

func SeedPackages(db *sqlx.DB) error {
	var count int
	if err := db.Get(&count, "SELECT COUNT(*) FROM packages"); err != nil {
		return err
	}

	if count > 0 {
		log.Println("✓ Packages already seeded, skipping...")
		return nil
	}

	log.Println("🌱 Seeding package catalog...")

	packages := []struct {
		name   string
		price  float64
		size   string
		binNum int
	}{
		{"Starter", 120, models.BinSizeSmall, 1},
		{"Family", 220, models.BinSizeMedium, 2},
		{"Estate", 400, models.BinSizeLarge, 3},
	}

	for _, p := range packages {
		_, err := db.Exec(`
			INSERT INTO packages (id, name, price, size, bin_num, is_custom)
			VALUES ($1, $2, $3, $4, $5, FALSE)
		`, uuid.NewString(), p.name, p.price, p.size, p.binNum)
		if err != nil {
			return err
		}
	}

	log.Printf("✅ Seeded %d packages", len(packages))
	return nil
}

func SeedBins(db *sqlx.DB) error {
	var count int
	if err := db.Get(&count, "SELECT COUNT(*) FROM bins"); err != nil {
		return err
	}

	if count > 0 {
		log.Println("✓ Bins already seeded, skipping...")
		return nil
	}

	log.Println("🌱 Seeding bin pool...")

	batches := []struct {
		category string
		size     string
		price    float64
		n        int
	}{
		{models.BinCategoryTrash, models.BinSizeSmall, 50, 10},
		{models.BinCategoryTrash, models.BinSizeMedium, 75, 10},
		{models.BinCategoryTrash, models.BinSizeLarge, 100, 6},
		{models.BinCategoryRecycling, models.BinSizeSmall, 50, 8},
		{models.BinCategoryRecycling, models.BinSizeMedium, 75, 6},
		{models.BinCategoryRecycling, models.BinSizeLarge, 100, 4},
	}

	total := 0
	for _, b := range batches {
		for i := 0; i < b.n; i++ {
			_, err := db.Exec(`
				INSERT INTO bins (id, category, size, status, price)
				VALUES ($1, $2, $3, $4, $5)
			`, uuid.NewString(), b.category, b.size, models.BinStatusEmpty, b.price)
			if err != nil {
				return err
			}
			total++
		}
	}

	log.Printf("✅ Seeded %d bins", total)
	return nil
}
