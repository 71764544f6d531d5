package main

import (
	"log"
	"os"

	"wasteflow-backend/internal/database"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
)

func main() {
	seed := pflag.Bool("seed", false, "seed accounts, packages and bins after migrating")
	pflag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL environment variable not set")
	}

	db, err := database.Connect(dbURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}
	log.Println("Migration completed successfully!")

	if *seed {
		if err := database.SeedUsers(db); err != nil {
			log.Fatalf("User seeding failed: %v", err)
		}
		if err := database.SeedPackages(db); err != nil {
			log.Fatalf("Package seeding failed: %v", err)
		}
		if err := database.SeedBins(db); err != nil {
			log.Fatalf("Bin seeding failed: %v", err)
		}
		log.Println("Seeding completed successfully!")
	}
}
