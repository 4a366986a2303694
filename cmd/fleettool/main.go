package main

import (
	"database/sql"
	"flag"
	"log"
	"os"
	"strings"

	"fleet-dispatch-service/internal/adapters/repositories"
	"fleet-dispatch-service/internal/config"
	"fleet-dispatch-service/internal/platform/db"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
)

// fleettool initializes the dispatch schema, seeds the fleet and user
// directory, and can force every vehicle back to available (handy after
// demo runs leave trucks stuck on trips).
func main() {
	reset := flag.Bool("reset", false, "reset all vehicles to available with no trip or cargo")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	databaseURL := os.Getenv("DATABASE_URL")
	if strings.TrimSpace(databaseURL) == "" {
		log.Fatal("DATABASE_URL is required")
	}

	pg, err := db.Open(databaseURL)
	if err != nil {
		log.Fatal(err)
	}
	defer pg.Close()

	if *reset {
		n, err := repositories.ResetFleet(pg)
		if err != nil {
			log.Fatalf("fleet reset failed: %v", err)
		}
		log.Printf("Reset %d vehicles to available.", n)
		return
	}

	fleetSeedPath := config.Get("FLEET_SEED_PATH", "data/seeds/fleet.json")
	usersSeedPath := config.Get("USERS_SEED_PATH", "data/seeds/users.json")
	initAndSeed(pg, fleetSeedPath, usersSeedPath)
}

func initAndSeed(pg *sql.DB, fleetSeedPath, usersSeedPath string) {
	log.Println("Initializing database schema...")
	if err := repositories.InitSchema(pg); err != nil {
		log.Fatalf("schema initialization failed: %v", err)
	}
	log.Println("Schema ready.")

	log.Println("Seeding fleet...")
	if err := repositories.SeedFleetFromJSON(pg, fleetSeedPath); err != nil {
		log.Fatalf("fleet seeding failed: %v", err)
	}

	log.Println("Seeding users...")
	if err := repositories.SeedUsersFromJSON(pg, usersSeedPath); err != nil {
		log.Fatalf("user seeding failed: %v", err)
	}
	log.Println("Seeding complete.")
}
