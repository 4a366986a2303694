package main

import (
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"fleet-dispatch-service/internal/adapters/cache"
	"fleet-dispatch-service/internal/adapters/repositories"
	"fleet-dispatch-service/internal/adapters/routing"
	"fleet-dispatch-service/internal/api"
	"fleet-dispatch-service/internal/config"
	"fleet-dispatch-service/internal/platform/db"
	"fleet-dispatch-service/internal/services"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
)

// main is the application composition root.
// It wires concrete adapters (Postgres, Redis, routing services) behind ports
// and starts the HTTP server.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	databaseURL := os.Getenv("DATABASE_URL")
	if strings.TrimSpace(databaseURL) == "" {
		log.Fatal("DATABASE_URL is required")
	}

	fleetSeedPath := config.Get("FLEET_SEED_PATH", "data/seeds/fleet.json")
	usersSeedPath := config.Get("USERS_SEED_PATH", "data/seeds/users.json")
	port := config.Get("PORT", "8080")

	pg, err := db.Open(databaseURL)
	if err != nil {
		log.Fatal(err)
	}
	defer pg.Close()

	// Initialize schema and seed the default fleet on startup for local runs.
	if err := initAndSeed(pg, fleetSeedPath, usersSeedPath); err != nil {
		log.Fatal(err)
	}

	// Geocode cache is optional: without REDIS_ADDR every geocode hits the
	// external services.
	var geocodeCache routing.GeocodeCache
	if addr := os.Getenv("REDIS_ADDR"); strings.TrimSpace(addr) != "" {
		rdb, err := db.OpenRedis(addr, os.Getenv("REDIS_PASSWORD"), 0)
		if err != nil {
			log.Fatal(err)
		}
		defer rdb.Close()
		geocodeCache = cache.NewRedisGeocodeCache(rdb)
	} else {
		log.Println("REDIS_ADDR not set, geocode caching disabled")
	}

	provider := routing.NewProvider(os.Getenv("GRAPHHOPPER_API_KEY"), geocodeCache)

	params := config.FromEnv()

	vehicles := repositories.NewPostgresVehicleRegistry(pg)
	trips := repositories.NewPostgresTripStore(pg)
	loads := repositories.NewPostgresLoadStore(pg)
	users := repositories.NewPostgresUserDirectory(pg)

	selector := services.NewSelector(params)
	planner := services.NewPlanner(vehicles, trips, provider, provider, selector, params)
	lifecycle := services.NewLifecycle(vehicles, trips, params)
	board := services.NewLoadBoard(loads, trips, params)
	matcher := services.NewCapacityMatcher(vehicles, trips, loads, params)
	roles := services.NewRoleDetector(users, vehicles)

	router := api.NewRouter(vehicles, trips, planner, lifecycle, board, matcher, roles)

	// Timeouts are tuned for cold-cache trip planning (external API latency).
	log.Printf("Server listening addr=:%s", port)
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	log.Fatal(srv.ListenAndServe())
}

func initAndSeed(pg *sql.DB, fleetSeedPath, usersSeedPath string) error {
	if err := repositories.InitSchema(pg); err != nil {
		return fmt.Errorf("init and seed: %w", err)
	}

	if err := repositories.SeedFleetFromJSON(pg, fleetSeedPath); err != nil {
		return fmt.Errorf("init and seed: %w", err)
	}

	if err := repositories.SeedUsersFromJSON(pg, usersSeedPath); err != nil {
		return fmt.Errorf("init and seed: %w", err)
	}

	return nil
}
