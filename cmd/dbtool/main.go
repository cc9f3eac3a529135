package main

import (
	"context"
	"log"
	"time"

	"express-ledger-service/internal/adapters/repositories"
	"express-ledger-service/internal/config"
	"express-ledger-service/internal/platform/db"
)

// dbtool creates the schema and loads the ledger seed into the configured
// database without starting the server.
func main() {
	if err := config.LoadDotEnv(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	driver := config.Get("DB_DRIVER", db.DriverSQLite)
	dsn := config.Get("DB_PATH", "data/app.db")
	if driver == db.DriverPostgres {
		dsn = config.Get("DATABASE_URL", "")
		if dsn == "" {
			log.Fatal("DATABASE_URL is required")
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	conn, err := db.Open(ctx, driver, dsn)
	if err != nil {
		log.Fatal(err)
	}
	defer conn.Close()

	log.Println("Initializing database schema...")
	if err := repositories.InitSchema(ctx, conn); err != nil {
		log.Fatalf("schema initialization failed: %v", err)
	}
	log.Println("Schema ready.")

	seedPath := config.Get("SEED_PATH", "data/seeds/ledger.json")
	log.Println("Seeding database...")
	if err := repositories.SeedLedgerFromFile(ctx, conn, repositories.DialectFor(driver), seedPath, time.Now()); err != nil {
		log.Fatalf("seeding failed: %v", err)
	}
	log.Println("Seeding complete.")
}
