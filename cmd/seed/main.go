package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"storefront/config"
	"storefront/libs"

	"github.com/jackc/pgx/v5"
)

// seed runs the migrations and then loads the demo catalog from a SQL file.
func main() {
	seedFile := flag.String("file", "database/seed/seed.sql", "path to the seed SQL file")
	flag.Parse()

	cfg := config.LoadConfig()
	log, err := libs.NewLogger(cfg.AppEnv)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	if err := run(cfg, *seedFile); err != nil {
		log.Fatal("seeding failed", "error", err)
	}
}

func run(cfg *config.Config, seedFile string) error {
	sql, err := os.ReadFile(seedFile)
	if err != nil {
		return fmt.Errorf("read seed file: %w", err)
	}

	if err := config.RunMigrations(cfg); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	conn, err := pgx.Connect(ctx, cfg.DSN())
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer conn.Close(context.Background())

	fmt.Println("Populating the database...")
	// the file holds several statements, so it goes through the simple protocol in one round trip
	if _, err := conn.PgConn().Exec(ctx, string(sql)).ReadAll(); err != nil {
		return fmt.Errorf("execute seed: %w", err)
	}
	fmt.Println("Done.")
	return nil
}
