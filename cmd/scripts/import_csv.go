package main

import (
	"context"
	"flag"
	"log"
	"os"
	"time"

	"github.com/ArowuTest/wagerspin-backend/internal/config"
	"github.com/ArowuTest/wagerspin-backend/internal/models"
	mongorepo "github.com/ArowuTest/wagerspin-backend/internal/repositories/mongodb"
	"github.com/ArowuTest/wagerspin-backend/internal/utils"
	"github.com/ArowuTest/wagerspin-backend/pkg/mongodb"
	"github.com/ArowuTest/wagerspin-backend/pkg/sheets"
	"github.com/joho/godotenv"
)

// Imports a wager feed CSV from disk. Useful when the spreadsheet export is
// delivered out of band instead of fetched from the feed URL.
func main() {
	path := flag.String("file", "", "path to the wager feed CSV")
	flag.Parse()
	if *path == "" {
		log.Fatal("usage: import_csv -file <path>")
	}

	_ = godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	f, err := os.Open(*path)
	if err != nil {
		log.Fatalf("Failed to open %s: %v", *path, err)
	}
	defer f.Close()

	rows, err := sheets.Parse(f)
	if err != nil {
		log.Fatalf("Failed to parse CSV: %v", err)
	}

	client, err := mongodb.NewClient(cfg.MongoDB.URI)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer client.Disconnect(context.Background())

	wagerRepo := mongorepo.NewWagerRepository(client.Database(cfg.MongoDB.Database))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	imported, failed := 0, 0
	for _, row := range rows {
		record := &models.WagerRecord{
			PlatformID: utils.CleanPlatformID(row.PlatformID),
			TotalWager: row.WagerAmount,
			ImportedAt: time.Now(),
		}
		if record.PlatformID == "" {
			failed++
			continue
		}
		if err := wagerRepo.UpsertByPlatformID(ctx, record); err != nil {
			log.Printf("Failed to upsert %s: %v", utils.MaskID(record.PlatformID), err)
			failed++
			continue
		}
		imported++
	}

	log.Printf("Import complete: %d imported, %d failed", imported, failed)
}
