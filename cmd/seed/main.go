package main

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"log"
	"os"

	"gorm.io/gorm"

	"clinicbook/internal/config"
	"clinicbook/internal/db"
	"clinicbook/internal/model"
	"clinicbook/internal/repository"
)

const defaultSeedFile = "seed/doctors.json"

// SeedDoctorData represents one entry in the seed file.
type SeedDoctorData struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
}

func main() {
	log.Println("Starting seed script...")

	cfg := config.Load()

	gormDB, err := db.NewPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Println("Connected to database")

	if err := gormDB.AutoMigrate(&model.Doctor{}); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations completed")

	path := defaultSeedFile
	if v := os.Getenv("SEED_FILE"); v != "" {
		path = v
	}
	if len(os.Args) > 1 {
		path = os.Args[1]
	}

	log.Printf("Loading doctors from: %s", path)
	entries, err := loadSeedFile(path)
	if err != nil {
		log.Fatalf("Failed to load seed file: %v", err)
	}
	log.Printf("Loaded %d doctors from file", len(entries))

	doctors := make([]model.Doctor, 0, len(entries))
	skipped := 0
	for _, item := range entries {
		if item.FirstName == "" || item.LastName == "" || item.Email == "" {
			log.Printf("Skipping incomplete doctor entry: %+v", item)
			skipped++
			continue
		}
		doctors = append(doctors, model.Doctor{
			FirstName: item.FirstName,
			LastName:  item.LastName,
			Email:     item.Email,
		})
	}
	if skipped > 0 {
		log.Printf("Skipped %d invalid entries", skipped)
	}

	doctorRepo := repository.NewDoctorRepository(gormDB)
	ctx := context.Background()

	log.Println("Seeding doctors into database...")
	seeded, updated, err := seedDoctors(ctx, doctorRepo, doctors)
	if err != nil {
		log.Fatalf("Failed to seed doctors: %v", err)
	}

	log.Printf("Seed completed successfully!")
	log.Printf("  - New doctors created: %d", seeded)
	log.Printf("  - Existing doctors updated: %d", updated)
	log.Printf("  - Total doctors processed: %d", seeded+updated)
}

// loadSeedFile reads and parses the doctors seed file.
func loadSeedFile(path string) ([]SeedDoctorData, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	var entries []SeedDoctorData
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parse seed file: %w", err)
	}
	return entries, nil
}

// seedDoctors upserts doctors keyed by their unique (first, last) name pair.
func seedDoctors(ctx context.Context, repo repository.DoctorRepository, doctors []model.Doctor) (seeded int, updated int, err error) {
	for _, doctor := range doctors {
		existing, err := repo.FindByName(ctx, doctor.FirstName, doctor.LastName)
		if err != nil && !stderrors.Is(err, gorm.ErrRecordNotFound) {
			return seeded, updated, fmt.Errorf("error checking doctor %s %s: %w", doctor.FirstName, doctor.LastName, err)
		}

		if existing != nil {
			set, err := repository.BuildPartialUpdate(
				map[string]interface{}{"email": doctor.Email},
				repository.DoctorUpdateFields,
			)
			if err != nil {
				return seeded, updated, err
			}
			if err := repo.UpdateFields(ctx, existing.ID, set); err != nil {
				return seeded, updated, fmt.Errorf("error updating doctor %s %s: %w", doctor.FirstName, doctor.LastName, err)
			}
			updated++
		} else {
			if err := repo.Create(ctx, &doctor); err != nil {
				return seeded, updated, fmt.Errorf("error creating doctor %s %s: %w", doctor.FirstName, doctor.LastName, err)
			}
			seeded++
		}
	}
	return seeded, updated, nil
}
