package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"gorm.io/gorm"

	"github.com/pantryplan/pantryplan-backend/config"
	"github.com/pantryplan/pantryplan-backend/internal/database"
)

func main() {
	rollback := flag.Bool("rollback", false, "Rollback the last migration")
	dir := flag.String("dir", "migrations", "Migrations directory")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.New(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if *rollback {
		if err := rollbackLast(db, *dir); err != nil {
			log.Fatalf("Rollback failed: %v", err)
		}
		return
	}

	if err := database.RunMigrations(db, *dir); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}
	fmt.Println("All migrations applied successfully.")
}

// rollbackLast reverts the most recently applied migration using its
// companion <name>_rollback.sql file.
func rollbackLast(db *gorm.DB, dir string) error {
	var last struct {
		Name string
	}
	err := db.Table("migrations").Order("applied_at DESC").Limit(1).Take(&last).Error
	if err == gorm.ErrRecordNotFound {
		return fmt.Errorf("no migrations to rollback")
	}
	if err != nil {
		return fmt.Errorf("failed to get last migration: %w", err)
	}

	rollbackFile := strings.TrimSuffix(last.Name, ".sql") + "_rollback.sql"
	path := filepath.Join(dir, rollbackFile)
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("rollback file not found: %s", path)
	}

	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(string(content)).Error; err != nil {
			return fmt.Errorf("failed to execute rollback: %w", err)
		}
		if err := tx.Exec("DELETE FROM migrations WHERE name = ?", last.Name).Error; err != nil {
			return fmt.Errorf("failed to remove migration record: %w", err)
		}
		fmt.Printf("Successfully rolled back migration: %s\n", last.Name)
		return nil
	})
}
