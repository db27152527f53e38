// Command seed imports the JSON fixture data into the database, or wipes
// it again.
//
//	go run ./cmd/seed -i   import _data/*.json
//	go run ./cmd/seed -d   delete all rows
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"gorm.io/gorm"

	"github.com/devtrail/bootcamp-service/internal/config"
	"github.com/devtrail/bootcamp-service/internal/models"
	"github.com/devtrail/bootcamp-service/internal/utils"
	"github.com/devtrail/bootcamp-service/pkg"
)

func main() {
	importFlag := flag.Bool("i", false, "import fixture data")
	deleteFlag := flag.Bool("d", false, "delete all data")
	dataDir := flag.String("data", "_data", "directory holding the JSON fixtures")
	flag.Parse()

	if *importFlag == *deleteFlag {
		fmt.Fprintln(os.Stderr, "usage: seed -i | seed -d")
		os.Exit(2)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := pkg.InitDatabase(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	if *importFlag {
		if err := importData(db, *dataDir); err != nil {
			log.Fatalf("Import failed: %v", err)
		}
		fmt.Println("Data imported")
		return
	}

	if err := deleteData(db); err != nil {
		log.Fatalf("Delete failed: %v", err)
	}
	fmt.Println("Data deleted")
}

// seedUser re-exposes the password column, which the model deliberately
// keeps out of JSON. Fixture passwords are plaintext and hashed on import.
type seedUser struct {
	models.User
	Password string `json:"password"`
}

func importData(db *gorm.DB, dataDir string) error {
	var seedUsers []seedUser
	if err := readFixture(dataDir, "users.json", &seedUsers); err != nil {
		return err
	}
	if len(seedUsers) > 0 {
		users := make([]models.User, 0, len(seedUsers))
		for _, su := range seedUsers {
			hash, err := utils.HashPassword(su.Password)
			if err != nil {
				return fmt.Errorf("failed to hash password for %s: %w", su.Email, err)
			}
			u := su.User
			u.Password = hash
			users = append(users, u)
		}
		if err := db.Create(&users).Error; err != nil {
			return fmt.Errorf("failed to import users: %w", err)
		}
	}

	var bootcamps []models.Bootcamp
	if err := readFixture(dataDir, "bootcamps.json", &bootcamps); err != nil {
		return err
	}
	if len(bootcamps) > 0 {
		if err := db.Create(&bootcamps).Error; err != nil {
			return fmt.Errorf("failed to import bootcamps: %w", err)
		}
	}

	var courses []models.Course
	if err := readFixture(dataDir, "courses.json", &courses); err != nil {
		return err
	}
	if len(courses) > 0 {
		if err := db.Create(&courses).Error; err != nil {
			return fmt.Errorf("failed to import courses: %w", err)
		}
	}

	var reviews []models.Review
	if err := readFixture(dataDir, "reviews.json", &reviews); err != nil {
		return err
	}
	if len(reviews) > 0 {
		if err := db.Create(&reviews).Error; err != nil {
			return fmt.Errorf("failed to import reviews: %w", err)
		}
	}

	return nil
}

func deleteData(db *gorm.DB) error {
	// Children first so foreign keys never dangle.
	for _, model := range []interface{}{
		&models.Review{},
		&models.Course{},
		&models.Bootcamp{},
		&models.User{},
	} {
		if err := db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(model).Error; err != nil {
			return fmt.Errorf("failed to delete rows: %w", err)
		}
	}
	return nil
}

// readFixture loads one JSON file into out. A missing file is skipped so
// partial fixture sets still import.
func readFixture(dataDir, name string, out interface{}) error {
	data, err := os.ReadFile(filepath.Join(dataDir, name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read %s: %w", name, err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to parse %s: %w", name, err)
	}
	return nil
}
