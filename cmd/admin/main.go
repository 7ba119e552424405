package main

import (
	"context"
	"dcms/backend/internal/auth"
	"dcms/backend/internal/config"
	"dcms/backend/internal/location"
	"dcms/backend/internal/models"
	"dcms/backend/internal/storage"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// adminAccount is one office administrator to provision.
type adminAccount struct {
	Username string
	Email    string
	Password string
	Province string
	District string
	Office   string
}

var defaultAdmins = []adminAccount{
	{"ktm_ward_admin", "ward.kathmandu@dcms.gov.np", "Admin@123", "Bagmati", "Kathmandu", "Ward Office"},
	{"lalitpur_municipality_admin", "municipality.lalitpur@dcms.gov.np", "Admin@123", "Bagmati", "Lalitpur", "Municipality Office"},
	{"bhaktapur_electric_admin", "electric.bhaktapur@dcms.gov.np", "Admin@123", "Bagmati", "Bhaktapur", "Electricity Authority"},
	{"chitwan_water_admin", "water.chitwan@dcms.gov.np", "Admin@123", "Bagmati", "Chitwan", "Water Supply"},
	{"makwanpur_police_admin", "police.makwanpur@dcms.gov.np", "Admin@123", "Bagmati", "Makwanpur", "Police (Non-Emergency)"},
	{"ktm_university_admin", "university.kathmandu@dcms.edu.np", "Admin@123", "Bagmati", "Kathmandu", "University Administration"},
}

var errExists = errors.New("user already exists")

const usage = `Usage: admin <command> [args]

Commands:
  create-admin <username> <email> <password> [province] [district] [office]
  seed-admins
  promote <username> [province] [district] [office]`

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := gorm.Open(postgres.Open(cfg.DB.DSN()), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}
	if err := storage.AutoMigrate(db); err != nil {
		log.Fatalf("failed to run migrations: %v", err)
	}

	storageSvc := storage.NewStorageService(db, nil, zap.NewNop()) // No redis needed for admin CLI
	ctx := context.Background()

	if len(os.Args) < 2 {
		fmt.Println(usage)
		os.Exit(1)
	}

	switch os.Args[1] {
	case "create-admin":
		if len(os.Args) < 5 || len(os.Args) > 8 {
			fmt.Println("Usage: admin create-admin <username> <email> <password> [province] [district] [office]")
			os.Exit(1)
		}
		a := adminAccount{Username: os.Args[2], Email: os.Args[3], Password: os.Args[4]}
		a.Province, a.District, a.Office = optionalLocation(os.Args[5:])
		if err := createAdmin(ctx, storageSvc, location.Nepal, a); err != nil {
			log.Fatalf("Error creating admin: %v", err)
		}
		fmt.Printf("Created %s (%s)\n", a.Username, describe(a.Province, a.District, a.Office))

	case "seed-admins":
		for _, a := range defaultAdmins {
			err := createAdmin(ctx, storageSvc, location.Nepal, a)
			switch {
			case errors.Is(err, errExists):
				fmt.Printf("%s already exists\n", a.Username)
			case err != nil:
				log.Fatalf("Error creating %s: %v", a.Username, err)
			default:
				fmt.Printf("Created %s (Admin for %s - %s)\n", a.Username, a.District, a.Office)
			}
		}

	case "promote":
		if len(os.Args) < 3 || len(os.Args) > 6 {
			fmt.Println("Usage: admin promote <username> [province] [district] [office]")
			os.Exit(1)
		}
		province, district, office := optionalLocation(os.Args[3:])
		if err := promote(ctx, storageSvc, location.Nepal, os.Args[2], province, district, office); err != nil {
			log.Fatalf("Error promoting user: %v", err)
		}
		fmt.Printf("User %s is now an admin (%s)\n", os.Args[2], describe(province, district, office))

	default:
		fmt.Println(usage)
		os.Exit(1)
	}
}

func createAdmin(ctx context.Context, users storage.UserStore, locs *location.Table, a adminAccount) error {
	if err := checkAssignment(locs, a.Province, a.District, a.Office); err != nil {
		return err
	}
	if _, err := users.GetUserByUsername(ctx, a.Username); err == nil {
		return errExists
	} else if !errors.Is(err, storage.ErrNotFound) {
		return err
	}

	hash, err := auth.HashPassword(a.Password)
	if err != nil {
		return err
	}
	u := &models.User{
		Username:     a.Username,
		Email:        a.Email,
		PasswordHash: hash,
		IsStaff:      true,
		IsActive:     true,
		Profile: &models.UserProfile{
			Role:             models.RoleAdmin,
			AssignedProvince: a.Province,
			AssignedDistrict: a.District,
			AssignedOffice:   a.Office,
			NotifyChannels:   []string{"email"},
		},
	}
	return users.CreateUser(ctx, u)
}

func promote(ctx context.Context, users storage.UserStore, locs *location.Table, username, province, district, office string) error {
	if err := checkAssignment(locs, province, district, office); err != nil {
		return err
	}
	u, err := users.GetUserByUsername(ctx, username)
	if err != nil {
		return err
	}
	if u.Profile == nil {
		u.Profile = &models.UserProfile{UserID: u.ID}
	}
	u.Profile.Role = models.RoleAdmin
	u.Profile.AssignedProvince = province
	u.Profile.AssignedDistrict = district
	u.Profile.AssignedOffice = office
	return users.SaveProfile(ctx, u.Profile)
}

// checkAssignment accepts a partial jurisdiction as long as every given level
// exists in the table. An empty assignment is an unscoped admin.
func checkAssignment(locs *location.Table, province, district, office string) error {
	if province == "" {
		if district != "" || office != "" {
			return fmt.Errorf("district and office need a province")
		}
		return nil
	}
	if locs.Districts(province) == nil {
		return fmt.Errorf("unknown province %q", province)
	}
	if district == "" {
		if office != "" {
			return fmt.Errorf("office needs a district")
		}
		return nil
	}
	if locs.Offices(province, district) == nil {
		return fmt.Errorf("unknown district %q in %s", district, province)
	}
	if office != "" && !locs.Validate(province, district, office) {
		return fmt.Errorf("unknown office %q in %s/%s", office, province, district)
	}
	return nil
}

func optionalLocation(args []string) (province, district, office string) {
	parts := make([]string, 3)
	copy(parts, args)
	return parts[0], parts[1], parts[2]
}

func describe(province, district, office string) string {
	if province == "" {
		return "all locations"
	}
	s := province
	if district != "" {
		s += "/" + district
	}
	if office != "" {
		s += "/" + office
	}
	return s
}
