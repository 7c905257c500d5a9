package main

import (
	"context"
	"log"
	"time"

	"interventions/internal/database"
	"interventions/internal/domain"
	"interventions/internal/repository"

	"golang.org/x/crypto/bcrypt"
)

// Seeds demo users and a handful of interventions for local development.
func main() {
	db, err := database.Connect("interventions.db")
	if err != nil {
		log.Fatal("DB connection failed:", err)
	}

	log.Println("Running migrations...")
	if err := repository.Migrate(db); err != nil {
		log.Fatal("Migrate failed:", err)
	}

	log.Println("Cleaning old data...")
	db.Exec("DELETE FROM interventions")
	db.Exec("DELETE FROM users")

	ctx := context.Background()
	userRepo := repository.NewUserRepository(db)
	interventionRepo := repository.NewInterventionRepository(db)

	log.Println("Creating users...")
	users := []struct {
		username string
		email    string
		password string
		role     domain.UserRole
	}{
		{"admin", "admin@ics.sn", "admin123", domain.RoleAdmin},
		{"manager", "manager@ics.sn", "manager123", domain.RoleManager},
		{"tech1", "tech1@ics.sn", "tech123", domain.RoleTechnician},
	}
	for _, u := range users {
		hash, err := bcrypt.GenerateFromPassword([]byte(u.password), bcrypt.DefaultCost)
		if err != nil {
			log.Fatal(err)
		}
		user := domain.User{
			Username:     u.username,
			Email:        u.email,
			PasswordHash: string(hash),
			Role:         u.role,
		}
		if err := userRepo.Create(ctx, &user); err != nil {
			log.Fatal("user seed failed:", err)
		}
		log.Printf("User created: %s / %s", u.username, u.password)
	}

	log.Println("Creating interventions...")
	tech1 := 3
	estimated := 90
	samples := []domain.Intervention{
		{
			MachineID:   1,
			Type:        domain.TypePreventive,
			Title:       "Monthly compressor inspection",
			Description: "Check oil level, belts and filters",
			ScheduledAt: time.Now().Add(48 * time.Hour),
			Priority:    2,
			Status:      domain.StatusPlanned,
		},
		{
			MachineID:         2,
			Type:              domain.TypeCorrective,
			Title:             "Replace worn conveyor bearing",
			TechnicianID:      &tech1,
			ScheduledAt:       time.Now().Add(24 * time.Hour),
			EstimatedDuration: &estimated,
			Priority:          4,
			Status:            domain.StatusPlanned,
		},
		{
			MachineID:   1,
			Type:        domain.TypePredictive,
			Title:       "Vibration analysis on pump P-12",
			ScheduledAt: time.Now().Add(-72 * time.Hour),
			Priority:    3,
			Status:      domain.StatusCompleted,
		},
	}
	for i := range samples {
		samples[i].CreatedAt = time.Now().UTC()
		samples[i].PartsUsed = []domain.PartUsage{}
		if err := interventionRepo.Create(ctx, &samples[i]); err != nil {
			log.Fatal("intervention seed failed:", err)
		}
	}

	log.Printf("Seed complete: %d users, %d interventions", len(users), len(samples))
}
