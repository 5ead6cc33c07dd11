package main

import (
	"context"
	"fmt"
	"time"

	"github.com/presensia/presensia-backend/internal/config"
	"github.com/presensia/presensia-backend/internal/database"
	"github.com/presensia/presensia-backend/internal/logger"
	"github.com/presensia/presensia-backend/internal/model"
	"github.com/presensia/presensia-backend/internal/repository"
)

func main() {
	cfg := config.Load()
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	personRepo := repository.NewPersonRepository(pool)
	scheduleRepo := repository.NewScheduleRepository(pool)

	fmt.Println("=== Seeding Demo Roster and Schedules ===")

	people := []model.Person{
		{Name: "Budi Santoso", Role: model.RoleStudent},
		{Name: "Siti Aminah", Role: model.RoleStudent},
		{Name: "Andi Pratama", Role: model.RoleStudent},
		{Name: "Rina Wati", Role: model.RoleStudent},
		{Name: "Joko Susilo", Role: model.RoleStudent},
		{Name: "Ayu Lestari", Role: model.RoleStudent},
		{Name: "Dodi Kusuma", Role: model.RoleStudent},
		{Name: "Eka Putri", Role: model.RoleStudent},
		{Name: "Hendra Gunawan", Role: model.RoleTeacher},
		{Name: "Maya Septiana", Role: model.RoleTeacher},
	}

	peopleCount := 0
	for i := range people {
		if err := personRepo.Upsert(ctx, &people[i]); err != nil {
			fmt.Printf("Error creating person %s: %v\n", people[i].Name, err)
			continue
		}
		peopleCount++
	}
	fmt.Printf("Seeded %d/%d people\n", peopleCount, len(people))

	// One schedule running right now, one later today, one already over.
	now := time.Now().UTC()
	schedules := []model.Schedule{
		{
			Subject:     "Computer Networks",
			TeacherName: "Hendra Gunawan",
			StartTime:   now.Add(-30 * time.Minute),
			EndTime:     now.Add(90 * time.Minute),
			Status:      model.ScheduleStatusActive,
			Mode:        "Offline",
		},
		{
			Subject:     "Mathematics",
			TeacherName: "Maya Septiana",
			StartTime:   now.Add(2 * time.Hour),
			EndTime:     now.Add(4 * time.Hour),
			Status:      model.ScheduleStatusActive,
			Mode:        "Offline",
		},
		{
			Subject:     "English",
			TeacherName: "Maya Septiana",
			StartTime:   now.Add(-5 * time.Hour),
			EndTime:     now.Add(-3 * time.Hour),
			Status:      model.ScheduleStatusActive,
			Mode:        "Online",
		},
	}

	scheduleCount := 0
	for i := range schedules {
		if err := scheduleRepo.Create(ctx, &schedules[i]); err != nil {
			fmt.Printf("Error creating schedule %s: %v\n", schedules[i].Subject, err)
			continue
		}
		scheduleCount++
		fmt.Printf("Created schedule %q (%s)\n", schedules[i].Subject, schedules[i].ID)
	}

	fmt.Printf("\nSeed completed! %d people, %d schedules.\n", peopleCount, scheduleCount)
}
