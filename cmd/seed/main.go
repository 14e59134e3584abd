package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"

	"github.com/oksasatya/go-ddd-diary/config"
	"github.com/oksasatya/go-ddd-diary/internal/application"
	"github.com/oksasatya/go-ddd-diary/internal/container"
	"github.com/oksasatya/go-ddd-diary/internal/domain/apperror"
	"github.com/oksasatya/go-ddd-diary/internal/domain/entity"
	pginfra "github.com/oksasatya/go-ddd-diary/internal/infrastructure/postgres"
	"github.com/oksasatya/go-ddd-diary/internal/router"
	"github.com/oksasatya/go-ddd-diary/pkg/helpers"
)

const (
	demoEmail    = "demo@mydiary.local"
	demoPassword = "password123"
	demoName     = "Demo User"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-seed", cfg.Env)
	ctx := context.Background()

	pool, err := pginfra.NewPool(ctx, cfg.PostgresDSN(), cfg.DBMaxConns, cfg.DBMinConns, cfg.DBMaxConnLife)
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}
	defer pool.Close()
	container.SetPGPool(pool)
	st := router.BuildStores()

	secret, err := config.ResolveSigningSecret(cfg, logger)
	if err != nil {
		log.Fatalf("signing secret: %v", err)
	}
	auth := application.NewAuthService(st.Users, helpers.NewTokenService(secret, cfg.JWTTTL, cfg.JWTIssuer), logger)

	res, err := auth.Signup(ctx, application.SignupInput{Name: demoName, Email: demoEmail, Password: demoPassword})
	if apperror.KindOf(err) == apperror.KindInvalidCredentials {
		fmt.Println("demo user already exists; nothing to do")
		return
	}
	if err != nil {
		log.Fatalf("failed to seed user: %v", err)
	}
	uid := res.User.ID
	fmt.Printf("seeded user: id=%s email=%s password=%s\n", uid, demoEmail, demoPassword)

	now := time.Now().UTC()
	diary := application.NewEntryService[*entity.DiaryEntry]("diary", st.Diary, logger)
	personal := application.NewEntryService[*entity.PersonalEntry]("personal", st.Personal, logger)
	professional := application.NewEntryService[*entity.ProfessionalEntry]("professional", st.Professional, logger)
	schedule := application.NewEntryService[*entity.ScheduleItem]("schedule", st.Schedule, logger)

	errs := []error{}
	_, err = diary.Create(ctx, uid, &entity.DiaryEntry{Title: "First entry", Content: "Started keeping a diary today."})
	errs = append(errs, err)
	_, err = personal.Create(ctx, uid, &entity.PersonalEntry{Title: "Weekend hike", Content: "Long walk by the lake.", Mood: "Happy"})
	errs = append(errs, err)
	_, err = professional.Create(ctx, uid, &entity.ProfessionalEntry{Title: "Sprint review", Description: "Demoed the reminder job.", Category: "Work"})
	errs = append(errs, err)
	_, err = schedule.Create(ctx, uid, &entity.ScheduleItem{Title: "Standup", Date: entity.FlexTime{Time: now.AddDate(0, 0, 1)}, Time: "09:30", Priority: "High"})
	errs = append(errs, err)
	if err := errors.Join(errs...); err != nil {
		log.Fatalf("failed to seed entries: %v", err)
	}
	fmt.Println("seeded diary, personal, professional and schedule entries")
}
