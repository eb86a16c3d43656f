package main

import (
	"context"
	"errors"
	"time"

	"eventhall/internal/config"
	"eventhall/internal/database"
	"eventhall/internal/domain"
	"eventhall/internal/logger"
	"eventhall/internal/repository"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("invalid configuration")
	}
	log := logger.New(logger.Options{Level: cfg.LogLevel})

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	db, err := database.Connect(cfg.DatabaseURL, log)
	if err != nil {
		log.WithError(err).Fatal("DB connection failed")
	}
	if err := repository.Migrate(ctx, db); err != nil {
		log.WithError(err).Fatal("migration failed")
	}

	s := seeder{db: db, log: log}

	// ================== USERS ==================
	log.Info("Creating users...")
	s.user(ctx, "admin@eventhall.kz", "admin123", "Administrator", domain.RoleAdmin)
	owner := s.user(ctx, "owner@eventhall.kz", "owner123", "Nurlan Owner", domain.RoleOwner)
	s.user(ctx, "aruzhan@mail.kz", "client123", "Aruzhan", domain.RoleCustomer)
	s.user(ctx, "bekzat@gmail.com", "client123", "Bekzat", domain.RoleCustomer)

	// ================== HALLS ==================
	log.Info("Creating halls...")
	halls := []domain.Hall{
		{
			Name: "Grand Ballroom", Location: "Almaty, Abay ave 10", Capacity: 300,
			Description: "Main hall with stage and dance floor",
			Prices:      domain.DefaultPrices{Morning: 150000, Evening: 250000, FullDay: 350000},
		},
		{
			Name: "Garden Terrace", Location: "Almaty, Dostyk ave 42", Capacity: 120,
			Description: "Open terrace for summer receptions",
			Prices:      domain.DefaultPrices{Morning: 80000, Evening: 140000, FullDay: 190000},
		},
		{
			Name: "Loft Studio", Location: "Astana, Kabanbay batyr 5", Capacity: 60,
			Prices: domain.DefaultPrices{Morning: 40000, Evening: 70000, FullDay: 95000},
		},
	}
	hallRepo := repository.NewHallRepository(db)
	existing, err := hallRepo.ListByOwner(ctx, owner.ID)
	if err != nil {
		log.WithError(err).Fatal("list halls failed")
	}
	if len(existing) > 0 {
		log.Info("Halls already seeded, skipping")
	} else {
		for i := range halls {
			halls[i].OwnerID = owner.ID
			halls[i].IsActive = true
			if err := hallRepo.Create(ctx, &halls[i]); err != nil {
				log.WithError(err).Fatal("create hall failed")
			}
			log.WithField("hall_id", halls[i].ID).Infof("Hall created: %s", halls[i].Name)
		}
	}

	// ================== PERFORMERS ==================
	log.Info("Creating performers...")
	performerRepo := repository.NewPerformerRepository(db)
	list, err := performerRepo.List(ctx, "")
	if err != nil {
		log.WithError(err).Fatal("list performers failed")
	}
	if len(list) > 0 {
		log.Info("Performers already seeded, skipping")
	} else {
		performers := []domain.Performer{
			{Name: "DJ Nova", Genre: "dj", ContactEmail: "nova@eventhall.kz", Price: 90000, Rating: 4.8},
			{Name: "Saz Trio", Genre: "folk", ContactEmail: "saztrio@eventhall.kz", Price: 120000, Rating: 4.6},
			{Name: "Aidos Host", Genre: "host", ContactEmail: "aidos@eventhall.kz", ContactPhone: "+7 701 555 0101", Price: 70000, Rating: 4.9},
			{Name: "Jazz Corner", Genre: "jazz", ContactEmail: "jazz@eventhall.kz", Price: 150000, Rating: 4.7},
		}
		for i := range performers {
			if err := performerRepo.Create(ctx, &performers[i]); err != nil {
				log.WithError(err).Fatal("create performer failed")
			}
		}
		log.Infof("%d performers created", len(performers))
	}

	log.Info("Seed complete")
}

type seeder struct {
	db  *gorm.DB
	log logrus.FieldLogger
}

// user creates an account unless the email is already registered and
// returns the stored user either way.
func (s seeder) user(ctx context.Context, email, password, name string, role domain.UserRole) *domain.User {
	users := repository.NewUserRepository(s.db)

	existing, err := users.GetByEmail(ctx, email)
	if err == nil {
		return existing
	}
	if !errors.Is(err, repository.ErrNotFound) {
		s.log.WithError(err).Fatal("lookup user failed")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		s.log.WithError(err).Fatal("hash password failed")
	}
	u := &domain.User{Email: email, PasswordHash: string(hash), Name: name, Role: role}
	if err := users.Create(ctx, u); err != nil {
		s.log.WithError(err).Fatal("create user failed")
	}
	s.log.Infof("%s created: %s / %s", role, email, password)
	return u
}
