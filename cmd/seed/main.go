package main

import (
	"context"
	"flag"
	"fmt"
	"strings"
	"time"

	"clinic-booking/config"
	"clinic-booking/internal/domain/entity"
	"clinic-booking/internal/infrastructure/database"
	"clinic-booking/internal/repository"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Seeded patients log in with this password
const seedPassword = "Password1"

var specializations = []string{
	"Cardiologia",
	"Dermatologia",
	"Medicina Generale",
	"Ortopedia",
	"Neurologia",
	"Pediatria",
	"Oculistica",
	"Ginecologia",
}

func main() {
	doctors := flag.Int("doctors", 8, "number of doctors to create")
	patients := flag.Int("patients", 50, "number of patients to create")
	flag.Parse()

	logrus.SetFormatter(&logrus.JSONFormatter{})
	logrus.Info("seed starting")

	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("load config: %v", err)
	}

	db, err := database.NewPostgresConnection(cfg.DB, cfg.App)
	if err != nil {
		logrus.Fatalf("connect postgres: %v", err)
	}
	if err := database.RunMigrations(db); err != nil {
		logrus.Fatalf("migrate: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	if err := seedDoctors(ctx, db, *doctors); err != nil {
		logrus.Fatalf("seed doctors: %v", err)
	}
	if err := seedPatients(ctx, db, *patients); err != nil {
		logrus.Fatalf("seed patients: %v", err)
	}
	if err := seedServices(ctx, db); err != nil {
		logrus.Fatalf("seed services: %v", err)
	}

	logrus.Info("seed complete")
}

func seedDoctors(ctx context.Context, db *gorm.DB, count int) error {
	logrus.Infof("seeding %d doctors", count)

	userRepo := repository.NewUserRepository()
	doctorRepo := repository.NewDoctorProfileRepository()
	scheduleRepo := repository.NewDoctorScheduleRepository()

	labels := entity.DefaultSlotLabels()

	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := 0; i < count; i++ {
			firstName, lastName := gofakeit.FirstName(), gofakeit.LastName()
			user := &entity.User{
				Email:         seedEmail("dottore", firstName, lastName, i),
				FirstName:     firstName,
				LastName:      lastName,
				Role:          entity.RoleDoctor,
				EmailVerified: true,
				Locale:        entity.DefaultLocale,
			}
			if err := userRepo.Create(tx, user); err != nil {
				return err
			}

			languages := entity.StringList{"Italiano"}
			if gofakeit.Bool() {
				languages = append(languages, entity.SupportedLanguages[1+gofakeit.Number(0, len(entity.SupportedLanguages)-2)])
			}
			available := true
			if err := doctorRepo.Create(tx, &entity.DoctorProfile{
				UserID:            user.ID,
				Specialization:    specializations[i%len(specializations)],
				Description:       gofakeit.Sentence(12),
				YearsOfExperience: gofakeit.Number(2, 35),
				Languages:         languages,
				IsAvailable:       &available,
			}); err != nil {
				return err
			}

			slots := entity.NewWeeklySkeleton()
			for _, day := range entity.OpeningWeekdays {
				if day == "saturday" {
					slots[day] = labels[:6]
					continue
				}
				slots[day] = labels
			}
			if err := scheduleRepo.Upsert(tx, &entity.DoctorSchedule{DoctorID: user.ID, Slots: slots}); err != nil {
				return err
			}
		}
		return nil
	})
}

func seedPatients(ctx context.Context, db *gorm.DB, count int) error {
	logrus.Infof("seeding %d patients", count)

	hash, err := bcrypt.GenerateFromPassword([]byte(seedPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	userRepo := repository.NewUserRepository()
	profileRepo := repository.NewPatientProfileRepository()

	const batchSize = 100

	for offset := 0; offset < count; offset += batchSize {
		end := offset + batchSize
		if end > count {
			end = count
		}

		err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			for i := offset; i < end; i++ {
				firstName, lastName := gofakeit.FirstName(), gofakeit.LastName()
				user := &entity.User{
					Email:         seedEmail("paziente", firstName, lastName, i),
					Password:      string(hash),
					FirstName:     firstName,
					LastName:      lastName,
					Role:          entity.RolePatient,
					EmailVerified: true,
					Locale:        entity.DefaultLocale,
				}
				if err := userRepo.Create(tx, user); err != nil {
					return err
				}

				birthDate := gofakeit.DateRange(time.Date(1940, 1, 1, 0, 0, 0, 0, time.UTC), time.Date(2005, 12, 31, 0, 0, 0, 0, time.UTC))
				if err := profileRepo.Create(tx, &entity.PatientProfile{
					UserID:      user.ID,
					FiscalCode:  gofakeit.Regex(`[A-Z]{6}[0-9]{2}[A-Z][0-9]{2}[A-Z][0-9]{3}[A-Z]`),
					PhoneNumber: "+39 3" + gofakeit.Numerify("## ### ####"),
					BirthDate:   &birthDate,
					Address:     gofakeit.Street() + ", " + gofakeit.City(),
				}); err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			return err
		}

		logrus.Infof("patients seeded: %d/%d", end, count)
	}

	return nil
}

func seedServices(ctx context.Context, db *gorm.DB) error {
	serviceRepo := repository.NewMedicalServiceRepository(db)

	existing, total, err := serviceRepo.FindAll(ctx, 1, 0)
	if err != nil {
		return err
	}
	if total > 0 || len(existing) > 0 {
		logrus.Info("services already present, skipping")
		return nil
	}

	catalogue := []entity.MedicalService{
		{
			Title:       "Visita Cardiologica",
			Description: "Valutazione completa della salute del cuore.",
			Includes:    entity.StringList{"Elettrocardiogramma", "Misurazione pressione", "Consulto specialistico"},
			Duration:    "45 minuti",
			PriceFrom:   decimal.NewFromInt(120),
		},
		{
			Title:       "Visita Dermatologica",
			Description: "Controllo di nei e patologie della pelle.",
			Includes:    entity.StringList{"Dermatoscopia", "Consulto specialistico"},
			Duration:    "30 minuti",
			PriceFrom:   decimal.NewFromInt(100),
		},
		{
			Title:       "Visita Pediatrica",
			Description: "Controlli di crescita e sviluppo.",
			Includes:    entity.StringList{"Valutazione crescita", "Consulto specialistico"},
			Duration:    "30 minuti",
			PriceFrom:   decimal.RequireFromString("85.50"),
		},
	}
	for i := range catalogue {
		if err := serviceRepo.Create(ctx, &catalogue[i]); err != nil {
			return err
		}
	}

	logrus.Infof("services seeded: %d", len(catalogue))
	return nil
}

func seedEmail(prefix, firstName, lastName string, n int) string {
	local := strings.ToLower(fmt.Sprintf("%s.%s.%s%d", prefix, firstName, lastName, n))
	local = strings.NewReplacer(" ", "", "'", "").Replace(local)
	return local + "@centromedicoplus.test"
}
