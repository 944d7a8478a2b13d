package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"rentals/internal/auth"
	"rentals/internal/config"
	"rentals/internal/db"
	apperrors "rentals/internal/errors"
	"rentals/internal/logging"
	"rentals/internal/model"
	"rentals/internal/repository"
	"rentals/internal/service"
)

// SeedFile is the document read by the seed command.
type SeedFile struct {
	Users []SeedUser `json:"users"`
}

// SeedUser is a demo account and the places it owns.
type SeedUser struct {
	Email    string      `json:"email"`
	Name     string      `json:"name"`
	Password string      `json:"password"`
	Places   []SeedPlace `json:"places"`
}

// SeedPlace is a demo listing. Image URLs are stored as given and nothing is uploaded.
type SeedPlace struct {
	Title         string   `json:"title"`
	StreetAddress string   `json:"streetAddress"`
	PostCode      string   `json:"postCode"`
	City          string   `json:"city"`
	Rent          string   `json:"rent"`
	Description   string   `json:"description"`
	Latitude      string   `json:"latitude"`
	Longitude     string   `json:"longitude"`
	ImageURLs     []string `json:"imageUrls"`
}

func main() {
	source := flag.String("source", "seed.json", "seed file path or http(s) URL")
	flag.Parse()

	_ = godotenv.Load()
	cfg := config.Load()
	log := logging.New(cfg.LogLevel)

	gormDB, err := db.NewMySQL(cfg.MySQLDSN, db.PoolOptions{
		MaxOpenConns: cfg.DBMaxOpenConns,
		MaxIdleConns: cfg.DBMaxIdleConns,
	}, log.WithField("component", "gorm"))
	if err != nil {
		log.WithError(err).Fatal("failed to connect to database")
	}
	if err := db.Migrate(gormDB); err != nil {
		log.WithError(err).Fatal("failed to run migrations")
	}

	data, err := loadSeed(*source)
	if err != nil {
		log.WithError(err).Fatal("failed to load seed data")
	}
	log.WithField("source", *source).Infof("loaded %d users", len(data.Users))

	userRepo := repository.NewUserRepository(gormDB)
	placeRepo := repository.NewPlaceRepository(gormDB)
	authService := service.NewAuthService(userRepo, auth.NewJWTService(cfg.JWTSecret), nil, log)

	res, err := seed(context.Background(), authService, userRepo, placeRepo, data, log)
	if err != nil {
		log.WithError(err).Fatal("seed failed")
	}
	log.WithFields(logrus.Fields{
		"users_created": res.Created,
		"users_resumed": res.Resumed,
		"users_skipped": res.Skipped,
	}).Info("seed completed")
}

// loadSeed reads the seed document from a local file or an http(s) URL.
func loadSeed(source string) (*SeedFile, error) {
	var body []byte
	var err error
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		body, err = fetch(source)
	} else {
		body, err = os.ReadFile(source)
	}
	if err != nil {
		return nil, err
	}

	var data SeedFile
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}
	return &data, nil
}

func fetch(url string) ([]byte, error) {
	client := &http.Client{Timeout: 30 * time.Second}
	resp, err := client.Get(url)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch seed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("seed source returned status code: %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

// seedResult counts what a seed run did per user.
type seedResult struct {
	Created int
	Resumed int
	Skipped int
}

// seed registers every user that does not exist yet together with their places.
// An existing user is skipped unless it owns no places yet, in which case its places
// are seeded; a run interrupted between the two steps is completed by a rerun.
func seed(ctx context.Context, authService service.AuthService, users repository.UserRepository, placeRepo repository.PlaceRepository, data *SeedFile, log logrus.FieldLogger) (seedResult, error) {
	var res seedResult
	for _, u := range data.Users {
		owner, resumed, err := ensureUser(ctx, authService, users, placeRepo, u)
		if err != nil {
			return res, err
		}
		if owner == nil {
			log.WithField("email", u.Email).Info("user exists, skipping")
			res.Skipped++
			continue
		}

		for _, p := range u.Places {
			if err := placeRepo.CreateForOwner(ctx, newPlace(p, owner)); err != nil {
				return res, fmt.Errorf("create place %q for %s: %w", p.Title, u.Email, err)
			}
		}
		if resumed {
			log.WithField("email", u.Email).Info("seeded places of existing user")
			res.Resumed++
		} else {
			res.Created++
		}
	}
	return res, nil
}

// ensureUser registers u. For an already registered email it returns the stored
// user when its places still need seeding, and nil when there is nothing to do.
func ensureUser(ctx context.Context, authService service.AuthService, users repository.UserRepository, placeRepo repository.PlaceRepository, u SeedUser) (*model.User, bool, error) {
	session, err := authService.Register(ctx, u.Email, u.Name, u.Password)
	if err == nil {
		return session.User, false, nil
	}
	if !errors.Is(err, apperrors.ErrDuplicateEmail) {
		return nil, false, fmt.Errorf("register %s: %w", u.Email, err)
	}
	if len(u.Places) == 0 {
		return nil, false, nil
	}

	existing, err := users.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(u.Email)))
	if err != nil {
		return nil, false, fmt.Errorf("find %s: %w", u.Email, err)
	}
	count, err := placeRepo.CountByOwner(ctx, existing.ID)
	if err != nil {
		return nil, false, fmt.Errorf("count places of %s: %w", u.Email, err)
	}
	if count > 0 {
		return nil, false, nil
	}
	return existing, true, nil
}

func newPlace(p SeedPlace, owner *model.User) *model.Place {
	place := &model.Place{
		Title:         p.Title,
		StreetAddress: p.StreetAddress,
		PostCode:      p.PostCode,
		City:          p.City,
		Rent:          p.Rent,
		Description:   p.Description,
		Date:          time.Now().UTC(),
		Location:      model.Location{Latitude: p.Latitude, Longitude: p.Longitude},
		UserID:        owner.ID,
		Images:        make([]model.PlaceImage, 0, len(p.ImageURLs)),
	}
	for i, u := range p.ImageURLs {
		place.Images = append(place.Images, model.PlaceImage{
			Position: i,
			ImageURL: u,
		})
	}
	return place
}
