package seed

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/casamichael/shopping-backend/pkg/config"
	"github.com/casamichael/shopping-backend/pkg/db/models"
	"github.com/casamichael/shopping-backend/pkg/enums"
	"github.com/casamichael/shopping-backend/pkg/logger"
	"github.com/casamichael/shopping-backend/pkg/security"
)

// Seeder populates reference data and bootstrap accounts on empty
// databases. Every step is a no-op when its data already exists, so
// running it repeatedly is safe.
type Seeder struct {
	db      *gorm.DB
	passCfg config.PasswordConfig
	logg    *logger.Logger
}

func New(db *gorm.DB, passCfg config.PasswordConfig, logg *logger.Logger) (*Seeder, error) {
	if db == nil {
		return nil, fmt.Errorf("db handle required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &Seeder{db: db, passCfg: passCfg, logg: logg}, nil
}

func (s *Seeder) Run(ctx context.Context) error {
	if err := s.seedGeography(ctx); err != nil {
		return fmt.Errorf("seeding geography: %w", err)
	}
	if err := s.seedCategories(ctx); err != nil {
		return fmt.Errorf("seeding categories: %w", err)
	}
	if err := s.seedUsers(ctx); err != nil {
		return fmt.Errorf("seeding users: %w", err)
	}
	if err := s.seedProducts(ctx); err != nil {
		return fmt.Errorf("seeding products: %w", err)
	}
	s.logg.Info(ctx, "seed complete")
	return nil
}

func (s *Seeder) seedGeography(ctx context.Context) error {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Country{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	data := map[string]map[string][]string{
		"Colombia": {
			"Antioquia": {"Medellín", "Envigado", "Itagüí", "Bello", "Rionegro"},
			"Bogotá":    {"Usaquén", "Chapinero", "Santa Fe", "Usme", "Bosa"},
		},
		"United States": {
			"Florida":    {"Orlando", "Miami", "Tampa", "Fort Lauderdale", "Key West"},
			"Texas":      {"Houston", "San Antonio", "Dallas", "Austin", "El Paso"},
			"California": {"Los Angeles", "San Francisco", "San Diego", "San Jose", "Sacramento"},
		},
	}

	for countryName, states := range data {
		country := models.Country{ID: uuid.New(), Name: countryName}
		for stateName, cities := range states {
			state := models.State{ID: uuid.New(), CountryID: country.ID, Name: stateName}
			for _, cityName := range cities {
				state.Cities = append(state.Cities, models.City{
					ID:      uuid.New(),
					StateID: state.ID,
					Name:    cityName,
				})
			}
			country.States = append(country.States, state)
		}
		if err := s.db.WithContext(ctx).Create(&country).Error; err != nil {
			return err
		}
	}
	s.logg.Info(ctx, "seeded geography")
	return nil
}

func (s *Seeder) seedCategories(ctx context.Context) error {
	names := []string{
		"Technology", "Shoes", "Books", "Fashion", "Sports",
		"Pets", "Nutrition", "Apple", "Beauty", "Gamer",
	}
	for _, name := range names {
		var count int64
		err := s.db.WithContext(ctx).
			Model(&models.Category{}).
			Where("name = ?", name).
			Count(&count).Error
		if err != nil {
			return err
		}
		if count > 0 {
			continue
		}
		category := models.Category{ID: uuid.New(), Name: name}
		if err := s.db.WithContext(ctx).Create(&category).Error; err != nil {
			return err
		}
	}
	return nil
}

func (s *Seeder) seedUsers(ctx context.Context) error {
	if err := s.ensureUser(ctx, "admin@shopping.local", "Admin123!", "Lindsey", "Morgan", enums.UserTypeAdmin); err != nil {
		return err
	}
	return s.ensureUser(ctx, "customer@shopping.local", "Customer123!", "Bob", "Morley", enums.UserTypeUser)
}

func (s *Seeder) ensureUser(ctx context.Context, email, password, firstName, lastName string, userType enums.UserType) error {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&models.User{}).
		Where("email = ?", email).
		Count(&count).Error
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := security.HashPassword(password, s.passCfg)
	if err != nil {
		return err
	}

	user := models.User{
		ID:             uuid.New(),
		Email:          email,
		PasswordHash:   hash,
		Document:       "1010",
		FirstName:      firstName,
		LastName:       lastName,
		Address:        "Calle Luna Calle Sol",
		PhoneNumber:    "3002217720",
		UserType:       userType,
		EmailConfirmed: true,
	}
	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		return err
	}
	s.logg.Info(s.logg.WithField(ctx, "email", email), "seeded user")
	return nil
}

func (s *Seeder) seedProducts(ctx context.Context) error {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Product{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	samples := []struct {
		name        string
		description string
		price       float64
		stock       float64
		categories  []string
	}{
		{"Adidas Barracuda", "Classic running shoes", 270000, 12, []string{"Shoes", "Sports"}},
		{"Adidas Superstar", "Iconic shell-toe sneakers", 250000, 12, []string{"Shoes", "Fashion"}},
		{"AirPods", "Wireless earbuds with charging case", 1300000, 12, []string{"Technology", "Apple"}},
		{"IPad", "10.9 inch tablet", 2300000, 6, []string{"Technology", "Apple"}},
		{"IPhone 13", "128 GB smartphone", 5200000, 6, []string{"Technology", "Apple"}},
		{"Buso Adidas", "Warm training hoodie", 100000, 12, []string{"Fashion", "Sports"}},
	}

	for _, sample := range samples {
		product := models.Product{
			ID:          uuid.New(),
			Name:        sample.name,
			Description: sample.description,
			Price:       sample.price,
			Stock:       sample.stock,
		}
		for _, categoryName := range sample.categories {
			var category models.Category
			err := s.db.WithContext(ctx).
				First(&category, "name = ?", categoryName).Error
			if err != nil {
				return err
			}
			product.ProductCategories = append(product.ProductCategories, models.ProductCategory{
				ID:         uuid.New(),
				ProductID:  product.ID,
				CategoryID: category.ID,
			})
		}
		if err := s.db.WithContext(ctx).Create(&product).Error; err != nil {
			return err
		}
	}
	s.logg.Info(ctx, "seeded products")
	return nil
}
