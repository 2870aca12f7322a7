package migrate

import (
	"context"
	"fmt"

	"github.com/casamichael/shopping-backend/pkg/config"
	"github.com/casamichael/shopping-backend/pkg/db"
	"github.com/casamichael/shopping-backend/pkg/db/models"
	"github.com/casamichael/shopping-backend/pkg/logger"
)

// AllModels lists every table the schema carries, in dependency order.
func AllModels() []any {
	return []any{
		&models.Country{},
		&models.State{},
		&models.City{},
		&models.Category{},
		&models.Product{},
		&models.ProductImage{},
		&models.ProductCategory{},
		&models.User{},
		&models.UserToken{},
		&models.CartLine{},
		&models.Order{},
		&models.OrderLine{},
	}
}

// Auto applies the schema through GORM's AutoMigrate. Dev and test only;
// deployed environments run the goose migrations in cmd/migrate.
func Auto(ctx context.Context, client *db.Client) error {
	if client == nil {
		return fmt.Errorf("db client is required")
	}
	return client.DB().WithContext(ctx).AutoMigrate(AllModels()...)
}

// MaybeRunDev applies the schema on boot when the auto-migrate flag is set.
func MaybeRunDev(ctx context.Context, cfg *config.Config, logg *logger.Logger, client *db.Client) error {
	if cfg == nil || !cfg.FeatureFlags.AutoMigrate {
		return nil
	}
	if logg != nil {
		logg.Info(ctx, "running auto-migrate")
	}
	return Auto(ctx, client)
}
