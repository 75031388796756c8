package catalog

import (
	"context"
	"fmt"

	pkgdb "github.com/greenmarket/greenmarket-backend/pkg/db"
	"github.com/greenmarket/greenmarket-backend/pkg/db/models"
	"github.com/greenmarket/greenmarket-backend/pkg/logger"
	"gorm.io/gorm"
)

// sampleProducts is the fixed catalog installed on an empty store. Stock
// numbers match the launch inventory the storefront was demoed with.
var sampleProducts = []models.Product{
	{
		Name:        "Bamboo Water Bottle",
		PriceCents:  999,
		Category:    "Kitchen",
		Image:       "https://images.unsplash.com/photo-1602143407151-7111542de6e8?w=400",
		Description: "Eco-friendly bamboo water bottle with vacuum insulation.",
		Stock:       10,
	},
	{
		Name:        "Bamboo Cutlery Set",
		PriceCents:  2000,
		Category:    "Kitchen",
		Image:       "https://images.unsplash.com/photo-1584269600464-37b1b58a9fe7?w=400",
		Description: "Portable bamboo cutlery set with carrying case.",
		Stock:       15,
	},
	{
		Name:        "Organic Cotton Tote",
		PriceCents:  349,
		Category:    "Bags",
		Image:       "https://example.com/tote.jpg",
		Description: "100% organic cotton shopping tote.",
		Stock:       20,
	},
}

// SeedSampleProducts inserts the sample catalog when the products table is
// empty. Safe to run on every boot.
func SeedSampleProducts(ctx context.Context, db *gorm.DB, logg *logger.Logger) error {
	var count int64
	if err := db.WithContext(ctx).Model(&models.Product{}).Count(&count).Error; err != nil {
		return fmt.Errorf("counting products: %w", err)
	}
	if count > 0 {
		return nil
	}

	products := make([]models.Product, len(sampleProducts))
	copy(products, sampleProducts)
	if err := db.WithContext(ctx).Create(&products).Error; err != nil {
		// Another instance booting at the same time may have seeded already.
		if pkgdb.IsUniqueViolation(err, "") {
			return nil
		}
		return fmt.Errorf("seeding products: %w", err)
	}

	if logg != nil {
		logg.Info(logg.WithField(ctx, "count", len(products)), "sample products seeded")
	}
	return nil
}
