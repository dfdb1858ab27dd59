package seed

import (
	"fmt"

	"elever/internal/models"
	"elever/internal/repositories"
)

// sampleCatalog is the development storefront: a handful of products per
// category, enough to exercise filtering, featured listings and the
// low-stock report.
var sampleCatalog = []models.Product{
	{
		Name:        "Golden Hoop Elegance",
		Description: "Classic gold-plated hoop earrings with a modern twist. Perfect for everyday elegance.",
		Price:       45.99,
		Category:    models.CategoryEarrings,
		Images:      []string{"/images/products/golden-hoop.jpg"},
		Stock:       50,
		Featured:    true,
		Ratings:     models.Ratings{Average: 4.8, Count: 124},
	},
	{
		Name:        "Pearl Drop Sophistication",
		Description: "Delicate freshwater pearl earrings with sterling silver hooks. Timeless sophistication.",
		Price:       68.99,
		Category:    models.CategoryEarrings,
		Images:      []string{"/images/products/pearl-drop.jpg"},
		Stock:       35,
		Featured:    true,
		Ratings:     models.Ratings{Average: 4.9, Count: 89},
	},
	{
		Name:        "Crystal Chandelier Drops",
		Description: "Stunning crystal chandelier earrings for special occasions. Catch the light beautifully.",
		Price:       89.99,
		Category:    models.CategoryEarrings,
		Images:      []string{"/images/products/crystal-chandelier.jpg"},
		Stock:       25,
		Featured:    true,
		Ratings:     models.Ratings{Average: 4.7, Count: 67},
	},
	{
		Name:        "Minimalist Diamond Studs",
		Description: "Simple yet stunning cubic zirconia studs. Essential for any jewelry collection.",
		Price:       35.99,
		Category:    models.CategoryEarrings,
		Images:      []string{"/images/products/diamond-studs.jpg"},
		Stock:       100,
		Featured:    true,
		Ratings:     models.Ratings{Average: 4.9, Count: 215},
	},
	{
		Name:        "Vintage Rose Gold Clips",
		Description: "Non-pierced rose gold ear clips with intricate floral design. Vintage charm meets modern style.",
		Price:       42.99,
		Category:    models.CategoryClips,
		Images:      []string{"/images/products/rose-gold-clips.jpg"},
		Stock:       40,
		Featured:    true,
		Ratings:     models.Ratings{Average: 4.6, Count: 78},
	},
	{
		Name:        "Statement Pearl Cuffs",
		Description: "Bold pearl ear cuffs that require no piercing. Make a statement without commitment.",
		Price:       38.99,
		Category:    models.CategoryClips,
		Images:      []string{"/images/products/pearl-cuffs.jpg"},
		Stock:       45,
		Ratings:     models.Ratings{Average: 4.5, Count: 56},
	},
	{
		Name:        "Layered Gold Chain Necklace",
		Description: "Three-layer gold chain necklace with delicate pendants. Perfect for layering.",
		Price:       75.99,
		Category:    models.CategoryNecklaces,
		Images:      []string{"/images/products/layered-necklace.jpg"},
		Stock:       30,
		Featured:    true,
		Ratings:     models.Ratings{Average: 4.8, Count: 143},
	},
	{
		Name:        "Dainty Heart Pendant",
		Description: "Sweet heart pendant on a fine chain. A meaningful gift for someone special.",
		Price:       49.99,
		Category:    models.CategoryNecklaces,
		Images:      []string{"/images/products/heart-pendant.jpg"},
		Stock:       55,
		Ratings:     models.Ratings{Average: 4.7, Count: 98},
	},
	{
		Name:        "Tennis Bracelet Classic",
		Description: "Sparkling cubic zirconia tennis bracelet. Timeless elegance for any occasion.",
		Price:       95.99,
		Category:    models.CategoryBracelets,
		Images:      []string{"/images/products/tennis-bracelet.jpg"},
		Stock:       20,
		Featured:    true,
		Ratings:     models.Ratings{Average: 4.9, Count: 167},
	},
	{
		Name:        "Boho Charm Bracelet",
		Description: "Colorful charm bracelet with mixed metals and stones. Express your unique style.",
		Price:       55.99,
		Category:    models.CategoryBracelets,
		Images:      []string{"/images/products/boho-bracelet.jpg"},
		Stock:       35,
		Ratings:     models.Ratings{Average: 4.4, Count: 82},
	},
	{
		Name:        "Silk Hair Scrunchie Set",
		Description: "Set of 5 pure silk scrunchies in elegant neutral tones. Gentle on hair.",
		Price:       28.99,
		Category:    models.CategoryAccessories,
		Images:      []string{"/images/products/silk-scrunchies.jpg"},
		Stock:       80,
		Ratings:     models.Ratings{Average: 4.6, Count: 234},
	},
	{
		Name:        "Crystal Hair Pins",
		Description: "Set of 3 crystal-embellished hair pins. Add sparkle to any hairstyle.",
		Price:       24.99,
		Category:    models.CategoryAccessories,
		Images:      []string{"/images/products/crystal-pins.jpg"},
		Stock:       65,
		Ratings:     models.Ratings{Average: 4.5, Count: 112},
	},
}

// Products populates an empty product store with the sample catalog and
// returns the number of products inserted. A store that already holds
// products is left untouched, so seeding at startup is idempotent.
func Products(repo repositories.ProductRepository) (int, error) {
	existing, err := repo.Count(repositories.ProductQuery{})
	if err != nil {
		return 0, fmt.Errorf("failed to inspect catalog before seeding: %w", err)
	}
	if existing > 0 {
		return 0, nil
	}

	for i := range sampleCatalog {
		product := sampleCatalog[i]
		if err := repo.Create(&product); err != nil {
			return 0, fmt.Errorf("failed to seed product %q: %w", product.Name, err)
		}
	}
	return len(sampleCatalog), nil
}
