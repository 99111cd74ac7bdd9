// Command importproducts seeds a user's catalog from Open Beauty Facts.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/iismail06/Skincare-tracker-SKYN/database"
	"github.com/iismail06/Skincare-tracker-SKYN/logger"
	"github.com/iismail06/Skincare-tracker-SKYN/models"
	"github.com/iismail06/Skincare-tracker-SKYN/obf"
	"github.com/iismail06/Skincare-tracker-SKYN/services"
)

func main() {
	email := flag.String("email", "", "email of the user receiving the products")
	category := flag.String("category", "moisturizer", "product category to search for")
	limit := flag.Int("limit", 10, "maximum number of products to fetch")
	overwrite := flag.Bool("overwrite", false, "update products that already exist")
	flag.Parse()

	logger.Init()

	if *email == "" {
		fmt.Fprintln(os.Stderr, "usage: importproducts -email <user email> [-category moisturizer] [-limit 10] [-overwrite]")
		os.Exit(2)
	}

	if err := godotenv.Load(); err != nil {
		logger.Warn("No .env file found, using system env vars")
	}

	database.InitDB()

	var user models.User
	if err := database.DB.Where("email = ?", *email).First(&user).Error; err != nil {
		logger.Error("User not found", "email", *email)
		os.Exit(1)
	}

	logger.Info("Searching Open Beauty Facts", "category", *category, "limit", *limit)
	fetched, err := obf.NewClient().Search(*category, *limit)
	if err != nil {
		logger.Error("Fetch failed", "error", err)
		os.Exit(1)
	}
	if len(fetched) == 0 {
		logger.Warn("No products fetched", "category", *category)
		os.Exit(1)
	}
	logger.Info("Fetched products", "count", len(fetched))

	products := services.NewProductService(database.DB)
	var result services.ImportResult
	for _, f := range fetched {
		incoming := models.Product{
			Name:        f.Name,
			Brand:       f.Brand,
			ProductType: f.ProductType,
			Ingredients: f.Ingredients,
			Description: f.Description,
			ExternalID:  f.ExternalID,
		}
		if err := products.ImportProduct(user.ID, incoming, *overwrite, &result); err != nil {
			logger.Error("Failed to save product", "name", f.Name, "error", err)
			result.Skipped++
		}
	}

	logger.Info("Import completed",
		"created", result.Created,
		"updated", result.Updated,
		"skipped", result.Skipped,
	)
}
