package main

import (
	"log"
	"math/rand/v2"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"shelfsensei/config"
	"shelfsensei/db"
	"shelfsensei/logger"
	"shelfsensei/models"
)

func main() {
	_ = godotenv.Load()
	cfg := config.LoadEnv()

	appLogger, err := logger.New(cfg.Logger, cfg.IsDevelopment())
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer appLogger.Sync()

	database, err := db.Open(cfg.Database, false, appLogger)
	if err != nil {
		appLogger.Fatal("could not open database", zap.Error(err))
	}

	// Start from empty tables
	all := models.All()
	for i := len(all) - 1; i >= 0; i-- {
		if err := database.Migrator().DropTable(all[i]); err != nil {
			appLogger.Fatal("drop table", zap.Error(err))
		}
	}
	if err := db.Migrate(database); err != nil {
		appLogger.Fatal("migrate", zap.Error(err))
	}

	user := models.User{Name: "Test User"}
	category := models.Category{Name: "Electronics"}
	vendor := models.Vendor{Name: "Main Supplier"}
	for _, v := range []interface{}{&user, &category, &vendor} {
		if err := database.Create(v).Error; err != nil {
			appLogger.Fatal("seed", zap.Error(err))
		}
	}

	shops := make([]models.Shop, len(shopNames))
	populateShops(&shops, user.ID)
	if err := database.Create(&shops).Error; err != nil {
		appLogger.Fatal("seed shops", zap.Error(err))
	}

	products := make([]models.Product, len(productCatalog))
	populateProducts(&products, category.ID)
	if err := database.Create(&products).Error; err != nil {
		appLogger.Fatal("seed products", zap.Error(err))
	}

	rng := rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0))
	movements := generateMovements(rng, time.Now(), shops, products, vendor)
	if err := database.CreateInBatches(&movements, 200).Error; err != nil {
		appLogger.Fatal("seed movements", zap.Error(err))
	}

	appLogger.Info("database has been seeded",
		zap.Int("shops", len(shops)),
		zap.Int("products", len(products)),
		zap.Int("movements", len(movements)),
	)
}
