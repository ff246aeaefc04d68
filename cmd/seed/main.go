package main

import (
	"os"

	"github.com/boxorder-next/internal/authz"
	"github.com/boxorder-next/internal/config"
	"github.com/boxorder-next/internal/logger"
	"github.com/boxorder-next/internal/models"
	"github.com/boxorder-next/internal/service"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type seedVariant struct {
	Name  string
	SKU   string
	Price int64
	Attrs map[string]interface{}
}

type seedProduct struct {
	Slug     string
	Name     string
	SKU      string
	Price    int64
	Sort     int
	Variants []seedVariant
}

type seedAccount struct {
	Username string
	Display  string
	Role     string
}

func main() {
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()

	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, false, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
	}); err != nil {
		stdLog.Fatalf("Failed to connect database: %v", err)
	}
	db := models.DB
	if err := models.AutoMigrate(db); err != nil {
		stdLog.Fatalf("Failed to migrate database: %v", err)
	}

	terms := []models.AttributeTerm{
		{Attribute: "pa_size", Slug: "small", Name: "Small"},
		{Attribute: "pa_size", Slug: "large", Name: "Large"},
		{Attribute: "pa_flavour", Slug: "pandan", Name: "Pandan"},
		{Attribute: "pa_flavour", Slug: "gula-melaka", Name: "Gula Melaka"},
	}
	for _, term := range terms {
		term := term
		if err := db.Where("attribute = ? AND slug = ?", term.Attribute, term.Slug).FirstOrCreate(&term).Error; err != nil {
			stdLog.Printf("Failed to create term %s/%s: %v", term.Attribute, term.Slug, err)
		}
	}

	products := []seedProduct{
		{Slug: "kuih-lapis", Name: "Kuih Lapis", SKU: "KL-01", Price: 12, Sort: 1},
		{Slug: "dodol", Name: "Dodol", SKU: "DD-01", Price: 18, Sort: 2},
		{Slug: "kek-batik", Name: "Kek Batik", SKU: "KB", Sort: 3, Variants: []seedVariant{
			{Name: "Kek Batik - Small", SKU: "KB-S", Price: 25, Attrs: map[string]interface{}{"pa_size": "small"}},
			{Name: "Kek Batik - Large", SKU: "KB-L", Price: 45, Attrs: map[string]interface{}{"pa_size": "large"}},
		}},
		{Slug: "seri-muka", Name: "Seri Muka", SKU: "SM", Sort: 4, Variants: []seedVariant{
			{Name: "Seri Muka - Pandan", SKU: "SM-P", Price: 15, Attrs: map[string]interface{}{"pa_flavour": "pandan"}},
			{Name: "Seri Muka - Gula Melaka", SKU: "SM-G", Price: 16, Attrs: map[string]interface{}{"pa_flavour": "gula-melaka"}},
		}},
	}
	for _, item := range products {
		if err := seedOneProduct(db, item); err != nil {
			stdLog.Printf("Failed to seed product %s: %v", item.Slug, err)
			continue
		}
		stdLog.Printf("Seeded product: %s", item.Slug)
	}

	customers := []models.Customer{
		{Email: "aisyah@example.com", FirstName: "Aisyah", LastName: "Rahman", Billing: models.BillingAddress{
			FirstName: "Aisyah", LastName: "Rahman", Email: "aisyah@example.com", Phone: "0123456789",
			Address1: "12 Jalan Sultan", City: "Kuala Terengganu", State: "TRG", Postcode: "20000", Country: "MY",
		}},
		{Email: "farid@example.com", FirstName: "Farid", LastName: "Hamzah", Billing: models.BillingAddress{
			FirstName: "Farid", LastName: "Hamzah", Email: "farid@example.com", City: "Shah Alam", State: "SGR", Country: "MY",
		}},
	}
	for _, customer := range customers {
		customer := customer
		if err := db.Where("email = ?", customer.Email).FirstOrCreate(&customer).Error; err != nil {
			stdLog.Printf("Failed to create customer %s: %v", customer.Email, err)
		}
	}

	password := os.Getenv("BOX_SEED_PASSWORD")
	if password == "" {
		password = "demo12345"
	}
	hash, err := service.HashPassword(password)
	if err != nil {
		stdLog.Fatalf("Failed to hash seed password: %v", err)
	}
	authzService, err := authz.NewService(db)
	if err != nil {
		stdLog.Fatalf("Failed to init authz: %v", err)
	}
	if err := authzService.BootstrapBuiltinRoles(); err != nil {
		stdLog.Fatalf("Failed to bootstrap roles: %v", err)
	}

	accounts := []seedAccount{
		{Username: "siti", Display: "Siti", Role: "sales_agent"},
		{Username: "nurul", Display: "Nurul", Role: "shop_manager"},
		{Username: "auditor", Display: "Auditor", Role: "readonly_auditor"},
	}
	for _, acc := range accounts {
		admin := models.Admin{Username: acc.Username, DisplayName: acc.Display, PasswordHash: hash, Role: acc.Role}
		if err := db.Where("username = ?", acc.Username).FirstOrCreate(&admin).Error; err != nil {
			stdLog.Printf("Failed to create account %s: %v", acc.Username, err)
			continue
		}
		if err := authzService.SyncAdminRole(admin.ID, admin.Role); err != nil {
			stdLog.Printf("Failed to sync role for %s: %v", acc.Username, err)
		}
	}

	stdLog.Printf("Seed completed, demo accounts use password from BOX_SEED_PASSWORD")
}

func seedOneProduct(db *gorm.DB, item seedProduct) error {
	return db.Transaction(func(tx *gorm.DB) error {
		product := models.Product{
			Slug:        item.Slug,
			Name:        item.Name,
			SKU:         item.SKU,
			PriceAmount: models.NewMoney(decimal.NewFromInt(item.Price)),
			IsVariable:  len(item.Variants) > 0,
			IsActive:    true,
			StockStatus: models.StockStatusInStock,
			SortOrder:   item.Sort,
		}
		if err := tx.Where("slug = ?", item.Slug).FirstOrCreate(&product).Error; err != nil {
			return err
		}
		for i, v := range item.Variants {
			variant := models.ProductVariant{
				ProductID:   product.ID,
				Name:        v.Name,
				SKU:         v.SKU,
				PriceAmount: models.NewMoney(decimal.NewFromInt(v.Price)),
				Attributes:  models.JSON(v.Attrs),
				IsActive:    true,
				StockStatus: models.StockStatusInStock,
				SortOrder:   i,
			}
			if err := tx.Where("product_id = ? AND sku = ?", product.ID, v.SKU).FirstOrCreate(&variant).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
