// seed fills a development database with an admin account, a couple of
// categories and a handful of products so the storefront and the rush tool
// have something to work with. Idempotent: existing rows are left alone.
package main

import (
	"encoding/json"
	"errors"
	"log"

	catalogModel "github.com/balaocastelo-dev/balao-informatica-2025-sub002/internal/domain/catalog/model"
	catalogService "github.com/balaocastelo-dev/balao-informatica-2025-sub002/internal/domain/catalog/service"
	customerModel "github.com/balaocastelo-dev/balao-informatica-2025-sub002/internal/domain/customer/model"
	"github.com/balaocastelo-dev/balao-informatica-2025-sub002/internal/pkg/config"
	"github.com/balaocastelo-dev/balao-informatica-2025-sub002/pkg/database"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func main() {
	config.LoadConfig()
	db := database.InitDatabase()

	seedAdmin(db)
	categories := seedCategories(db)
	seedProducts(db, categories)

	log.Println("seed complete")
}

func seedAdmin(db *gorm.DB) {
	var existing customerModel.Customer
	err := db.Where("email = ?", "admin@balao.local").First(&existing).Error
	if err == nil {
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Fatalf("lookup admin: %v", err)
	}

	hash, _ := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
	admin := &customerModel.Customer{
		Name:     "Administrador",
		Email:    "admin@balao.local",
		Password: string(hash),
		Role:     customerModel.RoleAdmin,
	}
	if err := db.Create(admin).Error; err != nil {
		log.Fatalf("create admin: %v", err)
	}
	log.Println("admin created: admin@balao.local / admin123")
}

func seedCategories(db *gorm.DB) map[string]string {
	names := []string{"Notebooks", "Periféricos", "Hardware"}
	ids := make(map[string]string, len(names))

	for _, name := range names {
		slug := catalogService.Slugify(name)
		var existing catalogModel.Category
		err := db.Where("slug = ?", slug).First(&existing).Error
		if err == nil {
			ids[name] = existing.ID
			continue
		}
		category := &catalogModel.Category{Name: name, Slug: slug}
		if err := db.Create(category).Error; err != nil {
			log.Fatalf("create category %s: %v", name, err)
		}
		ids[name] = category.ID
	}
	return ids
}

func seedProducts(db *gorm.DB, categories map[string]string) {
	products := []struct {
		name     string
		brand    string
		price    float64
		category string
	}{
		{"Notebook Gamer Nitro 5 i5 RTX 3050", "Acer", 4299.90, "Notebooks"},
		{"Notebook IdeaPad 3i Ryzen 5", "Lenovo", 2799.00, "Notebooks"},
		{"Mouse Gamer DeathAdder V2", "Razer", 349.90, "Periféricos"},
		{"Teclado Mecânico K552 Kumara", "Redragon", 219.90, "Periféricos"},
		{"SSD NVMe 1TB 980", "Samsung", 499.90, "Hardware"},
		{"Placa de Vídeo RTX 4060 8GB", "Gigabyte", 2399.00, "Hardware"},
	}

	images, _ := json.Marshal([]string{})

	for _, p := range products {
		slug := catalogService.Slugify(p.name)
		var existing catalogModel.Product
		if err := db.Where("slug = ?", slug).First(&existing).Error; err == nil {
			continue
		}
		product := &catalogModel.Product{
			Name:       p.name,
			Slug:       slug,
			Brand:      p.brand,
			Price:      p.price,
			Stock:      10,
			Images:     images,
			CategoryID: categories[p.category],
			Active:     true,
		}
		if err := db.Create(product).Error; err != nil {
			log.Fatalf("create product %s: %v", p.name, err)
		}
	}
}
