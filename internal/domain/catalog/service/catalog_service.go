package service

import (
	"encoding/json"
	"strings"

	"github.com/balaocastelo-dev/balao-informatica-2025-sub002/internal/domain/catalog/model"
	"github.com/balaocastelo-dev/balao-informatica-2025-sub002/internal/domain/catalog/repository"
)

type CatalogService interface {
	GetProduct(slug string) (*model.Product, error)
	GetProductByID(id string) (*model.Product, error)
	SearchProducts(filter model.ProductFilter, page, limit int) ([]model.Product, int64, error)
	GetCategories() ([]model.Category, error)

	CreateProduct(input ProductInput) (*model.Product, error)
	UpdateProduct(id string, input ProductInput) (*model.Product, error)
	DeleteProduct(id string) error
	CreateCategory(name string) (*model.Category, error)
}

// ProductInput is the admin create/update payload.
type ProductInput struct {
	Name        string
	Description string
	Brand       string
	Price       float64
	Stock       int
	Images      []string
	CategoryID  string
	Active      *bool
	Featured    *bool
}

type catalogService struct {
	repo repository.ProductRepository
}

func NewCatalogService(repo repository.ProductRepository) CatalogService {
	return &catalogService{repo: repo}
}

// Slugify turns a display name into a URL slug. Accents common in Portuguese
// product names are folded to ASCII.
func Slugify(name string) string {
	replacer := strings.NewReplacer(
		"á", "a", "à", "a", "ã", "a", "â", "a",
		"é", "e", "ê", "e", "í", "i",
		"ó", "o", "õ", "o", "ô", "o",
		"ú", "u", "ü", "u", "ç", "c",
	)
	s := replacer.Replace(strings.ToLower(strings.TrimSpace(name)))

	var b strings.Builder
	lastDash := true
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	return strings.Trim(b.String(), "-")
}

func (s *catalogService) GetProduct(slug string) (*model.Product, error) {
	return s.repo.GetBySlug(slug)
}

func (s *catalogService) GetProductByID(id string) (*model.Product, error) {
	return s.repo.GetByID(id)
}

func (s *catalogService) SearchProducts(filter model.ProductFilter, page, limit int) ([]model.Product, int64, error) {
	offset := (page - 1) * limit
	if offset < 0 {
		offset = 0
	}
	return s.repo.Search(filter, offset, limit)
}

func (s *catalogService) GetCategories() ([]model.Category, error) {
	return s.repo.GetCategories()
}

func (s *catalogService) CreateProduct(input ProductInput) (*model.Product, error) {
	images, err := json.Marshal(input.Images)
	if err != nil {
		return nil, err
	}

	product := &model.Product{
		Name:        input.Name,
		Slug:        Slugify(input.Name),
		Description: input.Description,
		Brand:       input.Brand,
		Price:       input.Price,
		Stock:       input.Stock,
		Images:      images,
		CategoryID:  input.CategoryID,
		Active:      true,
	}
	if input.Active != nil {
		product.Active = *input.Active
	}
	if input.Featured != nil {
		product.Featured = *input.Featured
	}

	if err := s.repo.Create(product); err != nil {
		return nil, err
	}
	return product, nil
}

func (s *catalogService) UpdateProduct(id string, input ProductInput) (*model.Product, error) {
	product, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}

	if input.Name != "" {
		product.Name = input.Name
		product.Slug = Slugify(input.Name)
	}
	if input.Description != "" {
		product.Description = input.Description
	}
	if input.Brand != "" {
		product.Brand = input.Brand
	}
	if input.Price > 0 {
		product.Price = input.Price
	}
	if input.Stock >= 0 {
		product.Stock = input.Stock
	}
	if input.Images != nil {
		images, err := json.Marshal(input.Images)
		if err != nil {
			return nil, err
		}
		product.Images = images
	}
	if input.CategoryID != "" {
		product.CategoryID = input.CategoryID
	}
	if input.Active != nil {
		product.Active = *input.Active
	}
	if input.Featured != nil {
		product.Featured = *input.Featured
	}

	if err := s.repo.Update(product); err != nil {
		return nil, err
	}
	return product, nil
}

func (s *catalogService) DeleteProduct(id string) error {
	product, err := s.repo.GetByID(id)
	if err != nil {
		return err
	}
	return s.repo.Delete(product)
}

func (s *catalogService) CreateCategory(name string) (*model.Category, error) {
	category := &model.Category{
		Name: name,
		Slug: Slugify(name),
	}
	if err := s.repo.CreateCategory(category); err != nil {
		return nil, err
	}
	return category, nil
}
