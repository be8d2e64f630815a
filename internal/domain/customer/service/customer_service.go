package service

import (
	"errors"
	"strings"

	"github.com/balaocastelo-dev/balao-informatica-2025-sub002/internal/domain/customer/model"
	"github.com/balaocastelo-dev/balao-informatica-2025-sub002/internal/domain/customer/repository"
	"github.com/balaocastelo-dev/balao-informatica-2025-sub002/pkg/utils"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

type CustomerService interface {
	Register(name, email, password, phone string) (*model.Customer, string, error)
	Login(email, password string) (*model.Customer, string, error)
	GetCustomer(id string) (*model.Customer, error)
	UpdateProfile(id string, upd ProfileUpdate) (*model.Customer, error)
	GetCustomers(page, limit int) ([]model.Customer, int64, error)
}

// ProfileUpdate carries the mutable profile fields; empty strings are ignored.
type ProfileUpdate struct {
	Name              string
	Phone             string
	AddressStreet     string
	AddressNumber     string
	AddressComplement string
	AddressCity       string
	AddressState      string
	AddressZip        string
}

type customerService struct {
	repo repository.CustomerRepository
}

func NewCustomerService(repo repository.CustomerRepository) CustomerService {
	return &customerService{repo: repo}
}

func (s *customerService) Register(name, email, password, phone string) (*model.Customer, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	if _, err := s.repo.GetByEmail(email); err == nil {
		return nil, "", ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, "", err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", err
	}

	customer := &model.Customer{
		Name:     name,
		Email:    email,
		Password: string(hash),
		Phone:    phone,
		Role:     model.RoleUser,
	}
	if err := s.repo.Create(customer); err != nil {
		return nil, "", err
	}

	token, _, err := utils.GenerateToken(customer.ID, customer.Role)
	if err != nil {
		return nil, "", err
	}
	return customer, token, nil
}

func (s *customerService) Login(email, password string) (*model.Customer, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	customer, err := s.repo.GetByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(customer.Password), []byte(password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, _, err := utils.GenerateToken(customer.ID, customer.Role)
	if err != nil {
		return nil, "", err
	}
	return customer, token, nil
}

func (s *customerService) GetCustomer(id string) (*model.Customer, error) {
	return s.repo.GetByID(id)
}

func (s *customerService) UpdateProfile(id string, upd ProfileUpdate) (*model.Customer, error) {
	customer, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}

	if upd.Name != "" {
		customer.Name = upd.Name
	}
	if upd.Phone != "" {
		customer.Phone = upd.Phone
	}
	if upd.AddressStreet != "" {
		customer.AddressStreet = upd.AddressStreet
	}
	if upd.AddressNumber != "" {
		customer.AddressNumber = upd.AddressNumber
	}
	if upd.AddressComplement != "" {
		customer.AddressComplement = upd.AddressComplement
	}
	if upd.AddressCity != "" {
		customer.AddressCity = upd.AddressCity
	}
	if upd.AddressState != "" {
		customer.AddressState = upd.AddressState
	}
	if upd.AddressZip != "" {
		customer.AddressZip = upd.AddressZip
	}

	if err := s.repo.Update(customer); err != nil {
		return nil, err
	}
	return customer, nil
}

func (s *customerService) GetCustomers(page, limit int) ([]model.Customer, int64, error) {
	offset := (page - 1) * limit
	if offset < 0 {
		offset = 0
	}
	return s.repo.GetList(offset, limit)
}
