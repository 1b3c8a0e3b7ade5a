package service

import (
	"errors"
	"strings"

	"github.com/google/uuid"

	"go-bizman-ws/internal/model"
	"go-bizman-ws/internal/repository"
	"go-bizman-ws/internal/tenant"
	"go-bizman-ws/internal/ws"
)

var (
	ErrCustomerNotFound = errors.New("customer not found")
	ErrDuplicatePhone   = errors.New("a customer with this phone number already exists")
)

type CustomerRequest struct {
	Name    string  `json:"name" validate:"required"`
	Phone   string  `json:"phone"`
	Address string  `json:"address"`
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
	Note    string  `json:"note"`
}

type CustomerService interface {
	Create(tc tenant.Context, req *CustomerRequest) (*model.Customer, error)
	GetAll(tc tenant.Context) ([]model.Customer, error)
	GetByID(tc tenant.Context, id uuid.UUID) (*model.Customer, error)
	Update(tc tenant.Context, id uuid.UUID, req *CustomerRequest) (*model.Customer, error)
	Delete(tc tenant.Context, id uuid.UUID) error
}

type customerService struct {
	customers repository.CustomerRepository
	hub       *ws.Hub
}

func NewCustomerService(customers repository.CustomerRepository, hub *ws.Hub) CustomerService {
	return &customerService{customers: customers, hub: hub}
}

func (s *customerService) Create(tc tenant.Context, req *CustomerRequest) (*model.Customer, error) {
	phone := strings.TrimSpace(req.Phone)
	if phone != "" {
		if _, err := s.customers.FindByPhone(tc, phone); err == nil {
			return nil, ErrDuplicatePhone
		} else if !errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
	}

	customer := &model.Customer{
		Name:    strings.TrimSpace(req.Name),
		Phone:   phone,
		Address: req.Address,
		Lat:     req.Lat,
		Lng:     req.Lng,
		Note:    req.Note,
	}
	if err := s.customers.Create(tc, customer); err != nil {
		return nil, err
	}

	s.hub.Publish(tc.OwnerID, map[string]interface{}{
		"type":        "customer_created",
		"customer_id": customer.ID,
	})
	return customer, nil
}

func (s *customerService) GetAll(tc tenant.Context) ([]model.Customer, error) {
	return s.customers.FindAll(tc)
}

func (s *customerService) GetByID(tc tenant.Context, id uuid.UUID) (*model.Customer, error) {
	customer, err := s.customers.FindByID(tc, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrCustomerNotFound
	}
	return customer, err
}

func (s *customerService) Update(tc tenant.Context, id uuid.UUID, req *CustomerRequest) (*model.Customer, error) {
	customer, err := s.GetByID(tc, id)
	if err != nil {
		return nil, err
	}

	customer.Name = strings.TrimSpace(req.Name)
	customer.Phone = strings.TrimSpace(req.Phone)
	customer.Address = req.Address
	customer.Lat = req.Lat
	customer.Lng = req.Lng
	customer.Note = req.Note

	if err := s.customers.Update(tc, customer); err != nil {
		return nil, err
	}

	s.hub.Publish(tc.OwnerID, map[string]interface{}{
		"type":        "customer_updated",
		"customer_id": customer.ID,
	})
	return customer, nil
}

func (s *customerService) Delete(tc tenant.Context, id uuid.UUID) error {
	if _, err := s.GetByID(tc, id); err != nil {
		return err
	}
	if err := s.customers.Delete(tc, id, tc.Actor()); err != nil {
		return err
	}
	s.hub.Publish(tc.OwnerID, map[string]interface{}{
		"type":        "customer_deleted",
		"customer_id": id,
	})
	return nil
}
