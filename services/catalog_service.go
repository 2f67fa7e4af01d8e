package services

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/XdebronneX/backend-TeamPOOR/models"
	"github.com/XdebronneX/backend-TeamPOOR/repository"
)

// CatalogService manages the bookable repair services.
type CatalogService struct {
	services repository.ServiceRepository
	storage  ImageStorage
}

func NewCatalogService(services repository.ServiceRepository, storage ImageStorage) *CatalogService {
	return &CatalogService{services: services, storage: storage}
}

// ServiceInput carries the repair service form. Images arrive as base64
// data URIs.
type ServiceInput struct {
	Name        string   `json:"name" binding:"required"`
	Price       float64  `json:"price" binding:"required,gte=0"`
	Description string   `json:"description"`
	Type        int      `json:"type"`
	IsAvailable *bool    `json:"isAvailable"`
	Images      []string `json:"images"`
}

func (s *CatalogService) CreateService(ctx context.Context, input ServiceInput) (*models.Service, error) {
	images := make([]models.Image, 0, len(input.Images))
	for _, payload := range input.Images {
		image, err := s.storage.Upload(ctx, payload, "services")
		if err != nil {
			return nil, badRequest("Invalid service image")
		}
		images = append(images, image)
	}

	available := true
	if input.IsAvailable != nil {
		available = *input.IsAvailable
	}
	service := &models.Service{
		Name:        input.Name,
		Price:       input.Price,
		Description: input.Description,
		Type:        input.Type,
		IsAvailable: available,
		Images:      images,
	}
	if err := s.services.Create(ctx, service); err != nil {
		return nil, internal("Failed to create service")
	}
	return service, nil
}

func (s *CatalogService) ListServices(ctx context.Context) ([]models.Service, error) {
	list, err := s.services.FindAll(ctx)
	if err != nil {
		return nil, internal("Failed to list services")
	}
	return list, nil
}

// ListAvailableServices filters the catalog down to bookable entries.
func (s *CatalogService) ListAvailableServices(ctx context.Context) ([]models.Service, error) {
	list, err := s.ListServices(ctx)
	if err != nil {
		return nil, err
	}
	available := list[:0]
	for _, service := range list {
		if service.IsAvailable {
			available = append(available, service)
		}
	}
	return available, nil
}

func (s *CatalogService) GetService(ctx context.Context, hexID string) (*models.Service, error) {
	id, err := primitive.ObjectIDFromHex(hexID)
	if err != nil {
		return nil, notFound("Service not found")
	}
	service, err := s.services.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, notFound("Service not found")
	}
	if err != nil {
		return nil, internal("Failed to load service")
	}
	return service, nil
}

func (s *CatalogService) UpdateService(ctx context.Context, hexID string, input ServiceInput) (*models.Service, error) {
	service, err := s.GetService(ctx, hexID)
	if err != nil {
		return nil, err
	}

	if input.Name != "" {
		service.Name = input.Name
	}
	if input.Price > 0 {
		service.Price = input.Price
	}
	if input.Description != "" {
		service.Description = input.Description
	}
	if input.Type != 0 {
		service.Type = input.Type
	}
	if input.IsAvailable != nil {
		service.IsAvailable = *input.IsAvailable
	}
	if len(input.Images) > 0 {
		for _, old := range service.Images {
			if err := s.storage.Delete(ctx, old.PublicID); err != nil {
				zap.L().Warn("Failed to delete service image", zap.Error(err), zap.String("public_id", old.PublicID))
			}
		}
		images := make([]models.Image, 0, len(input.Images))
		for _, payload := range input.Images {
			image, err := s.storage.Upload(ctx, payload, "services")
			if err != nil {
				return nil, badRequest("Invalid service image")
			}
			images = append(images, image)
		}
		service.Images = images
	}

	if err := s.services.Update(ctx, service); err != nil {
		return nil, internal("Failed to update service")
	}
	return service, nil
}

func (s *CatalogService) DeleteService(ctx context.Context, hexID string) error {
	service, err := s.GetService(ctx, hexID)
	if err != nil {
		return err
	}
	for _, image := range service.Images {
		if err := s.storage.Delete(ctx, image.PublicID); err != nil {
			zap.L().Warn("Failed to delete service image", zap.Error(err), zap.String("public_id", image.PublicID))
		}
	}
	if err := s.services.Delete(ctx, service.ID); err != nil {
		return internal("Failed to delete service")
	}
	return nil
}
