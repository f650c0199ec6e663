package services

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"kiranapos/internal/caching"
	"kiranapos/internal/models"
	"kiranapos/internal/repositories"

	"github.com/google/uuid"
)

var ErrCategoryNotFound = errors.New("category not found")

type CategoryService interface {
	Create(ctx context.Context, accountID uuid.UUID, category *models.Category) error
	GetByID(ctx context.Context, accountID, id uuid.UUID) (*models.Category, error)
	Update(ctx context.Context, accountID uuid.UUID, category *models.Category) error
	Delete(ctx context.Context, accountID, id uuid.UUID) error
	List(ctx context.Context, accountID uuid.UUID) ([]*models.Category, error)
}

type categoryService struct {
	categoryRepo repositories.CategoryRepository
	cacheService caching.CacheService
}

func NewCategoryService(categoryRepo repositories.CategoryRepository, cacheService caching.CacheService) CategoryService {
	return &categoryService{categoryRepo: categoryRepo, cacheService: cacheService}
}

func (s *categoryService) Create(ctx context.Context, accountID uuid.UUID, category *models.Category) error {
	if strings.TrimSpace(category.Name) == "" {
		return errors.New("category name is required")
	}
	category.AccountID = accountID
	category.ID = uuid.New()
	return s.categoryRepo.Create(ctx, category)
}

func (s *categoryService) GetByID(ctx context.Context, accountID, id uuid.UUID) (*models.Category, error) {
	if cached, err := s.cacheService.GetCategory(ctx, accountID, id); cached != nil {
		return cached, nil
	} else if err != nil {
		log.Printf("cache error for category %s: %v", id.String(), err)
	}

	category, err := s.categoryRepo.GetByID(ctx, accountID, id)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, ErrCategoryNotFound
	}

	if cacheErr := s.cacheService.SetCategory(ctx, accountID, category, 30*time.Minute); cacheErr != nil {
		log.Printf("failed to cache category %s: %v", id.String(), cacheErr)
	}
	return category, nil
}

func (s *categoryService) Update(ctx context.Context, accountID uuid.UUID, category *models.Category) error {
	if strings.TrimSpace(category.Name) == "" {
		return errors.New("category name is required")
	}
	category.AccountID = accountID
	existing, err := s.categoryRepo.GetByID(ctx, accountID, category.ID)
	if err != nil {
		return err
	}
	if existing == nil {
		return ErrCategoryNotFound
	}
	if err := s.categoryRepo.Update(ctx, category); err != nil {
		return err
	}
	if cacheErr := s.cacheService.DeleteCategory(ctx, accountID, category.ID); cacheErr != nil {
		log.Printf("failed to invalidate category cache %s: %v", category.ID.String(), cacheErr)
	}
	return nil
}

func (s *categoryService) Delete(ctx context.Context, accountID, id uuid.UUID) error {
	if err := s.categoryRepo.Delete(ctx, accountID, id); err != nil {
		return err
	}
	// Cached products still reference the deleted category, so drop the
	// account's cache wholesale rather than chasing individual keys.
	if cacheErr := s.cacheService.InvalidateAccountCache(ctx, accountID); cacheErr != nil {
		log.Printf("failed to invalidate cache for account %s: %v", accountID.String(), cacheErr)
	}
	return nil
}

func (s *categoryService) List(ctx context.Context, accountID uuid.UUID) ([]*models.Category, error) {
	return s.categoryRepo.List(ctx, accountID)
}
