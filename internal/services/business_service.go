package services

import (
	"context"
	"errors"
	"io"
	"log"
	"path/filepath"
	"strings"
	"time"

	"kiranapos/internal/caching"
	"kiranapos/internal/common"
	"kiranapos/internal/models"
	"kiranapos/internal/repositories"

	"github.com/google/uuid"
)

var ErrBusinessProfileNotFound = errors.New("business profile not found")

// BusinessService manages the store profile printed on every receipt.
type BusinessService interface {
	Save(ctx context.Context, accountID uuid.UUID, profile *models.BusinessProfile) error
	Get(ctx context.Context, accountID uuid.UUID) (*models.BusinessProfile, error)
	UploadLogo(ctx context.Context, accountID uuid.UUID, filename string, reader io.Reader, size int64) error
	LogoURL(ctx context.Context, accountID uuid.UUID, expiry time.Duration) (string, error)
}

type businessService struct {
	businessRepo repositories.BusinessProfileRepository
	minioSvc     MinioService
	cacheService caching.CacheService
	bucket       string
}

func NewBusinessService(businessRepo repositories.BusinessProfileRepository, minioSvc MinioService, cacheService caching.CacheService, bucket string) BusinessService {
	return &businessService{
		businessRepo: businessRepo,
		minioSvc:     minioSvc,
		cacheService: cacheService,
		bucket:       bucket,
	}
}

func (s *businessService) Save(ctx context.Context, accountID uuid.UUID, profile *models.BusinessProfile) error {
	if strings.TrimSpace(profile.Name) == "" {
		return errors.New("business name is required")
	}
	if profile.GSTIN != "" {
		if err := common.ValidateGSTIN(profile.GSTIN, "gstin"); err != nil {
			return err
		}
	}
	if profile.Phone != "" {
		if err := common.ValidatePhone(profile.Phone, "phone"); err != nil {
			return err
		}
	}

	profile.AccountID = accountID
	if err := s.businessRepo.Upsert(ctx, profile); err != nil {
		return err
	}

	if cacheErr := s.cacheService.DeleteBusinessProfile(ctx, accountID); cacheErr != nil {
		log.Printf("failed to invalidate business profile cache: %v", cacheErr)
	}
	return nil
}

func (s *businessService) Get(ctx context.Context, accountID uuid.UUID) (*models.BusinessProfile, error) {
	if cached, err := s.cacheService.GetBusinessProfile(ctx, accountID); cached != nil {
		return cached, nil
	} else if err != nil {
		log.Printf("cache error for business profile: %v", err)
	}

	profile, err := s.businessRepo.Get(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, ErrBusinessProfileNotFound
	}

	if cacheErr := s.cacheService.SetBusinessProfile(ctx, accountID, profile, 30*time.Minute); cacheErr != nil {
		log.Printf("failed to cache business profile: %v", cacheErr)
	}
	return profile, nil
}

func (s *businessService) UploadLogo(ctx context.Context, accountID uuid.UUID, filename string, reader io.Reader, size int64) error {
	ext := strings.ToLower(filepath.Ext(filename))
	contentType := "image/jpeg"
	switch ext {
	case ".png":
		contentType = "image/png"
	case ".jpg", ".jpeg":
		contentType = "image/jpeg"
	default:
		return errors.New("logo must be a png or jpeg image")
	}

	profile, err := s.Get(ctx, accountID)
	if err != nil {
		return err
	}

	objectName := "logos/" + accountID.String() + ext
	if err := s.minioSvc.Upload(ctx, s.bucket, objectName, contentType, reader, size); err != nil {
		return err
	}

	profile.LogoObject = &objectName
	return s.Save(ctx, accountID, profile)
}

func (s *businessService) LogoURL(ctx context.Context, accountID uuid.UUID, expiry time.Duration) (string, error) {
	profile, err := s.Get(ctx, accountID)
	if err != nil {
		return "", err
	}
	if profile.LogoObject == nil || *profile.LogoObject == "" {
		return "", errors.New("no logo uploaded")
	}
	return s.minioSvc.GetPresignedURL(ctx, s.bucket, *profile.LogoObject, expiry)
}
