package caching

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"kiranapos/internal/models"
	"kiranapos/internal/repositories"
)

type CacheService interface {
	// Product caching
	GetProduct(ctx context.Context, accountID, productID uuid.UUID) (*models.Product, error)
	SetProduct(ctx context.Context, accountID uuid.UUID, product *models.Product, ttl time.Duration) error
	DeleteProduct(ctx context.Context, accountID, productID uuid.UUID) error

	// Category caching
	GetCategory(ctx context.Context, accountID, categoryID uuid.UUID) (*models.Category, error)
	SetCategory(ctx context.Context, accountID uuid.UUID, category *models.Category, ttl time.Duration) error
	DeleteCategory(ctx context.Context, accountID, categoryID uuid.UUID) error

	// Business profile caching
	GetBusinessProfile(ctx context.Context, accountID uuid.UUID) (*models.BusinessProfile, error)
	SetBusinessProfile(ctx context.Context, accountID uuid.UUID, profile *models.BusinessProfile, ttl time.Duration) error
	DeleteBusinessProfile(ctx context.Context, accountID uuid.UUID) error

	// Sales summary caching
	GetSalesSummary(ctx context.Context, accountID uuid.UUID, period string) (*repositories.SalesSummary, error)
	SetSalesSummary(ctx context.Context, accountID uuid.UUID, period string, summary *repositories.SalesSummary, ttl time.Duration) error

	// Cache invalidation
	InvalidateAccountCache(ctx context.Context, accountID uuid.UUID) error

	// Rate limiting
	IsRateLimited(ctx context.Context, key string, limit int, window time.Duration) (bool, error)

	// Generic string operations for token management
	SetString(ctx context.Context, key string, value string, ttl time.Duration) error
	GetString(ctx context.Context, key string) (string, error)
	Delete(ctx context.Context, key string) error
}

type redisCacheService struct {
	client *redis.Client
}

func NewRedisCacheService(addr, password string, db int) CacheService {
	// Strip the protocol prefix when a redis:// URL is supplied
	parsedAddr := addr
	if strings.HasPrefix(addr, "redis://") || strings.HasPrefix(addr, "rediss://") {
		if hostPort := strings.TrimPrefix(strings.TrimPrefix(addr, "redis://"), "rediss://"); hostPort != addr {
			parsedAddr = hostPort
		}
	}

	client := redis.NewClient(&redis.Options{
		Addr:     parsedAddr,
		Password: password,
		DB:       db,
	})

	if pingErr := client.Ping(context.Background()).Err(); pingErr != nil {
		log.Printf("WARN: Redis ping failed on initialization: %v (address: %s)", pingErr, parsedAddr)
	}

	return &redisCacheService{client: client}
}

func (r *redisCacheService) GetProduct(ctx context.Context, accountID, productID uuid.UUID) (*models.Product, error) {
	key := fmt.Sprintf("kiranapos:product:%s:%s", accountID.String(), productID.String())
	data, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // cache miss
		}
		return nil, err
	}

	var product models.Product
	if err := json.Unmarshal(data, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *redisCacheService) SetProduct(ctx context.Context, accountID uuid.UUID, product *models.Product, ttl time.Duration) error {
	key := fmt.Sprintf("kiranapos:product:%s:%s", accountID.String(), product.ID.String())
	data, err := json.Marshal(product)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, key, data, ttl).Err()
}

func (r *redisCacheService) DeleteProduct(ctx context.Context, accountID, productID uuid.UUID) error {
	key := fmt.Sprintf("kiranapos:product:%s:%s", accountID.String(), productID.String())
	return r.client.Del(ctx, key).Err()
}

func (r *redisCacheService) GetCategory(ctx context.Context, accountID, categoryID uuid.UUID) (*models.Category, error) {
	key := fmt.Sprintf("kiranapos:category:%s:%s", accountID.String(), categoryID.String())
	data, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // cache miss
		}
		return nil, err
	}

	var category models.Category
	if err := json.Unmarshal(data, &category); err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *redisCacheService) SetCategory(ctx context.Context, accountID uuid.UUID, category *models.Category, ttl time.Duration) error {
	key := fmt.Sprintf("kiranapos:category:%s:%s", accountID.String(), category.ID.String())
	data, err := json.Marshal(category)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, key, data, ttl).Err()
}

func (r *redisCacheService) DeleteCategory(ctx context.Context, accountID, categoryID uuid.UUID) error {
	key := fmt.Sprintf("kiranapos:category:%s:%s", accountID.String(), categoryID.String())
	return r.client.Del(ctx, key).Err()
}

func (r *redisCacheService) GetBusinessProfile(ctx context.Context, accountID uuid.UUID) (*models.BusinessProfile, error) {
	key := fmt.Sprintf("kiranapos:business:%s", accountID.String())
	data, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // cache miss
		}
		return nil, err
	}

	var profile models.BusinessProfile
	if err := json.Unmarshal(data, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *redisCacheService) SetBusinessProfile(ctx context.Context, accountID uuid.UUID, profile *models.BusinessProfile, ttl time.Duration) error {
	key := fmt.Sprintf("kiranapos:business:%s", accountID.String())
	data, err := json.Marshal(profile)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, key, data, ttl).Err()
}

func (r *redisCacheService) DeleteBusinessProfile(ctx context.Context, accountID uuid.UUID) error {
	key := fmt.Sprintf("kiranapos:business:%s", accountID.String())
	return r.client.Del(ctx, key).Err()
}

func (r *redisCacheService) GetSalesSummary(ctx context.Context, accountID uuid.UUID, period string) (*repositories.SalesSummary, error) {
	key := fmt.Sprintf("kiranapos:summary:%s:%s", accountID.String(), period)
	data, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // cache miss
		}
		return nil, err
	}

	var summary repositories.SalesSummary
	if err := json.Unmarshal(data, &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}

func (r *redisCacheService) SetSalesSummary(ctx context.Context, accountID uuid.UUID, period string, summary *repositories.SalesSummary, ttl time.Duration) error {
	key := fmt.Sprintf("kiranapos:summary:%s:%s", accountID.String(), period)
	data, err := json.Marshal(summary)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, key, data, ttl).Err()
}

func (r *redisCacheService) InvalidateAccountCache(ctx context.Context, accountID uuid.UUID) error {
	pattern := fmt.Sprintf("kiranapos:*:%s*", accountID.String())
	keys, err := r.client.Keys(ctx, pattern).Result()
	if err != nil {
		return err
	}

	if len(keys) > 0 {
		return r.client.Del(ctx, keys...).Err()
	}
	return nil
}

func (r *redisCacheService) IsRateLimited(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	cacheKey := fmt.Sprintf("kiranapos:ratelimit:%s", key)
	count, err := r.client.Incr(ctx, cacheKey).Result()
	if err != nil {
		return true, err
	}

	// Window starts with the first hit
	if count == 1 {
		r.client.Expire(ctx, cacheKey, window)
	}

	return count > int64(limit), nil
}

func (r *redisCacheService) SetString(ctx context.Context, key string, value string, ttl time.Duration) error {
	return r.client.Set(ctx, key, value, ttl).Err()
}

func (r *redisCacheService) GetString(ctx context.Context, key string) (string, error) {
	val, err := r.client.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return "", nil // cache miss
		}
		return "", err
	}
	return val, nil
}

func (r *redisCacheService) Delete(ctx context.Context, key string) error {
	return r.client.Del(ctx, key).Err()
}
