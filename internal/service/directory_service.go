package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/noah-isme/hei-portal-api/internal/models"
	"github.com/noah-isme/hei-portal-api/internal/region"
	appErrors "github.com/noah-isme/hei-portal-api/pkg/errors"
)

const directoryCacheKey = "hei:directory"

type institutionRepository interface {
	List(ctx context.Context, filter models.InstitutionFilter) ([]models.Institution, error)
	FindByID(ctx context.Context, id string) (*models.Institution, error)
	IDsByRegion(ctx context.Context, region string) ([]string, error)
	Campuses(ctx context.Context, name string) ([]string, error)
}

// DirectoryService serves the public institution directory. The full
// directory is cached in Redis since it changes only when a registration
// is approved.
type DirectoryService struct {
	repo   institutionRepository
	cache  *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewDirectoryService constructs the directory service. A nil cache
// client disables caching.
func NewDirectoryService(repo institutionRepository, cache *redis.Client, ttl time.Duration, logger *zap.Logger) *DirectoryService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DirectoryService{repo: repo, cache: cache, ttl: ttl, logger: logger}
}

// List returns institutions, optionally narrowed by region or name.
// Filtered listings bypass the cache.
func (s *DirectoryService) List(ctx context.Context, filter models.InstitutionFilter) ([]models.Institution, error) {
	filter.Region = region.Canonical(filter.Region)
	institutions, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list institutions")
	}
	if institutions == nil {
		institutions = []models.Institution{}
	}
	return institutions, nil
}

// Get returns one institution record.
func (s *DirectoryService) Get(ctx context.Context, id string) (*models.Institution, error) {
	institution, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "institution not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load institution")
	}
	return institution, nil
}

// Directory aggregates campuses per institution name. The aggregate is
// cached until a registration approval invalidates it or the TTL lapses.
func (s *DirectoryService) Directory(ctx context.Context) ([]models.InstitutionDirectoryEntry, error) {
	if s.cache != nil {
		raw, err := s.cache.Get(ctx, directoryCacheKey).Result()
		if err == nil {
			var cached []models.InstitutionDirectoryEntry
			if jsonErr := json.Unmarshal([]byte(raw), &cached); jsonErr == nil {
				return cached, nil
			}
		} else if !errors.Is(err, redis.Nil) {
			s.logger.Warn("directory cache read failed", zap.Error(err))
		}
	}

	institutions, err := s.repo.List(ctx, models.InstitutionFilter{})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to build directory")
	}

	byName := make(map[string]*models.InstitutionDirectoryEntry)
	order := make([]string, 0, len(institutions))
	for _, inst := range institutions {
		entry, ok := byName[inst.Name]
		if !ok {
			entry = &models.InstitutionDirectoryEntry{Name: inst.Name, Region: inst.Region}
			byName[inst.Name] = entry
			order = append(order, inst.Name)
		}
		entry.Campuses = append(entry.Campuses, inst.Campus)
	}
	sort.Strings(order)

	directory := make([]models.InstitutionDirectoryEntry, 0, len(order))
	for _, name := range order {
		sort.Strings(byName[name].Campuses)
		directory = append(directory, *byName[name])
	}

	if s.cache != nil {
		if raw, err := json.Marshal(directory); err == nil {
			if err := s.cache.Set(ctx, directoryCacheKey, raw, s.ttl).Err(); err != nil {
				s.logger.Warn("directory cache write failed", zap.Error(err))
			}
		}
	}
	return directory, nil
}

// Campuses returns the campus names registered under an institution name.
func (s *DirectoryService) Campuses(ctx context.Context, name string) ([]string, error) {
	campuses, err := s.repo.Campuses(ctx, name)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list campuses")
	}
	if campuses == nil {
		campuses = []string{}
	}
	return campuses, nil
}

// Invalidate drops the cached directory. Called after a registration
// approval creates a new institution row.
func (s *DirectoryService) Invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, directoryCacheKey).Err(); err != nil {
		s.logger.Warn("directory cache invalidation failed", zap.Error(err))
	}
}
