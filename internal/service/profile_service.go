package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/aci-platform/requisition-api/internal/models"
	appErrors "github.com/aci-platform/requisition-api/pkg/errors"
)

type profileRepository interface {
	GetByID(ctx context.Context, id string) (*models.Profile, error)
	List(ctx context.Context, filter models.ProfileFilter) ([]models.Profile, int, error)
	Update(ctx context.Context, p *models.Profile) error
}

// ProfileService serves the employee directory. Requisitions snapshot the
// requester at submission, so edits here never rewrite history.
type ProfileService struct {
	repo   profileRepository
	logger *zap.Logger
}

// NewProfileService constructs a ProfileService.
func NewProfileService(repo profileRepository, logger *zap.Logger) *ProfileService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProfileService{repo: repo, logger: logger}
}

// Get returns one directory entry.
func (s *ProfileService) Get(ctx context.Context, id string) (*models.Profile, error) {
	profile, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("profile %s not found", id))
		}
		return nil, err
	}
	return profile, nil
}

// List returns directory entries with pagination metadata.
func (s *ProfileService) List(ctx context.Context, filter models.ProfileFilter) ([]models.Profile, *models.Pagination, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 || filter.PageSize > 100 {
		filter.PageSize = 20
	}
	profiles, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, err
	}
	return profiles, &models.Pagination{Page: filter.Page, PageSize: filter.PageSize, TotalCount: total}, nil
}

// UpdateProfileRequest carries mutable directory fields.
type UpdateProfileRequest struct {
	Name       string `json:"name"`
	Department string `json:"department"`
	AvatarURL  string `json:"avatar_url"`
}

// Update edits a directory entry in place.
func (s *ProfileService) Update(ctx context.Context, id string, req UpdateProfileRequest) (*models.Profile, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "name is required")
	}
	if strings.TrimSpace(req.Department) == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "department is required")
	}

	profile, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	profile.Name = strings.TrimSpace(req.Name)
	profile.Department = strings.TrimSpace(req.Department)
	if req.AvatarURL != "" {
		profile.AvatarURL = req.AvatarURL
	}
	profile.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, profile); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("profile %s not found", id))
		}
		return nil, err
	}
	return profile, nil
}
