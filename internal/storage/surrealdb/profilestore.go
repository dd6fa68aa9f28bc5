package surrealdb

import (
	"context"
	"fmt"

	"github.com/surrealdb/surrealdb.go"
	surrealmodels "github.com/surrealdb/surrealdb.go/pkg/models"
	"github.com/vortexhq/vortex/internal/common"
	"github.com/vortexhq/vortex/internal/interfaces"
	"github.com/vortexhq/vortex/internal/models"
)

// ProfileStore persists the once-per-user profile documents.
type ProfileStore struct {
	db     *surrealdb.DB
	logger *common.Logger
}

func NewProfileStore(db *surrealdb.DB, logger *common.Logger) *ProfileStore {
	return &ProfileStore{
		db:     db,
		logger: logger,
	}
}

func (s *ProfileStore) GetProfile(ctx context.Context, userID string) (*models.UserProfile, error) {
	profile, err := surrealdb.Select[models.UserProfile](ctx, s.db, surrealmodels.NewRecordID("profile", userID))
	if err != nil {
		return nil, fmt.Errorf("failed to select profile: %w", err)
	}
	if profile == nil || profile.UserID == "" {
		return nil, ErrNotFound
	}
	return profile, nil
}

func (s *ProfileStore) SaveProfile(ctx context.Context, profile *models.UserProfile) error {
	sql := "UPSERT type::record('profile', $id) CONTENT $profile"
	vars := map[string]any{"id": profile.UserID, "profile": profile}

	for attempt := 1; attempt <= 3; attempt++ {
		_, err := surrealdb.Query[[]models.UserProfile](ctx, s.db, sql, vars)
		if err == nil {
			return nil
		}
		if attempt == 3 {
			return fmt.Errorf("failed to save profile after retries: %w", err)
		}
	}
	return nil
}

func (s *ProfileStore) DeleteProfile(ctx context.Context, userID string) error {
	_, err := surrealdb.Delete[models.UserProfile](ctx, s.db, surrealmodels.NewRecordID("profile", userID))
	if err != nil {
		return fmt.Errorf("failed to delete profile: %w", err)
	}
	return nil
}

// Compile-time check
var _ interfaces.ProfileStore = (*ProfileStore)(nil)
