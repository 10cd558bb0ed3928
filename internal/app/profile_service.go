package app

import (
	"context"
	"strings"

	"zorgmatch/internal/common"
	"zorgmatch/internal/domain/profile"
	"zorgmatch/internal/domain/user"
)

// ProfileService manages the public cards of zzp professionals.
type ProfileService struct {
	profiles profile.Repository
	users    user.Repository
}

func NewProfileService(profiles profile.Repository, users user.Repository) *ProfileService {
	return &ProfileService{profiles: profiles, users: users}
}

func (s *ProfileService) Create(ctx context.Context, p profile.ZzpProfile) (*profile.ZzpProfile, error) {
	account, err := s.users.GetByID(ctx, p.UserID)
	if err != nil {
		return nil, err
	}
	if account.Role != user.RoleZzper {
		return nil, common.NewError(common.CodeForbidden, "only zzp users can create a profile", nil)
	}
	if err := validateProfile(p); err != nil {
		return nil, err
	}
	return s.profiles.Create(ctx, p)
}

func (s *ProfileService) Update(ctx context.Context, userID common.UUID, p profile.ZzpProfile) (*profile.ZzpProfile, error) {
	if err := validateProfile(p); err != nil {
		return nil, err
	}
	return s.profiles.Update(ctx, userID, p)
}

func (s *ProfileService) GetOwn(ctx context.Context, userID common.UUID) (*profile.ZzpProfile, error) {
	return s.profiles.GetByUserID(ctx, userID)
}

func (s *ProfileService) Get(ctx context.Context, id common.UUID) (*profile.ZzpProfile, error) {
	return s.profiles.GetByID(ctx, id)
}

func (s *ProfileService) List(ctx context.Context) ([]profile.ZzpProfile, error) {
	return s.profiles.ListAll(ctx)
}

func validateProfile(p profile.ZzpProfile) error {
	fields := map[string]string{}
	if strings.TrimSpace(p.Title) == "" {
		fields["title"] = "title is required"
	}
	if strings.TrimSpace(p.Bio) == "" {
		fields["bio"] = "bio is required"
	}
	if len(p.Expertise) == 0 {
		fields["expertise"] = "at least one expertise is required"
	}
	if strings.TrimSpace(p.Location) == "" {
		fields["location"] = "location is required"
	}
	if strings.TrimSpace(p.Availability) == "" {
		fields["availability"] = "availability is required"
	}
	if len(fields) > 0 {
		return common.NewValidationError("invalid profile", fields)
	}
	return nil
}
