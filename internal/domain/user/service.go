package user

import (
	"context"
	"errors"
	"fmt"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) UpsertProfile(ctx context.Context, userID, email, phone, avatarURL string) error {
	if userID == "" {
		return fmt.Errorf("user id is required")
	}

	profile := Profile{UserID: userID}
	if email != "" {
		profile.Email = &email
	}
	if normalized := NormalizePhone(phone); normalized != "" {
		profile.Phone = &normalized
	}
	if avatarURL != "" {
		profile.AvatarURL = &avatarURL
	}

	return s.repo.UpsertProfile(ctx, &profile)
}

// UserIDByPhone resolves a phone number to the user that registered it.
func (s *Service) UserIDByPhone(ctx context.Context, phone string) (string, bool, error) {
	phone = NormalizePhone(phone)
	if phone == "" {
		return "", false, nil
	}

	profile, err := s.repo.GetByPhone(ctx, phone)
	if errors.Is(err, ErrProfileNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return profile.UserID, true, nil
}

// PhoneByUserID returns the phone number stored on the user's profile.
func (s *Service) PhoneByUserID(ctx context.Context, userID string) (string, bool, error) {
	profile, err := s.repo.GetByUserID(ctx, userID)
	if errors.Is(err, ErrProfileNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	if profile.Phone == nil || *profile.Phone == "" {
		return "", false, nil
	}
	return *profile.Phone, true, nil
}
