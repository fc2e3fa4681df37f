package user

import (
	"context"
	"errors"
	"testing"
)

type fakeProfileRepo struct {
	profiles map[string]*Profile
	err      error
}

func newFakeProfileRepo() *fakeProfileRepo {
	return &fakeProfileRepo{profiles: make(map[string]*Profile)}
}

func (r *fakeProfileRepo) UpsertProfile(ctx context.Context, profile *Profile) error {
	if r.err != nil {
		return r.err
	}
	existing, ok := r.profiles[profile.UserID]
	if !ok {
		r.profiles[profile.UserID] = profile
		return nil
	}
	if profile.Email != nil {
		existing.Email = profile.Email
	}
	if profile.Phone != nil {
		existing.Phone = profile.Phone
	}
	if profile.AvatarURL != nil {
		existing.AvatarURL = profile.AvatarURL
	}
	return nil
}

func (r *fakeProfileRepo) GetByPhone(ctx context.Context, phone string) (*Profile, error) {
	if r.err != nil {
		return nil, r.err
	}
	for _, profile := range r.profiles {
		if profile.Phone != nil && *profile.Phone == phone {
			return profile, nil
		}
	}
	return nil, ErrProfileNotFound
}

func (r *fakeProfileRepo) GetByUserID(ctx context.Context, userID string) (*Profile, error) {
	if r.err != nil {
		return nil, r.err
	}
	profile, ok := r.profiles[userID]
	if !ok {
		return nil, ErrProfileNotFound
	}
	return profile, nil
}

func TestNormalizePhone(t *testing.T) {
	cases := map[string]string{
		"":                   "",
		"  ":                 "",
		"+90 (532) 111-2233": "905321112233",
		"905321112233":       "905321112233",
		"0532 111 22 33":     "905321112233",
		"532 111 22 33":      "905321112233",
		"0090 532 111 22 33": "905321112233",
		"+49 30 123456":      "4930123456",
		"+":                  "",
		"12+34":              "1234",
	}
	for input, expected := range cases {
		if got := NormalizePhone(input); got != expected {
			t.Fatalf("NormalizePhone(%q): expected %q, got %q", input, expected, got)
		}
	}
}

func TestUpsertProfileRequiresUserID(t *testing.T) {
	svc := NewService(newFakeProfileRepo())
	if err := svc.UpsertProfile(context.Background(), "", "a@example.com", "", ""); err == nil {
		t.Fatalf("expected error for empty user id")
	}
}

func TestUpsertProfileNormalizesPhone(t *testing.T) {
	repo := newFakeProfileRepo()
	svc := NewService(repo)

	if err := svc.UpsertProfile(context.Background(), "user-1", "", "+90 532 111 22 33", ""); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	profile := repo.profiles["user-1"]
	if profile == nil || profile.Phone == nil || *profile.Phone != "905321112233" {
		t.Fatalf("expected normalized phone, got %+v", profile)
	}
	if profile.Email != nil {
		t.Fatalf("expected empty email to stay nil, got %q", *profile.Email)
	}
}

func TestUserIDByPhone(t *testing.T) {
	repo := newFakeProfileRepo()
	svc := NewService(repo)
	if err := svc.UpsertProfile(context.Background(), "user-1", "", "+905321112233", ""); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	userID, ok, err := svc.UserIDByPhone(context.Background(), "+90 532 111 2233")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !ok || userID != "user-1" {
		t.Fatalf("expected user-1, got %q (found=%v)", userID, ok)
	}

	userID, ok, err = svc.UserIDByPhone(context.Background(), "0532 111 22 33")
	if err != nil || !ok || userID != "user-1" {
		t.Fatalf("expected national format to resolve to user-1, got %q (found=%v err=%v)", userID, ok, err)
	}

	_, ok, err = svc.UserIDByPhone(context.Background(), "+100")
	if err != nil || ok {
		t.Fatalf("expected unknown phone to be not found, got ok=%v err=%v", ok, err)
	}
}

func TestPhoneByUserID(t *testing.T) {
	repo := newFakeProfileRepo()
	svc := NewService(repo)
	if err := svc.UpsertProfile(context.Background(), "user-1", "", "0532 111 22 33", ""); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if err := svc.UpsertProfile(context.Background(), "user-2", "b@example.com", "", ""); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	phone, ok, err := svc.PhoneByUserID(context.Background(), "user-1")
	if err != nil || !ok || phone != "905321112233" {
		t.Fatalf("expected 905321112233, got %q (found=%v err=%v)", phone, ok, err)
	}
	if _, ok, err := svc.PhoneByUserID(context.Background(), "user-2"); err != nil || ok {
		t.Fatalf("expected user without phone to be not found, got ok=%v err=%v", ok, err)
	}
	if _, ok, err := svc.PhoneByUserID(context.Background(), "missing"); err != nil || ok {
		t.Fatalf("expected missing profile to be not found, got ok=%v err=%v", ok, err)
	}
}

func TestUserIDByPhoneRepositoryError(t *testing.T) {
	repo := newFakeProfileRepo()
	repo.err = errors.New("boom")
	svc := NewService(repo)

	if _, _, err := svc.UserIDByPhone(context.Background(), "+905321112233"); err == nil {
		t.Fatalf("expected repository error")
	}
}
