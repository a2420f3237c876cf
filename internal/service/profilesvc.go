package service

import (
	"context"
	"net/mail"
	"strings"

	"friendfeed/internal/domain"
)

type ProfileService struct {
	Users UsersStore
}

func (s *ProfileService) Get(ctx context.Context, userID string) (domain.User, error) {
	return s.Users.GetUserByID(ctx, userID)
}

// Update applies the settings form for the owning user. Email uniqueness is
// re-checked by the store (ErrEmailTaken on conflict).
func (s *ProfileService) Update(ctx context.Context, userID string, upd domain.ProfileUpdate) (domain.User, error) {
	upd.Username = strings.TrimSpace(upd.Username)
	upd.Email = strings.TrimSpace(strings.ToLower(upd.Email))

	fields := map[string]string{}
	if !ValidUsername(upd.Username) {
		fields["username"] = "must be 3-24 chars [A-Za-z0-9_]"
	}
	if _, err := mail.ParseAddress(upd.Email); err != nil {
		fields["email"] = "must be a valid email address"
	}
	for _, f := range []struct{ name, v string }{
		{"job", upd.Job}, {"home", upd.Home}, {"last_studies", upd.LastStudies},
	} {
		if len(f.v) > 100 {
			fields[f.name] = "must be 100 characters or less"
		}
	}
	switch upd.Gender {
	case "", "Male", "Female", "Other":
	default:
		fields["gender"] = "must be Male, Female or Other"
	}
	if len(fields) > 0 {
		return domain.User{}, domain.NewValidationError(fields)
	}

	return s.Users.UpdateProfile(ctx, userID, upd)
}

// SetImage records a new profile picture filename produced by the imaging
// layer.
func (s *ProfileService) SetImage(ctx context.Context, userID, imageFile string) error {
	if strings.TrimSpace(imageFile) == "" {
		return domain.NewValidationError(map[string]string{"picture": "file is required"})
	}
	return s.Users.SetImageFile(ctx, userID, imageFile)
}

func ValidUsername(s string) bool {
	if len(s) < 3 || len(s) > 24 {
		return false
	}
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
		case r == '_':
		default:
			return false
		}
	}
	return true
}
