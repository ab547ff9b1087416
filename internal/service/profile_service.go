package service

import (
	"context"
	"net/url"
	"strings"
	"unicode/utf8"

	"firebase.google.com/go/v4/auth"
	"github.com/shinyyama/social-inbox/internal/model"
	"github.com/shinyyama/social-inbox/internal/repository"
	"go.uber.org/zap"
)

const maxFullNameLen = 200

// Identity is what the identity provider knows about a user.
type Identity struct {
	Email       string
	DisplayName string
	PhotoURL    string
}

type IdentityLookup interface {
	LookupIdentity(ctx context.Context, uid string) (*Identity, error)
}

type userGetter interface {
	GetUser(ctx context.Context, uid string) (*auth.UserRecord, error)
}

type firebaseIdentities struct {
	client userGetter
}

// NewFirebaseIdentityLookup reads identities from firebase auth. Pass the
// *auth.Client the auth middleware verifies tokens with.
func NewFirebaseIdentityLookup(client userGetter) IdentityLookup {
	return &firebaseIdentities{client: client}
}

func (f *firebaseIdentities) LookupIdentity(ctx context.Context, uid string) (*Identity, error) {
	user, err := f.client.GetUser(ctx, uid)
	if err != nil {
		return nil, err
	}
	if user.UserInfo == nil {
		return &Identity{}, nil
	}
	return &Identity{
		Email:       user.Email,
		DisplayName: user.DisplayName,
		PhotoURL:    user.PhotoURL,
	}, nil
}

// ProfileUpdate carries the editable fields. Nil leaves a field as it is.
type ProfileUpdate struct {
	FullName  *string
	AvatarURL *string
}

type ProfileService interface {
	Get(ctx context.Context, scope Scope) (*model.Profile, error)
	Update(ctx context.Context, scope Scope, upd ProfileUpdate) (*model.Profile, error)
}

type profileService struct {
	repo       repository.ProfileRepository
	identities IdentityLookup
	log        *zap.Logger
}

// NewProfileService wires the profile store. identities may be nil, in which
// case a missing profile starts without an email.
func NewProfileService(repo repository.ProfileRepository, identities IdentityLookup, log *zap.Logger) ProfileService {
	if log == nil {
		log = zap.NewNop()
	}
	return &profileService{repo: repo, identities: identities, log: log}
}

func (s *profileService) Get(ctx context.Context, scope Scope) (*model.Profile, error) {
	if err := scope.validate(); err != nil {
		return nil, err
	}
	p, err := s.repo.Find(ctx, scope.UserID)
	if err != nil {
		return nil, storeErr("find profile", err)
	}
	if p == nil {
		return s.defaultProfile(ctx, scope.UserID), nil
	}
	return p, nil
}

// defaultProfile is an empty name and avatar with the login email.
func (s *profileService) defaultProfile(ctx context.Context, uid string) *model.Profile {
	p := &model.Profile{ID: uid}
	if s.identities == nil {
		return p
	}
	id, err := s.identities.LookupIdentity(ctx, uid)
	if err != nil {
		s.log.Warn("identity lookup failed", zap.String("uid", uid), zap.Error(err))
		return p
	}
	p.Email = id.Email
	return p
}

func (s *profileService) Update(ctx context.Context, scope Scope, upd ProfileUpdate) (*model.Profile, error) {
	if err := scope.validate(); err != nil {
		return nil, err
	}
	p, err := s.Get(ctx, scope)
	if err != nil {
		return nil, err
	}
	if upd.FullName != nil {
		name := strings.TrimSpace(*upd.FullName)
		if utf8.RuneCountInString(name) > maxFullNameLen {
			return nil, validation("full name is longer than %d characters", maxFullNameLen)
		}
		p.FullName = name
	}
	if upd.AvatarURL != nil {
		avatar := strings.TrimSpace(*upd.AvatarURL)
		if avatar != "" && !isWebURL(avatar) {
			return nil, validation("avatar url must be an absolute http(s) url")
		}
		p.AvatarURL = avatar
	}
	if err := s.repo.Save(ctx, p); err != nil {
		return nil, storeErr("save profile", err)
	}
	return p, nil
}

func isWebURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return false
	}
	return u.Scheme == "http" || u.Scheme == "https"
}
