// Copyright (c) 2025 Forcedlogin
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package profile builds the signed-in user's profile view and the related
// people list from Graph data, keeping the last fetched profile in a local cache
// so it can be shown offline.
package profile

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/sirupsen/logrus"

	"forcedlogin/cli/internal/cache"
	apperr "forcedlogin/cli/internal/errors"
	"forcedlogin/cli/internal/imaging"
	"forcedlogin/cli/internal/session"
)

// CacheKey is the single key the profile is cached under.
const CacheKey = "IdentityUser"

// DefaultImage is shown when a record has no usable photo.
var DefaultImage = imaging.Asset("DefaultIcon.png")

// Record is the raw user record as fetched and cached. Photo is a base64
// photo reference and may be empty.
type Record struct {
	ID                string `json:"id,omitempty"`
	DisplayName       string `json:"displayName,omitempty"`
	UserPrincipalName string `json:"userPrincipalName,omitempty"`
	Photo             string `json:"photo,omitempty"`
}

// UserProfile is the display view of a Record.
type UserProfile struct {
	DisplayName   string
	PrincipalName string
	Photo         imaging.Image
}

// TokenSource hands out access tokens. An empty token means unauthenticated.
type TokenSource interface {
	GetAccessToken(ctx context.Context) string
	AccountDisplayName() string
}

// DataSource fetches records from the remote directory.
type DataSource interface {
	GetUserInfo(ctx context.Context, token string) (*Record, error)
	GetRelatedPeople(ctx context.Context, token string) ([]Record, error)
	// GetPhoto returns the photo of userID, or of the signed-in user when userID is "".
	GetPhoto(ctx context.Context, token, userID string) (string, error)
}

// ImageResolver decodes a non-empty photo reference.
type ImageResolver interface {
	Resolve(ref string) (imaging.Image, error)
}

// Service composes the token source, data source, cache and image resolver.
type Service struct {
	tokens TokenSource
	remote DataSource
	store  cache.Store
	images ImageResolver
}

// NewService wires a Service.
func NewService(tokens TokenSource, remote DataSource, store cache.Store, images ImageResolver) *Service {
	return &Service{tokens: tokens, remote: remote, store: store, images: images}
}

// GetCachedProfile returns the last profile fetched from the remote, or nil
// when nothing is cached. It never touches the network.
func (s *Service) GetCachedProfile(ctx context.Context) (*UserProfile, error) {
	rec, err := s.load()
	if err != nil {
		return nil, err
	}
	return s.toProfile(rec), nil
}

// GetProfileFromRemote fetches the signed-in user and their photo and refreshes
// the cache. It returns nil, nil when no access token is available.
func (s *Service) GetProfileFromRemote(ctx context.Context) (*UserProfile, error) {
	token := s.tokens.GetAccessToken(ctx)
	if token == "" {
		logrus.Debug("no access token, skipping remote profile")
		return nil, nil
	}

	rec, err := s.remote.GetUserInfo(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("fetching user info: %w", err)
	}
	if rec == nil {
		return nil, nil
	}

	rec.Photo = s.fetchPhoto(ctx, token, "")

	s.save(rec)
	return s.toProfile(rec), nil
}

// GetRelatedPeople fetches the people related to the signed-in user with their
// photos. It returns nil, nil when no access token is available.
func (s *Service) GetRelatedPeople(ctx context.Context) ([]UserProfile, error) {
	token := s.tokens.GetAccessToken(ctx)
	if token == "" {
		logrus.Debug("no access token, skipping related people")
		return nil, nil
	}

	records, err := s.remote.GetRelatedPeople(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("fetching related people: %w", err)
	}

	out := make([]UserProfile, 0, len(records))
	for i := range records {
		records[i].Photo = s.fetchPhoto(ctx, token, records[i].ID)
		out = append(out, *s.toProfile(&records[i]))
	}
	return out, nil
}

// fetchPhoto returns the photo reference for userID, or "" when it cannot be fetched.
func (s *Service) fetchPhoto(ctx context.Context, token, userID string) string {
	ref, err := s.remote.GetPhoto(ctx, token, userID)
	if err != nil {
		logrus.WithError(err).WithField("user_id", userID).Warn("fetching photo")
		return ""
	}
	return ref
}

// GetDefaultProfile is the placeholder shown before any profile is known.
func (s *Service) GetDefaultProfile() UserProfile {
	return UserProfile{
		DisplayName: s.tokens.AccountDisplayName(),
		Photo:       DefaultImage,
	}
}

// OnSessionEvent clears the cached profile when the user logs out.
func (s *Service) OnSessionEvent(e session.Event) {
	if e != session.LoggedOut {
		return
	}
	s.save(nil)
}

func (s *Service) load() (*Record, error) {
	data, err := s.store.Get(CacheKey)
	if err != nil {
		return nil, apperr.Wrap(apperr.PersistenceFailure, "reading cached profile", err)
	}
	if len(data) == 0 {
		return nil, nil
	}
	var rec *Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, apperr.Wrap(apperr.PersistenceFailure, "decoding cached profile", err)
	}
	return rec, nil
}

// save persists rec, or removes the cached profile when rec is nil.
// Failures are logged only.
func (s *Service) save(rec *Record) {
	var err error
	if rec == nil {
		err = s.store.Delete(CacheKey)
	} else {
		var data []byte
		if data, err = json.Marshal(rec); err == nil {
			err = s.store.Put(CacheKey, data)
		}
	}
	if err != nil {
		logrus.WithError(apperr.Wrap(apperr.PersistenceFailure, "updating profile cache", err)).
			WithField("key", CacheKey).Warn("profile cache not updated")
	}
}

func (s *Service) toProfile(rec *Record) *UserProfile {
	if rec == nil {
		return nil
	}
	return &UserProfile{
		DisplayName:   rec.DisplayName,
		PrincipalName: rec.UserPrincipalName,
		Photo:         s.photo(rec.Photo),
	}
}

func (s *Service) photo(ref string) imaging.Image {
	if ref == "" {
		return DefaultImage
	}
	img, err := s.images.Resolve(ref)
	if err != nil {
		logrus.WithError(err).Debug("unreadable photo, using default")
		return DefaultImage
	}
	return img
}
