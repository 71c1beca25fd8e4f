// Copyright (c) 2025 Forcedlogin
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package graph reads the signed-in user's profile, related people and photos
// from Microsoft Graph. Every call takes the access token to use; the package
// never acquires or refreshes tokens itself.
package graph

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"

	"github.com/microsoftgraph/msgraph-sdk-go/models"
	"github.com/microsoftgraph/msgraph-sdk-go/models/odataerrors"
	"github.com/sirupsen/logrus"

	"forcedlogin/cli/internal/profile"
)

// Source implements profile.DataSource over msgraph-sdk-go.
type Source struct {
	newClient func(token string) (client, error)
}

var _ profile.DataSource = (*Source)(nil)

// New returns a Source that talks to the public Graph endpoint.
func New() *Source {
	return &Source{newClient: newSDKClient}
}

func (s *Source) client(token string) (client, error) {
	c, err := s.newClient(token)
	if err != nil {
		return nil, fmt.Errorf("creating graph client: %w", err)
	}
	return c, nil
}

// GetUserInfo returns the signed-in user's record without a photo.
func (s *Source) GetUserInfo(ctx context.Context, token string) (*profile.Record, error) {
	c, err := s.client(token)
	if err != nil {
		return nil, err
	}
	u, err := c.Me(ctx)
	if err != nil {
		return nil, fmt.Errorf("get /me: %w", describe(err))
	}
	return userRecord(u), nil
}

// GetRelatedPeople returns the people most relevant to the signed-in user.
func (s *Source) GetRelatedPeople(ctx context.Context, token string) ([]profile.Record, error) {
	c, err := s.client(token)
	if err != nil {
		return nil, err
	}
	people, err := c.People(ctx)
	if err != nil {
		return nil, fmt.Errorf("get /me/people: %w", describe(err))
	}
	out := make([]profile.Record, 0, len(people))
	for _, p := range people {
		if p == nil {
			continue
		}
		out = append(out, personRecord(p))
	}
	logrus.WithField("count", len(out)).Debug("fetched related people")
	return out, nil
}

// GetPhoto returns the base64 photo of userID, or of the signed-in user when
// userID is empty. A user without a photo yields "".
func (s *Source) GetPhoto(ctx context.Context, token, userID string) (string, error) {
	c, err := s.client(token)
	if err != nil {
		return "", err
	}
	data, err := c.Photo(ctx, userID)
	if err != nil {
		if statusOf(err) == http.StatusNotFound {
			logrus.WithField("user_id", userID).Debug("no profile photo")
			return "", nil
		}
		return "", fmt.Errorf("get photo: %w", describe(err))
	}
	if len(data) == 0 {
		return "", nil
	}
	return base64.StdEncoding.EncodeToString(data), nil
}

func userRecord(u models.Userable) *profile.Record {
	if u == nil {
		return nil
	}
	return &profile.Record{
		ID:                deref(u.GetId()),
		DisplayName:       deref(u.GetDisplayName()),
		UserPrincipalName: deref(u.GetUserPrincipalName()),
	}
}

func personRecord(p models.Personable) profile.Record {
	return profile.Record{
		ID:                deref(p.GetId()),
		DisplayName:       deref(p.GetDisplayName()),
		UserPrincipalName: deref(p.GetUserPrincipalName()),
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func statusOf(err error) int {
	var oe *odataerrors.ODataError
	if errors.As(err, &oe) {
		return oe.ResponseStatusCode
	}
	return 0
}

// describe surfaces the Graph error code and message, which ODataError.Error() omits.
func describe(err error) error {
	var oe *odataerrors.ODataError
	if !errors.As(err, &oe) {
		return err
	}
	detail := oe.GetErrorEscaped()
	if detail == nil {
		return err
	}
	return fmt.Errorf("%d %s: %s: %w", oe.ResponseStatusCode, deref(detail.GetCode()), deref(detail.GetMessage()), err)
}
