// Copyright (c) 2025 Forcedlogin
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package session owns the signed-in user's session: interactive login, silent
// re-authentication, token expiry detection and logout against the identity provider.
//
// A Manager holds at most one Session in memory. Absence of a Session means the
// caller is logged out. Observers registered with Subscribe are told about LoggedIn
// and LoggedOut transitions synchronously.
package session

import (
	"context"
	"time"
)

// Scopes is the fixed permission set requested from the provider.
var Scopes = []string{"User.Read"}

// Session is the current authentication result.
type Session struct {
	// ID correlates log lines for one session; it has no meaning to the provider.
	ID             string
	AccessToken    string
	ExpiresOn      time.Time
	AccountID      string
	Username       string
	IntegratedAuth bool
}

// Expired reports whether the access token is no longer usable at now.
func (s Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresOn)
}

// Account is an opaque provider account handle.
type Account struct {
	ID       string
	Username string
}

// Grant is one successful token acquisition.
type Grant struct {
	AccessToken string
	ExpiresOn   time.Time
	Account     Account
}

// Provider is the identity provider capability the Manager drives.
// Failures are reported as *errors.E with kinds CancelledByUser, UIRequired or Unknown.
type Provider interface {
	Accounts(ctx context.Context) ([]Account, error)
	AcquireInteractive(ctx context.Context, scopes []string, account *Account) (Grant, error)
	AcquireSilent(ctx context.Context, scopes []string, account Account) (Grant, error)
	AcquireIntegrated(ctx context.Context, scopes []string) (Grant, error)
	RemoveAccount(ctx context.Context, account Account) error
}

// LoginResult is the outcome category of Login.
type LoginResult int

const (
	LoginSucceeded LoginResult = iota
	LoginNoNetwork
	LoginCancelledByUser
	LoginUnknownError
)

func (r LoginResult) String() string {
	switch r {
	case LoginSucceeded:
		return "success"
	case LoginNoNetwork:
		return "no_network"
	case LoginCancelledByUser:
		return "cancelled_by_user"
	default:
		return "unknown_error"
	}
}

// LoginOutcome is the immutable result of a login attempt.
// Session is set only when Result is LoginSucceeded.
type LoginOutcome struct {
	Result  LoginResult
	Session *Session
}

// Event is a session state change.
type Event int

const (
	LoggedIn Event = iota + 1
	LoggedOut
)

func (e Event) String() string {
	switch e {
	case LoggedIn:
		return "logged_in"
	case LoggedOut:
		return "logged_out"
	default:
		return "unknown"
	}
}
