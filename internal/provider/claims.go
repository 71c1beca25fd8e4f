package provider

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"

	"forcedlogin/cli/internal/session"
)

var (
	usernameClaims = []string{"upn", "preferred_username", "unique_name", "email"}
	idClaims       = []string{"oid", "sub"}
)

// accountFromClaims reads the account identity from an access token without
// verifying it. The token came straight from the credential and is only used
// for display; Graph validates it on every call.
func accountFromClaims(token string) (session.Account, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return session.Account{}, err
	}

	a := session.Account{
		ID:       firstClaim(claims, idClaims),
		Username: firstClaim(claims, usernameClaims),
	}
	if a.ID == "" && a.Username == "" {
		return a, errors.New("token has no identity claims")
	}
	return a, nil
}

func firstClaim(claims jwt.MapClaims, names []string) string {
	for _, n := range names {
		if v, ok := claims[n].(string); ok && v != "" {
			return v
		}
	}
	return ""
}
