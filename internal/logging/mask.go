// Copyright (c) 2025 Forcedlogin
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package logging provides utilities for secure logging and error presentation.
// It configures the process logger, masks sensitive information in log messages and
// formats errors for user-friendly display while protecting tokens and secrets.
//
// The package helps ensure that sensitive data like access tokens, client secrets and
// passwords are not accidentally exposed in logs or error messages shown to users.
package logging

import (
	"regexp"
	"strings"
)

var (
	rePassword = regexp.MustCompile(`(?i)(password=)([^\s;&]+)`)
	reToken    = regexp.MustCompile(`(?i)(token=|bearer\s+)([A-Za-z0-9._-]+)`)
	reJWT      = regexp.MustCompile(`eyJ[A-Za-z0-9_-]+\.[A-Za-z0-9_-]+\.[A-Za-z0-9_-]*`)
	reSecret   = regexp.MustCompile(`(?i)(client_secret=|apikey=|api_key=)([^\s;&]+)`)
)

// Mask replaces sensitive values in the input string with "*".
// Bare JWTs are masked wherever they appear.
func Mask(s string) string {
	out := s
	out = rePassword.ReplaceAllString(out, "$1***")
	out = reToken.ReplaceAllString(out, "$1***")
	out = reSecret.ReplaceAllString(out, "$1***")
	out = reJWT.ReplaceAllString(out, "***")
	for _, k := range []string{"AZURE_CLIENT_SECRET", "FORCEDLOGIN_TOKEN"} {
		out = strings.ReplaceAll(out, k+"=", k+"=***")
	}
	return out
}

// MaskToken shortens a token for display, keeping only a recognizable prefix.
func MaskToken(token string) string {
	if len(token) <= 12 {
		return "***"
	}
	return token[:8] + "…" + "***"
}
