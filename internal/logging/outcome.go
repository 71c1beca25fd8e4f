// Copyright (c) 2025 Forcedlogin
// Licensed under the MIT License. See LICENSE file in the project root for details.

package logging

import (
	"strings"

	"github.com/pterm/pterm"

	"forcedlogin/cli/internal/session"
)

// FormatLoginOutcome renders a failed login for the terminal. Success is
// rendered by the caller as a greeting, so it returns "".
func FormatLoginOutcome(result session.LoginResult) string {
	var builder strings.Builder

	switch result {
	case session.LoginSucceeded:
		return ""

	case session.LoginNoNetwork:
		builder.WriteString(pterm.NewStyle(pterm.FgRed, pterm.Bold).Sprint("No network connection"))
		builder.WriteString("\n\n")
		builder.WriteString("Signing in needs to reach Microsoft Entra ID, but no network interface is up.\n")
		builder.WriteString("Check that you are connected and that a VPN or proxy is not blocking traffic.\n")

	case session.LoginCancelledByUser:
		builder.WriteString(pterm.NewStyle(pterm.FgYellow, pterm.Bold).Sprint("Sign-in cancelled"))
		builder.WriteString("\n\n")
		builder.WriteString("The sign-in was declined in the browser or interrupted before it finished.\n")

	default:
		builder.WriteString(pterm.NewStyle(pterm.FgRed, pterm.Bold).Sprint("Sign-in failed"))
		builder.WriteString("\n\n")
		builder.WriteString("The identity provider could not complete the sign-in.\n")
		builder.WriteString("Run with FORCEDLOGIN_VERBOSE=1 to see the provider's error.\n")
	}

	builder.WriteString("\n")
	builder.WriteString(pterm.NewStyle(pterm.FgYellow).Sprint("→ Please run 'forcedlogin login' again"))
	return builder.String()
}
