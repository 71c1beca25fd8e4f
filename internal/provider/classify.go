package provider

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	msalerrors "github.com/AzureAD/microsoft-authentication-library-for-go/apps/errors"

	apperr "forcedlogin/cli/internal/errors"
)

var (
	cancelMarkers     = []string{"access_denied", "authentication_canceled", "user_cancel"}
	uiRequiredMarkers = []string{"invalid_grant", "interaction_required", "login_required", "consent_required", "no token found"}
)

func containsAny(err error, markers []string) bool {
	msg := strings.ToLower(err.Error())
	for _, m := range markers {
		if strings.Contains(msg, m) {
			return true
		}
	}
	return false
}

// classifyInteractive maps interactive sign-in failures. Interrupting the
// command or declining in the browser counts as a user cancellation. Running
// out of time does not.
func classifyInteractive(err error) error {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return apperr.Wrap(apperr.Unknown, "interactive sign-in timed out", err)
	case errors.Is(err, context.Canceled):
		return apperr.Wrap(apperr.CancelledByUser, "interactive sign-in interrupted", err)
	case containsAny(err, cancelMarkers):
		return apperr.Wrap(apperr.CancelledByUser, "interactive sign-in cancelled", err)
	default:
		return apperr.Wrap(apperr.Unknown, "interactive sign-in failed", err)
	}
}

// classifySilent separates "the user has to sign in again" from everything else.
func classifySilent(err error) error {
	var callErr msalerrors.CallErr
	if errors.As(err, &callErr) && callErr.Resp != nil {
		switch callErr.Resp.StatusCode {
		case http.StatusBadRequest, http.StatusUnauthorized:
			return apperr.Wrap(apperr.UIRequired, "token endpoint rejected refresh", err)
		}
	}
	if containsAny(err, uiRequiredMarkers) {
		return apperr.Wrap(apperr.UIRequired, "silent sign-in needs interaction", err)
	}
	return apperr.Wrap(apperr.Unknown, "silent sign-in failed", err)
}

// classifyIntegrated maps azidentity failures.
func classifyIntegrated(err error) error {
	var required *azidentity.AuthenticationRequiredError
	var failed *azidentity.AuthenticationFailedError
	switch {
	case errors.As(err, &required), errors.As(err, &failed):
		return apperr.Wrap(apperr.UIRequired, "integrated credential rejected", err)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return apperr.Wrap(apperr.Unknown, "integrated sign-in interrupted", err)
	case strings.Contains(err.Error(), "DefaultAzureCredential"), containsAny(err, uiRequiredMarkers):
		return apperr.Wrap(apperr.UIRequired, "no usable integrated credential", err)
	default:
		return apperr.Wrap(apperr.Unknown, "integrated sign-in failed", err)
	}
}
