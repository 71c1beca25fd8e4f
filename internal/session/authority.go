package session

import (
	"strings"

	apperr "forcedlogin/cli/internal/errors"
)

// AuthorityKind selects which accounts may sign in.
type AuthorityKind int

const (
	// ConsumerAndOrg accepts work, school and personal Microsoft accounts.
	ConsumerAndOrg AuthorityKind = iota
	// MultiOrg accepts work and school accounts from any tenant.
	MultiOrg
	// SingleOrg accepts accounts from one tenant only.
	SingleOrg
)

const loginHost = "https://login.microsoftonline.com/"

// Authority is the validated sign-in audience.
type Authority struct {
	Kind   AuthorityKind
	Tenant string
}

// ParseAuthority builds an Authority from the config strings
// "consumers_and_orgs", "multi_org" and "single_org".
func ParseAuthority(mode, tenant string) (Authority, error) {
	var a Authority
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "", "consumers_and_orgs":
		a = Authority{Kind: ConsumerAndOrg}
	case "multi_org":
		a = Authority{Kind: MultiOrg}
	case "single_org":
		a = Authority{Kind: SingleOrg, Tenant: strings.TrimSpace(tenant)}
	default:
		return a, apperr.New(apperr.InvalidConfig, "unknown authority mode "+mode)
	}
	if a.Kind != SingleOrg && strings.TrimSpace(tenant) != "" {
		return a, apperr.New(apperr.InvalidConfig, "tenant is only valid with single_org")
	}
	return a, a.Validate()
}

// Validate checks the tenant rules of each kind.
func (a Authority) Validate() error {
	switch a.Kind {
	case ConsumerAndOrg, MultiOrg:
		if a.Tenant != "" {
			return apperr.New(apperr.InvalidConfig, "tenant is only valid with single_org")
		}
	case SingleOrg:
		if a.Tenant == "" {
			return apperr.New(apperr.InvalidConfig, "single_org requires a tenant")
		}
		if strings.ContainsAny(a.Tenant, "/?# ") {
			return apperr.New(apperr.InvalidConfig, "tenant must be a domain or tenant id")
		}
	default:
		return apperr.New(apperr.InvalidConfig, "unknown authority kind")
	}
	return nil
}

// URL is the authority endpoint handed to the provider.
func (a Authority) URL() string {
	switch a.Kind {
	case MultiOrg:
		return loginHost + "organizations"
	case SingleOrg:
		return loginHost + a.Tenant
	default:
		return loginHost + "common"
	}
}

func (a Authority) String() string {
	switch a.Kind {
	case MultiOrg:
		return "multi_org"
	case SingleOrg:
		return "single_org(" + a.Tenant + ")"
	default:
		return "consumers_and_orgs"
	}
}
