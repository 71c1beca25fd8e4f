package graph

import (
	"context"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
	msgraphsdk "github.com/microsoftgraph/msgraph-sdk-go"
	"github.com/microsoftgraph/msgraph-sdk-go/models"
)

// Scope is the resource scope handed to the Graph SDK's authentication provider.
const Scope = "https://graph.microsoft.com/.default"

// client is the slice of the Graph API this package reads.
type client interface {
	Me(ctx context.Context) (models.Userable, error)
	People(ctx context.Context) ([]models.Personable, error)
	Photo(ctx context.Context, userID string) ([]byte, error)
}

// staticToken presents an already acquired access token as a credential.
// The session manager owns refresh, so the expiry only needs to outlive one call.
type staticToken string

func (t staticToken) GetToken(context.Context, policy.TokenRequestOptions) (azcore.AccessToken, error) {
	return azcore.AccessToken{Token: string(t), ExpiresOn: time.Now().Add(5 * time.Minute)}, nil
}

type sdkClient struct {
	gs *msgraphsdk.GraphServiceClient
}

func newSDKClient(token string) (client, error) {
	gs, err := msgraphsdk.NewGraphServiceClientWithCredentials(staticToken(token), []string{Scope})
	if err != nil {
		return nil, err
	}
	return &sdkClient{gs: gs}, nil
}

// GET /me
func (c *sdkClient) Me(ctx context.Context) (models.Userable, error) {
	return c.gs.Me().Get(ctx, nil)
}

// GET /me/people
func (c *sdkClient) People(ctx context.Context) ([]models.Personable, error) {
	resp, err := c.gs.Me().People().Get(ctx, nil)
	if err != nil {
		return nil, err
	}
	if resp == nil {
		return nil, nil
	}
	return resp.GetValue(), nil
}

// GET /me/photo/$value or /users/{id}/photo/$value
func (c *sdkClient) Photo(ctx context.Context, userID string) ([]byte, error) {
	if userID == "" {
		return c.gs.Me().Photo().Content().Get(ctx, nil)
	}
	return c.gs.Users().ByUserId(userID).Photo().Content().Get(ctx, nil)
}
