package firebase

import (
	"context"

	"firebase.google.com/go/v4/auth"
)

// AuthClient verifies the bearer credential carried by HTTP requests and
// websocket handshakes.
type AuthClient struct {
	client *auth.Client
}

func NewAuthClient(client *auth.Client) *AuthClient {
	return &AuthClient{
		client: client,
	}
}

// VerifyToken validates the ID token and returns the uid it belongs to.
func (f *AuthClient) VerifyToken(ctx context.Context, token string) (string, error) {
	result, err := f.client.VerifyIDToken(ctx, token)
	if err != nil {
		return "", err
	}

	return result.UID, nil
}
