package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/go-resty/resty/v2"
)

// RemoteProvider validates session tokens against a hosted identity service
type RemoteProvider struct {
	baseURL string
	apiKey  string
	client  *resty.Client
}

func NewRemoteProvider(baseURL, apiKey string) *RemoteProvider {
	return &RemoteProvider{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  resty.New(),
	}
}

// Verify asks the identity service to introspect the session token
func (p *RemoteProvider) Verify(token string) (*Identity, error) {
	resp, err := p.client.R().
		SetHeader("Authorization", "Bearer "+p.apiKey).
		SetBody(map[string]string{"token": token}).
		Post(p.baseURL + "/sessions/verify")
	if err != nil {
		log.Printf("Identity provider unreachable: %v", err)
		return nil, fmt.Errorf("identity provider unreachable: %w", err)
	}
	if resp.StatusCode() != 200 {
		return nil, errors.New("invalid or expired session token")
	}

	var verifyResp struct {
		UserID       string `json:"user_id"`
		Email        string `json:"email"`
		Name         string `json:"name"`
		ProfileImage string `json:"profile_image"`
	}
	if err := json.Unmarshal(resp.Body(), &verifyResp); err != nil {
		return nil, fmt.Errorf("invalid identity response: %w", err)
	}
	if verifyResp.UserID == "" {
		return nil, errors.New("identity response missing subject")
	}

	return &Identity{
		ExternalID:   verifyResp.UserID,
		Email:        verifyResp.Email,
		Name:         verifyResp.Name,
		ProfileImage: verifyResp.ProfileImage,
	}, nil
}
