package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"cebim/internal/log"
)

const userinfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

// GoogleConfig holds the OAuth client registration.
type GoogleConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
}

// Google performs the authorization-code flow against Google and resolves
// the signed-in user's email address.
type Google struct {
	cfg    *oauth2.Config
	logger *log.Logger
}

func NewGoogle(cfg GoogleConfig, logger *log.Logger) *Google {
	return &Google{
		cfg: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       []string{"openid", "email"},
			Endpoint:     google.Endpoint,
		},
		logger: logger.WithComponent(log.ComponentAuth),
	}
}

// AuthURL returns the Google consent page URL bound to state.
func (g *Google) AuthURL(state string) string {
	return g.cfg.AuthCodeURL(state, oauth2.AccessTypeOnline)
}

// Email exchanges the authorization code and fetches the account email.
func (g *Google) Email(ctx context.Context, code string) (string, error) {
	token, err := g.cfg.Exchange(ctx, code)
	if err != nil {
		return "", fmt.Errorf("token exchange: %w", err)
	}

	client := g.cfg.Client(ctx, token)
	resp, err := client.Get(userinfoURL)
	if err != nil {
		return "", fmt.Errorf("fetch userinfo: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		g.logger.WarnContext(ctx, "userinfo request rejected", "status", resp.StatusCode)
		return "", fmt.Errorf("fetch userinfo: status %d", resp.StatusCode)
	}

	var info struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return "", fmt.Errorf("decode userinfo: %w", err)
	}
	if info.Email == "" {
		return "", fmt.Errorf("userinfo response has no email")
	}
	return info.Email, nil
}

// NewState returns a random URL-safe state value for the OAuth redirect.
func NewState() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate state: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
