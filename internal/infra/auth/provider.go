// Package auth provides the OAuth2-backed identity provider.
package auth

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	zlog "github.com/rs/zerolog/log"
	"golang.org/x/oauth2"

	"github.com/tunedeck/tunedeck/internal/domain/identity"
)

// Config represents identity provider configuration.
type Config struct {
	ClientID     string
	ClientSecret string
	RefreshToken string
	TokenURL     string
	UserInfoURL  string
}

// userInfoResponse represents the userinfo endpoint payload.
type userInfoResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Provider signs users in and out against an OAuth2 identity provider and
// delivers every identity change to subscribers. Each subscription receives
// the current identity once on registration.
type Provider struct {
	conf         *oauth2.Config
	refreshToken string
	userInfoURL  string
	httpClient   *http.Client

	mu          sync.Mutex
	current     *identity.Identity
	subscribers map[string]chan *identity.Identity
}

// New creates a new identity provider.
func New(cfg Config) (*Provider, error) {
	if cfg.ClientID == "" || cfg.ClientSecret == "" {
		return nil, errors.New("auth client credentials are required")
	}
	if cfg.TokenURL == "" || cfg.UserInfoURL == "" {
		return nil, errors.New("auth endpoints are required")
	}

	return &Provider{
		conf: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			Endpoint:     oauth2.Endpoint{TokenURL: cfg.TokenURL},
		},
		refreshToken: cfg.RefreshToken,
		userInfoURL:  cfg.UserInfoURL,
		httpClient:   &http.Client{Timeout: 10 * time.Second},
		subscribers:  make(map[string]chan *identity.Identity),
	}, nil
}

// SignIn exchanges the refresh token for an access token, resolves the user
// behind it, and publishes the new identity to subscribers.
func (p *Provider) SignIn(ctx context.Context) (*identity.Identity, error) {
	if p.refreshToken == "" {
		return nil, errors.New("no refresh token configured")
	}

	ts := p.conf.TokenSource(ctx, &oauth2.Token{RefreshToken: p.refreshToken})
	tok, err := ts.Token()
	if err != nil {
		return nil, errors.Wrap(err, "failed to obtain access token")
	}

	info, err := p.fetchUserInfo(ctx, tok.AccessToken)
	if err != nil {
		return nil, errors.Wrap(err, "failed to fetch user info")
	}
	if info.ID == "" {
		return nil, errors.New("userinfo response has no user id")
	}

	id := identity.New(info.ID, info.Name)
	p.publish(id)
	zlog.Info().Msgf("signed in: user_id=%s display_name=%s", id.UserID, id.DisplayName)
	return id, nil
}

// SignOut clears the current identity and publishes the change.
func (p *Provider) SignOut(ctx context.Context) error {
	p.publish(nil)
	zlog.Info().Msg("signed out")
	return nil
}

// Current returns the current identity, or nil when signed out.
func (p *Provider) Current() *identity.Identity {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.current
}

// Subscribe registers an identity-change subscription. The channel receives
// the current identity immediately and every change afterwards. The
// returned cancel function tears the subscription down and closes the
// channel.
func (p *Provider) Subscribe() (<-chan *identity.Identity, func()) {
	ch := make(chan *identity.Identity, 8)

	p.mu.Lock()
	id := uuid.New().String()
	p.subscribers[id] = ch
	ch <- p.current
	p.mu.Unlock()

	cancel := func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		if sub, ok := p.subscribers[id]; ok {
			delete(p.subscribers, id)
			close(sub)
		}
	}
	return ch, cancel
}

// publish updates the current identity and fans the change out. A slow
// subscriber with a full channel misses the intermediate state rather than
// blocking the publisher.
func (p *Provider) publish(id *identity.Identity) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.current = id
	for subID, ch := range p.subscribers {
		select {
		case ch <- id:
		default:
			zlog.Warn().Msgf("identity subscriber is not keeping up, dropping update: subscription_id=%s", subID)
		}
	}
}

// fetchUserInfo resolves the user behind an access token.
func (p *Provider) fetchUserInfo(ctx context.Context, accessToken string) (*userInfoResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.userInfoURL, nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create request")
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "failed to send request")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read response body")
	}
	if resp.StatusCode != http.StatusOK {
		return nil, errors.Newf("userinfo request failed with status %d", resp.StatusCode)
	}

	var info userInfoResponse
	if err := json.Unmarshal(body, &info); err != nil {
		return nil, errors.Wrap(err, "failed to parse userinfo response")
	}
	return &info, nil
}
