// Package oauth exchanges provider authorization codes for user
// identities. Google and GitHub are supported.
package oauth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"corpsuite/internal/auth/config"
	"corpsuite/internal/auth/domain/model"
	"corpsuite/internal/auth/domain/repository"

	"github.com/valyala/fasthttp"
)

const requestTimeout = 10 * time.Second

// providerEndpoints holds the fixed URLs of one provider.
type providerEndpoints struct {
	tokenURI     string
	userinfoURI  string
	emailURI     string
	clientID     string
	clientSecret string
}

// Exchanger implements ProviderExchanger against the real provider APIs.
type Exchanger struct {
	http        *fasthttp.Client
	redirectURL string
	providers   map[string]providerEndpoints
}

// NewExchanger builds an Exchanger from the configured provider credentials.
func NewExchanger(cfg *config.Config) *Exchanger {
	return &Exchanger{
		http:        &fasthttp.Client{},
		redirectURL: cfg.OAuthRedirectURL,
		providers: map[string]providerEndpoints{
			"google": {
				tokenURI:     "https://oauth2.googleapis.com/token",
				userinfoURI:  "https://www.googleapis.com/oauth2/v3/userinfo",
				clientID:     cfg.GoogleClientID,
				clientSecret: cfg.GoogleClientSecret,
			},
			"github": {
				tokenURI:     "https://github.com/login/oauth/access_token",
				userinfoURI:  "https://api.github.com/user",
				emailURI:     "https://api.github.com/user/emails",
				clientID:     cfg.GitHubClientID,
				clientSecret: cfg.GitHubClientSecret,
			},
		},
	}
}

var _ repository.ProviderExchanger = (*Exchanger)(nil)

// Exchange swaps the authorization code for the provider's user profile.
func (e *Exchanger) Exchange(ctx context.Context, provider, code string) (*model.OAuthProfile, error) {
	endpoints, ok := e.providers[provider]
	if !ok {
		return nil, fmt.Errorf("unsupported oauth provider: %s", provider)
	}

	accessToken, err := e.fetchAccessToken(endpoints, code)
	if err != nil {
		return nil, err
	}

	switch provider {
	case "google":
		return e.fetchGoogleProfile(endpoints, accessToken)
	default:
		return e.fetchGitHubProfile(endpoints, accessToken)
	}
}

func (e *Exchanger) fetchAccessToken(endpoints providerEndpoints, code string) (string, error) {
	form := url.Values{}
	form.Set("client_id", endpoints.clientID)
	form.Set("client_secret", endpoints.clientSecret)
	form.Set("code", code)
	form.Set("grant_type", "authorization_code")
	form.Set("redirect_uri", e.redirectURL)

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(endpoints.tokenURI)
	req.Header.SetMethod(fasthttp.MethodPost)
	req.Header.SetContentType("application/x-www-form-urlencoded")
	req.Header.Set(fasthttp.HeaderAccept, "application/json")
	req.SetBodyString(form.Encode())

	if err := e.http.DoTimeout(req, resp, requestTimeout); err != nil {
		return "", fmt.Errorf("token exchange failed: %w", err)
	}
	if resp.StatusCode() != fasthttp.StatusOK {
		return "", fmt.Errorf("token exchange failed with status %d", resp.StatusCode())
	}

	var body struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.Unmarshal(resp.Body(), &body); err != nil || body.AccessToken == "" {
		return "", fmt.Errorf("provider returned no access token")
	}
	return body.AccessToken, nil
}

func (e *Exchanger) fetchGoogleProfile(endpoints providerEndpoints, accessToken string) (*model.OAuthProfile, error) {
	var info struct {
		Sub     string `json:"sub"`
		Email   string `json:"email"`
		Name    string `json:"name"`
		Picture string `json:"picture"`
	}
	if err := e.getJSON(endpoints.userinfoURI, "Bearer "+accessToken, &info); err != nil {
		return nil, fmt.Errorf("failed to retrieve user info from Google: %w", err)
	}
	if info.Email == "" {
		return nil, model.ErrOAuthNoEmail
	}
	return &model.OAuthProfile{
		Provider:   "google",
		SubjectID:  info.Sub,
		Email:      info.Email,
		Name:       info.Name,
		PictureURL: info.Picture,
	}, nil
}

func (e *Exchanger) fetchGitHubProfile(endpoints providerEndpoints, accessToken string) (*model.OAuthProfile, error) {
	var info struct {
		ID        int64  `json:"id"`
		Email     string `json:"email"`
		Name      string `json:"name"`
		AvatarURL string `json:"avatar_url"`
	}
	if err := e.getJSON(endpoints.userinfoURI, "token "+accessToken, &info); err != nil {
		return nil, fmt.Errorf("failed to retrieve user info from GitHub: %w", err)
	}

	// The profile email is often private; fall back to the emails endpoint.
	if info.Email == "" && endpoints.emailURI != "" {
		var emails []struct {
			Email   string `json:"email"`
			Primary bool   `json:"primary"`
		}
		if err := e.getJSON(endpoints.emailURI, "token "+accessToken, &emails); err == nil {
			for _, entry := range emails {
				if entry.Primary {
					info.Email = entry.Email
					break
				}
			}
		}
	}
	if info.Email == "" {
		return nil, model.ErrOAuthNoEmail
	}

	return &model.OAuthProfile{
		Provider:   "github",
		SubjectID:  strconv.FormatInt(info.ID, 10),
		Email:      info.Email,
		Name:       info.Name,
		PictureURL: info.AvatarURL,
	}, nil
}

func (e *Exchanger) getJSON(uri, authorization string, out interface{}) error {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(uri)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set(fasthttp.HeaderAuthorization, authorization)
	req.Header.Set(fasthttp.HeaderAccept, "application/json")

	if err := e.http.DoTimeout(req, resp, requestTimeout); err != nil {
		return err
	}
	if resp.StatusCode() != fasthttp.StatusOK {
		return fmt.Errorf("request failed with status %d", resp.StatusCode())
	}
	return json.Unmarshal(resp.Body(), out)
}
