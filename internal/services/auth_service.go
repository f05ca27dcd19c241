package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	authorizer "github.com/localnerve/authorizer-go"
	"github.com/rs/zerolog"

	"github.com/continuum-journal/continuum/internal/apperror"
	"github.com/continuum-journal/continuum/internal/config"
	"github.com/continuum-journal/continuum/internal/models"
	"github.com/continuum-journal/continuum/internal/utils"
)

// Authenticator validates bearer tokens against the Authorizer identity
// provider and lazily creates users on first sight of a new subject.
type Authenticator struct {
	client      *authorizer.AuthorizerClient
	content     *Content
	userInfoURL string
	httpClient  *http.Client
	log         zerolog.Logger
}

// NewAuthenticator pings the Authorizer service and constructs the client.
func NewAuthenticator(cfg *config.Config, content *Content, log zerolog.Logger) (*Authenticator, error) {
	if err := utils.PingAuthorizer(cfg.AuthzURL); err != nil {
		return nil, fmt.Errorf("authorizer ping failed: %w", err)
	}

	client, err := authorizer.NewAuthorizerClient(cfg.AuthzClientID, cfg.AuthzURL, "", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create authorizer client: %w", err)
	}

	return &Authenticator{
		client:      client,
		content:     content,
		userInfoURL: cfg.AuthzUserInfoURL,
		httpClient:  &http.Client{Timeout: 5 * time.Second},
		log:         log.With().Str("component", "auth").Logger(),
	}, nil
}

// Authenticate validates the bearer token and resolves it to a user,
// creating one on the first successful authentication of a new subject.
// A new user is onboarded when a profile email can be obtained; failure
// to reach the userinfo endpoint never fails authentication itself.
func (a *Authenticator) Authenticate(ctx context.Context, token string) (*models.User, map[string]interface{}, error) {
	if token == "" {
		return nil, nil, apperror.AuthFailed("missing bearer token")
	}

	res, err := a.client.ValidateJWTToken(&authorizer.ValidateJWTTokenInput{
		TokenType: authorizer.TokenTypeAccessToken,
		Token:     token,
	})
	if err != nil {
		return nil, nil, apperror.AuthFailed(fmt.Sprintf("token validation failed: %v", err))
	}
	if res == nil || !res.IsValid {
		return nil, nil, apperror.AuthFailed("token is not valid")
	}

	sub, _ := res.Claims["sub"].(string)
	if sub == "" {
		return nil, nil, apperror.AuthFailed("token has no subject claim")
	}

	var user models.User
	if err := a.content.db.Where(models.User{Sub: sub}).FirstOrCreate(&user).Error; err != nil {
		return nil, nil, err
	}

	// Email doubles as the never-onboarded marker: it is backfilled in
	// the same transaction that creates the onboarding tag, so a skipped
	// or failed onboarding is retried on a later request.
	if user.Email == "" {
		a.tryOnboard(ctx, &user, token)
	}

	return &user, res.Claims, nil
}

// tryOnboard fetches the provider profile and seeds starter content.
// Any failure here is logged and swallowed; the request proceeds
// authenticated either way.
func (a *Authenticator) tryOnboard(ctx context.Context, user *models.User, token string) {
	onboarded, err := a.content.HasOnboarded(user.ID)
	if err != nil {
		a.log.Error().Err(err).Str("user_id", user.ID.String()).Msg("onboarding lookup failed")
		return
	}
	if onboarded {
		return
	}

	email, err := a.fetchEmail(ctx, token)
	if err != nil {
		a.log.Warn().Err(err).Str("user_id", user.ID.String()).Msg("userinfo fetch failed, skipping onboarding")
		return
	}
	if email == "" {
		return
	}

	if err := a.content.OnboardUser(user, email); err != nil {
		a.log.Error().Err(err).Str("user_id", user.ID.String()).Msg("onboarding failed")
		return
	}
	a.log.Info().Str("user_id", user.ID.String()).Msg("user onboarded")
}

// fetchEmail calls the provider's userinfo endpoint with the same bearer
// token the request carried.
func (a *Authenticator) fetchEmail(ctx context.Context, token string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.userInfoURL, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("userinfo endpoint returned %d", resp.StatusCode)
	}

	var userInfo struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&userInfo); err != nil {
		return "", err
	}
	return userInfo.Email, nil
}
