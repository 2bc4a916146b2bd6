package provider

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"google.golang.org/api/oauth2/v2"
	"google.golang.org/api/option"
)

var (
	ErrInvalidGoogleAudience = errors.New("invalid google audience")
)

// GoogleProfile is the identity extracted from a verified Google ID token.
type GoogleProfile struct {
	Email   string
	Name    string
	Picture string
}

// GoogleVerifier verifies a Google ID token and resolves the holder's profile.
type GoogleVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*GoogleProfile, error)
}

// GoogleOAuthProvider verifies ID tokens against a configured OAuth client id.
type GoogleOAuthProvider struct {
	clientID string
}

// NewGoogleOAuthProvider creates a verifier bound to clientID as the expected
// token audience.
func NewGoogleOAuthProvider(clientID string) *GoogleOAuthProvider {
	return &GoogleOAuthProvider{clientID: clientID}
}

// VerifyIDToken validates idToken with Google's tokeninfo endpoint, checks the
// audience, and fetches the holder's basic profile.
func (p *GoogleOAuthProvider) VerifyIDToken(ctx context.Context, idToken string) (*GoogleProfile, error) {
	oauth2Service, err := oauth2.NewService(ctx, option.WithHTTPClient(&http.Client{}))
	if err != nil {
		return nil, err
	}

	tokenInfoCall := oauth2Service.Tokeninfo()
	tokenInfoCall.IdToken(idToken)
	tokenInfo, err := tokenInfoCall.Do()
	if err != nil {
		return nil, err
	}

	if tokenInfo.Audience != p.clientID {
		return nil, ErrInvalidGoogleAudience
	}

	profile := &GoogleProfile{Email: tokenInfo.Email}

	// Name and picture are not part of tokeninfo; best effort from userinfo.
	if userInfo, err := p.fetchUserInfo(ctx, idToken); err == nil {
		profile.Name = userInfo.Name
		profile.Picture = userInfo.Picture
	}

	return profile, nil
}

func (p *GoogleOAuthProvider) fetchUserInfo(ctx context.Context, idToken string) (*oauth2.Userinfo, error) {
	client := &http.Client{}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, "https://www.googleapis.com/oauth2/v1/userinfo", nil)
	if err != nil {
		return nil, err
	}

	req.Header.Set("Authorization", "Bearer "+idToken)

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.New("status code is not OK")
	}

	var userInfo oauth2.Userinfo
	if err := json.NewDecoder(resp.Body).Decode(&userInfo); err != nil {
		return nil, err
	}

	return &userInfo, nil
}
