package oauth

import (
	"context"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Revoker invalidates a provider access token. Used best-effort when a
// federated login cannot proceed (missing email consent) so the granted
// token does not stay live on the provider side.
type Revoker interface {
	Revoke(ctx context.Context, provider, accessToken string) error
}

// HTTPRevoker calls the providers' revocation endpoints directly.
type HTTPRevoker struct {
	Client *http.Client
}

func NewHTTPRevoker() *HTTPRevoker {
	return &HTTPRevoker{Client: &http.Client{Timeout: 5 * time.Second}}
}

// Revoke posts to the provider's revoke endpoint. Failures are logged and
// returned, but callers are expected to treat them as non-fatal.
func (r *HTTPRevoker) Revoke(ctx context.Context, provider, accessToken string) error {
	if accessToken == "" {
		return nil
	}
	var req *http.Request
	var err error
	switch provider {
	case "google":
		form := url.Values{"token": {accessToken}}
		req, err = http.NewRequestWithContext(ctx, http.MethodPost,
			"https://oauth2.googleapis.com/revoke", strings.NewReader(form.Encode()))
		if err == nil {
			req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		}
	case "kakao":
		req, err = http.NewRequestWithContext(ctx, http.MethodPost,
			"https://kapi.kakao.com/v1/user/logout", nil)
		if err == nil {
			req.Header.Set("Authorization", "Bearer "+accessToken)
		}
	default:
		return nil
	}
	if err != nil {
		return err
	}
	resp, err := r.Client.Do(req)
	if err != nil {
		log.Printf("oauth: revoke %s token failed: %v", provider, err)
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		log.Printf("oauth: revoke %s token returned %d", provider, resp.StatusCode)
	}
	return nil
}
