package authsvc

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/pkg/errors"

	"github.com/trezcool/tathmini/core"
)

// httpService verifies credentials against the hosted authentication
// service via the password grant. The service owns the credentials;
// we only relay the verdict.
type httpService struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

var _ core.Authenticator = (*httpService)(nil)

func NewHTTPService(conf *core.Config) *httpService {
	return &httpService{
		baseURL: conf.Auth.BaseURL,
		apiKey:  conf.Auth.APIKey,
		client:  &http.Client{Timeout: conf.Auth.Timeout},
	}
}

type tokenResponse struct {
	User struct {
		ID    string `json:"id"`
		Email string `json:"email"`
	} `json:"user"`
}

func (svc httpService) VerifyCredential(ctx context.Context, email, credential string) (core.Identity, error) {
	body, err := json.Marshal(map[string]string{"email": email, "password": credential})
	if err != nil {
		return core.Identity{}, errors.Wrap(err, "encoding token request")
	}

	u := svc.baseURL + "/token?" + url.Values{"grant_type": {"password"}}.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(body))
	if err != nil {
		return core.Identity{}, errors.Wrap(err, "creating token request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("apikey", svc.apiKey)

	res, err := svc.client.Do(req)
	if err != nil {
		return core.Identity{}, errors.Wrap(err, "calling auth service")
	}
	defer func() { _ = res.Body.Close() }()

	switch res.StatusCode {
	case http.StatusOK:
	case http.StatusBadRequest, http.StatusUnauthorized, http.StatusForbidden:
		return core.Identity{}, core.ErrVerificationFailed
	default:
		return core.Identity{}, errors.Errorf("auth service: unexpected status %d", res.StatusCode)
	}

	var data tokenResponse
	if err = json.NewDecoder(res.Body).Decode(&data); err != nil {
		return core.Identity{}, errors.Wrap(err, "decoding token response")
	}
	return core.Identity{ID: data.User.ID, Email: data.User.Email}, nil
}
