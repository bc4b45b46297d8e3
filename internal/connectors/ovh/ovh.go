package ovh

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	goovh "github.com/ovh/go-ovh/ovh"
)

const (
	credentialsPath  = "/me/api/credential"
	applicationsPath = "/me/api/application"
)

// Rule is one permission granted to a credential.
type Rule struct {
	Method string `json:"method" yaml:"method"`
	Path   string `json:"path" yaml:"path"`
}

// Credential is the detail record of an API credential (consumer key).
type Credential struct {
	ID            int64   `json:"credentialId" yaml:"credential_id"`
	ApplicationID int64   `json:"applicationId" yaml:"application_id"`
	Creation      *string `json:"creation" yaml:"creation"`
	Expiration    *string `json:"expiration" yaml:"expiration"`
	LastUse       *string `json:"lastUse" yaml:"last_use"`
	Status        string  `json:"status" yaml:"status"`
	Rules         []Rule  `json:"rules" yaml:"rules"`
}

// Application is the detail record of a registered API application.
type Application struct {
	ID          int64  `json:"applicationId" yaml:"application_id"`
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`
	Status      string `json:"status" yaml:"status"`
}

// Client issues read-only requests against the /me/api resources.
type Client struct {
	api *goovh.Client
}

// New creates a signed OVHcloud API client. The endpoint may be an alias
// such as "ovh-eu" or a full base URL; it is required like the keys.
func New(cfg Config) (*Client, error) {
	cfg = cfg.Normalized()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	api, err := goovh.NewClient(cfg.Endpoint, cfg.ApplicationKey, cfg.ApplicationSecret, cfg.ConsumerKey)
	if err != nil {
		return nil, fmt.Errorf("ovh client setup: %w", err)
	}
	return &Client{api: api}, nil
}

func (c *Client) ListCredentialIDs(ctx context.Context) ([]int64, error) {
	var ids []int64
	if err := c.get(ctx, credentialsPath, &ids); err != nil {
		return nil, err
	}
	return ids, nil
}

func (c *Client) GetCredential(ctx context.Context, id int64) (Credential, error) {
	var out Credential
	if err := c.get(ctx, fmt.Sprintf("%s/%d", credentialsPath, id), &out); err != nil {
		return Credential{}, err
	}
	if out.ID == 0 {
		out.ID = id
	}
	out.Status = strings.TrimSpace(out.Status)
	return out, nil
}

func (c *Client) ListApplicationIDs(ctx context.Context) ([]int64, error) {
	var ids []int64
	if err := c.get(ctx, applicationsPath, &ids); err != nil {
		return nil, err
	}
	return ids, nil
}

func (c *Client) GetApplication(ctx context.Context, id int64) (Application, error) {
	var out Application
	if err := c.get(ctx, fmt.Sprintf("%s/%d", applicationsPath, id), &out); err != nil {
		return Application{}, err
	}
	if out.ID == 0 {
		out.ID = id
	}
	out.Name = strings.TrimSpace(out.Name)
	out.Description = strings.TrimSpace(out.Description)
	out.Status = strings.TrimSpace(out.Status)
	return out, nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	if c == nil || c.api == nil {
		return errors.New("ovh client is not configured")
	}
	if err := c.api.GetWithContext(ctx, path, out); err != nil {
		return fmt.Errorf("ovh GET %s: %w", path, err)
	}
	return nil
}

// IsNotFound reports whether err is an OVHcloud API 404 response.
func IsNotFound(err error) bool {
	var apiErr *goovh.APIError
	return errors.As(err, &apiErr) && apiErr.Code == http.StatusNotFound
}
