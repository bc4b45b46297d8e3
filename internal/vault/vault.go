package vault

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	vaultapi "github.com/hashicorp/vault/api"
)

const (
	authTypeToken   = "token"
	authTypeAppRole = "approle"

	defaultTimeout = 30 * time.Second
)

type Options struct {
	Address          string
	Namespace        string
	Token            string
	AppRoleMountPath string
	AppRoleRoleID    string
	AppRoleSecretID  string
}

// AuthType returns approle when AppRole credentials are set, token otherwise.
func (o Options) AuthType() string {
	if strings.TrimSpace(o.AppRoleRoleID) != "" || strings.TrimSpace(o.AppRoleSecretID) != "" {
		return authTypeAppRole
	}
	return authTypeToken
}

// Client reads key/value secrets from Vault.
type Client struct {
	client *vaultapi.Client
}

func New(ctx context.Context, opts Options) (*Client, error) {
	cfg := vaultapi.DefaultConfig()
	if cfg.Error != nil {
		return nil, fmt.Errorf("vault config: %w", cfg.Error)
	}
	if address := strings.TrimSpace(opts.Address); address != "" {
		cfg.Address = address
	}
	if strings.TrimSpace(cfg.Address) == "" {
		return nil, errors.New("vault address is required")
	}
	cfg.HttpClient = &http.Client{Timeout: defaultTimeout}

	client, err := vaultapi.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("vault client setup: %w", err)
	}
	if namespace := strings.TrimSpace(opts.Namespace); namespace != "" {
		client.SetNamespace(namespace)
	}

	switch opts.AuthType() {
	case authTypeToken:
		token := strings.TrimSpace(opts.Token)
		if token == "" {
			token = client.Token()
		}
		if token == "" {
			return nil, errors.New("vault token is required")
		}
		client.SetToken(token)
	case authTypeAppRole:
		roleID := strings.TrimSpace(opts.AppRoleRoleID)
		secretID := strings.TrimSpace(opts.AppRoleSecretID)
		mountPath := strings.Trim(strings.TrimSpace(opts.AppRoleMountPath), "/")
		if mountPath == "" {
			mountPath = "approle"
		}
		if roleID == "" {
			return nil, errors.New("vault AppRole role ID is required")
		}
		if secretID == "" {
			return nil, errors.New("vault AppRole secret ID is required")
		}
		loginPath := "auth/" + mountPath + "/login"
		secret, err := client.Logical().WriteWithContext(ctx, loginPath, map[string]any{
			"role_id":   roleID,
			"secret_id": secretID,
		})
		if err != nil {
			return nil, fmt.Errorf("vault approle login at %s: %w", loginPath, err)
		}
		if secret == nil || secret.Auth == nil || strings.TrimSpace(secret.Auth.ClientToken) == "" {
			return nil, errors.New("vault approle login succeeded without client token")
		}
		client.SetToken(secret.Auth.ClientToken)
	}

	return &Client{client: client}, nil
}

// ReadKV returns the string values stored in a KV v2 secret. Non-string
// values are skipped.
func (c *Client) ReadKV(ctx context.Context, mount, path string) (map[string]string, error) {
	mount = strings.Trim(strings.TrimSpace(mount), "/")
	path = strings.Trim(strings.TrimSpace(path), "/")
	if mount == "" || path == "" {
		return nil, errors.New("vault secret mount and path are required")
	}

	secret, err := c.client.KVv2(mount).Get(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("vault read %s/%s: %w", mount, path, err)
	}
	out := make(map[string]string, len(secret.Data))
	for key, value := range secret.Data {
		if s, ok := value.(string); ok {
			out[key] = s
		}
	}
	return out, nil
}
