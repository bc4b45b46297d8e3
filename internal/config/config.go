package config

import (
	"errors"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"github.com/open-sspm/ovh-key-audit/internal/connectors/ovh"
)

const (
	EnvEndpoint          = "OVH_ENDPOINT"
	EnvApplicationKey    = "OVH_APPLICATION_KEY"
	EnvApplicationSecret = "OVH_APPLICATION_SECRET"
	EnvConsumerKey       = "OVH_CONSUMER_KEY"

	EnvVaultPath         = "OVH_VAULT_PATH"
	EnvVaultMount        = "OVH_VAULT_MOUNT"
	EnvVaultAddress      = "VAULT_ADDR"
	EnvVaultNamespace    = "VAULT_NAMESPACE"
	EnvVaultToken        = "VAULT_TOKEN"
	EnvVaultRoleID       = "VAULT_ROLE_ID"
	EnvVaultSecretID     = "VAULT_SECRET_ID"
	EnvVaultAppRoleMount = "VAULT_APPROLE_MOUNT"

	defaultEnvFile    = ".env"
	defaultVaultMount = "secret"
)

// Credentials are the four settings needed to sign OVHcloud API requests.
type Credentials struct {
	Endpoint          string
	ApplicationKey    string
	ApplicationSecret string
	ConsumerKey       string
}

// Vault locates an optional KV v2 secret holding Credentials.
type Vault struct {
	Path         string
	Mount        string
	Address      string
	Namespace    string
	Token        string
	RoleID       string
	SecretID     string
	AppRoleMount string
}

// Enabled reports whether credentials should be read from Vault.
func (v Vault) Enabled() bool {
	return strings.TrimSpace(v.Path) != ""
}

type Config struct {
	Credentials Credentials
	Vault       Vault
}

type LoadOptions struct {
	// EnvFile is loaded before reading the environment. A missing file is
	// not an error. Defaults to ".env".
	EnvFile string
}

// Load reads the dotenv file and then the process environment. Values
// already present in the environment are not overridden by the file.
func Load(opts LoadOptions) (Config, error) {
	envFile := strings.TrimSpace(opts.EnvFile)
	if envFile == "" {
		envFile = defaultEnvFile
	}
	if err := godotenv.Load(envFile); err != nil {
		var pathErr *os.PathError
		if !errors.As(err, &pathErr) {
			return Config{}, err
		}
	}
	return FromLookup(os.LookupEnv), nil
}

// FromLookup builds a Config from an arbitrary key lookup.
func FromLookup(lookup func(string) (string, bool)) Config {
	get := func(key string) string {
		v, _ := lookup(key)
		return strings.TrimSpace(v)
	}
	getDefault := func(key, def string) string {
		if v := get(key); v != "" {
			return v
		}
		return def
	}

	return Config{
		Credentials: Credentials{
			Endpoint:          get(EnvEndpoint),
			ApplicationKey:    get(EnvApplicationKey),
			ApplicationSecret: get(EnvApplicationSecret),
			ConsumerKey:       get(EnvConsumerKey),
		},
		Vault: Vault{
			Path:         get(EnvVaultPath),
			Mount:        getDefault(EnvVaultMount, defaultVaultMount),
			Address:      get(EnvVaultAddress),
			Namespace:    get(EnvVaultNamespace),
			Token:        get(EnvVaultToken),
			RoleID:       get(EnvVaultRoleID),
			SecretID:     get(EnvVaultSecretID),
			AppRoleMount: get(EnvVaultAppRoleMount),
		},
	}
}

// FromMap reads Credentials keyed by their environment variable names.
func FromMap(values map[string]string) Credentials {
	return FromLookup(func(key string) (string, bool) {
		v, ok := values[key]
		return v, ok
	}).Credentials
}

// MissingError lists required settings that were not provided.
type MissingError struct {
	Keys []string
}

func (e *MissingError) Error() string {
	return "missing OVH API credentials: " + strings.Join(e.Keys, ", ")
}

// Missing returns the environment names of every blank setting.
func (c Credentials) Missing() []string {
	var missing []string
	for _, kv := range []struct{ key, value string }{
		{EnvEndpoint, c.Endpoint},
		{EnvApplicationKey, c.ApplicationKey},
		{EnvApplicationSecret, c.ApplicationSecret},
		{EnvConsumerKey, c.ConsumerKey},
	} {
		if strings.TrimSpace(kv.value) == "" {
			missing = append(missing, kv.key)
		}
	}
	return missing
}

// Validate returns a *MissingError when any setting is blank.
func (c Credentials) Validate() error {
	if missing := c.Missing(); len(missing) > 0 {
		return &MissingError{Keys: missing}
	}
	return nil
}

// Merge fills blank settings from fallback.
func (c Credentials) Merge(fallback Credentials) Credentials {
	out := c
	if out.Endpoint == "" {
		out.Endpoint = fallback.Endpoint
	}
	if out.ApplicationKey == "" {
		out.ApplicationKey = fallback.ApplicationKey
	}
	if out.ApplicationSecret == "" {
		out.ApplicationSecret = fallback.ApplicationSecret
	}
	if out.ConsumerKey == "" {
		out.ConsumerKey = fallback.ConsumerKey
	}
	return out
}

// OVH converts the credentials into the connector configuration.
func (c Credentials) OVH() ovh.Config {
	return ovh.Config{
		Endpoint:          c.Endpoint,
		ApplicationKey:    c.ApplicationKey,
		ApplicationSecret: c.ApplicationSecret,
		ConsumerKey:       c.ConsumerKey,
	}
}
