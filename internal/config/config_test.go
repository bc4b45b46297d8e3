package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestFromMapValidates(t *testing.T) {
	t.Parallel()

	creds := FromMap(map[string]string{
		EnvEndpoint:       "ovh-eu",
		EnvApplicationKey: " ak ",
	})
	if creds.ApplicationKey != "ak" {
		t.Fatalf("ApplicationKey = %q, want trimmed %q", creds.ApplicationKey, "ak")
	}

	err := creds.Validate()
	var missing *MissingError
	if !errors.As(err, &missing) {
		t.Fatalf("expected *MissingError, got %v", err)
	}
	if diff := cmp.Diff([]string{EnvApplicationSecret, EnvConsumerKey}, missing.Keys); diff != "" {
		t.Fatalf("missing keys mismatch (-want +got):\n%s", diff)
	}
}

func TestValidateAcceptsCompleteCredentials(t *testing.T) {
	t.Parallel()

	creds := Credentials{Endpoint: "ovh-eu", ApplicationKey: "ak", ApplicationSecret: "as", ConsumerKey: "ck"}
	if err := creds.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
}

func TestMergeKeepsPrimaryValues(t *testing.T) {
	t.Parallel()

	primary := Credentials{Endpoint: "ovh-ca", ConsumerKey: "ck-env"}
	fallback := Credentials{Endpoint: "ovh-eu", ApplicationKey: "ak", ApplicationSecret: "as", ConsumerKey: "ck-vault"}

	got := primary.Merge(fallback)
	want := Credentials{Endpoint: "ovh-ca", ApplicationKey: "ak", ApplicationSecret: "as", ConsumerKey: "ck-env"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("Merge mismatch (-want +got):\n%s", diff)
	}
}

func TestFromLookupVaultDefaults(t *testing.T) {
	t.Parallel()

	cfg := FromLookup(func(key string) (string, bool) {
		if key == EnvVaultPath {
			return "ops/ovh", true
		}
		return "", false
	})
	if !cfg.Vault.Enabled() || cfg.Vault.Mount != "secret" {
		t.Fatalf("unexpected vault config: %+v", cfg.Vault)
	}
}

func TestLoadReadsEnvFileWithoutOverridingEnvironment(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ovh.env")
	content := "OVH_ENDPOINT=ovh-eu\nOVH_APPLICATION_KEY=file-ak\nOVH_APPLICATION_SECRET=file-as\nOVH_CONSUMER_KEY=file-ck\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("WriteFile error: %v", err)
	}

	t.Setenv(EnvEndpoint, "")
	t.Setenv(EnvApplicationKey, "env-ak")
	t.Setenv(EnvApplicationSecret, "")
	t.Setenv(EnvConsumerKey, "")
	for _, key := range []string{EnvEndpoint, EnvApplicationSecret, EnvConsumerKey} {
		os.Unsetenv(key)
	}

	cfg, err := Load(LoadOptions{EnvFile: path})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	want := Credentials{Endpoint: "ovh-eu", ApplicationKey: "env-ak", ApplicationSecret: "file-as", ConsumerKey: "file-ck"}
	if diff := cmp.Diff(want, cfg.Credentials); diff != "" {
		t.Fatalf("Load mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadMissingEnvFileIsNotAnError(t *testing.T) {
	t.Setenv(EnvEndpoint, "ovh-eu")

	cfg, err := Load(LoadOptions{EnvFile: filepath.Join(t.TempDir(), "absent.env")})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Credentials.Endpoint != "ovh-eu" {
		t.Fatalf("Endpoint = %q, want %q", cfg.Credentials.Endpoint, "ovh-eu")
	}
}
