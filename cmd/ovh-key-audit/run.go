package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/open-sspm/ovh-key-audit/internal/audit"
	"github.com/open-sspm/ovh-key-audit/internal/config"
	"github.com/open-sspm/ovh-key-audit/internal/connectors/ovh"
	"github.com/open-sspm/ovh-key-audit/internal/logging"
	"github.com/open-sspm/ovh-key-audit/internal/metrics"
	"github.com/open-sspm/ovh-key-audit/internal/report"
	"github.com/open-sspm/ovh-key-audit/internal/vault"
)

const (
	modeAudit      = "audit"
	modeSearch     = "search"
	modeSearchMany = "search_many"
)

// newSource builds the API handle once credentials are known. Tests replace it.
var newSource = func(cfg ovh.Config) (audit.Source, error) {
	client, err := ovh.New(cfg)
	if err != nil {
		return nil, err
	}
	return client, nil
}

// readVault returns the key/value pairs of the configured Vault secret. Tests replace it.
var readVault = func(ctx context.Context, v config.Vault) (map[string]string, error) {
	client, err := vault.New(ctx, vault.Options{
		Address:          v.Address,
		Namespace:        v.Namespace,
		Token:            v.Token,
		AppRoleMountPath: v.AppRoleMount,
		AppRoleRoleID:    v.RoleID,
		AppRoleSecretID:  v.SecretID,
	})
	if err != nil {
		return nil, err
	}
	return client.ReadKV(ctx, v.Mount, v.Path)
}

func runAudit(ctx context.Context, opts *rootOptions, commandPath string, stdout, stderr io.Writer) error {
	logger, err := logging.BootstrapFromEnv(logging.BootstrapOptions{Command: commandPath, Writer: stderr})
	if err != nil {
		return err
	}

	creds, err := loadCredentials(ctx, opts)
	if err != nil {
		return err
	}
	source, err := newSource(creds.OVH())
	if err != nil {
		return err
	}

	printer, err := report.NewPrinter(stdout, opts.format)
	if err != nil {
		return err
	}

	mode := modeFor(opts.appIDs)
	recorder := metrics.NewRecorder(mode)
	scanner := audit.NewScanner(source, audit.MultiReporter{&audit.LogReporter{Logger: logger}, recorder})

	start := time.Now()
	logger.Info("audit started", "mode", mode, "application_ids", opts.appIDs)
	runErr := dispatch(ctx, scanner, printer, mode, opts.appIDs)
	recorder.Finish(start, time.Now())

	if path := strings.TrimSpace(opts.metricsFile); path != "" {
		if err := recorder.WriteTextfile(path); err != nil {
			logger.Error("metrics file write failed", "path", path, "err", err)
			if runErr == nil {
				runErr = fmt.Errorf("write metrics file: %w", err)
			}
		}
	}
	if runErr != nil {
		if errors.Is(runErr, context.Canceled) {
			return canceledError(runErr)
		}
		return runErr
	}
	logger.Info("audit finished", "mode", mode, "duration", time.Since(start).String())
	return nil
}

// loadCredentials resolves the OVH settings from the dotenv file and the
// environment, then fills gaps from Vault when a secret path is configured.
// It fails before any OVH request when a setting is still missing.
func loadCredentials(ctx context.Context, opts *rootOptions) (config.Credentials, error) {
	cfg, err := config.Load(config.LoadOptions{EnvFile: opts.envFile})
	if err != nil {
		return config.Credentials{}, fmt.Errorf("load %s: %w", opts.envFile, err)
	}
	if v := strings.TrimSpace(opts.vaultPath); v != "" {
		cfg.Vault.Path = v
	}
	if m := strings.TrimSpace(opts.vaultMount); m != "" {
		cfg.Vault.Mount = m
	}

	creds := cfg.Credentials
	if cfg.Vault.Enabled() && len(creds.Missing()) > 0 {
		values, err := readVault(ctx, cfg.Vault)
		if err != nil {
			return config.Credentials{}, err
		}
		creds = creds.Merge(config.FromMap(values))
	}
	if err := creds.Validate(); err != nil {
		return config.Credentials{}, err
	}
	return creds, nil
}

func modeFor(appIDs []int64) string {
	switch len(appIDs) {
	case 0:
		return modeAudit
	case 1:
		return modeSearch
	default:
		return modeSearchMany
	}
}

func dispatch(ctx context.Context, scanner *audit.Scanner, printer *report.Printer, mode string, appIDs []int64) error {
	switch mode {
	case modeSearch:
		results, err := scanner.Search(ctx, appIDs[0])
		if err != nil {
			return err
		}
		return printer.Search(appIDs[0], results)
	case modeSearchMany:
		grouped, err := scanner.SearchMany(ctx, appIDs)
		if err != nil {
			return err
		}
		return printer.SearchMany(grouped)
	default:
		a, err := scanner.FullAudit(ctx)
		if err != nil {
			return err
		}
		return printer.Audit(a)
	}
}
