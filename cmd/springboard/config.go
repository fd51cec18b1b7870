package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/pelletier/go-toml/v2"
	"golang.org/x/term"

	"github.com/retailkit/springboard-client/pkg/client"
)

// Config is the on-disk CLI configuration.
type Config struct {
	Tenant TenantConfig `toml:"tenant"`
}

// TenantConfig names the Springboard instance and credential to use.
type TenantConfig struct {
	Subdomain string `toml:"subdomain" comment:"Instance subdomain, e.g. acme for acme.myspringboard.us."`
	Token     string `toml:"token,omitempty" comment:"Bearer token. Omit to be prompted."`
}

// defaultConfigPath returns $XDG_CONFIG_HOME/springboard/config.toml.
func defaultConfigPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "springboard", "config.toml"), nil
}

// loadConfig reads the config file at path. A missing file yields an empty
// config so flags alone can drive the CLI.
func loadConfig(path string) (Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// validateTenant collects every problem with the effective tenant settings
// instead of stopping at the first one.
func validateTenant(cfg TenantConfig) error {
	var result *multierror.Error

	if cfg.Subdomain == "" {
		result = multierror.Append(result, errors.New("subdomain is required (flag --subdomain or config file)"))
	} else if strings.ContainsAny(cfg.Subdomain, "./:") {
		result = multierror.Append(result, fmt.Errorf("subdomain %q must be a bare name, not a host or URL", cfg.Subdomain))
	}

	return result.ErrorOrNil()
}

// resolveTenant merges config file and flags (flags win) into a tenant,
// prompting for the token when neither provides one.
func resolveTenant(opts *rootOptions) (client.Tenant, error) {
	path := opts.configPath
	if path == "" {
		var err error
		if path, err = defaultConfigPath(); err != nil {
			return client.Tenant{}, err
		}
	}

	cfg, err := loadConfig(path)
	if err != nil {
		return client.Tenant{}, err
	}

	tenant := cfg.Tenant
	if opts.subdomain != "" {
		tenant.Subdomain = opts.subdomain
	}
	if opts.token != "" {
		tenant.Token = opts.token
	}

	if err := validateTenant(tenant); err != nil {
		return client.Tenant{}, err
	}

	if tenant.Token == "" {
		token, err := promptToken()
		if err != nil {
			return client.Tenant{}, err
		}
		tenant.Token = token
	}

	return client.Tenant{Subdomain: tenant.Subdomain, Token: tenant.Token}, nil
}

// promptToken reads the bearer token from the terminal without echo.
func promptToken() (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", errors.New("token is required (flag --token, config file, or interactive terminal)")
	}

	fmt.Fprint(os.Stderr, "Token: ")
	token, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("read token: %w", err)
	}
	if len(token) == 0 {
		return "", errors.New("empty token")
	}
	return string(token), nil
}
