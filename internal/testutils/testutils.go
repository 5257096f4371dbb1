// Package testutils provides shared helpers for package tests: a resolved
// configuration and a fake content lake.
package testutils

import (
	"testing"

	"github.com/nfrund/portfolio/internal/config"
)

// Config resolves a configuration for tests from the given hosted
// variables, with the core project keys filled in when absent.
func Config(t *testing.T, vars map[string]string) *config.Config {
	t.Helper()

	hosted := map[string]string{
		config.KeyProjectID: "testproj",
		config.KeyDataset:   "production",
	}
	for k, v := range vars {
		hosted[k] = v
	}

	cfg, err := config.Resolve(hosted, nil, config.CoreKeys)
	if err != nil {
		t.Fatalf("resolve test config: %v", err)
	}
	return cfg
}
