// Package seed holds the default settings written by the installer.
package seed

import (
	_ "embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/hrmanager/hrm-api/internal/core/domain"
)

//go:embed defaults.yaml
var defaultsYAML []byte

type file struct {
	Settings []entry `yaml:"settings"`
}

type entry struct {
	Key         string `yaml:"key"`
	Value       string `yaml:"value"`
	Group       string `yaml:"group"`
	Description string `yaml:"description"`
}

// DefaultSettings returns the built-in settings in file order.
func DefaultSettings() ([]domain.Setting, error) {
	return Parse(defaultsYAML)
}

// Parse decodes a settings document. Keys must be unique and non-empty, and
// company_name must be present.
func Parse(data []byte) ([]domain.Setting, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("seed: decode settings: %w", err)
	}

	out := make([]domain.Setting, 0, len(f.Settings))
	seen := make(map[string]struct{}, len(f.Settings))
	for i, e := range f.Settings {
		key := strings.TrimSpace(e.Key)
		if key == "" {
			return nil, fmt.Errorf("seed: setting %d has no key", i)
		}
		if _, dup := seen[key]; dup {
			return nil, fmt.Errorf("seed: duplicate setting %q", key)
		}
		seen[key] = struct{}{}
		out = append(out, domain.Setting{
			Meta:        domain.Meta{ID: key},
			Value:       e.Value,
			Group:       e.Group,
			Description: e.Description,
		})
	}
	if _, ok := seen[domain.SettingCompanyName]; !ok {
		return nil, fmt.Errorf("seed: %s is missing", domain.SettingCompanyName)
	}
	return out, nil
}
