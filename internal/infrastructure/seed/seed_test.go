package seed

import (
	"testing"

	"github.com/hrmanager/hrm-api/internal/core/domain"
)

func TestDefaultSettings(t *testing.T) {
	settings, err := DefaultSettings()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	byKey := make(map[string]domain.Setting, len(settings))
	for _, s := range settings {
		byKey[s.ID] = s
	}
	if _, ok := byKey[domain.SettingCompanyName]; !ok {
		t.Fatal("company_name must be seeded")
	}
	if cur := byKey[domain.SettingCurrency]; cur.Value != "USD" || cur.Group != "finance" {
		t.Fatalf("unexpected currency setting: %+v", cur)
	}
	if settings[0].ID != domain.SettingCompanyName {
		t.Fatalf("expected file order, got %q first", settings[0].ID)
	}
}

func TestParse_Rejects(t *testing.T) {
	tests := map[string]string{
		"bad yaml":        "settings: [",
		"empty key":       "settings:\n  - key: \"\"\n    value: x\n  - key: company_name\n",
		"duplicate key":   "settings:\n  - key: company_name\n  - key: company_name\n",
		"missing company": "settings:\n  - key: currency\n    value: USD\n",
	}
	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := Parse([]byte(doc)); err == nil {
				t.Fatal("expected an error")
			}
		})
	}
}
