package service

import (
	"strings"

	"github.com/hrmanager/hrm-api/internal/core/domain"
)

const defaultMaxBatch = 100

// ParseIDs splits a comma separated id list. Segments are trimmed, empty
// segments are rejected and duplicates collapse onto their first occurrence.
// max <= 0 falls back to defaultMaxBatch.
func ParseIDs(csv string, max int) ([]string, error) {
	if max <= 0 {
		max = defaultMaxBatch
	}
	if strings.TrimSpace(csv) == "" {
		return nil, domain.Validationf("at least one id is required")
	}

	parts := strings.Split(csv, ",")
	ids := make([]string, 0, len(parts))
	seen := make(map[string]struct{}, len(parts))
	for i, p := range parts {
		id := strings.TrimSpace(p)
		if id == "" {
			return nil, domain.Validationf("id list has an empty segment at position %d", i+1)
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	if len(ids) > max {
		return nil, domain.Validationf("at most %d ids can be deleted at once, got %d", max, len(ids))
	}
	return ids, nil
}

// missingIDs returns the ids that are not in found, preserving request order.
func missingIDs(ids, found []string) []string {
	present := make(map[string]struct{}, len(found))
	for _, id := range found {
		present[id] = struct{}{}
	}
	var missing []string
	for _, id := range ids {
		if _, ok := present[id]; !ok {
			missing = append(missing, id)
		}
	}
	return missing
}
