// Package flags provides feature flag providers.
package flags

import (
	"context"
	"strconv"
	"strings"

	"github.com/jsamuelsen/user-sync-service/internal/ports"
)

var _ ports.FeatureFlags = (*Static)(nil)

// Static serves feature flags from the "features" configuration section.
// Values may be native YAML types or strings, since environment overrides
// always arrive as strings.
type Static struct {
	values map[string]any
}

// NewStatic copies values so later changes to the source map are not observed.
// Flag names are matched case-insensitively.
func NewStatic(values map[string]any) *Static {
	copied := make(map[string]any, len(values))
	for k, v := range values {
		copied[strings.ToLower(k)] = v
	}

	return &Static{values: copied}
}

// IsEnabled implements ports.FeatureFlags.
func (s *Static) IsEnabled(_ context.Context, flag string, defaultValue bool) bool {
	v, ok := s.lookup(flag)
	if !ok {
		return defaultValue
	}

	switch b := v.(type) {
	case bool:
		return b
	case string:
		parsed, err := strconv.ParseBool(strings.TrimSpace(b))
		if err != nil {
			return defaultValue
		}
		return parsed
	default:
		return defaultValue
	}
}

func (s *Static) lookup(flag string) (any, bool) {
	v, ok := s.values[strings.ToLower(flag)]
	if !ok || v == nil {
		return nil, false
	}

	return v, true
}
