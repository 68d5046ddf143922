package ports

import (
	"context"
)

// FlagValidateImports sends users fetched from GoREST through the field
// validator before they are saved. On unless configured off.
const FlagValidateImports = "validate-imports"

// FeatureFlags evaluates named boolean flags, falling back to defaultValue
// when the flag is unset or not a boolean.
type FeatureFlags interface {
	IsEnabled(ctx context.Context, flag string, defaultValue bool) bool
}
