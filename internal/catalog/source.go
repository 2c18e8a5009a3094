// internal/catalog/source.go
package catalog

import (
	"context"
	"encoding/json"
)

// Dataset cache keys. Workers and tests address the loader through these.
const (
	KeyBankPrograms = "bank-programs"
	KeyGovtSchemes  = "govt-schemes"
	KeySchemeRules  = "scheme-rules"
)

// Source fetches raw catalog rows from a backend. Rows are returned
// undecoded so the loader can validate and skip malformed entries without
// failing the whole dataset.
type Source interface {
	FetchPrograms(ctx context.Context) ([]json.RawMessage, error)
	FetchSchemes(ctx context.Context) ([]json.RawMessage, error)
	FetchRules(ctx context.Context) ([]json.RawMessage, error)
}
