// internal/catalog/loader.go
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"finmatch-workers/internal/common/database"
	"finmatch-workers/internal/common/errors"
	"finmatch-workers/internal/common/logger"
	"finmatch-workers/internal/common/metrics"
	"finmatch-workers/internal/common/validation"
	"finmatch-workers/internal/models"
)

// Loader serves catalog datasets through a memoizing cache with an optional
// redis read-through layer. Rows are schema-validated on the way in; a row
// that fails validation is logged and skipped so one bad entry cannot take
// the whole dataset down.
type Loader struct {
	source Source
	cache  *Cache
	redis  *database.RedisClient
	ttl    time.Duration
	logger logger.Logger

	programValidator *validation.Validator
	schemeValidator  *validation.Validator
	ruleValidator    *validation.Validator
}

type LoaderOption func(*Loader)

// WithRedis enables the redis read-through layer. A zero ttl disables
// expiry on the cached payloads.
func WithRedis(client *database.RedisClient, ttl time.Duration) LoaderOption {
	return func(l *Loader) {
		l.redis = client
		l.ttl = ttl
	}
}

func NewLoader(source Source, cache *Cache, log logger.Logger, opts ...LoaderOption) (*Loader, error) {
	programValidator, err := validation.NewValidator(programSchema)
	if err != nil {
		return nil, fmt.Errorf("compile program schema: %w", err)
	}
	schemeValidator, err := validation.NewValidator(schemeSchema)
	if err != nil {
		return nil, fmt.Errorf("compile scheme schema: %w", err)
	}
	ruleValidator, err := validation.NewValidator(ruleSchema)
	if err != nil {
		return nil, fmt.Errorf("compile rule schema: %w", err)
	}

	l := &Loader{
		source:           source,
		cache:            cache,
		logger:           log,
		programValidator: programValidator,
		schemeValidator:  schemeValidator,
		ruleValidator:    ruleValidator,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l, nil
}

// Programs returns the bank program catalog, loading it on first use.
func (l *Loader) Programs(ctx context.Context) ([]models.Program, error) {
	v, err := l.cache.Do(ctx, KeyBankPrograms, func(ctx context.Context) (interface{}, error) {
		var programs []models.Program
		if l.fromRedis(ctx, KeyBankPrograms, &programs) {
			return programs, nil
		}

		rows, err := l.source.FetchPrograms(ctx)
		if err != nil {
			metrics.CatalogLoads.WithLabelValues(KeyBankPrograms, "error").Inc()
			return nil, errors.NewCatalogLoadError(KeyBankPrograms, err)
		}

		programs = make([]models.Program, 0, len(rows))
		for _, raw := range rows {
			var p models.Program
			if !l.decodeRow(KeyBankPrograms, l.programValidator, raw, &p) {
				continue
			}
			programs = append(programs, p)
		}

		metrics.CatalogLoads.WithLabelValues(KeyBankPrograms, "success").Inc()
		l.toRedis(ctx, KeyBankPrograms, programs)
		return programs, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]models.Program), nil
}

// Schemes returns the government scheme catalog, loading it on first use.
func (l *Loader) Schemes(ctx context.Context) ([]models.Scheme, error) {
	v, err := l.cache.Do(ctx, KeyGovtSchemes, func(ctx context.Context) (interface{}, error) {
		var schemes []models.Scheme
		if l.fromRedis(ctx, KeyGovtSchemes, &schemes) {
			return schemes, nil
		}

		rows, err := l.source.FetchSchemes(ctx)
		if err != nil {
			metrics.CatalogLoads.WithLabelValues(KeyGovtSchemes, "error").Inc()
			return nil, errors.NewCatalogLoadError(KeyGovtSchemes, err)
		}

		schemes = make([]models.Scheme, 0, len(rows))
		for _, raw := range rows {
			var s models.Scheme
			if !l.decodeRow(KeyGovtSchemes, l.schemeValidator, raw, &s) {
				continue
			}
			schemes = append(schemes, s)
		}

		metrics.CatalogLoads.WithLabelValues(KeyGovtSchemes, "success").Inc()
		l.toRedis(ctx, KeyGovtSchemes, schemes)
		return schemes, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]models.Scheme), nil
}

// Rules returns the scheme recommendation rules, loading them on first use.
func (l *Loader) Rules(ctx context.Context) ([]models.SchemeRule, error) {
	v, err := l.cache.Do(ctx, KeySchemeRules, func(ctx context.Context) (interface{}, error) {
		var rules []models.SchemeRule
		if l.fromRedis(ctx, KeySchemeRules, &rules) {
			return rules, nil
		}

		rows, err := l.source.FetchRules(ctx)
		if err != nil {
			metrics.CatalogLoads.WithLabelValues(KeySchemeRules, "error").Inc()
			return nil, errors.NewCatalogLoadError(KeySchemeRules, err)
		}

		rules = make([]models.SchemeRule, 0, len(rows))
		for _, raw := range rows {
			var r models.SchemeRule
			if !l.decodeRow(KeySchemeRules, l.ruleValidator, raw, &r) {
				continue
			}
			rules = append(rules, r)
		}

		metrics.CatalogLoads.WithLabelValues(KeySchemeRules, "success").Inc()
		l.toRedis(ctx, KeySchemeRules, rules)
		return rules, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]models.SchemeRule), nil
}

// Refresh drops one dataset from both cache layers so the next read reloads.
func (l *Loader) Refresh(ctx context.Context, key string) {
	l.cache.Clear(key)
	if l.redis != nil {
		if err := l.redis.Del(ctx, l.redisKey(key)); err != nil {
			l.logger.Warn("failed to drop redis catalog key", map[string]interface{}{
				"dataset": key,
				"error":   err.Error(),
			})
		}
	}
}

// decodeRow validates a raw catalog row and unmarshals it into out.
// Returns false (and records the skip) when the row is unusable.
func (l *Loader) decodeRow(dataset string, v *validation.Validator, raw json.RawMessage, out interface{}) bool {
	var doc interface{}
	if err := json.Unmarshal(raw, &doc); err != nil {
		l.skipRow(dataset, err.Error())
		return false
	}
	if result := v.Validate(doc); !result.Valid {
		l.skipRow(dataset, result.Summary())
		return false
	}
	if err := json.Unmarshal(raw, out); err != nil {
		l.skipRow(dataset, err.Error())
		return false
	}
	return true
}

func (l *Loader) skipRow(dataset, reason string) {
	metrics.CatalogRowsSkipped.WithLabelValues(dataset).Inc()
	l.logger.WithError(errors.NewCatalogRowError(dataset, reason)).Warn(
		"skipping invalid catalog row", map[string]interface{}{
			"dataset": dataset,
		})
}

// fromRedis attempts to serve a dataset from the redis layer. Any failure
// (miss, connection error, stale payload shape) falls through to the source.
func (l *Loader) fromRedis(ctx context.Context, key string, out interface{}) bool {
	if l.redis == nil {
		return false
	}
	payload, err := l.redis.Get(ctx, l.redisKey(key))
	if err != nil {
		return false
	}
	if err := json.Unmarshal([]byte(payload), out); err != nil {
		l.logger.Warn("discarding undecodable redis catalog payload", map[string]interface{}{
			"dataset": key,
			"error":   err.Error(),
		})
		return false
	}
	metrics.CatalogCacheHits.WithLabelValues(key).Inc()
	return true
}

// toRedis writes a freshly loaded dataset to the redis layer, best effort.
func (l *Loader) toRedis(ctx context.Context, key string, value interface{}) {
	if l.redis == nil {
		return
	}
	payload, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := l.redis.Set(ctx, l.redisKey(key), payload, l.ttl); err != nil {
		l.logger.Warn("failed to write catalog dataset to redis", map[string]interface{}{
			"dataset": key,
			"error":   err.Error(),
		})
	}
}

func (l *Loader) redisKey(key string) string {
	return "catalog:" + key
}
