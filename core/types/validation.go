// Package types holds schema-validation primitives shared across the
// module: the pattern library's JSON pattern-pack loader
// (pkgs/pattern) and the driver's YAML configuration loader
// (internal/config) both compile and cache JSON schemas through a
// single Validator rather than each rolling their own
// jsonschema.Compiler setup.
package types

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// Validator compiles and validates documents against JSON schemas,
// with security controls over $ref resolution and a bound on schema
// size (teacher idiom: core/types.Validator, generalised from
// decorator-parameter schemas to arbitrary document schemas).
type Validator struct {
	config *ValidationConfig
	cache  *validatorCache
}

// NewValidator creates a validator with the given config. A nil
// config uses DefaultValidationConfig.
func NewValidator(config *ValidationConfig) *Validator {
	if config == nil {
		config = DefaultValidationConfig()
	}
	var cache *validatorCache
	if config.EnableCache {
		cache = newValidatorCache(config.MaxCacheSize)
	}
	return &Validator{config: config, cache: cache}
}

// Validate compiles schemaJSON (a JSON Schema document) and validates
// doc against it. doc must already be decoded into Go values (the
// shape json.Unmarshal or yaml.Unmarshal-into-any produces).
func (v *Validator) Validate(schemaJSON []byte, doc interface{}) error {
	if len(schemaJSON) > v.config.MaxSchemaSize {
		return fmt.Errorf("types: schema too large: %d bytes (max %d)", len(schemaJSON), v.config.MaxSchemaSize)
	}

	compiled, err := v.getValidator(schemaJSON)
	if err != nil {
		return fmt.Errorf("types: compiling schema: %w", err)
	}
	if err := compiled.Validate(doc); err != nil {
		return convertValidationError(err)
	}
	return nil
}

func (v *Validator) getValidator(schemaJSON []byte) (*jsonschema.Schema, error) {
	hash := hashSchema(schemaJSON)
	if v.cache != nil {
		if s, ok := v.cache.get(hash); ok {
			return s, nil
		}
	}
	compiled, err := v.compileSchema(schemaJSON)
	if err != nil {
		return nil, err
	}
	if v.cache != nil {
		v.cache.put(hash, compiled)
	}
	return compiled, nil
}

func (v *Validator) compileSchema(schemaJSON []byte) (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	compiler.AssertFormat = v.config.AssertFormat
	compiler.LoadURL = v.createSecureLoader()

	url := "schema://main.json"
	if err := compiler.AddResource(url, strings.NewReader(string(schemaJSON))); err != nil {
		return nil, err
	}
	return compiler.Compile(url)
}

// createSecureLoader restricts $ref resolution to the configured URL
// schemes, blocking remote fetches unless explicitly allowed — the
// same defense-in-depth posture as the teacher's decorator-schema
// loader, generalised to any schema consumer.
func (v *Validator) createSecureLoader() func(string) (io.ReadCloser, error) {
	return func(url string) (io.ReadCloser, error) {
		if !v.config.AllowRemoteRef && (strings.HasPrefix(url, "http://") || strings.HasPrefix(url, "https://")) {
			return nil, fmt.Errorf("types: remote $ref not allowed: %s", url)
		}
		allowed := false
		for _, scheme := range v.config.AllowedSchemes {
			if strings.HasPrefix(url, scheme+"://") || strings.HasPrefix(url, scheme+":") {
				allowed = true
				break
			}
		}
		if !allowed {
			return nil, fmt.Errorf("types: URL scheme not allowed: %s", url)
		}
		return jsonschema.LoadURL(url)
	}
}

func convertValidationError(err error) error {
	if ve, ok := err.(*jsonschema.ValidationError); ok {
		return fmt.Errorf("types: validation failed: %s", ve.Error())
	}
	return err
}

func hashSchema(schemaJSON []byte) string {
	sum := sha256.Sum256(schemaJSON)
	return hex.EncodeToString(sum[:])
}

// validatorCache is a bounded, mutex-guarded map from schema hash to
// compiled validator. Eviction is simplistic (clear-all once the
// bound is hit) since schema sets in practice are small and static.
type validatorCache struct {
	mu    sync.RWMutex
	max   int
	items map[string]*jsonschema.Schema
}

func newValidatorCache(max int) *validatorCache {
	if max <= 0 {
		max = 256
	}
	return &validatorCache{max: max, items: make(map[string]*jsonschema.Schema)}
}

func (c *validatorCache) get(hash string) (*jsonschema.Schema, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	s, ok := c.items[hash]
	return s, ok
}

func (c *validatorCache) put(hash string, s *jsonschema.Schema) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.items) >= c.max {
		c.items = make(map[string]*jsonschema.Schema)
	}
	c.items[hash] = s
}

// DecodeJSON is a small convenience used by both schema-consuming
// packages to turn raw bytes into the interface{} tree
// jsonschema.Schema.Validate expects.
func DecodeJSON(data []byte) (interface{}, error) {
	var v interface{}
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("types: decoding JSON: %w", err)
	}
	return v, nil
}
