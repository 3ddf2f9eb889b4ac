package types

// ValidationConfig controls schema-validation behavior and security
// limits shared by every JSON-Schema consumer in the module (pattern
// packs, driver config documents).
type ValidationConfig struct {
	// Security: schema size limit.
	MaxSchemaSize int // max schema size in bytes (default 1MB)

	// Security: $ref resolution.
	AllowRemoteRef bool     // allow remote $ref (default false)
	AllowedSchemes []string // allowed URL schemes (default ["file", "schema"])

	// Performance: caching.
	EnableCache  bool // enable compiled-validator caching (default true)
	MaxCacheSize int  // max cached validators (default 256)

	// Validation behavior.
	AssertFormat bool // enable format assertions (default true)
}

// DefaultValidationConfig returns secure defaults.
func DefaultValidationConfig() *ValidationConfig {
	return &ValidationConfig{
		MaxSchemaSize:  1024 * 1024,
		AllowRemoteRef: false,
		AllowedSchemes: []string{"file", "schema"},
		EnableCache:    true,
		MaxCacheSize:   256,
		AssertFormat:   true,
	}
}
