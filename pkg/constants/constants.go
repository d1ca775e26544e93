// Package constants defines system-wide constants for the mrsa toolkit.
// This package provides type-safe constant definitions used across all modules.
package constants

import "time"

// ================================================================================
// Key Generation Bounds
// ================================================================================

const (
	// MinimumModulus is the smallest accepted modulus: the high bit must be set
	MinimumModulus uint64 = 1 << 63

	// MinimumPrime is the lower bound for each prime factor (about 30 bits)
	MinimumPrime uint64 = 1 << 29

	// DefaultPublicExponent is used by NewKeyFromPrimes when e is 0
	DefaultPublicExponent uint64 = 65537
)

// ================================================================================
// Key Status Constants
// ================================================================================

// KeyStatus represents the lifecycle status of a stored key
type KeyStatus string

const (
	// KeyStatusActive indicates the key may be used for cipher operations
	KeyStatusActive KeyStatus = "active"

	// KeyStatusRevoked indicates the key has been withdrawn and must not be used
	KeyStatusRevoked KeyStatus = "revoked"
)

// ================================================================================
// Audit Event Constants
// ================================================================================

// AuditEventType names a key lifecycle event in the audit trail
type AuditEventType string

const (
	// AuditEventKeyGenerated is recorded when a key is stored
	AuditEventKeyGenerated AuditEventType = "key.generated"

	// AuditEventKeyRevoked is recorded when a key is revoked
	AuditEventKeyRevoked AuditEventType = "key.revoked"

	// AuditEventKeyRolledBack is recorded when a failed batch deletes a key
	AuditEventKeyRolledBack AuditEventType = "key.rolled_back"
)

// ================================================================================
// Cipher Operation Constants
// ================================================================================

// CipherOp names a cipher direction for logging and metrics
type CipherOp string

const (
	// CipherOpEncrypt is m^e mod n
	CipherOpEncrypt CipherOp = "encrypt"

	// CipherOpDecrypt is c^d mod n
	CipherOpDecrypt CipherOp = "decrypt"
)

// ================================================================================
// Error Code Constants
// ================================================================================

// ErrorCode represents a machine-readable error code
type ErrorCode string

const (
	// ErrCodeInvalidBlock indicates a cipher input not smaller than the modulus
	ErrCodeInvalidBlock ErrorCode = "invalid_block"

	// ErrCodeNoInverse indicates the exponent has no inverse modulo lambda
	ErrCodeNoInverse ErrorCode = "no_inverse"

	// ErrCodeInvalidPrime indicates a supplied factor is not an acceptable prime
	ErrCodeInvalidPrime ErrorCode = "invalid_prime"

	// ErrCodeInvalidKey indicates a key violates its invariants
	ErrCodeInvalidKey ErrorCode = "invalid_key"

	// ErrCodeKeyNotFound indicates no stored key has the given ID
	ErrCodeKeyNotFound ErrorCode = "key_not_found"

	// ErrCodeKeyRevoked indicates the stored key has been revoked
	ErrCodeKeyRevoked ErrorCode = "key_revoked"

	// ErrCodeInvalidRequest indicates malformed input at an API boundary
	ErrCodeInvalidRequest ErrorCode = "invalid_request"

	// ErrCodeInvalidConfig indicates configuration failed validation
	ErrCodeInvalidConfig ErrorCode = "invalid_config"

	// ErrCodeServerError indicates an unexpected internal failure
	ErrCodeServerError ErrorCode = "server_error"
)

// ================================================================================
// Logging Constants
// ================================================================================

// LogLevel represents the severity level of log messages
type LogLevel string

const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
)

// ContextKey represents keys used in context.Context
type ContextKey string

const (
	// ContextKeyRequestID is the key for request ID in context
	ContextKeyRequestID ContextKey = "request_id"

	// ContextKeyLogger is the key for a request-scoped logger in context
	ContextKeyLogger ContextKey = "logger"
)

// ================================================================================
// Service Defaults
// ================================================================================

const (
	// DefaultCacheTTL is how long a loaded key stays in the in-process cache
	DefaultCacheTTL = 10 * time.Minute

	// DefaultCacheCleanupInterval is how often expired cache entries are purged
	DefaultCacheCleanupInterval = 20 * time.Minute

	// DefaultBatchConcurrency bounds parallel key generation in a batch
	DefaultBatchConcurrency = 4

	// MaxBatchSize bounds the number of keys generated in one request
	MaxBatchSize = 64

	// HeaderRequestID carries the request ID on HTTP requests and responses
	HeaderRequestID = "X-Request-ID"
)
