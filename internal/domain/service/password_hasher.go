// Package service defines the outbound ports used by the use cases.
package service

// PasswordHasher turns account passwords into stored digests.
type PasswordHasher interface {
	Hash(password string) (string, error)
	// Check reports whether password matches hash. A malformed hash never matches.
	Check(password, hash string) bool
}
