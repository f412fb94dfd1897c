// Package password hashes and verifies account passwords.
package password

// Hasher is a one-way adaptive password hash.
type Hasher interface {
	Hash(plain string) (string, error)
	// Verify reports whether plain matches hash. A mismatch is not an error.
	Verify(plain, hash string) (bool, error)
}
