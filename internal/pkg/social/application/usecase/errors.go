package usecase

import "fmt"

// ErrPersistence indicates an infrastructure/repository failure inside a use
// case. Domain errors (authorization, validation) pass through untouched.
var ErrPersistence = fmt.Errorf("social use case persistence error")

// Cipher encrypts message content at rest. Satisfied by secret.Box; tests
// substitute a transparent fake.
type Cipher interface {
	Encrypt(plaintext string) (string, error)
	Decrypt(ciphertext string) (string, error)
}
