package token

import (
	"fmt"

	"github.com/google/uuid"
)

// Token is an opaque, collision-resistant identity value assigned to an
// instance. It is independent of the instance's memory address, so it stays
// valid after the instance moves or is collected and its address is reused.
// Tokens are comparable and safe to embed in map keys.
type Token uuid.UUID

// New generates a fresh random token with 122 bits of entropy.
// Panics if the system entropy source fails; that is an environment
// fault, not a per-call error condition.
func New() Token {
	id, err := uuid.NewRandom()
	if err != nil {
		panic(fmt.Sprintf("token: entropy source unavailable: %v", err))
	}
	return Token(id)
}

// IsZero reports whether t is the zero token. The zero token is reserved
// for callables with no instance identity (plain functions).
func (t Token) IsZero() bool {
	return t == Token(uuid.Nil)
}

// String returns the canonical UUID form of the token.
func (t Token) String() string {
	return uuid.UUID(t).String()
}
