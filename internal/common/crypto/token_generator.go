package crypto

import "github.com/google/uuid"

// TokenGenerator produces opaque, unguessable identifiers for session
// tokens. uuid.NewString draws 122 random bits from crypto/rand.
type TokenGenerator interface {
	NewToken() string
}

type UUIDGenerator struct{}

func NewUUIDGenerator() *UUIDGenerator {
	return &UUIDGenerator{}
}

func (g *UUIDGenerator) NewToken() string {
	return uuid.NewString()
}
