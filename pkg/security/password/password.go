package password

import "golang.org/x/crypto/bcrypt"

// DefaultCost is a bcrypt cost that keeps hashing deliberately slow
// without making interactive logins painful.
const DefaultCost = 12

// Hasher derives storable password secrets with bcrypt. Each call salts
// independently, so hashing the same plaintext twice yields different
// secrets that both verify.
type Hasher struct {
	cost int
}

// NewHasher returns a Hasher with the given bcrypt cost. Costs outside
// bcrypt's supported range fall back to DefaultCost.
func NewHasher(cost int) *Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultCost
	}
	return &Hasher{cost: cost}
}

// Hash generates a bcrypt hash of the given plaintext.
func (h *Hasher) Hash(plaintext string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Verify reports whether plaintext matches the stored secret.
// bcrypt's comparison is constant-time over the derived key.
func (h *Hasher) Verify(plaintext, secret string) bool {
	return bcrypt.CompareHashAndPassword([]byte(secret), []byte(plaintext)) == nil
}
