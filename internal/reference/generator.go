// Package reference issues booking reference codes that are unique within
// one itinerary and reproducible from the same salt.
package reference

import (
	"crypto/sha256"
	"encoding/base32"
	"encoding/hex"
	"strconv"
	"strings"

	"github.com/dharmasatrya/tripplanner/internal/models"
)

const (
	codeLength         = 10
	DefaultMaxAttempts = 8
)

// Crockford's alphabet drops I, L, O and U so codes read back unambiguously.
var crockford = base32.NewEncoding("0123456789ABCDEFGHJKMNPQRSTVWXYZ").WithPadding(base32.NoPadding)

// HashFunc must return at least 7 bytes.
type HashFunc func(data []byte) []byte

func SHA256(data []byte) []byte {
	sum := sha256.Sum256(data)
	return sum[:]
}

type Option func(*Generator)

func WithHash(h HashFunc) Option {
	return func(g *Generator) {
		g.hash = h
	}
}

func WithMaxAttempts(n int) Option {
	return func(g *Generator) {
		if n > 0 {
			g.maxAttempts = n
		}
	}
}

// Generator is scoped to a single itinerary and is not safe for concurrent use.
type Generator struct {
	salt        string
	hash        HashFunc
	maxAttempts int
	issued      map[string]struct{}
}

func New(salt string, opts ...Option) *Generator {
	g := &Generator{
		salt:        salt,
		hash:        SHA256,
		maxAttempts: DefaultMaxAttempts,
		issued:      make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate returns <prefix><code> for the item. A collision with an already
// issued code is retried with the next attempt number.
func (g *Generator) Generate(category models.Category, identity string) (string, error) {
	prefix := category.ReferencePrefix()

	for attempt := 0; attempt < g.maxAttempts; attempt++ {
		code := prefix + g.code(prefix, identity, attempt)
		if _, taken := g.issued[code]; taken {
			continue
		}
		g.issued[code] = struct{}{}
		return code, nil
	}

	return "", &models.ReferenceGenerationError{
		Category: category,
		Identity: identity,
		Attempts: g.maxAttempts,
	}
}

func (g *Generator) code(prefix, identity string, attempt int) string {
	payload := strings.Join([]string{prefix, identity, g.salt, strconv.Itoa(attempt)}, "|")
	return crockford.EncodeToString(g.hash([]byte(payload)))[:codeLength]
}

// ItineraryID derives the public itinerary id, e.g. ITN3F9A01C2B74D0E15.
// It doubles as the storage key, so it carries 64 bits of the digest.
func ItineraryID(salt string) string {
	sum := sha256.Sum256([]byte("itinerary|" + salt))
	return "ITN" + strings.ToUpper(hex.EncodeToString(sum[:8]))
}
