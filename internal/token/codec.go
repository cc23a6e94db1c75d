package token

import (
	"encoding/json"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is the payload segment of a credential.
type Claims struct {
	Role Role `json:"role"`
	jwt.RegisteredClaims
}

// UserID returns the subject claim.
func (c *Claims) UserID() string {
	return c.Subject
}

// Codec decodes credential payloads. It never verifies signatures.
type Codec struct {
	parser *jwt.Parser
	now    func() time.Time
}

// CodecOption configures a Codec.
type CodecOption func(*Codec)

// WithClock overrides the time source used for expiry checks.
func WithClock(now func() time.Time) CodecOption {
	return func(c *Codec) {
		c.now = now
	}
}

// NewCodec creates a Codec using the wall clock unless overridden.
func NewCodec(opts ...CodecOption) *Codec {
	c := &Codec{
		parser: jwt.NewParser(jwt.WithPaddingAllowed()),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SegmentCount returns the number of dot-separated segments in credential.
func SegmentCount(credential string) int {
	if credential == "" {
		return 0
	}
	return strings.Count(credential, ".") + 1
}

// Decode extracts the claims from the second segment of credential.
// Any malformed input yields (nil, false).
func (c *Codec) Decode(credential string) (*Claims, bool) {
	if credential == "" {
		return nil, false
	}

	parts := strings.Split(credential, ".")
	if len(parts) < 2 || parts[1] == "" {
		return nil, false
	}

	// Accept both alphabets: normalise standard base64 to the URL-safe form.
	segment := strings.NewReplacer("+", "-", "/", "_").Replace(parts[1])

	payload, err := c.parser.DecodeSegment(segment)
	if err != nil || !utf8.Valid(payload) {
		return nil, false
	}

	var claims Claims
	if err := json.Unmarshal(payload, &claims); err != nil {
		return nil, false
	}
	return &claims, true
}

// IsExpired fails closed: an empty or undecodable credential, or one without
// an exp claim, counts as expired.
func (c *Codec) IsExpired(credential string) bool {
	claims, ok := c.Decode(credential)
	if !ok || claims.ExpiresAt == nil {
		return true
	}
	return claims.ExpiresAt.Time.UnixMilli() < c.now().UnixMilli()
}

// Now returns the codec's current time.
func (c *Codec) Now() time.Time {
	return c.now()
}
