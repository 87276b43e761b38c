// Package member verifies tokens issued by the member provider and exposes the
// signed-in member to handlers.
package member

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
)

const (
	// AnonymousName is the author recorded when a member has neither nickname nor first name.
	AnonymousName = "Anonymous"
	// DefaultProfileName is shown on a profile page without a nickname or first name.
	DefaultProfileName = "Pet Owner"
)

var (
	ErrTokenInvalid = errors.New("invalid or expired token")
	ErrTokenRevoked = errors.New("token has been revoked")
)

// Member is the signed-in user as described by the provider.
type Member struct {
	ID            string     `json:"_id"`
	Nickname      string     `json:"nickname,omitempty"`
	FirstName     string     `json:"firstName,omitempty"`
	LastName      string     `json:"lastName,omitempty"`
	Email         string     `json:"loginEmail,omitempty"`
	EmailVerified bool       `json:"loginEmailVerified"`
	Title         string     `json:"title,omitempty"`
	PhotoURL      string     `json:"photo,omitempty"`
	Status        string     `json:"status,omitempty"`
	CreatedAt     *time.Time `json:"_createdDate,omitempty"`
}

// DisplayName is the author name stamped on submitted records.
func (m *Member) DisplayName() string {
	if m == nil {
		return AnonymousName
	}
	return firstNonBlank(m.Nickname, m.FirstName, AnonymousName)
}

// ProfileName is the heading of the member's profile page.
func (m *Member) ProfileName() string {
	if m == nil {
		return DefaultProfileName
	}
	return firstNonBlank(m.Nickname, m.FirstName, DefaultProfileName)
}

func firstNonBlank(values ...string) string {
	for _, v := range values {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}
	return ""
}

// Claims is the provider token payload.
type Claims struct {
	Nickname      string           `json:"nickname,omitempty"`
	GivenName     string           `json:"given_name,omitempty"`
	FamilyName    string           `json:"family_name,omitempty"`
	Email         string           `json:"email,omitempty"`
	EmailVerified bool             `json:"email_verified,omitempty"`
	Title         string           `json:"title,omitempty"`
	Picture       string           `json:"picture,omitempty"`
	Status        string           `json:"status,omitempty"`
	MemberSince   *jwt.NumericDate `json:"member_since,omitempty"`
	jwt.RegisteredClaims
}

// Member converts the claims into the member they describe.
func (c *Claims) Member() *Member {
	m := &Member{
		ID:            c.Subject,
		Nickname:      c.Nickname,
		FirstName:     c.GivenName,
		LastName:      c.FamilyName,
		Email:         c.Email,
		EmailVerified: c.EmailVerified,
		Title:         c.Title,
		PhotoURL:      c.Picture,
		Status:        c.Status,
	}
	if c.MemberSince != nil {
		t := c.MemberSince.UTC()
		m.CreatedAt = &t
	}
	return m
}

// Verifier checks HMAC-signed member tokens and the revocation list.
type Verifier struct {
	secret   []byte
	issuer   string
	audience string
	rdb      *redis.Client
}

// NewVerifier creates a verifier. rdb may be nil, in which case revocation is not checked.
func NewVerifier(secret, issuer, audience string, rdb *redis.Client) *Verifier {
	return &Verifier{secret: []byte(secret), issuer: issuer, audience: audience, rdb: rdb}
}

func blacklistKey(jti string) string {
	return "blacklist:" + jti
}

// Verify parses tokenString and returns its claims.
func (v *Verifier) Verify(ctx context.Context, tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return v.secret, nil
	},
		jwt.WithIssuer(v.issuer),
		jwt.WithAudience(v.audience),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: missing subject", ErrTokenInvalid)
	}

	if claims.ID != "" && v.rdb != nil {
		revoked, err := v.rdb.Exists(ctx, blacklistKey(claims.ID)).Result()
		if err == nil && revoked > 0 {
			return nil, ErrTokenRevoked
		}
	}
	return claims, nil
}

// Revoke blacklists the token's jti until the token would have expired.
func (v *Verifier) Revoke(ctx context.Context, claims *Claims) error {
	if claims == nil || claims.ID == "" {
		return nil
	}
	if v.rdb == nil {
		return errors.New("revocation requires redis")
	}
	ttl := time.Hour
	if claims.ExpiresAt != nil {
		ttl = time.Until(claims.ExpiresAt.Time)
	}
	if ttl <= 0 {
		return nil
	}
	return v.rdb.Set(ctx, blacklistKey(claims.ID), "1", ttl).Err()
}
