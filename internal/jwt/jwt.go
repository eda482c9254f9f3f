package jwt

import (
	"context"
	"errors"
	"fmt"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"

	"equipment-logbook/internal/nonce"
)

var (
	ErrInvalidNonce     = errors.New("invalid nonce")
	ErrNonValidToken    = errors.New("token did not pass validation")
	ErrInvalidClaimType = errors.New("invalid claim type")
)

var tokenSignatureAlg = jwtlib.SigningMethodHS256

// Nonces outlive tokens slightly to allow for clock skew.
const nonceSkew = 10 * time.Second

// AdminClaim identifies a signed-in administrator. The registered ID (jti)
// is a nonce; the session ends when the nonce is consumed or expires.
type AdminClaim struct {
	Username string `json:"username"`
	Fallback bool   `json:"fallback,omitempty"`
	jwtlib.RegisteredClaims
}

// Issuer signs and verifies admin session tokens.
type Issuer struct {
	secret []byte
	ttl    time.Duration
	nonces nonce.NonceStoreInterface
}

func NewIssuer(secret string, ttl time.Duration, nonces nonce.NonceStoreInterface) (*Issuer, error) {
	if ttl <= 0 {
		return nil, errors.New("invalid token TTL")
	}
	return &Issuer{secret: []byte(secret), ttl: ttl, nonces: nonces}, nil
}

func (i *Issuer) TTL() time.Duration {
	return i.ttl
}

// Issue creates a session for subject (admin id) and returns the signed token.
func (i *Issuer) Issue(ctx context.Context, subject, username string, fallback bool) (string, *AdminClaim, error) {
	jti, err := nonce.New(ctx, i.nonces, i.ttl+nonceSkew)
	if err != nil {
		return "", nil, fmt.Errorf("failed to generate nonce: %w", err)
	}
	now := time.Now().UTC()
	claims := &AdminClaim{
		Username: username,
		Fallback: fallback,
		RegisteredClaims: jwtlib.RegisteredClaims{
			ID:        jti,
			Subject:   subject,
			IssuedAt:  jwtlib.NewNumericDate(now),
			ExpiresAt: jwtlib.NewNumericDate(now.Add(i.ttl)),
		},
	}
	token, err := i.GenerateJWT(claims)
	if err != nil {
		return "", nil, err
	}
	return token, claims, nil
}

// Verify decodes the token and checks that its session is still open.
func (i *Issuer) Verify(ctx context.Context, tokenString string) (*AdminClaim, error) {
	claims, err := decodeJWT(tokenString, &AdminClaim{}, i.secret)
	if err != nil {
		return nil, err
	}
	if !i.nonces.Exists(ctx, claims.ID) {
		return nil, ErrInvalidNonce
	}
	return claims, nil
}

// Revoke ends the session by consuming its nonce.
func (i *Issuer) Revoke(ctx context.Context, claims *AdminClaim) error {
	if ok, err := i.nonces.Consume(ctx, claims.ID); err != nil || !ok {
		if err != nil {
			return err
		}
		return ErrInvalidNonce
	}
	return nil
}

// Generic JWT token generation function
func (i *Issuer) GenerateJWT(claims jwtlib.Claims) (string, error) {
	token := jwtlib.NewWithClaims(tokenSignatureAlg, claims)
	return token.SignedString(i.secret)
}

func decodeJWT[T jwtlib.Claims](tokenString string, claimsType T, secret []byte) (T, error) {
	var zero T

	parsedToken, err := jwtlib.ParseWithClaims(tokenString, claimsType, func(token *jwtlib.Token) (interface{}, error) {
		return secret, nil
	}, jwtlib.WithValidMethods([]string{tokenSignatureAlg.Alg()}))

	if err != nil {
		return zero, err
	} else if parsedToken == nil || !parsedToken.Valid {
		return zero, ErrNonValidToken
	} else if claims, ok := parsedToken.Claims.(T); ok {
		return claims, nil
	}

	return zero, ErrInvalidClaimType
}
