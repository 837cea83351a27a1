package jwtx

import (
	"crypto/ed25519"
	"crypto/rand"
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"os"

	"github.com/golang-jwt/jwt/v5"
)

// CookieCodec signs and verifies portal session cookies using Ed25519.
// One codec per process; the key either comes from a PKCS8 PEM file or is
// generated ephemerally (sessions then die with the process).
type CookieCodec struct {
	issuer string
	key    ed25519.PrivateKey
	pub    ed25519.PublicKey
}

// NewCookieCodec loads an Ed25519 private key from a PKCS8 PEM file. If
// path is empty an ephemeral key is generated instead.
func NewCookieCodec(issuer, path string) (*CookieCodec, error) {
	if path == "" {
		return newEphemeralCodec(issuer)
	}

	pemKey, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("jwtx: failed to read signing key file: %w", err)
	}

	block, _ := pem.Decode(pemKey)
	if block == nil || block.Type != "PRIVATE KEY" {
		return nil, fmt.Errorf("jwtx: expected PKCS8 PRIVATE KEY PEM")
	}

	parsed, err := x509.ParsePKCS8PrivateKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("jwtx: failed to parse PKCS8 key: %w", err)
	}

	key, ok := parsed.(ed25519.PrivateKey)
	if !ok {
		return nil, fmt.Errorf("jwtx: signing key is not Ed25519")
	}

	return &CookieCodec{
		issuer: issuer,
		key:    key,
		pub:    key.Public().(ed25519.PublicKey),
	}, nil
}

func newEphemeralCodec(issuer string) (*CookieCodec, error) {
	pub, key, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("jwtx: failed to generate ephemeral key: %w", err)
	}
	return &CookieCodec{issuer: issuer, key: key, pub: pub}, nil
}

// Issuer returns the issuer the codec signs and verifies with.
func (c *CookieCodec) Issuer() string {
	return c.issuer
}

// Sign produces a compact EdDSA-signed JWT for the given claims.
func (c *CookieCodec) Sign(claims Claims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodEdDSA, claims)
	signed, err := token.SignedString(c.key)
	if err != nil {
		return "", fmt.Errorf("jwtx: failed to sign token: %w", err)
	}
	return signed, nil
}

// Verify parses and validates a compact JWT, enforcing the EdDSA algorithm,
// the configured issuer and the expiry claim.
func (c *CookieCodec) Verify(raw string) (Claims, error) {
	var claims Claims

	token, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodEd25519); !ok {
			return nil, fmt.Errorf("%w: unexpected signing method %q", ErrInvalidToken, t.Method.Alg())
		}
		return c.pub, nil
	}, jwt.WithIssuer(c.issuer), jwt.WithExpirationRequired())
	if err != nil {
		return Claims{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	if !token.Valid {
		return Claims{}, ErrInvalidToken
	}

	return claims, nil
}
