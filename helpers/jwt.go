package helpers

import (
	"crypto/rsa"
	"crypto/x509"
	"encoding/json"
	"encoding/pem"
	"errors"
	"os"
	"time"

	"github.com/cristalhq/jwt/v5"
)

const issuer = "https://www.gravitalia.com"

var (
	ErrInvalidKey  = errors.New("invalid RSA key")
	ErrExpiredTime = errors.New("invalid time")
)

// CreateToken allows to create JWT tokens, valid for 7 days
func CreateToken(vanity string) (string, error) {
	block, _ := pem.Decode([]byte(os.Getenv("RSA_PRIVATE_KEY")))
	if block == nil {
		return "", ErrInvalidKey
	}

	key, err := x509.ParsePKCS1PrivateKey(block.Bytes)
	if err != nil {
		return "", ErrInvalidKey
	}

	signer, err := jwt.NewSignerRS(jwt.RS256, key)
	if err != nil {
		return "", err
	}

	now := time.Now().UTC()

	token, err := jwt.NewBuilder(signer).Build(&jwt.RegisteredClaims{
		Subject:   vanity,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.AddDate(0, 0, 7)),
		Issuer:    issuer,
	})
	if err != nil {
		return "", err
	}

	return token.String(), nil
}

// CheckToken verifies the token and returns the vanity
// of its owner
func CheckToken(token string) (string, error) {
	block, _ := pem.Decode([]byte(os.Getenv("RSA_PUBLIC_KEY")))
	if block == nil {
		return "", ErrInvalidKey
	}

	parsed, err := x509.ParsePKIXPublicKey(block.Bytes)
	if err != nil {
		return "", ErrInvalidKey
	}
	key, ok := parsed.(*rsa.PublicKey)
	if !ok {
		return "", ErrInvalidKey
	}

	verifier, err := jwt.NewVerifierRS(jwt.RS256, key)
	if err != nil {
		return "", err
	}

	newToken, err := jwt.Parse([]byte(token), verifier)
	if err != nil {
		return "", err
	}

	var claims jwt.RegisteredClaims
	if err = json.Unmarshal(newToken.Claims(), &claims); err != nil {
		return "", err
	}

	if !claims.IsValidAt(time.Now()) {
		return "", ErrExpiredTime
	}

	return claims.Subject, nil
}
