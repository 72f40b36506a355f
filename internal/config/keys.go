package config

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/base64"
	"encoding/pem"
	"errors"
	"fmt"
	"log/slog"
	"os"
)

// loadJWTKeys reads the base64 PEM pair from JWT_PRIVATE_KEY/JWT_PUBLIC_KEY.
// Production refuses to start without them; other environments mint a fresh
// pair, so tokens do not survive a restart.
func (c *Config) loadJWTKeys() (*rsa.PrivateKey, *rsa.PublicKey, error) {
	privateB64, publicB64 := os.Getenv("JWT_PRIVATE_KEY"), os.Getenv("JWT_PUBLIC_KEY")

	if privateB64 == "" || publicB64 == "" {
		if c.IsProduction() {
			return nil, nil, errors.New("JWT_PRIVATE_KEY and JWT_PUBLIC_KEY must be set in production")
		}
		slog.Info("Generating an ephemeral RSA keypair for JWT", "environment", c.Server.Environment)
		return GenerateRSAKeyPair()
	}

	privatePEM, err := base64.StdEncoding.DecodeString(privateB64)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to decode JWT_PRIVATE_KEY: %w", err)
	}
	publicPEM, err := base64.StdEncoding.DecodeString(publicB64)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to decode JWT_PUBLIC_KEY: %w", err)
	}

	privateKey, err := parsePrivateKey(privatePEM)
	if err != nil {
		return nil, nil, err
	}
	publicKey, err := parsePublicKey(publicPEM)
	if err != nil {
		return nil, nil, err
	}
	return privateKey, publicKey, nil
}

// GenerateRSAKeyPair returns a new 2048-bit signing pair.
func GenerateRSAKeyPair() (*rsa.PrivateKey, *rsa.PublicKey, error) {
	privateKey, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to generate RSA key pair: %w", err)
	}
	return privateKey, &privateKey.PublicKey, nil
}

func decodePEM(data []byte) ([]byte, error) {
	block, _ := pem.Decode(data)
	if block == nil {
		return nil, errors.New("no PEM block found")
	}
	return block.Bytes, nil
}

// parsePrivateKey accepts PKCS#1 and PKCS#8 encodings.
func parsePrivateKey(data []byte) (*rsa.PrivateKey, error) {
	der, err := decodePEM(data)
	if err != nil {
		return nil, fmt.Errorf("private key: %w", err)
	}
	if key, err := x509.ParsePKCS1PrivateKey(der); err == nil {
		return key, nil
	}
	parsed, err := x509.ParsePKCS8PrivateKey(der)
	if err != nil {
		return nil, fmt.Errorf("private key: %w", err)
	}
	key, ok := parsed.(*rsa.PrivateKey)
	if !ok {
		return nil, errors.New("private key: not an RSA key")
	}
	return key, nil
}

func parsePublicKey(data []byte) (*rsa.PublicKey, error) {
	der, err := decodePEM(data)
	if err != nil {
		return nil, fmt.Errorf("public key: %w", err)
	}
	parsed, err := x509.ParsePKIXPublicKey(der)
	if err != nil {
		return nil, fmt.Errorf("public key: %w", err)
	}
	key, ok := parsed.(*rsa.PublicKey)
	if !ok {
		return nil, errors.New("public key: not an RSA key")
	}
	return key, nil
}
