package middleware

import (
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/ascribe/spool-engine/internal/logger"
)

// Context keys set by Auth for downstream handlers.
const (
	AuthTypeKey    = "auth_type"
	AuthSubjectKey = "auth_subject"
)

// AuthConfig holds authentication configuration. Either mechanism alone is
// enough; a request passes if its Authorization header satisfies one.
type AuthConfig struct {
	// JWTPublicKey is the RSA verification key in PEM form
	JWTPublicKey string
	// APIKeys are static keys for service-to-service callers
	APIKeys []string
}

// Auth returns a gin middleware accepting "Bearer <jwt>" or
// "ApiKey <key>" Authorization headers.
func Auth(cfg AuthConfig) gin.HandlerFunc {
	keys := make(map[string]struct{}, len(cfg.APIKeys))
	for _, k := range cfg.APIKeys {
		if k != "" {
			keys[k] = struct{}{}
		}
	}

	var verifyKey *rsa.PublicKey
	if cfg.JWTPublicKey != "" {
		var err error
		verifyKey, err = parseRSAPublicKey(cfg.JWTPublicKey)
		if err != nil {
			logger.Warn("invalid JWT public key, bearer auth disabled", zap.Error(err))
		}
	}

	return func(c *gin.Context) {
		authType, subject, err := authenticate(c.GetHeader("Authorization"), verifyKey, keys)
		if err != nil {
			logger.Warn("Authentication failed",
				zap.Error(err),
				zap.String("path", c.Request.URL.Path),
				zap.String("client_ip", c.ClientIP()),
			)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": gin.H{
					"code":    "unauthorized",
					"message": "Authentication failed",
					"details": err.Error(),
				},
			})
			return
		}

		c.Set(AuthTypeKey, authType)
		if subject != "" {
			c.Set(AuthSubjectKey, subject)
		}
		c.Next()
	}
}

// authenticate resolves the Authorization header against the configured
// mechanisms, returning the mechanism name and JWT subject when present.
func authenticate(header string, verifyKey *rsa.PublicKey, apiKeys map[string]struct{}) (string, string, error) {
	if header == "" {
		return "", "", errors.New("missing Authorization header")
	}

	scheme, credentials, found := strings.Cut(header, " ")
	if !found {
		return "", "", errors.New("invalid Authorization header format")
	}

	switch strings.ToLower(scheme) {
	case "bearer":
		claims, err := validateJWT(credentials, verifyKey)
		if err != nil {
			return "", "", err
		}
		return "jwt", claims.Subject, nil

	case "apikey":
		if len(apiKeys) == 0 {
			return "", "", errors.New("no API keys configured")
		}
		if _, ok := apiKeys[credentials]; !ok {
			return "", "", errors.New("invalid API key")
		}
		return "apikey", "", nil

	default:
		return "", "", fmt.Errorf("unsupported authorization type: %s", scheme)
	}
}

// validateJWT checks the RSA signature and standard time claims. The
// ParseWithClaims validator already rejects expired and not-yet-valid
// tokens.
func validateJWT(tokenString string, verifyKey *rsa.PublicKey) (*jwt.RegisteredClaims, error) {
	if verifyKey == nil {
		return nil, errors.New("JWT public key not configured")
	}

	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodRSA); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return verifyKey, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}

	return claims, nil
}

// parseRSAPublicKey accepts PKIX and PKCS1 encoded PEM keys.
func parseRSAPublicKey(publicKeyPEM string) (*rsa.PublicKey, error) {
	block, _ := pem.Decode([]byte(publicKeyPEM))
	if block == nil {
		return nil, errors.New("failed to parse PEM block containing public key")
	}

	pub, err := x509.ParsePKIXPublicKey(block.Bytes)
	if err != nil {
		return x509.ParsePKCS1PublicKey(block.Bytes)
	}

	rsaKey, ok := pub.(*rsa.PublicKey)
	if !ok {
		return nil, errors.New("public key is not an RSA key")
	}
	return rsaKey, nil
}
