package auth

import (
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"

	// Load env file into environments.
	_ "github.com/joho/godotenv/autoload"
)

// SecretKey signs every session token
var SecretKey = os.Getenv("SECRET_KEY")

// JwtIssuer is the issuer claim of every token this server signs
const JwtIssuer = "EmpreGol"

// TokenLifetime is how long a session token stays valid
const TokenLifetime = 24 * time.Hour

// GenerateStandardToken signs a session token for the given user id
func GenerateStandardToken(userID uuid.UUID) (string, error) {
	return GenerateTokenWithDuration(userID, TokenLifetime, JwtIssuer)
}

// GenerateTokenWithDuration signs a token with custom lifetime and issuer.
// Every token carries a unique id so it can be revoked on logout.
func GenerateTokenWithDuration(userID uuid.UUID, duration time.Duration, issuer string) (string, error) {
	now := time.Now()
	generatedAccessToken := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ID:        uuid.NewString(),
		Issuer:    issuer,
		Subject:   userID.String(),
		ExpiresAt: jwt.NewNumericDate(now.Add(duration)),
		IssuedAt:  jwt.NewNumericDate(now),
	})

	signedToken, err := generatedAccessToken.SignedString([]byte(SecretKey))
	if err != nil {
		return "", fmt.Errorf("Failed to sign token: %s", err)
	}

	return signedToken, nil
}

// ValidatedToken parses the token with registered claims and checks its signature
func ValidatedToken(encodeToken string) (*jwt.Token, error) {
	return jwt.ParseWithClaims(encodeToken, &jwt.RegisteredClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, isvalid := token.Method.(*jwt.SigningMethodHMAC); !isvalid {
			return nil, fmt.Errorf("Invalid token")
		}
		return []byte(SecretKey), nil
	})
}
