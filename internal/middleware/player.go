package middleware

import (
	"fmt"
	"strings"
	"time"

	"veda-quiz/internal/config"
	"veda-quiz/internal/logger"
	"veda-quiz/internal/util"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

const (
	AuthorizationHeader = "Authorization"
	BearerSchema        = "Bearer "
	PlayerTokenHeader   = "X-Player-Token"
	PlayerIDKey         = "playerID" // Key for storing the player id in fiber.Ctx locals
)

// PlayerClaims are the JWT claims of an anonymous player token.
type PlayerClaims struct {
	PlayerID string `json:"player_id"`
	jwt.RegisteredClaims
}

// PlayerIdentity assigns every request a stable anonymous player identity.
// A valid token from a previous visit keeps the same player id; an absent or
// invalid token mints a fresh identity. The (possibly new) token is echoed in
// the X-Player-Token response header so clients can persist it. Requests are
// never rejected here.
func PlayerIdentity(authCfg config.AuthConfig) fiber.Handler {
	return func(c *fiber.Ctx) error {
		playerID := ""
		if tokenString := extractToken(c); tokenString != "" {
			claims, err := parsePlayerToken(tokenString, authCfg.PlayerTokenSecret)
			if err != nil {
				logger.Get().Debug("Player token rejected, minting a new identity", zap.Error(err))
			} else {
				playerID = claims.PlayerID
			}
		}

		if playerID == "" {
			playerID = util.NewULID()
		}

		tokenString, err := signPlayerToken(playerID, authCfg)
		if err != nil {
			logger.Get().Error("Failed to sign player token", zap.Error(err))
		} else {
			c.Set(PlayerTokenHeader, tokenString)
		}

		c.Locals(PlayerIDKey, playerID)
		return c.Next()
	}
}

// PlayerID returns the player id set by PlayerIdentity, or "" outside it.
func PlayerID(c *fiber.Ctx) string {
	if id, ok := c.Locals(PlayerIDKey).(string); ok {
		return id
	}
	return ""
}

func extractToken(c *fiber.Ctx) string {
	if header := c.Get(PlayerTokenHeader); header != "" {
		return header
	}
	authHeader := c.Get(AuthorizationHeader)
	if strings.HasPrefix(authHeader, BearerSchema) {
		return strings.TrimPrefix(authHeader, BearerSchema)
	}
	return ""
}

func parsePlayerToken(tokenString, secret string) (*PlayerClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &PlayerClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*PlayerClaims)
	if !ok || !token.Valid || claims.PlayerID == "" {
		return nil, fmt.Errorf("invalid player token claims")
	}
	return claims, nil
}

func signPlayerToken(playerID string, authCfg config.AuthConfig) (string, error) {
	now := time.Now()
	claims := PlayerClaims{
		PlayerID: playerID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(authCfg.PlayerTokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(authCfg.PlayerTokenSecret))
}
