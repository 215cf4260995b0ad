package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"food_store/internal/apperror"
	"food_store/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const (
	BearerPrefix = "bearer"
	actorKey     = "actor"
)

// Claims is the bearer token payload: sub carries the numeric user id.
type Claims struct {
	Role models.Role `json:"role"`
	jwt.RegisteredClaims
}

// Authenticate verifies an HS256 bearer token and stores the caller as a models.Actor.
func Authenticate(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, err := actorFromRequest(c.GetHeader("Authorization"), secret)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":   "Unauthorized",
				"message": err.Error(),
			})
			return
		}
		c.Set(actorKey, actor)
		c.Next()
	}
}

// RequireRole rejects authenticated callers whose role is not role.
func RequireRole(role models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := ActorFrom(c)
		if !ok || actor.Role != role {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error":   apperror.CodeRoleNotPermitted,
				"message": fmt.Sprintf("%s access only", role),
			})
			return
		}
		c.Next()
	}
}

// ActorFrom returns the caller set by Authenticate.
func ActorFrom(c *gin.Context) (models.Actor, bool) {
	value, ok := c.Get(actorKey)
	if !ok {
		return models.Actor{}, false
	}
	actor, ok := value.(models.Actor)
	return actor, ok
}

// IssueToken signs a token for actor. Used by the seed script and tests.
func IssueToken(secret []byte, actor models.Actor, ttl time.Duration, now time.Time) (string, error) {
	claims := &Claims{
		Role: actor.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(actor.ID), 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

func actorFromRequest(header string, secret []byte) (models.Actor, error) {
	tokenString, err := extractBearerToken(header)
	if err != nil {
		return models.Actor{}, err
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return models.Actor{}, fmt.Errorf("invalid token: %w", err)
	}
	if !token.Valid {
		return models.Actor{}, errors.New("invalid token")
	}

	if !claims.Role.Valid() {
		return models.Actor{}, fmt.Errorf("unknown role %q", claims.Role)
	}
	id, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil || id == 0 {
		return models.Actor{}, fmt.Errorf("invalid subject %q", claims.Subject)
	}

	return models.Actor{Role: claims.Role, ID: uint(id)}, nil
}

func extractBearerToken(header string) (string, error) {
	if header == "" {
		return "", errors.New("missing authorization header")
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], BearerPrefix) || parts[1] == "" {
		return "", errors.New("invalid authorization format")
	}

	return parts[1], nil
}
