package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"workdesk/api/internal/access"
	"workdesk/api/internal/cache"
	"workdesk/api/internal/config"
	"workdesk/api/internal/models"
	"workdesk/api/internal/security"
)

const (
	// ContextActor is the gin context key for the caller's access.Context.
	ContextActor = "actor"
	// ContextSessionID is the gin context key for the current session id.
	ContextSessionID = "session_id"
)

type SessionStore interface {
	GetByID(ctx context.Context, id string) (models.Session, error)
	Touch(ctx context.Context, id string, ip, userAgent string) error
}

// Auth requires a valid session token and a live session row behind it. The
// row lookup is cached in redis for a short window; logout invalidates the
// cache entry, so revocation lags by at most the cache TTL.
func Auth(cfg *config.AppConfig, sessions SessionStore, cacheClient *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, sessionID, ok := authenticate(c, cfg, sessions, cacheClient)
		if !ok {
			return
		}

		c.Set(ContextActor, actor)
		c.Set(ContextSessionID, sessionID)
		c.Next()
	}
}

// OptionalAuth populates the actor when a token is present but lets
// anonymous callers through; the contact intake path permits both.
func OptionalAuth(cfg *config.AppConfig, sessions SessionStore, cacheClient *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" {
			c.Set(ContextActor, access.Context{})
			c.Next()
			return
		}

		actor, sessionID, ok := authenticate(c, cfg, sessions, cacheClient)
		if !ok {
			return
		}

		c.Set(ContextActor, actor)
		c.Set(ContextSessionID, sessionID)
		c.Next()
	}
}

func authenticate(c *gin.Context, cfg *config.AppConfig, sessions SessionStore, cacheClient *redis.Client) (access.Context, string, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing_token"})
		return access.Context{}, "", false
	}

	tokenStr := strings.TrimPrefix(authHeader, "Bearer ")

	claims, err := security.ParseSessionToken(tokenStr, cfg.Security.SessionSecret)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid_token"})
		return access.Context{}, "", false
	}

	if !sessionAlive(c, cfg, sessions, cacheClient, claims.SessionID) {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "session_not_found"})
		return access.Context{}, "", false
	}

	_ = sessions.Touch(c.Request.Context(), claims.SessionID, c.ClientIP(), c.GetHeader("User-Agent"))

	actor := access.Context{
		UserID: claims.UserID,
		Role:   models.Role(claims.Role),
		Name:   claims.Name,
		Email:  claims.Email,
	}
	return actor, claims.SessionID, true
}

func sessionAlive(c *gin.Context, cfg *config.AppConfig, sessions SessionStore, cacheClient *redis.Client, sessionID string) bool {
	ctx := c.Request.Context()
	key := cache.SessionKey(sessionID)

	if cacheClient != nil {
		if hit, err := cacheClient.Get(ctx, key).Result(); err == nil && hit == "1" {
			return true
		}
	}

	session, err := sessions.GetByID(ctx, sessionID)
	if err != nil || session.ExpiresAt.Before(time.Now()) {
		return false
	}

	if cacheClient != nil {
		ttl := cfg.Security.SessionCache
		if ttl <= 0 {
			ttl = time.Minute
		}
		_ = cacheClient.Set(ctx, key, "1", ttl).Err()
	}
	return true
}

// Actor returns the caller context set by Auth or OptionalAuth. A missing
// value means anonymous.
func Actor(c *gin.Context) access.Context {
	val, exists := c.Get(ContextActor)
	if !exists {
		return access.Context{}
	}
	actor, ok := val.(access.Context)
	if !ok {
		return access.Context{}
	}
	return actor
}
