package middleware

import (
  "net/http"
  "strings"
  "github.com/gin-gonic/gin"
  "github.com/raceautoindia/race-analytics-backend/internal/logger"
  "github.com/raceautoindia/race-analytics-backend/internal/services"
)

const authCookieName = "authToken"

type AuthMiddleware struct {
  log          *logger.Logger
  authService  services.AuthService
  mlAdminToken string
}

func NewAuthMiddleware(log *logger.Logger, authService services.AuthService, mlAdminToken string) *AuthMiddleware {
  return &AuthMiddleware{
    log:          log.With("middleware", "AuthMiddleware"),
    authService:  authService,
    mlAdminToken: mlAdminToken,
  }
}

func (m *AuthMiddleware) extractToken(c *gin.Context) string {
  if cookie, err := c.Cookie(authCookieName); err == nil && cookie != "" {
    return cookie
  }
  header := c.GetHeader("Authorization")
  if strings.HasPrefix(header, "Bearer ") {
    return strings.TrimPrefix(header, "Bearer ")
  }
  return ""
}

// RequireAuth guards admin routes: a valid JWT must arrive via the auth
// cookie or a bearer header.
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
  return func(c *gin.Context) {
    token := m.extractToken(c)
    if token == "" {
      c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
      return
    }
    subject, err := m.authService.ValidateToken(token)
    if err != nil {
      c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
      return
    }
    c.Set("userEmail", subject)
    c.Next()
  }
}

// RequireMLAccess additionally accepts the static service token used by the
// scheduled recompute job, which has no user session.
func (m *AuthMiddleware) RequireMLAccess() gin.HandlerFunc {
  return func(c *gin.Context) {
    token := m.extractToken(c)
    if token == "" {
      c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
      return
    }
    if m.mlAdminToken != "" && token == m.mlAdminToken {
      c.Set("userEmail", "ml-service")
      c.Next()
      return
    }
    subject, err := m.authService.ValidateToken(token)
    if err != nil {
      c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
      return
    }
    c.Set("userEmail", subject)
    c.Next()
  }
}
