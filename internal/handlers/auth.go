package handlers

import (
  "net/http"
  "github.com/gin-gonic/gin"
  "github.com/raceautoindia/race-analytics-backend/internal/logger"
  "github.com/raceautoindia/race-analytics-backend/internal/services"
)

const authCookieName = "authToken"

type AuthHandler struct {
  log          *logger.Logger
  authService  services.AuthService
  cookieDomain string
  cookieSecure bool
}

func NewAuthHandler(log *logger.Logger, authService services.AuthService, cookieDomain string, cookieSecure bool) *AuthHandler {
  return &AuthHandler{
    log:          log.With("handler", "AuthHandler"),
    authService:  authService,
    cookieDomain: cookieDomain,
    cookieSecure: cookieSecure,
  }
}

func (h *AuthHandler) setAuthCookie(c *gin.Context, token string) {
  c.SetSameSite(http.SameSiteStrictMode)
  maxAge := int(h.authService.TokenTTL().Seconds())
  c.SetCookie(authCookieName, token, maxAge, "/", h.cookieDomain, h.cookieSecure, true)
}

func (h *AuthHandler) Login(c *gin.Context) {
  var req struct {
    Email    string `json:"email"`
    Password string `json:"password"`
  }
  if err := c.ShouldBindJSON(&req); err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
    return
  }
  token, err := h.authService.Login(c.Request.Context(), req.Email, req.Password)
  if err != nil {
    RespondServiceError(c, err)
    return
  }
  h.setAuthCookie(c, token)
  RespondOK(c, gin.H{"token": token})
}

func (h *AuthHandler) OAuthCallback(c *gin.Context) {
  code := c.Query("code")
  if code == "" {
    var req struct {
      Code string `json:"code"`
    }
    if err := c.ShouldBindJSON(&req); err == nil {
      code = req.Code
    }
  }
  token, err := h.authService.OAuthCallback(c.Request.Context(), code)
  if err != nil {
    RespondServiceError(c, err)
    return
  }
  h.setAuthCookie(c, token)
  RespondOK(c, gin.H{"token": token})
}

func (h *AuthHandler) Logout(c *gin.Context) {
  c.SetSameSite(http.SameSiteStrictMode)
  c.SetCookie(authCookieName, "", -1, "/", h.cookieDomain, h.cookieSecure, true)
  RespondOK(c, gin.H{"success": true})
}
