package services

import (
  "context"
  "fmt"
  "strings"
  "time"
  "github.com/golang-jwt/jwt/v5"
  "golang.org/x/crypto/bcrypt"
  "github.com/raceautoindia/race-analytics-backend/internal/apierr"
  "github.com/raceautoindia/race-analytics-backend/internal/clients/accounts"
  "github.com/raceautoindia/race-analytics-backend/internal/logger"
)

type AuthService interface {
  Login(ctx context.Context, email, password string) (string, error)
  OAuthCallback(ctx context.Context, code string) (string, error)
  ValidateToken(tokenString string) (string, error)
  TokenTTL() time.Duration
}

type authService struct {
  log               *logger.Logger
  accountsClient    accounts.Client
  jwtSecretKey      string
  tokenTTL          time.Duration
  adminUsername     string
  adminPasswordHash string
}

// NewAuthService wires the forecast-login flow: the hardcoded admin
// credential pair is checked first, everything else is delegated to the
// external account system when one is configured.
func NewAuthService(
  log *logger.Logger,
  accountsClient accounts.Client,
  jwtSecretKey string,
  tokenTTL time.Duration,
  adminUsername string,
  adminPasswordHash string,
) AuthService {
  serviceLog := log.With("service", "AuthService")
  if tokenTTL <= 0 {
    tokenTTL = 7 * 24 * time.Hour
  }
  return &authService{
    log:               serviceLog,
    accountsClient:    accountsClient,
    jwtSecretKey:      jwtSecretKey,
    tokenTTL:          tokenTTL,
    adminUsername:     adminUsername,
    adminPasswordHash: adminPasswordHash,
  }
}

func (as *authService) issueToken(subject string) (string, error) {
  now := time.Now()
  claims := jwt.MapClaims{
    "sub": subject,
    "iat": now.Unix(),
    "exp": now.Add(as.tokenTTL).Unix(),
  }
  token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
  signed, err := token.SignedString([]byte(as.jwtSecretKey))
  if err != nil {
    return "", apierr.Internal(fmt.Errorf("sign token: %w", err))
  }
  return signed, nil
}

func (as *authService) Login(ctx context.Context, email, password string) (string, error) {
  email = strings.ToLower(strings.TrimSpace(email))
  if email == "" || password == "" {
    return "", apierr.BadRequest("credentials_required", fmt.Errorf("email and password are required"))
  }

  if as.adminUsername != "" && email == strings.ToLower(as.adminUsername) {
    if err := bcrypt.CompareHashAndPassword([]byte(as.adminPasswordHash), []byte(password)); err != nil {
      return "", apierr.New(401, "invalid_credentials", fmt.Errorf("invalid email or password"))
    }
    return as.issueToken(email)
  }

  if as.accountsClient == nil {
    return "", apierr.New(401, "invalid_credentials", fmt.Errorf("invalid email or password"))
  }
  valid, err := as.accountsClient.ValidateCredentials(ctx, email, password)
  if err != nil {
    as.log.Error("Accounts credential validation failed", "error", err)
    return "", apierr.Upstream("accounts_unavailable", fmt.Errorf("account system unavailable"))
  }
  if !valid {
    return "", apierr.New(401, "invalid_credentials", fmt.Errorf("invalid email or password"))
  }
  return as.issueToken(email)
}

func (as *authService) OAuthCallback(ctx context.Context, code string) (string, error) {
  if strings.TrimSpace(code) == "" {
    return "", apierr.BadRequest("code_required", fmt.Errorf("oauth code is required"))
  }
  if as.accountsClient == nil {
    return "", apierr.Upstream("accounts_unavailable", fmt.Errorf("account system not configured"))
  }
  email, err := as.accountsClient.ExchangeOAuthCode(ctx, code)
  if err != nil {
    as.log.Error("OAuth code exchange failed", "error", err)
    return "", apierr.Upstream("oauth_exchange_failed", fmt.Errorf("oauth exchange failed"))
  }
  return as.issueToken(strings.ToLower(email))
}

// ValidateToken parses and verifies a JWT and returns its subject.
func (as *authService) ValidateToken(tokenString string) (string, error) {
  token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
    if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
      return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
    }
    return []byte(as.jwtSecretKey), nil
  })
  if err != nil || !token.Valid {
    return "", apierr.New(401, "invalid_token", fmt.Errorf("invalid or expired token"))
  }
  claims, ok := token.Claims.(jwt.MapClaims)
  if !ok {
    return "", apierr.New(401, "invalid_token", fmt.Errorf("invalid token claims"))
  }
  subject, _ := claims["sub"].(string)
  if subject == "" {
    return "", apierr.New(401, "invalid_token", fmt.Errorf("token has no subject"))
  }
  return subject, nil
}

func (as *authService) TokenTTL() time.Duration {
  return as.tokenTTL
}
