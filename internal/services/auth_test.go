package services

import (
  "context"
  "net/http"
  "testing"
  "time"
  "golang.org/x/crypto/bcrypt"
  "github.com/raceautoindia/race-analytics-backend/internal/apierr"
)

func newAuthService(t *testing.T, adminHash string) AuthService {
  t.Helper()
  return NewAuthService(newTestLogger(t), nil, "test-secret", time.Hour, "admin@race.test", adminHash)
}

func TestAdminLoginAndTokenRoundTrip(t *testing.T) {
  hash, err := bcrypt.GenerateFromPassword([]byte("hunter2"), bcrypt.MinCost)
  if err != nil {
    t.Fatalf("bcrypt: %v", err)
  }
  svc := newAuthService(t, string(hash))
  ctx := context.Background()

  token, err := svc.Login(ctx, "  Admin@Race.Test ", "hunter2")
  if err != nil {
    t.Fatalf("Login: %v", err)
  }

  subject, err := svc.ValidateToken(token)
  if err != nil {
    t.Fatalf("ValidateToken: %v", err)
  }
  if subject != "admin@race.test" {
    t.Fatalf("subject = %q", subject)
  }
}

func TestLoginRejections(t *testing.T) {
  hash, _ := bcrypt.GenerateFromPassword([]byte("hunter2"), bcrypt.MinCost)
  svc := newAuthService(t, string(hash))
  ctx := context.Background()

  cases := []struct {
    name     string
    email    string
    password string
    wantCode string
    wantHTTP int
  }{
    {name: "wrong admin password", email: "admin@race.test", password: "nope", wantCode: "invalid_credentials", wantHTTP: http.StatusUnauthorized},
    {name: "unknown user without accounts client", email: "someone@x.com", password: "pw", wantCode: "invalid_credentials", wantHTTP: http.StatusUnauthorized},
    {name: "missing credentials", email: "", password: "", wantCode: "credentials_required", wantHTTP: http.StatusBadRequest},
  }
  for _, tc := range cases {
    t.Run(tc.name, func(t *testing.T) {
      _, err := svc.Login(ctx, tc.email, tc.password)
      if apierr.Code(err) != tc.wantCode || apierr.Status(err) != tc.wantHTTP {
        t.Fatalf("got %v (%d), want %s %d", err, apierr.Status(err), tc.wantCode, tc.wantHTTP)
      }
    })
  }
}

func TestValidateTokenRejectsForgeries(t *testing.T) {
  hash, _ := bcrypt.GenerateFromPassword([]byte("hunter2"), bcrypt.MinCost)
  svc := newAuthService(t, string(hash))
  other := NewAuthService(newTestLogger(t), nil, "other-secret", time.Hour, "admin@race.test", string(hash))

  token, err := other.Login(context.Background(), "admin@race.test", "hunter2")
  if err != nil {
    t.Fatalf("Login: %v", err)
  }
  if _, err := svc.ValidateToken(token); apierr.Code(err) != "invalid_token" {
    t.Fatalf("token signed with another secret: got %v", err)
  }
  if _, err := svc.ValidateToken("not.a.token"); apierr.Code(err) != "invalid_token" {
    t.Fatalf("garbage token: got %v", err)
  }
}

func TestExpiredTokenRejected(t *testing.T) {
  hash, _ := bcrypt.GenerateFromPassword([]byte("hunter2"), bcrypt.MinCost)
  svc := NewAuthService(newTestLogger(t), nil, "test-secret", time.Nanosecond, "admin@race.test", string(hash))

  token, err := svc.Login(context.Background(), "admin@race.test", "hunter2")
  if err != nil {
    t.Fatalf("Login: %v", err)
  }
  // exp is stored at second precision, so wait for the boundary to pass.
  time.Sleep(1100 * time.Millisecond)
  if _, err := svc.ValidateToken(token); apierr.Code(err) != "invalid_token" {
    t.Fatalf("expired token: got %v", err)
  }
}
