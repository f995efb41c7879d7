package auth

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/phrazzld/vigilant-todo/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-that-is-long-enough-for-testing"

func testAuthConfig() config.AuthConfig {
	return config.AuthConfig{
		SecretKey:            testSecret,
		Algorithm:            "HS256",
		TokenLifetimeMinutes: 30,
	}
}

// fixedClock returns a time function and a setter so tests can move time.
func fixedClock(start time.Time) (func() time.Time, func(time.Time)) {
	now := start
	return func() time.Time { return now }, func(t time.Time) { now = t }
}

func TestGenerateToken(t *testing.T) {
	t.Parallel()

	fixedTime := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	clock, _ := fixedClock(fixedTime)
	svc, err := newHMACJWTService(testAuthConfig(), clock)
	require.NoError(t, err)

	token, err := svc.GenerateToken(context.Background(), "alice")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.ValidateToken(context.Background(), token)
	require.NoError(t, err)

	assert.Equal(t, "alice", claims.Subject)
	assert.Equal(t, fixedTime.Unix(), claims.IssuedAt.Unix())
	assert.Equal(t, fixedTime.Add(30*time.Minute).Unix(), claims.ExpiresAt.Unix())
	assert.NotEmpty(t, claims.ID)

	other, err := svc.GenerateToken(context.Background(), "alice")
	require.NoError(t, err)
	otherClaims, err := svc.ValidateToken(context.Background(), other)
	require.NoError(t, err)
	assert.NotEqual(t, claims.ID, otherClaims.ID, "each token carries a fresh jti")
}

func TestValidateToken_Expiry(t *testing.T) {
	t.Parallel()

	start := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	clock, setNow := fixedClock(start)
	svc, err := newHMACJWTService(testAuthConfig(), clock)
	require.NoError(t, err)

	token, err := svc.GenerateToken(context.Background(), "alice")
	require.NoError(t, err)

	setNow(start.Add(29*time.Minute + 59*time.Second))
	_, err = svc.ValidateToken(context.Background(), token)
	assert.NoError(t, err, "valid just before exp")

	setNow(start.Add(30 * time.Minute))
	_, err = svc.ValidateToken(context.Background(), token)
	assert.ErrorIs(t, err, ErrExpiredToken, "invalid at exp")

	setNow(start.Add(31 * time.Minute))
	_, err = svc.ValidateToken(context.Background(), token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestValidateToken_ClockSkew(t *testing.T) {
	t.Parallel()

	start := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	clock, setNow := fixedClock(start)
	cfg := testAuthConfig()
	cfg.ClockSkewSeconds = 60
	svc, err := newHMACJWTService(cfg, clock)
	require.NoError(t, err)

	token, err := svc.GenerateToken(context.Background(), "alice")
	require.NoError(t, err)

	setNow(start.Add(30*time.Minute + 30*time.Second))
	_, err = svc.ValidateToken(context.Background(), token)
	assert.NoError(t, err)
}

func TestValidateToken_Rejections(t *testing.T) {
	t.Parallel()

	now := time.Now()
	svc, err := newHMACJWTService(testAuthConfig(), func() time.Time { return now })
	require.NoError(t, err)

	wrongCfg := testAuthConfig()
	wrongCfg.SecretKey = "wrong-secret-that-is-long-enough-for-testing"
	wrongKey, err := newHMACJWTService(wrongCfg, func() time.Time { return now })
	require.NoError(t, err)

	hs512Cfg := testAuthConfig()
	hs512Cfg.Algorithm = "HS512"
	hs512, err := newHMACJWTService(hs512Cfg, func() time.Time { return now })
	require.NoError(t, err)

	signed := func(t *testing.T, method jwt.SigningMethod, key any, claims jwt.Claims) string {
		t.Helper()
		s, err := jwt.NewWithClaims(method, claims).SignedString(key)
		require.NoError(t, err)
		return s
	}
	exp := jwt.NewNumericDate(now.Add(time.Hour))

	tests := []struct {
		name  string
		token func(t *testing.T) string
	}{
		{"empty", func(t *testing.T) string { return "" }},
		{"garbage", func(t *testing.T) string { return "garbage" }},
		{"three garbage segments", func(t *testing.T) string { return "a.b.c" }},
		{"wrong secret", func(t *testing.T) string {
			tok, err := wrongKey.GenerateToken(context.Background(), "alice")
			require.NoError(t, err)
			return tok
		}},
		{"algorithm mismatch", func(t *testing.T) string {
			tok, err := hs512.GenerateToken(context.Background(), "alice")
			require.NoError(t, err)
			return tok
		}},
		{"alg none", func(t *testing.T) string {
			return signed(t, jwt.SigningMethodNone, jwt.UnsafeAllowNoneSignatureType,
				jwt.RegisteredClaims{Subject: "alice", ExpiresAt: exp})
		}},
		{"missing subject", func(t *testing.T) string {
			return signed(t, jwt.SigningMethodHS256, []byte(testSecret),
				jwt.RegisteredClaims{ExpiresAt: exp})
		}},
		{"missing exp", func(t *testing.T) string {
			return signed(t, jwt.SigningMethodHS256, []byte(testSecret),
				jwt.RegisteredClaims{Subject: "alice"})
		}},
		{"tampered payload", func(t *testing.T) string {
			tok, err := svc.GenerateToken(context.Background(), "alice")
			require.NoError(t, err)
			parts := strings.Split(tok, ".")
			forged := signed(t, jwt.SigningMethodHS256, []byte("x"+testSecret),
				jwt.RegisteredClaims{Subject: "mallory", ExpiresAt: exp})
			parts[1] = strings.Split(forged, ".")[1]
			return strings.Join(parts, ".")
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token := tt.token(t)
			assert.NotPanics(t, func() {
				claims, err := svc.ValidateToken(context.Background(), token)
				assert.ErrorIs(t, err, ErrInvalidToken)
				assert.Nil(t, claims)
			})
		})
	}
}

func TestNewJWTService_Config(t *testing.T) {
	t.Parallel()

	_, err := NewJWTService(testAuthConfig())
	assert.NoError(t, err)

	short := testAuthConfig()
	short.SecretKey = "too-short"
	_, err = NewJWTService(short)
	assert.Error(t, err)

	none := testAuthConfig()
	none.Algorithm = "none"
	_, err = NewJWTService(none)
	assert.ErrorIs(t, err, ErrUnsupportedAlgorithm)

	rsa := testAuthConfig()
	rsa.Algorithm = "RS256"
	_, err = NewJWTService(rsa)
	assert.ErrorIs(t, err, ErrUnsupportedAlgorithm)

	zero := testAuthConfig()
	zero.TokenLifetimeMinutes = 0
	_, err = NewJWTService(zero)
	assert.Error(t, err)
}
