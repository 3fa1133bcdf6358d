package tokens

import (
	"context"
	"encoding/base64"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

const secret = "test-secret-32-bytes-should-be-long-enough"

func encodeSegment(b []byte) string { return base64.RawURLEncoding.EncodeToString(b) }

func TestGenerateAccessToken_ValidAndClaims(t *testing.T) {
	tokenStr, err := GenerateAccessToken(secret, "user-123", 2*time.Minute)
	require.NoError(t, err)

	tok, err := NewHS256Verifier(secret).Verify(context.Background(), tokenStr)
	require.NoError(t, err)

	var claims map[string]interface{}
	require.NoError(t, tok.Claims(&claims))
	require.Equal(t, "user-123", claims["sub"])
}

func TestGenerateAccessToken_EmptySecret(t *testing.T) {
	_, err := GenerateAccessToken("", "u", time.Minute)
	require.Error(t, err)
}

func TestVerify_Expired(t *testing.T) {
	tokenStr, err := GenerateAccessToken(secret, "u2", -time.Second)
	require.NoError(t, err)
	_, err = NewHS256Verifier(secret).Verify(context.Background(), tokenStr)
	require.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestVerify_WrongSecretFails(t *testing.T) {
	tokenStr, err := GenerateAccessToken("secret-one-32-bytes-xxxxxxxxxxxxxxxx", "u3", 2*time.Minute)
	require.NoError(t, err)
	_, err = NewHS256Verifier("different-secret-xxxxxxxxxxxxxxxx").Verify(context.Background(), tokenStr)
	require.Error(t, err)
}

func TestVerify_Malformed(t *testing.T) {
	_, err := NewHS256Verifier(secret).Verify(context.Background(), "not.a.jwt")
	require.Error(t, err)
}

// Rejected when alg=none (unsigned token)
func TestVerify_AlgNoneRejected(t *testing.T) {
	headerEnc := encodeSegment([]byte(`{"alg":"none"}`))
	payloadEnc := encodeSegment([]byte(`{"sub":"u-none","exp":9999999999}`))
	_, err := NewHS256Verifier(secret).Verify(context.Background(), headerEnc+"."+payloadEnc+".")
	require.Error(t, err)
}

func TestVerify_OtherHMACRejected(t *testing.T) {
	jt := jwt.NewWithClaims(jwt.SigningMethodHS512, jwt.MapClaims{"sub": "u", "exp": time.Now().Add(time.Minute).Unix()})
	s, err := jt.SignedString([]byte(secret))
	require.NoError(t, err)
	_, err = NewHS256Verifier(secret).Verify(context.Background(), s)
	require.Error(t, err)
}

// Tampering with payload must fail signature verification
func TestVerify_TamperedPayload(t *testing.T) {
	tokenStr, err := GenerateAccessToken(secret, "user-t", 5*time.Minute)
	require.NoError(t, err)

	parts := strings.Split(tokenStr, ".")
	require.Len(t, parts, 3)
	payloadBytes, err := jwt.NewParser().DecodeSegment(parts[1])
	require.NoError(t, err)
	parts[1] = encodeSegment([]byte(strings.Replace(string(payloadBytes), "user-t", "attacker", 1)))

	_, err = NewHS256Verifier(secret).Verify(context.Background(), strings.Join(parts, "."))
	require.Error(t, err)
}

func TestVerify_LegacyUserPayload(t *testing.T) {
	jt := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"user": map[string]interface{}{"id": "64b000000000000000000001"}})
	s, err := jt.SignedString([]byte(secret))
	require.NoError(t, err)

	tok, err := NewHS256Verifier(secret).Verify(context.Background(), s)
	require.NoError(t, err)
	var claims map[string]interface{}
	require.NoError(t, tok.Claims(&claims))
	require.Equal(t, map[string]interface{}{"id": "64b000000000000000000001"}, claims["user"])
}

func TestExpiresAt(t *testing.T) {
	tokenStr, err := GenerateAccessToken(secret, "u", time.Hour)
	require.NoError(t, err)
	exp, err := ExpiresAt(tokenStr)
	require.NoError(t, err)
	require.WithinDuration(t, time.Now().Add(time.Hour), exp, 2*time.Second)

	noExp, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "u"}).SignedString([]byte(secret))
	require.NoError(t, err)
	_, err = ExpiresAt(noExp)
	require.Error(t, err)

	_, err = ExpiresAt("garbage")
	require.Error(t, err)
}
