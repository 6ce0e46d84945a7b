package googleauth_test

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/virtualcv-api/pkg/googleauth"
)

const (
	testClientID = "test-client-id.apps.googleusercontent.com"
	testIssuer   = "https://accounts.google.com"
	testKid      = "test-key-1"
)

// jwksFixture llave RSA de test más el servidor JWKS que la publica.
type jwksFixture struct {
	key    *rsa.PrivateKey
	server *httptest.Server
}

func newJWKSFixture(t *testing.T) *jwksFixture {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		doc := map[string]any{
			"keys": []map[string]string{{
				"kid": testKid,
				"kty": "RSA",
				"use": "sig",
				"alg": "RS256",
				"n":   base64.RawURLEncoding.EncodeToString(key.PublicKey.N.Bytes()),
				"e":   base64.RawURLEncoding.EncodeToString(big.NewInt(int64(key.PublicKey.E)).Bytes()),
			}},
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(doc)
	}))
	t.Cleanup(server.Close)
	return &jwksFixture{key: key, server: server}
}

func (f *jwksFixture) verifier() *googleauth.Verifier {
	return googleauth.NewVerifier(googleauth.Config{
		ClientID: testClientID,
		Issuer:   testIssuer,
		JWKSURL:  f.server.URL,
	})
}

// sign emite un token RS256 con el kid del fixture y claims extra.
func (f *jwksFixture) sign(t *testing.T, kid string, claims jwt.MapClaims) string {
	t.Helper()
	base := jwt.MapClaims{
		"iss":            testIssuer,
		"aud":            testClientID,
		"exp":            time.Now().Add(time.Hour).Unix(),
		"iat":            time.Now().Unix(),
		"email":          "admin@example.com",
		"email_verified": true,
	}
	for k, v := range claims {
		base[k] = v
	}
	token := jwt.NewWithClaims(jwt.SigningMethodRS256, base)
	token.Header["kid"] = kid
	signed, err := token.SignedString(f.key)
	require.NoError(t, err)
	return signed
}

// Caso 1: token bien firmado con issuer y audience correctos → claims de email.
func TestVerify_TokenValido(t *testing.T) {
	f := newJWKSFixture(t)
	v := f.verifier()

	claims, err := v.Verify(context.Background(), f.sign(t, testKid, nil))
	require.NoError(t, err)
	assert.Equal(t, "admin@example.com", claims.Email)
	assert.True(t, claims.EmailVerified)
}

// Caso 2: audience distinto al ClientID → rechazado.
func TestVerify_AudienceIncorrecto(t *testing.T) {
	f := newJWKSFixture(t)
	v := f.verifier()

	_, err := v.Verify(context.Background(), f.sign(t, testKid, jwt.MapClaims{"aud": "otro-cliente"}))
	assert.Error(t, err)
}

// Caso 3: issuer distinto → rechazado.
func TestVerify_IssuerIncorrecto(t *testing.T) {
	f := newJWKSFixture(t)
	v := f.verifier()

	_, err := v.Verify(context.Background(), f.sign(t, testKid, jwt.MapClaims{"iss": "https://evil.example.com"}))
	assert.Error(t, err)
}

// Caso 4: token expirado → rechazado.
func TestVerify_Expirado(t *testing.T) {
	f := newJWKSFixture(t)
	v := f.verifier()

	_, err := v.Verify(context.Background(), f.sign(t, testKid, jwt.MapClaims{
		"exp": time.Now().Add(-time.Hour).Unix(),
	}))
	assert.Error(t, err)
}

// Caso 5: kid ausente del JWKS → rechazado tras refrescar.
func TestVerify_KidDesconocido(t *testing.T) {
	f := newJWKSFixture(t)
	v := f.verifier()

	_, err := v.Verify(context.Background(), f.sign(t, "kid-inexistente", nil))
	assert.Error(t, err)
}

// Caso 6: token firmado con otra llave (mismo kid) → firma inválida.
func TestVerify_FirmaDeOtraLlave(t *testing.T) {
	f := newJWKSFixture(t)
	v := f.verifier()

	otherKey, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	token := jwt.NewWithClaims(jwt.SigningMethodRS256, jwt.MapClaims{
		"iss": testIssuer,
		"aud": testClientID,
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	token.Header["kid"] = testKid
	signed, err := token.SignedString(otherKey)
	require.NoError(t, err)

	_, err = v.Verify(context.Background(), signed)
	assert.Error(t, err)
}

// Caso 7: HMAC con alg=RS256 falsificado no pasa (solo se aceptan llaves RSA
// del JWKS; un HS256 directo lo rechaza WithValidMethods).
func TestVerify_HS256Rechazado(t *testing.T) {
	f := newJWKSFixture(t)
	v := f.verifier()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"iss": testIssuer,
		"aud": testClientID,
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	token.Header["kid"] = testKid
	signed, err := token.SignedString([]byte("secreto"))
	require.NoError(t, err)

	_, err = v.Verify(context.Background(), signed)
	assert.Error(t, err)
}
