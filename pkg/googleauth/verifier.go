// Package googleauth verifica ID tokens de Google (OAuth2) contra su JWKS
// público. A diferencia del típico middleware HMAC, aquí nunca se emiten
// tokens: solo se validan firma RS256, issuer y audience, y se extraen los
// claims de email que necesita la puerta de autorización.
package googleauth

import (
	"context"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"math/big"
	"net/http"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Valores por defecto del proveedor de identidad de Google.
const (
	DefaultIssuer  = "https://accounts.google.com"
	DefaultJWKSURL = "https://www.googleapis.com/oauth2/v3/certs"

	defaultKeyTTL = time.Hour
)

// Claims claims del ID token que usa la aplicación.
type Claims struct {
	jwt.RegisteredClaims
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
}

// Config configuración del verificador. ClientID es obligatorio (audience);
// Issuer y JWKSURL vacíos usan los valores de Google.
type Config struct {
	ClientID string
	Issuer   string
	JWKSURL  string
	KeyTTL   time.Duration
}

// Verifier valida ID tokens RS256 con un set de llaves JWKS cacheado.
// Las llaves se refrescan al expirar el TTL o al encontrar un kid desconocido
// (Google rota llaves sin aviso).
type Verifier struct {
	clientID string
	issuer   string
	jwksURL  string
	keyTTL   time.Duration
	client   *http.Client

	mu        sync.RWMutex
	keys      map[string]*rsa.PublicKey
	fetchedAt time.Time
}

// NewVerifier construye el verificador.
func NewVerifier(cfg Config) *Verifier {
	if cfg.Issuer == "" {
		cfg.Issuer = DefaultIssuer
	}
	if cfg.JWKSURL == "" {
		cfg.JWKSURL = DefaultJWKSURL
	}
	if cfg.KeyTTL == 0 {
		cfg.KeyTTL = defaultKeyTTL
	}
	return &Verifier{
		clientID: cfg.ClientID,
		issuer:   cfg.Issuer,
		jwksURL:  cfg.JWKSURL,
		keyTTL:   cfg.KeyTTL,
		client:   &http.Client{Timeout: 10 * time.Second},
		keys:     map[string]*rsa.PublicKey{},
	}
}

// Verify valida el token y devuelve sus claims.
// Retorna error si la firma, el issuer, el audience o la expiración fallan.
func (v *Verifier) Verify(ctx context.Context, tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(t *jwt.Token) (any, error) {
			kid, _ := t.Header["kid"].(string)
			if kid == "" {
				return nil, fmt.Errorf("token sin kid en el header")
			}
			return v.key(ctx, kid)
		},
		jwt.WithValidMethods([]string{"RS256"}),
		jwt.WithIssuer(v.issuer),
		jwt.WithAudience(v.clientID),
	)
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, fmt.Errorf("token inválido")
	}
	return claims, nil
}

// key devuelve la llave pública para el kid, refrescando el JWKS si hace falta.
func (v *Verifier) key(ctx context.Context, kid string) (*rsa.PublicKey, error) {
	v.mu.RLock()
	pub, ok := v.keys[kid]
	fresh := time.Since(v.fetchedAt) < v.keyTTL
	v.mu.RUnlock()
	if ok && fresh {
		return pub, nil
	}

	if err := v.refresh(ctx); err != nil {
		return nil, err
	}

	v.mu.RLock()
	defer v.mu.RUnlock()
	if pub, ok := v.keys[kid]; ok {
		return pub, nil
	}
	return nil, fmt.Errorf("kid %q no presente en el JWKS", kid)
}

func (v *Verifier) refresh(ctx context.Context) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	// Otro goroutine pudo refrescar mientras esperábamos el lock.
	if time.Since(v.fetchedAt) < time.Minute && len(v.keys) > 0 {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, v.jwksURL, nil)
	if err != nil {
		return fmt.Errorf("jwks request: %w", err)
	}
	resp, err := v.client.Do(req)
	if err != nil {
		return fmt.Errorf("jwks fetch: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("jwks fetch: status %d", resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("jwks read: %w", err)
	}

	var doc struct {
		Keys []struct {
			Kid string `json:"kid"`
			Kty string `json:"kty"`
			Use string `json:"use"`
			N   string `json:"n"`
			E   string `json:"e"`
		} `json:"keys"`
	}
	if err := json.Unmarshal(body, &doc); err != nil {
		return fmt.Errorf("jwks parse: %w", err)
	}

	keys := make(map[string]*rsa.PublicKey, len(doc.Keys))
	for _, k := range doc.Keys {
		if k.Kty != "RSA" || (k.Use != "" && k.Use != "sig") {
			continue
		}
		pub, err := parseRSAKey(k.N, k.E)
		if err != nil {
			return fmt.Errorf("jwks key %q: %w", k.Kid, err)
		}
		keys[k.Kid] = pub
	}
	if len(keys) == 0 {
		return fmt.Errorf("jwks sin llaves RSA de firma")
	}

	v.keys = keys
	v.fetchedAt = time.Now()
	return nil
}

// parseRSAKey arma la llave pública desde los componentes base64url del JWK.
func parseRSAKey(n, e string) (*rsa.PublicKey, error) {
	nb, err := base64.RawURLEncoding.DecodeString(n)
	if err != nil {
		return nil, fmt.Errorf("módulo: %w", err)
	}
	eb, err := base64.RawURLEncoding.DecodeString(e)
	if err != nil {
		return nil, fmt.Errorf("exponente: %w", err)
	}
	exp := 0
	for _, b := range eb {
		exp = exp<<8 | int(b)
	}
	if exp == 0 {
		return nil, fmt.Errorf("exponente cero")
	}
	return &rsa.PublicKey{N: new(big.Int).SetBytes(nb), E: exp}, nil
}
