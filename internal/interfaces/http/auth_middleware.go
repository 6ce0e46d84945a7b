package http

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/virtualcv-api/internal/application/authz"
	"github.com/jhoicas/virtualcv-api/internal/application/dto"
	"github.com/jhoicas/virtualcv-api/pkg/googleauth"
)

// TokenVerifier contrato mínimo del verificador de ID tokens. Lo implementa
// *googleauth.Verifier; los tests inyectan un stub. El uso de interfaz evita
// acoplar el middleware al proveedor concreto.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (*googleauth.Claims, error)
}

// WriteAuthorization intercepta las peticiones mutantes. Las lecturas
// (GET/HEAD/OPTIONS) pasan directo sin chequeo de identidad; las escrituras
// requieren un ID token verificado cuyo email verificado esté en la
// allow-list. La decisión la toma el predicado puro authz.Evaluate.
//
// Respuestas:
//   - 401 UNAUTHENTICATED    → sin token o token inválido.
//   - 403 EMAIL_NOT_VERIFIED → email ausente o sin verificar.
//   - 403 EMAIL_NOT_WHITELISTED → email verificado pero sin permiso.
func WriteAuthorization(verifier TokenVerifier, wl authz.Whitelist) fiber.Handler {
	return func(c *fiber.Ctx) error {
		method := c.Method()

		var identity *authz.Identity
		if !authz.ReadOnlyMethod(method) {
			identity = bearerIdentity(c, verifier)
		}

		decision := authz.Evaluate(method, identity, wl)
		switch decision.Verdict {
		case authz.Allow:
			return c.Next()
		case authz.Unauthenticated:
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Code: decision.Code, Message: decision.Message,
			})
		default:
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Code: decision.Code, Message: decision.Message,
			})
		}
	}
}

// bearerIdentity extrae y verifica el Bearer token. Cualquier fallo (header
// ausente, formato inválido, firma/issuer/audience incorrectos) devuelve nil:
// la puerta lo traduce a Unauthenticated.
func bearerIdentity(c *fiber.Ctx, verifier TokenVerifier) *authz.Identity {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return nil
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return nil
	}
	tokenString := strings.TrimSpace(parts[1])
	if tokenString == "" {
		return nil
	}
	claims, err := verifier.Verify(c.Context(), tokenString)
	if err != nil {
		return nil
	}
	return &authz.Identity{Email: claims.Email, EmailVerified: claims.EmailVerified}
}
