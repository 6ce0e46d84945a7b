// Package authz implementa la puerta de autorización de escritura: un
// predicado puro sobre (método HTTP, claims del token, allow-list). No hay
// estado mutable; la allow-list se carga una vez al arrancar.
package authz

import "strings"

// Códigos machine-readable de los rechazos 403.
const (
	CodeEmailNotVerified    = "EMAIL_NOT_VERIFIED"
	CodeEmailNotWhitelisted = "EMAIL_NOT_WHITELISTED"
)

// Verdict resultado de la evaluación.
type Verdict int

const (
	// Allow la petición sigue hacia el servicio de jerarquía.
	Allow Verdict = iota
	// Unauthenticated sin token verificado (HTTP 401).
	Unauthenticated
	// Forbidden identidad verificada pero sin permiso de escritura (HTTP 403).
	Forbidden
)

// Decision veredicto más el código y mensaje para el cuerpo de error.
type Decision struct {
	Verdict Verdict
	Code    string
	Message string
}

// Identity claims mínimos que necesita la puerta, ya verificados
// criptográficamente por el verificador de tokens.
type Identity struct {
	Email         string
	EmailVerified bool
}

// Whitelist conjunto inmutable de emails con permiso de escritura.
// La comparación es case-insensitive.
type Whitelist struct {
	emails map[string]struct{}
}

// NewWhitelist construye la allow-list normalizando a minúsculas.
func NewWhitelist(emails []string) Whitelist {
	set := make(map[string]struct{}, len(emails))
	for _, e := range emails {
		e = strings.ToLower(strings.TrimSpace(e))
		if e != "" {
			set[e] = struct{}{}
		}
	}
	return Whitelist{emails: set}
}

// Contains indica si el email (en cualquier casing) está permitido.
func (w Whitelist) Contains(email string) bool {
	_, ok := w.emails[strings.ToLower(email)]
	return ok
}

// Len cantidad de emails permitidos.
func (w Whitelist) Len() int { return len(w.emails) }

// ReadOnlyMethod indica si el método HTTP es de solo lectura y por tanto
// exento de todo chequeo de identidad.
func ReadOnlyMethod(method string) bool {
	switch strings.ToUpper(method) {
	case "GET", "HEAD", "OPTIONS":
		return true
	}
	return false
}

// Evaluate decide si una petición puede ejecutar escrituras.
// Orden de chequeos (observable en los códigos de rechazo): método de solo
// lectura → token presente → email verificado → email en la allow-list.
// identity nil significa "sin token verificado".
func Evaluate(method string, identity *Identity, wl Whitelist) Decision {
	if ReadOnlyMethod(method) {
		return Decision{Verdict: Allow}
	}

	if identity == nil {
		return Decision{
			Verdict: Unauthenticated,
			Code:    "UNAUTHENTICATED",
			Message: "se requiere un token de identidad válido",
		}
	}
	if identity.Email == "" || !identity.EmailVerified {
		return Decision{
			Verdict: Forbidden,
			Code:    CodeEmailNotVerified,
			Message: "el email del token no está verificado",
		}
	}
	if !wl.Contains(identity.Email) {
		return Decision{
			Verdict: Forbidden,
			Code:    CodeEmailNotWhitelisted,
			Message: "el email no está autorizado para operaciones de escritura",
		}
	}
	return Decision{Verdict: Allow}
}
