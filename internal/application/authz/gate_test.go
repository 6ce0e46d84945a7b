package authz_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/virtualcv-api/internal/application/authz"
)

func allowList(emails ...string) authz.Whitelist {
	return authz.NewWhitelist(emails)
}

// Caso 1: las lecturas pasan sin identidad alguna.
func TestEvaluate_LecturasSiemprePermitidas(t *testing.T) {
	wl := allowList("admin@example.com")
	for _, m := range []string{"GET", "HEAD", "OPTIONS", "get"} {
		d := authz.Evaluate(m, nil, wl)
		assert.Equal(t, authz.Allow, d.Verdict, "método %s debe ser libre", m)
	}
}

// Caso 2: escritura sin token verificado → Unauthenticated.
func TestEvaluate_EscrituraSinToken(t *testing.T) {
	d := authz.Evaluate("POST", nil, allowList("admin@example.com"))
	assert.Equal(t, authz.Unauthenticated, d.Verdict)
	assert.Equal(t, "UNAUTHENTICATED", d.Code)
}

// Caso 3: el chequeo de verificación va ANTES que el de la allow-list.
// Un email sin verificar que además no está en la lista recibe
// EMAIL_NOT_VERIFIED, nunca EMAIL_NOT_WHITELISTED.
func TestEvaluate_VerificacionAntesQueWhitelist(t *testing.T) {
	id := &authz.Identity{Email: "intruso@example.com", EmailVerified: false}
	d := authz.Evaluate("DELETE", id, allowList("admin@example.com"))

	assert.Equal(t, authz.Forbidden, d.Verdict)
	assert.Equal(t, authz.CodeEmailNotVerified, d.Code)
}

// Caso 3b: un token sin claim de email cuenta como no verificado.
func TestEvaluate_EmailVacioEsNoVerificado(t *testing.T) {
	id := &authz.Identity{Email: "", EmailVerified: true}
	d := authz.Evaluate("POST", id, allowList("admin@example.com"))
	assert.Equal(t, authz.CodeEmailNotVerified, d.Code)
}

// Caso 4: email verificado pero fuera de la lista → EMAIL_NOT_WHITELISTED.
func TestEvaluate_EmailFueraDeLista(t *testing.T) {
	id := &authz.Identity{Email: "otro@example.com", EmailVerified: true}
	d := authz.Evaluate("PUT", id, allowList("admin@example.com"))

	assert.Equal(t, authz.Forbidden, d.Verdict)
	assert.Equal(t, authz.CodeEmailNotWhitelisted, d.Code)
}

// Caso 5: email verificado y permitido → Allow, sin importar el casing.
func TestEvaluate_EmailPermitidoCaseInsensitive(t *testing.T) {
	id := &authz.Identity{Email: "Admin@Example.COM", EmailVerified: true}
	d := authz.Evaluate("POST", id, allowList(" admin@example.com "))
	assert.Equal(t, authz.Allow, d.Verdict)
}

// Caso 6: la allow-list descarta entradas vacías y normaliza.
func TestNewWhitelist_Normaliza(t *testing.T) {
	wl := allowList("  A@b.com", "", "a@B.COM")
	assert.Equal(t, 1, wl.Len())
	assert.True(t, wl.Contains("a@b.com"))
	assert.False(t, wl.Contains("c@d.com"))
}
