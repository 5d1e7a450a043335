package jwt_test

import (
	"testing"

	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgjwt "github.com/jhoicas/Turismo-api/pkg/jwt"
)

const (
	secreto = "secreto-de-pruebas"
	userID  = "00000000-0000-0000-0000-0000000000aa"
)

func TestGenerateYParse_ConRol(t *testing.T) {
	tok, err := pkgjwt.Generate(secreto, userID, "empleado", "turismo-api", 30)
	require.NoError(t, err)

	id, rol, err := pkgjwt.Parse(secreto, tok)
	require.NoError(t, err)
	assert.Equal(t, userID, id)
	assert.Equal(t, "empleado", rol)
}

func TestParse_Rechaza(t *testing.T) {
	expirado, err := pkgjwt.Generate(secreto, userID, "admin", "turismo-api", -1)
	require.NoError(t, err)
	valido, err := pkgjwt.Generate(secreto, userID, "admin", "turismo-api", 30)
	require.NoError(t, err)
	ninguno, err := gojwt.NewWithClaims(gojwt.SigningMethodNone, pkgjwt.Claims{UserID: userID, Role: "admin"}).
		SignedString(gojwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	casos := map[string]struct {
		secreto string
		token   string
	}{
		"expirado":                {secreto, expirado},
		"otro secreto":            {"otro", valido},
		"malformado":              {secreto, "a.b.c"},
		"alg none":                {secreto, ninguno},
		"secreto de parseo vacío": {"", valido},
	}
	for nombre, c := range casos {
		t.Run(nombre, func(t *testing.T) {
			_, _, err := pkgjwt.Parse(c.secreto, c.token)
			assert.Error(t, err)
		})
	}
}

func TestGenerate_SecretoVacio(t *testing.T) {
	_, err := pkgjwt.Generate("", userID, "admin", "turismo-api", 30)
	assert.Error(t, err)
}
