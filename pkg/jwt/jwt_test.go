package jwt_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgjwt "github.com/jhoicas/tikno-erp/pkg/jwt"
)

const (
	testSecret = "test-secret-key-for-unit-tests"
	testIssuer = "tikno-erp-test"
)

var testIdentity = pkgjwt.Identity{
	UserID:     "00000000-0000-0000-0000-000000000001",
	Email:      "admin@tikno.test",
	Name:       "Admin",
	Role:       "admin",
	AccessZone: "general",
}

func TestGenerateAndParse_ConRol(t *testing.T) {
	tok, err := pkgjwt.Generate(testSecret, testIdentity, pkgjwt.TokenAccess, testIssuer, 60)
	require.NoError(t, err)
	require.NotEmpty(t, tok)

	claims, err := pkgjwt.Parse(testSecret, tok, pkgjwt.TokenAccess)
	require.NoError(t, err)
	assert.Equal(t, testIdentity, claims.Identity())
	assert.Equal(t, testIssuer, claims.Issuer)
}

func TestParse_TokenExpirado(t *testing.T) {
	tok, err := pkgjwt.Generate(testSecret, testIdentity, pkgjwt.TokenAccess, testIssuer, -1)
	require.NoError(t, err)

	_, err = pkgjwt.Parse(testSecret, tok, pkgjwt.TokenAccess)
	assert.Error(t, err, "token expirado debe retornar error")
}

func TestParse_SecretIncorrecto(t *testing.T) {
	tok, err := pkgjwt.Generate(testSecret, testIdentity, pkgjwt.TokenAccess, testIssuer, 60)
	require.NoError(t, err)

	_, err = pkgjwt.Parse("otro-secret-completamente-distinto", tok, pkgjwt.TokenAccess)
	assert.Error(t, err)
}

func TestParse_RefreshNoSirveComoAccess(t *testing.T) {
	tok, err := pkgjwt.Generate(testSecret, testIdentity, pkgjwt.TokenRefresh, testIssuer, 60)
	require.NoError(t, err)

	_, err = pkgjwt.Parse(testSecret, tok, pkgjwt.TokenAccess)
	assert.Error(t, err)

	claims, err := pkgjwt.Parse(testSecret, tok, pkgjwt.TokenRefresh)
	require.NoError(t, err)
	assert.Equal(t, testIdentity.UserID, claims.UserID)
}

func TestGenerate_SecretVacio(t *testing.T) {
	_, err := pkgjwt.Generate("", testIdentity, pkgjwt.TokenAccess, testIssuer, 60)
	assert.Error(t, err)
}
