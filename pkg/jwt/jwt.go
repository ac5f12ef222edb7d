package jwt

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Tipos de token emitidos.
const (
	TokenAccess  = "access"
	TokenRefresh = "refresh"
)

// Identity datos del usuario que viajan en el token.
type Identity struct {
	UserID     string
	Email      string
	Name       string
	Role       string
	AccessZone string
}

// Claims incluye los claims estándar JWT más los campos propios de la aplicación.
// Se añade Role para que el middleware de política pueda decidir sin consultar la DB.
type Claims struct {
	jwt.RegisteredClaims
	UserID     string `json:"user_id"`
	Email      string `json:"email"`
	Name       string `json:"nombre"`
	Role       string `json:"rol"`
	AccessZone string `json:"zona_acceso"`
	TokenType  string `json:"token_type"`
}

// Identity devuelve la identidad contenida en los claims.
func (c *Claims) Identity() Identity {
	return Identity{UserID: c.UserID, Email: c.Email, Name: c.Name, Role: c.Role, AccessZone: c.AccessZone}
}

// Generate genera un token JWT firmado del tipo indicado (access o refresh).
func Generate(secret string, id Identity, tokenType, issuer string, expMinutes int) (string, error) {
	if secret == "" {
		return "", fmt.Errorf("jwt: secret vacío")
	}
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   id.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(expMinutes) * time.Minute)),
		},
		UserID:     id.UserID,
		Email:      id.Email,
		Name:       id.Name,
		Role:       id.Role,
		AccessZone: id.AccessZone,
		TokenType:  tokenType,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// Parse valida el token y devuelve sus claims.
// Retorna error si el token es inválido, expirado, tiene firma incorrecta o no es del tipo esperado.
func Parse(secret, tokenString, tokenType string) (*Claims, error) {
	if secret == "" {
		return nil, fmt.Errorf("jwt: secret vacío")
	}
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("método de firma inesperado: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("claims inválidos")
	}
	if claims.TokenType != tokenType {
		return nil, fmt.Errorf("jwt: se esperaba token %s", tokenType)
	}
	return claims, nil
}
