// Package token inspecciona tokens JWT emitidos por el backend LIPMS.
//
// El cliente no valida la firma (no conoce el secreto del servidor); solo
// lee los claims para decidir localmente si una sesión persistida sigue
// vigente sin hacer un round-trip. La validación real ocurre en el backend
// con cada petición.
package token

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims claims de interés del token de acceso LIPMS.
type Claims struct {
	jwt.RegisteredClaims
}

// Inspect decodifica el token sin verificar la firma y devuelve subject y expiración.
func Inspect(tokenString string) (subject string, expiresAt time.Time, err error) {
	parser := jwt.NewParser()
	claims := &Claims{}
	if _, _, err := parser.ParseUnverified(tokenString, claims); err != nil {
		return "", time.Time{}, fmt.Errorf("token: decodificar: %w", err)
	}
	if claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
	}
	subject, _ = claims.GetSubject()
	return subject, expiresAt, nil
}

// Expired indica si el token está vencido según su claim exp.
// Un token sin exp se considera vigente (lo decide el backend).
func Expired(tokenString string, now time.Time) bool {
	_, exp, err := Inspect(tokenString)
	if err != nil {
		return true
	}
	if exp.IsZero() {
		return false
	}
	return now.After(exp)
}
