package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
)

const actorLocalKey = "actor"

// ActorMiddleware resuelve la identidad del actor desde el Bearer token (si
// viene y es válido) y la deja en Locals. Un token ausente o inválido NO
// rechaza la petición: el motor usa la identidad de sistema por defecto.
// La autorización real es responsabilidad de un colaborador externo.
func ActorMiddleware(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		auth := c.Get("Authorization")
		if strings.HasPrefix(auth, "Bearer ") && secret != "" {
			tokenStr := strings.TrimPrefix(auth, "Bearer ")
			claims := jwt.MapClaims{}
			token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (any, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, jwt.ErrSignatureInvalid
				}
				return []byte(secret), nil
			})
			if err == nil && token.Valid {
				actor := entity.Actor{}
				if sub, ok := claims["sub"].(string); ok {
					actor.ID = sub
				}
				if name, ok := claims["name"].(string); ok {
					actor.Name = name
				}
				if !actor.IsZero() {
					c.Locals(actorLocalKey, actor)
				}
			}
		}
		return c.Next()
	}
}

// ActorFromLocals devuelve el actor resuelto por el middleware, o la
// identidad de sistema.
func ActorFromLocals(c *fiber.Ctx) entity.Actor {
	if a, ok := c.Locals(actorLocalKey).(entity.Actor); ok {
		return a
	}
	return entity.SystemActor
}
