package middleware

import (
	"errors"
	"log"
	"strings"

	"dailyreport/internal/apperrors"
	"dailyreport/internal/repositories"
	"dailyreport/internal/services"

	"github.com/gofiber/fiber/v2"
)

// AuthRequired is a Fiber middleware that checks for a valid session token.
// A missing or malformed Authorization header answers 401; a bad signature,
// an expired token, or a token bound to a user that no longer exists
// answers 403. Token validity alone is not trusted: the email subject is
// re-resolved to a live user row on every request.
func AuthRequired(authService *services.AuthService, userRepo repositories.UserRepository) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Authorization header is required",
			})
		}

		// Expected format: "Bearer <token>"
		parts := strings.SplitN(authHeader, " ", 2)
		if !(len(parts) == 2 && parts[0] == "Bearer") {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Authorization header format must be 'Bearer <token>'",
			})
		}

		email, err := authService.ValidateToken(parts[1])
		if err != nil {
			log.Printf("Token validation failed: %v", err)
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"message": "Invalid or expired token",
			})
		}

		user, err := userRepo.GetByEmail(email)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				log.Printf("Token subject %s has no account: %v", email, err)
				return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
					"message": "Invalid or expired token",
				})
			}
			// A store failure is not an authorization verdict.
			log.Printf("Failed to resolve token subject %s: %v", email, err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"message": "Internal server error",
			})
		}

		// Store the resolved identity for subsequent handlers.
		c.Locals("user_id", user.ID)
		c.Locals("email", user.Email)
		c.Locals("name", user.Name)

		return c.Next()
	}
}
