package middleware

import "github.com/gofiber/fiber/v2"

const pageContentSecurityPolicy = "default-src 'self'; style-src 'self' 'unsafe-inline'; " +
	"form-action 'self'; frame-ancestors 'none'; base-uri 'self'"

// PageSecurity sets the headers for server rendered HTML routes. The global
// helmet config leaves the content security policy empty so it can be set per
// route.
func (m *Middleware) PageSecurity() fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Set(fiber.HeaderContentSecurityPolicy, pageContentSecurityPolicy)
		c.Set(fiber.HeaderCacheControl, "no-store")
		return c.Next()
	}
}

// RequestLogger logs each request with its trace ID once the handler chain
// returns.
func (m *Middleware) RequestLogger() fiber.Handler {
	log := m.log.Function("RequestLogger")

	return func(c *fiber.Ctx) error {
		err := c.Next()

		log.TraceFromContext(c.UserContext()).Debug(
			"request handled",
			"method", c.Method(),
			"path", c.Path(),
			"status", c.Response().StatusCode(),
		)

		return err
	}
}
