// Package rayid generates a unique request id (RayID) for every incoming
// request, injecting it into the Fiber locals and the response headers so
// logs and responses of one request can be correlated.
package rayid

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// HeaderName is the response header carrying the generated RayID.
const HeaderName = "X-Ray-ID"

// LocalsKey is the Fiber locals key under which the RayID is stored.
const LocalsKey = "ray_id"

// New returns a middleware that stamps each request with a RayID.
// An id supplied by the caller in the request header is reused so traces can
// span the browser dashboards and the service.
func New() fiber.Handler {
	return func(c *fiber.Ctx) error {
		rid := c.Get(HeaderName)
		if rid == "" {
			rid = uuid.NewString()
		}
		c.Locals(LocalsKey, rid)
		c.Set(HeaderName, rid)
		return c.Next()
	}
}
