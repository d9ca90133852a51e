package route

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
)

func RegisterRoutes(r fiber.Router, svc *Service, authMiddleware fiber.Handler) {
	r.Post("/", authMiddleware, func(c *fiber.Ctx) error {
		var req Request
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		userID, _ := c.Locals("user_id").(string)
		resp, err := svc.Generate(c.Context(), userID, req)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		return c.JSON(resp)
	})

	r.Get("/nearby", func(c *fiber.Ctx) error {
		lat, err1 := strconv.ParseFloat(c.Query("lat"), 64)
		lng, err2 := strconv.ParseFloat(c.Query("lng"), 64)
		if err1 != nil || err2 != nil {
			return fiber.NewError(fiber.StatusBadRequest, "lat and lng required")
		}
		radius, err := strconv.ParseFloat(c.Query("radius_m", "500"), 64)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid radius_m")
		}
		minScore, err := strconv.ParseFloat(c.Query("min_vibe_score", "0"), 64)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid min_vibe_score")
		}

		routes, err := svc.Nearby(c.Context(), lat, lng, radius, minScore)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(routes)
	})
}
