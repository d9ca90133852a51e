package nav

import (
	"errors"

	"backend-vibenav/internal/route"
	"backend-vibenav/internal/vibe"

	"github.com/gofiber/fiber/v2"
)

type startRequest struct {
	Route    *route.Candidate `json:"route"`
	Plan     vibe.Plan        `json:"plan"`
	Position route.Coordinate `json:"position"`
	Heading  float64          `json:"heading"`
}

type positionRequest struct {
	Position route.Coordinate `json:"position"`
	Heading  float64          `json:"heading"`
}

func RegisterRoutes(r fiber.Router, mgr *Manager, authMiddleware fiber.Handler) {
	r.Post("/sessions", authMiddleware, func(c *fiber.Ctx) error {
		var req startRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if req.Route == nil {
			return fiber.NewError(fiber.StatusBadRequest, "route candidate required")
		}

		userID, _ := c.Locals("user_id").(string)
		session, err := mgr.Start(userID, req.Route, req.Plan, req.Position, req.Heading)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"session_id": session.ID,
			"state":      session.Tracker.State(),
		})
	})

	r.Post("/sessions/:id/position", authMiddleware, func(c *fiber.Ctx) error {
		var req positionRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		state, err := mgr.Update(c.Params("id"), req.Position, req.Heading)
		if errors.Is(err, ErrSessionNotFound) {
			return fiber.NewError(fiber.StatusNotFound, err.Error())
		}
		if errors.Is(err, ErrNotNavigating) {
			return fiber.NewError(fiber.StatusConflict, err.Error())
		}
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(state)
	})

	r.Post("/sessions/:id/stop", authMiddleware, func(c *fiber.Ctx) error {
		state, err := mgr.Stop(c.Params("id"))
		if errors.Is(err, ErrSessionNotFound) {
			return fiber.NewError(fiber.StatusNotFound, err.Error())
		}
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(state)
	})

	r.Get("/sessions/:id", authMiddleware, func(c *fiber.Ctx) error {
		session, err := mgr.Get(c.Params("id"))
		if err != nil {
			return fiber.NewError(fiber.StatusNotFound, err.Error())
		}
		return c.JSON(fiber.Map{
			"session_id": session.ID,
			"state":      session.Tracker.State(),
			"route_id":   session.Tracker.Route().ID,
		})
	})
}
