package handler

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"github.com/diamondjirapat/mango-reach-management-mockup/internal/models"
	"github.com/diamondjirapat/mango-reach-management-mockup/internal/scoring"
	"github.com/diamondjirapat/mango-reach-management-mockup/internal/service"
)

type AdHandler struct {
	service *service.AdService
}

func NewAdHandler(svc *service.AdService) *AdHandler {
	return &AdHandler{service: svc}
}

func (h *AdHandler) ListAds(c *fiber.Ctx) error {
	skip, err := queryInt(c, "skip", 0)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	limit, err := queryInt(c, "limit", service.DefaultLimit)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	ads, err := h.service.ListAds(c.Context(), skip, limit)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(ads)
}

func (h *AdHandler) GetAd(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "ad id must be an integer",
		})
	}

	ad, err := h.service.GetAd(c.Context(), int64(id))
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(ad)
}

func (h *AdHandler) CreateAd(c *fiber.Ctx) error {
	var req models.CreateAdRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid Request Body",
		})
	}

	ad, err := h.service.CreateAd(c.Context(), &req)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(ad)
}

func (h *AdHandler) UpdateAd(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "ad id must be an integer",
		})
	}

	var req models.UpdateAdRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid Request Body",
		})
	}

	ad, err := h.service.UpdateAd(c.Context(), int64(id), &req)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(ad)
}

func (h *AdHandler) DeleteAd(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "ad id must be an integer",
		})
	}

	if err := h.service.DeleteAd(c.Context(), int64(id)); err != nil {
		return respondError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *AdHandler) GetDashboardStats(c *fiber.Ctx) error {
	stats, err := h.service.GetDashboardStats(c.Context())
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(stats)
}

func (h *AdHandler) RescoreAds(c *fiber.Ctx) error {
	updated, err := h.service.RescoreAll(c.Context())
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"updated": updated,
	})
}

func ListSources(c *fiber.Ctx) error {
	return c.JSON(scoring.Sources())
}

func Root(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "ok",
		"message": "Ads Reach Analyzer API is running",
	})
}

func HealthCheck(c *fiber.Ctx) error {
	return c.SendString("OK")
}

// queryInt reads an integer query parameter, falling back to def only when it is absent.
func queryInt(c *fiber.Ctx, key string, def int) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer", key)
	}
	return v, nil
}

// respondError maps service error kinds to status codes. Storage details are
// logged, not returned.
func respondError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrValidation):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	case errors.Is(err, service.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "ad not found",
		})
	default:
		logrus.WithError(err).WithFields(logrus.Fields{
			"method": c.Method(),
			"path":   c.Path(),
		}).Error("request failed")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "internal storage error",
		})
	}
}
