package controller

import (
	"bizmail-be/internal/pkg/serverutils"
	"bizmail-be/internal/repository/contract"
	"bizmail-be/pkg/analytics"

	"github.com/gofiber/fiber/v2"
)

type IAnalyticsController interface {
	RegisterRoutes(r fiber.Router)
	Overview(ctx *fiber.Ctx) error
	MessagesByDay(ctx *fiber.Ctx) error
	ThreadsByContext(ctx *fiber.Ctx) error
	ThreadsGrowth(ctx *fiber.Ctx) error
	TopThreads(ctx *fiber.Ctx) error
	DirectivesUsage(ctx *fiber.Ctx) error
}

type analyticsController struct {
	aggregator *analytics.Aggregator
	store      contract.Store
}

func NewAnalyticsController(aggregator *analytics.Aggregator, store contract.Store) IAnalyticsController {
	return &analyticsController{
		aggregator: aggregator,
		store:      store,
	}
}

func (c *analyticsController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/analytics/v1")
	h.Get("/overview", c.Overview)
	h.Get("/messages-by-day", c.MessagesByDay)
	h.Get("/threads-by-context", c.ThreadsByContext)
	h.Get("/threads-growth", c.ThreadsGrowth)
	h.Get("/top-threads", c.TopThreads)
	h.Get("/directives-usage", c.DirectivesUsage)
}

func (c *analyticsController) Overview(ctx *fiber.Ctx) error {
	days := ctx.QueryInt("days", 7)

	res, err := c.aggregator.Overview(ctx.Context(), c.store, days)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get analytics overview", res))
}

func (c *analyticsController) MessagesByDay(ctx *fiber.Ctx) error {
	days := ctx.QueryInt("days", 7)

	res, err := c.aggregator.MessagesByDay(ctx.Context(), c.store, days)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get messages by day", res))
}

func (c *analyticsController) ThreadsByContext(ctx *fiber.Ctx) error {
	days := ctx.QueryInt("days", 30)

	res, err := c.aggregator.ThreadsByContext(ctx.Context(), c.store, days)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get threads by context", res))
}

func (c *analyticsController) ThreadsGrowth(ctx *fiber.Ctx) error {
	days := ctx.QueryInt("days", 30)

	res, err := c.aggregator.ThreadsGrowth(ctx.Context(), c.store, days)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get threads growth", res))
}

func (c *analyticsController) TopThreads(ctx *fiber.Ctx) error {
	days := ctx.QueryInt("days", 30)
	limit := ctx.QueryInt("limit", 10)

	res, err := c.aggregator.TopThreads(ctx.Context(), c.store, days, limit)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get top threads", res))
}

func (c *analyticsController) DirectivesUsage(ctx *fiber.Ctx) error {
	days := ctx.QueryInt("days", 30)

	res, err := c.aggregator.DirectivesUsage(ctx.Context(), c.store, days)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get directives usage", res))
}
