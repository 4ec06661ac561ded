package controller

import (
	"errors"

	"clinic-voice-be/internal/dto"
	"clinic-voice-be/internal/pkg/serverutils"
	"clinic-voice-be/internal/service"
	"clinic-voice-be/pkg/session"

	"github.com/gofiber/fiber/v2"
)

type IConversationController interface {
	RegisterRoutes(r fiber.Router)
	SendMessage(ctx *fiber.Ctx) error
	GetSession(ctx *fiber.Ctx) error
	GetHistory(ctx *fiber.Ctx) error
	EndSession(ctx *fiber.Ctx) error
}

type conversationController struct {
	service service.IConversationService
}

func NewConversationController(service service.IConversationService) IConversationController {
	return &conversationController{service: service}
}

func (c *conversationController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/conversation/v1")
	h.Post("/message", c.SendMessage)
	h.Get("/session/:id", c.GetSession)
	h.Get("/session/:id/history", c.GetHistory)
	h.Delete("/session/:id", c.EndSession)
}

func (c *conversationController) SendMessage(ctx *fiber.Ctx) error {
	var req dto.SendMessageRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid request body"))
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, err.Error()))
	}

	res, err := c.service.HandleMessage(ctx.Context(), req.SessionId, req.Message)
	if err != nil {
		if errors.Is(err, service.ErrAgentUnavailable) {
			return ctx.Status(fiber.StatusServiceUnavailable).JSON(serverutils.ErrorResponse(503, "AGENT_UNAVAILABLE"))
		}
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Message handled", res))
}

func (c *conversationController) GetSession(ctx *fiber.Ctx) error {
	res, err := c.service.SessionState(ctx.Context(), ctx.Params("id"))
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			return ctx.Status(fiber.StatusNotFound).JSON(serverutils.ErrorResponse(404, "Session not found"))
		}
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Session state", res))
}

func (c *conversationController) GetHistory(ctx *fiber.Ctx) error {
	res, err := c.service.History(ctx.Context(), ctx.Params("id"))
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			return ctx.Status(fiber.StatusNotFound).JSON(serverutils.ErrorResponse(404, "Session not found"))
		}
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Session history", res))
}

func (c *conversationController) EndSession(ctx *fiber.Ctx) error {
	if err := c.service.EndSession(ctx.Context(), ctx.Params("id")); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse[any]("Session ended", nil))
}
