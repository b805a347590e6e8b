package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jsancolett-dev/agency-os/internal/api/dto"
	"github.com/jsancolett-dev/agency-os/internal/service"
	apperrors "github.com/jsancolett-dev/agency-os/pkg/util"
)

// WebhookHandler receives messaging-platform events on the reserved route.
type WebhookHandler struct {
	intake *service.IntakeService
}

// NewWebhookHandler constructs handler.
func NewWebhookHandler(intake *service.IntakeService) *WebhookHandler {
	return &WebhookHandler{intake: intake}
}

// Receive POST /webhook/<provider>.
func (h *WebhookHandler) Receive(c *fiber.Ctx) error {
	var req dto.WebhookRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("Nenhum dado recebido")
	}

	event, err := req.Normalize()
	if err != nil {
		return apperrors.NewValidationError("Dados essenciais ausentes (telefone/mensagem)")
	}

	if _, err := h.intake.HandleInbound(c.UserContext(), service.IntakeInput{
		Phone:       event.Phone,
		DisplayName: event.DisplayName,
		Text:        event.Text,
	}); err != nil {
		return err
	}

	return c.JSON(dto.WebhookAck{Status: "success", Message: "Atendimento criado"})
}
