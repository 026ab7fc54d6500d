package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	messagingapp "github.com/fruitflow/backend/internal/application/messaging"
	"github.com/fruitflow/backend/internal/infrastructure/config"
	"github.com/fruitflow/backend/internal/infrastructure/line"
)

// WebhookHandler receives inbound messaging-provider callbacks. The route is
// unauthenticated; the request proves itself with an HMAC signature over the
// raw body instead.
type WebhookHandler struct {
	BaseHandler
	webhookService *messagingapp.WebhookService
	lineConfig     config.LineConfig
	logger         *zap.Logger
}

// NewWebhookHandler creates a new WebhookHandler
func NewWebhookHandler(webhookService *messagingapp.WebhookService, lineConfig config.LineConfig, logger *zap.Logger) *WebhookHandler {
	return &WebhookHandler{
		webhookService: webhookService,
		lineConfig:     lineConfig,
		logger:         logger,
	}
}

// HandleLine handles POST /webhooks/line. Once the signature checks out the
// provider always gets a 200; processing failures are logged and retried on
// the provider's next delivery, never surfaced as webhook errors.
func (h *WebhookHandler) HandleLine(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		h.BadRequest(c, "Failed to read request body")
		return
	}

	signature := c.GetHeader("X-Line-Signature")
	if !line.ValidateSignature(h.lineConfig.ChannelSecret, signature, body) {
		h.logger.Warn("Rejected webhook with invalid signature",
			zap.String("remote_addr", c.ClientIP()))
		h.Error(c, http.StatusUnauthorized, "INVALID_SIGNATURE", "Webhook signature verification failed")
		return
	}

	var req messagingapp.WebhookRequest
	if err := json.Unmarshal(body, &req); err != nil {
		h.BadRequest(c, "Malformed webhook payload")
		return
	}

	ownerID, err := uuid.Parse(h.lineConfig.OwnerID)
	if err != nil {
		h.logger.Error("Webhook owner account is not configured")
		c.Status(http.StatusOK)
		return
	}

	h.webhookService.HandleEvents(c.Request.Context(), ownerID, req.Events)
	c.Status(http.StatusOK)
}
