package httpserver

import (
	"errors"
	"io"
	"net/http"
	"time"

	"shopfront/internal/events"

	"github.com/gin-gonic/gin"
)

const maxWebhookBody = 1 << 20

func (h *handlers) cartWebhook(c *gin.Context) {
	body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxWebhookBody))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, errorResponse{Message: "payload too large"})
			return
		}
		badRequest(c, "could not read body")
		return
	}
	h.logger.Printf("webhook: cart update received bytes=%d body=%s", len(body), body)

	ctx := c.Request.Context()
	env, err := events.NewCartUpdated(events.Meta{CorrelationID: events.CorrelationID(ctx)}, body, time.Now())
	if err == nil {
		err = h.deps.Publisher.Publish(ctx, env)
	}
	if err != nil {
		h.logger.Printf("webhook: publish cart.updated error=%v", err)
	}
	c.String(http.StatusOK, "Webhook received")
}
