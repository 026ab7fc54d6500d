package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	mailboxapp "github.com/fruitflow/backend/internal/application/mailbox"
)

const (
	sseMaxClients        = 1000
	sseHeartbeatInterval = 30 * time.Second
	sseClientBuffer      = 16
	sseReplayLimit       = 100
)

// sseEvent is one frame pushed to a mailbox stream
type sseEvent struct {
	Event string
	ID    string
	Data  any
}

// sseClient is one connected mailbox stream
type sseClient struct {
	ID      string
	OwnerID uuid.UUID
	Chan    chan sseEvent
	Done    chan struct{}
}

// MailboxSSEHandler streams new mailbox messages to connected clients over
// Server-Sent Events. It implements mailbox.Notifier so the mailbox service
// can push messages the moment they are stored, replacing client polling.
type MailboxSSEHandler struct {
	BaseHandler
	mailboxService *mailboxapp.Service
	logger         *zap.Logger

	clients     sync.Map // client ID -> *sseClient
	clientCount atomic.Int64
}

var _ mailboxapp.Notifier = (*MailboxSSEHandler)(nil)

// NewMailboxSSEHandler creates a new MailboxSSEHandler
func NewMailboxSSEHandler(mailboxService *mailboxapp.Service, logger *zap.Logger) *MailboxSSEHandler {
	return &MailboxSSEHandler{
		mailboxService: mailboxService,
		logger:         logger,
	}
}

// NotifyMessage fans a stored message out to the owner's connected streams.
// Slow clients are skipped rather than blocking the ingest path.
func (h *MailboxSSEHandler) NotifyMessage(ownerID uuid.UUID, message mailboxapp.MessageResponse) {
	event := sseEvent{
		Event: "message",
		ID:    message.SentAt.UTC().Format(time.RFC3339Nano),
		Data:  message,
	}

	h.clients.Range(func(_, value any) bool {
		client := value.(*sseClient)
		if client.OwnerID != ownerID {
			return true
		}
		select {
		case client.Chan <- event:
		default:
			h.logger.Warn("Dropping mailbox event for slow client",
				zap.String("client_id", client.ID))
		}
		return true
	})
}

// Stream handles GET /mailbox/stream. It replays messages the client missed
// since the Last-Event-ID (or ?since) cursor, then holds the connection open
// and pushes new messages as they arrive.
func (h *MailboxSSEHandler) Stream(c *gin.Context) {
	ownerID, err := getOwnerID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	if h.clientCount.Load() >= sseMaxClients {
		h.Error(c, http.StatusServiceUnavailable, "STREAM_CAPACITY", "Too many open streams")
		return
	}

	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		h.InternalError(c, "Streaming is not supported")
		return
	}

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	client := &sseClient{
		ID:      uuid.New().String(),
		OwnerID: ownerID,
		Chan:    make(chan sseEvent, sseClientBuffer),
		Done:    make(chan struct{}),
	}

	h.clients.Store(client.ID, client)
	h.clientCount.Add(1)
	defer func() {
		h.clients.Delete(client.ID)
		h.clientCount.Add(-1)
		close(client.Done)
	}()

	h.logger.Debug("Mailbox stream opened",
		zap.String("client_id", client.ID),
		zap.String("owner_id", ownerID.String()))

	if cursor, ok := streamCursor(c); ok {
		if err := h.replay(c, ownerID, cursor, flusher); err != nil {
			h.logger.Error("Mailbox replay failed", zap.Error(err))
		}
	}

	h.sendEvent(c, sseEvent{Event: "connected", Data: gin.H{"client_id": client.ID}})
	flusher.Flush()

	heartbeat := time.NewTicker(sseHeartbeatInterval)
	defer heartbeat.Stop()

	for {
		select {
		case event := <-client.Chan:
			h.sendEvent(c, event)
			flusher.Flush()
		case <-heartbeat.C:
			fmt.Fprint(c.Writer, ": heartbeat\n\n")
			flusher.Flush()
		case <-c.Request.Context().Done():
			h.logger.Debug("Mailbox stream closed", zap.String("client_id", client.ID))
			return
		}
	}
}

// replay sends messages stored after the cursor, oldest first
func (h *MailboxSSEHandler) replay(c *gin.Context, ownerID uuid.UUID, cursor time.Time, flusher http.Flusher) error {
	messages, err := h.mailboxService.Since(c.Request.Context(), ownerID, cursor, sseReplayLimit)
	if err != nil {
		return err
	}
	for _, message := range messages {
		h.sendEvent(c, sseEvent{
			Event: "message",
			ID:    message.SentAt.UTC().Format(time.RFC3339Nano),
			Data:  message,
		})
	}
	if len(messages) > 0 {
		flusher.Flush()
	}
	return nil
}

// streamCursor resolves the replay cursor from Last-Event-ID or ?since
func streamCursor(c *gin.Context) (time.Time, bool) {
	raw := c.GetHeader("Last-Event-ID")
	if raw == "" {
		raw = c.Query("since")
	}
	if raw == "" {
		return time.Time{}, false
	}
	cursor, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return time.Time{}, false
	}
	return cursor, true
}

// sendEvent writes one SSE frame
func (h *MailboxSSEHandler) sendEvent(c *gin.Context, event sseEvent) {
	if event.Event != "" {
		fmt.Fprintf(c.Writer, "event: %s\n", event.Event)
	}
	if event.ID != "" {
		fmt.Fprintf(c.Writer, "id: %s\n", event.ID)
	}
	payload, err := json.Marshal(event.Data)
	if err != nil {
		h.logger.Error("Failed to marshal stream event", zap.Error(err))
		return
	}
	fmt.Fprintf(c.Writer, "data: %s\n\n", payload)
}
