package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"octofit.com/tracker/internal/modules/leaderboard/dto"
	leaderboard "octofit.com/tracker/internal/modules/leaderboard/service"
	"octofit.com/tracker/pkg/events"
	"octofit.com/tracker/pkg/logger"
	"octofit.com/tracker/pkg/response"
)

type LeaderboardHandler struct {
	service  leaderboard.LeaderboardService
	rdb      redis.UniversalClient
	upgrader websocket.Upgrader
	logger   *zap.Logger
}

// NewLeaderboardHandler builds the handler. rdb may be nil, in which case the
// live feed answers 503.
func NewLeaderboardHandler(service leaderboard.LeaderboardService, rdb redis.UniversalClient, log *zap.Logger) *LeaderboardHandler {
	return &LeaderboardHandler{
		service: service,
		rdb:     rdb,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		logger: logger.OrNop(log),
	}
}

func (h *LeaderboardHandler) GetLeaderboard(c *gin.Context) {
	var filter dto.LeaderboardFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BindingError(c, err)
		return
	}

	entries, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	response.Data(c, entries)
}

func (h *LeaderboardHandler) CreateEntry(c *gin.Context) {
	var req dto.LeaderboardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindingError(c, err)
		return
	}

	entry, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusCreated, entry)
}

func (h *LeaderboardHandler) GetEntry(c *gin.Context) {
	id, ok := response.BindID(c)
	if !ok {
		return
	}

	entry, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, entry)
}

func (h *LeaderboardHandler) UpdateEntry(c *gin.Context) {
	id, ok := response.BindID(c)
	if !ok {
		return
	}

	var req dto.LeaderboardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindingError(c, err)
		return
	}

	entry, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, entry)
}

func (h *LeaderboardHandler) PatchEntry(c *gin.Context) {
	id, ok := response.BindID(c)
	if !ok {
		return
	}

	var req dto.PatchLeaderboardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindingError(c, err)
		return
	}

	entry, err := h.service.Patch(c.Request.Context(), id, req)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, entry)
}

func (h *LeaderboardHandler) DeleteEntry(c *gin.Context) {
	id, ok := response.BindID(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		response.ResponseError(c, err)
		return
	}

	response.Message(c, "leaderboard entry deleted successfully")
}

// Recompute rebuilds the leaderboard. A concurrent run answers 409.
func (h *LeaderboardHandler) Recompute(c *gin.Context) {
	entries, err := h.service.Recompute(c.Request.Context())
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.RecomputeResponse{Data: entries, Count: len(entries)})
}

// GetUserTotals serves the aggregate for any user id, including ids of
// deleted users whose activities are still stored.
func (h *LeaderboardHandler) GetUserTotals(c *gin.Context) {
	totals, err := h.service.Aggregate(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, totals)
}

// HandleWebSocket streams recompute events from the Redis channel to the client.
func (h *LeaderboardHandler) HandleWebSocket(c *gin.Context) {
	if h.rdb == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "live leaderboard requires redis"})
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("failed to upgrade websocket", zap.Error(err))
		return
	}
	defer conn.Close()

	ctx := c.Request.Context()
	pubsub := h.rdb.Subscribe(ctx, events.LeaderboardChannel)
	defer pubsub.Close()

	// Wait for confirmation that subscription is created
	if _, err := pubsub.Receive(ctx); err != nil {
		h.logger.Warn("failed to subscribe to leaderboard channel", zap.Error(err))
		return
	}

	ch := pubsub.Channel()
	clientClosed := make(chan struct{})

	go func() {
		defer close(clientClosed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case msg, ok := <-ch:
			if !ok {
				return
			}
			// Payloads are already JSON encoded events.
			if err := conn.WriteMessage(websocket.TextMessage, []byte(msg.Payload)); err != nil {
				h.logger.Debug("websocket write failed", zap.Error(err))
				return
			}
		case <-clientClosed:
			return
		case <-ctx.Done():
			return
		}
	}
}
