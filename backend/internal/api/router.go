package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"visiostar-nodes/backend/internal/composer"
	"visiostar-nodes/backend/internal/constants"
	"visiostar-nodes/backend/internal/promptlist"
)

// Composer is the part of *composer.Composer the API serves
type Composer interface {
	Compose(ctx context.Context, req composer.Request) composer.Result
	ComposeBatch(ctx context.Context, reqs []composer.Request) []composer.Result
}

// Options wires the router's collaborators
type Options struct {
	Composer Composer
	// Defaults is the request that caller JSON is decoded on top of
	Defaults composer.Request
	// Metrics serves GET /metrics when set
	Metrics http.Handler
	Logger  *zap.Logger
}

type batchRequest struct {
	Requests []json.RawMessage `json:"requests" binding:"required"`
}

type normalizeRequest struct {
	Raw        string `json:"raw"`
	FormatMode string `json:"format_mode"`
}

type promptListRequest struct {
	PromptCount *int     `json:"prompt_count"`
	Prompts     []string `json:"prompts"`
}

// NewRouter builds the HTTP surface of the composer
func NewRouter(opts Options) *gin.Engine {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	router := gin.New()
	router.Use(ginLogger(log))
	router.Use(gin.Recovery())
	router.Use(cors())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if opts.Metrics != nil {
		router.GET("/metrics", gin.WrapH(opts.Metrics))
	}

	api := router.Group("/api")
	{
		// Compose one prompt pair. Provider failures come back as a 200 with
		// an error pair, the same shape as any other result.
		api.POST("/compose", func(c *gin.Context) {
			req := opts.Defaults
			if err := c.ShouldBindJSON(&req); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}

			c.JSON(http.StatusOK, opts.Composer.Compose(c.Request.Context(), req))
		})

		api.POST("/compose/batch", func(c *gin.Context) {
			var body batchRequest
			if err := c.ShouldBindJSON(&body); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			if len(body.Requests) > constants.MaxBatchSize {
				c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("at most %d requests per batch", constants.MaxBatchSize)})
				return
			}

			reqs := make([]composer.Request, len(body.Requests))
			for i, raw := range body.Requests {
				reqs[i] = opts.Defaults
				if err := json.Unmarshal(raw, &reqs[i]); err != nil {
					c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("requests[%d]: %v", i, err)})
					return
				}
			}

			results := opts.Composer.ComposeBatch(c.Request.Context(), reqs)
			log.Info("Batch served", zap.Int("requests", len(reqs)))
			c.JSON(http.StatusOK, gin.H{"results": results})
		})

		api.POST("/normalize", func(c *gin.Context) {
			var req normalizeRequest
			if err := c.ShouldBindJSON(&req); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}

			switch req.FormatMode {
			case "":
				req.FormatMode = constants.FormatModeAutoJSONFirst
			case constants.FormatModeAutoJSONFirst, constants.FormatModeLabelsOnly:
			default:
				c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("unknown format_mode %q", req.FormatMode)})
				return
			}

			c.JSON(http.StatusOK, composer.Normalize(req.Raw, req.FormatMode))
		})

		api.POST("/prompts/list", func(c *gin.Context) {
			var req promptListRequest
			if err := c.ShouldBindJSON(&req); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}

			count := constants.DefaultListCount
			if req.PromptCount != nil {
				count = *req.PromptCount
			}

			c.JSON(http.StatusOK, promptlist.Process(count, req.Prompts))
		})
	}

	return router
}
