package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"shopy/internal/app"
	"shopy/internal/transport/http/response"
)

type AssistantHandler struct {
	assistantService *app.AssistantService
}

type AssistantQueryRequest struct {
	Message string `json:"message" binding:"required,max=2000"`
	TopK    int    `json:"top_k" binding:"omitempty,min=1,max=20"`
}

func NewAssistantHandler(assistantService *app.AssistantService) *AssistantHandler {
	return &AssistantHandler{assistantService: assistantService}
}

// Query answers a shopper's question. The service swallows every internal
// failure into a fixed reply, so this endpoint only ever 400s on bad payloads.
func (h *AssistantHandler) Query(c *gin.Context) {
	var req AssistantQueryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}

	topK := req.TopK
	if topK == 0 {
		topK = h.assistantService.DefaultTopK()
	}

	result := h.assistantService.Answer(c.Request.Context(), req.Message, topK)
	response.OK(c, result)
}

// Reindex re-embeds the whole catalog. Admin-only; used after bulk edits or
// when the index has drifted from the catalog.
func (h *AssistantHandler) Reindex(c *gin.Context) {
	processed, err := h.assistantService.RebuildIndex(c.Request.Context())
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "rebuild index failed")
		return
	}
	response.OK(c, gin.H{"processed": processed})
}
