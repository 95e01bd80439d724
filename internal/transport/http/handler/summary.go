package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"pdftutor/internal/app"
	"pdftutor/internal/transport/http/response"
)

type SummaryHandler struct {
	summaries *app.SummaryFlow
}

type FullSummaryRequest struct {
	DocID string `json:"doc_id" binding:"required"`
}

type TopicSummaryRequest struct {
	DocID string `json:"doc_id" binding:"required"`
	Topic string `json:"topic" binding:"required"`
}

func NewSummaryHandler(summaries *app.SummaryFlow) *SummaryHandler {
	return &SummaryHandler{summaries: summaries}
}

func (h *SummaryHandler) Full(c *gin.Context) {
	var req FullSummaryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}

	result, err := h.summaries.Run(c.Request.Context(), app.SummaryInput{
		DocumentID: req.DocID,
		Mode:       app.SummaryModeFull,
	})
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "summarize failed")
		return
	}
	response.OK(c, result)
}

func (h *SummaryHandler) Topic(c *gin.Context) {
	var req TopicSummaryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}

	result, err := h.summaries.Run(c.Request.Context(), app.SummaryInput{
		DocumentID: req.DocID,
		Mode:       app.SummaryModeTopic,
		Topic:      req.Topic,
	})
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "summarize failed")
		return
	}
	response.OK(c, result)
}
