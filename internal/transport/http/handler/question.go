package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"pdftutor/internal/app"
	"pdftutor/internal/transport/http/response"
)

type QuestionHandler struct {
	questions *app.QuestionFlow
}

type GenerateQuestionsRequest struct {
	DocID        string `json:"doc_id" binding:"required"`
	NumQuestions int    `json:"num_questions"`
}

func NewQuestionHandler(questions *app.QuestionFlow) *QuestionHandler {
	return &QuestionHandler{questions: questions}
}

// Generate returns MCQs for a document. A document with no extractable or
// matching text yields empty lists, not an error.
func (h *QuestionHandler) Generate(c *gin.Context) {
	var req GenerateQuestionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}

	result, err := h.questions.Run(c.Request.Context(), app.QuestionInput{
		DocumentID:   req.DocID,
		NumQuestions: req.NumQuestions,
	})
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "generate questions failed")
		return
	}
	response.OK(c, result)
}
