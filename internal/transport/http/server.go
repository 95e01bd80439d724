package http

import (
	"github.com/gin-gonic/gin"

	"pdftutor/internal/bootstrap"
	"pdftutor/internal/transport/http/handler"
)

func NewRouter(app *bootstrap.App) *gin.Engine {
	gin.SetMode(app.Config.App.GinMode)
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())

	healthHandler := handler.NewHealthHandler(app)
	router.GET("/healthz", healthHandler.Check)

	documentHandler := handler.NewDocumentHandler(app.Documents)
	questionHandler := handler.NewQuestionHandler(app.Questions)
	summaryHandler := handler.NewSummaryHandler(app.Summaries)

	api := router.Group("/api")

	documents := api.Group("/documents")
	documents.POST("/upload", documentHandler.Upload)
	documents.GET("", documentHandler.List)
	documents.DELETE("/:id", documentHandler.Delete)

	api.POST("/questions", questionHandler.Generate)

	summaries := api.Group("/summaries")
	summaries.POST("/full", summaryHandler.Full)
	summaries.POST("/topic", summaryHandler.Topic)

	return router
}
