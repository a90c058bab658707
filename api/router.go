package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/meghashyamc/knowledgebase/api/handlers"
	"github.com/meghashyamc/knowledgebase/logger"
	"github.com/meghashyamc/knowledgebase/metrics"
	"github.com/meghashyamc/knowledgebase/ui"
)

func setupRoutes(router *gin.Engine, s *server) {
	router.GET("/health", health())
	router.GET("/metrics", metrics.Handler())

	router.StaticFS("/static", http.FS(ui.Static()))

	handlers.SetupPage(router, s.logger, s.sessions, handlers.PageOptions{
		Locale:  s.locale,
		DocsURL: s.cfg.GetDocsURL(),
	})
	handlers.SetupDocuments(router, s.logger, s.documents, s.validator)
	handlers.SetupSearch(router, s.logger, s.search, s.validator)

}

func health() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	}
}

func newRouter(logger logger.Logger) (*gin.Engine, error) {
	router := gin.New()
	router.UseRawPath = true
	router.Use(_CORSMiddleware())
	router.Use(gin.Recovery())
	router.Use(metrics.Middleware())
	router.Use(loggingMiddleware(logger))

	templates, err := ui.Templates()
	if err != nil {
		return nil, err
	}
	router.SetHTMLTemplate(templates)

	return router, nil
}
