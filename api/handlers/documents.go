package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/meghashyamc/knowledgebase/db/searchdb"
	"github.com/meghashyamc/knowledgebase/logger"
	"github.com/meghashyamc/knowledgebase/metrics"
	"github.com/meghashyamc/knowledgebase/services/documents"
	"github.com/meghashyamc/knowledgebase/validation"
)

type AddDocumentRequest struct {
	Title      string   `json:"title" validate:"required,not_blank,max=500"`
	Content    string   `json:"content" validate:"required,not_blank"`
	Summary    string   `json:"summary" validate:"max=1000"`
	Tags       []string `json:"tags" validate:"valid_tags"`
	SourceType string   `json:"source_type" validate:"max=50"`
	SourceURL  string   `json:"source_url" validate:"omitempty,url"`
	Category   string   `json:"category" validate:"max=100"`
}

type ListDocumentsRequest struct {
	Limit    int    `form:"limit" json:"limit" validate:"min=0,max=100"`
	Offset   int    `form:"offset" json:"offset" validate:"min=0"`
	Category string `form:"category"`
	Tag      string `form:"tag"`
}

func (r *ListDocumentsRequest) setDefaults() {
	if r.Limit == 0 {
		r.Limit = defaultResultsPerPage
	}
}

type ListDocumentsResponse struct {
	Documents   []searchdb.Document `json:"documents"`
	Count       int                 `json:"count"`
	PageDetails Pagination          `json:"page_details"`
}

type CategoriesResponse struct {
	Categories []documents.Category `json:"categories"`
}

type ServiceDescriptor struct {
	Message   string            `json:"message"`
	Version   string            `json:"version"`
	Endpoints map[string]string `json:"endpoints"`
}

const apiVersion = "1.0.0"

func SetupDocuments(router *gin.Engine, logger logger.Logger, service *documents.Service, validator *validation.Validator) {
	router.GET("/api", handleDescribe())
	router.POST("/api/documents", handleAddDocument(service, logger, validator))
	router.GET("/api/documents", handleListDocuments(service, logger, validator))
	router.GET("/api/documents/:id", handleGetDocument(service, logger))
	router.GET("/api/categories", handleCategories(service, logger))
	router.GET("/api/stats", handleStats(service, logger))

}

func handleDescribe() gin.HandlerFunc {
	return func(c *gin.Context) {
		writeResponse(c, ServiceDescriptor{
			Message: "AI Knowledge Base API",
			Version: apiVersion,
			Endpoints: map[string]string{
				"search":     "/api/search",
				"documents":  "/api/documents",
				"categories": "/api/categories",
				"stats":      "/api/stats",
			},
		}, http.StatusOK, nil)
	}
}

func handleAddDocument(service *documents.Service, logger logger.Logger, validator *validation.Validator) gin.HandlerFunc {
	return func(c *gin.Context) {
		request := AddDocumentRequest{}
		if err := c.ShouldBindJSON(&request); err != nil {
			logger.Warn("could not extract expected params from add document request", "err", err.Error())
			c.Abort()
			writeResponse(c, nil, http.StatusUnprocessableEntity, []string{"failed to extract request body parameters"})
			return
		}

		if err := validator.Validate(request); err != nil {
			logger.Warn("could not validate add document request", "err", err.Error())
			c.Abort()
			writeResponse(c, nil, http.StatusNotAcceptable, []string{err.Error()})
			return
		}

		doc, err := service.Add(c.Request.Context(), documents.AddRequest{
			Title:      request.Title,
			Content:    request.Content,
			Summary:    request.Summary,
			Tags:       request.Tags,
			SourceType: request.SourceType,
			SourceURL:  request.SourceURL,
			Category:   request.Category,
		})
		if err != nil {
			if errors.Is(err, documents.ErrCategoryNotFound) {
				logger.Warn("could not add document", "err", err.Error())
				c.Abort()
				writeResponse(c, nil, http.StatusNotFound, []string{err.Error()})
				return
			}
			logger.Error("could not add document", "err", err.Error())
			c.Abort()
			writeResponse(c, nil, http.StatusInternalServerError, []string{err.Error()})
			return
		}
		metrics.ObserveDocumentAdded("api")

		writeResponse(c, doc, http.StatusCreated, nil)
	}
}

func handleListDocuments(service *documents.Service, logger logger.Logger, validator *validation.Validator) gin.HandlerFunc {
	return func(c *gin.Context) {
		request := ListDocumentsRequest{}
		if err := c.ShouldBindQuery(&request); err != nil {
			logger.Warn("could not extract expected params from list documents request", "err", err.Error())
			c.Abort()
			writeResponse(c, nil, http.StatusUnprocessableEntity, []string{"failed to extract query parameters"})
			return
		}
		request.setDefaults()

		if err := validator.Validate(request); err != nil {
			logger.Warn("could not validate list documents request", "err", err.Error())
			c.Abort()
			writeResponse(c, nil, http.StatusNotAcceptable, []string{err.Error()})
			return
		}

		list, err := service.List(c.Request.Context(), documents.ListRequest{
			Limit:    request.Limit,
			Offset:   request.Offset,
			Category: request.Category,
			Tag:      request.Tag,
		})
		if err != nil {
			logger.Error("could not list documents", "err", err.Error())
			c.Abort()
			writeResponse(c, nil, http.StatusInternalServerError, []string{err.Error()})
			return
		}

		c.Header(HeaderPaginationTotalCount, strconv.Itoa(list.Total))
		writeResponse(c, ListDocumentsResponse{
			Documents:   list.Documents,
			Count:       len(list.Documents),
			PageDetails: calculatePagination(list.Total, request.Limit, request.Offset),
		}, http.StatusOK, nil)
	}
}

func handleGetDocument(service *documents.Service, logger logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		doc, err := service.Get(c.Request.Context(), c.Param("id"))
		if err != nil {
			if errors.Is(err, documents.ErrNotFound) {
				logger.Warn("document not found", "id", c.Param("id"))
				c.Abort()
				writeResponse(c, nil, http.StatusNotFound, []string{err.Error()})
				return
			}
			logger.Error("could not get document", "err", err.Error())
			c.Abort()
			writeResponse(c, nil, http.StatusInternalServerError, []string{err.Error()})
			return
		}

		writeResponse(c, doc, http.StatusOK, nil)
	}
}

func handleCategories(service *documents.Service, logger logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		categories, err := service.Categories(c.Request.Context())
		if err != nil {
			logger.Error("could not get categories", "err", err.Error())
			c.Abort()
			writeResponse(c, nil, http.StatusInternalServerError, []string{err.Error()})
			return
		}

		writeResponse(c, CategoriesResponse{Categories: categories}, http.StatusOK, nil)
	}
}

func handleStats(service *documents.Service, logger logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		stats, err := service.Stats(c.Request.Context())
		if err != nil {
			logger.Error("could not get stats", "err", err.Error())
			c.Abort()
			writeResponse(c, nil, http.StatusInternalServerError, []string{err.Error()})
			return
		}

		writeResponse(c, stats, http.StatusOK, nil)
	}
}
