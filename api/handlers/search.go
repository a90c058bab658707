package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/meghashyamc/knowledgebase/logger"
	"github.com/meghashyamc/knowledgebase/metrics"
	"github.com/meghashyamc/knowledgebase/services/search"
	"github.com/meghashyamc/knowledgebase/session"
	"github.com/meghashyamc/knowledgebase/validation"
)

const defaultResultsPerPage = 20

type SearchRequest struct {
	Query      string   `json:"query" validate:"max=1000"`
	SearchType string   `json:"search_type" validate:"search_type"`
	Category   string   `json:"category" validate:"max=100"`
	Tags       []string `json:"tags" validate:"valid_tags"`
	SourceType string   `json:"source_type" validate:"max=50"`
	Limit      int      `json:"limit" validate:"min=0,max=100"`
	Offset     int      `json:"offset" validate:"min=0"`
}

func (r *SearchRequest) setDefaults() {
	if r.Limit == 0 {
		r.Limit = defaultResultsPerPage
	}
}

type SearchResponse struct {
	Count       int             `json:"count"`
	Results     []search.Result `json:"results"`
	Query       string          `json:"query"`
	PageDetails Pagination      `json:"page_details"`
}

func SetupSearch(router *gin.Engine, logger logger.Logger, service *search.Service, validator *validation.Validator) {
	router.POST("/api/search", handleSearch(service, logger, validator))

}

func handleSearch(service *search.Service, logger logger.Logger, validator *validation.Validator) gin.HandlerFunc {
	return func(c *gin.Context) {
		request := SearchRequest{}
		if err := c.ShouldBindJSON(&request); err != nil {
			logger.Warn("could not extract expected params from search request", "err", err.Error())
			c.Abort()
			writeResponse(c, nil, http.StatusUnprocessableEntity, []string{"failed to extract request body parameters"})
			return
		}
		request.setDefaults()

		if err := validator.Validate(request); err != nil {
			logger.Warn("could not validate search request", "err", err.Error())
			c.Abort()
			writeResponse(c, nil, http.StatusNotAcceptable, []string{err.Error()})
			return
		}

		results, err := service.Search(c.Request.Context(), search.Request{
			Query:      request.Query,
			SearchType: session.ParseSearchType(request.SearchType),
			Category:   request.Category,
			Tags:       request.Tags,
			SourceType: request.SourceType,
			Limit:      request.Limit,
			Offset:     request.Offset,
		})
		if err != nil {
			if errors.Is(err, session.ErrNothingToSearch) {
				metrics.ObserveRejectedSearch()
				logger.Warn("search without query or filters", "err", err.Error())
				c.Abort()
				writeResponse(c, nil, http.StatusNotAcceptable, []string{"enter a query or choose filters"})
				return
			}
			logger.Error("search failed", "err", err.Error())
			c.Abort()
			writeResponse(c, nil, http.StatusInternalServerError, []string{err.Error()})
			return
		}

		c.Header(HeaderPaginationTotalCount, strconv.Itoa(results.Total))
		searchResponse := SearchResponse{
			Count:   len(results.Results),
			Results: results.Results,
			Query:   request.Query,
			PageDetails: calculatePagination(
				results.Total,
				request.Limit,
				request.Offset),
		}

		writeResponse(c, searchResponse, http.StatusOK, nil)
	}
}
