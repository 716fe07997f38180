package handlers

import (
	"errors"
	"fmt"
	"math"
	"net/http"
	"slices"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/codyseavey/tcg-catalog/internal/models"
	"github.com/codyseavey/tcg-catalog/internal/services"
)

type CatalogHandler struct {
	catalogService *services.CatalogService
}

func NewCatalogHandler(catalogService *services.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogService: catalogService}
}

func (h *CatalogHandler) GetCategories(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"categories": h.catalogService.Categories()})
}

// GetCategoryItems applies any filter params to the session's view of the category and returns the page
func (h *CatalogHandler) GetCategoryItems(c *gin.Context) {
	update, err := parseSpecUpdate(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	view, err := h.catalogService.CategoryPage(currentSession(c), c.Param("key"), update)
	if errors.Is(err, services.ErrUnknownCategory) {
		c.JSON(http.StatusNotFound, gin.H{"error": "category not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *CatalogHandler) PageCategory(c *gin.Context) {
	action, ok := services.ParsePageAction(c.Param("action"))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "action must be next, prev or reset"})
		return
	}

	view, err := h.catalogService.PageCategory(currentSession(c), c.Param("key"), action)
	if errors.Is(err, services.ErrUnknownCategory) {
		c.JSON(http.StatusNotFound, gin.H{"error": "category not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *CatalogHandler) GetSlabs(c *gin.Context) {
	update, err := parseSpecUpdate(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, h.catalogService.SlabPage(currentSession(c), update))
}

func (h *CatalogHandler) PageSlabs(c *gin.Context) {
	action, ok := services.ParsePageAction(c.Param("action"))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "action must be next, prev or reset"})
		return
	}
	c.JSON(http.StatusOK, h.catalogService.PageSlabs(currentSession(c), action))
}

// GetTracking returns value series; types may be repeated or comma separated
func (h *CatalogHandler) GetTracking(c *gin.Context) {
	var selected []string
	for _, v := range c.QueryArray("types") {
		for _, t := range strings.Split(v, ",") {
			if t = strings.TrimSpace(t); t != "" {
				selected = append(selected, t)
			}
		}
	}
	c.JSON(http.StatusOK, h.catalogService.Tracking(selected))
}

func (h *CatalogHandler) GetStats(c *gin.Context) {
	c.JSON(http.StatusOK, h.catalogService.Stats())
}

// parseSpecUpdate turns the filter query params into a QuerySpec update.
// Only params that are present change the query spec; the page is never reset.
func parseSpecUpdate(c *gin.Context) (func(*models.QuerySpec), error) {
	var changes []func(*models.QuerySpec)

	if set, ok := c.GetQuery("set"); ok {
		if strings.TrimSpace(set) == "" {
			set = models.AllSets
		}
		changes = append(changes, func(q *models.QuerySpec) { q.SelectedSet = set })
	}

	if term, ok := c.GetQuery("q"); ok {
		changes = append(changes, func(q *models.QuerySpec) { q.SearchTerm = term })
	}

	if sort, ok := c.GetQuery("sort"); ok {
		mode := models.ParseSortMode(sort)
		changes = append(changes, func(q *models.QuerySpec) { q.SortMode = mode })
	}

	minStr, hasMin := c.GetQuery("min_price")
	maxStr, hasMax := c.GetQuery("max_price")
	switch {
	case c.Query("reset_price") == "true":
		changes = append(changes, func(q *models.QuerySpec) { q.PriceRange = nil })
	case hasMin || hasMax:
		if !hasMin || !hasMax {
			return nil, errors.New("min_price and max_price must be given together")
		}
		lo, errMin := strconv.ParseFloat(strings.TrimSpace(minStr), 64)
		hi, errMax := strconv.ParseFloat(strings.TrimSpace(maxStr), 64)
		if errMin != nil || errMax != nil || !finite(lo) || !finite(hi) {
			return nil, errors.New("invalid price range")
		}
		if lo > hi {
			return nil, errors.New("min_price must not exceed max_price")
		}
		changes = append(changes, func(q *models.QuerySpec) { q.PriceRange = &models.PriceRange{Min: lo, Max: hi} })
	}

	if sizeStr, ok := c.GetQuery("page_size"); ok {
		size, err := strconv.Atoi(sizeStr)
		if err != nil || !slices.Contains(models.PageSizeOptions, size) {
			return nil, fmt.Errorf("page_size must be one of %v", models.PageSizeOptions)
		}
		changes = append(changes, func(q *models.QuerySpec) { q.PageSize = size })
	}

	if pageStr, ok := c.GetQuery("page"); ok {
		page, err := strconv.Atoi(pageStr)
		if err != nil || page < 1 {
			return nil, errors.New("page must be a positive integer")
		}
		changes = append(changes, func(q *models.QuerySpec) { q.CurrentPage = page })
	}

	return func(q *models.QuerySpec) {
		for _, change := range changes {
			change(q)
		}
	}, nil
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
