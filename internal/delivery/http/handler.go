package http

import (
	"bytes"
	"context"
	"io"
	"net/http"

	"github.com/cookme/web/internal/domain"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const (
	serviceName    = "cookme"
	serviceVersion = "1.0.0"

	// recipesTag heads the result list once a search has been made
	recipesTag = "Recipes:"
)

// RecipeFinder finds recipes for the ingredients of a request
type RecipeFinder interface {
	FindRecipes(ctx context.Context, ingredients []string) domain.SearchResult
}

// PageRenderer renders the recipe page
type PageRenderer interface {
	RenderRecipes(w io.Writer, tag string, recipes []domain.Recipe) error
}

// Handler holds dependencies for HTTP handlers
type Handler struct {
	recipes  RecipeFinder
	renderer PageRenderer
	logger   logrus.FieldLogger
}

// NewHandler creates a new HTTP handler
func NewHandler(recipes RecipeFinder, renderer PageRenderer, logger logrus.FieldLogger) *Handler {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Handler{
		recipes:  recipes,
		renderer: renderer,
		logger:   logger,
	}
}

// HealthCheck returns the health status of the service
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": serviceName,
		"version": serviceVersion,
	})
}

// Show renders the recipe page. Without an ingredients parameter it renders the
// empty landing page and makes no call to the recipe API.
func (h *Handler) Show(c *gin.Context) {
	log := requestLogger(c, h.logger)
	log.Info("get recipes")

	tag := ""
	recipes := []domain.Recipe{}

	if ingredients := c.Query("ingredients"); ingredients != "" {
		log = log.WithField("ingredients", ingredients)
		log.Info("get recipes for ingredients")

		result := h.recipes.FindRecipes(c.Request.Context(), []string{ingredients})
		if len(result.Recipes) == 0 {
			entry := log.WithField("outcome", result.Outcome)
			if result.Err != nil {
				entry = entry.WithError(result.Err)
			}
			entry.Warn("no recipes found")
		}
		for _, recipe := range result.Recipes {
			log.WithFields(logrus.Fields{
				"title": recipe.Title,
				"image": recipe.Image,
				"used":  recipe.UsedIngredientCount,
			}).Info("got recipe")
		}

		tag = recipesTag
		recipes = result.Recipes
	}

	var page bytes.Buffer
	if err := h.renderer.RenderRecipes(&page, tag, recipes); err != nil {
		_ = c.Error(err)
		return
	}

	c.Data(http.StatusOK, "text/html; charset=utf-8", page.Bytes())
}
