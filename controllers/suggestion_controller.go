package controllers

import (
	"net/http"

	"trendora/services"

	"github.com/gin-gonic/gin"
)

type SuggestionController struct {
	suggestions *services.SuggestionService
}

func NewSuggestionController(suggestions *services.SuggestionService) *SuggestionController {
	return &SuggestionController{suggestions: suggestions}
}

// GetSuggestions godoc
// @Summary Personalized product suggestions
// @Description Products picked from your last 30 days of activity. Empty for
// users with no recent activity.
// @Tags Suggestions
// @Produce json
// @Security BearerAuth
// @Success 200 {object} services.Suggestions
// @Failure 502 {object} models.ErrorResponse
// @Router /suggestions [get]
func (ctrl *SuggestionController) GetSuggestions(c *gin.Context) {
	suggestions, err := ctrl.suggestions.SuggestProducts(c.Request.Context(), currentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"message":   "Suggestions retrieved",
		"data":      suggestions.Products,
		"rationale": suggestions.Rationale,
	})
}
