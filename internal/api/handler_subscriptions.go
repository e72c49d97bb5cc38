package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"cardtrack/internal/service/subscription"
)

type SubscriptionHandler struct {
	subscriptionService *subscription.Service
}

func NewSubscriptionHandler(subscriptionService *subscription.Service) *SubscriptionHandler {
	return &SubscriptionHandler{subscriptionService: subscriptionService}
}

// GetSubscriptions handles GET /subscriptions
func (h *SubscriptionHandler) GetSubscriptions(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	candidates, err := h.subscriptionService.Candidates(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to detect subscriptions"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"subscriptions": candidates})
}
