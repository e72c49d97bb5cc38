package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"cardtrack/internal/repository"
)

type TransactionHandler struct {
	transactionRepo *repository.TransactionRepository
}

func NewTransactionHandler(transactionRepo *repository.TransactionRepository) *TransactionHandler {
	return &TransactionHandler{transactionRepo: transactionRepo}
}

// GetTransactions handles GET /transactions
func (h *TransactionHandler) GetTransactions(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	transactions, err := h.transactionRepo.ListByUser(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch transactions"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"transactions": transactions})
}
