package api

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"cardtrack/internal/service/ingest"
)

type ImportHandler struct {
	ingestService *ingest.Service
	logger        *zap.Logger
}

func NewImportHandler(ingestService *ingest.Service, logger *zap.Logger) *ImportHandler {
	return &ImportHandler{
		ingestService: ingestService,
		logger:        logger,
	}
}

// ImportEML handles POST /imports/eml, a multipart upload of .eml files.
// The response is the full batch summary; per-file failures end up in
// errors[] and never fail the request.
func (h *ImportHandler) ImportEML(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid multipart form"})
		return
	}
	files := form.File["files"]
	if len(files) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no files uploaded"})
		return
	}

	payloads := make([][]byte, 0, len(files))
	for _, file := range files {
		f, err := file.Open()
		if err != nil {
			// surfaced as an item error, the batch goes on
			payloads = append(payloads, nil)
			continue
		}
		content, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			payloads = append(payloads, nil)
			continue
		}
		payloads = append(payloads, content)
	}

	stats := h.ingestService.IngestBatch(c.Request.Context(), userID, payloads)
	c.JSON(http.StatusOK, stats)
}

// ImportRaw handles POST /imports/raw for API-fetched message batches.
func (h *ImportHandler) ImportRaw(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	var req struct {
		Payloads [][]byte `json:"payloads" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	stats := h.ingestService.IngestBatch(c.Request.Context(), userID, req.Payloads)
	c.JSON(http.StatusOK, stats)
}

// Preview handles POST /imports/preview: extraction without persistence.
func (h *ImportHandler) Preview(c *gin.Context) {
	content, err := io.ReadAll(c.Request.Body)
	if err != nil || len(content) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "empty body"})
		return
	}

	extraction, err := h.ingestService.Preview(content)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	if extraction == nil {
		c.JSON(http.StatusOK, gin.H{"matched": false})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"matched":       true,
		"merchant_raw":  extraction.MerchantRaw,
		"merchant_norm": extraction.MerchantNorm,
		"amount_cents":  extraction.AmountCents,
		"currency":      extraction.Currency,
		"purchased_at":  extraction.PurchasedAt,
		"issuer":        extraction.Issuer,
		"status":        extraction.Status,
	})
}
