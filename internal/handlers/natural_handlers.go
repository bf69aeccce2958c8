package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/bigsparsh/inventraX/pkg/utils"

	"github.com/gin-gonic/gin"
)

// NaturalHandler proxies free-text inventory queries to an external
// natural-language processing service.
type NaturalHandler struct {
	serviceURL string
	client     *http.Client
}

// NewNaturalHandler creates a NaturalHandler targeting serviceURL.
func NewNaturalHandler(serviceURL string, timeout time.Duration) *NaturalHandler {
	return &NaturalHandler{
		serviceURL: serviceURL,
		client:     &http.Client{Timeout: timeout},
	}
}

// NaturalRequest is the payload for POST /api/natural.
type NaturalRequest struct {
	Query string `json:"query" binding:"required"`
}

// Process handles POST /api/natural. The upstream response body is relayed to
// the caller unchanged.
func (h *NaturalHandler) Process(c *gin.Context) {
	var req NaturalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}
	if utils.IsEmpty(req.Query) {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Query cannot be empty.", ""))
		return
	}

	body, err := json.Marshal(gin.H{"query": req.Query})
	if err != nil {
		utils.LogError(err, "Process: Failed to marshal natural query")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to process query.", "Internal error"))
		return
	}

	upstreamReq, err := http.NewRequestWithContext(c.Request.Context(), http.MethodPost, h.serviceURL, bytes.NewReader(body))
	if err != nil {
		utils.LogError(err, "Process: Failed to build upstream request")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to process query.", "Internal error"))
		return
	}
	upstreamReq.Header.Set("Content-Type", "application/json")

	resp, err := h.client.Do(upstreamReq)
	if err != nil {
		utils.LogError(err, "Process: Natural language service unreachable")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadGateway, utils.ErrCodeInternalServerError, "Natural language service unavailable.", ""))
		return
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		utils.LogError(err, "Process: Failed to read upstream response")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadGateway, utils.ErrCodeInternalServerError, "Natural language service returned an unreadable response.", ""))
		return
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/json"
	}
	c.Data(resp.StatusCode, contentType, payload)
}
