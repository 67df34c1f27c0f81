package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vrjob-ai/jobagent/internal/apperr"
	"github.com/vrjob-ai/jobagent/internal/dtos"
	"github.com/vrjob-ai/jobagent/internal/services"
)

type EmailHandler struct {
	EmailService *services.EmailService
}

func NewEmailHandler(emails *services.EmailService) *EmailHandler {
	return &EmailHandler{EmailService: emails}
}

// Sync is the POST /emails/sync endpoint: a manual trigger of one
// ingestion cycle, handy when the background watcher is disabled.
func (h *EmailHandler) Sync(c *gin.Context) {
	ingested, err := h.EmailService.SyncEmails(c.Request.Context())
	if err != nil {
		writeError(c, apperr.SourceUnavailable(err, "email sync failed"))
		return
	}
	c.JSON(http.StatusOK, dtos.EmailSyncResponse{Ingested: ingested})
}
