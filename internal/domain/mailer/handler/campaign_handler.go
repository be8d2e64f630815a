package handler

import (
	"net/http"

	"github.com/balaocastelo-dev/balao-informatica-2025-sub002/internal/domain/mailer/worker"
	"github.com/balaocastelo-dev/balao-informatica-2025-sub002/pkg/response"

	"github.com/gin-gonic/gin"
)

type CampaignHandler struct {
	dispatcher *worker.Dispatcher
}

func NewCampaignHandler(dispatcher *worker.Dispatcher) *CampaignHandler {
	return &CampaignHandler{dispatcher: dispatcher}
}

type Recipient struct {
	Email string `json:"email" binding:"required,email"`
	Name  string `json:"name"`
}

type SendCampaignInput struct {
	Subject    string      `json:"subject" binding:"required"`
	HTML       string      `json:"html" binding:"required"`
	Recipients []Recipient `json:"recipients" binding:"required,min=1,dive"`
}

// SendCampaign queues a campaign. Delivery happens in the background with
// pacing; the response only acknowledges enqueueing.
func (h *CampaignHandler) SendCampaign(c *gin.Context) {
	var input SendCampaignInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	queued := 0
	for _, r := range input.Recipients {
		if h.dispatcher.Enqueue(worker.EmailTask{
			ToEmail: r.Email,
			ToName:  r.Name,
			Subject: input.Subject,
			HTML:    input.HTML,
		}) {
			queued++
		}
	}

	response.Success(c, gin.H{"queued": queued, "total": len(input.Recipients)})
}
