package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "goalstash/internal/errors"
	"goalstash/internal/services"
)

// ChatbotHandler handles savings-assistant requests
type ChatbotHandler struct {
	chatbotService services.ChatbotServicer
}

// NewChatbotHandler creates a new ChatbotHandler
func NewChatbotHandler(chatbotService services.ChatbotServicer) *ChatbotHandler {
	return &ChatbotHandler{chatbotService: chatbotService}
}

// ChatbotRequest represents the chatbot message payload
type ChatbotRequest struct {
	Message string `json:"message" binding:"required,max=500"`
}

// ChatbotResponse represents the chatbot reply
type ChatbotResponse struct {
	Reply string `json:"reply"`
}

// Chat handles a message to the savings assistant
// @Summary     Ask the savings assistant
// @Description Send a message to the savings assistant and get a reply based on your goals and transactions
// @Tags        chatbot
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body ChatbotRequest true "Message"
// @Success     200 {object} ChatbotResponse "Assistant reply"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /chatbot [post]
func (h *ChatbotHandler) Chat(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req ChatbotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	reply, err := h.chatbotService.Reply(userID, req.Message)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"reply": reply})
}
