package controllers

import (
	"net/http"

	"github.com/Ryan-gomezzz/Hush-gentle/providers/chat"
	"github.com/Ryan-gomezzz/Hush-gentle/services"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	ChatCookie     = "hg_chat_sid"
	chatCookieDays = 30
)

type ChatController struct {
	chat         services.ChatService
	cookieSecure bool
}

func NewChatController(chat services.ChatService, cookieSecure bool) *ChatController {
	return &ChatController{chat: chat, cookieSecure: cookieSecure}
}

type chatRequest struct {
	Message string        `json:"message" binding:"required,min=1,max=2000"`
	Context *chat.Context `json:"context"`
}

func (cc *ChatController) Reply(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payload"})
		return
	}

	sessionKey, err := c.Cookie(ChatCookie)
	if err == nil {
		_, err = uuid.Parse(sessionKey)
	}
	if err != nil {
		sessionKey = uuid.NewString()
	}

	actor := actorFrom(c)
	chatReq := services.ChatRequest{SessionKey: sessionKey, Message: req.Message, Context: req.Context}
	if actor.UserID != uuid.Nil {
		userID := actor.UserID
		chatReq.UserID = &userID
	}

	reply, err := cc.chat.Reply(c.Request.Context(), chatReq)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(ChatCookie, sessionKey, chatCookieDays*24*60*60, "/", "", cc.cookieSecure, true)
	c.JSON(http.StatusOK, gin.H{"reply": reply})
}
