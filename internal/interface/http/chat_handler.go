package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/lingo-social/internal/application"
	"github.com/oksasatya/lingo-social/pkg/response"
)

type ChatHandler struct {
	Accounts *application.AccountService
	Logger   *logrus.Logger
}

func NewChatHandler(accounts *application.AccountService, logger *logrus.Logger) *ChatHandler {
	return &ChatHandler{Accounts: accounts, Logger: logger}
}

// Token GET /api/chat/token
func (h *ChatHandler) Token(c *gin.Context) {
	token, err := h.Accounts.IssueChatToken(c.Request.Context(), currentUserID(c))
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"token": token}, "ok", nil)
}
