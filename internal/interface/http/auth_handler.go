package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/lingo-social/internal/application"
	"github.com/oksasatya/lingo-social/internal/domain/entity"
	"github.com/oksasatya/lingo-social/pkg/helpers"
	"github.com/oksasatya/lingo-social/pkg/response"
)

type AuthHandler struct {
	Accounts *application.AccountService
	Sessions *application.SessionService
	Cookies  *helpers.Manager
	Logger   *logrus.Logger
}

func NewAuthHandler(accounts *application.AccountService, sessions *application.SessionService, cookies *helpers.Manager, logger *logrus.Logger) *AuthHandler {
	return &AuthHandler{Accounts: accounts, Sessions: sessions, Cookies: cookies, Logger: logger}
}

// startSession issues a token for u and sets it as the session cookie.
func (h *AuthHandler) startSession(c *gin.Context, u *entity.User) bool {
	token, exp, err := h.Sessions.Issue(u.ID)
	if err != nil {
		respondError(c, h.Logger, err)
		return false
	}
	h.Cookies.SetSession(c, token, exp)
	return true
}

// Signup POST /api/auth/signup
func (h *AuthHandler) Signup(c *gin.Context) {
	var req application.SignupInput
	if !bindJSON(c, &req) {
		return
	}
	u, err := h.Accounts.CreateAccount(c.Request.Context(), req)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	if !h.startSession(c, u) {
		return
	}
	response.Success(c, http.StatusCreated, u, "signup successful", nil)
}

// Login POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req application.LoginInput
	if !bindJSON(c, &req) {
		return
	}
	u, err := h.Accounts.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	if !h.startSession(c, u) {
		return
	}
	response.Success(c, http.StatusOK, u, "login successful", nil)
}

// Logout POST /api/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	h.Cookies.Clear(c)
	response.Success[any](c, http.StatusOK, nil, "logout successful", nil)
}

// Onboard POST /api/auth/onboarding
func (h *AuthHandler) Onboard(c *gin.Context) {
	var req application.OnboardInput
	if !bindJSON(c, &req) {
		return
	}
	u, err := h.Accounts.CompleteOnboarding(c.Request.Context(), currentUserID(c), req)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, u, "onboarding complete", nil)
}

// Me GET /api/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	response.Success(c, http.StatusOK, currentUser(c), "ok", nil)
}
