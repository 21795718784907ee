package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/lingo-social/internal/application"
	"github.com/oksasatya/lingo-social/internal/domain/entity"
	"github.com/oksasatya/lingo-social/pkg/response"
)

const maxAvatarBytes = 5 << 20

type UserHandler struct {
	Accounts      *application.AccountService
	Relationships *application.RelationshipService
	Logger        *logrus.Logger
}

func NewUserHandler(accounts *application.AccountService, relationships *application.RelationshipService, logger *logrus.Logger) *UserHandler {
	return &UserHandler{Accounts: accounts, Relationships: relationships, Logger: logger}
}

type friendRequestFeed struct {
	IncomingRequests []entity.FriendRequestView `json:"incomingRequests"`
	AcceptedReqs     []entity.FriendRequestView `json:"acceptedReqs"`
}

// Recommended GET /api/users
func (h *UserHandler) Recommended(c *gin.Context) {
	users, err := h.Relationships.Recommend(c.Request.Context(), currentUserID(c))
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, users, "ok", gin.H{"count": len(users)})
}

// Friends GET /api/users/friends
func (h *UserHandler) Friends(c *gin.Context) {
	friends, err := h.Relationships.ListFriends(c.Request.Context(), currentUserID(c))
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, friends, "ok", nil)
}

// SendFriendRequest POST /api/users/friend-request/:id
func (h *UserHandler) SendFriendRequest(c *gin.Context) {
	fr, err := h.Relationships.SendRequest(c.Request.Context(), currentUserID(c), c.Param("id"))
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusCreated, fr, "friend request sent", nil)
}

// AcceptFriendRequest PUT /api/users/friend-request/:id/accept
func (h *UserHandler) AcceptFriendRequest(c *gin.Context) {
	fr, err := h.Relationships.AcceptRequest(c.Request.Context(), currentUserID(c), c.Param("id"))
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, fr, "friend request accepted", nil)
}

// FriendRequests GET /api/users/friend-requests
func (h *UserHandler) FriendRequests(c *gin.Context) {
	ctx, uid := c.Request.Context(), currentUserID(c)
	incoming, err := h.Relationships.ListIncomingPending(ctx, uid)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	accepted, err := h.Relationships.ListOutgoingAccepted(ctx, uid)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, friendRequestFeed{IncomingRequests: incoming, AcceptedReqs: accepted}, "ok", nil)
}

// OutgoingFriendRequests GET /api/users/outgoing-friend-requests
func (h *UserHandler) OutgoingFriendRequests(c *gin.Context) {
	out, err := h.Relationships.ListOutgoingPending(c.Request.Context(), currentUserID(c))
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, out, "ok", nil)
}

// Search GET /api/users/search?q=
func (h *UserHandler) Search(c *gin.Context) {
	out, err := h.Accounts.SearchUsers(c.Request.Context(), currentUserID(c), c.Query("q"))
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, out, "ok", gin.H{"count": len(out)})
}

// UploadAvatar PUT /api/users/me/avatar (multipart field "avatar")
func (h *UserHandler) UploadAvatar(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxAvatarBytes)
	fh, err := c.FormFile("avatar")
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "avatar file is required", gin.H{"missingFields": []string{"avatar"}})
		return
	}
	f, err := fh.Open()
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "cannot read avatar", nil)
		return
	}
	defer f.Close()

	u, err := h.Accounts.UploadAvatar(c.Request.Context(), currentUserID(c), f, fh.Filename, fh.Header.Get("Content-Type"))
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, u, "avatar updated", nil)
}
