package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/tempohub/tempohub-service/internal/community"
	"github.com/tempohub/tempohub-service/internal/models"
)

type CommunityHandler struct {
	community *community.Service
	logger    *zap.Logger
}

type CreatePostRequest struct {
	Content string `json:"content"`
}

type SendMessageRequest struct {
	Text string `json:"text"`
}

// ChatsResponse lists the inbox with the navigation badge count.
type ChatsResponse struct {
	Chats       []models.Chat `json:"chats"`
	UnreadTotal int           `json:"unread_total"`
}

func NewCommunityHandler(service *community.Service, logger *zap.Logger) *CommunityHandler {
	return &CommunityHandler{
		community: service,
		logger:    logger.Named("community_handler"),
	}
}

func (h *CommunityHandler) GetFeed(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"posts": h.community.Feed(viewerID(c))})
}

func (h *CommunityHandler) CreatePost(c *gin.Context) {
	var req CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	claims, ok := CurrentClaims(c)
	if !ok {
		RespondWithError(c, http.StatusUnauthorized, "Authorization header required")
		return
	}
	author := community.AuthorProfile(claims.UserID(), claims.Name, claims.Email)

	post, err := h.community.CreatePost(c.Request.Context(), author, req.Content)
	if err != nil {
		respondWithDomainError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, post)
}

func (h *CommunityHandler) ToggleLike(c *gin.Context) {
	post, err := h.community.ToggleLike(c.Param("id"), viewerID(c))
	if err != nil {
		respondWithDomainError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, post)
}

func (h *CommunityHandler) ListChats(c *gin.Context) {
	chats, unread := h.community.Chats()
	c.JSON(http.StatusOK, ChatsResponse{Chats: chats, UnreadTotal: unread})
}

func (h *CommunityHandler) GetChat(c *gin.Context) {
	chat, err := h.community.Chat(c.Param("id"))
	if err != nil {
		respondWithDomainError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, chat)
}

func (h *CommunityHandler) SendMessage(c *gin.Context) {
	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	msg, err := h.community.SendMessage(c.Request.Context(), c.Param("id"), viewerID(c), req.Text)
	if err != nil {
		respondWithDomainError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, msg)
}

func (h *CommunityHandler) MarkRead(c *gin.Context) {
	chat, err := h.community.MarkRead(c.Param("id"))
	if err != nil {
		respondWithDomainError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, chat)
}

func (h *CommunityHandler) ListGroups(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"groups": h.community.Groups(viewerID(c))})
}

func (h *CommunityHandler) JoinGroup(c *gin.Context) {
	group, err := h.community.JoinGroup(c.Request.Context(), c.Param("id"), viewerID(c))
	if err != nil {
		respondWithDomainError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, group)
}

func (h *CommunityHandler) LeaveGroup(c *gin.Context) {
	group, err := h.community.LeaveGroup(c.Param("id"), viewerID(c))
	if err != nil {
		respondWithDomainError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, group)
}

func (h *CommunityHandler) ListUpdates(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"updates": h.community.Updates()})
}

func (h *CommunityHandler) ListSuggestions(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"users": h.community.Suggestions()})
}

func (h *CommunityHandler) GetProfile(c *gin.Context) {
	c.JSON(http.StatusOK, h.community.Profile())
}
