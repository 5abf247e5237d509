package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"devconnector/internal/domain"
)

type postRequest struct {
	Text string `json:"text"`
}

func (h *Handler) createPost(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	var req postRequest
	if !bindJSON(c, &req) {
		return
	}

	post, err := h.posts.Create(c.Request.Context(), userID, req.Text)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, postToResponse(*post))
}

func (h *Handler) listPosts(c *gin.Context) {
	posts, err := h.posts.List(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}

	resp := make([]PostResponse, len(posts))
	for i := range posts {
		resp[i] = postToResponse(posts[i])
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) getPost(c *gin.Context) {
	post, err := h.posts.Get(c.Request.Context(), domain.ID(c.Param("id")))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, postToResponse(*post))
}

func (h *Handler) deletePost(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	if err := h.posts.Delete(c.Request.Context(), userID, domain.ID(c.Param("id"))); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "Post removed"})
}

func (h *Handler) likePost(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	likes, err := h.posts.Like(c.Request.Context(), userID, domain.ID(c.Param("id")))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, likesToResponse(likes))
}

func (h *Handler) unlikePost(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	likes, err := h.posts.Unlike(c.Request.Context(), userID, domain.ID(c.Param("id")))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, likesToResponse(likes))
}

func (h *Handler) addComment(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	var req postRequest
	if !bindJSON(c, &req) {
		return
	}

	comments, err := h.posts.AddComment(c.Request.Context(), userID, domain.ID(c.Param("id")), req.Text)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, commentsToResponse(comments))
}

func (h *Handler) removeComment(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	comments, err := h.posts.RemoveComment(c.Request.Context(), userID, domain.ID(c.Param("id")), domain.ID(c.Param("comment_id")))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, commentsToResponse(comments))
}
