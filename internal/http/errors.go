package http

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"devconnector/internal/github"
	"devconnector/internal/service"
	"devconnector/internal/validation"
)

type errorMessage struct {
	Msg string `json:"msg"`
}

type errorList struct {
	Errors []errorMessage `json:"errors"`
}

func abortWithErrors(c *gin.Context, messages ...string) {
	resp := errorList{Errors: make([]errorMessage, len(messages))}
	for i, msg := range messages {
		resp.Errors[i] = errorMessage{Msg: msg}
	}
	c.AbortWithStatusJSON(http.StatusBadRequest, resp)
}

func abortWithMsg(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, errorMessage{Msg: msg})
}

// bindJSON decodes the body into req. An empty body leaves req zeroed so
// field validation reports what is missing.
func bindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil && !errors.Is(err, io.EOF) {
		abortWithErrors(c, "Invalid request body")
		return false
	}
	return true
}

var msgErrors = []struct {
	err    error
	status int
	msg    string
}{
	{service.ErrProfileNotFound, http.StatusBadRequest, "There is no profile for this user"},
	{service.ErrExperienceNotFound, http.StatusNotFound, "Experience not found"},
	{service.ErrEducationNotFound, http.StatusNotFound, "Education not found"},
	{service.ErrPostNotFound, http.StatusNotFound, "Post not found"},
	{service.ErrCommentNotFound, http.StatusNotFound, "Comment does not exist"},
	{service.ErrUserNotFound, http.StatusNotFound, "User not found"},
	{service.ErrForbidden, http.StatusUnauthorized, "User not authorized"},
	{service.ErrAlreadyLiked, http.StatusBadRequest, "Post already liked"},
	{service.ErrNotLiked, http.StatusBadRequest, "Post has not yet been liked"},
	{service.ErrStorageNotConfigured, http.StatusServiceUnavailable, "Storage service not configured"},
	{github.ErrNoProfile, http.StatusNotFound, "No Github profile found"},
}

// respondError maps service errors onto the API's error bodies. Anything
// unrecognised is logged and answered with a bare 500.
func (h *Handler) respondError(c *gin.Context, err error) {
	var verr *validation.Error
	switch {
	case errors.As(err, &verr):
		abortWithErrors(c, verr.Messages...)
		return
	case errors.Is(err, service.ErrUserAlreadyExists):
		abortWithErrors(c, "User already exists")
		return
	case errors.Is(err, service.ErrInvalidCredentials):
		abortWithErrors(c, "Invalid Credentials")
		return
	}

	for _, m := range msgErrors {
		if errors.Is(err, m.err) {
			abortWithMsg(c, m.status, m.msg)
			return
		}
	}

	h.logger.WithError(err).WithFields(logrus.Fields{
		"method": c.Request.Method,
		"path":   c.Request.URL.Path,
	}).Error("unexpected error")
	c.String(http.StatusInternalServerError, "Server Error")
	c.Abort()
}
