package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"devconnector/internal/domain"
	"devconnector/internal/github"
	"devconnector/internal/service"
)

// skillList accepts either a JSON array or a comma separated string.
type skillList []string

func (s *skillList) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err == nil {
		*s = service.ParseSkills(raw)
		return nil
	}
	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return fmt.Errorf("skills must be a string or an array of strings")
	}
	*s = list
	return nil
}

// profileRequest takes social links either top level or nested under
// "social"; top level links win.
type profileRequest struct {
	Company        string            `json:"company"`
	Website        string            `json:"website"`
	Location       string            `json:"location"`
	Bio            string            `json:"bio"`
	Status         string            `json:"status"`
	GitHubUsername string            `json:"githubusername"`
	Skills         skillList         `json:"skills"`
	YouTube        string            `json:"youtube"`
	Twitter        string            `json:"twitter"`
	Facebook       string            `json:"facebook"`
	LinkedIn       string            `json:"linkedin"`
	Instagram      string            `json:"instagram"`
	Social         map[string]string `json:"social"`
}

func (r profileRequest) input() service.ProfileInput {
	social := make(map[string]string, len(r.Social)+5)
	for k, v := range r.Social {
		social[k] = v
	}
	for platform, link := range map[string]string{
		domain.SocialYouTube:   r.YouTube,
		domain.SocialTwitter:   r.Twitter,
		domain.SocialFacebook:  r.Facebook,
		domain.SocialLinkedIn:  r.LinkedIn,
		domain.SocialInstagram: r.Instagram,
	} {
		if link != "" {
			social[platform] = link
		}
	}

	return service.ProfileInput{
		Company:        r.Company,
		Website:        r.Website,
		Location:       r.Location,
		Bio:            r.Bio,
		Status:         r.Status,
		GitHubUsername: r.GitHubUsername,
		Skills:         r.Skills,
		Social:         social,
	}
}

func (h *Handler) myProfile(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	profile, err := h.profiles.Me(c.Request.Context(), userID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, profileToResponse(*profile))
}

func (h *Handler) upsertProfile(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	var req profileRequest
	if !bindJSON(c, &req) {
		return
	}

	profile, err := h.profiles.Upsert(c.Request.Context(), userID, req.input())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, profileToResponse(*profile))
}

func (h *Handler) listProfiles(c *gin.Context) {
	profiles, err := h.profiles.List(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}

	resp := make([]ProfileResponse, len(profiles))
	for i := range profiles {
		resp[i] = profileToResponse(profiles[i])
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) profileByUser(c *gin.Context) {
	profile, err := h.profiles.GetByUser(c.Request.Context(), domain.ID(c.Param("id")))
	if err != nil {
		if errors.Is(err, service.ErrProfileNotFound) {
			abortWithMsg(c, http.StatusBadRequest, "Profile not found")
			return
		}
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, profileToResponse(*profile))
}

// deleteAccount removes the caller's posts, profile and user, then their
// exports. Export cleanup failures are reported as warnings.
func (h *Handler) deleteAccount(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	if err := h.users.DeleteAccount(c.Request.Context(), userID); err != nil {
		h.respondError(c, err)
		return
	}

	var warnings []string
	if h.exports != nil && h.exports.Enabled() {
		purgeCtx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
		defer cancel()
		if err := h.exports.Purge(purgeCtx, userID); err != nil {
			h.logger.WithError(err).WithField("user", userID).Warn("purge exports")
			warnings = append(warnings, fmt.Sprintf("delete exports: %v", err))
		}
	}

	resp := gin.H{"msg": "User deleted"}
	if len(warnings) > 0 {
		resp["warnings"] = warnings
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) addExperience(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	var req service.ExperienceInput
	if !bindJSON(c, &req) {
		return
	}

	profile, err := h.profiles.AddExperience(c.Request.Context(), userID, req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, profileToResponse(*profile))
}

func (h *Handler) removeExperience(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	profile, err := h.profiles.RemoveExperience(c.Request.Context(), userID, domain.ID(c.Param("id")))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, profileToResponse(*profile))
}

func (h *Handler) addEducation(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	var req service.EducationInput
	if !bindJSON(c, &req) {
		return
	}

	profile, err := h.profiles.AddEducation(c.Request.Context(), userID, req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, profileToResponse(*profile))
}

func (h *Handler) removeEducation(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	profile, err := h.profiles.RemoveEducation(c.Request.Context(), userID, domain.ID(c.Param("id")))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, profileToResponse(*profile))
}

func (h *Handler) githubRepos(c *gin.Context) {
	if h.github == nil {
		h.respondError(c, github.ErrNoProfile)
		return
	}

	repos, err := h.github.ListRepos(c.Request.Context(), c.Param("username"))
	if err != nil {
		if !errors.Is(err, github.ErrNoProfile) {
			// upstream trouble reads the same as an unknown user
			h.logger.WithError(err).Warn("github lookup failed")
		}
		h.respondError(c, github.ErrNoProfile)
		return
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", repos)
}

func (h *Handler) createExport(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	if h.exports == nil {
		h.respondError(c, service.ErrStorageNotConfigured)
		return
	}

	export, err := h.exports.Export(c.Request.Context(), userID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ExportResponse{Location: export.Location, URL: export.URL})
}

func (h *Handler) listExports(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	if h.exports == nil {
		h.respondError(c, service.ErrStorageNotConfigured)
		return
	}

	objects, err := h.exports.List(c.Request.Context(), userID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	resp := make([]StorageObjectResponse, len(objects))
	for i := range objects {
		resp[i] = objectToResponse(objects[i])
	}
	c.JSON(http.StatusOK, resp)
}
