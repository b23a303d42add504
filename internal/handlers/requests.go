package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"workdesk/api/internal/middleware"
	"workdesk/api/internal/models"
	"workdesk/api/internal/service"
)

type requestResponse struct {
	ID        string         `json:"id"`
	Kind      string         `json:"type"`
	Name      string         `json:"name"`
	Email     string         `json:"email"`
	Phone     string         `json:"phone,omitempty"`
	Subject   string         `json:"subject"`
	Message   string         `json:"message,omitempty"`
	Fields    map[string]any `json:"fields,omitempty"`
	File      string         `json:"file,omitempty"`
	Status    string         `json:"status"`
	CreatedAt time.Time      `json:"createdAt"`
}

func toRequestResponse(r models.Request) requestResponse {
	return requestResponse{
		ID:        r.ID,
		Kind:      string(r.Kind),
		Name:      r.SubmitterName,
		Email:     r.SubmitterEmail,
		Phone:     r.Phone,
		Subject:   r.Subject,
		Message:   r.Message,
		Fields:    r.Fields,
		File:      r.FileKey,
		Status:    string(r.Status),
		CreatedAt: r.CreatedAt,
	}
}

func toRequestResponses(requests []models.Request) []requestResponse {
	out := make([]requestResponse, 0, len(requests))
	for _, r := range requests {
		out = append(out, toRequestResponse(r))
	}
	return out
}

// SubmitContact is the anonymous-capable intake path. Multipart, optional
// single file.
func (h HandlerSet) SubmitContact(c *gin.Context) {
	fileKey, ok := h.saveOptionalFile(c, "file")
	if !ok {
		return
	}

	req, err := h.intake.SubmitContact(c.Request.Context(), middleware.Actor(c), service.ContactInput{
		Name:    c.PostForm("name"),
		Email:   c.PostForm("email"),
		Phone:   c.PostForm("phone"),
		Subject: c.PostForm("subject"),
		Message: c.PostForm("message"),
		FileKey: fileKey,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"request": toRequestResponse(req)})
}

type submitFormRequest struct {
	FormType string         `json:"formType" binding:"required"`
	Fields   map[string]any `json:"fields"`
}

// SubmitForm is the JSON form path; authenticated only.
func (h HandlerSet) SubmitForm(c *gin.Context) {
	var req submitFormRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	created, err := h.intake.SubmitForm(c.Request.Context(), middleware.Actor(c), service.FormInput{
		TypeTag: req.FormType,
		Fields:  req.Fields,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"request": toRequestResponse(created)})
}

// SubmitFormUpload is the multipart form path with an optional attachment.
func (h HandlerSet) SubmitFormUpload(c *gin.Context) {
	fileKey, ok := h.saveOptionalFile(c, "file")
	if !ok {
		return
	}

	fields := map[string]any{}
	if title := c.PostForm("title"); title != "" {
		fields["title"] = title
	}
	if description := c.PostForm("description"); description != "" {
		fields["description"] = description
	}

	created, err := h.intake.SubmitForm(c.Request.Context(), middleware.Actor(c), service.FormInput{
		TypeTag: c.PostForm("requestType"),
		Fields:  fields,
		FileKey: fileKey,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"request": toRequestResponse(created)})
}

func (h HandlerSet) UserRequests(c *gin.Context) {
	requests, err := h.intake.ListFor(c.Request.Context(), middleware.Actor(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"requests": toRequestResponses(requests)})
}

func (h HandlerSet) AdminRequests(c *gin.Context) {
	requests, err := h.intake.Inbox(c.Request.Context(), middleware.Actor(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"requests": toRequestResponses(requests)})
}

func (h HandlerSet) GetRequest(c *gin.Context) {
	req, err := h.intake.Get(c.Request.Context(), middleware.Actor(c), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"request": toRequestResponse(req)})
}

type requestPatchBody struct {
	Name    string         `json:"name"`
	Email   string         `json:"email"`
	Phone   string         `json:"phone"`
	Subject string         `json:"subject"`
	Message string         `json:"message"`
	Fields  map[string]any `json:"fields"`
}

func (h HandlerSet) updateRequest(c *gin.Context, kind models.RequestKind) {
	var body requestPatchBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updated, err := h.intake.Update(c.Request.Context(), middleware.Actor(c), c.Param("id"), kind, service.RequestPatch{
		Name:    body.Name,
		Email:   body.Email,
		Phone:   body.Phone,
		Subject: body.Subject,
		Message: body.Message,
		Fields:  body.Fields,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "request": toRequestResponse(updated)})
}

func (h HandlerSet) UpdateFormRequest(c *gin.Context) {
	h.updateRequest(c, models.RequestKindForm)
}

func (h HandlerSet) UpdateContactRequest(c *gin.Context) {
	h.updateRequest(c, models.RequestKindContact)
}

type requestStatusBody struct {
	Status string `json:"status" binding:"required"`
	Type   string `json:"type" binding:"required"`
}

func (h HandlerSet) UpdateRequestStatus(c *gin.Context) {
	var body requestStatusBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := h.intake.UpdateStatus(
		c.Request.Context(),
		middleware.Actor(c),
		c.Param("id"),
		models.RequestKind(body.Type),
		models.RequestStatus(body.Status),
	)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h HandlerSet) DeleteFormRequest(c *gin.Context) {
	if err := h.intake.Delete(c.Request.Context(), middleware.Actor(c), c.Param("id"), models.RequestKindForm); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "request deleted"})
}

func (h HandlerSet) DeleteContactRequest(c *gin.Context) {
	if err := h.intake.Delete(c.Request.Context(), middleware.Actor(c), c.Param("id"), models.RequestKindContact); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "request deleted"})
}

// saveOptionalFile stores a single multipart upload when one is present.
// Returns false after writing an error response.
func (h HandlerSet) saveOptionalFile(c *gin.Context, field string) (string, bool) {
	header, err := c.FormFile(field)
	if err != nil {
		// No file attached.
		return "", true
	}

	key, err := h.uploads.SaveFile(c.Request.Context(), header)
	if err != nil {
		h.respondError(c, err)
		return "", false
	}
	return key, true
}
