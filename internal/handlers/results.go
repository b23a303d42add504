package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"workdesk/api/internal/middleware"
)

// SubmitResults attaches a work-product submission to the caller's assigned
// task and completes it. Multipart: repeated "files" parts plus "notes".
func (h HandlerSet) SubmitResults(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	keys, err := h.uploads.SaveFiles(c.Request.Context(), form.File["files"])
	if err != nil {
		h.respondError(c, err)
		return
	}

	result, err := h.results.Submit(
		c.Request.Context(),
		middleware.Actor(c),
		c.Param("taskId"),
		keys,
		c.PostForm("notes"),
	)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "result": toResultResponse(result)})
}

// UserResults lists the caller's tasks that have results attached.
func (h HandlerSet) UserResults(c *gin.Context) {
	tasks, err := h.results.ListForSubmitter(c.Request.Context(), middleware.Actor(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tasks": toTaskResponses(tasks)})
}
