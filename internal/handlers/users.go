package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"workdesk/api/internal/middleware"
	"workdesk/api/internal/models"
	"workdesk/api/internal/service"
)

type userBody struct {
	Name        string `json:"name"`
	Email       string `json:"email" binding:"required,email"`
	Affiliation string `json:"affiliation"`
	JobTitle    string `json:"jobTitle"`
	Gender      string `json:"gender"`
	Company     string `json:"company"`
	Research    string `json:"research"`
	PhoneNumber string `json:"phoneNumber"`
	BirthDate   string `json:"birthDate"`
	Password    string `json:"password"`
	Role        string `json:"role"`
}

func (b userBody) toInput() service.UserInput {
	return service.UserInput{
		Name:        b.Name,
		Email:       b.Email,
		Affiliation: b.Affiliation,
		JobTitle:    b.JobTitle,
		Gender:      b.Gender,
		Company:     b.Company,
		Research:    b.Research,
		PhoneNumber: b.PhoneNumber,
		BirthDate:   parseDate(b.BirthDate),
		Password:    b.Password,
		Role:        models.Role(b.Role),
	}
}

func (h HandlerSet) AddUser(c *gin.Context) {
	var body userBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.auth.AddUser(c.Request.Context(), middleware.Actor(c), body.toInput())
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "user added", "user": toUserResponse(user)})
}

func (h HandlerSet) UpdateUser(c *gin.Context) {
	var body userBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.auth.UpdateUser(c.Request.Context(), middleware.Actor(c), c.Param("id"), body.toInput())
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "user updated", "user": toUserResponse(user)})
}

func (h HandlerSet) DeleteUser(c *gin.Context) {
	if err := h.auth.DeleteUser(c.Request.Context(), middleware.Actor(c), c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "user deleted"})
}

// AdminData returns the combined admin console view: all users and all tasks.
func (h HandlerSet) AdminData(c *gin.Context) {
	actor := middleware.Actor(c)

	users, err := h.auth.ListUsers(c.Request.Context(), actor)
	if err != nil {
		h.respondError(c, err)
		return
	}

	tasks, err := h.tasks.ListFor(c.Request.Context(), actor)
	if err != nil {
		h.respondError(c, err)
		return
	}

	userResponses := make([]userResponse, 0, len(users))
	for _, u := range users {
		userResponses = append(userResponses, toUserResponse(u))
	}

	c.JSON(http.StatusOK, gin.H{
		"users": userResponses,
		"tasks": toTaskResponses(tasks),
	})
}
