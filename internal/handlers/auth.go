package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"workdesk/api/internal/middleware"
	"workdesk/api/internal/models"
	"workdesk/api/internal/service"
)

type registerRequest struct {
	Name        string `json:"name"`
	Email       string `json:"email" binding:"required,email"`
	Affiliation string `json:"affiliation"`
	JobTitle    string `json:"jobTitle"`
	Gender      string `json:"gender"`
	Company     string `json:"company"`
	Research    string `json:"research"`
	PhoneNumber string `json:"phoneNumber"`
	BirthDate   string `json:"birthDate"`
	Password    string `json:"password" binding:"required,min=8"`
	RePassword  string `json:"rePassword" binding:"required"`
}

type userResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	Affiliation string `json:"affiliation"`
	JobTitle    string `json:"jobTitle"`
	PhoneNumber string `json:"phoneNumber"`
	Role        string `json:"role"`
}

type authResponse struct {
	Token string       `json:"token"`
	User  userResponse `json:"user"`
}

func toUserResponse(u models.User) userResponse {
	return userResponse{
		ID:          u.ID,
		Name:        u.Name,
		Email:       u.Email,
		Affiliation: u.Affiliation,
		JobTitle:    u.JobTitle,
		PhoneNumber: u.PhoneNumber,
		Role:        string(u.Role),
	}
}

func parseDate(value string) *time.Time {
	if value == "" {
		return nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if parsed, err := time.Parse(layout, value); err == nil {
			return &parsed
		}
	}
	return nil
}

func (h HandlerSet) RegisterUser(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.auth.Register(c.Request.Context(), service.RegisterInput{
		Name:            req.Name,
		Email:           req.Email,
		Affiliation:     req.Affiliation,
		JobTitle:        req.JobTitle,
		Gender:          req.Gender,
		Company:         req.Company,
		Research:        req.Research,
		PhoneNumber:     req.PhoneNumber,
		BirthDate:       parseDate(req.BirthDate),
		Password:        req.Password,
		ConfirmPassword: req.RePassword,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, authResponse{
		Token: result.Token,
		User:  toUserResponse(result.User),
	})
}

type loginRequest struct {
	// Identifier is an email address or phone number.
	Identifier string `json:"identifier" binding:"required"`
	Password   string `json:"password" binding:"required"`
}

func (h HandlerSet) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.auth.Login(c.Request.Context(), service.LoginInput{
		Identifier: req.Identifier,
		Password:   req.Password,
		IPAddress:  c.ClientIP(),
		UserAgent:  c.GetHeader("User-Agent"),
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, authResponse{
		Token: result.Token,
		User:  toUserResponse(result.User),
	})
}

func (h HandlerSet) Logout(c *gin.Context) {
	sessionID := c.GetString(middleware.ContextSessionID)
	if sessionID == "" {
		c.Status(http.StatusNoContent)
		return
	}

	if err := h.auth.Logout(c.Request.Context(), sessionID); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h HandlerSet) CheckAuth(c *gin.Context) {
	actor := middleware.Actor(c)
	c.JSON(http.StatusOK, gin.H{"isAuthenticated": !actor.Anonymous()})
}

func (h HandlerSet) UserData(c *gin.Context) {
	user, err := h.auth.Profile(c.Request.Context(), middleware.Actor(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toUserResponse(user))
}

type profileRequest struct {
	Name        string `json:"name"`
	Email       string `json:"email" binding:"required,email"`
	Affiliation string `json:"affiliation"`
	PhoneNumber string `json:"phoneNumber"`
}

func (h HandlerSet) UpdateProfile(c *gin.Context) {
	var req profileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := h.auth.UpdateProfile(c.Request.Context(), middleware.Actor(c), service.ProfileInput{
		Name:        req.Name,
		Email:       req.Email,
		Affiliation: req.Affiliation,
		PhoneNumber: req.PhoneNumber,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

type securityRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword"`
}

func (h HandlerSet) UpdateSecurity(c *gin.Context) {
	var req securityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := h.auth.UpdateSecurity(c.Request.Context(), middleware.Actor(c), req.CurrentPassword, req.NewPassword)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
