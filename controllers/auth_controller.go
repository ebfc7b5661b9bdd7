package controllers

import (
	"net/http"

	"trendora/models"
	"trendora/services"

	"github.com/gin-gonic/gin"
)

type AuthController struct {
	auth *services.AuthService
}

func NewAuthController(auth *services.AuthService) *AuthController {
	return &AuthController{auth: auth}
}

// Register godoc
// @Summary Register new user
// @Description Register a new customer account. A cart is created with it.
// @Tags Authentication
// @Accept json
// @Produce json
// @Param request body models.RegisterRequest true "Register Request"
// @Success 201 {object} models.LoginResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Router /auth/register [post]
func (ctrl *AuthController) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request", "error": err.Error()})
		return
	}

	resp, err := ctrl.auth.Register(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "message": "Registration successful", "data": resp})
}

// Login godoc
// @Summary Login
// @Description Authenticate with email and password
// @Tags Authentication
// @Accept json
// @Produce json
// @Param request body models.LoginRequest true "Login Request"
// @Success 200 {object} models.LoginResponse
// @Failure 401 {object} models.ErrorResponse
// @Router /auth/login [post]
func (ctrl *AuthController) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request", "error": err.Error()})
		return
	}

	resp, err := ctrl.auth.Login(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Invalid email or password"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Login successful", "data": resp})
}

// GetProfile godoc
// @Summary Get profile
// @Tags Authentication
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.User
// @Router /auth/profile [get]
func (ctrl *AuthController) GetProfile(c *gin.Context) {
	user, err := ctrl.auth.GetProfile(c.Request.Context(), currentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Profile retrieved", "data": user})
}

// GetProfileDetails godoc
// @Summary Get profile details
// @Description Names, email and whether an active subscription is held
// @Tags Authentication
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.ProfileDetails
// @Router /auth/profile/details [get]
func (ctrl *AuthController) GetProfileDetails(c *gin.Context) {
	details, err := ctrl.auth.GetProfileDetails(c.Request.Context(), currentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Profile details retrieved", "data": details})
}
