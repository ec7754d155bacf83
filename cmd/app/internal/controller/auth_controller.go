package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"inkwell-report-backend/internal/model"
	"inkwell-report-backend/internal/service"
	"inkwell-report-backend/pkg/response"
	"inkwell-report-backend/utilities"
)

type AuthController struct {
	AuthService service.AuthService
	log         *utilities.Logger
}

func NewAuthController(authService service.AuthService, log *utilities.Logger) *AuthController {
	return &AuthController{AuthService: authService, log: log}
}

// registerRequest lists the fields a client may set on its own account.
type registerRequest struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

func (ac *AuthController) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, errors.New("invalid input"))
		return
	}
	user := model.User{
		Username:  req.Username,
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	}
	if err := ac.AuthService.Register(&user); err != nil {
		writeServiceError(c, ac.log, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "User registered successfully", "user": user})
}

func (ac *AuthController) Login(c *gin.Context) {
	var creds struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&creds); err != nil {
		badRequest(c, errors.New("email and password are required"))
		return
	}
	user, tokens, err := ac.AuthService.Login(creds.Email, creds.Password)
	if err != nil {
		writeServiceError(c, ac.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"user":          user,
		"access_token":  tokens.AccessToken,
		"refresh_token": tokens.RefreshToken,
	})
}

func (ac *AuthController) Refresh(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refresh_token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, errors.New("refresh_token is required"))
		return
	}
	tokens, err := ac.AuthService.Refresh(req.RefreshToken)
	if err != nil {
		response.RespondError(c, http.StatusUnauthorized, response.CodeUnauthorized, err)
		return
	}
	c.JSON(http.StatusOK, tokens)
}
