package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"inkwell-report-backend/internal/service"
	"inkwell-report-backend/utilities"
)

type UserController struct {
	UserService service.UserService
	log         *utilities.Logger
}

func NewUserController(userService service.UserService, log *utilities.Logger) *UserController {
	return &UserController{UserService: userService, log: log}
}

func (uc *UserController) GetAllUsers(c *gin.Context) {
	users, err := uc.UserService.GetAllUsers()
	if err != nil {
		writeServiceError(c, uc.log, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

// GetCurrentUser returns the account behind the bearer token.
func (uc *UserController) GetCurrentUser(c *gin.Context) {
	user, err := uc.UserService.GetUserByID(c.GetUint("user_id"))
	if err != nil {
		writeServiceError(c, uc.log, err)
		return
	}
	c.JSON(http.StatusOK, user)
}
