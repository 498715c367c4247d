package controllers

import (
	"net/http"

	"github.com/shashiranjanraj/lojinha/app/models"
	"github.com/shashiranjanraj/lojinha/app/services"
	"github.com/shashiranjanraj/lojinha/pkg/ctx"
)

type RegisterInput struct {
	Name     string `json:"name"     validate:"required"`
	Email    string `json:"email"    validate:"required"`
	Password string `json:"password" validate:"required"`
}

type LoginInput struct {
	Email    string `json:"email"    validate:"required"`
	Password string `json:"password" validate:"required"`
}

type UserController struct {
	auth *services.AuthService
}

func NewUserController(auth *services.AuthService) *UserController {
	return &UserController{auth: auth}
}

// Register handles POST /api/users/register.
func (uc *UserController) Register(c *ctx.Context) {
	var in RegisterInput
	if !c.BindJSON(&in) {
		return
	}

	user, err := uc.auth.Register(c.Context(), in.Name, in.Email, in.Password)
	if err != nil {
		fail(c, err)
		return
	}

	c.Created(map[string]any{"user": user.Resource()})
}

// Login handles POST /api/users/login.
func (uc *UserController) Login(c *ctx.Context) {
	var in LoginInput
	if !c.BindJSON(&in) {
		return
	}

	token, user, err := uc.auth.Login(c.Context(), in.Email, in.Password)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, map[string]any{
		"token": token,
		"user":  user.Resource(),
	})
}

func (uc *UserController) Index(c *ctx.Context) {
	users, err := uc.auth.Users(c.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.Success(map[string][]models.UserResource{"users": models.UserResources(users)})
}
