package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"pos-api/dtos"
	"pos-api/middlewares"
	"pos-api/services"
)

type AuthController struct {
	service      services.AuthService
	tokenTTL     time.Duration
	secureCookie bool
}

func NewAuthController(service services.AuthService, tokenTTL time.Duration, secureCookie bool) *AuthController {
	return &AuthController{service: service, tokenTTL: tokenTTL, secureCookie: secureCookie}
}

// POST /auth/login
func (ac *AuthController) Login(c *gin.Context) {
	var input dtos.LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		middlewares.BindError(c, err)
		return
	}

	resp, err := ac.service.Login(c.Request.Context(), input)
	if err != nil {
		middlewares.AbortWithError(c, err)
		return
	}

	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie("accessToken", resp.Token, int(ac.tokenTTL.Seconds()), "/", "", ac.secureCookie, true)
	c.JSON(http.StatusOK, resp)
}

// POST /auth/register-staff
func (ac *AuthController) RegisterStaff(c *gin.Context) {
	var input dtos.RegisterStaffInput
	if err := c.ShouldBindJSON(&input); err != nil {
		middlewares.BindError(c, err)
		return
	}

	user, err := ac.service.RegisterStaff(c.Request.Context(), input)
	if err != nil {
		middlewares.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message": "Staff registered successfully",
		"user":    user,
	})
}
