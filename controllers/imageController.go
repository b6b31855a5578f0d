package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"pos-api/middlewares"
	"pos-api/services"
)

type ImageController struct {
	service services.ImageService
}

func NewImageController(service services.ImageService) *ImageController {
	return &ImageController{service: service}
}

// GET /images/sign-upload
func (ic *ImageController) GetUploadSignature(c *gin.Context) {
	sig, err := ic.service.SignUpload()
	if err != nil {
		middlewares.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, sig)
}
