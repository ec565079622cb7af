package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/voxhire/voxhire/internal/models"
	"github.com/voxhire/voxhire/internal/utils"
)

type APIError struct {
	Code    utils.Code `json:"code"`
	Message string     `json:"message"`
}

func writeError(c *gin.Context, err error) {
	status := utils.HTTPStatus(err)

	var ae *utils.AppError
	if errors.As(err, &ae) {
		msg := ae.Message
		if status >= 500 {
			// never leak internals; log middleware has the detail
			msg = "something went wrong, please retry later"
		}
		c.JSON(status, APIError{
			Code:    ae.Code,
			Message: msg,
		})
		return
	}

	c.JSON(status, APIError{
		Code:    utils.CodeInternal,
		Message: http.StatusText(status),
	})
}

func requireUserID(c *gin.Context) (string, bool) {
	if v, ok := c.Get("user_id"); ok {
		if s, ok := v.(string); ok && s != "" {
			return s, true
		}
	}

	writeError(c, utils.E(utils.CodeUnauthorized, "Auth", "unauthorized", nil))
	return "", false
}

func requireActor(c *gin.Context) (models.Actor, bool) {
	userID, ok := requireUserID(c)
	if !ok {
		return models.Actor{}, false
	}
	role, _ := c.Get("role")
	s, _ := role.(string)
	return models.Actor{UserID: userID, Role: models.Role(s)}, true
}
