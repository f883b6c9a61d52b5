package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ErrorBody is the JSON shape of every error reply: {"error": "..."}.
type ErrorBody struct {
	Error string `json:"error"`
}

func RespondError(c *gin.Context, status int, msg string) {
	if msg == "" {
		msg = http.StatusText(status)
	}
	c.AbortWithStatusJSON(status, ErrorBody{Error: msg})
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}
