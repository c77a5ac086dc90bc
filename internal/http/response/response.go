package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rafiki-work/rafiki-backend/internal/platform/apierr"
)

type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

func RespondError(c *gin.Context, status int, code string, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	c.JSON(status, ErrorEnvelope{
		Error: APIError{
			Message: msg,
			Code:    code,
		},
	})
}

// RespondAPIError maps err to its apierr status. Anything unclassified is a
// 500 and its message stays in the logs. Only the classified cause reaches
// the client, never the text of wrappers around it.
func RespondAPIError(c *gin.Context, err error) {
	status, code := apierr.StatusOf(err)
	if status >= http.StatusInternalServerError {
		_ = c.Error(err)
		c.JSON(status, ErrorEnvelope{Error: APIError{Message: "internal server error", Code: code}})
		return
	}
	var ae *apierr.Error
	if errors.As(err, &ae) && ae != nil {
		if ae != err {
			_ = c.Error(err)
		}
		RespondError(c, status, code, ae)
		return
	}
	RespondError(c, status, code, err)
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

func RespondCreated(c *gin.Context, payload any) {
	c.JSON(http.StatusCreated, payload)
}
