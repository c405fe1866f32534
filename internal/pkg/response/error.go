package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nekogravitycat/turn-booking/internal/pkg/apperror"
)

// ResultResponse is the body of every mutation response.
type ResultResponse struct {
	Result  string `json:"result"`
	Message string `json:"message,omitempty"`
}

// Error sends an {"result":"error"} response.
// It checks if the error is an AppError to determine the status code.
// Anything else is a 500 whose cause is recorded on the context for the request logger.
func Error(c *gin.Context, err error) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		if appErr.Err != nil {
			_ = c.Error(err)
		}
		c.JSON(appErr.Code, ResultResponse{Result: "error", Message: appErr.Message})
		return
	}

	_ = c.Error(err)
	c.JSON(http.StatusInternalServerError, ResultResponse{Result: "error", Message: "internal server error"})
}

// BadRequest sends a 400 for a body or query that failed to bind.
func BadRequest(c *gin.Context, what string, err error) {
	c.JSON(http.StatusBadRequest, ResultResponse{Result: "error", Message: what + ": " + err.Error()})
}
