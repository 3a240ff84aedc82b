package apperrors

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Respond performs the single boundary translation of a workflow error to the
// wire format {code, message[, reason]}. Expected failures (validation, auth,
// forbidden, not-found) are logged at informational level; anything else is an
// unexpected server-side failure and is logged as an error with its cause.
func Respond(c *gin.Context, err error) {
	appErr, ok := err.(*Error)
	if !ok {
		appErr = Server("Something went wrong. Please try after sometime.", err)
	}

	switch appErr.Kind {
	case KindServer, KindServiceUnavailable:
		log.Printf("Error: %s %s: %v", c.Request.Method, c.Request.URL.Path, appErr)
	default:
		log.Printf("Info: %s %s: %s", c.Request.Method, c.Request.URL.Path, appErr.Message)
	}

	body := gin.H{"code": appErr.StatusCode(), "message": appErr.Message}
	if appErr.Reason != ReasonNone {
		body["reason"] = appErr.Reason
	}
	c.AbortWithStatusJSON(appErr.StatusCode(), body)
}

// Success writes the generic {code, message} acknowledgment used by logout and
// the password flows.
func Success(c *gin.Context, status int, message string) {
	if status == 0 {
		status = http.StatusOK
	}
	c.JSON(status, gin.H{"code": status, "message": message})
}
