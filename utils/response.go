package utils

import (
	"github.com/gin-gonic/gin"
)

const exposeErrorsKey = "exposeErrors"

// ExposeErrors controls whether server error details reach the client.
func ExposeErrors(expose bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(exposeErrorsKey, expose)
		c.Next()
	}
}

// RespondWithError aborts with a {"message": ...} body.
func RespondWithError(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{"message": message})
}

// RespondWithServerError records err on the context and hides its text
// unless error details are exposed.
func RespondWithServerError(c *gin.Context, status int, message string, err error) {
	_ = c.Error(err)
	body := gin.H{"message": message}
	if c.GetBool(exposeErrorsKey) {
		body["error"] = err.Error()
	}
	c.AbortWithStatusJSON(status, body)
}
