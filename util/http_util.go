// util/http_util.go
package util

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	logger "github.com/claimguru/claimguard/logging"
)

func RespondWithError(c *gin.Context, code int, message string, err error) {
	logger.Error(message,
		zap.Error(err),
		zap.String("path", c.Request.URL.Path),
		zap.String("method", c.Request.Method))
	c.JSON(code, gin.H{"error": message})
}

func GetUserIDFromContext(c *gin.Context) (string, error) {
	userID, exists := c.Get("requestingUserID")
	if !exists {
		return "", fmt.Errorf("no requesting user in context")
	}
	return userID.(string), nil
}
