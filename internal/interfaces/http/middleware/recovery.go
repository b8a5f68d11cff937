package middleware

import (
	"fmt"
	"io"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// Recovery turns panics into a 500 response. Details include the panic value
// and stack when showDetails is set.
func Recovery(logger logrus.FieldLogger, showDetails bool) gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(io.Discard, func(c *gin.Context, recovered any) {
		stack := string(debug.Stack())

		logger.WithFields(logrus.Fields{
			"request_id": c.GetString(RequestIDKey),
			"panic":      recovered,
			"stack":      stack,
		}).Error("Recovered from panic")

		body := gin.H{"error": "Something went wrong!"}
		if showDetails {
			body["details"] = fmt.Sprintf("%v\n%s", recovered, stack)
		}
		c.AbortWithStatusJSON(http.StatusInternalServerError, body)
	})
}
