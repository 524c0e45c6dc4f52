package middlewares

import (
	"net/http"
	"strings"

	"github.com/Luismorlan/hackernews/server/auth"
	"github.com/Luismorlan/hackernews/utils"
	Logger "github.com/Luismorlan/hackernews/utils/log"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	RequestIDHeader = "X-Request-Id"
	bearerPrefix    = "Bearer "
)

// JWT middleware fetch user jwt in the http header "Authorization" as a bearer
// token. It verifies the token and stores the user's id in the request
// context, where resolvers read it with auth.UserIDFromContext. Requests
// without the header pass through anonymously, requests with a malformed or
// invalid token are rejected.
func JWT(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.Next()
			return
		}

		if !strings.HasPrefix(header, bearerPrefix) {
			c.JSON(http.StatusUnauthorized, gin.H{
				"code": utils.ErrorInvalidHeader,
				"msg":  "authorization header must be a bearer token",
			})
			c.Abort()
			return
		}

		userID, err := auth.ParseToken(secret, strings.TrimPrefix(header, bearerPrefix))
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{
				"code": utils.ErrorTokenAuthFail,
				"msg":  err.Error(),
			})
			c.Abort()
			return
		}

		c.Request = c.Request.WithContext(auth.WithUserID(c.Request.Context(), userID))
		c.Next()
	}
}

// RequestID tags each request with an id, taken from the X-Request-Id header
// when the client sent one, and echoes it back in the response.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.New().String()
		}
		c.Header(RequestIDHeader, id)
		c.Next()

		Logger.Log.WithField("request_id", id).
			WithField("status", c.Writer.Status()).
			Debug(c.Request.Method + " " + c.Request.URL.Path)
	}
}
