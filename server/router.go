package server

import (
	"net/http"

	"github.com/Luismorlan/hackernews/server/middlewares"
	"github.com/Luismorlan/hackernews/server/resolver"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// NewRouter assembles the api server routes. Middlewares in extra run before
// the built-in ones.
func NewRouter(r *resolver.Resolver, extra ...gin.HandlerFunc) *gin.Engine {
	// Default With the Logger and Recovery middleware already attached
	router := gin.Default()

	router.Use(extra...)
	router.Use(cors.New(corsConfig()))
	router.Use(middlewares.RequestID())
	router.Use(middlewares.JWT(r.AppSecret))

	handler := GraphqlHandler(r)
	router.POST(GraphqlPath, gin.WrapH(handler))

	// Setup graphql playground for debugging
	router.GET("/", PlaygroundHandler())

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})

	return router
}

// corsConfig allows any origin to send the bearer token.
func corsConfig() cors.Config {
	cfg := cors.DefaultConfig()
	cfg.AllowAllOrigins = true
	cfg.AddAllowHeaders("Authorization")
	return cfg
}
