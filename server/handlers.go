package server

import (
	"net/http"

	"github.com/99designs/gqlgen/graphql/playground"
	"github.com/Luismorlan/hackernews/server/graphql"
	"github.com/Luismorlan/hackernews/server/resolver"
	"github.com/gin-gonic/gin"
	gql "github.com/graph-gophers/graphql-go"
	"github.com/graph-gophers/graphql-go/relay"
)

const (
	GraphqlPath = "/graphql"

	// maxQueryDepth bounds nesting such as link.voters.links.voters...
	maxQueryDepth = 12
)

// ParseGraphQLSchema binds the api schema to the root resolver. It panics if
// the resolver doesn't match the schema.
func ParseGraphQLSchema(schemaString string, r *resolver.Resolver) *gql.Schema {
	return gql.MustParseSchema(schemaString, r, gql.MaxDepth(maxQueryDepth))
}

// GraphqlHandler is the universal handler for all GraphQL queries issued from
// client. It reads the authenticated user from the request context.
func GraphqlHandler(r *resolver.Resolver) http.Handler {
	return &relay.Handler{
		Schema: ParseGraphQLSchema(graphql.GetGQLSchema(), r),
	}
}

// PlaygroundHandler serves the GraphQL playground for debugging.
func PlaygroundHandler() gin.HandlerFunc {
	h := playground.Handler("GraphQL", GraphqlPath)
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}
