// Package graphql holds the GraphQL schema served by the api server.
package graphql

import (
	_ "embed"
)

//go:embed schema.graphql
var schema string

// GetGQLSchema returns the schema definition language of the api.
func GetGQLSchema() string {
	return schema
}
