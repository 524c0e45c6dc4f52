package graphql

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vektah/gqlparser/v2"
	"github.com/vektah/gqlparser/v2/ast"
)

func TestSchemaIsValid(t *testing.T) {
	s, err := gqlparser.LoadSchema(&ast.Source{Name: "schema.graphql", Input: GetGQLSchema()})
	require.Nil(t, err)

	require.NotNil(t, s.Query.Fields.ForName("feed"))
	require.NotNil(t, s.Query.Fields.ForName("link"))
	for _, name := range []string{"post", "updateLink", "deleteLink", "signup", "login", "vote"} {
		require.NotNil(t, s.Mutation.Fields.ForName(name), name)
	}

	link := s.Types["Link"]
	require.NotNil(t, link)
	require.True(t, link.Fields.ForName("id").Type.NonNull)
	require.False(t, link.Fields.ForName("postedBy").Type.NonNull)

	feed := s.Types["Feed"]
	require.Equal(t, "Int", feed.Fields.ForName("count").Type.Name())
	require.Equal(t, "ID", feed.Fields.ForName("id").Type.Name())
}

func TestFeedQueryValidatesAgainstSchema(t *testing.T) {
	s, err := gqlparser.LoadSchema(&ast.Source{Name: "schema.graphql", Input: GetGQLSchema()})
	require.Nil(t, err)

	_, errs := gqlparser.LoadQuery(s, `{
		feed(filter: "go", skip: 0, take: 10, orderBy: [{createdAt: desc}]) {
			id
			count
			links { id description url createdAt postedBy { id name } voters { id } }
		}
	}`)
	require.Len(t, errs, 0)

	_, errs = gqlparser.LoadQuery(s, `{ feed(orderBy: [{createdAt: sideways}]) { id } }`)
	require.NotEmpty(t, errs)
}
