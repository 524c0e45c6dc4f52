package utils

import (
	"fmt"
	"testing"
	"time"

	"github.com/99designs/gqlgen/client"
	"github.com/Luismorlan/hackernews/server/auth"
	"github.com/stretchr/testify/require"
)

// LinkResponse is the shape of a Link selected with LinkFields.
type LinkResponse struct {
	Id          int    `json:"id"`
	Description string `json:"description"`
	Url         string `json:"url"`
	CreatedAt   string `json:"createdAt"`
	PostedBy    *struct {
		Id   int    `json:"id"`
		Name string `json:"name"`
	} `json:"postedBy"`
	Voters []struct {
		Id int `json:"id"`
	} `json:"voters"`
}

// LinkFields selects every field of LinkResponse.
const LinkFields = `
	id
	description
	url
	createdAt
	postedBy {
		id
		name
	}
	voters {
		id
	}`

// WithUser authenticates a test client request as userID without going
// through the JWT middleware.
func WithUser(userID int) client.Option {
	return func(bd *client.Request) {
		bd.HTTP = bd.HTTP.WithContext(auth.WithUserID(bd.HTTP.Context(), userID))
	}
}

// WithToken sends token as a bearer token, for clients wrapping the router.
func WithToken(token string) client.Option {
	return client.AddHeader("Authorization", "Bearer "+token)
}

func parseGQLTimeString(s string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, s)
}

// sign up a user, do sanity checks and returns its Id and token
func TestSignupAndValidate(t *testing.T, name string, email string, password string, c *client.Client, options ...client.Option) (id int, token string) {
	t.Helper()
	var resp struct {
		Signup struct {
			Token string `json:"token"`
			User  struct {
				Id    int    `json:"id"`
				Name  string `json:"name"`
				Email string `json:"email"`
				Links []struct {
					Id int `json:"id"`
				} `json:"links"`
			} `json:"user"`
		} `json:"signup"`
	}

	err := c.Post(`mutation($email: String!, $password: String!, $name: String!) {
		signup(email: $email, password: $password, name: $name) {
			token
			user {
				id
				name
				email
				links {
					id
				}
			}
		}
	}`, &resp, append(options, client.Var("email", email), client.Var("password", password), client.Var("name", name))...)
	require.NoError(t, err)

	require.NotEmpty(t, resp.Signup.Token)
	require.NotZero(t, resp.Signup.User.Id)
	require.Equal(t, name, resp.Signup.User.Name)
	require.Equal(t, email, resp.Signup.User.Email)
	require.Equal(t, 0, len(resp.Signup.User.Links))

	return resp.Signup.User.Id, resp.Signup.Token
}

// post a link, do sanity checks and returns it
func TestPostLinkAndValidate(t *testing.T, description string, url string, c *client.Client, options ...client.Option) LinkResponse {
	t.Helper()
	var resp struct {
		Post LinkResponse `json:"post"`
	}

	err := c.Post(fmt.Sprintf(`mutation($description: String!, $url: String!) {
		post(description: $description, url: $url) {%s
		}
	}`, LinkFields), &resp, append(options, client.Var("description", description), client.Var("url", url))...)
	require.NoError(t, err)

	createTime, err := parseGQLTimeString(resp.Post.CreatedAt)
	require.NoError(t, err)

	require.NotZero(t, resp.Post.Id)
	require.Equal(t, description, resp.Post.Description)
	require.Equal(t, url, resp.Post.Url)
	require.NotNil(t, resp.Post.PostedBy)
	require.Equal(t, 0, len(resp.Post.Voters))
	require.Truef(t, !createTime.After(time.Now()), "time created wrong")

	return resp.Post
}

// vote for a link, do sanity checks
func TestVoteAndValidate(t *testing.T, linkID int, userID int, c *client.Client, options ...client.Option) {
	t.Helper()
	var resp struct {
		Vote struct {
			Link struct {
				Id int `json:"id"`
			} `json:"link"`
			User struct {
				Id int `json:"id"`
			} `json:"user"`
		} `json:"vote"`
	}

	err := c.Post(fmt.Sprintf(`mutation {
		vote(linkId: %d) {
			link {
				id
			}
			user {
				id
			}
		}
	}`, linkID), &resp, options...)
	require.NoError(t, err)

	require.Equal(t, linkID, resp.Vote.Link.Id)
	require.Equal(t, userID, resp.Vote.User.Id)
}
