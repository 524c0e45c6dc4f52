package resolver

import (
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/99designs/gqlgen/client"
	gqlschema "github.com/Luismorlan/hackernews/server/graphql"
	"github.com/Luismorlan/hackernews/store"
	"github.com/Luismorlan/hackernews/utils"
	"github.com/Luismorlan/hackernews/utils/dotenv"
	graphql "github.com/graph-gophers/graphql-go"
	"github.com/graph-gophers/graphql-go/relay"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("test_secret")

func TestMain(m *testing.M) {
	dotenv.LoadDotEnvsInTests()
	os.Exit(m.Run())
}

func PrepareTestForGraphQLAPIs(s store.Store) *client.Client {
	r := &Resolver{
		Store:     s,
		AppSecret: testSecret,
	}
	return client.New(&relay.Handler{Schema: graphql.MustParseSchema(gqlschema.GetGQLSchema(), r)})
}

// forEachStore runs f with a client over every storage backend.
func forEachStore(t *testing.T, f func(t *testing.T, c *client.Client)) {
	t.Run("memory", func(t *testing.T) {
		f(t, PrepareTestForGraphQLAPIs(store.NewMemoryStore()))
	})
	t.Run("gorm", func(t *testing.T) {
		db, _ := utils.CreateTempDB(t)
		f(t, PrepareTestForGraphQLAPIs(store.NewGormStore(db)))
	})
}

type feedResponse struct {
	Feed struct {
		Id    string               `json:"id"`
		Count int                  `json:"count"`
		Links []utils.LinkResponse `json:"links"`
	} `json:"feed"`
}

func queryFeed(t *testing.T, c *client.Client, args string) feedResponse {
	t.Helper()
	var resp feedResponse
	c.MustPost(fmt.Sprintf(`query {
		feed%s {
			id
			count
			links {%s
			}
		}
	}`, args, utils.LinkFields), &resp)
	return resp
}

// requireSameLink compares two link responses, allowing the database to
// round creation times.
func requireSameLink(t *testing.T, expected utils.LinkResponse, actual utils.LinkResponse) {
	t.Helper()
	expectedTime, err := time.Parse(time.RFC3339Nano, expected.CreatedAt)
	require.NoError(t, err)
	actualTime, err := time.Parse(time.RFC3339Nano, actual.CreatedAt)
	require.NoError(t, err)
	require.WithinDuration(t, expectedTime, actualTime, time.Millisecond)

	expected.CreatedAt, actual.CreatedAt = "", ""
	require.Equal(t, expected, actual)
}

func feedLinkIDs(resp feedResponse) []int {
	ids := []int{}
	for _, l := range resp.Feed.Links {
		ids = append(ids, l.Id)
	}
	return ids
}

func TestInfo(t *testing.T) {
	c := PrepareTestForGraphQLAPIs(store.NewMemoryStore())

	var resp struct {
		Info string `json:"info"`
	}
	c.MustPost(`query { info }`, &resp)
	require.Equal(t, Info, resp.Info)
}

func TestPostLink(t *testing.T) {
	forEachStore(t, func(t *testing.T, c *client.Client) {
		t.Run("Test Post Link", func(t *testing.T) {
			uid, _ := utils.TestSignupAndValidate(t, "alice", "alice@example.com", "pw", c)
			link := utils.TestPostLinkAndValidate(t, "Fullstack tutorial for GraphQL", "https://www.howtographql.com", c, utils.WithUser(uid))
			require.Equal(t, uid, link.PostedBy.Id)
			require.Equal(t, "alice", link.PostedBy.Name)
		})

		t.Run("Test Post Link Requires Login", func(t *testing.T) {
			var resp struct {
				Post struct {
					Id int `json:"id"`
				} `json:"post"`
			}
			err := c.Post(`mutation { post(description: "d", url: "https://example.com") { id } }`, &resp)
			require.Error(t, err)
			require.Contains(t, err.Error(), errNotLoggedInToPost)
		})

		t.Run("Test Post Link Validates Input", func(t *testing.T) {
			uid, _ := utils.TestSignupAndValidate(t, "bob", "bob@example.com", "pw", c)
			var resp struct {
				Post struct {
					Id int `json:"id"`
				} `json:"post"`
			}
			err := c.Post(`mutation { post(description: "", url: "not a url") { id } }`, &resp, utils.WithUser(uid))
			require.Error(t, err)
			require.Contains(t, err.Error(), "description: cannot be blank")
			require.Contains(t, err.Error(), "url: must be a valid URL")
		})
	})
}

func TestQueryLink(t *testing.T) {
	forEachStore(t, func(t *testing.T, c *client.Client) {
		uid, _ := utils.TestSignupAndValidate(t, "alice", "alice@example.com", "pw", c)
		posted := utils.TestPostLinkAndValidate(t, "Prisma", "https://prisma.io", c, utils.WithUser(uid))

		var resp struct {
			Link utils.LinkResponse `json:"link"`
		}
		c.MustPost(fmt.Sprintf(`query { link(id: %d) {%s } }`, posted.Id, utils.LinkFields), &resp)
		requireSameLink(t, posted, resp.Link)

		err := c.Post(`query { link(id: 999) { id } }`, &resp)
		require.Error(t, err)
		require.Contains(t, err.Error(), "link 999: not found")
	})
}

func TestUpdateAndDeleteLink(t *testing.T) {
	forEachStore(t, func(t *testing.T, c *client.Client) {
		uid, _ := utils.TestSignupAndValidate(t, "alice", "alice@example.com", "pw", c)
		posted := utils.TestPostLinkAndValidate(t, "Prisma", "https://prisma.io", c, utils.WithUser(uid))

		var updateResp struct {
			UpdateLink utils.LinkResponse `json:"updateLink"`
		}
		c.MustPost(fmt.Sprintf(`mutation {
			updateLink(id: %d, description: "Prisma ORM", url: "https://www.prisma.io") {%s
			}
		}`, posted.Id, utils.LinkFields), &updateResp)
		require.Equal(t, posted.Id, updateResp.UpdateLink.Id)
		require.Equal(t, "Prisma ORM", updateResp.UpdateLink.Description)
		require.Equal(t, "https://www.prisma.io", updateResp.UpdateLink.Url)
		require.Equal(t, uid, updateResp.UpdateLink.PostedBy.Id)
		updated := posted
		updated.Description, updated.Url = "Prisma ORM", "https://www.prisma.io"
		requireSameLink(t, updated, updateResp.UpdateLink)

		var deleteResp struct {
			DeleteLink utils.LinkResponse `json:"deleteLink"`
		}
		c.MustPost(fmt.Sprintf(`mutation { deleteLink(id: %d) {%s } }`, posted.Id, utils.LinkFields), &deleteResp)
		require.Equal(t, posted.Id, deleteResp.DeleteLink.Id)
		require.Equal(t, "Prisma ORM", deleteResp.DeleteLink.Description)

		require.Equal(t, 0, queryFeed(t, c, "").Feed.Count)

		err := c.Post(fmt.Sprintf(`mutation { deleteLink(id: %d) { id } }`, posted.Id), &deleteResp)
		require.Error(t, err)
		require.Contains(t, err.Error(), "not found")

		err = c.Post(`mutation { updateLink(id: 999, description: "d", url: "https://example.com") { id } }`, &updateResp)
		require.Error(t, err)
		require.Contains(t, err.Error(), "link 999: not found")
	})
}

func TestFeed(t *testing.T) {
	forEachStore(t, func(t *testing.T, c *client.Client) {
		uid, _ := utils.TestSignupAndValidate(t, "alice", "alice@example.com", "pw", c)
		prisma := utils.TestPostLinkAndValidate(t, "Prisma", "https://prisma.io", c, utils.WithUser(uid))
		graphqlLink := utils.TestPostLinkAndValidate(t, "GraphQL", "https://graphql.org", c, utils.WithUser(uid))
		gopher := utils.TestPostLinkAndValidate(t, "Go", "https://go.dev", c, utils.WithUser(uid))

		t.Run("Test Feed Without Arguments", func(t *testing.T) {
			resp := queryFeed(t, c, "")
			require.Equal(t, "main-feed:{}", resp.Feed.Id)
			require.Equal(t, 3, resp.Feed.Count)
			require.Equal(t, []int{prisma.Id, graphqlLink.Id, gopher.Id}, feedLinkIDs(resp))
		})

		t.Run("Test Feed Filter", func(t *testing.T) {
			resp := queryFeed(t, c, `(filter: "graphql")`)
			require.Equal(t, `main-feed:{"filter":"graphql"}`, resp.Feed.Id)
			require.Equal(t, 1, resp.Feed.Count)
			require.Equal(t, []int{graphqlLink.Id}, feedLinkIDs(resp))
		})

		t.Run("Test Feed Pagination", func(t *testing.T) {
			resp := queryFeed(t, c, `(skip: 1, take: 1)`)
			require.Equal(t, `main-feed:{"skip":1,"take":1}`, resp.Feed.Id)
			require.Equal(t, 3, resp.Feed.Count)
			require.Equal(t, []int{graphqlLink.Id}, feedLinkIDs(resp))
		})

		t.Run("Test Feed Order By", func(t *testing.T) {
			resp := queryFeed(t, c, `(orderBy: [{description: asc}])`)
			require.Equal(t, `main-feed:{"orderBy":[{"description":"asc"}]}`, resp.Feed.Id)
			require.Equal(t, []int{gopher.Id, graphqlLink.Id, prisma.Id}, feedLinkIDs(resp))

			resp = queryFeed(t, c, `(take: 2, orderBy: [{url: desc}])`)
			require.Equal(t, 3, resp.Feed.Count)
			require.Equal(t, []int{prisma.Id, graphqlLink.Id}, feedLinkIDs(resp))
		})

		t.Run("Test Feed Rejects Negative Take", func(t *testing.T) {
			var resp feedResponse
			err := c.Post(`query { feed(take: -1) { id count links { id } } }`, &resp)
			require.Error(t, err)
			require.Contains(t, err.Error(), "take must not be negative, got -1")
			require.NotContains(t, err.Error(), "invalid argument")
		})
	})
}

func TestFeedVariables(t *testing.T) {
	c := PrepareTestForGraphQLAPIs(store.NewMemoryStore())
	uid, _ := utils.TestSignupAndValidate(t, "alice", "alice@example.com", "pw", c)
	utils.TestPostLinkAndValidate(t, "Prisma", "https://prisma.io", c, utils.WithUser(uid))

	var resp struct {
		Feed struct {
			Id    string `json:"id"`
			Count int    `json:"count"`
		} `json:"feed"`
	}
	c.MustPost(`query($orderBy: [LinkOrderByInput!]) {
		feed(orderBy: $orderBy) {
			id
			count
		}
	}`, &resp, client.Var("orderBy", []map[string]string{{"createdAt": "desc"}}))
	require.Equal(t, `main-feed:{"orderBy":[{"createdAt":"desc"}]}`, resp.Feed.Id)
	require.Equal(t, 1, resp.Feed.Count)
}

func TestSignupAndLogin(t *testing.T) {
	forEachStore(t, func(t *testing.T, c *client.Client) {
		uid, _ := utils.TestSignupAndValidate(t, "alice", "alice@example.com", "secret", c)

		var resp struct {
			Login struct {
				Token string `json:"token"`
				User  struct {
					Id int `json:"id"`
				} `json:"user"`
			} `json:"login"`
		}
		c.MustPost(`mutation { login(email: "alice@example.com", password: "secret") { token user { id } } }`, &resp)
		require.NotEmpty(t, resp.Login.Token)
		require.Equal(t, uid, resp.Login.User.Id)

		err := c.Post(`mutation { login(email: "alice@example.com", password: "wrong") { token user { id } } }`, &resp)
		require.Error(t, err)
		require.Contains(t, err.Error(), errInvalidPassword)

		err = c.Post(`mutation { login(email: "bob@example.com", password: "secret") { token user { id } } }`, &resp)
		require.Error(t, err)
		require.Contains(t, err.Error(), errNoSuchUser)

		var signupResp struct {
			Signup struct {
				Token string `json:"token"`
			} `json:"signup"`
		}
		err = c.Post(`mutation { signup(email: "alice@example.com", password: "pw", name: "alice") { token } }`, &signupResp)
		require.Error(t, err)
		require.Contains(t, err.Error(), "already exists")

		err = c.Post(`mutation { signup(email: "not-an-email", password: "pw", name: "carol") { token } }`, &signupResp)
		require.Error(t, err)
		require.Contains(t, err.Error(), "email: must be a valid email address")

		longPassword := strings.Repeat("p", 80)
		err = c.Post(`mutation($password: String!) { signup(email: "dave@example.com", password: $password, name: "dave") { token } }`,
			&signupResp, client.Var("password", longPassword))
		require.Error(t, err)
		require.Contains(t, err.Error(), "password: must be no more than 72 bytes")
		require.NotContains(t, err.Error(), errInternal)

		// 72 bytes is the longest password bcrypt accepts.
		utils.TestSignupAndValidate(t, "erin", "erin@example.com", strings.Repeat("p", 72), c)
	})
}

func TestUserLinks(t *testing.T) {
	forEachStore(t, func(t *testing.T, c *client.Client) {
		alice, _ := utils.TestSignupAndValidate(t, "alice", "alice@example.com", "pw", c)
		bob, _ := utils.TestSignupAndValidate(t, "bob", "bob@example.com", "pw", c)
		first := utils.TestPostLinkAndValidate(t, "one", "https://one.example.com", c, utils.WithUser(alice))
		utils.TestPostLinkAndValidate(t, "two", "https://two.example.com", c, utils.WithUser(bob))
		third := utils.TestPostLinkAndValidate(t, "three", "https://three.example.com", c, utils.WithUser(alice))

		var resp struct {
			Link struct {
				PostedBy struct {
					Links []struct {
						Id int `json:"id"`
					} `json:"links"`
				} `json:"postedBy"`
			} `json:"link"`
		}
		c.MustPost(fmt.Sprintf(`query { link(id: %d) { postedBy { links { id } } } }`, first.Id), &resp)
		require.Len(t, resp.Link.PostedBy.Links, 2)
		require.Equal(t, first.Id, resp.Link.PostedBy.Links[0].Id)
		require.Equal(t, third.Id, resp.Link.PostedBy.Links[1].Id)
	})
}

func TestVote(t *testing.T) {
	forEachStore(t, func(t *testing.T, c *client.Client) {
		alice, _ := utils.TestSignupAndValidate(t, "alice", "alice@example.com", "pw", c)
		bob, _ := utils.TestSignupAndValidate(t, "bob", "bob@example.com", "pw", c)
		link := utils.TestPostLinkAndValidate(t, "Prisma", "https://prisma.io", c, utils.WithUser(alice))

		utils.TestVoteAndValidate(t, link.Id, alice, c, utils.WithUser(alice))
		utils.TestVoteAndValidate(t, link.Id, bob, c, utils.WithUser(bob))

		var resp struct {
			Vote *struct {
				Link struct {
					Id int `json:"id"`
				} `json:"link"`
			} `json:"vote"`
		}
		err := c.Post(fmt.Sprintf(`mutation { vote(linkId: %d) { link { id } } }`, link.Id), &resp, utils.WithUser(bob))
		require.Error(t, err)
		require.Contains(t, err.Error(), fmt.Sprintf("Already voted for link: %d", link.Id))

		err = c.Post(fmt.Sprintf(`mutation { vote(linkId: %d) { link { id } } }`, link.Id), &resp)
		require.Error(t, err)
		require.Contains(t, err.Error(), errNotLoggedInToVote)

		err = c.Post(`mutation { vote(linkId: 999) { link { id } } }`, &resp, utils.WithUser(bob))
		require.Error(t, err)
		require.Contains(t, err.Error(), "link 999: not found")

		resp2 := queryFeed(t, c, "")
		require.Len(t, resp2.Feed.Links, 1)
		require.Len(t, resp2.Feed.Links[0].Voters, 2)
	})
}
