package ghcli

import (
	"net/url"
	"strconv"

	"github.com/opencode-ai/gh-mcp/internal/config"
)

const (
	repoFields       = "name,owner,description,url,defaultBranchRef,isPrivate,stargazerCount,forkCount,createdAt,updatedAt"
	repoListFields   = "name,owner,description,isPrivate,url,updatedAt"
	searchRepoFields = "name,owner,description,url,stargazersCount"
)

var visibilities = []string{"public", "private", "internal"}

// repoPath is the REST path of the repository, each name escaped on its own.
func repoPath(a Args) string {
	return "repos/" + url.PathEscape(a.String("owner")) + "/" + url.PathEscape(a.String("repo"))
}

func init() {
	register(
		&Operation{
			Name:        "get_repository",
			Description: "Get details of a GitHub repository",
			ReadOnly:    true,
			Params:      []Param{ownerParam, repoParam},
			Steps: single(func(a Args, _ config.Settings) []string {
				return New("repo", "view").
					Add("--json", repoFields).
					Arg(Repo(a.String("owner"), a.String("repo"))).
					Tokens()
			}),
		},
		&Operation{
			Name:        "list_repositories",
			Description: "List repositories for the authenticated user or the given owner",
			ReadOnly:    true,
			Params: []Param{
				ident("owner", "User or organization (default: authenticated user)", false),
				enum("visibility", "Visibility filter", visibilities...),
			},
			Steps: single(func(a Args, _ config.Settings) []string {
				return New("repo", "list").
					Add("--json", repoListFields).
					Flag("--visibility", Enum(a.String("visibility"), visibilities, "")).
					Arg(a.String("owner")).
					Tokens()
			}),
		},
		&Operation{
			Name:        "search_repositories",
			Description: "Search for repositories on GitHub",
			ReadOnly:    true,
			Params: []Param{
				text("query", "Search query", true),
				limit("Maximum number of results (at least 10)"),
			},
			Steps: single(func(a Args, s config.Settings) []string {
				return New("search", "repos").
					Add("--json", searchRepoFields).
					IntFlag("--limit", Limit(a.Int("limit"), s.SearchLimit, 10)).
					Arg(a.String("query")).
					Tokens()
			}),
		},
		&Operation{
			Name:        "get_file_contents",
			Description: "Get the contents of a file from a GitHub repository",
			ReadOnly:    true,
			Params: []Param{
				ownerParam,
				repoParam,
				ident("path", "File path within the repository", true),
				ident("branch", "Branch, tag or commit (default: repository default branch)", false),
			},
			Steps: single(func(a Args, _ config.Settings) []string {
				query := url.Values{}
				if ref := a.String("branch"); !blank(ref) {
					query.Set("ref", ref)
				}
				endpoint := Endpoint(repoPath(a)+"/contents/"+PathEscape(a.String("path")), query)
				// gh decodes the base64 payload; the text is passed through as-is.
				return New("api", endpoint).
					Add("--jq", ".content | @base64d").
					Tokens()
			}),
		},
		&Operation{
			Name:        "get_commit_history",
			Description: "List recent commits of a repository branch",
			ReadOnly:    true,
			Params: []Param{
				ownerParam,
				repoParam,
				ident("branch", "Branch or commit SHA to start from", false),
				limit("Maximum number of commits"),
			},
			Steps: single(func(a Args, s config.Settings) []string {
				query := url.Values{"per_page": {strconv.Itoa(Limit(a.Int("limit"), s.CommitLimit, 1))}}
				if sha := a.String("branch"); !blank(sha) {
					query.Set("sha", sha)
				}
				return New("api", Endpoint(repoPath(a)+"/commits", query)).Tokens()
			}),
		},
		&Operation{
			Name:        "get_me",
			Description: "Get details of the authenticated GitHub user",
			ReadOnly:    true,
			Steps: single(func(Args, config.Settings) []string {
				return New("api", "user").Tokens()
			}),
		},
		&Operation{
			Name:        "list_branches",
			Description: "List branches in a GitHub repository",
			ReadOnly:    true,
			Params:      []Param{ownerParam, repoParam},
			Steps: single(func(a Args, _ config.Settings) []string {
				return New("api", repoPath(a)+"/branches").Tokens()
			}),
		},
		&Operation{
			Name:        "create_branch",
			Description: "Create a new branch in a GitHub repository",
			Params: []Param{
				ownerParam,
				repoParam,
				ident("branch_name", "Name of the branch to create", true),
				ident("from_branch", "Source branch (default: configured default branch)", false),
			},
			Steps: []Step{
				func(a Args, s config.Settings, _ string) []string {
					from := a.String("from_branch")
					if blank(from) {
						from = s.DefaultBranch
					}
					return New("api", repoPath(a)+"/git/ref/heads/"+PathEscape(from)).
						Add("--jq", ".object.sha").
						Tokens()
				},
				func(a Args, _ config.Settings, sha string) []string {
					return New("api", repoPath(a)+"/git/refs").
						Add("--method", "POST").
						Add("--field", "ref=refs/heads/"+a.String("branch_name")).
						Add("--field", "sha="+sha).
						Tokens()
				},
			},
		},
	)
}
