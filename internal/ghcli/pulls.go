package ghcli

import (
	"github.com/opencode-ai/gh-mcp/internal/config"
)

const (
	prFields       = "number,title,state,createdAt,author,headRefName,baseRefName,url"
	prDetailFields = "number,title,state,createdAt,author,body,headRefName,baseRefName,mergeable,url"
)

var (
	prStates     = []string{"open", "closed", "merged", "all"}
	mergeMethods = []string{"merge", "squash", "rebase"}
)

func init() {
	register(
		&Operation{
			Name:        "list_pull_requests",
			Description: "List pull requests in a GitHub repository",
			ReadOnly:    true,
			Params: []Param{
				ownerParam,
				repoParam,
				enum("state", "Pull request state filter (default open)", prStates...),
				ident("base", "Only pull requests targeting this base branch", false),
				ident("head", "Only pull requests from this head branch", false),
			},
			Steps: single(func(a Args, _ config.Settings) []string {
				return New("pr", "list").
					Repo(a.String("owner"), a.String("repo")).
					Add("--state", Enum(a.String("state"), prStates, "open")).
					Add("--json", prFields).
					Flag("--base", a.String("base")).
					Flag("--head", a.String("head")).
					Tokens()
			}),
		},
		&Operation{
			Name:        "get_pull_request",
			Description: "Get details of a specific pull request",
			ReadOnly:    true,
			Params: []Param{
				ownerParam,
				repoParam,
				number("pr_number", "Pull request number"),
			},
			Steps: single(func(a Args, _ config.Settings) []string {
				return New("pr", "view", itoa(a, "pr_number")).
					Repo(a.String("owner"), a.String("repo")).
					Add("--json", prDetailFields).
					Tokens()
			}),
		},
		&Operation{
			Name:        "get_pull_request_diff",
			Description: "Get the diff of a pull request",
			ReadOnly:    true,
			Params: []Param{
				ownerParam,
				repoParam,
				number("pr_number", "Pull request number"),
			},
			Steps: single(func(a Args, _ config.Settings) []string {
				return New("pr", "diff", itoa(a, "pr_number")).
					Repo(a.String("owner"), a.String("repo")).
					Tokens()
			}),
		},
		&Operation{
			Name:        "create_pull_request",
			Description: "Create a new pull request",
			Params: []Param{
				ownerParam,
				repoParam,
				text("title", "Pull request title", true),
				ident("head", "Branch containing the changes", true),
				ident("base", "Branch to merge into (default: configured default branch)", false),
				text("body", "Pull request body (markdown)", false),
				boolean("draft", "Open as a draft"),
			},
			Steps: single(func(a Args, s config.Settings) []string {
				base := a.String("base")
				if blank(base) {
					base = s.DefaultBranch
				}
				return New("pr", "create").
					Repo(a.String("owner"), a.String("repo")).
					Add("--title", a.String("title")).
					Add("--head", a.String("head")).
					Add("--base", base).
					Flag("--body", a.String("body")).
					Switch("--draft", a.Bool("draft")).
					Tokens()
			}),
		},
		&Operation{
			Name:        "merge_pull_request",
			Description: "Merge a pull request",
			Params: []Param{
				ownerParam,
				repoParam,
				number("pr_number", "Pull request number"),
				enum("merge_method", "Merge strategy (default merge)", mergeMethods...),
				boolean("delete_branch", "Delete the head branch after merging"),
			},
			Steps: single(func(a Args, _ config.Settings) []string {
				return New("pr", "merge", itoa(a, "pr_number")).
					Repo(a.String("owner"), a.String("repo")).
					Switch("--delete-branch", a.Bool("delete_branch")).
					Add("--" + Enum(a.String("merge_method"), mergeMethods, "merge")).
					Tokens()
			}),
		},
	)
}
