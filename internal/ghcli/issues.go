package ghcli

import (
	"strings"

	"github.com/opencode-ai/gh-mcp/internal/config"
)

const (
	issueFields       = "number,title,state,createdAt,author,body,labels,assignees,url"
	issueDetailFields = "number,title,state,createdAt,author,body,labels,assignees,comments,url"
	searchIssueFields = "number,title,state,createdAt,author,repository,labels,url"
)

var (
	issueStates       = []string{"open", "closed", "all"}
	searchIssueStates = []string{"open", "closed"}
	closeReasons      = []string{"completed", "not planned"}
)

func init() {
	register(
		&Operation{
			Name:        "list_issues",
			Description: "List issues in a GitHub repository",
			ReadOnly:    true,
			Params: []Param{
				ownerParam,
				repoParam,
				enum("state", "Issue state filter (default open)", issueStates...),
				ident("label", "Only issues with this label", false),
				ident("assignee", "Only issues assigned to this user", false),
			},
			Steps: single(func(a Args, _ config.Settings) []string {
				return New("issue", "list").
					Repo(a.String("owner"), a.String("repo")).
					Add("--state", Enum(a.String("state"), issueStates, "open")).
					Add("--json", issueFields).
					Flag("--label", a.String("label")).
					Flag("--assignee", a.String("assignee")).
					Tokens()
			}),
		},
		&Operation{
			Name:        "get_issue",
			Description: "Get details of a specific issue in a GitHub repository",
			ReadOnly:    true,
			Params: []Param{
				ownerParam,
				repoParam,
				number("issue_number", "Issue number"),
			},
			Steps: single(func(a Args, _ config.Settings) []string {
				return New("issue", "view", itoa(a, "issue_number")).
					Repo(a.String("owner"), a.String("repo")).
					Add("--json", issueDetailFields).
					Tokens()
			}),
		},
		&Operation{
			Name:        "create_issue",
			Description: "Create a new issue in a GitHub repository",
			Params: []Param{
				ownerParam,
				repoParam,
				text("title", "Issue title", true),
				text("body", "Issue body (markdown)", false),
				ident("label", "Label to add", false),
				ident("assignee", "User to assign", false),
			},
			Steps: single(func(a Args, _ config.Settings) []string {
				return New("issue", "create").
					Repo(a.String("owner"), a.String("repo")).
					Add("--title", a.String("title")).
					Flag("--body", a.String("body")).
					Flag("--label", a.String("label")).
					Flag("--assignee", a.String("assignee")).
					Tokens()
			}),
		},
		&Operation{
			Name:        "close_issue",
			Description: "Close an issue, optionally with a comment and a reason",
			Params: []Param{
				ownerParam,
				repoParam,
				number("issue_number", "Issue number"),
				text("comment", "Comment to leave when closing", false),
				enum("reason", "Reason for closing", closeReasons...),
			},
			Steps: single(func(a Args, _ config.Settings) []string {
				reason := strings.ReplaceAll(a.String("reason"), "_", " ")
				return New("issue", "close", itoa(a, "issue_number")).
					Repo(a.String("owner"), a.String("repo")).
					Flag("--comment", a.String("comment")).
					Flag("--reason", Enum(reason, closeReasons, "")).
					Tokens()
			}),
		},
		&Operation{
			Name:        "comment_on_issue",
			Description: "Add a comment to an issue",
			Params: []Param{
				ownerParam,
				repoParam,
				number("issue_number", "Issue number"),
				text("body", "Comment body (markdown)", true),
			},
			Steps: single(func(a Args, _ config.Settings) []string {
				return New("issue", "comment", itoa(a, "issue_number")).
					Repo(a.String("owner"), a.String("repo")).
					Add("--body", a.String("body")).
					Tokens()
			}),
		},
		&Operation{
			Name:        "search_issues",
			Description: "Search issues across GitHub",
			ReadOnly:    true,
			Params: []Param{
				text("query", "Search query", true),
				enum("state", "Issue state filter", searchIssueStates...),
				limit("Maximum number of results"),
			},
			Steps: single(func(a Args, s config.Settings) []string {
				return New("search", "issues").
					Add("--json", searchIssueFields).
					IntFlag("--limit", Limit(a.Int("limit"), s.SearchLimit, 1)).
					Flag("--state", Enum(a.String("state"), searchIssueStates, "")).
					Arg(a.String("query")).
					Tokens()
			}),
		},
	)
}
