package ghcli

import (
	"github.com/opencode-ai/gh-mcp/internal/config"
)

const (
	workflowFields  = "id,name,path,state"
	runFields       = "databaseId,name,displayTitle,status,conclusion,event,headBranch,workflowName,createdAt,url"
	runDetailFields = "databaseId,name,displayTitle,status,conclusion,event,headBranch,headSha,workflowName,createdAt,updatedAt,url,jobs"
)

var runStatuses = []string{
	"queued", "completed", "in_progress", "requested", "waiting", "pending",
	"action_required", "cancelled", "failure", "neutral", "skipped", "stale",
	"startup_failure", "success", "timed_out",
}

func init() {
	register(
		&Operation{
			Name:        "list_workflows",
			Description: "List GitHub Actions workflows of a repository",
			ReadOnly:    true,
			Params:      []Param{ownerParam, repoParam},
			Steps: single(func(a Args, _ config.Settings) []string {
				return New("workflow", "list").
					Repo(a.String("owner"), a.String("repo")).
					Add("--json", workflowFields).
					Tokens()
			}),
		},
		&Operation{
			Name:        "run_workflow",
			Description: "Trigger a workflow_dispatch run of a workflow",
			Params: []Param{
				ownerParam,
				repoParam,
				ident("workflow", "Workflow ID, name or file name", true),
				ident("ref", "Branch or tag to run the workflow on", false),
			},
			Steps: single(func(a Args, _ config.Settings) []string {
				return New("workflow", "run").
					Repo(a.String("owner"), a.String("repo")).
					Flag("--ref", a.String("ref")).
					Arg(a.String("workflow")).
					Tokens()
			}),
		},
		&Operation{
			Name:        "list_workflow_runs",
			Description: "List recent workflow runs of a repository",
			ReadOnly:    true,
			Params: []Param{
				ownerParam,
				repoParam,
				ident("workflow", "Only runs of this workflow", false),
				ident("branch", "Only runs for this branch", false),
				enum("status", "Only runs with this status", runStatuses...),
				limit("Maximum number of runs"),
			},
			Steps: single(func(a Args, s config.Settings) []string {
				return New("run", "list").
					Repo(a.String("owner"), a.String("repo")).
					IntFlag("--limit", Limit(a.Int("limit"), s.ListLimit, 1)).
					Add("--json", runFields).
					Flag("--workflow", a.String("workflow")).
					Flag("--branch", a.String("branch")).
					Flag("--status", Enum(a.String("status"), runStatuses, "")).
					Tokens()
			}),
		},
		&Operation{
			Name:        "get_workflow_run",
			Description: "Get details of a workflow run",
			ReadOnly:    true,
			Params: []Param{
				ownerParam,
				repoParam,
				number("run_id", "Workflow run ID"),
			},
			Steps: single(func(a Args, _ config.Settings) []string {
				return New("run", "view", itoa(a, "run_id")).
					Repo(a.String("owner"), a.String("repo")).
					Add("--json", runDetailFields).
					Tokens()
			}),
		},
	)
}
