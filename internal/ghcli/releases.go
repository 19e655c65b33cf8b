package ghcli

import (
	"github.com/opencode-ai/gh-mcp/internal/config"
)

const (
	releaseFields       = "tagName,name,isDraft,isPrerelease,isLatest,createdAt,publishedAt"
	releaseDetailFields = "tagName,name,body,isDraft,isPrerelease,createdAt,publishedAt,author,url,assets"
)

func init() {
	register(
		&Operation{
			Name:        "list_releases",
			Description: "List releases of a GitHub repository",
			ReadOnly:    true,
			Params: []Param{
				ownerParam,
				repoParam,
				limit("Maximum number of releases"),
			},
			Steps: single(func(a Args, s config.Settings) []string {
				return New("release", "list").
					Repo(a.String("owner"), a.String("repo")).
					IntFlag("--limit", Limit(a.Int("limit"), s.ListLimit, 1)).
					Add("--json", releaseFields).
					Tokens()
			}),
		},
		&Operation{
			Name:        "get_release",
			Description: "Get a release by tag, or the latest release when no tag is given",
			ReadOnly:    true,
			Params: []Param{
				ownerParam,
				repoParam,
				ident("tag", "Release tag", false),
			},
			Steps: single(func(a Args, _ config.Settings) []string {
				return New("release", "view").
					Repo(a.String("owner"), a.String("repo")).
					Add("--json", releaseDetailFields).
					Arg(a.String("tag")).
					Tokens()
			}),
		},
		&Operation{
			Name:        "create_release",
			Description: "Create a release in a GitHub repository",
			Params: []Param{
				ownerParam,
				repoParam,
				ident("tag", "Tag name for the release", true),
				text("title", "Release title", false),
				text("notes", "Release notes (markdown)", false),
				ident("target", "Branch or commit the tag is created from", false),
				boolean("draft", "Save as a draft"),
				boolean("prerelease", "Mark as a prerelease"),
				boolean("generate_notes", "Generate notes automatically"),
			},
			Steps: single(func(a Args, _ config.Settings) []string {
				return New("release", "create").
					Repo(a.String("owner"), a.String("repo")).
					Flag("--title", a.String("title")).
					Flag("--notes", a.String("notes")).
					Flag("--target", a.String("target")).
					Switch("--draft", a.Bool("draft")).
					Switch("--prerelease", a.Bool("prerelease")).
					Switch("--generate-notes", a.Bool("generate_notes")).
					Arg(a.String("tag")).
					Tokens()
			}),
		},
	)
}
