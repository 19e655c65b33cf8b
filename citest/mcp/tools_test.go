//go:build unix

package mcp_test

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("GitHub MCP tools over streamable HTTP", func() {
	var session *sdkmcp.ClientSession

	BeforeEach(func() {
		client := sdkmcp.NewClient(&sdkmcp.Implementation{Name: "citest", Version: "1.0.0"}, nil)

		var err error
		session, err = client.Connect(ctx, &sdkmcp.StreamableClientTransport{Endpoint: baseURL + "/mcp"}, nil)
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		if session != nil {
			session.Close()
		}
	})

	callText := func(name string, args map[string]any) (string, bool) {
		result, err := session.CallTool(ctx, &sdkmcp.CallToolParams{Name: name, Arguments: args})
		Expect(err).NotTo(HaveOccurred())
		Expect(result.Content).NotTo(BeEmpty())
		text, ok := result.Content[0].(*sdkmcp.TextContent)
		Expect(ok).To(BeTrue())
		return text.Text, result.IsError
	}

	Describe("tools/list", func() {
		It("should expose every operation with its schema", func() {
			result, err := session.ListTools(ctx, nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Tools).To(HaveLen(26))

			names := make([]string, 0, len(result.Tools))
			for _, tool := range result.Tools {
				names = append(names, tool.Name)
			}
			Expect(names).To(ContainElements("create_branch", "get_file_contents", "run_workflow"))
		})
	})

	Describe("tools/call", func() {
		It("should pass arguments as a discrete vector", func() {
			text, isError := callText("comment_on_issue", map[string]any{
				"owner": "o", "repo": "r", "issue_number": 12,
				"body": "Fixed in `main`; thanks | closing",
			})
			Expect(isError).To(BeFalse())
			Expect(strings.Split(text, "\n")).To(Equal([]string{
				"issue", "comment", "12", "--repo", "o/r", "--body", "Fixed in `main`; thanks | closing",
			}))
		})

		It("should apply the configured search limit", func() {
			text, _ := callText("search_repositories", map[string]any{"query": "mcp server", "limit": 0})
			Expect(text).To(ContainSubstring("--limit\n30"))
		})

		It("should keep dash-leading queries as operands", func() {
			text, isError := callText("search_issues", map[string]any{"query": "-label:bug is:open"})
			Expect(isError).To(BeFalse())
			Expect(text).To(HaveSuffix("--\n-label:bug is:open"))
		})

		It("should escape file paths in API endpoints", func() {
			text, isError := callText("get_file_contents", map[string]any{"owner": "o", "repo": "r", "path": "docs/a b#1.md"})
			Expect(isError).To(BeFalse())
			Expect(text).To(ContainSubstring("repos/o/r/contents/docs/a%20b%231.md"))
		})

		It("should report command failures as tool errors", func() {
			text, isError := callText("list_branches", map[string]any{"owner": "o", "repo": "missing"})
			Expect(isError).To(BeTrue())
			Expect(text).To(Equal("Error: HTTP 404: Not Found"))
		})

		It("should time out a hanging command", func() {
			start := time.Now()
			text, isError := callText("list_branches", map[string]any{"owner": "o", "repo": "slow"})
			Expect(isError).To(BeTrue())
			Expect(text).To(Equal("Error: Command timed out after 2s"))
			Expect(time.Since(start)).To(BeNumerically("<", 10*time.Second))
		})

		It("should reject unsafe identifiers without running anything", func() {
			text, isError := callText("get_file_contents", map[string]any{"owner": "o", "repo": "r", "path": "a;b"})
			Expect(isError).To(BeTrue())
			Expect(text).To(Equal("Error: Parameter 'path' contains invalid characters: a;b"))
		})
	})

	Describe("GET /metrics", func() {
		It("should count finished commands", func() {
			callText("get_me", nil)

			Eventually(func() string {
				resp, err := http.Get(baseURL + "/metrics")
				if err != nil {
					return ""
				}
				defer resp.Body.Close()
				body, _ := io.ReadAll(resp.Body)
				return string(body)
			}).WithTimeout(3 * time.Second).Should(ContainSubstring(`gh_mcp_commands_total{command="api",outcome="success"}`))
		})
	})

	Describe("GET /health", func() {
		It("should report the server version", func() {
			resp, err := http.Get(baseURL + "/health")
			Expect(err).NotTo(HaveOccurred())
			defer resp.Body.Close()

			var health map[string]any
			Expect(json.NewDecoder(resp.Body).Decode(&health)).To(Succeed())
			Expect(health["status"]).To(Equal("ok"))
			Expect(health["version"]).To(Equal("citest"))
		})
	})
})
