package mcp

import (
	"fmt"
	"strings"

	"bitbucket-mcp/internal/bitbucket"
)

// mdDoc builds a markdown document line by line.
type mdDoc struct {
	b strings.Builder
}

func (d *mdDoc) heading(level int, format string, args ...interface{}) {
	d.b.WriteString(strings.Repeat("#", level))
	d.b.WriteByte(' ')
	fmt.Fprintf(&d.b, format, args...)
	d.b.WriteString("\n\n")
}

func (d *mdDoc) line(format string, args ...interface{}) {
	fmt.Fprintf(&d.b, format, args...)
	d.b.WriteByte('\n')
}

func (d *mdDoc) blank() {
	d.b.WriteByte('\n')
}

// table writes a pipe table. Cells containing pipes are escaped so the
// table survives arbitrary titles and commit messages.
func (d *mdDoc) table(headers []string, rows [][]string) {
	if len(rows) == 0 {
		d.line("_none_")
		return
	}
	d.row(headers)
	sep := make([]string, len(headers))
	for i := range sep {
		sep[i] = "---"
	}
	d.row(sep)
	for _, r := range rows {
		d.row(r)
	}
}

func (d *mdDoc) row(cells []string) {
	escaped := make([]string, len(cells))
	for i, c := range cells {
		escaped[i] = strings.ReplaceAll(c, "|", "\\|")
	}
	d.line("| %s |", strings.Join(escaped, " | "))
}

func (d *mdDoc) String() string {
	return d.b.String()
}

func (s *Server) workspaceMarkdown(projects []bitbucket.Project) string {
	var d mdDoc
	d.heading(1, "Workspace %s", s.client.Workspace())
	headers := []string{"Key", "Name", "Private"}
	if !s.compact() {
		headers = append(headers, "Updated")
	}
	rows := make([][]string, 0, len(projects))
	for i := range projects {
		p := &projects[i]
		row := []string{p.Key, p.Name, fmt.Sprintf("%t", p.IsPrivate)}
		if !s.compact() {
			row = append(row, p.UpdatedOn)
		}
		rows = append(rows, row)
	}
	d.table(headers, rows)
	return d.String()
}

func (s *Server) repositoriesMarkdown(repos []bitbucket.Repository) string {
	var d mdDoc
	d.heading(1, "Repositories in %s", s.client.Workspace())
	headers := []string{"Slug", "Name"}
	if !s.compact() {
		headers = append(headers, "Language", "Updated")
	}
	rows := make([][]string, 0, len(repos))
	for i := range repos {
		r := &repos[i]
		row := []string{r.Slug, r.Name}
		if !s.compact() {
			row = append(row, r.Language, r.UpdatedOn)
		}
		rows = append(rows, row)
	}
	d.table(headers, rows)
	return d.String()
}

func (s *Server) repositoryMarkdown(repo *bitbucket.Repository, prs []bitbucket.PullRequest, pipelines []bitbucket.Pipeline) string {
	var d mdDoc
	d.heading(1, "%s", repo.FullName)
	if repo.Description != "" {
		d.line("%s", repo.Description)
		d.blank()
	}
	if repo.MainBranch != nil && repo.MainBranch.Name != "" {
		d.line("Main branch: `%s`", repo.MainBranch.Name)
		d.blank()
	}

	d.heading(2, "Open pull requests")
	d.table([]string{"ID", "Title", "Author", "Source", "Destination"}, prRows(prs))
	d.blank()

	d.heading(2, "Recent pipelines")
	d.table([]string{"Build", "State", "Result", "Ref"}, pipelineRows(pipelines))
	return d.String()
}

func (s *Server) branchesMarkdown(slug string, branches []bitbucket.Branch) string {
	var d mdDoc
	d.heading(1, "Branches of %s", slug)
	rows := make([][]string, 0, len(branches))
	for i := range branches {
		b := &branches[i]
		hash, date := "", ""
		if b.Target != nil {
			hash = shortHash(b.Target.Hash)
			date = b.Target.Date
		}
		rows = append(rows, []string{b.Name, hash, date})
	}
	d.table([]string{"Name", "Commit", "Date"}, rows)
	return d.String()
}

func (s *Server) pullRequestsMarkdown(slug string, prs []bitbucket.PullRequest) string {
	var d mdDoc
	d.heading(1, "Open pull requests of %s", slug)
	d.table([]string{"ID", "Title", "Author", "Source", "Destination"}, prRows(prs))
	return d.String()
}

func (s *Server) pipelinesMarkdown(slug string, pipelines []bitbucket.Pipeline) string {
	var d mdDoc
	d.heading(1, "Recent pipelines of %s", slug)
	d.table([]string{"Build", "State", "Result", "Ref"}, pipelineRows(pipelines))
	return d.String()
}

func prRows(prs []bitbucket.PullRequest) [][]string {
	rows := make([][]string, 0, len(prs))
	for i := range prs {
		pr := &prs[i]
		rows = append(rows, []string{
			fmt.Sprintf("%d", pr.ID),
			pr.Title,
			accountName(pr.Author),
			endpointBranch(pr.Source),
			endpointBranch(pr.Destination),
		})
	}
	return rows
}

func pipelineRows(pipelines []bitbucket.Pipeline) [][]string {
	rows := make([][]string, 0, len(pipelines))
	for i := range pipelines {
		p := &pipelines[i]
		state, result := pipelineStateName(p.State)
		ref := ""
		if p.Target != nil {
			ref = p.Target.RefName
		}
		rows = append(rows, []string{
			fmt.Sprintf("%d", p.BuildNumber),
			state,
			result,
			ref,
		})
	}
	return rows
}
