package mcp

import "bitbucket-mcp/internal/bitbucket"

// Reshaping helpers. Tool results are compact projections of the wire
// models: identity first, links last, noise dropped. Compact output
// mode drops the long free-text fields from list entries.

func accountName(a *bitbucket.Account) string {
	if a == nil {
		return ""
	}
	if a.DisplayName != "" {
		return a.DisplayName
	}
	return a.Nickname
}

func setIf(m map[string]interface{}, key string, value interface{}) {
	switch v := value.(type) {
	case string:
		if v != "" {
			m[key] = v
		}
	case int:
		if v != 0 {
			m[key] = v
		}
	case int64:
		if v != 0 {
			m[key] = v
		}
	default:
		if value != nil {
			m[key] = value
		}
	}
}

func projectSummary(p *bitbucket.Project) map[string]interface{} {
	out := map[string]interface{}{
		"key":        p.Key,
		"name":       p.Name,
		"is_private": p.IsPrivate,
	}
	setIf(out, "description", p.Description)
	setIf(out, "updated_on", p.UpdatedOn)
	setIf(out, "url", p.Links.HTML.Href)
	return out
}

func (s *Server) repoSummary(r *bitbucket.Repository) map[string]interface{} {
	out := map[string]interface{}{
		"slug":       r.Slug,
		"full_name":  r.FullName,
		"is_private": r.IsPrivate,
	}
	setIf(out, "name", r.Name)
	setIf(out, "language", r.Language)
	if r.MainBranch != nil {
		out["main_branch"] = r.MainBranch.Name
	}
	if r.Project != nil {
		out["project_key"] = r.Project.Key
	}
	if !s.compact() {
		setIf(out, "description", r.Description)
		setIf(out, "created_on", r.CreatedOn)
	}
	setIf(out, "updated_on", r.UpdatedOn)
	setIf(out, "url", r.Links.HTML.Href)
	return out
}

func targetSummary(t *bitbucket.Target) map[string]interface{} {
	if t == nil {
		return nil
	}
	out := map[string]interface{}{
		"hash": shortHash(t.Hash),
	}
	setIf(out, "date", t.Date)
	setIf(out, "message", firstLine(t.Message))
	if t.Author != nil {
		if name := accountName(t.Author.User); name != "" {
			out["author"] = name
		} else {
			setIf(out, "author", t.Author.Raw)
		}
	}
	return out
}

func branchSummary(b *bitbucket.Branch) map[string]interface{} {
	out := map[string]interface{}{"name": b.Name}
	if target := targetSummary(b.Target); target != nil {
		out["target"] = target
	}
	return out
}

func tagSummary(t *bitbucket.Tag) map[string]interface{} {
	out := map[string]interface{}{"name": t.Name}
	setIf(out, "message", firstLine(t.Message))
	if target := targetSummary(t.Target); target != nil {
		out["target"] = target
	}
	return out
}

func (s *Server) commitSummary(c *bitbucket.Commit) map[string]interface{} {
	out := map[string]interface{}{
		"hash":    shortHash(c.Hash),
		"message": firstLine(c.Message),
	}
	setIf(out, "date", c.Date)
	if name := accountName(c.Author.User); name != "" {
		out["author"] = name
	} else {
		setIf(out, "author", c.Author.Raw)
	}
	if !s.compact() {
		setIf(out, "url", c.Links.HTML.Href)
	}
	return out
}

func commitDetail(c *bitbucket.Commit) map[string]interface{} {
	out := map[string]interface{}{
		"hash":    c.Hash,
		"message": c.Message,
	}
	setIf(out, "date", c.Date)
	if name := accountName(c.Author.User); name != "" {
		out["author"] = name
	} else {
		setIf(out, "author", c.Author.Raw)
	}
	if len(c.Parents) > 0 {
		parents := make([]string, 0, len(c.Parents))
		for _, p := range c.Parents {
			parents = append(parents, shortHash(p.Hash))
		}
		out["parents"] = parents
	}
	setIf(out, "url", c.Links.HTML.Href)
	return out
}

func endpointBranch(e *bitbucket.PullRequestEndpoint) string {
	if e == nil {
		return ""
	}
	return e.Branch.Name
}

func (s *Server) prSummary(pr *bitbucket.PullRequest) map[string]interface{} {
	out := map[string]interface{}{
		"id":    pr.ID,
		"title": pr.Title,
		"state": pr.State,
	}
	setIf(out, "author", accountName(pr.Author))
	setIf(out, "source_branch", endpointBranch(pr.Source))
	setIf(out, "destination_branch", endpointBranch(pr.Destination))
	setIf(out, "comment_count", pr.CommentCount)
	if pr.Draft {
		out["draft"] = true
	}
	if !s.compact() {
		setIf(out, "created_on", pr.CreatedOn)
	}
	setIf(out, "updated_on", pr.UpdatedOn)
	setIf(out, "url", pr.Links.HTML.Href)
	return out
}

func (s *Server) prDetail(pr *bitbucket.PullRequest) map[string]interface{} {
	out := s.prSummary(pr)
	setIf(out, "description", pr.Description)
	setIf(out, "task_count", pr.TaskCount)
	out["close_source_branch"] = pr.CloseSourceBranch
	if pr.MergeCommit != nil {
		out["merge_commit"] = shortHash(pr.MergeCommit.Hash)
	}
	if len(pr.Reviewers) > 0 {
		reviewers := make([]string, 0, len(pr.Reviewers))
		for i := range pr.Reviewers {
			reviewers = append(reviewers, accountName(&pr.Reviewers[i]))
		}
		out["reviewers"] = reviewers
	}
	if len(pr.Participants) > 0 {
		participants := make([]map[string]interface{}, 0, len(pr.Participants))
		for _, p := range pr.Participants {
			entry := map[string]interface{}{
				"name":     accountName(p.User),
				"approved": p.Approved,
			}
			setIf(entry, "role", p.Role)
			setIf(entry, "state", p.State)
			participants = append(participants, entry)
		}
		out["participants"] = participants
	}
	return out
}

func commentSummary(c *bitbucket.Comment) map[string]interface{} {
	out := map[string]interface{}{"id": c.ID}
	if c.Content != nil {
		out["content"] = c.Content.Raw
	}
	setIf(out, "author", accountName(c.User))
	if c.Inline != nil {
		inline := map[string]interface{}{"path": c.Inline.Path}
		if c.Inline.To != nil {
			inline["line"] = *c.Inline.To
		}
		out["inline"] = inline
	}
	if c.Deleted {
		out["deleted"] = true
	}
	setIf(out, "created_on", c.CreatedOn)
	return out
}

func pipelineStateName(st *bitbucket.PipelineState) (state, result string) {
	if st == nil {
		return "", ""
	}
	state = st.Name
	if st.Result != nil {
		result = st.Result.Name
	}
	return state, result
}

func (s *Server) pipelineSummary(p *bitbucket.Pipeline) map[string]interface{} {
	out := map[string]interface{}{
		"uuid":         p.UUID,
		"build_number": p.BuildNumber,
	}
	state, result := pipelineStateName(p.State)
	setIf(out, "state", state)
	setIf(out, "result", result)
	if p.Target != nil {
		setIf(out, "ref", p.Target.RefName)
		if p.Target.Commit != nil {
			out["commit"] = shortHash(p.Target.Commit.Hash)
		}
		if p.Target.Selector != nil {
			setIf(out, "selector", p.Target.Selector.Pattern)
		}
	}
	if !s.compact() {
		setIf(out, "creator", accountName(p.Creator))
	}
	setIf(out, "created_on", p.CreatedOn)
	setIf(out, "completed_on", p.CompletedOn)
	setIf(out, "duration_seconds", p.DurationInSeconds)
	return out
}

func stepSummary(st *bitbucket.PipelineStep) map[string]interface{} {
	out := map[string]interface{}{
		"uuid": st.UUID,
		"name": st.Name,
	}
	state, result := pipelineStateName(st.State)
	setIf(out, "state", state)
	setIf(out, "result", result)
	setIf(out, "started_on", st.StartedOn)
	setIf(out, "completed_on", st.CompletedOn)
	setIf(out, "duration_seconds", st.DurationInSeconds)
	return out
}

// variableSummary never echoes secured values; upstream omits them and
// the adapter keeps it that way.
func variableSummary(v *bitbucket.PipelineVariable) map[string]interface{} {
	out := map[string]interface{}{
		"key":     v.Key,
		"secured": v.Secured,
	}
	setIf(out, "uuid", v.UUID)
	if !v.Secured {
		out["value"] = v.Value
	}
	return out
}

func webhookSummary(w *bitbucket.Webhook) map[string]interface{} {
	out := map[string]interface{}{
		"uuid":   w.UUID,
		"url":    w.URL,
		"active": w.Active,
		"events": w.Events,
	}
	setIf(out, "description", w.Description)
	setIf(out, "created_at", w.CreatedAt)
	return out
}

func environmentSummary(e *bitbucket.Environment) map[string]interface{} {
	out := map[string]interface{}{
		"uuid": e.UUID,
		"name": e.Name,
	}
	setIf(out, "slug", e.Slug)
	if e.EnvironmentType != nil {
		setIf(out, "type", e.EnvironmentType.Name)
	}
	return out
}

func deploymentSummary(d *bitbucket.Deployment) map[string]interface{} {
	out := map[string]interface{}{"uuid": d.UUID}
	if d.State != nil {
		setIf(out, "state", d.State.Name)
		if d.State.Status != nil {
			setIf(out, "status", d.State.Status.Name)
		}
	}
	if d.Environment != nil {
		setIf(out, "environment", d.Environment.Name)
	}
	if d.Deployable != nil {
		setIf(out, "deployable", d.Deployable.Name)
		if d.Deployable.Commit != nil {
			out["commit"] = shortHash(d.Deployable.Commit.Hash)
		}
	}
	setIf(out, "last_update_time", d.LastUpdateTime)
	return out
}

func restrictionSummary(r *bitbucket.BranchRestriction) map[string]interface{} {
	out := map[string]interface{}{
		"id":      r.ID,
		"kind":    r.Kind,
		"pattern": r.Pattern,
	}
	setIf(out, "branch_match_kind", r.BranchMatchKind)
	if len(r.Users) > 0 {
		users := make([]string, 0, len(r.Users))
		for i := range r.Users {
			users = append(users, accountName(&r.Users[i]))
		}
		out["users"] = users
	}
	if len(r.Groups) > 0 {
		groups := make([]string, 0, len(r.Groups))
		for _, g := range r.Groups {
			groups = append(groups, g.Slug)
		}
		out["groups"] = groups
	}
	if r.Value != nil {
		out["value"] = *r.Value
	}
	return out
}

func statusSummary(st *bitbucket.CommitStatus) map[string]interface{} {
	out := map[string]interface{}{
		"key":   st.Key,
		"state": st.State,
	}
	setIf(out, "name", st.Name)
	setIf(out, "description", st.Description)
	setIf(out, "url", st.URL)
	setIf(out, "updated_on", st.UpdatedOn)
	return out
}

func permissionSummary(p *bitbucket.Permission) map[string]interface{} {
	out := map[string]interface{}{"permission": p.Permission}
	if p.User != nil {
		out["user"] = accountName(p.User)
	}
	if p.Group != nil {
		out["group"] = p.Group.Slug
	}
	if p.Repository != nil {
		setIf(out, "repository", p.Repository.FullName)
	}
	return out
}

func directoryEntrySummary(e *bitbucket.DirectoryEntry) map[string]interface{} {
	kind := "file"
	if e.Type == "commit_directory" {
		kind = "directory"
	}
	out := map[string]interface{}{
		"path": e.Path,
		"type": kind,
	}
	if kind == "file" {
		out["size"] = e.Size
	}
	return out
}

func diffStatEntry(d *bitbucket.DiffStat) map[string]interface{} {
	return map[string]interface{}{
		"path":          d.Path(),
		"status":        d.Status,
		"lines_added":   d.LinesAdded,
		"lines_removed": d.LinesRemoved,
	}
}
