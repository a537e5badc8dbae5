package bitbucket

// Wire models are deliberately partial projections of the upstream
// JSON. Bitbucket payload shapes vary by endpoint version and
// permission level, so everything except identity fields tolerates
// absence; unknown fields are ignored on decode.

// Account identifies a Bitbucket user.
type Account struct {
	UUID        string `json:"uuid,omitempty"`
	AccountID   string `json:"account_id,omitempty"`
	DisplayName string `json:"display_name,omitempty"`
	Nickname    string `json:"nickname,omitempty"`
}

// Link is a single href inside a links object.
type Link struct {
	Href string `json:"href,omitempty"`
}

// Links carries the subset of upstream link objects tools surface.
type Links struct {
	HTML Link `json:"html,omitempty"`
	Self Link `json:"self,omitempty"`
}

// Project is a workspace project grouping repositories.
type Project struct {
	Key         string `json:"key"`
	UUID        string `json:"uuid,omitempty"`
	Name        string `json:"name,omitempty"`
	Description string `json:"description,omitempty"`
	IsPrivate   bool   `json:"is_private,omitempty"`
	CreatedOn   string `json:"created_on,omitempty"`
	UpdatedOn   string `json:"updated_on,omitempty"`
	Links       Links  `json:"links,omitempty"`
}

// Ref names a branch reference.
type Ref struct {
	Name string `json:"name,omitempty"`
}

// Repository is a partial projection of an upstream repository.
type Repository struct {
	UUID        string   `json:"uuid"`
	Name        string   `json:"name,omitempty"`
	Slug        string   `json:"slug,omitempty"`
	FullName    string   `json:"full_name,omitempty"`
	Description string   `json:"description,omitempty"`
	IsPrivate   bool     `json:"is_private,omitempty"`
	ForkPolicy  string   `json:"fork_policy,omitempty"`
	Language    string   `json:"language,omitempty"`
	Size        int64    `json:"size,omitempty"`
	MainBranch  *Ref     `json:"mainbranch,omitempty"`
	Project     *Project `json:"project,omitempty"`
	CreatedOn   string   `json:"created_on,omitempty"`
	UpdatedOn   string   `json:"updated_on,omitempty"`
	Links       Links    `json:"links,omitempty"`
}

// Target is the commit a branch or tag points at.
type Target struct {
	Hash    string `json:"hash"`
	Date    string `json:"date,omitempty"`
	Message string `json:"message,omitempty"`
	Author  *struct {
		Raw  string   `json:"raw,omitempty"`
		User *Account `json:"user,omitempty"`
	} `json:"author,omitempty"`
}

// Branch is a repository branch reference.
type Branch struct {
	Name   string  `json:"name"`
	Target *Target `json:"target,omitempty"`
}

// Tag is a repository tag reference.
type Tag struct {
	Name    string  `json:"name"`
	Message string  `json:"message,omitempty"`
	Target  *Target `json:"target,omitempty"`
}

// Commit is a partial projection of an upstream commit.
type Commit struct {
	Hash    string `json:"hash"`
	Date    string `json:"date,omitempty"`
	Message string `json:"message,omitempty"`
	Author  struct {
		Raw  string   `json:"raw,omitempty"`
		User *Account `json:"user,omitempty"`
	} `json:"author,omitempty"`
	Parents []struct {
		Hash string `json:"hash"`
	} `json:"parents,omitempty"`
	Links Links `json:"links,omitempty"`
}

// PullRequestEndpoint is one side of a pull request.
type PullRequestEndpoint struct {
	Branch Ref `json:"branch"`
	Commit *struct {
		Hash string `json:"hash"`
	} `json:"commit,omitempty"`
	Repository *Repository `json:"repository,omitempty"`
}

// Participant records a user's review state on a pull request.
type Participant struct {
	User     *Account `json:"user,omitempty"`
	Role     string   `json:"role,omitempty"`
	Approved bool     `json:"approved,omitempty"`
	State    string   `json:"state,omitempty"`
}

// PullRequest is a partial projection of an upstream pull request.
type PullRequest struct {
	ID                int                  `json:"id"`
	Title             string               `json:"title,omitempty"`
	Description       string               `json:"description,omitempty"`
	State             string               `json:"state,omitempty"`
	Draft             bool                 `json:"draft,omitempty"`
	Author            *Account             `json:"author,omitempty"`
	Source            *PullRequestEndpoint `json:"source,omitempty"`
	Destination       *PullRequestEndpoint `json:"destination,omitempty"`
	CloseSourceBranch bool                 `json:"close_source_branch,omitempty"`
	MergeCommit       *struct {
		Hash string `json:"hash"`
	} `json:"merge_commit,omitempty"`
	CommentCount int           `json:"comment_count,omitempty"`
	TaskCount    int           `json:"task_count,omitempty"`
	Reviewers    []Account     `json:"reviewers,omitempty"`
	Participants []Participant `json:"participants,omitempty"`
	CreatedOn    string        `json:"created_on,omitempty"`
	UpdatedOn    string        `json:"updated_on,omitempty"`
	Links        Links         `json:"links,omitempty"`
}

// Comment is a pull request or commit comment.
type Comment struct {
	ID      int `json:"id"`
	Content *struct {
		Raw string `json:"raw,omitempty"`
	} `json:"content,omitempty"`
	User   *Account `json:"user,omitempty"`
	Inline *struct {
		Path string `json:"path,omitempty"`
		To   *int   `json:"to,omitempty"`
		From *int   `json:"from,omitempty"`
	} `json:"inline,omitempty"`
	Deleted   bool   `json:"deleted,omitempty"`
	CreatedOn string `json:"created_on,omitempty"`
	UpdatedOn string `json:"updated_on,omitempty"`
}

// PipelineState is a pipeline or step state with optional result.
type PipelineState struct {
	Name   string `json:"name,omitempty"`
	Type   string `json:"type,omitempty"`
	Result *struct {
		Name string `json:"name,omitempty"`
	} `json:"result,omitempty"`
}

// PipelineTarget describes what a pipeline ran against.
type PipelineTarget struct {
	RefType string `json:"ref_type,omitempty"`
	RefName string `json:"ref_name,omitempty"`
	Commit  *struct {
		Hash string `json:"hash"`
	} `json:"commit,omitempty"`
	Selector *struct {
		Type    string `json:"type,omitempty"`
		Pattern string `json:"pattern,omitempty"`
	} `json:"selector,omitempty"`
}

// Pipeline is a partial projection of an upstream pipeline run.
type Pipeline struct {
	UUID              string          `json:"uuid"`
	BuildNumber       int             `json:"build_number,omitempty"`
	State             *PipelineState  `json:"state,omitempty"`
	Target            *PipelineTarget `json:"target,omitempty"`
	Creator           *Account        `json:"creator,omitempty"`
	CreatedOn         string          `json:"created_on,omitempty"`
	CompletedOn       string          `json:"completed_on,omitempty"`
	DurationInSeconds int             `json:"duration_in_seconds,omitempty"`
}

// PipelineStep is a single step within a pipeline run.
type PipelineStep struct {
	UUID              string         `json:"uuid"`
	Name              string         `json:"name,omitempty"`
	State             *PipelineState `json:"state,omitempty"`
	StartedOn         string         `json:"started_on,omitempty"`
	CompletedOn       string         `json:"completed_on,omitempty"`
	DurationInSeconds int            `json:"duration_in_seconds,omitempty"`
}

// PipelineVariable is a repository pipeline variable. Secured values
// are write-only upstream and never returned by reads.
type PipelineVariable struct {
	UUID    string `json:"uuid,omitempty"`
	Key     string `json:"key"`
	Value   string `json:"value,omitempty"`
	Secured bool   `json:"secured,omitempty"`
}

// Webhook is a repository webhook subscription.
type Webhook struct {
	UUID        string   `json:"uuid"`
	URL         string   `json:"url,omitempty"`
	Description string   `json:"description,omitempty"`
	Active      bool     `json:"active,omitempty"`
	Events      []string `json:"events,omitempty"`
	CreatedAt   string   `json:"created_at,omitempty"`
}

// Environment is a deployment environment.
type Environment struct {
	UUID            string `json:"uuid"`
	Name            string `json:"name,omitempty"`
	Slug            string `json:"slug,omitempty"`
	EnvironmentType *struct {
		Name string `json:"name,omitempty"`
	} `json:"environment_type,omitempty"`
	Rank int `json:"rank,omitempty"`
}

// Deployment is a partial projection of an upstream deployment.
type Deployment struct {
	UUID  string `json:"uuid"`
	State *struct {
		Name   string `json:"name,omitempty"`
		Status *struct {
			Name string `json:"name,omitempty"`
		} `json:"status,omitempty"`
		URL string `json:"url,omitempty"`
	} `json:"state,omitempty"`
	Environment *Environment `json:"environment,omitempty"`
	Deployable  *struct {
		Name   string `json:"name,omitempty"`
		URL    string `json:"url,omitempty"`
		Commit *struct {
			Hash string `json:"hash"`
		} `json:"commit,omitempty"`
	} `json:"deployable,omitempty"`
	LastUpdateTime string `json:"last_update_time,omitempty"`
}

// BranchRestriction is a branch protection rule.
type BranchRestriction struct {
	ID              int       `json:"id"`
	Kind            string    `json:"kind,omitempty"`
	Pattern         string    `json:"pattern,omitempty"`
	BranchMatchKind string    `json:"branch_match_kind,omitempty"`
	BranchType      string    `json:"branch_type,omitempty"`
	Users           []Account `json:"users,omitempty"`
	Groups          []struct {
		Name string `json:"name,omitempty"`
		Slug string `json:"slug,omitempty"`
	} `json:"groups,omitempty"`
	Value *int `json:"value,omitempty"`
}

// CommitStatus is a build status attached to a commit.
type CommitStatus struct {
	Key         string `json:"key"`
	State       string `json:"state,omitempty"`
	Name        string `json:"name,omitempty"`
	Description string `json:"description,omitempty"`
	URL         string `json:"url,omitempty"`
	RefName     string `json:"refname,omitempty"`
	CreatedOn   string `json:"created_on,omitempty"`
	UpdatedOn   string `json:"updated_on,omitempty"`
}

// Permission maps a user or group to an access level on a repository.
type Permission struct {
	Type       string   `json:"type,omitempty"`
	Permission string   `json:"permission,omitempty"`
	User       *Account `json:"user,omitempty"`
	Group      *struct {
		Name string `json:"name,omitempty"`
		Slug string `json:"slug,omitempty"`
	} `json:"group,omitempty"`
	Repository *Repository `json:"repository,omitempty"`
}

// DirectoryEntry is one entry in a src directory listing.
type DirectoryEntry struct {
	Path string `json:"path"`
	Type string `json:"type,omitempty"` // commit_file or commit_directory
	Size int64  `json:"size,omitempty"`
	Commit *struct {
		Hash string `json:"hash"`
	} `json:"commit,omitempty"`
}

// DiffStat summarizes one file's changes between two commits.
type DiffStat struct {
	Status       string `json:"status,omitempty"`
	LinesAdded   int    `json:"lines_added,omitempty"`
	LinesRemoved int    `json:"lines_removed,omitempty"`
	Old          *struct {
		Path string `json:"path,omitempty"`
	} `json:"old,omitempty"`
	New *struct {
		Path string `json:"path,omitempty"`
	} `json:"new,omitempty"`
}

// Path returns the most relevant path for a diffstat entry: the new
// path when present, else the old one.
func (d *DiffStat) Path() string {
	if d.New != nil && d.New.Path != "" {
		return d.New.Path
	}
	if d.Old != nil {
		return d.Old.Path
	}
	return ""
}
