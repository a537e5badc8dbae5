package bitbucket

import (
	"context"
	"net/http"
	"strings"
)

// FileHistoryEntry is one revision of a file in its history listing.
type FileHistoryEntry struct {
	Path   string  `json:"path"`
	Size   int64   `json:"size,omitempty"`
	Commit *Commit `json:"commit,omitempty"`
}

// GetFileContent returns a file's raw contents at a ref (default
// main); nil means the ref or path does not exist.
func (c *Client) GetFileContent(ctx context.Context, slug, path, ref string) (*string, error) {
	if ref == "" {
		ref = DefaultDestinationBranch
	}
	return c.doText(ctx, http.MethodGet, c.srcPath(slug, ref, path), nil)
}

// ListDirectory lists entries under a directory at a ref (default
// main). An empty path lists the repository root.
func (c *Client) ListDirectory(ctx context.Context, slug, path, ref string, limit int) ([]DirectoryEntry, error) {
	if ref == "" {
		ref = DefaultDestinationBranch
	}
	return listPage[DirectoryEntry](ctx, c, c.srcPath(slug, ref, path), listOptions{limit: limit})
}

// GetFileHistory lists the revisions that touched a file at a ref
// (default main), newest first.
func (c *Client) GetFileHistory(ctx context.Context, slug, path, ref string, limit int) ([]FileHistoryEntry, error) {
	if ref == "" {
		ref = DefaultDestinationBranch
	}
	endpoint := c.repoPath(slug, "filehistory", ref, strings.TrimPrefix(path, "/"))
	return listPage[FileHistoryEntry](ctx, c, endpoint, listOptions{limit: limit})
}

func (c *Client) srcPath(slug, ref, path string) string {
	segments := []string{"src", ref}
	if trimmed := strings.Trim(path, "/"); trimmed != "" {
		segments = append(segments, trimmed)
	}
	return c.repoPath(slug, segments...)
}
