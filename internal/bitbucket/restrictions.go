package bitbucket

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
)

// ListBranchRestrictionsOptions filters the restriction listing.
type ListBranchRestrictionsOptions struct {
	Limit   int
	Kind    string
	Pattern string
}

// ListBranchRestrictions lists branch protection rules.
func (c *Client) ListBranchRestrictions(ctx context.Context, slug string, opts ListBranchRestrictionsOptions) ([]BranchRestriction, error) {
	return listPage[BranchRestriction](ctx, c, c.repoPath(slug, "branch-restrictions"), listOptions{
		limit: opts.Limit,
		params: map[string]string{
			"kind":    opts.Kind,
			"pattern": opts.Pattern,
		},
	})
}

// GetBranchRestriction fetches one rule by id; nil means not found.
func (c *Client) GetBranchRestriction(ctx context.Context, slug string, id int) (*BranchRestriction, error) {
	return getJSON[BranchRestriction](ctx, c, c.repoPath(slug, "branch-restrictions", strconv.Itoa(id)), nil)
}

// CreateBranchRestrictionInput describes a branch protection rule.
// User strings starting with "{" are treated as UUIDs, anything else
// as account IDs; groups are workspace group slugs.
type CreateBranchRestrictionInput struct {
	Kind    string // e.g. push, force, delete, require_approvals_to_merge
	Pattern string // glob matched against branch names
	Users   []string
	Groups  []string
	Value   *int // for kinds carrying a numeric threshold
}

func (in *CreateBranchRestrictionInput) payload() (map[string]interface{}, error) {
	if in.Kind == "" {
		return nil, errors.New("branch restriction kind is required")
	}
	if in.Pattern == "" {
		return nil, errors.New("branch restriction pattern is required")
	}
	payload := map[string]interface{}{
		"kind":              in.Kind,
		"pattern":           in.Pattern,
		"branch_match_kind": "glob",
	}
	if len(in.Users) > 0 {
		users := make([]map[string]string, 0, len(in.Users))
		for _, u := range in.Users {
			if strings.HasPrefix(u, "{") {
				users = append(users, map[string]string{"uuid": u})
			} else {
				users = append(users, map[string]string{"account_id": u})
			}
		}
		payload["users"] = users
	}
	if len(in.Groups) > 0 {
		groups := make([]map[string]string, 0, len(in.Groups))
		for _, g := range in.Groups {
			groups = append(groups, map[string]string{"slug": g})
		}
		payload["groups"] = groups
	}
	if in.Value != nil {
		payload["value"] = *in.Value
	}
	return payload, nil
}

// CreateBranchRestriction creates a branch protection rule.
func (c *Client) CreateBranchRestriction(ctx context.Context, slug string, in CreateBranchRestrictionInput) (*BranchRestriction, error) {
	payload, err := in.payload()
	if err != nil {
		return nil, err
	}
	r, err := mutateJSON[BranchRestriction](ctx, c, http.MethodPost, c.repoPath(slug, "branch-restrictions"), payload)
	if err != nil {
		return nil, err
	}
	if r == nil {
		return nil, fmt.Errorf("create branch restriction on %s returned no result", slug)
	}
	return r, nil
}

// UpdateBranchRestriction replaces a rule by id.
func (c *Client) UpdateBranchRestriction(ctx context.Context, slug string, id int, in CreateBranchRestrictionInput) (*BranchRestriction, error) {
	payload, err := in.payload()
	if err != nil {
		return nil, err
	}
	r, err := mutateJSON[BranchRestriction](ctx, c, http.MethodPut, c.repoPath(slug, "branch-restrictions", strconv.Itoa(id)), payload)
	if err != nil {
		return nil, err
	}
	if r == nil {
		return nil, fmt.Errorf("update branch restriction %d on %s returned no result", id, slug)
	}
	return r, nil
}

// DeleteBranchRestriction removes a rule by id.
func (c *Client) DeleteBranchRestriction(ctx context.Context, slug string, id int) error {
	_, err := c.do(ctx, http.MethodDelete, c.repoPath(slug, "branch-restrictions", strconv.Itoa(id)), nil, nil)
	return err
}
