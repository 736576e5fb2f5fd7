// Package git reports which revision of the script suite is being
// installed when the source directory lives in a git checkout.
package git

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// errStop ends a commit iteration early
var errStop = errors.New("stop")

// Repo represents the git checkout containing the source directory
type Repo struct {
	Path string
	root string
	repo *git.Repository
}

// NewRepo opens the repository containing path, searching parent
// directories. The result reports IsRepo() == false when there is none.
func NewRepo(path string) *Repo {
	r := &Repo{Path: path}
	repo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return r
	}
	r.repo = repo

	if worktree, err := repo.Worktree(); err == nil {
		r.root = worktree.Filesystem.Root()
	}
	return r
}

// IsRepo checks if the path is inside a git repository
func (r *Repo) IsRepo() bool {
	return r.repo != nil
}

// Revision describes the checked out commit
type Revision struct {
	Branch  string // Short branch name, empty on a detached HEAD
	Hash    string // Abbreviated commit hash
	Subject string // First line of the commit message
	When    time.Time
	Dirty   bool // Uncommitted changes in the worktree
}

// String renders the revision as "branch@hash" with a "*" when dirty
func (rev *Revision) String() string {
	s := rev.Hash
	if rev.Branch != "" {
		s = rev.Branch + "@" + rev.Hash
	}
	if rev.Dirty {
		s += "*"
	}
	return s
}

// Revision returns the checked out commit
func (r *Repo) Revision() (*Revision, error) {
	if r.repo == nil {
		return nil, fmt.Errorf("not a git repository")
	}

	head, err := r.repo.Head()
	if err != nil {
		return nil, err
	}

	commit, err := r.repo.CommitObject(head.Hash())
	if err != nil {
		return nil, err
	}

	rev := &Revision{
		Hash:    head.Hash().String()[:7],
		Subject: firstLine(commit.Message),
		When:    commit.Author.When,
	}
	if head.Name().IsBranch() {
		rev.Branch = head.Name().Short()
	}

	if worktree, err := r.repo.Worktree(); err == nil {
		if status, err := worktree.Status(); err == nil {
			rev.Dirty = !status.IsClean()
		}
	}

	return rev, nil
}

// CurrentBranch returns the current branch name
func (r *Repo) CurrentBranch() string {
	if r.repo == nil {
		return "unknown"
	}

	head, err := r.repo.Head()
	if err != nil {
		return "unknown"
	}
	return head.Name().Short()
}

// CommitInfo holds commit information
type CommitInfo struct {
	Hash    string
	Message string
	Author  string
	Date    string
}

// LastChange returns the most recent commit touching path, or nil when the
// file has never been committed
func (r *Repo) LastChange(path string) (*CommitInfo, error) {
	if r.repo == nil {
		return nil, fmt.Errorf("not a git repository")
	}

	rel, err := r.relative(path)
	if err != nil {
		return nil, err
	}

	head, err := r.repo.Head()
	if err != nil {
		return nil, err
	}

	commitIter, err := r.repo.Log(&git.LogOptions{From: head.Hash(), FileName: &rel})
	if err != nil {
		return nil, err
	}
	defer commitIter.Close()

	var info *CommitInfo
	err = commitIter.ForEach(func(c *object.Commit) error {
		info = &CommitInfo{
			Hash:    c.Hash.String()[:7],
			Message: firstLine(c.Message),
			Author:  c.Author.Name,
			Date:    c.Author.When.Format("2006-01-02 15:04"),
		}
		return errStop
	})
	if err != nil && !errors.Is(err, errStop) {
		return nil, err
	}

	return info, nil
}

// relative converts path to a slash separated path inside the worktree
func (r *Repo) relative(path string) (string, error) {
	if r.root == "" {
		return "", fmt.Errorf("repository has no worktree")
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	// Resolve symlinks on both sides (t.TempDir on macOS lives under /private)
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		abs = resolved
	}
	root := r.root
	if resolved, err := filepath.EvalSymlinks(root); err == nil {
		root = resolved
	}

	rel, err := filepath.Rel(root, abs)
	if err != nil {
		return "", err
	}
	if strings.HasPrefix(rel, "..") {
		return "", fmt.Errorf("%s is outside the repository", path)
	}
	return filepath.ToSlash(rel), nil
}

func firstLine(s string) string {
	return strings.TrimSpace(strings.SplitN(s, "\n", 2)[0])
}
