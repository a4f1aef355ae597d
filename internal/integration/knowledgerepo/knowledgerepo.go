// Package knowledgerepo reads the markdown wiki from its GitLab project.
package knowledgerepo

import (
	"context"
	"fmt"
	"path"
	"strings"

	gitlab "gitlab.com/gitlab-org/api/client-go"

	"github.com/Acurioustractor/act-global-infrastructure-sub005/core/config"
)

// File is a markdown blob in the repository tree. SHA is the blob id and
// changes whenever the content does.
type File struct {
	Path string
	SHA  string
}

type Repo interface {
	ListMarkdown(ctx context.Context) ([]File, error)
	ReadFile(ctx context.Context, filePath string) ([]byte, error)
	// Root is the directory notes live under, used to build slugs.
	Root() string
}

type gitlabRepo struct {
	client    *gitlab.Client
	projectID string
	ref       string
	root      string
}

func New(cfg config.KnowledgeRepoConfig) (Repo, error) {
	client, err := gitlab.NewClient(cfg.Token, gitlab.WithBaseURL(cfg.BaseURL))
	if err != nil {
		return nil, fmt.Errorf("creating gitlab client: %w", err)
	}
	ref := cfg.Ref
	if ref == "" {
		ref = "main"
	}
	return &gitlabRepo{
		client:    client,
		projectID: cfg.ProjectID,
		ref:       ref,
		root:      strings.Trim(cfg.Root, "/"),
	}, nil
}

func (r *gitlabRepo) Root() string {
	return r.root
}

func (r *gitlabRepo) ListMarkdown(ctx context.Context) ([]File, error) {
	opts := &gitlab.ListTreeOptions{
		Ref:       gitlab.Ptr(r.ref),
		Recursive: gitlab.Ptr(true),
		ListOptions: gitlab.ListOptions{
			Page:    1,
			PerPage: 100,
		},
	}
	if r.root != "" {
		opts.Path = gitlab.Ptr(r.root)
	}

	var files []File
	for {
		nodes, resp, err := r.client.Repositories.ListTree(r.projectID, opts, gitlab.WithContext(ctx))
		if err != nil {
			return nil, fmt.Errorf("listing repository tree: %w", err)
		}

		for _, n := range nodes {
			if n.Type == "blob" && IsMarkdown(n.Path) {
				files = append(files, File{Path: n.Path, SHA: n.ID})
			}
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	return files, nil
}

func (r *gitlabRepo) ReadFile(ctx context.Context, filePath string) ([]byte, error) {
	data, _, err := r.client.RepositoryFiles.GetRawFile(
		r.projectID,
		filePath,
		&gitlab.GetRawFileOptions{Ref: gitlab.Ptr(r.ref)},
		gitlab.WithContext(ctx),
	)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", filePath, err)
	}
	return data, nil
}

// IsMarkdown reports whether p names a markdown note. Files whose base name
// starts with "_" or "." are partials and skipped.
func IsMarkdown(p string) bool {
	base := path.Base(p)
	if strings.HasPrefix(base, "_") || strings.HasPrefix(base, ".") {
		return false
	}
	ext := strings.ToLower(path.Ext(base))
	return ext == ".md" || ext == ".mdx" || ext == ".markdown"
}
