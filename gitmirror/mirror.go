// Package gitmirror owns the local working copy of the remote markdown
// repository. It wraps the git CLI for clone, pull, commit and push, and
// exposes plain file access over the working tree.
package gitmirror

import (
	"os"
	"os/exec"
	"path"
	"path/filepath"
	"strings"
	"sync"

	"github.com/hungpc/blog-backend/errs"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Commits are authored under a fixed service identity.
const (
	commitAuthorName  = "Blog System"
	commitAuthorEmail = "system@blog.local"
)

// Extensions tried, in order, when locating a document by slug.
var documentExtensions = []string{".md", ".mdx"}

type Config struct {
	// URL is the remote repository, e.g. https://github.com/user/notes.git
	URL string
	// Branch to track (default main).
	Branch string
	// LocalPath is where the working copy lives.
	LocalPath string
	// ContentPath is the directory of markdown documents inside the
	// repository, e.g. "content/".
	ContentPath string
	// Token is an optional access token. Without it commits stay local and
	// pushes are skipped.
	Token string
}

// Mirror is constructed once at process start and shared by reference.
// PullLatest and CommitAndPush both mutate the working tree and refs, so they
// share one mutex. Reads are deliberately not locked against a concurrent
// pull; per-file replacement is atomic enough for our access pattern.
type Mirror struct {
	cfg    Config
	logger zerolog.Logger

	mu sync.Mutex
}

func New(cfg Config) *Mirror {
	if cfg.Branch == "" {
		cfg.Branch = "main"
	}
	return &Mirror{
		cfg:    cfg,
		logger: log.With().Str("service", "gitmirror").Logger(),
	}
}

// Initialize opens the working copy if it exists, clones it otherwise, then
// pulls once. Must succeed before any other operation; callers treat failure
// as fatal to startup.
func (m *Mirror) Initialize() error {
	if _, err := os.Stat(filepath.Join(m.cfg.LocalPath, ".git")); err == nil {
		m.logger.Info().Str("path", m.cfg.LocalPath).Msg("opened existing working copy")
	} else {
		m.logger.Info().Str("url", m.cfg.URL).Str("path", m.cfg.LocalPath).Msg("cloning repository")
		if err := os.MkdirAll(filepath.Dir(m.cfg.LocalPath), 0o755); err != nil {
			return errs.NewMirrorError("clone", err)
		}
		if _, err := runGit("", "clone", "--branch", m.cfg.Branch, m.authURL(), m.cfg.LocalPath); err != nil {
			return errs.NewMirrorError("clone", err)
		}
		m.logger.Info().Msg("repository cloned")
	}

	return m.PullLatest()
}

// PullLatest fetches and merges remote changes into the working copy.
func (m *Mirror) PullLatest() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.logger.Info().Str("branch", m.cfg.Branch).Msg("pulling latest changes")
	if _, err := runGit(m.cfg.LocalPath, "pull", m.authURL(), m.cfg.Branch); err != nil {
		m.logger.Error().Err(err).Msg("pull failed")
		return errs.NewMirrorError("pull", err)
	}
	return nil
}

// ReadFile returns the content of a file relative to the repository root.
// An absent file yields ("", false), not an error.
func (m *Mirror) ReadFile(relativePath string) (string, bool) {
	data, err := os.ReadFile(filepath.Join(m.cfg.LocalPath, relativePath))
	if err != nil {
		if !os.IsNotExist(err) {
			m.logger.Error().Err(err).Str("path", relativePath).Msg("failed to read file")
		}
		return "", false
	}
	return string(data), true
}

// WriteFile creates or overwrites a file relative to the repository root,
// creating parent directories as needed.
func (m *Mirror) WriteFile(relativePath, content string) error {
	fullPath := filepath.Join(m.cfg.LocalPath, relativePath)
	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return errs.NewMirrorError("write", err)
	}
	if err := os.WriteFile(fullPath, []byte(content), 0o644); err != nil {
		return errs.NewMirrorError("write", err)
	}
	m.logger.Info().Str("path", relativePath).Int("bytes", len(content)).Msg("wrote file")
	return nil
}

func (m *Mirror) FileExists(relativePath string) bool {
	info, err := os.Stat(filepath.Join(m.cfg.LocalPath, relativePath))
	return err == nil && info.Mode().IsRegular()
}

// FindDocument locates the markdown document for a slug, trying each known
// extension in order, and returns its repository-relative path.
func (m *Mirror) FindDocument(slug string) (string, bool) {
	for _, ext := range documentExtensions {
		relativePath := m.DocumentPath(slug, ext)
		if m.FileExists(relativePath) {
			return relativePath, true
		}
	}
	return "", false
}

// DocumentPath returns the repository-relative path for a slug and extension.
func (m *Mirror) DocumentPath(slug, ext string) string {
	return path.Join(m.cfg.ContentPath, slug+ext)
}

// DocumentExtension returns the extension the slug's document actually uses,
// defaulting to the first candidate when none exists yet.
func (m *Mirror) DocumentExtension(slug string) string {
	for _, ext := range documentExtensions {
		if m.FileExists(m.DocumentPath(slug, ext)) {
			return ext
		}
	}
	return documentExtensions[0]
}

// ListDocuments returns the slugs of all markdown documents in the content
// directory.
func (m *Mirror) ListDocuments() []string {
	entries, err := os.ReadDir(filepath.Join(m.cfg.LocalPath, m.cfg.ContentPath))
	if err != nil {
		m.logger.Warn().Err(err).Msg("content directory not readable")
		return nil
	}

	var slugs []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		for _, ext := range documentExtensions {
			if strings.HasSuffix(name, ext) {
				slugs = append(slugs, strings.TrimSuffix(name, ext))
				break
			}
		}
	}
	return slugs
}

// CommitAndPush stages all working-tree changes, commits them under the
// service identity and returns the commit hash. The push is skipped (and
// logged) when no token is configured; with nothing staged the current HEAD
// is returned unchanged.
func (m *Mirror) CommitAndPush(message string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	status, err := runGit(m.cfg.LocalPath, "status", "--porcelain")
	if err != nil {
		return "", errs.NewMirrorError("status", err)
	}
	if strings.TrimSpace(status) == "" {
		m.logger.Info().Msg("nothing to commit")
		return m.headHash()
	}

	if _, err := runGit(m.cfg.LocalPath, "add", "-A"); err != nil {
		return "", errs.NewMirrorError("add", err)
	}

	_, err = runGit(m.cfg.LocalPath,
		"-c", "user.name="+commitAuthorName,
		"-c", "user.email="+commitAuthorEmail,
		"commit", "-m", message)
	if err != nil {
		return "", errs.NewMirrorError("commit", err)
	}

	hash, err := m.headHash()
	if err != nil {
		return "", err
	}
	m.logger.Info().Str("commit", shortHash(hash)).Str("message", firstLine(message)).Msg("committed")

	if m.cfg.Token == "" {
		m.logger.Warn().Msg("no git token configured, skipping push")
		return hash, nil
	}

	if _, err := runGit(m.cfg.LocalPath, "push", m.authURL(), "HEAD:"+m.cfg.Branch); err != nil {
		return "", errs.NewMirrorError("push", err)
	}
	m.logger.Info().Msg("pushed to remote")

	return hash, nil
}

// Close releases the working copy. The git CLI holds no long-lived handles,
// so this only marks the mirror as shut down in the logs.
func (m *Mirror) Close() {
	m.logger.Info().Msg("mirror closed")
}

func (m *Mirror) headHash() (string, error) {
	out, err := runGit(m.cfg.LocalPath, "rev-parse", "HEAD")
	if err != nil {
		return "", errs.NewMirrorError("rev-parse", err)
	}
	return strings.TrimSpace(out), nil
}

// authURL embeds the token into the remote URL so that credentials never
// land in the on-disk git config.
func (m *Mirror) authURL() string {
	if m.cfg.Token == "" || !strings.HasPrefix(m.cfg.URL, "https://") {
		return m.cfg.URL
	}
	return "https://" + m.cfg.Token + "@" + strings.TrimPrefix(m.cfg.URL, "https://")
}

func runGit(dir string, args ...string) (string, error) {
	cmd := exec.Command("git", args...)
	if dir != "" {
		cmd.Dir = dir
	}

	output, err := cmd.CombinedOutput()
	if err != nil {
		return string(output), &gitError{args: args, output: string(output), cause: err}
	}
	return string(output), nil
}

type gitError struct {
	args   []string
	output string
	cause  error
}

func (e *gitError) Error() string {
	return "git " + strings.Join(e.args, " ") + ": " + e.cause.Error() + "\n" + e.output
}

func (e *gitError) Unwrap() error {
	return e.cause
}

func shortHash(hash string) string {
	if len(hash) > 7 {
		return hash[:7]
	}
	return hash
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
