package gitmirror

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gitIn(t *testing.T, dir string, args ...string) string {
	t.Helper()
	args = append([]string{
		"-c", "user.name=test",
		"-c", "user.email=test@example.com",
	}, args...)
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	require.NoError(t, err, string(out))
	return string(out)
}

// newOriginRepo builds a bare-ish origin with one committed document.
func newOriginRepo(t *testing.T) string {
	t.Helper()
	origin := t.TempDir()
	gitIn(t, origin, "init", "-b", "main")
	require.NoError(t, os.MkdirAll(filepath.Join(origin, "content"), 0o755))
	require.NoError(t, os.WriteFile(
		filepath.Join(origin, "content", "hello-world.md"),
		[]byte("---\ntitle: \"Hello\"\n---\n\n# Hello\n"), 0o644))
	gitIn(t, origin, "add", "-A")
	gitIn(t, origin, "commit", "-m", "seed")
	// Allow pulling from this repo while it has a checked-out branch.
	gitIn(t, origin, "config", "receive.denyCurrentBranch", "ignore")
	return origin
}

func newTestMirror(t *testing.T) (*Mirror, string) {
	t.Helper()
	origin := newOriginRepo(t)
	m := New(Config{
		URL:         origin,
		Branch:      "main",
		LocalPath:   filepath.Join(t.TempDir(), "mirror"),
		ContentPath: "content/",
	})
	require.NoError(t, m.Initialize())
	return m, origin
}

func TestInitializeClonesAndReopens(t *testing.T) {
	m, _ := newTestMirror(t)

	content, ok := m.ReadFile("content/hello-world.md")
	require.True(t, ok)
	assert.Contains(t, content, "# Hello")

	// Second Initialize must open the existing copy, not re-clone.
	require.NoError(t, m.Initialize())
}

func TestReadFileAbsentIsNotAnError(t *testing.T) {
	m, _ := newTestMirror(t)

	content, ok := m.ReadFile("content/no-such-post.md")
	assert.False(t, ok)
	assert.Empty(t, content)
}

func TestFindDocumentTriesExtensionsInOrder(t *testing.T) {
	m, _ := newTestMirror(t)

	path, ok := m.FindDocument("hello-world")
	require.True(t, ok)
	assert.Equal(t, "content/hello-world.md", path)

	require.NoError(t, m.WriteFile("content/fancy.md", "md body"))
	require.NoError(t, m.WriteFile("content/fancy.mdx", "mdx body"))
	path, ok = m.FindDocument("fancy")
	require.True(t, ok)
	assert.Equal(t, "content/fancy.md", path)

	require.NoError(t, m.WriteFile("content/only-mdx.mdx", "x"))
	path, ok = m.FindDocument("only-mdx")
	require.True(t, ok)
	assert.Equal(t, "content/only-mdx.mdx", path)

	_, ok = m.FindDocument("missing")
	assert.False(t, ok)

	assert.Equal(t, ".md", m.DocumentExtension("fancy"))
	assert.Equal(t, ".mdx", m.DocumentExtension("only-mdx"))
	assert.Equal(t, ".md", m.DocumentExtension("missing"))
}

func TestWriteFileCreatesParentDirectories(t *testing.T) {
	m, _ := newTestMirror(t)

	require.NoError(t, m.WriteFile("content/nested/deep/post.md", "body"))
	content, ok := m.ReadFile("content/nested/deep/post.md")
	require.True(t, ok)
	assert.Equal(t, "body", content)
}

func TestListDocuments(t *testing.T) {
	m, _ := newTestMirror(t)

	require.NoError(t, m.WriteFile("content/second.mdx", "x"))
	require.NoError(t, m.WriteFile("content/not-a-doc.txt", "x"))

	slugs := m.ListDocuments()
	assert.ElementsMatch(t, []string{"hello-world", "second"}, slugs)
}

func TestCommitWithoutTokenSkipsPush(t *testing.T) {
	m, _ := newTestMirror(t)

	require.NoError(t, m.WriteFile("content/new-post.md", "# New\n"))
	hash, err := m.CommitAndPush("Add new post")
	require.NoError(t, err)
	assert.Len(t, hash, 40)

	// Nothing staged: same HEAD comes back, no error.
	again, err := m.CommitAndPush("No-op")
	require.NoError(t, err)
	assert.Equal(t, hash, again)
}

func TestPullLatestPicksUpRemoteChanges(t *testing.T) {
	m, origin := newTestMirror(t)

	require.NoError(t, os.WriteFile(
		filepath.Join(origin, "content", "upstream.md"), []byte("upstream"), 0o644))
	gitIn(t, origin, "add", "-A")
	gitIn(t, origin, "commit", "-m", "upstream change")

	require.NoError(t, m.PullLatest())

	content, ok := m.ReadFile("content/upstream.md")
	require.True(t, ok)
	assert.Equal(t, "upstream", content)
}
