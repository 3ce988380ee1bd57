package sourcedb_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/shade/internal/adapters/fs"
	"go.trai.ch/shade/internal/core/domain"
	"go.trai.ch/shade/internal/core/ports/mocks"
	"go.trai.ch/shade/internal/engine/sourcedb"
	"go.uber.org/mock/gomock"
)

var baseTime = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func newDB() *sourcedb.DB {
	return sourcedb.New(fs.NewFileSystem(), fs.NewHasher())
}

// writeFile writes content to dir/name and pins its modification time.
func writeFile(t *testing.T, dir, name, content string, mtime time.Time) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	require.NoError(t, os.Chtimes(path, mtime, mtime))
	return path
}

func TestLoad_Idempotent(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "a.fs", "void main() {}\n", baseTime)
	db := newDB()

	id1, err := db.Load(path)
	require.NoError(t, err)
	id2, err := db.Load(path)
	require.NoError(t, err)

	assert.Equal(t, id1, id2)
	assert.Equal(t, 1, db.Len())

	src, ok := db.Source(id1)
	require.True(t, ok)
	assert.Equal(t, "void main() {}\n", src.Text)
	assert.Equal(t, path, src.Path.String())
	assert.True(t, baseTime.Equal(src.ModTime))
}

func TestLoad_RelativePathIsAbsolutized(t *testing.T) {
	dir, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)
	path := writeFile(t, dir, "a.fs", "x", baseTime)
	t.Chdir(dir)
	db := newDB()

	id, err := db.Load("a.fs")
	require.NoError(t, err)

	abs, err := db.Load(path)
	require.NoError(t, err)
	assert.Equal(t, id, abs)

	got, ok := db.Lookup("./a.fs")
	require.True(t, ok)
	assert.Equal(t, id, got)
}

func TestLoad_RefreshOnChange(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "a.fs", "A", baseTime)
	db := newDB()

	id, err := db.Load(path)
	require.NoError(t, err)
	before, _ := db.Source(id)

	writeFile(t, dir, "a.fs", "B", baseTime.Add(time.Second))

	again, err := db.Load(path)
	require.NoError(t, err)
	assert.Equal(t, id, again)

	after, _ := db.Source(id)
	assert.Equal(t, "B", after.Text)
	assert.NotEqual(t, before.Digest, after.Digest)
	assert.True(t, baseTime.Add(time.Second).Equal(after.ModTime))
}

func TestLoad_NoRefreshWhenNotNewer(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "a.fs", "A", baseTime)
	db := newDB()

	id, err := db.Load(path)
	require.NoError(t, err)

	// Same timestamp: content change is not observed.
	writeFile(t, dir, "a.fs", "B", baseTime)
	_, err = db.Load(path)
	require.NoError(t, err)
	src, _ := db.Source(id)
	assert.Equal(t, "A", src.Text)

	// Older timestamp: still not observed.
	writeFile(t, dir, "a.fs", "C", baseTime.Add(-time.Hour))
	_, err = db.Load(path)
	require.NoError(t, err)
	src, _ = db.Source(id)
	assert.Equal(t, "A", src.Text)
}

func TestLoad_Errors(t *testing.T) {
	t.Run("unreadable", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		fsMock := mocks.NewMockFileSystem(ctrl)
		fsMock.EXPECT().ReadFile("/s/a.fs").Return(nil, errors.New("permission denied"))

		db := sourcedb.New(fsMock, fs.NewHasher())
		_, err := db.Load("/s/a.fs")
		require.ErrorContains(t, err, domain.ErrSourceRead.Error())
		assert.Equal(t, 0, db.Len())
	})

	t.Run("unstatable", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		fsMock := mocks.NewMockFileSystem(ctrl)
		fsMock.EXPECT().ReadFile("/s/a.fs").Return([]byte("x"), nil)
		fsMock.EXPECT().ModTime("/s/a.fs").Return(time.Time{}, errors.New("stat failed"))

		db := sourcedb.New(fsMock, fs.NewHasher())
		_, err := db.Load("/s/a.fs")
		require.ErrorContains(t, err, domain.ErrSourceStat.Error())
		assert.Equal(t, 0, db.Len())
	})

	t.Run("refresh failure keeps cached node", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		fsMock := mocks.NewMockFileSystem(ctrl)
		gomock.InOrder(
			fsMock.EXPECT().ReadFile("/s/a.fs").Return([]byte("A"), nil),
			fsMock.EXPECT().ModTime("/s/a.fs").Return(baseTime, nil),
			fsMock.EXPECT().ModTime("/s/a.fs").Return(baseTime.Add(time.Second), nil),
			fsMock.EXPECT().ReadFile("/s/a.fs").Return(nil, errors.New("gone")),
		)

		db := sourcedb.New(fsMock, fs.NewHasher())
		id, err := db.Load("/s/a.fs")
		require.NoError(t, err)

		_, err = db.Load("/s/a.fs")
		require.ErrorContains(t, err, domain.ErrSourceRead.Error())

		src, ok := db.Source(id)
		require.True(t, ok)
		assert.Equal(t, "A", src.Text)
		assert.True(t, baseTime.Equal(src.ModTime))
	})
}

func TestResolveIncludes(t *testing.T) {
	dir := t.TempDir()
	main := writeFile(t, dir, "post.fs", "#include \"lib/noise.glsl\"\n#include 'common.glsl'\nvoid main() {}\n", baseTime)
	noise := writeFile(t, dir, "lib/noise.glsl", "#include \"../common.glsl\"\nfloat noise();\n", baseTime)
	common := writeFile(t, dir, "common.glsl", "uniform float time;\n", baseTime)
	db := newDB()

	id, err := db.Load(main)
	require.NoError(t, err)
	require.NoError(t, db.ResolveIncludes(id))

	noiseID, ok := db.Lookup(noise)
	require.True(t, ok)
	commonID, ok := db.Lookup(common)
	require.True(t, ok)

	assert.Equal(t, []domain.NodeID{noiseID, commonID}, db.Includes(id))
	assert.Equal(t, []domain.NodeID{commonID}, db.Includes(noiseID))
	assert.Equal(t, 3, db.Len())

	// Resolving again does not duplicate edges or nodes.
	require.NoError(t, db.ResolveIncludes(id))
	assert.Equal(t, []domain.NodeID{noiseID, commonID}, db.Includes(id))
	assert.Equal(t, 3, db.Len())
}

func TestResolveIncludes_AbsolutePath(t *testing.T) {
	dir := t.TempDir()
	shared := writeFile(t, dir, "shared/lights.glsl", "LIGHTS\n", baseTime)
	main := writeFile(t, dir, "deep/nested/a.fs", "#include \""+shared+"\"\n", baseTime)
	db := newDB()

	id, err := db.Load(main)
	require.NoError(t, err)
	require.NoError(t, db.ResolveIncludes(id))

	text, err := db.Link(id)
	require.NoError(t, err)
	assert.Equal(t, "LIGHTS\n", text)
}

func TestResolveIncludes_DropsRemovedInclude(t *testing.T) {
	dir := t.TempDir()
	main := writeFile(t, dir, "a.fs", "#include \"b.glsl\"\nmain\n", baseTime)
	writeFile(t, dir, "b.glsl", "B\n", baseTime)
	db := newDB()

	id, err := db.Load(main)
	require.NoError(t, err)
	require.NoError(t, db.ResolveIncludes(id))
	require.Len(t, db.Includes(id), 1)

	writeFile(t, dir, "a.fs", "main\n", baseTime.Add(time.Second))
	_, err = db.Load(main)
	require.NoError(t, err)
	require.NoError(t, db.ResolveIncludes(id))

	assert.Empty(t, db.Includes(id))
	// The included source stays loaded.
	assert.Equal(t, 2, db.Len())
}

func TestResolveIncludes_MissingFile(t *testing.T) {
	dir := t.TempDir()
	main := writeFile(t, dir, "a.fs", "#include \"nope.glsl\"\n", baseTime)
	db := newDB()

	id, err := db.Load(main)
	require.NoError(t, err)

	err = db.ResolveIncludes(id)
	require.ErrorContains(t, err, domain.ErrSourceRead.Error())
}

func TestResolveIncludes_UnknownNode(t *testing.T) {
	err := newDB().ResolveIncludes(7)
	require.ErrorContains(t, err, domain.ErrSourceNotFound.Error())
}

func TestCycleSafety(t *testing.T) {
	tests := []struct {
		name  string
		files map[string]string
		root  string
		chain []string
	}{
		{
			name:  "self include",
			files: map[string]string{"a.glsl": "#include \"a.glsl\"\n"},
			root:  "a.glsl",
			chain: []string{"a.glsl", "a.glsl"},
		},
		{
			name: "mutual include",
			files: map[string]string{
				"a.glsl": "#include \"b.glsl\"\n",
				"b.glsl": "#include \"a.glsl\"\n",
			},
			root:  "a.glsl",
			chain: []string{"a.glsl", "b.glsl", "a.glsl"},
		},
		{
			name: "cycle below the root",
			files: map[string]string{
				"root.fs": "#include \"b.glsl\"\n",
				"b.glsl":  "#include \"c.glsl\"\n",
				"c.glsl":  "#include \"b.glsl\"\n",
			},
			root:  "root.fs",
			chain: []string{"b.glsl", "c.glsl", "b.glsl"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			for name, content := range tt.files {
				writeFile(t, dir, name, content, baseTime)
			}
			db := newDB()

			id, err := db.Load(filepath.Join(dir, tt.root))
			require.NoError(t, err)

			err = db.ResolveIncludes(id)
			require.ErrorIs(t, err, domain.ErrCyclicInclude)

			var cyc *domain.CyclicIncludeError
			require.ErrorAs(t, err, &cyc)
			want := make([]string, len(tt.chain))
			for i, name := range tt.chain {
				want[i] = filepath.Join(dir, name)
			}
			assert.Equal(t, want, cyc.Chain)
		})
	}
}

func TestLink_CycleSafety(t *testing.T) {
	// b is edited to include its includer; neither resolving nor linking may recurse forever.
	dir := t.TempDir()
	a := writeFile(t, dir, "a.glsl", "#include \"b.glsl\"\n", baseTime)
	writeFile(t, dir, "b.glsl", "B\n", baseTime)
	db := newDB()

	id, err := db.Load(a)
	require.NoError(t, err)
	require.NoError(t, db.ResolveIncludes(id))

	writeFile(t, dir, "b.glsl", "#include \"a.glsl\"\n", baseTime.Add(time.Second))
	bID, _ := db.Lookup(filepath.Join(dir, "b.glsl"))
	_, err = db.Load(filepath.Join(dir, "b.glsl"))
	require.NoError(t, err)

	err = db.ResolveIncludes(id)
	require.ErrorIs(t, err, domain.ErrCyclicInclude)

	_, err = db.Link(id)
	require.Error(t, err)
	_, err = db.Link(bID)
	require.Error(t, err)
}

func TestLink_IncludeFlattening(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.glsl", "before\n#include \"b.glsl\"\nafter\n", baseTime)
	writeFile(t, dir, "b.glsl", "X", baseTime)
	db := newDB()

	id, err := db.Load(a)
	require.NoError(t, err)
	require.NoError(t, db.ResolveIncludes(id))

	text, err := db.Link(id)
	require.NoError(t, err)
	assert.Equal(t, "before\nX\nafter\n", text)
}

func TestLink_Golden(t *testing.T) {
	dir := t.TempDir()
	post := writeFile(t, dir, "post.fs", `#version 330 core
#include "lib/common.glsl"
#include 'lib/tonemap.glsl'

in vec2 uv;
out vec4 color;

void main() {
    color = vec4(tonemap(texture(scene, uv).rgb * exposure), 1.0);
}
`, baseTime)
	writeFile(t, dir, "lib/common.glsl", `uniform sampler2D scene;
uniform float exposure;
`, baseTime)
	writeFile(t, dir, "lib/tonemap.glsl", `  #include "common.glsl"
vec3 tonemap(vec3 c) {
    return c / (c + vec3(1.0));
}
`, baseTime)
	db := newDB()

	id, err := db.Load(post)
	require.NoError(t, err)
	require.NoError(t, db.ResolveIncludes(id))

	text, err := db.Link(id)
	require.NoError(t, err)

	g := goldie.New(t)
	g.Assert(t, "post_linked", []byte(text))

	closure, err := db.Closure(id)
	require.NoError(t, err)
	require.Len(t, closure, 3)
	assert.Equal(t, id, closure[0])
}

func TestLink_Pure(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.fs", "#include \"b.glsl\"\nmain\n", baseTime)
	writeFile(t, dir, "b.glsl", "B\n", baseTime)
	db := newDB()

	id, err := db.Load(a)
	require.NoError(t, err)
	require.NoError(t, db.ResolveIncludes(id))

	first, err := db.Link(id)
	require.NoError(t, err)
	second, err := db.Link(id)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 2, db.Len())
}

func TestLink_IncludeNotResolved(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.fs", "#include \"b.glsl\"\n", baseTime)
	writeFile(t, dir, "b.glsl", "B\n", baseTime)
	db := newDB()

	id, err := db.Load(a)
	require.NoError(t, err)

	_, err = db.Link(id)
	require.ErrorContains(t, err, domain.ErrIncludeNotResolved.Error())
}

func TestClosure_Diamond(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.fs", "#include \"b.glsl\"\n#include \"c.glsl\"\n", baseTime)
	writeFile(t, dir, "b.glsl", "#include \"d.glsl\"\n", baseTime)
	writeFile(t, dir, "c.glsl", "#include \"d.glsl\"\n", baseTime)
	writeFile(t, dir, "d.glsl", "D\n", baseTime)
	db := newDB()

	id, err := db.Load(a)
	require.NoError(t, err)
	require.NoError(t, db.ResolveIncludes(id))

	b, _ := db.Lookup(filepath.Join(dir, "b.glsl"))
	c, _ := db.Lookup(filepath.Join(dir, "c.glsl"))
	d, _ := db.Lookup(filepath.Join(dir, "d.glsl"))

	closure, err := db.Closure(id)
	require.NoError(t, err)
	assert.Equal(t, []domain.NodeID{id, b, d, c}, closure)

	text, err := db.Link(id)
	require.NoError(t, err)
	assert.Equal(t, "D\nD\n", text)
}

func TestWatched(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.fs", "#include \"lib/b.glsl\"\n#include \"c.glsl\"\n", baseTime)
	b := writeFile(t, dir, "lib/b.glsl", "#include \"../a.fs\"\n", baseTime.Add(time.Minute))
	db := newDB()

	id, err := db.Load(a)
	require.NoError(t, err)
	// c.glsl is missing and lib/b.glsl closes a cycle; both fail resolution.
	require.Error(t, db.ResolveIncludes(id))

	watched := db.Watched([]string{a, filepath.Join(dir, "gone.fs")})
	require.Len(t, watched, 4)

	assert.Equal(t, a, watched[0].Path)
	assert.True(t, watched[0].Loaded)
	assert.Equal(t, id, watched[0].ID)
	assert.True(t, baseTime.Equal(watched[0].ModTime))

	assert.Equal(t, b, watched[1].Path)
	assert.True(t, watched[1].Loaded)
	assert.True(t, baseTime.Add(time.Minute).Equal(watched[1].ModTime))

	assert.Equal(t, sourcedb.Watched{Path: filepath.Join(dir, "c.glsl")}, watched[2])
	assert.Equal(t, sourcedb.Watched{Path: filepath.Join(dir, "gone.fs")}, watched[3])
}

func TestRemove(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.fs", "#include \"b.glsl\"\n", baseTime)
	b := writeFile(t, dir, "b.glsl", "B\n", baseTime)
	db := newDB()

	id, err := db.Load(a)
	require.NoError(t, err)
	require.NoError(t, db.ResolveIncludes(id))
	bID, _ := db.Lookup(b)

	assert.True(t, db.Remove(bID))
	assert.False(t, db.Remove(bID))
	assert.Empty(t, db.Includes(id))
	_, ok := db.Lookup(b)
	assert.False(t, ok)

	// Reloading issues a fresh id.
	again, err := db.Load(b)
	require.NoError(t, err)
	assert.NotEqual(t, bID, again)
}
