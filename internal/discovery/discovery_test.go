package discovery

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFiles(t *testing.T, root string, names ...string) {
	t.Helper()
	for _, name := range names {
		p := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte("x\n"), 0o644))
	}
}

func rel(t *testing.T, info *Info) []string {
	t.Helper()
	out := make([]string, 0, len(info.Files))
	for _, f := range info.Files {
		r, err := filepath.Rel(info.Root, f)
		require.NoError(t, err)
		out = append(out, filepath.ToSlash(r))
	}
	return out
}

const (
	early  = "2024/01/15/123456789012_elasticloadbalancing_us-east-1_app.lb_20240115T0305Z_10.0.0.1_abc.log.gz"
	noon   = "2024/01/15/123456789012_elasticloadbalancing_us-east-1_app.lb_20240115T1200Z_10.0.0.1_def.log.gz"
	late   = "2024/01/15/123456789012_elasticloadbalancing_us-east-1_app.lb_20240115T2330Z_10.0.0.1_ghi.log.gz"
	plain  = "notes/readme.txt"
	hidden = "2024/01/15/.partial"
)

func TestDiscover_AllFiles(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, noon, early, late, plain)

	info, err := Discover(root, Options{})
	require.NoError(t, err)

	assert.Equal(t, []string{early, noon, late, plain}, rel(t, info))
	assert.Equal(t, int64(8), info.TotalSize)
}

func TestDiscover_Pattern(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, noon, plain)

	info, err := Discover(root, Options{Pattern: "**/*.log.gz"})
	require.NoError(t, err)
	assert.Equal(t, []string{noon}, rel(t, info))
}

func TestDiscover_Exclude(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, noon, plain, hidden)

	info, err := Discover(root, Options{Exclude: []string{".*", "notes/**"}})
	require.NoError(t, err)
	assert.Equal(t, []string{noon}, rel(t, info))
	assert.Equal(t, 2, info.Excluded)
}

func TestDiscover_Window(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, early, noon, late, plain)

	tests := []struct {
		name    string
		start   string
		end     string
		want    []string
		outside int
	}{
		{name: "business hours", start: "08:00", end: "17:00", want: []string{noon}, outside: 3},
		{name: "start only", start: "12:00", want: []string{noon, late}, outside: 2},
		{name: "end only", end: "12:00", want: []string{early}, outside: 3},
		{name: "end is exclusive", start: "03:00", end: "12:00", want: []string{early}, outside: 3},
		{name: "wraps midnight", start: "23:00", end: "04:00", want: []string{early, late}, outside: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, err := NewWindow(tt.start, tt.end)
			require.NoError(t, err)

			info, err := Discover(root, Options{Window: w})
			require.NoError(t, err)
			assert.Equal(t, tt.want, rel(t, info))
			assert.Equal(t, tt.outside, info.OutsideWindow)
		})
	}
}

func TestDiscover_MaxFiles(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, early, noon, late)

	info, err := Discover(root, Options{MaxFiles: 2})
	require.NoError(t, err)
	assert.Equal(t, []string{early, noon}, rel(t, info))
}

func TestDiscover_Empty(t *testing.T) {
	info, err := Discover(t.TempDir(), Options{})
	require.NoError(t, err)
	assert.Empty(t, info.Files)
}

func TestDiscover_Errors(t *testing.T) {
	root := t.TempDir()
	file := filepath.Join(root, "file.log")
	require.NoError(t, os.WriteFile(file, nil, 0o644))

	tests := []struct {
		name string
		root string
		opts Options
	}{
		{name: "missing root", root: filepath.Join(root, "missing")},
		{name: "root is a file", root: file},
		{name: "bad pattern", root: root, opts: Options{Pattern: "[unterminated"}},
		{name: "bad exclude", root: root, opts: Options{Exclude: []string{"[oops"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Discover(tt.root, tt.opts)
			var derr *Error
			require.True(t, errors.As(err, &derr), "expected *discovery.Error, got %v", err)
			assert.Equal(t, tt.root, derr.Root)
		})
	}
}

func TestParseTimeOfDay(t *testing.T) {
	tests := []struct {
		in      string
		want    time.Duration
		wantErr bool
	}{
		{in: "00:00", want: 0},
		{in: "08:30", want: 8*time.Hour + 30*time.Minute},
		{in: "23:59:59", want: 23*time.Hour + 59*time.Minute + 59*time.Second},
		{in: " 12:00 ", want: 12 * time.Hour},
		{in: "24:00", wantErr: true},
		{in: "8am", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseTimeOfDay(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, TimeOfDay(tt.want), got)
		})
	}
}

func TestFileTimeOfDay(t *testing.T) {
	got, ok := FileTimeOfDay("123_elasticloadbalancing_eu-west-1_app.lb_20240115T2330Z_10.0.0.1_x.log.gz")
	require.True(t, ok)
	assert.Equal(t, "23:30:00", got.String())

	got, ok = FileTimeOfDay("svc-20240115T083015Z.log")
	require.True(t, ok)
	assert.Equal(t, "08:30:15", got.String())

	_, ok = FileTimeOfDay("access.log")
	assert.False(t, ok)

	_, ok = FileTimeOfDay("bad-20241399T9999Z.log")
	assert.False(t, ok)
}

func TestWindow(t *testing.T) {
	var nilWindow *Window
	assert.True(t, nilWindow.IsOpen())
	assert.True(t, nilWindow.Contains(0))
	assert.Equal(t, "any time", nilWindow.String())

	w, err := NewWindow("08:00", "")
	require.NoError(t, err)
	assert.Equal(t, "[08:00:00, 24:00:00)", w.String())

	_, err = NewWindow("nope", "")
	assert.Error(t, err)
	_, err = NewWindow("", "nope")
	assert.Error(t, err)
}
