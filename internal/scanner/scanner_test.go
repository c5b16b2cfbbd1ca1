package scanner

import (
	"bytes"
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ulikunitz/xz"

	"github.com/wesleyorama2/lathist/internal/histogram"
	"github.com/wesleyorama2/lathist/internal/parser"
)

// albLine builds a minimal ALB style line with target_processing_time v.
func albLine(v string) string {
	return fmt.Sprintf("https 2024-01-15T12:00:00.000000Z app/lb/1 10.0.0.1:1234 10.0.0.2:80 0.001 %s 0.000 200 200 10 20 \"GET https://example.com:443/ HTTP/1.1\"", v)
}

func writeLog(t *testing.T, dir, name string, values ...string) string {
	t.Helper()
	lines := make([]string, 0, len(values))
	for _, v := range values {
		lines = append(lines, albLine(v))
	}
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o644))
	return path
}

func newScanner(t *testing.T, workers int, policy ErrorPolicy) *Scanner {
	t.Helper()
	p, err := parser.For(parser.SchemaV1, parser.Options{})
	require.NoError(t, err)
	return New(Options{Parser: p, Workers: workers, Policy: policy})
}

func runScan(t *testing.T, s *Scanner, paths []string) *Summary {
	t.Helper()
	summary, err := s.Run(context.Background(), paths, histogram.NewGlobal(histogram.DefaultLayout()))
	require.NoError(t, err)
	return summary
}

func TestRun_TwoFileExample(t *testing.T) {
	dir := t.TempDir()
	fileA := writeLog(t, dir, "a.log", "2.0", "2.0", "7.0")
	fileB := writeLog(t, dir, "b.log", "31.0", "-1.0", "5.0")

	summary := runScan(t, newScanner(t, 0, PolicyAbort), []string{fileA, fileB})

	assert.Equal(t, histogram.Histogram{0: 2, 5: 1, 30: 1}, summary.Result.Counts)
	assert.Equal(t, int64(4), summary.Result.Total)
	assert.Equal(t, int64(2), summary.Result.Excluded)
	assert.Equal(t, int64(2), summary.Files)
	assert.Equal(t, int64(6), summary.Lines)
	assert.Equal(t, int64(0), summary.ParseErrors)
	assert.NoError(t, summary.Err())
}

func TestRun_PoolSizeDoesNotChangeResult(t *testing.T) {
	dir := t.TempDir()
	var paths []string
	var covered int64
	for i := 0; i < 40; i++ {
		var values []string
		for j := 0; j < 50; j++ {
			v := float64((i*50+j)%400) / 10
			values = append(values, fmt.Sprintf("%.1f", v))
			if _, ok := histogram.DefaultLayout().Bucket(v); ok {
				covered++
			}
		}
		paths = append(paths, writeLog(t, dir, fmt.Sprintf("f%02d.log", i), values...))
	}

	serial := runScan(t, newScanner(t, 1, PolicyAbort), paths)
	parallel := runScan(t, newScanner(t, DefaultWorkers(), PolicyAbort), paths)

	assert.Equal(t, serial.Result.Counts, parallel.Result.Counts)
	assert.Equal(t, covered, serial.Result.Total)
	assert.Equal(t, covered, parallel.Result.Total)
	assert.Equal(t, int64(len(paths)), parallel.Result.Merges)
	assert.Equal(t, int64(40*50), parallel.Lines)
}

func TestRun_Empty(t *testing.T) {
	summary := runScan(t, newScanner(t, 0, PolicyAbort), nil)

	assert.Empty(t, summary.Result.Counts)
	assert.Equal(t, int64(0), summary.Result.Total)
	assert.Equal(t, int64(0), summary.Files)
}

func TestRun_SkipsParseErrorsAndBlankLines(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mixed.log")
	content := strings.Join([]string{
		albLine("2.0"),
		"",
		"garbage",
		"   ",
		albLine("not-a-number"),
		albLine("12.0") + "\r",
	}, "\n")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	summary := runScan(t, newScanner(t, 2, PolicyAbort), []string{path})

	assert.Equal(t, histogram.Histogram{0: 1, 10: 1}, summary.Result.Counts)
	assert.Equal(t, int64(4), summary.Lines)
	assert.Equal(t, int64(2), summary.ParseErrors)
}

func TestRun_Compressed(t *testing.T) {
	dir := t.TempDir()
	plain := strings.Join([]string{albLine("1.0"), albLine("6.0"), albLine("40.0")}, "\n") + "\n"

	var gz bytes.Buffer
	gw := gzip.NewWriter(&gz)
	_, err := gw.Write([]byte(plain))
	require.NoError(t, err)
	require.NoError(t, gw.Close())
	gzPath := filepath.Join(dir, "x_20240115T1200Z_a.log.gz")
	require.NoError(t, os.WriteFile(gzPath, gz.Bytes(), 0o644))

	var xzBuf bytes.Buffer
	xw, err := xz.NewWriter(&xzBuf)
	require.NoError(t, err)
	_, err = xw.Write([]byte(plain))
	require.NoError(t, err)
	require.NoError(t, xw.Close())
	// The extension is deliberately misleading; detection uses magic bytes.
	xzPath := filepath.Join(dir, "archive.log")
	require.NoError(t, os.WriteFile(xzPath, xzBuf.Bytes(), 0o644))

	summary := runScan(t, newScanner(t, 2, PolicyAbort), []string{gzPath, xzPath})

	assert.Equal(t, histogram.Histogram{0: 2, 5: 2, 30: 2}, summary.Result.Counts)
	assert.Equal(t, int64(2*len(plain)), summary.Bytes)
}

func TestRun_AbortPolicy(t *testing.T) {
	dir := t.TempDir()
	good := writeLog(t, dir, "good.log", "1.0")
	missing := filepath.Join(dir, "missing.log")

	s := newScanner(t, 1, PolicyAbort)
	summary, err := s.Run(context.Background(), []string{good, missing, good}, histogram.NewGlobal(histogram.DefaultLayout()))

	require.Error(t, err)
	assert.Nil(t, summary)

	var ferr *FileError
	require.True(t, errors.As(err, &ferr))
	assert.Equal(t, missing, ferr.Path)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestRun_ContinuePolicy(t *testing.T) {
	dir := t.TempDir()
	good := writeLog(t, dir, "good.log", "1.0", "7.0")
	missing := filepath.Join(dir, "missing.log")
	corrupt := filepath.Join(dir, "corrupt.log.gz")
	require.NoError(t, os.WriteFile(corrupt, []byte{0x1f, 0x8b, 0x00, 0x00, 0x01}, 0o644))

	summary := runScan(t, newScanner(t, 4, PolicyContinue), []string{good, missing, corrupt})

	assert.Equal(t, histogram.Histogram{0: 1, 5: 1}, summary.Result.Counts)
	assert.Equal(t, int64(1), summary.Files)
	assert.Equal(t, int64(2), summary.Failed)
	require.Error(t, summary.Err())
	require.Len(t, summary.Failures(), 2)

	var failed []string
	for _, err := range summary.Failures() {
		var ferr *FileError
		require.True(t, errors.As(err, &ferr))
		failed = append(failed, ferr.Path)
	}
	assert.ElementsMatch(t, []string{missing, corrupt}, failed)
}

func TestRun_CancelledContext(t *testing.T) {
	dir := t.TempDir()
	path := writeLog(t, dir, "a.log", "1.0")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	summary, err := newScanner(t, 1, PolicyContinue).Run(ctx, []string{path}, histogram.NewGlobal(histogram.DefaultLayout()))
	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, summary)
}

func TestNew_Defaults(t *testing.T) {
	s := New(Options{})
	assert.Equal(t, DefaultWorkers(), s.Workers())
	assert.Equal(t, PolicyAbort, s.policy)
}

func TestParseErrorPolicy(t *testing.T) {
	p, err := ParseErrorPolicy("")
	require.NoError(t, err)
	assert.Equal(t, PolicyAbort, p)

	p, err = ParseErrorPolicy(" Continue ")
	require.NoError(t, err)
	assert.Equal(t, PolicyContinue, p)

	_, err = ParseErrorPolicy("retry")
	assert.Error(t, err)
}

func TestDetectCompression(t *testing.T) {
	assert.Equal(t, CompressionGzip, detectCompression([]byte{0x1f, 0x8b, 0x08}))
	assert.Equal(t, CompressionBzip2, detectCompression([]byte("BZh91AY")))
	assert.Equal(t, CompressionXZ, detectCompression([]byte{0xfd, 0x37, 0x7a, 0x58, 0x5a, 0x00}))
	assert.Equal(t, CompressionNone, detectCompression([]byte("http")))
	assert.Equal(t, CompressionNone, detectCompression(nil))
	assert.Equal(t, "xz", CompressionXZ.String())
}
