// Package testutil holds fixtures shared by the package tests.
package testutil

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/mholt/archives"
	"github.com/stretchr/testify/require"
)

// WriteFiles creates files below dir. Keys use forward slashes.
func WriteFiles(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
}

// WriteTarGz writes a gzip-compressed tar containing files to path.
func WriteTarGz(t *testing.T, path string, files map[string]string) {
	t.Helper()
	writeArchive(t, path, files, archives.CompressedArchive{
		Compression: archives.Gz{},
		Archival:    archives.Tar{},
	})
}

// WriteJar writes a zip (jar) containing files to path.
func WriteJar(t *testing.T, path string, files map[string]string) {
	t.Helper()
	writeArchive(t, path, files, archives.Zip{})
}

// TarGzBytes returns the bytes of a gzip-compressed tar containing files.
func TarGzBytes(t *testing.T, files map[string]string) []byte {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fixture.tar.gz")
	WriteTarGz(t, path, files)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return data
}

// JarBytes returns the bytes of a jar containing files.
func JarBytes(t *testing.T, files map[string]string) []byte {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fixture.jar")
	WriteJar(t, path, files)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return data
}

func writeArchive(t *testing.T, path string, files map[string]string, format archives.Archiver) {
	t.Helper()
	ctx := context.Background()

	source := t.TempDir()
	WriteFiles(t, source, files)

	entries, err := archives.FilesFromDisk(ctx, nil, map[string]string{
		source + string(os.PathSeparator): "",
	})
	require.NoError(t, err)

	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	out, err := os.Create(path)
	require.NoError(t, err)
	defer func() { _ = out.Close() }()

	require.NoError(t, format.Archive(ctx, out, entries))
}
