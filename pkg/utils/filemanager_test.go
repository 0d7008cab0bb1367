package utils

import (
	"os"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2024, 3, 15, 9, 30, 45, 0, time.UTC)

func TestGenerateOutputFileName(t *testing.T) {
	tests := []struct {
		format string
		want   string
	}{
		{"onix_{original}_{date}.xml", "onix_catalogue_20240315.xml"},
		{"{original}_{timestamp}", "catalogue_20240315_093045.xml"},
		{"feed_{time}.XML", "feed_093045.XML"},
		{"{original}.xml", "catalogue.xml"},
	}
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			assert.Equal(t, tt.want, GenerateOutputFileName(tt.format, map[string]string{"original": "catalogue"}, now))
		})
	}

	name := GenerateOutputFileName("onix_{uuid}.xml", nil, now)
	assert.Regexp(t, regexp.MustCompile(`^onix_[0-9a-f-]{36}\.xml$`), name)
}

func TestFileManagerOutputPath(t *testing.T) {
	fm := NewFileManager("out", "onix_{original}_{date}.xml")
	fm.Now = func() time.Time { return now }

	xml := fm.OutputPath(filepath.Join("data", "Catalogue 2024.xlsx"))
	assert.Equal(t, filepath.Join("out", "onix_Catalogue 2024_20240315.xml"), xml)
	assert.Equal(t, filepath.Join("out", "onix_Catalogue 2024_20240315_QA.csv"), ReportPathFor(xml))
}

func TestDiscoverInputFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.xlsx", "a.csv", "~$b.xlsx", "notes.txt", "c.XLSM"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0o644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.xlsx"), 0o755))

	single := filepath.Join(dir, "notes.txt")
	files, err := DiscoverInputFiles([]string{single, dir, filepath.Join(dir, "a.csv")})
	require.NoError(t, err)
	assert.Equal(t, []string{
		single,
		filepath.Join(dir, "a.csv"),
		filepath.Join(dir, "b.xlsx"),
		filepath.Join(dir, "c.XLSM"),
	}, files)
}

func TestDiscoverInputFilesErrors(t *testing.T) {
	_, err := DiscoverInputFiles([]string{filepath.Join(t.TempDir(), "missing.xlsx")})
	assert.Error(t, err)

	_, err = DiscoverInputFiles([]string{t.TempDir()})
	assert.Error(t, err)

	_, err = DiscoverInputFiles(nil)
	assert.Error(t, err)
}

func TestStemAndFileExists(t *testing.T) {
	assert.Equal(t, "catalogue", Stem("/tmp/catalogue.xlsx"))
	assert.Equal(t, "archive.tar", Stem("archive.tar.gz"))

	path := filepath.Join(t.TempDir(), "f.xml")
	assert.False(t, FileExists(path))
	require.NoError(t, os.WriteFile(path, nil, 0o644))
	assert.True(t, FileExists(path))
	assert.False(t, FileExists(filepath.Dir(path)))
}
