// =============================================================================
// ONIX Export - File Manager Utility
// =============================================================================
//
// This module provides the file handling around an export run:
//   - Input discovery (files and directories given on the command line)
//   - Output file naming
//   - QA report naming
//
// OUTPUT NAMING:
//   The ONIX file name comes from a format string with placeholders. The QA
//   report sits next to it with the same stem and a "_QA.csv" suffix:
//
//     onix/onix_catalogue_20240315.xml
//     onix/onix_catalogue_20240315_QA.csv
//
// =============================================================================

package utils

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
)

// ReportSuffix is appended to the ONIX file stem to name the QA report.
const ReportSuffix = "_QA.csv"

// inputExtensions are the catalogue formats picked up from directories.
var inputExtensions = map[string]bool{
	".xlsx": true,
	".xlsm": true,
	".csv":  true,
}

// =============================================================================
// FILE MANAGER
// =============================================================================

// FileManager decides where the files of an export run are written.
type FileManager struct {
	// OutputDir is the directory where ONIX files are placed.
	OutputDir string

	// NameFormat is the output file name format, see GenerateOutputFileName.
	NameFormat string

	// Now is the clock used for {date}, {time} and {timestamp}.
	Now func() time.Time
}

// NewFileManager creates a FileManager writing to outputDir.
func NewFileManager(outputDir, nameFormat string) *FileManager {
	return &FileManager{
		OutputDir:  outputDir,
		NameFormat: nameFormat,
		Now:        time.Now,
	}
}

// OutputPath returns the ONIX file path for inputPath.
func (fm *FileManager) OutputPath(inputPath string) string {
	params := map[string]string{"original": Stem(inputPath)}
	return filepath.Join(fm.OutputDir, GenerateOutputFileName(fm.NameFormat, params, fm.Now()))
}

// =============================================================================
// INPUT DISCOVERY
// =============================================================================

// DiscoverInputFiles expands the command line arguments into input files.
// Files are returned as given. Directories contribute their .xlsx, .xlsm and
// .csv entries (not recursively), sorted by name. Excel lock files ("~$...")
// are ignored. Duplicates are removed.
func DiscoverInputFiles(args []string) ([]string, error) {
	var (
		files []string
		seen  = make(map[string]bool)
	)
	add := func(path string) {
		key := filepath.Clean(path)
		if !seen[key] {
			seen[key] = true
			files = append(files, path)
		}
	}

	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, errors.WithHint(errors.Wrapf(err, "input %s", arg), "check the path and permissions")
		}
		if !info.IsDir() {
			add(arg)
			continue
		}

		entries, err := os.ReadDir(arg)
		if err != nil {
			return nil, errors.Wrapf(err, "scanning input directory %s", arg)
		}
		var found []string
		for _, e := range entries {
			name := e.Name()
			if e.IsDir() || strings.HasPrefix(name, "~$") {
				continue
			}
			if inputExtensions[strings.ToLower(filepath.Ext(name))] {
				found = append(found, filepath.Join(arg, name))
			}
		}
		sort.Strings(found)
		for _, f := range found {
			add(f)
		}
	}

	if len(files) == 0 {
		return nil, errors.WithHint(errors.New("no input files"), "pass .xlsx, .xlsm or .csv files, or a directory containing them")
	}
	return files, nil
}

// =============================================================================
// OUTPUT FILE NAMING
// =============================================================================

// GenerateOutputFileName expands a file name format.
//
// PLACEHOLDERS:
//
//	{original}  - value of params["original"], usually the input stem
//	{date}      - YYYYMMDD
//	{time}      - HHMMSS
//	{timestamp} - YYYYMMDD_HHMMSS
//	{uuid}      - a random UUID
//
// Any other key in params is available as {key}. The result always ends in
// ".xml".
//
// EXAMPLE:
//
//	format: "onix_{original}_{date}.xml"
//	params: {"original": "catalogue"}
//	output: "onix_catalogue_20240315.xml"
func GenerateOutputFileName(format string, params map[string]string, now time.Time) string {
	pairs := []string{
		"{timestamp}", now.Format("20060102_150405"),
		"{date}", now.Format("20060102"),
		"{time}", now.Format("150405"),
	}
	if strings.Contains(format, "{uuid}") {
		pairs = append(pairs, "{uuid}", uuid.NewString())
	}

	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		pairs = append(pairs, "{"+k+"}", params[k])
	}

	result := strings.NewReplacer(pairs...).Replace(format)
	if !strings.HasSuffix(strings.ToLower(result), ".xml") {
		result += ".xml"
	}
	return result
}

// ReportPathFor returns the QA report path that goes with an ONIX file.
func ReportPathFor(xmlPath string) string {
	return strings.TrimSuffix(xmlPath, filepath.Ext(xmlPath)) + ReportSuffix
}

// =============================================================================
// UTILITY FUNCTIONS
// =============================================================================

// Stem returns the file name without directory and extension.
func Stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// FileExists reports whether path names an existing regular file. Export
// uses it to flag feeds that are about to be replaced.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
