// Package linefile appends lines to portage-style configuration files
// (package.mask, package.accept_keywords, package.use) without duplicating
// entries that are already present.
package linefile

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DefaultFileName is the file written inside a package.* directory
const DefaultFileName = "portagetool"

var (
	ErrEmptyLine     = errors.New("line is empty")
	ErrMultilineLine = errors.New("line contains a newline")
)

// Writer writes unique lines. FileName is used when the target path is a directory.
type Writer struct {
	FileName string
}

// New creates a Writer that uses fileName inside package.* directories
func New(fileName string) *Writer {
	if fileName == "" {
		fileName = DefaultFileName
	}
	return &Writer{FileName: fileName}
}

// Normalize returns the comparable form of a config line.
// Blank and comment lines normalize to "".
func Normalize(line string) string {
	line = strings.TrimSpace(line)
	if strings.HasPrefix(line, "#") {
		return ""
	}
	if i := strings.Index(line, "#"); i >= 0 {
		line = strings.TrimSpace(line[:i])
	}
	return strings.Join(strings.Fields(line), " ")
}

// Target resolves the file that should receive lines for path
func (w *Writer) Target(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return path, nil
		}
		return "", err
	}
	if info.IsDir() {
		return filepath.Join(path, w.FileName), nil
	}
	return path, nil
}

// Contains reports whether an equivalent line is already present at path.
// For a directory every regular file in it is searched.
func (w *Writer) Contains(path, line string) (bool, error) {
	want := Normalize(line)
	if want == "" {
		return false, ErrEmptyLine
	}

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}

	files := []string{path}
	if info.IsDir() {
		entries, err := os.ReadDir(path)
		if err != nil {
			return false, err
		}
		files = files[:0]
		for _, e := range entries {
			// Portage ignores hidden and backup files in package.* directories
			if e.IsDir() || strings.HasPrefix(e.Name(), ".") || strings.HasSuffix(e.Name(), "~") {
				continue
			}
			files = append(files, filepath.Join(path, e.Name()))
		}
	}

	for _, f := range files {
		found, err := fileContains(f, want)
		if err != nil {
			return false, err
		}
		if found {
			return true, nil
		}
	}
	return false, nil
}

func fileContains(path, normalized string) (bool, error) {
	file, err := os.Open(path)
	if err != nil {
		return false, err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		if Normalize(scanner.Text()) == normalized {
			return true, nil
		}
	}
	return false, scanner.Err()
}

// WriteLine appends line to path unless an equivalent line exists.
// Returns the file written to and whether a line was appended.
func (w *Writer) WriteLine(path, line string) (string, bool, error) {
	line = strings.TrimRight(line, "\n")
	if strings.Contains(line, "\n") {
		return "", false, ErrMultilineLine
	}

	found, err := w.Contains(path, line)
	if err != nil {
		return "", false, err
	}

	target, err := w.Target(path)
	if err != nil {
		return "", false, err
	}
	if found {
		return target, false, nil
	}

	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return "", false, fmt.Errorf("failed to create directory: %w", err)
	}

	prefix, err := needsNewline(target)
	if err != nil {
		return "", false, err
	}

	f, err := os.OpenFile(target, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return "", false, fmt.Errorf("failed to open %s: %w", target, err)
	}
	defer f.Close()

	if _, err := f.WriteString(prefix + line + "\n"); err != nil {
		return "", false, fmt.Errorf("failed to write %s: %w", target, err)
	}
	return target, true, nil
}

// needsNewline returns "\n" when path exists, is non-empty and lacks a trailing newline
func needsNewline(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", err
	}
	if len(data) > 0 && !bytes.HasSuffix(data, []byte("\n")) {
		return "\n", nil
	}
	return "", nil
}

// WriteLine appends line to path using the default Writer
func WriteLine(path, line string) (string, bool, error) {
	return New("").WriteLine(path, line)
}

// Contains checks path for line using the default Writer
func Contains(path, line string) (bool, error) {
	return New("").Contains(path, line)
}
