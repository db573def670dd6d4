// Package langfile reads language tables: plain-text files with one
// translatable string per line in the form
//
//	STR_NAME        :Some text with {NUM} commands
//	STR_NAME.gen    :Case variant
//
// Lines starting with '#' are comments; '##' lines are pragmas such as
// "##plural 2". Raw lines are preserved so a table can be reconstructed
// with normalized strings.
package langfile

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// Entry is one string of a language table.
type Entry struct {
	// Name is the string identifier.
	Name string
	// Case is the grammatical-case suffix of the identifier ("" for the
	// default case).
	Case string
	// Text is the string value, without the leading ':'.
	Text string
	// Line is the 1-based line number in the table.
	Line int
}

// File is a parsed language table.
type File struct {
	Path    string
	Entries []Entry
	// Pragmas holds "##name value" header lines.
	Pragmas map[string]string
	// RawLines preserves the original content for reconstruction.
	RawLines []string
}

// Parse reads a language table from disk.
func Parse(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open language file: %w", err)
	}
	defer f.Close()

	file := &File{Path: path, Pragmas: map[string]string{}}

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 1024*1024), 1024*1024)

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Text()
		file.RawLines = append(file.RawLines, line)

		if strings.HasPrefix(line, "##") {
			fields := strings.Fields(line[2:])
			if len(fields) > 0 {
				file.Pragmas[fields[0]] = strings.Join(fields[1:], " ")
			}
			continue
		}
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		colon := strings.Index(line, ":")
		if colon < 0 {
			return nil, fmt.Errorf("%s:%d: missing ':' separator", path, lineNum)
		}

		name := strings.TrimSpace(line[:colon])
		if name == "" {
			return nil, fmt.Errorf("%s:%d: missing string name", path, lineNum)
		}

		entry := Entry{
			Name: name,
			Text: line[colon+1:],
			Line: lineNum,
		}
		if dot := strings.IndexByte(name, '.'); dot >= 0 {
			entry.Name = name[:dot]
			entry.Case = name[dot+1:]
		}

		file.Entries = append(file.Entries, entry)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan language file: %w", err)
	}

	return file, nil
}

// Get returns the entry with the given name and case suffix ("" for the
// default case).
func (f *File) Get(name, caseName string) (Entry, bool) {
	for _, e := range f.Entries {
		if e.Name == name && e.Case == caseName {
			return e, true
		}
	}
	return Entry{}, false
}

// Reconstruct rebuilds the table, replacing entry texts with their
// normalized form where one is given (keyed by line number).
func (f *File) Reconstruct(normalized map[int]string) []byte {
	lines := make([]string, len(f.RawLines))
	copy(lines, f.RawLines)

	for _, e := range f.Entries {
		text, ok := normalized[e.Line]
		if !ok {
			continue
		}
		idx := e.Line - 1
		if idx < 0 || idx >= len(lines) {
			continue
		}
		line := lines[idx]
		colon := strings.Index(line, ":")
		if colon < 0 {
			continue
		}
		lines[idx] = line[:colon+1] + text
	}

	return []byte(strings.Join(lines, "\n") + "\n")
}
