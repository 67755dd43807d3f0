// Package ini parses the INI-like table definition files shipped alongside
// Sk tables.
//
//	[DAT]
//	PATH = words.dat
//	$ID = uint32
//	$HEADWORD = text
//	$HEADWORD,OFFSET = uint32
//
//	[HEADWORD]
//	PATH = headword.dat
//
// Sections and keys keep their declaration order. Lines that cannot be parsed
// are reported as warnings and skipped.
package ini

import (
	"bufio"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/pkg/errors"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

// Section is a named, ordered group of key/value pairs.
type Section struct {
	name   string
	keys   []string
	values map[string]string
}

// Name returns the section name.
func (s *Section) Name() string { return s.name }

// Keys returns the section keys in declaration order.
func (s *Section) Keys() []string { return s.keys }

// Get returns the value for a key.
func (s *Section) Get(key string) (string, bool) {
	if s == nil {
		return "", false
	}
	v, ok := s.values[key]
	return v, ok
}

// Len returns the number of keys.
func (s *Section) Len() int { return len(s.keys) }

func (s *Section) set(key, value string) bool {
	_, dup := s.values[key]
	if !dup {
		s.keys = append(s.keys, key)
	}
	s.values[key] = value
	return dup
}

// File is a parsed configuration.
type File struct {
	sections []*Section
	index    map[string]*Section
}

// New returns an empty File.
func New() *File {
	return &File{index: make(map[string]*Section)}
}

// Section returns a section by name or nil.
func (f *File) Section(name string) *Section { return f.index[name] }

// Sections returns all sections in declaration order.
func (f *File) Sections() []*Section { return f.sections }

// Set assigns a key within a section, creating the section if needed. It
// returns true if an existing value was replaced.
func (f *File) Set(section, key, value string) bool {
	return f.section(section).set(key, value)
}

func (f *File) section(name string) *Section {
	s, ok := f.index[name]
	if !ok {
		s = &Section{name: name, values: make(map[string]string)}
		f.sections = append(f.sections, s)
		f.index[name] = s
	}
	return s
}

// Load reads and parses a file. A missing file is an error, malformed lines
// are logged as warnings.
func Load(path string, logger *slog.Logger) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "ini: open")
	}
	defer f.Close()

	if logger == nil {
		logger = discard
	}
	return Parse(f, logger.With("file", path))
}

// Parse parses configuration from a reader.
func Parse(r io.Reader, logger *slog.Logger) (*File, error) {
	if logger == nil {
		logger = discard
	}

	file := New()
	section := ""
	scanner := bufio.NewScanner(r)

	for lineNo := 1; scanner.Scan(); lineNo++ {
		line := strings.TrimSpace(scanner.Text())
		if lineNo == 1 {
			line = strings.TrimPrefix(line, "\ufeff")
		}
		if line == "" || line[0] == ';' || line[0] == '#' {
			continue
		}

		if line[0] == '[' {
			if !strings.HasSuffix(line, "]") || len(line) < 3 {
				logger.Warn("ini: malformed section header", "line", lineNo, "text", line)
				continue
			}
			section = strings.TrimSpace(line[1 : len(line)-1])
			file.section(section)
			continue
		}

		pos := strings.IndexByte(line, '=')
		if pos < 1 {
			logger.Warn("ini: malformed line", "line", lineNo, "text", line)
			continue
		}

		key := strings.TrimSpace(line[:pos])
		if key == "" {
			logger.Warn("ini: empty key", "line", lineNo)
			continue
		}
		if file.Set(section, key, strings.TrimSpace(line[pos+1:])) {
			logger.Warn("ini: duplicate key", "line", lineNo, "section", section, "key", key)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "ini: read")
	}
	return file, nil
}
