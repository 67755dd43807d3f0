package sktable

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/bsm/sktable/ini"
)

const (
	dataSection  = "DAT"
	keyPath      = "PATH"
	keyName      = "NAME"
	keyCompress  = "COMPRESSION"
	keyCatalog   = "CATALOG"
	fieldPrefix  = "$"
	offsetSuffix = ",OFFSET"
)

// Field is a single column of a table.
type Field struct {
	Name        string
	TypeName    string         // declared type
	Type        TypeDescriptor // storage type within the record
	Path        string         // variable storage file, if any
	Compression Compression
	CatalogPath string
}

// IsVariable returns true if the record value is an offset into the field's
// storage file rather than the datum itself.
func (f *Field) IsVariable() bool { return f.Path != "" }

// Segment is a byte range of the stored record followed by Zero bytes of
// padding in the native buffer.
type Segment struct {
	Start, End int
	Zero       int
}

// Record is the fixed binary layout of a table row.
type Record struct {
	Size   int       // stored size in bytes
	Plan   []Segment // padding plan, covers [0, Size) exactly once
	Format string    // native unpack format, little-endian
}

// NativeSize returns the size of the padded native buffer.
func (r *Record) NativeSize() int {
	n := r.Size
	for _, s := range r.Plan {
		n += s.Zero
	}
	return n
}

// Table describes a compiled Sk table.
type Table struct {
	Name     string
	BaseDir  string
	PagePath string
	RowCount int64
	Record   Record
	Fields   []Field
}

// Field returns the index of a named field or -1.
func (t *Table) Field(name string) int {
	for i := range t.Fields {
		if t.Fields[i].Name == name {
			return i
		}
	}
	return -1
}

// LoadTable parses a table definition file and compiles it, resolving
// relative paths against the file's directory.
func LoadTable(path string, opts *Options) (*Table, error) {
	o := opts.norm()

	cfg, err := ini.Load(path, o.Logger)
	if err != nil {
		return nil, wrapError(KindIO, err, "load %s", path)
	}

	t, err := Compile(cfg, filepath.Dir(path), o)
	if err != nil {
		return nil, err
	}
	if t.Name == "" {
		t.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return t, nil
}

// Compile compiles a parsed table definition into a Table.
func Compile(cfg *ini.File, baseDir string, opts *Options) (*Table, error) {
	o := opts.norm()

	dat := cfg.Section(dataSection)
	if dat == nil {
		return nil, newError(KindConfig, "no %s section", dataSection)
	}

	t := &Table{BaseDir: baseDir}
	t.Name, _ = dat.Get(keyName)

	for _, key := range dat.Keys() {
		if !strings.HasPrefix(key, fieldPrefix) || strings.Contains(key, ",") {
			continue
		}

		field, err := compileField(cfg, dat, key, baseDir)
		if err != nil {
			return nil, err
		}
		t.Fields = append(t.Fields, field)
	}

	pagePath, ok := dat.Get(keyPath)
	if !ok || pagePath == "" {
		return nil, newError(KindConfig, "no %s in %s section", keyPath, dataSection)
	}
	t.PagePath = resolvePath(baseDir, pagePath)

	t.Record = compileRecord(t.Fields)

	fi, err := os.Stat(t.PagePath)
	if err != nil {
		return nil, wrapError(KindIO, err, "stat page file")
	}
	if size := int64(t.Record.Size); size != 0 {
		t.RowCount = fi.Size() / size
		if rem := fi.Size() % size; rem != 0 {
			o.Logger.Warn("sktable: page file size is not a multiple of the record size",
				"path", t.PagePath,
				"size", fi.Size(),
				"record", size,
				"remainder", rem)
		}
	}
	return t, nil
}

func compileField(cfg *ini.File, dat *ini.Section, key, baseDir string) (Field, error) {
	field := Field{Name: strings.TrimPrefix(key, fieldPrefix)}
	field.TypeName, _ = dat.Get(key)

	typeName := field.TypeName
	if s, ok := dat.Get(key + offsetSuffix); ok {
		typeName = s
	}

	var ok bool
	if field.Type, ok = LookupType(typeName); !ok {
		return field, newError(KindConfig, "field %s: unknown type %q", field.Name, typeName)
	}

	sect := cfg.Section(field.Name)
	if s, ok := sect.Get(keyPath); ok && s != "" {
		field.Path = resolvePath(baseDir, s)
	}
	if s, ok := sect.Get(keyCatalog); ok && s != "" {
		field.CatalogPath = resolvePath(baseDir, s)
	}
	if s, ok := sect.Get(keyCompress); ok && s != "" {
		if field.CatalogPath == "" {
			return field, newError(KindConfig, "field %s: %s requires %s", field.Name, keyCompress, keyCatalog)
		}
		if field.Compression, ok = parseCompression(s); !ok {
			return field, newError(KindConfig, "field %s: unsupported compression %q", field.Name, s)
		}
	}
	return field, nil
}

func compileRecord(fields []Field) Record {
	var rec Record
	var format strings.Builder
	format.WriteByte('<')

	start := 0
	for _, f := range fields {
		rec.Size += f.Type.Width
		format.WriteByte(f.Type.Format)

		if f.Type.Padding != 0 {
			rec.Plan = append(rec.Plan, Segment{Start: start, End: rec.Size, Zero: f.Type.Padding})
			start = rec.Size
		}
	}
	if len(fields) != 0 && fields[len(fields)-1].Type.Padding == 0 {
		rec.Plan = append(rec.Plan, Segment{Start: start, End: rec.Size})
	}

	rec.Format = format.String()
	return rec
}

func resolvePath(baseDir, name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(baseDir, name)
}
