package storage

import (
	"context"
	"encoding/binary"
	"sync"

	"github.com/pkg/errors"
)

const (
	magicPrefix     = "SQLite format 3\x00"
	fileHeaderSize  = 100
	schemaRootPage  = 1
	schemaTableName = "antdb_schema"
)

// schemaCreateSQL is the synthetic CREATE TABLE text for the schema table.
// Schema parses it with ParseColumns, the same sqlparser path used for user
// DDL; the engine does not parse it through internal/sqlfe.
const schemaCreateSQL = "CREATE TABLE antdb_schema(type text, name text, tbl_name text, rootpage integer, sql text)"

var schemaColumns = []Column{
	{Name: "type", Type: "text", Index: 0},
	{Name: "name", Type: "text", Index: 1},
	{Name: "tbl_name", Type: "text", Index: 2},
	{Name: "rootpage", Type: "integer", Index: 3},
	{Name: "sql", Type: "text", Index: 4},
}

// Header holds the parsed fields of the 100-byte database file header.
type Header struct {
	PageSize     int
	PageCount    uint32
	TextEncoding TextEncoding
}

// Engine owns the backing file and file header, resolves page numbers to
// Page views, and enumerates schema objects.
type Engine struct {
	file   *File
	header Header

	mu           sync.Mutex
	schemaLoaded bool
	schemaRows   []SchemaRow
}

// SchemaRow is one row of antdb_schema.
type SchemaRow struct {
	Type     string
	Name     string
	TblName  string
	RootPage int64
	SQL      string
}

// Open opens path, validates the magic header, and parses the file header.
func Open(path string) (*Engine, error) {
	f, err := OpenFile(path)
	if err != nil {
		return nil, err
	}
	e := &Engine{file: f}
	if err := e.parseHeader(); err != nil {
		_ = f.Close()
		return nil, err
	}
	return e, nil
}

func (e *Engine) parseHeader() error {
	buf := make([]byte, fileHeaderSize)
	if err := e.file.ReadAt(buf, 0); err != nil {
		return wrap(KindHeader, "parse_header", err)
	}
	if string(buf[:16]) != magicPrefix {
		return wrap(KindHeader, "parse_header", ErrInvalidMagic)
	}
	pageSize := int(binary.BigEndian.Uint16(buf[16:18]))
	pageCount := binary.BigEndian.Uint32(buf[28:32])
	enc := TextEncoding(binary.BigEndian.Uint32(buf[56:60]))
	if enc != UTF8 && enc != UTF16LE && enc != UTF16BE {
		return wrapf(KindHeader, "parse_header", errors.New("invalid text encoding byte"), "encoding=%d", enc)
	}
	e.header = Header{PageSize: pageSize, PageCount: pageCount, TextEncoding: enc}
	return nil
}

// Header returns the parsed file header.
func (e *Engine) Header() Header { return e.header }

// Close releases the backing file.
func (e *Engine) Close() error { return e.file.Close() }

// GetPage reads page n (1-based) and returns its typed Page view.
func (e *Engine) GetPage(n int) (Page, error) {
	if n < 1 {
		return nil, wrapf(KindPage, "get_page", ErrInvalidPageType, "page number %d", n)
	}
	hdr := e.Header()
	buf := make([]byte, hdr.PageSize)
	offset := int64(n-1) * int64(hdr.PageSize)
	if err := e.file.ReadAt(buf, offset); err != nil {
		return nil, wrapf(KindPage, "get_page", err, "page %d", n)
	}
	base := 0
	if n == 1 {
		base = fileHeaderSize
	}
	return ParsePage(buf, base, hdr.TextEncoding)
}

// DBInfo is the result of Info(): the fields .dbinfo reports.
type DBInfo struct {
	PageSize        int
	NumberOfTables  int
	NumberOfIndices int
}

// Info returns the database page size and a count of tables and indices
// declared in the schema.
func (e *Engine) Info(ctx context.Context) (DBInfo, error) {
	objs, err := e.getObjects(ctx)
	if err != nil {
		return DBInfo{}, err
	}
	tables, indices := 0, 0
	for _, o := range objs {
		switch o.Type {
		case "table":
			tables++
		case "index":
			indices++
		}
	}
	return DBInfo{PageSize: e.Header().PageSize, NumberOfTables: tables, NumberOfIndices: indices}, nil
}

// loadSchema loads (and caches) the rows of antdb_schema by walking the table
// rooted at page 1 directly, since the schema table has no schema row of
// its own to bootstrap from.
func (e *Engine) loadSchema(ctx context.Context) ([]SchemaRow, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.schemaLoaded {
		return e.schemaRows, nil
	}

	page, err := e.GetPage(schemaRootPage)
	if err != nil {
		return nil, err
	}

	var rows []SchemaRow
	if err := e.walkSchemaPage(page, &rows); err != nil {
		return nil, err
	}

	e.schemaRows = rows
	e.schemaLoaded = true
	return rows, nil
}

func (e *Engine) walkSchemaPage(p Page, out *[]SchemaRow) error {
	switch pg := p.(type) {
	case *TableLeafPage:
		for _, c := range pg.Cells() {
			row, err := schemaRowFromRecord(c.RowID, c.Record)
			if err != nil {
				return err
			}
			*out = append(*out, row)
		}
		return nil
	case *TableInteriorPage:
		for _, ptr := range pg.Pointers() {
			child, err := e.GetPage(int(ptr.Child))
			if err != nil {
				return err
			}
			if err := e.walkSchemaPage(child, out); err != nil {
				return err
			}
		}
		return nil
	default:
		return wrap(KindPage, "walk_schema_page", ErrInvalidPageType)
	}
}

func schemaRowFromRecord(rowID int64, rec Record) (SchemaRow, error) {
	if len(rec.Values) < 5 {
		return SchemaRow{}, wrap(KindSchema, "schema_row_from_record", ErrInvalidSerialType)
	}
	get := func(i int) string {
		if rec.Values[i].Kind == KindStr {
			return rec.Values[i].Str
		}
		return ""
	}
	rootPage := rec.Values[3].Int
	return SchemaRow{
		Type:     get(0),
		Name:     get(1),
		TblName:  get(2),
		RootPage: rootPage,
		SQL:      get(4),
	}, nil
}

// Objects returns every antdb_schema row.
func (e *Engine) Objects(ctx context.Context) ([]SchemaRow, error) {
	return e.loadSchema(ctx)
}

// Schema returns the virtual Table for antdb_schema rooted at page 1. Its
// own CREATE TABLE text is parsed through the same ParseColumns path as
// user DDL.
func (e *Engine) Schema(ctx context.Context) (*Table, error) {
	cols, err := ParseColumns(schemaCreateSQL)
	if err != nil {
		return nil, err
	}
	return &Table{engine: e, name: schemaTableName, rootPage: schemaRootPage, columns: cols}, nil
}

// Tables returns all user table names, including sqlite_sequence but
// excluding the synthetic schema table itself.
func (e *Engine) Tables(ctx context.Context) ([]string, error) {
	objs, err := e.loadSchema(ctx)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, o := range objs {
		if o.Type == "table" {
			names = append(names, o.Name)
		}
	}
	return names, nil
}

// Indices returns all index names declared in the schema.
func (e *Engine) Indices(ctx context.Context) ([]string, error) {
	objs, err := e.loadSchema(ctx)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, o := range objs {
		if o.Type == "index" {
			names = append(names, o.Name)
		}
	}
	return names, nil
}

func (e *Engine) getObjects(ctx context.Context) ([]SchemaRow, error) {
	return e.loadSchema(ctx)
}

// Table resolves a Table by name. The schema table itself has no row in
// antdb_schema to resolve from, so it is special-cased to Schema.
func (e *Engine) Table(ctx context.Context, name string) (*Table, error) {
	if name == schemaTableName {
		return e.Schema(ctx)
	}

	objs, err := e.loadSchema(ctx)
	if err != nil {
		return nil, err
	}
	for _, o := range objs {
		if o.Type == "table" && o.Name == name {
			cols, perr := ParseColumns(o.SQL)
			if perr != nil {
				return nil, perr
			}
			return &Table{engine: e, name: name, rootPage: int(o.RootPage), columns: cols}, nil
		}
	}
	return nil, wrapf(KindNotFound, "get_table", ErrTableNotFound, "table %q", name)
}

// Index resolves an Index by name.
func (e *Engine) Index(ctx context.Context, name string) (*Index, error) {
	objs, err := e.loadSchema(ctx)
	if err != nil {
		return nil, err
	}
	for _, o := range objs {
		if o.Type == "index" && o.Name == name {
			_, column, perr := ParseIndexColumn(o.SQL)
			if perr != nil {
				return nil, perr
			}
			return &Index{engine: e, name: name, tableName: o.TblName, column: column, rootPage: int(o.RootPage)}, nil
		}
	}
	return nil, wrapf(KindNotFound, "get_index", ErrIndexNotFound, "index %q", name)
}

// IndexForColumn finds an index on table t covering column, if any.
func (e *Engine) IndexForColumn(ctx context.Context, table, column string) (*Index, error) {
	objs, err := e.loadSchema(ctx)
	if err != nil {
		return nil, err
	}
	for _, o := range objs {
		if o.Type != "index" || o.TblName != table {
			continue
		}
		_, col, perr := ParseIndexColumn(o.SQL)
		if perr != nil {
			continue
		}
		if col == column {
			return &Index{engine: e, name: o.Name, tableName: o.TblName, column: col, rootPage: int(o.RootPage)}, nil
		}
	}
	return nil, nil
}
