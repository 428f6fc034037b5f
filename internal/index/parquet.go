package index

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/parquet-go/parquet-go"

	"github.com/strata-dev/strata/schema"
)

// Fixed key columns present in every index, ahead of metric columns.
var keyColumns = []schema.Column{
	{Name: "revision", Type: schema.StrType},
	{Name: "path", Type: schema.StrType},
	{Name: "path_type", Type: schema.StrType},
	{Name: "date", Type: schema.IntType},
	{Name: "author", Type: schema.StrType},
	{Name: "message", Type: schema.StrType},
}

// requiredColumns never hold nulls.
var requiredColumns = map[string]bool{
	"revision":  true,
	"path":      true,
	"path_type": true,
	"date":      true,
}

// buildSchema derives the parquet schema for a set of metric columns.
// Key columns are required (except author and message), metric columns
// are optional since any operator subset may fail on a given file.
func buildSchema(metricCols []schema.Column) *parquet.Schema {
	group := parquet.Group{}
	for _, c := range keyColumns {
		group[c.Name] = parquetNode(c.Type, requiredColumns[c.Name])
	}
	for _, c := range metricCols {
		group[c.Name] = parquetNode(c.Type, false)
	}
	return parquet.NewSchema("metrics", group)
}

func parquetNode(t schema.ValueType, required bool) parquet.Node {
	var node parquet.Node
	switch t {
	case schema.IntType:
		node = parquet.Int(64)
	case schema.FloatType:
		node = parquet.Leaf(parquet.DoubleType)
	case schema.BoolType:
		node = parquet.Leaf(parquet.BooleanType)
	default:
		node = parquet.String()
	}
	if !required {
		node = parquet.Optional(node)
	}
	return node
}

// columnsOf flattens a parquet schema back into (name, type) pairs,
// sorted by name so that schemas can be compared independently of
// physical column order.
func columnsOf(ps *parquet.Schema) []schema.Column {
	var cols []schema.Column
	for _, path := range ps.Columns() {
		name := path[0]
		leaf, _ := ps.Lookup(path...)
		cols = append(cols, schema.Column{Name: name, Type: valueTypeOf(leaf.Node.Type().Kind())})
	}
	sort.Slice(cols, func(i, j int) bool { return cols[i].Name < cols[j].Name })
	return cols
}

func valueTypeOf(kind parquet.Kind) schema.ValueType {
	switch kind {
	case parquet.Int32, parquet.Int64:
		return schema.IntType
	case parquet.Float, parquet.Double:
		return schema.FloatType
	case parquet.Boolean:
		return schema.BoolType
	default:
		return schema.StrType
	}
}

// encodeRow converts one logical row into a parquet row, with values
// placed at the leaf column indexes of the schema. Metrics absent from
// the row become nulls.
func encodeRow(ps *parquet.Schema, row *schema.Row) parquet.Row {
	out := make(parquet.Row, len(ps.Columns()))
	for _, path := range ps.Columns() {
		name := path[0]
		leaf, _ := ps.Lookup(path...)

		var value any
		var present bool
		switch name {
		case "revision":
			value, present = row.Revision, true
		case "path":
			value, present = row.Path, true
		case "path_type":
			value, present = string(row.PathType), true
		case "date":
			value, present = row.Date, true
		case "author":
			value, present = row.Author, row.Author != ""
		case "message":
			value, present = row.Message, row.Message != ""
		default:
			value, present = row.Values[name]
		}

		if !present {
			out[leaf.ColumnIndex] = parquet.ValueOf(nil).Level(0, 0, leaf.ColumnIndex)
			continue
		}
		defLevel := 0
		if !requiredColumns[name] {
			defLevel = 1
		}
		out[leaf.ColumnIndex] = parquet.ValueOf(value).Level(0, defLevel, leaf.ColumnIndex)
	}
	return out
}

// decodeRow converts one parquet row back into a logical row. colNames
// and colTypes map leaf column indexes to schema columns.
func decodeRow(raw parquet.Row, colNames []string, colTypes []schema.ValueType) *schema.Row {
	row := &schema.Row{Values: make(map[string]any)}
	for _, v := range raw {
		if v.IsNull() {
			continue
		}
		name := colNames[v.Column()]
		switch name {
		case "revision":
			row.Revision = v.String()
		case "path":
			row.Path = v.String()
		case "path_type":
			row.PathType = schema.PathType(v.String())
		case "date":
			row.Date = v.Int64()
		case "author":
			row.Author = v.String()
		case "message":
			row.Message = v.String()
		default:
			switch colTypes[v.Column()] {
			case schema.IntType:
				row.Values[name] = v.Int64()
			case schema.FloatType:
				row.Values[name] = v.Double()
			case schema.BoolType:
				row.Values[name] = v.Boolean()
			default:
				row.Values[name] = v.String()
			}
		}
	}
	return row
}

// readFile loads every row of an existing index file after checking
// that its columns match the expected schema.
func readFile(location string, expected *parquet.Schema) ([]*schema.Row, error) {
	f, err := os.Open(location)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	info, err := f.Stat()
	if err != nil {
		return nil, err
	}
	pf, err := parquet.OpenFile(f, info.Size())
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", location, err)
	}

	want := columnsOf(expected)
	got := columnsOf(pf.Schema())
	if !columnsEqual(want, got) {
		return nil, &schema.SchemaMismatchError{Location: location, Want: want, Got: got}
	}

	colNames := make([]string, len(pf.Schema().Columns()))
	colTypes := make([]schema.ValueType, len(colNames))
	for _, path := range pf.Schema().Columns() {
		leaf, _ := pf.Schema().Lookup(path...)
		colNames[leaf.ColumnIndex] = path[0]
		colTypes[leaf.ColumnIndex] = valueTypeOf(leaf.Node.Type().Kind())
	}

	var rows []*schema.Row
	buf := make([]parquet.Row, 128)
	for _, rg := range pf.RowGroups() {
		rr := rg.Rows()
		for {
			n, err := rr.ReadRows(buf)
			for _, raw := range buf[:n] {
				rows = append(rows, decodeRow(raw, colNames, colTypes))
			}
			if err == io.EOF {
				break
			}
			if err != nil {
				_ = rr.Close()
				return nil, err
			}
		}
		if err := rr.Close(); err != nil {
			return nil, err
		}
	}
	return rows, nil
}

// writeFile persists all rows atomically: everything is written to a
// temp file in the target directory first, then renamed over the old
// file so that readers never observe a half-written index.
func writeFile(location string, ps *parquet.Schema, rows []*schema.Row) error {
	dir := filepath.Dir(location)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, "metrics-*.parquet.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	w := parquet.NewWriter(tmp, ps)
	for _, row := range rows {
		if _, err := w.WriteRows([]parquet.Row{encodeRow(ps, row)}); err != nil {
			_ = w.Close()
			_ = tmp.Close()
			return err
		}
	}
	if err := w.Close(); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmpName, location)
}

func columnsEqual(a, b []schema.Column) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
