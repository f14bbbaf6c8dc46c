// Package xlsx writes a result table to a single-sheet, styled workbook.
package xlsx

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"offer-export/internal/config"
	"offer-export/internal/db"

	"github.com/xuri/excelize/v2"
)

const (
	DefaultHeaderColor = "366092"
	headerFontColor    = "FFFFFF"
	headerFontSize     = 12
	borderColor        = "000000"
	// builtin number format "m/d/yy h:mm"
	dateTimeNumFmt = 22
)

type Options struct {
	SheetName   string
	HeaderColor string
}

func DefaultOptions() Options {
	return Options{
		SheetName:   config.DefaultSheetName,
		HeaderColor: DefaultHeaderColor,
	}
}

// Writer binds Options to the Write function.
type Writer struct {
	Options Options
}

func (w Writer) Write(t *db.Table, path string) error {
	return Write(t, path, w.Options)
}

type styles struct {
	header int
	data   int
	date   int
}

// Write renders t into path: header row first, then one row per table row in
// column order. The header is filled, bold and centered; every cell gets a
// thin border; widths follow ColumnWidths; the header row stays frozen.
//
// The workbook is written to a temporary file next to path and renamed over
// it only once complete, so a failed write never leaves a partial file.
func Write(t *db.Table, path string, opts Options) error {
	if t == nil {
		return errors.New("nil table")
	}
	if opts.SheetName == "" {
		opts.SheetName = config.DefaultSheetName
	}
	if opts.HeaderColor == "" {
		opts.HeaderColor = DefaultHeaderColor
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := opts.SheetName
	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return fmt.Errorf("name sheet: %w", err)
	}

	st, err := newStyles(f, opts)
	if err != nil {
		return fmt.Errorf("create styles: %w", err)
	}

	if err := writeSheet(f, sheet, t, st); err != nil {
		return err
	}

	return saveAtomic(f, path)
}

func newStyles(f *excelize.File, opts Options) (styles, error) {
	border := []excelize.Border{
		{Type: "left", Color: borderColor, Style: 1},
		{Type: "top", Color: borderColor, Style: 1},
		{Type: "right", Color: borderColor, Style: 1},
		{Type: "bottom", Color: borderColor, Style: 1},
	}

	header, err := f.NewStyle(&excelize.Style{
		Border:    border,
		Fill:      excelize.Fill{Type: "pattern", Color: []string{opts.HeaderColor}, Pattern: 1},
		Font:      &excelize.Font{Bold: true, Color: headerFontColor, Size: headerFontSize},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return styles{}, err
	}

	dataAlign := &excelize.Alignment{Horizontal: "left", Vertical: "center"}
	data, err := f.NewStyle(&excelize.Style{Border: border, Alignment: dataAlign})
	if err != nil {
		return styles{}, err
	}

	date, err := f.NewStyle(&excelize.Style{Border: border, Alignment: dataAlign, NumFmt: dateTimeNumFmt})
	if err != nil {
		return styles{}, err
	}

	return styles{header: header, data: data, date: date}, nil
}

func writeSheet(f *excelize.File, sheet string, t *db.Table, st styles) error {
	sw, err := f.NewStreamWriter(sheet)
	if err != nil {
		return fmt.Errorf("open sheet writer: %w", err)
	}

	// Column widths and panes must precede the first row in a stream.
	for i, w := range ColumnWidths(t) {
		if err := sw.SetColWidth(i+1, i+1, w); err != nil {
			return fmt.Errorf("set width of column %d: %w", i+1, err)
		}
	}
	if err := sw.SetPanes(&excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
		Selection:   []excelize.Selection{{SQRef: "A2", ActiveCell: "A2", Pane: "bottomLeft"}},
	}); err != nil {
		return fmt.Errorf("freeze header: %w", err)
	}

	header := make([]any, len(t.Columns))
	for i, name := range t.Columns {
		header[i] = excelize.Cell{StyleID: st.header, Value: name}
	}
	if err := sw.SetRow("A1", header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for r, row := range t.Rows {
		cells := make([]any, len(t.Columns))
		for c := range t.Columns {
			var v any
			if c < len(row) {
				v = cellValue(row[c])
			}
			style := st.data
			if _, isTime := v.(time.Time); isTime {
				style = st.date
			}
			cells[c] = excelize.Cell{StyleID: style, Value: v}
		}

		cell, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			return err
		}
		if err := sw.SetRow(cell, cells); err != nil {
			return fmt.Errorf("write row %d: %w", r+2, err)
		}
	}

	if err := sw.Flush(); err != nil {
		return fmt.Errorf("flush sheet: %w", err)
	}
	return nil
}

// cellValue maps driver values onto types excelize stores natively.
func cellValue(v any) any {
	switch t := v.(type) {
	case nil, string, bool, time.Time,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64:
		return t
	case []byte:
		return string(t)
	case driver.Valuer:
		inner, err := t.Value()
		if err != nil {
			return fmt.Sprint(v)
		}
		if _, again := inner.(driver.Valuer); again {
			return fmt.Sprint(inner)
		}
		return cellValue(inner)
	case fmt.Stringer:
		return t.String()
	default:
		return fmt.Sprint(v)
	}
}

func saveAtomic(f *excelize.File, path string) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+"-*.xlsx")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	_ = tmp.Chmod(0o644)

	_, writeErr := f.WriteTo(tmp)

	syncErr := tmp.Sync()

	closeErr := tmp.Close()

	if writeErr != nil || syncErr != nil || closeErr != nil {
		_ = os.Remove(tmpName)
		if writeErr != nil {
			return fmt.Errorf("write workbook: %w", writeErr)
		}
		if syncErr != nil {
			return syncErr
		}
		return closeErr
	}

	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("replace %s: %w", path, err)
	}
	return nil
}

// EnsureExtension appends ".xlsx" unless p already ends with it.
func EnsureExtension(p string) string {
	if strings.EqualFold(filepath.Ext(p), ".xlsx") {
		return p
	}
	return p + ".xlsx"
}

// RemoveIfEmpty deletes p when it is a zero-length regular file, such as the
// placeholder a save dialog creates before the workbook is written.
func RemoveIfEmpty(p string) error {
	if p == "" {
		return nil
	}
	fi, err := os.Stat(p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	if !fi.Mode().IsRegular() || fi.Size() != 0 {
		return nil
	}
	return os.Remove(p)
}
