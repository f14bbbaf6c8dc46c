package xlsx

import (
	"database/sql/driver"
	"fmt"
	"strconv"
	"time"
	"unicode/utf8"

	"offer-export/internal/db"
)

const (
	widthPadding = 2
	maxWidth     = 50
)

const displayTimeLayout = "2006-01-02 15:04:05"

// DisplayString renders v the way it reads in a cell. ok is false for values
// with no display form; those do not count toward column widths.
func DisplayString(v any) (s string, ok bool) {
	switch t := v.(type) {
	case nil:
		return "", true
	case string:
		return t, true
	case []byte:
		return string(t), true
	case bool:
		return strconv.FormatBool(t), true
	case int:
		return strconv.Itoa(t), true
	case int8, int16, int32, int64:
		return fmt.Sprintf("%d", t), true
	case uint, uint8, uint16, uint32, uint64:
		return fmt.Sprintf("%d", t), true
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32), true
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), true
	case time.Time:
		return t.Format(displayTimeLayout), true
	case fmt.Stringer:
		return t.String(), true
	case driver.Valuer:
		inner, err := t.Value()
		if err != nil {
			return "", false
		}
		if _, again := inner.(driver.Valuer); again {
			return "", false
		}
		return DisplayString(inner)
	default:
		return "", false
	}
}

// ColumnWidths returns min(50, 2 + longest display length) per column, over
// the header and every cell. Lengths count runes.
func ColumnWidths(t *db.Table) []float64 {
	widths := make([]float64, len(t.Columns))
	for col, name := range t.Columns {
		longest := utf8.RuneCountInString(name)
		for _, row := range t.Rows {
			if col >= len(row) {
				continue
			}
			s, ok := DisplayString(row[col])
			if !ok {
				continue
			}
			if n := utf8.RuneCountInString(s); n > longest {
				longest = n
			}
		}
		widths[col] = float64(min(longest+widthPadding, maxWidth))
	}
	return widths
}
