package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"equipment-logbook/internal/lending"
)

// Header is the first row of every logbook export.
var Header = []string{"Requestor", "Item", "Purpose", "Borrow Date", "Return Date", "Status", "Cleared By"}

type Options struct {
	// BOM prepends a UTF-8 byte order mark so spreadsheets detect the encoding.
	BOM bool
}

// WriteLogs writes one row per entry in the given order. Fields containing a
// quote, comma or line break are quoted; rows end with "\n".
func WriteLogs(w io.Writer, logs []lending.LogEntry, opts Options) error {
	var bom *transform.Writer
	if opts.BOM {
		bom = transform.NewWriter(w, unicode.UTF8BOM.NewEncoder())
		w = bom
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, e := range logs {
		row := []string{
			e.Requestor,
			e.Item,
			e.Purpose,
			lending.FormatDate(e.BorrowDate),
			lending.FormatDate(e.ReturnDate),
			string(e.Status),
			e.ClearedBy,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return err
	}
	if bom != nil {
		return bom.Close()
	}
	return nil
}

// Filename returns "<prefix>-YYYY-MM-DD.csv" for the calendar day of now.
func Filename(prefix string, now time.Time) string {
	if prefix == "" {
		prefix = "logbook"
	}
	return fmt.Sprintf("%s-%s.csv", prefix, now.Format("2006-01-02"))
}
