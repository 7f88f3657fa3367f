package export

import (
	"encoding/json"
	"io"

	"github.com/gocomet/ride-ledger/internal/domain/ride"
)

// JSONWriter writes an array of ride documents. Non-ASCII text is kept literal.
type JSONWriter struct{}

func (JSONWriter) Format() string   { return "json" }
func (JSONWriter) Filename() string { return "data.json" }

func (JSONWriter) Write(w io.Writer, rows []ride.JoinedRow) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(ShapeAll(rows))
}
