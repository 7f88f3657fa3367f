package export

import (
	"database/sql"
	"io"
	"strconv"
	"time"

	"github.com/gocomet/ride-ledger/internal/domain/ride"
)

// Writer renders the joined ride rows in one serialization format
type Writer interface {
	// Format is the short format name, e.g. "json"
	Format() string
	// Filename is the output file name inside the export directory
	Filename() string
	Write(w io.Writer, rows []ride.JoinedRow) error
}

// DefaultWriters returns the four ledger formats in output order
func DefaultWriters() []Writer {
	return []Writer{
		JSONWriter{},
		CSVWriter{},
		XMLWriter{},
		YAMLWriter{},
	}
}

func formatTime(t time.Time) string {
	return t.Format(TimeLayout)
}

func formatNullTime(nt sql.NullTime) *string {
	if !nt.Valid {
		return nil
	}
	s := formatTime(nt.Time)
	return &s
}

// Text renderers shared by CSV and XML. NULL renders as an empty string.

func textInt(ni sql.NullInt64) string {
	if !ni.Valid {
		return ""
	}
	return strconv.FormatInt(ni.Int64, 10)
}

func textFloat(nf sql.NullFloat64) string {
	if !nf.Valid {
		return ""
	}
	return formatFloat(nf.Float64)
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func textString(ns sql.NullString) string {
	if !ns.Valid {
		return ""
	}
	return ns.String
}

func textTime(nt sql.NullTime) string {
	if !nt.Valid {
		return ""
	}
	return formatTime(nt.Time)
}
