package export

import (
	"io"

	"github.com/gocomet/ride-ledger/internal/domain/ride"
	"gopkg.in/yaml.v3"
)

// YAMLWriter writes a sequence of ride documents with two-space indentation
type YAMLWriter struct{}

func (YAMLWriter) Format() string   { return "yaml" }
func (YAMLWriter) Filename() string { return "data.yaml" }

func (YAMLWriter) Write(w io.Writer, rows []ride.JoinedRow) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(ShapeAll(rows)); err != nil {
		return err
	}
	return enc.Close()
}
