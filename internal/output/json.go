package output

import (
	"encoding/json"
	"io"

	"github.com/spiffcs/collabsweep/internal/model"
)

// JSONFormatter formats the run report as JSON
type JSONFormatter struct {
	Pretty bool
}

// Format outputs the report as a single JSON document
func (f *JSONFormatter) Format(report *model.RunReport, w io.Writer) error {
	encoder := json.NewEncoder(w)
	if f.Pretty {
		encoder.SetIndent("", "  ")
	}
	return encoder.Encode(report)
}
