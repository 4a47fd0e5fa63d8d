package runner

import (
	"context"
	"encoding/json"
	"io"
	"os"

	"github.com/aretw0/raybrush/pkg/stage"
)

// JSONReporter writes one JSON object per line: a "step" record per step
// and a closing "summary" record.
type JSONReporter struct {
	Encoder *json.Encoder
}

// NewJSONReporter creates a reporter writing to w.
func NewJSONReporter(w io.Writer) *JSONReporter {
	if w == nil {
		w = os.Stdout
	}
	return &JSONReporter{Encoder: json.NewEncoder(w)}
}

type jsonRecord struct {
	Type  string       `json:"type"`
	Frame *Frame       `json:"frame,omitempty"`
	State *stage.State `json:"state,omitempty"`
}

func (r *JSONReporter) Step(_ context.Context, f Frame) error {
	return r.Encoder.Encode(jsonRecord{Type: "step", Frame: &f})
}

func (r *JSONReporter) Finish(_ context.Context, st stage.State) error {
	return r.Encoder.Encode(jsonRecord{Type: "summary", State: &st})
}
