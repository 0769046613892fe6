package formatter

import (
	"fmt"
	"io"

	"github.com/bytedance/sonic"
)

type JSONFormatter struct{}

func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{}
}

// Format writes the trail model as indented JSON.
func (f *JSONFormatter) Format(w io.Writer, r Report) error {
	data, err := sonic.MarshalIndent(NewTrailDocument(r), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode trail as JSON: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
