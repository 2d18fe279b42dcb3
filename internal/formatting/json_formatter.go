package formatting

import (
	"encoding/json"
	"io"

	"partnerplane/internal/partnership"
)

// jsonFormatter provides structured JSON output formatting
type jsonFormatter struct {
	w io.Writer
}

func (f *jsonFormatter) Partners(snap *partnership.Snapshot) error {
	return f.encode(PartnerViews(snap))
}

func (f *jsonFormatter) Partnerships(snap *partnership.Snapshot) error {
	return f.encode(PartnershipViews(snap))
}

func (f *jsonFormatter) encode(v interface{}) error {
	enc := json.NewEncoder(f.w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
