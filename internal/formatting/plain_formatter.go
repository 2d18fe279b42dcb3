package formatting

import (
	"fmt"
	"io"

	"partnerplane/internal/partnership"
)

// plainFormatter prints one name per line, like the list commands.
type plainFormatter struct {
	w io.Writer
}

func (f *plainFormatter) Partners(snap *partnership.Snapshot) error {
	return f.lines(snap.Partners.Names())
}

func (f *plainFormatter) Partnerships(snap *partnership.Snapshot) error {
	return f.lines(snap.Partnerships.Names())
}

func (f *plainFormatter) lines(names []string) error {
	for _, n := range names {
		if _, err := fmt.Fprintln(f.w, n); err != nil {
			return err
		}
	}
	return nil
}
