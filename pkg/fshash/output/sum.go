package output

import (
	"bytes"
)

// SumFormatter writes coreutils-style checksum lines ("<hash>  <path>",
// two spaces) that sha256sum --check and friends accept. Paths are the
// relative display paths. Failed files are omitted; they have no digest
// to print.
type SumFormatter struct{}

// Format writes the formatted output to the buffer.
func (f *SumFormatter) Format(w *bytes.Buffer, r *Result) error {
	for _, file := range r.Files {
		if file.Failed() {
			continue
		}
		w.WriteString(file.Hash)
		w.WriteString("  ")
		w.WriteString(file.RelPath)
		w.WriteByte('\n')
	}
	return nil
}

func init() {
	Register("sum", func() Formatter {
		return &SumFormatter{}
	})
}

// Ensure SumFormatter implements Formatter.
var _ Formatter = (*SumFormatter)(nil)
