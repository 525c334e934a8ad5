package cli

import (
	"encoding/json"
	"fmt"
	"io"
)

// OutputFormatter routes command output. Verbose notes go to ErrWriter so
// they never corrupt JSON on the main stream.
type OutputFormatter struct {
	Format    string
	Writer    io.Writer
	ErrWriter io.Writer
	Verbose   bool
}

func (f *OutputFormatter) JSON(v interface{}) error {
	enc := json.NewEncoder(f.Writer)
	enc.SetIndent("", "  ")

	return enc.Encode(v)
}

func (f *OutputFormatter) Printf(format string, args ...interface{}) {
	fmt.Fprintf(f.Writer, format, args...)
}

func (f *OutputFormatter) Verbosef(format string, args ...interface{}) {
	if f.Verbose {
		fmt.Fprintf(f.ErrWriter, format, args...)
	}
}
