package favicon

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
)

// ErrUnavailable indicates the image codec cannot be used.
var ErrUnavailable = errors.New("image processing unavailable")

// MissingInputError reports that the source logo does not exist.
type MissingInputError struct {
	Path string
	Err  error
}

func (e *MissingInputError) Error() string {
	return fmt.Sprintf("%s not found", e.Path)
}

func (e *MissingInputError) Unwrap() error {
	return e.Err
}

// Alternatives to this tool when it cannot run.
var (
	InstallCommand = "go install git.sr.ht/~jackmordaunt/favicon/cmd/favicon@latest"
	OnlineServices = []string{
		"https://favicon.io/favicon-converter/",
		"https://realfavicongenerator.net/",
	}
)

// Report writes a human readable description of err to w, with remediation
// where there is one.
func Report(w io.Writer, err error) {
	if err == nil {
		return
	}
	var missing *MissingInputError
	switch {
	case errors.Is(err, ErrUnavailable):
		fmt.Fprintf(w, "error: %v\n", err)
		fmt.Fprintf(w, "\ninstall the converter with:\n")
		fmt.Fprintf(w, "   %s\n", InstallCommand)
		fmt.Fprintf(w, "\nor use an online service:\n")
		for _, s := range OnlineServices {
			fmt.Fprintf(w, "   %s\n", s)
		}
	case errors.As(err, &missing):
		fmt.Fprintf(w, "error: %s not found\n", missing.Path)
		fmt.Fprintf(w, "make sure the file exists in the %q directory\n", filepath.Dir(missing.Path))
	default:
		fmt.Fprintf(w, "error: unexpected: %v\n", err)
	}
}
