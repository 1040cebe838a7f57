//go:build !fitz

package background

import "github.com/pkg/errors"

// OpenPDF is only available in builds tagged with fitz.
func OpenPDF(path string) (Document, error) {
	return nil, errors.Errorf("could not open the PDF %q: PDF support needs a build with the fitz tag", path)
}
