// =============================================================================
// ONIX Export - Message Assembler
// =============================================================================
//
// This module wraps the exported products in an ONIXMessage envelope and
// serializes it.
//
// XML STRUCTURE:
//
//   <?xml version="1.0" encoding="UTF-8"?>
//   <ONIXMessage xmlns="http://ns.editeur.org/onix/3.0/reference" release="3.0">
//     <Header>
//       <Sender>
//         <SenderName>Presses Test</SenderName>
//       </Sender>
//       <SentDateTime>20240315T0930</SentDateTime>
//     </Header>
//     <Product>...</Product>
//   </ONIXMessage>
//
// Output is deterministic: the same products and the same sent time always
// give the same bytes.
//
// =============================================================================

package xmlwriter

import (
	"bytes"
	"encoding/xml"
	"os"
	"path/filepath"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/ginjaninja78/onix-export/internal/config"
	"github.com/ginjaninja78/onix-export/internal/onix"
)

// SentDateTimeLayout is the ONIX "YYYYMMDDTHHMM" header timestamp.
const SentDateTimeLayout = "20060102T1504"

// =============================================================================
// XML GENERATION OPTIONS
// =============================================================================

// GenerateOptions contains options for XML generation.
type GenerateOptions struct {
	// Indent is the string used for one level of indentation.
	// Default: "  " (two spaces)
	Indent string

	// IncludeXMLDeclaration determines whether to include the XML declaration.
	// Default: true
	IncludeXMLDeclaration bool
}

// DefaultGenerateOptions returns the default generation options.
func DefaultGenerateOptions() GenerateOptions {
	return GenerateOptions{
		Indent:                "  ",
		IncludeXMLDeclaration: true,
	}
}

// =============================================================================
// MESSAGE ASSEMBLY
// =============================================================================

// NewMessage builds the envelope around products, in the given order.
func NewMessage(cfg config.PublisherConfig, sent time.Time, products []*onix.Product) *onix.Message {
	return &onix.Message{
		Release: cfg.Release,
		Header: onix.Header{
			Sender:       onix.Sender{SenderName: cfg.SenderName},
			SentDateTime: sent.Format(SentDateTimeLayout),
		},
		Products: products,
	}
}

// =============================================================================
// SERIALIZATION
// =============================================================================

// Generate serializes msg with the default options.
func Generate(msg *onix.Message) ([]byte, error) {
	return GenerateWithOptions(msg, DefaultGenerateOptions())
}

// GenerateWithOptions serializes msg. The output ends with a newline.
func GenerateWithOptions(msg *onix.Message, options GenerateOptions) ([]byte, error) {
	var buf bytes.Buffer

	if options.IncludeXMLDeclaration {
		buf.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	}

	enc := xml.NewEncoder(&buf)
	enc.Indent("", options.Indent)
	if err := enc.Encode(msg); err != nil {
		return nil, errors.Wrap(err, "encoding ONIX message")
	}
	if err := enc.Close(); err != nil {
		return nil, errors.Wrap(err, "encoding ONIX message")
	}

	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

// WriteFile serializes msg to path, creating the parent directory. The
// file is written under a temporary name and renamed into place.
func WriteFile(path string, msg *onix.Message) error {
	data, err := Generate(msg)
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrapf(err, "creating output directory %s", dir)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return errors.Wrapf(err, "creating output file in %s", dir)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return errors.Wrapf(err, "writing %s", path)
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrapf(err, "writing %s", path)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return errors.Wrapf(err, "writing %s", path)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return errors.Wrapf(err, "moving output into place at %s", path)
	}
	return nil
}
