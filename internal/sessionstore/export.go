package sessionstore

import (
	"errors"
	"fmt"
	"io"

	"github.com/fxamacker/cbor/v2"
	"github.com/ulikunitz/xz"
)

// Export writes every stored span to w as an xz-compressed CBOR
// stream, suitable for moving a session between machines or archiving
// a solved lab.
func (s *Store) Export(w io.Writer) error {
	spans, err := s.Spans()
	if err != nil {
		return err
	}
	xw, err := xz.NewWriter(w)
	if err != nil {
		return fmt.Errorf("creating xz writer: %w", err)
	}
	enc := cbor.NewEncoder(xw)
	for _, rec := range spans {
		if err := enc.Encode(rec); err != nil {
			return fmt.Errorf("encoding span export: %w", err)
		}
	}
	if err := xw.Close(); err != nil {
		return fmt.Errorf("closing xz writer: %w", err)
	}
	log.WithField("spans", len(spans)).Info("session exported")
	return nil
}

// Import reads an Export stream and saves every span it contains.
// Existing spans with the same offset and length are overwritten.
func (s *Store) Import(r io.Reader) error {
	xr, err := xz.NewReader(r)
	if err != nil {
		return fmt.Errorf("creating xz reader: %w", err)
	}
	dec := cbor.NewDecoder(xr)
	imported := 0
	for {
		var rec SpanRecord
		if err := dec.Decode(&rec); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return fmt.Errorf("decoding span import: %w", err)
		}
		if err := s.SaveSpan(rec); err != nil {
			return err
		}
		imported++
	}
	log.WithField("spans", imported).Info("session imported")
	return nil
}
