package savefile

import (
	"bytes"
	"io"

	json "github.com/goccy/go-json"
	"github.com/pkg/errors"
)

var errNotObject = errors.New("top-level value is not an object")

// Decode parses blob into a tree. Numbers are kept as json.Number so integers and
// reals keep their literal form until a field is edited.
func Decode(blob []byte) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(blob))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, formatErr("malformed data", err)
	}
	var extra any
	if err := dec.Decode(&extra); err != io.EOF {
		if err == nil {
			err = errors.New("unexpected data after blob")
		}
		return nil, formatErr("malformed data", err)
	}
	tree, ok := v.(map[string]any)
	if !ok {
		return nil, formatErr("malformed data", errNotObject)
	}
	return tree, nil
}

// Encode writes tree in compact form: no indentation, no HTML escaping, no trailing newline.
func Encode(tree map[string]any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(tree); err != nil {
		return nil, errors.Wrap(err, "encode blob")
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// Extracted is the result of splitting a save text around its blob.
type Extracted struct {
	Tree   map[string]any
	Span   Span
	Prefix []byte
	Suffix []byte
}

// Extract locates and decodes the blob inside text.
func Extract(text []byte, mode LocatorMode) (*Extracted, error) {
	span, err := Locate(text, mode)
	if err != nil {
		return nil, err
	}
	tree, err := Decode(text[span.Start:span.End])
	if err != nil {
		return nil, err
	}
	return &Extracted{
		Tree:   tree,
		Span:   span,
		Prefix: text[:span.Start],
		Suffix: text[span.End:],
	}, nil
}

// Patch re-encodes tree and splices it over span in original. Bytes outside span are
// copied verbatim.
func Patch(original []byte, span Span, tree map[string]any) ([]byte, error) {
	if span.Start < 0 || span.End > len(original) || span.Start > span.End {
		return nil, errors.Errorf("span %d..%d out of range for %d bytes", span.Start, span.End, len(original))
	}
	blob, err := Encode(tree)
	if err != nil {
		return nil, err
	}
	out := make([]byte, 0, len(original)-span.Len()+len(blob))
	out = append(out, original[:span.Start]...)
	out = append(out, blob...)
	out = append(out, original[span.End:]...)
	return out, nil
}
