package document

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/starford/pacofilter/internal/apperr"
)

// Indent is the indentation used when encoding documents.
const Indent = "  "

// Decode parses raw JSON into a document. The root must be an object.
func Decode(data []byte) (*Object, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, fmt.Errorf("%w: document root must be a JSON object", apperr.ErrMalformedInput)
	}

	root := NewObject()
	if err := json.Unmarshal(trimmed, root); err != nil {
		return nil, fmt.Errorf("%w: %v", apperr.ErrMalformedInput, err)
	}
	return root, nil
}

// Encode serializes root as indented JSON terminated by a newline.
func Encode(root *Object) ([]byte, error) {
	if root == nil {
		root = NewObject()
	}
	compact, err := ObjectValue(root).MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	var out bytes.Buffer
	if err := json.Indent(&out, compact, "", Indent); err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	out.WriteByte('\n')
	return out.Bytes(), nil
}
