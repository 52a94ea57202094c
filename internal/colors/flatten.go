package colors

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
)

// Entry is one scalar leaf of a document, addressed by a dotted path.
type Entry struct {
	Path  string
	Value string
	// Hex is set when Value is a #rgb, #rrggbb or #rrggbbaa color.
	Hex bool
}

var hexColor = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6}|[0-9a-fA-F]{8})$`)

// IsHexColor reports whether s looks like a CSS hex color.
func IsHexColor(s string) bool {
	return hexColor.MatchString(s)
}

// Flatten lists the scalar leaves of the document in document order.
// Object members become "a.b", array elements "a[0]".
func (d Document) Flatten() ([]Entry, error) {
	dec := json.NewDecoder(bytes.NewReader(d))
	dec.UseNumber()

	var out []Entry
	if err := flattenValue(dec, "", &out); err != nil {
		return nil, fmt.Errorf("flatten: %w", err)
	}
	return out, nil
}

func flattenValue(dec *json.Decoder, path string, out *[]Entry) error {
	tok, err := dec.Token()
	if err != nil {
		if err == io.EOF {
			return io.ErrUnexpectedEOF
		}
		return err
	}

	switch v := tok.(type) {
	case json.Delim:
		switch v {
		case '{':
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return err
				}
				key, _ := keyTok.(string)
				if err := flattenValue(dec, joinKey(path, key), out); err != nil {
					return err
				}
			}
		case '[':
			for i := 0; dec.More(); i++ {
				if err := flattenValue(dec, path+"["+strconv.Itoa(i)+"]", out); err != nil {
					return err
				}
			}
		}
		// Closing delimiter.
		_, err := dec.Token()
		return err
	case string:
		*out = append(*out, Entry{Path: path, Value: v, Hex: IsHexColor(v)})
	case json.Number:
		*out = append(*out, Entry{Path: path, Value: v.String()})
	case bool:
		*out = append(*out, Entry{Path: path, Value: strconv.FormatBool(v)})
	case nil:
		*out = append(*out, Entry{Path: path, Value: "null"})
	}
	return nil
}

func joinKey(prefix, key string) string {
	if prefix == "" {
		return key
	}
	if strings.ContainsAny(key, ".[]") {
		return prefix + "[" + strconv.Quote(key) + "]"
	}
	return prefix + "." + key
}
