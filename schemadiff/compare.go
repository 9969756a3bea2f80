package schemadiff

import (
	"bytes"
	"encoding/json"
	"io"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/EWPStanislavKhodorov/BO4E-python/errors"
)

// decode parses a schema document. Numbers keep their literal text so that
// integer and float values compare exactly. Anything but whitespace after
// the document is rejected.
func decode(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, errors.Newf(errors.CodeInvalidFormat,
			"unexpected data after JSON document at offset %d", dec.InputOffset())
	}
	return v, nil
}

// canonical renders a decoded document with sorted keys and fixed indentation.
func canonical(v any) string {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return ""
	}
	return string(b) + "\n"
}

type comparer struct {
	schema string
	ignore map[string]bool
	out    []Change
}

func (c *comparer) compare(path string, before, after any) {
	beforeKind, afterKind := kindOf(before), kindOf(after)
	if beforeKind != afterKind {
		c.add(KindTypeChanged, path, before, after)
		return
	}

	switch o := before.(type) {
	case map[string]any:
		n := after.(map[string]any)
		for _, key := range unionKeys(o, n) {
			if c.ignore[key] {
				continue
			}
			ov, inOld := o[key]
			nv, inNew := n[key]
			child := path + "/" + escapePointer(key)
			switch {
			case !inNew:
				c.add(KindFieldRemoved, child, ov, nil)
			case !inOld:
				c.add(KindFieldAdded, child, nil, nv)
			default:
				c.compare(child, ov, nv)
			}
		}
	case []any:
		n := after.([]any)
		if len(o) != len(n) {
			c.add(KindValueChanged, path, before, after)
			return
		}
		for i := range o {
			c.compare(path+"/"+strconv.Itoa(i), o[i], n[i])
		}
	default:
		if before != after {
			c.add(KindValueChanged, path, before, after)
		}
	}
}

func (c *comparer) add(kind Kind, path string, before, after any) {
	c.out = append(c.out, Change{Kind: kind, Schema: c.schema, Path: path, Old: before, New: after})
}

func kindOf(v any) string {
	switch v.(type) {
	case map[string]any:
		return "object"
	case []any:
		return "array"
	case string:
		return "string"
	case json.Number:
		return "number"
	case bool:
		return "boolean"
	default:
		return "null"
	}
}

func unionKeys(a, b map[string]any) []string {
	keys := slices.Collect(maps.Keys(a))
	for k := range b {
		if _, ok := a[k]; !ok {
			keys = append(keys, k)
		}
	}
	slices.Sort(keys)
	return keys
}

// escapePointer escapes a key for use as a JSON pointer token.
func escapePointer(key string) string {
	return strings.NewReplacer("~", "~0", "/", "~1").Replace(key)
}
