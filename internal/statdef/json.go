package statdef

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"

	"gopkg.in/yaml.v3"
)

// looksLikeJSON reports whether the first non-blank byte opens a JSON object.
func looksLikeJSON(data []byte) bool {
	trimmed := bytes.TrimLeft(data, " \t\r\n")
	return len(trimmed) > 0 && trimmed[0] == '{'
}

// decodeJSON converts a JSON document into the yaml.Node tree the parser walks.
// Key order and line numbers are kept; numbers are tagged !!float, strings
// !!str, so parseValue classifies them the same way as YAML scalars.
func decodeJSON(data []byte) (*yaml.Node, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	n, err := jsonValue(dec, data)
	if err != nil {
		return nil, err
	}
	switch _, err := dec.Token(); {
	case errors.Is(err, io.EOF):
		return n, nil
	case err != nil:
		return nil, err
	default:
		return nil, fmt.Errorf("unexpected data after the top-level object (line %d)", lineAt(data, dec.InputOffset()))
	}
}

func jsonValue(dec *json.Decoder, data []byte) (*yaml.Node, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	line := lineAt(data, dec.InputOffset())

	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			n := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map", Line: line}
			for dec.More() {
				kt, err := dec.Token()
				if err != nil {
					return nil, err
				}
				key, _ := kt.(string)
				k := scalar("!!str", key, lineAt(data, dec.InputOffset()))
				v, err := jsonValue(dec, data)
				if err != nil {
					return nil, err
				}
				n.Content = append(n.Content, k, v)
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return n, nil

		case '[':
			n := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq", Line: line}
			for dec.More() {
				v, err := jsonValue(dec, data)
				if err != nil {
					return nil, err
				}
				n.Content = append(n.Content, v)
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return n, nil
		}
		return nil, fmt.Errorf("unexpected %q (line %d)", rune(t), line)

	case string:
		return scalar("!!str", t, line), nil
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return nil, fmt.Errorf("%w: number %s (line %d): %v", ErrParse, t, line, err)
		}
		return scalar("!!float", strconv.FormatFloat(f, 'g', -1, 64), line), nil
	case bool:
		if t {
			return scalar("!!bool", "true", line), nil
		}
		return scalar("!!bool", "false", line), nil
	case nil:
		return scalar("!!null", "null", line), nil
	}
	return nil, fmt.Errorf("unexpected token %v (line %d)", tok, line)
}

func scalar(tag, value string, line int) *yaml.Node {
	n := &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: value, Line: line}
	if tag == "!!str" {
		n.Style = yaml.DoubleQuotedStyle
	}
	return n
}

func lineAt(data []byte, offset int64) int {
	if offset > int64(len(data)) {
		offset = int64(len(data))
	}
	return 1 + bytes.Count(data[:offset], []byte{'\n'})
}
