// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package film

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"math"
	"strconv"
	"strings"
)

var textFields = []string{"name", "author", "description", "genre"}

// Decode validates a request body and returns the Video it describes.
// Unknown fields are ignored. Every missing or mistyped field is reported.
func Decode(data []byte) (Video, error) {
	return decodeAt(data, "body")
}

// DecodeList validates a JSON list of records, as stored in the data file.
func DecodeList(data []byte) ([]Video, error) {
	var raws []json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil || isNull(data) {
		ve := &ValidationError{}
		if !json.Valid(data) {
			ve.add([]any{}, ErrTypeJSONInvalid, "JSON decode error")
		} else {
			ve.add([]any{}, ErrTypeList, "Input should be a valid list")
		}
		return nil, ve
	}

	out := make([]Video, 0, len(raws))
	all := &ValidationError{}
	for i, raw := range raws {
		v, err := decodeAt(raw, i)
		if err != nil {
			var ve *ValidationError
			if !errors.As(err, &ve) {
				return nil, err
			}
			all.Errors = append(all.Errors, ve.Errors...)
			continue
		}
		out = append(out, v)
	}
	if len(all.Errors) > 0 {
		return nil, all
	}
	return out, nil
}

func decodeAt(data []byte, prefix ...any) (Video, error) {
	ve := &ValidationError{}
	loc := func(field string) []any {
		l := make([]any, 0, len(prefix)+1)
		l = append(l, prefix...)
		return append(l, field)
	}

	if !json.Valid(data) {
		ve.add(append([]any{}, prefix...), ErrTypeJSONInvalid, "JSON decode error")
		return Video{}, ve
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil || fields == nil {
		ve.add(append([]any{}, prefix...), ErrTypeObject,
			"Input should be a valid dictionary or object to extract fields from")
		return Video{}, ve
	}

	var v Video
	if raw, ok := fields["id"]; !ok {
		ve.add(loc("id"), ErrTypeMissing, "Field required")
	} else if id, typ, msg := parseInt(raw); typ != "" {
		ve.add(loc("id"), typ, msg)
	} else {
		v.ID = id
	}

	targets := []*string{&v.Name, &v.Author, &v.Description, &v.Genre}
	for i, name := range textFields {
		raw, ok := fields[name]
		if !ok {
			ve.add(loc(name), ErrTypeMissing, "Field required")
			continue
		}
		var s string
		if isNull(raw) || json.Unmarshal(raw, &s) != nil {
			ve.add(loc(name), ErrTypeString, "Input should be a valid string")
			continue
		}
		*targets[i] = s
	}

	if len(ve.Errors) > 0 {
		return Video{}, ve
	}
	return v, nil
}

// parseInt accepts integral JSON numbers, including floats without a
// fractional part, and strings holding a base-10 integer. A non-empty typ
// reports the failure.
func parseInt(raw json.RawMessage) (id int, typ, msg string) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var val any
	if err := dec.Decode(&val); err != nil {
		return 0, ErrTypeInt, "Input should be a valid integer"
	}
	switch v := val.(type) {
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return 0, ErrTypeIntParsing, "Input should be a valid integer, unable to parse string as an integer"
		}
		return i, "", ""
	case json.Number:
		if i, err := strconv.Atoi(v.String()); err == nil {
			return i, "", ""
		}
		f, err := v.Float64()
		// float64(math.MaxInt64) rounds up to 2^63, so the upper bound is exclusive.
		if err != nil || math.IsInf(f, 0) || f >= math.MaxInt64 || f < math.MinInt64 {
			return 0, ErrTypeInt, "Input should be a valid integer"
		}
		if f != math.Trunc(f) {
			return 0, ErrTypeIntFromFloat, "Input should be a valid integer, got a number with a fractional part"
		}
		return int(f), "", ""
	default:
		return 0, ErrTypeInt, "Input should be a valid integer"
	}
}

func isNull(raw json.RawMessage) bool {
	return string(bytes.TrimSpace(raw)) == "null"
}

// ParseID parses an integer path segment.
func ParseID(s string) (int, error) {
	id, err := strconv.Atoi(s)
	if err != nil {
		return 0, &ValidationError{Errors: []FieldError{{
			Loc:  []any{"path", "video_id"},
			Msg:  "Input should be a valid integer, unable to parse string as an integer",
			Type: ErrTypeIntParsing,
		}}}
	}
	return id, nil
}

// Encode writes videos in their canonical persisted form: a JSON list with
// 2-space indentation and non-ASCII and HTML characters written literally.
func Encode(w io.Writer, videos []Video) error {
	data, err := Marshal(videos)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// Marshal returns the canonical persisted form of videos. An empty or nil
// sequence is written as [].
func Marshal(videos []Video) ([]byte, error) {
	if videos == nil {
		videos = []Video{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(videos); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
