// Package normalizer turns the inconsistently shaped payloads returned by the
// booking backend into canonical records and entities.
package normalizer

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/cx-tal-miterani/flight-booking-client/shared/models"
)

// Shape identifies which known payload layout a response used
type Shape int

const (
	ShapeUnknown Shape = iota
	// ShapeStringBody is {"body": "<json>"}, as emitted by API gateway proxies.
	ShapeStringBody
	// ShapeArray is a bare JSON array, or {"body": [...]}.
	ShapeArray
	// ShapeItems is an object wrapping its records, e.g. {"Items": [...]}.
	ShapeItems
	// ShapeSingle is one object standing for a one-element collection.
	ShapeSingle
)

func (s Shape) String() string {
	switch s {
	case ShapeStringBody:
		return "string-body"
	case ShapeArray:
		return "array"
	case ShapeItems:
		return "items"
	case ShapeSingle:
		return "single"
	default:
		return "unknown"
	}
}

const (
	bodyKey  = "body"
	itemsKey = "Items"
)

// Payload is a classified response.
// Envelope merges the object(s) surrounding the records, inner keys winning,
// so metadata such as paginationToken can be read regardless of nesting.
type Payload struct {
	Shape    Shape
	Records  []Record
	Envelope Record
}

// Decode classifies raw into one of the known shapes. Extra wrapper keys
// (e.g. "bookings") are accepted alongside "Items".
func Decode(raw []byte, wrappers ...string) (Payload, error) {
	v, err := decodeJSON(raw)
	if err != nil {
		return Payload{}, &models.MalformedResponseError{Reason: "response is not valid JSON", Err: err}
	}

	keys := append([]string{itemsKey}, wrappers...)

	obj, ok := v.(map[string]any)
	if ok {
		if body, found := obj[bodyKey]; found {
			return decodeBody(Record(obj), body, keys)
		}
	}

	return classify(v, keys)
}

// NormalizeCollection returns the records of raw in payload order.
func NormalizeCollection(raw []byte, wrappers ...string) ([]Record, error) {
	p, err := Decode(raw, wrappers...)
	if err != nil {
		return nil, err
	}
	return p.Records, nil
}

// DecodeObject decodes a payload that must describe exactly one record.
func DecodeObject(raw []byte) (Payload, error) {
	p, err := Decode(raw)
	if err != nil {
		return Payload{}, err
	}
	if len(p.Records) != 1 {
		return Payload{}, &models.MalformedResponseError{
			Reason: fmt.Sprintf("expected a single object, got %d records in %s payload", len(p.Records), p.Shape),
		}
	}
	return p, nil
}

func decodeBody(outer Record, body any, keys []string) (Payload, error) {
	envelope := make(Record, len(outer))
	for k, v := range outer {
		if k != bodyKey {
			envelope[k] = v
		}
	}

	switch b := body.(type) {
	case string:
		inner, err := decodeJSON([]byte(b))
		if err != nil {
			return Payload{}, &models.MalformedResponseError{Reason: "body is not valid JSON", Err: err}
		}
		p, err := classify(inner, keys)
		if err != nil {
			return Payload{}, err
		}
		p.Shape = ShapeStringBody
		p.Envelope = envelope.overlay(p.Envelope)
		return p, nil
	case []any, map[string]any:
		p, err := classify(b, keys)
		if err != nil {
			return Payload{}, err
		}
		p.Envelope = envelope.overlay(p.Envelope)
		return p, nil
	default:
		return Payload{}, &models.MalformedResponseError{Reason: fmt.Sprintf("unsupported body type %T", body)}
	}
}

func classify(v any, keys []string) (Payload, error) {
	switch t := v.(type) {
	case []any:
		records, err := toRecords(t)
		if err != nil {
			return Payload{}, err
		}
		return Payload{Shape: ShapeArray, Records: records}, nil

	case map[string]any:
		obj := Record(t)
		for _, key := range keys {
			wrapped, found := obj[key]
			if !found {
				continue
			}
			if wrapped == nil {
				return Payload{Shape: ShapeItems, Records: []Record{}, Envelope: obj}, nil
			}
			items, ok := wrapped.([]any)
			if !ok {
				return Payload{}, &models.MalformedResponseError{Reason: fmt.Sprintf("%q is %T, not an array", key, wrapped)}
			}
			records, err := toRecords(items)
			if err != nil {
				return Payload{}, err
			}
			return Payload{Shape: ShapeItems, Records: records, Envelope: obj}, nil
		}
		return Payload{Shape: ShapeSingle, Records: []Record{obj}, Envelope: obj}, nil

	default:
		return Payload{}, &models.MalformedResponseError{Reason: fmt.Sprintf("unrecognized payload type %T", v)}
	}
}

// toRecords keeps object elements, skipping nulls. Any other element type is malformed.
func toRecords(items []any) ([]Record, error) {
	records := make([]Record, 0, len(items))
	for i, item := range items {
		switch t := item.(type) {
		case nil:
			continue
		case map[string]any:
			records = append(records, Record(t))
		default:
			return nil, &models.MalformedResponseError{Reason: fmt.Sprintf("element %d is %T, not an object", i, item)}
		}
	}
	return records, nil
}

func decodeJSON(raw []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return nil, errors.New("unexpected data after JSON value")
	}
	return v, nil
}
