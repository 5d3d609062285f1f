package storage

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// toDocument encodes a bson-tagged value into a plain map holding only
// time.Time, []any, map[string]any and scalar values.
func toDocument(v any) (map[string]any, error) {
	raw, err := bson.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	var m bson.M
	if err := bson.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	return normalize(m).(map[string]any), nil
}

// normalizeFields runs an update payload through the bson codec so nested
// structs are stored the same way Insert stores them.
func normalizeFields(fields Fields) (map[string]any, error) {
	if len(fields) == 0 {
		return map[string]any{}, nil
	}
	return toDocument(map[string]any(fields))
}

func normalize(v any) any {
	switch t := v.(type) {
	case bson.M:
		return normalize(map[string]any(t))
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, x := range t {
			out[k] = normalize(x)
		}
		return out
	case bson.D:
		out := make(map[string]any, len(t))
		for _, e := range t {
			out[e.Key] = normalize(e.Value)
		}
		return out
	case bson.A:
		return normalize([]any(t))
	case []any:
		out := make([]any, len(t))
		for i, x := range t {
			out[i] = normalize(x)
		}
		return out
	case primitive.DateTime:
		return t.Time().UTC()
	case time.Time:
		return t.UTC()
	case primitive.ObjectID:
		return t.Hex()
	case int32:
		return int64(t)
	case int:
		return int64(t)
	default:
		return v
	}
}

// decodeOne decodes a single plain document into out.
func decodeOne(doc map[string]any, out any) error {
	raw, err := bson.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}
	if err := bson.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode document: %w", err)
	}
	return nil
}

// decodeAll decodes plain documents into out, a pointer to a slice.
func decodeAll(docs []map[string]any, out any) error {
	if docs == nil {
		docs = []map[string]any{}
	}
	raw, err := bson.Marshal(bson.M{"v": docs})
	if err != nil {
		return fmt.Errorf("encode documents: %w", err)
	}
	if err := bson.Raw(raw).Lookup("v").Unmarshal(out); err != nil {
		return fmt.Errorf("decode documents: %w", err)
	}
	return nil
}

func asNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

// compareValues orders two stored values of the same kind. Values of
// different kinds compare equal.
func compareValues(a, b any) int {
	if x, ok := asNumber(a); ok {
		if y, ok := asNumber(b); ok {
			switch {
			case x < y:
				return -1
			case x > y:
				return 1
			}
			return 0
		}
	}
	switch x := a.(type) {
	case string:
		if y, ok := b.(string); ok {
			return strings.Compare(x, y)
		}
	case time.Time:
		if y, ok := b.(time.Time); ok {
			return x.Compare(y)
		}
	case bool:
		if y, ok := b.(bool); ok && x != y {
			if !x {
				return -1
			}
			return 1
		}
	}
	return 0
}

func valuesEqual(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if x, ok := asNumber(a); ok {
		y, ok := asNumber(b)
		return ok && x == y
	}
	switch x := a.(type) {
	case string:
		y, ok := b.(string)
		return ok && x == y
	case bool:
		y, ok := b.(bool)
		return ok && x == y
	case time.Time:
		y, ok := b.(time.Time)
		return ok && x.Equal(y)
	}
	return false
}

func matches(doc map[string]any, where []Filter) bool {
	for _, f := range where {
		want := normalize(f.Value)
		if !valuesEqual(doc[f.Field], want) {
			return false
		}
	}
	return true
}

// sortDocuments orders docs by field. Documents missing the field sort last
// in either direction and ties keep their current order.
func sortDocuments(docs []map[string]any, field string, desc bool) {
	if field == "" {
		return
	}
	sort.SliceStable(docs, func(i, j int) bool {
		a, b := docs[i][field], docs[j][field]
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		}
		c := compareValues(a, b)
		if desc {
			return c > 0
		}
		return c < 0
	})
}
