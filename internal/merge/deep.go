package merge

import (
	"encoding/json"
	"fmt"
	"reflect"
	"sort"
)

// DeepMerge merges src into dst and returns dst. Keys present in both take
// src's value, except that nested maps merge recursively and lists are
// unioned. Every list in the result is de-duplicated and sorted, including
// lists that only one side contributed. dst may be nil.
func DeepMerge(dst, src map[string]any) map[string]any {
	if dst == nil {
		dst = make(map[string]any, len(src))
	}
	for key, sv := range src {
		dst[key] = mergeValue(dst[key], sv)
	}
	return dst
}

func mergeValue(dv, sv any) any {
	if sm, ok := asMap(sv); ok {
		if dm, ok := asMap(dv); ok {
			return DeepMerge(dm, sm)
		}
		return DeepMerge(nil, sm)
	}
	if sl, ok := asList(sv); ok {
		if dl, ok := asList(dv); ok {
			return UnionValues(dl, sl)
		}
		return UnionValues(sl)
	}
	return sv
}

// UnionValues concatenates lists, drops duplicates, and sorts by each
// element's canonical JSON text.
func UnionValues(lists ...[]any) []any {
	seen := make(map[string]bool)
	type keyed struct {
		key   string
		value any
	}
	var items []keyed
	for _, list := range lists {
		for _, v := range list {
			if m, ok := asMap(v); ok {
				v = DeepMerge(nil, m)
			}
			k := sortKey(v)
			if seen[k] {
				continue
			}
			seen[k] = true
			items = append(items, keyed{key: k, value: v})
		}
	}
	sort.SliceStable(items, func(i, j int) bool { return items[i].key < items[j].key })
	out := make([]any, len(items))
	for i, it := range items {
		out[i] = it.value
	}
	return out
}

// UnionStrings is UnionValues for string lists. Empty strings are dropped.
func UnionStrings(lists ...[]string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, list := range lists {
		for _, s := range list {
			if s == "" || seen[s] {
				continue
			}
			seen[s] = true
			out = append(out, s)
		}
	}
	sort.Strings(out)
	return out
}

func sortKey(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%#v", v)
	}
	return string(b)
}

// asMap accepts map[string]any and other string-keyed maps.
func asMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case nil:
		return nil, false
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Map || rv.Type().Key().Kind() != reflect.String {
		return nil, false
	}
	out := make(map[string]any, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		out[iter.Key().String()] = iter.Value().Interface()
	}
	return out, true
}

// asList accepts any slice or array except byte slices.
func asList(v any) ([]any, bool) {
	switch l := v.(type) {
	case []any:
		return l, true
	case []byte, nil:
		return nil, false
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}
