package model

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Responses holds recorded answers keyed by category then subcategory.
// Categories and subcategories keep the position of their first write, so
// iteration and JSON encoding follow the order in which answers were recorded.
type Responses struct {
	categories []string
	entries    map[string]*categoryResponses
}

type categoryResponses struct {
	order   []string
	answers map[string]string
}

// Set records an answer. A later write for the same key replaces the answer
// but keeps its original position.
func (r *Responses) Set(category, subcategory, answer string) {
	cat := r.ensureCategory(category)
	if _, ok := cat.answers[subcategory]; !ok {
		cat.order = append(cat.order, subcategory)
	}
	cat.answers[subcategory] = answer
}

// AddCategory records category with no answers. A category that already
// exists keeps its position and answers.
func (r *Responses) AddCategory(category string) {
	r.ensureCategory(category)
}

func (r *Responses) ensureCategory(category string) *categoryResponses {
	if r.entries == nil {
		r.entries = make(map[string]*categoryResponses)
	}
	cat, ok := r.entries[category]
	if !ok {
		cat = &categoryResponses{answers: make(map[string]string)}
		r.entries[category] = cat
		r.categories = append(r.categories, category)
	}
	return cat
}

// Get returns the answer recorded for the pair.
func (r Responses) Get(category, subcategory string) (string, bool) {
	cat, ok := r.entries[category]
	if !ok {
		return "", false
	}
	answer, ok := cat.answers[subcategory]
	return answer, ok
}

// Categories returns the recorded categories in recording order.
func (r Responses) Categories() []string {
	out := make([]string, len(r.categories))
	copy(out, r.categories)
	return out
}

// Count returns the number of answers recorded under category.
func (r Responses) Count(category string) int {
	cat, ok := r.entries[category]
	if !ok {
		return 0
	}
	return len(cat.order)
}

// Len returns the total number of recorded answers.
func (r Responses) Len() int {
	n := 0
	for _, cat := range r.entries {
		n += len(cat.order)
	}
	return n
}

// Each calls fn for every recorded answer in recording order.
func (r Responses) Each(fn func(category, subcategory, answer string)) {
	for _, category := range r.categories {
		cat := r.entries[category]
		for _, sub := range cat.order {
			fn(category, sub, cat.answers[sub])
		}
	}
}

func (r Responses) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, category := range r.categories {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeJSONKey(&buf, category); err != nil {
			return nil, err
		}
		cat := r.entries[category]
		buf.WriteByte('{')
		for j, sub := range cat.order {
			if j > 0 {
				buf.WriteByte(',')
			}
			if err := writeJSONKey(&buf, sub); err != nil {
				return nil, err
			}
			v, err := json.Marshal(cat.answers[sub])
			if err != nil {
				return nil, err
			}
			buf.Write(v)
		}
		buf.WriteByte('}')
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func writeJSONKey(buf *bytes.Buffer, key string) error {
	k, err := json.Marshal(key)
	if err != nil {
		return err
	}
	buf.Write(k)
	buf.WriteByte(':')
	return nil
}

// UnmarshalJSON decodes a nested {category: {subcategory: answer}} object,
// keeping the key order of the document.
func (r *Responses) UnmarshalJSON(data []byte) error {
	*r = Responses{}
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	if err := expectDelim(dec, '{'); err != nil {
		return err
	}
	for dec.More() {
		category, err := readKey(dec)
		if err != nil {
			return err
		}
		if err := expectDelim(dec, '{'); err != nil {
			return fmt.Errorf("responses[%s]: %w", category, err)
		}
		r.ensureCategory(category)
		for dec.More() {
			sub, err := readKey(dec)
			if err != nil {
				return err
			}
			var answer string
			if err := dec.Decode(&answer); err != nil {
				return fmt.Errorf("responses[%s][%s]: %w", category, sub, err)
			}
			r.Set(category, sub, answer)
		}
		if err := expectDelim(dec, '}'); err != nil {
			return err
		}
	}
	return expectDelim(dec, '}')
}

func expectDelim(dec *json.Decoder, want json.Delim) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != want {
		return fmt.Errorf("expected %q, got %v", want, tok)
	}
	return nil
}

func readKey(dec *json.Decoder) (string, error) {
	tok, err := dec.Token()
	if err != nil {
		return "", err
	}
	key, ok := tok.(string)
	if !ok {
		return "", fmt.Errorf("expected object key, got %v", tok)
	}
	return key, nil
}
