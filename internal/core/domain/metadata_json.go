package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// metadataAlias breaks the UnmarshalJSON recursion on MetadataRecord.
type metadataAlias MetadataRecord

// UnmarshalJSON decodes a sidecar record, preserving the insertion
// order of the critical_facts object and coercing its values into
// tagged scalars. Nested objects and arrays inside critical_facts are
// ignored rather than rejected.
func (r *MetadataRecord) UnmarshalJSON(data []byte) error {
	aux := struct {
		*metadataAlias
		CriticalFacts json.RawMessage `json:"critical_facts,omitempty"`
	}{metadataAlias: (*metadataAlias)(r)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if len(aux.CriticalFacts) > 0 {
		facts, err := parseCriticalFacts(aux.CriticalFacts)
		if err != nil {
			return fmt.Errorf("critical_facts: %w", err)
		}
		r.CriticalFacts = facts
	}
	return nil
}

// MarshalJSON encodes the record with critical_facts written back as an
// ordered JSON object.
func (r MetadataRecord) MarshalJSON() ([]byte, error) {
	base, err := json.Marshal(metadataAlias(r))
	if err != nil {
		return nil, err
	}
	if len(r.CriticalFacts) == 0 {
		return base, nil
	}

	var facts bytes.Buffer
	facts.WriteString(`"critical_facts":{`)
	for i, f := range r.CriticalFacts {
		if i > 0 {
			facts.WriteByte(',')
		}
		key, err := json.Marshal(f.Key)
		if err != nil {
			return nil, err
		}
		facts.Write(key)
		facts.WriteByte(':')
		var val []byte
		switch f.Value.Kind {
		case ScalarNumber:
			val, err = json.Marshal(f.Value.Num)
		case ScalarBool:
			val, err = json.Marshal(f.Value.Bool)
		default:
			val, err = json.Marshal(f.Value.Str)
		}
		if err != nil {
			return nil, err
		}
		facts.Write(val)
	}
	facts.WriteByte('}')

	// Splice the facts object in before the closing brace.
	out := make([]byte, 0, len(base)+facts.Len()+1)
	out = append(out, base[:len(base)-1]...)
	out = append(out, ',')
	out = append(out, facts.Bytes()...)
	out = append(out, '}')
	return out, nil
}

// parseCriticalFacts walks the raw object with a token decoder so key
// order survives the round trip.
func parseCriticalFacts(raw json.RawMessage) ([]CriticalFact, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("expected object, got %v", tok)
	}

	var facts []CriticalFact
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, fmt.Errorf("expected string key, got %v", keyTok)
		}

		valTok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		switch v := valTok.(type) {
		case string:
			facts = append(facts, CriticalFact{Key: key, Value: StringValue(v)})
		case json.Number:
			n, err := v.Float64()
			if err != nil {
				return nil, err
			}
			facts = append(facts, CriticalFact{Key: key, Value: NumberValue(n)})
		case bool:
			facts = append(facts, CriticalFact{Key: key, Value: BoolValue(v)})
		case nil:
			// null facts carry no information; dropped
		case json.Delim:
			// Nested structure: consume and ignore.
			if err := skipValue(dec, v); err != nil {
				return nil, err
			}
		}
	}
	// Consume closing brace.
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return facts, nil
}

// skipValue consumes the remainder of a compound value whose opening
// delimiter has already been read.
func skipValue(dec *json.Decoder, open json.Delim) error {
	if open != '{' && open != '[' {
		return nil
	}
	depth := 1
	for depth > 0 {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		if d, ok := tok.(json.Delim); ok {
			switch d {
			case '{', '[':
				depth++
			case '}', ']':
				depth--
			}
		}
	}
	return nil
}
