package solaraudio

import (
	"fmt"
	"strconv"
	"strings"
)

// This file implements the textual wire format the engine speaks: an effect
// descriptor is a comma-separated list of key:value tokens, e.g.
//
//	type:eq,bypassed:0,low_freq:100,low_gain:0
//
// ASCII only, no escaping of ',' or ':' within keys or values. "bypassed"
// is "0" or "1"; every other value is a decimal floating point number.
// Track effect lists are comma-separated ids, e.g. "1,5,9", with the empty
// string meaning no effects.

// ParseEffectInfo decodes a descriptor string into an EffectRecord with the
// given id. Tokens without exactly one ':' are skipped; a missing type
// token or any unparsable numeric value fails the whole decode and ok is
// false. Duplicate keys keep the last occurrence; keys outside the schema
// of the kind are dropped so that the Parameters invariant holds.
func ParseEffectInfo(id int, info string) (record EffectRecord, ok bool) {
	var (
		kind     EffectKind
		bypassed bool
		params   = make(map[string]float64)
	)
	for _, token := range strings.Split(info, ",") {
		parts := strings.Split(token, ":")
		if len(parts) != 2 { // skip tokens that are not exactly key:value
			continue
		}
		key, value := parts[0], parts[1]
		switch key {
		case "type":
			kind = EffectKind(value)
		case "bypassed":
			bypassed = value == "1"
		default:
			v, err := strconv.ParseFloat(value, 64)
			if err != nil {
				return EffectRecord{}, false
			}
			params[key] = v
		}
	}
	if _, known := EffectTypes[kind]; !known {
		return EffectRecord{}, false
	}
	for key := range params {
		if _, inSchema := FindEffectParameter(kind, key); !inSchema {
			delete(params, key)
		}
	}
	return EffectRecord{ID: id, Kind: kind, Bypassed: bypassed, Parameters: params}, true
}

// FormatEffectInfo is the inverse of ParseEffectInfo: type first, bypassed
// second, then the parameters present in the record, in schema order.
func FormatEffectInfo(record EffectRecord) string {
	var sb strings.Builder
	sb.WriteString("type:")
	sb.WriteString(string(record.Kind))
	sb.WriteString(",bypassed:")
	if record.Bypassed {
		sb.WriteString("1")
	} else {
		sb.WriteString("0")
	}
	for _, p := range EffectTypes[record.Kind] {
		if v, ok := record.Parameters[p.Name]; ok {
			sb.WriteString(",")
			sb.WriteString(p.Name)
			sb.WriteString(":")
			sb.WriteString(strconv.FormatFloat(v, 'f', -1, 64))
		}
	}
	return sb.String()
}

// ParseEffectIDs decodes a comma-separated id list. The empty string is an
// empty list, not a list of one empty id.
func ParseEffectIDs(s string) ([]int, error) {
	if s == "" {
		return nil, nil
	}
	tokens := strings.Split(s, ",")
	ids := make([]int, 0, len(tokens))
	for _, token := range tokens {
		id, err := strconv.Atoi(strings.TrimSpace(token))
		if err != nil {
			return nil, fmt.Errorf("invalid effect id %q: %v", token, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// FormatEffectIDs encodes ids as a comma-separated list, the empty slice as
// the empty string.
func FormatEffectIDs(ids []int) string {
	strs := make([]string, len(ids))
	for i, id := range ids {
		strs[i] = strconv.Itoa(id)
	}
	return strings.Join(strs, ",")
}
