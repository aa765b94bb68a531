package common

import (
	"bytes"
	"encoding/json"
	"strings"
)

// StringList decodes from either a JSON array of strings or a single
// comma-delimited string. Entries are trimmed and empty entries dropped.
type StringList []string

func (l *StringList) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if bytes.Equal(trimmed, []byte("null")) {
		*l = nil
		return nil
	}
	if len(trimmed) > 0 && trimmed[0] == '"' {
		var raw string
		if err := json.Unmarshal(trimmed, &raw); err != nil {
			return err
		}
		*l = SplitList(raw)
		return nil
	}
	var items []string
	if err := json.Unmarshal(trimmed, &items); err != nil {
		return err
	}
	*l = CleanList(items)
	return nil
}

func SplitList(raw string) []string {
	return CleanList(strings.Split(raw, ","))
}

func CleanList(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item != "" {
			out = append(out, item)
		}
	}
	return out
}
