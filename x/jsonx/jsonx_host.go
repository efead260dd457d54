//go:build !tinygo

package jsonx

import json "github.com/goccy/go-json"

// The goal is signature parity with encoding/json.

func Marshal(v any) ([]byte, error)      { return json.Marshal(v) }
func Unmarshal(data []byte, v any) error { return json.Unmarshal(data, v) }
