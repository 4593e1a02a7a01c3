// Package json routes JSON encoding through sonic so every component shares
// one codec configuration.
package json

import (
	"github.com/bytedance/sonic"
)

// Marshal encodes v as JSON.
func Marshal(v interface{}) ([]byte, error) {
	return sonic.Marshal(v)
}

// Unmarshal decodes data into v.
func Unmarshal(data []byte, v interface{}) error {
	return sonic.Unmarshal(data, v)
}
