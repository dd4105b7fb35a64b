package store

import (
	"errors"

	"github.com/tidwall/gjson"
)

var (
	// ErrMalformed means a payload did not parse as JSON.
	ErrMalformed = errors.New("payload is not valid JSON")
	// ErrShape means a payload parsed but holds no record list.
	ErrShape = errors.New("payload holds no record list")
)

// ListJSON returns the raw record array inside payload. The payload may be
// the array itself or an object holding it; keys are tried first, then the
// first array-valued member.
func ListJSON(payload []byte, keys ...string) (string, bool) {
	doc := gjson.ParseBytes(payload)
	if doc.IsArray() {
		return doc.Raw, true
	}
	if !doc.IsObject() {
		return "", false
	}
	for _, key := range keys {
		if v := doc.Get(gjson.Escape(key)); v.IsArray() {
			return v.Raw, true
		}
	}
	found := ""
	doc.ForEach(func(_, v gjson.Result) bool {
		if v.IsArray() {
			found = v.Raw
			return false
		}
		return true
	})
	return found, found != ""
}
