// Package kv provides the durable key-value capability the client-side stores persist through.
// Keys are fixed strings; values are opaque strings (the stores write JSON).
package kv

// Storage is a string key-value facility.
// Get reports found=false for a missing key; err is reserved for I/O failures.
type Storage interface {
	Get(key string) (value string, found bool, err error)
	Set(key, value string) error
}

// Well-known keys used by the conversation and settings stores.
const (
	KeyHistory  = "openrouter_chat_history_v1"
	KeySettings = "openrouter_chat_settings_v1"
)
