// Package sanitizer normalizes free-text input before it reaches validation
// and storage.
//
// All functions are idempotent and never fail: unusable input comes back as
// an empty string, which validation then rejects.
package sanitizer
