// Package cookiejar implements the fallback tier: a text file of
// semicolon-separated name=value entries with expires and path attributes,
// mirroring the cookie channel the records were originally written to. It is
// only consulted when a structured tier cannot serve a write, so the format
// favors interoperability over efficiency: values stay URL-encoded on disk
// and the whole jar is rewritten on every mutation.
//
// Deletion follows the cookie idiom of writing an immediately expired entry
// under the same name; expired entries are dropped the next time the jar is
// loaded.
package cookiejar
