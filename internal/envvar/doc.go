// Package envvar decodes raw environment values into typed settings.
//
// A Decoder never fails loudly: a value that cannot be decoded is reported as
// an absent Option and the caller keeps whatever default it already had.
package envvar
