package envvar

import (
	"strconv"
	"unicode/utf8"
)

// Decoder converts a raw environment value into T, or reports absence.
type Decoder[T any] func(raw string) Option[T]

// LookupFunc retrieves an environment variable; it matches os.LookupEnv.
type LookupFunc func(name string) (string, bool)

// FromMap returns a LookupFunc over a fixed snapshot of variables.
func FromMap(vars map[string]string) LookupFunc {
	return func(name string) (string, bool) {
		value, ok := vars[name]
		return value, ok
	}
}

// Bool treats "1" and "true" as true and every other value as false.
func Bool(raw string) Option[bool] {
	return Some(raw == "1" || raw == "true")
}

// Uint16 decodes a base-10 numeral that fits in 16 bits.
func Uint16(raw string) Option[uint16] {
	return parseUint[uint16](raw, 16)
}

// Uint32 decodes a base-10 numeral that fits in 32 bits.
func Uint32(raw string) Option[uint32] {
	return parseUint[uint32](raw, 32)
}

// Uint64 decodes a base-10 numeral that fits in 64 bits.
func Uint64(raw string) Option[uint64] {
	return parseUint[uint64](raw, 64)
}

// Size decodes a base-10 numeral that fits in a pointer-width unsigned integer.
func Size(raw string) Option[uint] {
	return parseUint[uint](raw, strconv.IntSize)
}

// String accepts any valid UTF-8 value verbatim.
func String(raw string) Option[string] {
	if !utf8.ValidString(raw) {
		return None[string]()
	}
	return Some(raw)
}

// Optional lifts inner so that a decoded value becomes Some(value). When inner
// reports absence the optional itself is absent, so the destination keeps its
// previous value rather than being reset.
func Optional[T any](inner Decoder[T]) Decoder[Option[T]] {
	return func(raw string) Option[Option[T]] {
		value, ok := inner(raw).Get()
		if !ok {
			return None[Option[T]]()
		}
		return Some(Some(value))
	}
}

// Lookup fetches name through lookup and decodes it. An unset variable is
// reported the same way as one that fails to decode.
func Lookup[T any](lookup LookupFunc, name string, decode Decoder[T]) Option[T] {
	raw, ok := lookup(name)
	if !ok {
		return None[T]()
	}
	return decode(raw)
}

// parseUint accepts an optional single leading '+' followed by base-10 digits.
func parseUint[T ~uint16 | ~uint32 | ~uint64 | ~uint](raw string, bits int) Option[T] {
	if len(raw) > 1 && raw[0] == '+' && raw[1] != '+' {
		raw = raw[1:]
	}
	value, err := strconv.ParseUint(raw, 10, bits)
	if err != nil {
		return None[T]()
	}
	return Some(T(value))
}
