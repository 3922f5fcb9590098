// Package codec encodes and decodes single CBOR (RFC 8949) data items for
// the scalar subset: signed 64-bit integers, doubles, UTF-8 text, byte
// strings, booleans and null.
//
// Encoders always produce the shortest argument head for integers and
// lengths. Doubles are written in the 8-byte form with their bit pattern
// untouched, so NaN payloads and negative zero survive a round trip.
//
// Decoders accept exactly one well-formed item spanning the whole input.
// Every major type is recognised by DecodeValue, so a caller can tell a
// map or a tag apart from malformed input even though nothing here
// produces them:
//
//	v, err := codec.DecodeValue(data)
//	if err != nil {
//		return err
//	}
//	switch v.Kind {
//	case codec.KindUnsigned, codec.KindNegative:
//		...
//	}
//
// Failures are *errors.Error values from this module's errors package.
package codec
