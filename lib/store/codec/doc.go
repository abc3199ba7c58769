// Package codec defines how records are encoded on disk.
//
// A record is a flat mapping from field name to value. The json codecs write
// it as a single json object without header, version or checksum; the compact
// and the indented variant produce files that either codec can read back.
//
// Decoding keeps numbers as json.Number, so integer fields survive a round
// trip without passing through float64.
package codec
