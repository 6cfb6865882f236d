// Package codec encodes rows as encrypted, hex-encoded lines.
//
// A line is the AES-CBC ciphertext (PKCS#7 padded) of the JSON-serialised
// row, hex-encoded. The same CBC helpers seal the database secret at rest.
package codec
