package codec

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"veildb/internal/domain"
)

// KeySize is the AES-256 key length expected by Encode and Decode.
const KeySize = 32

// Encode serialises row to JSON, pads to the AES block size, encrypts with
// AES-CBC under key, and returns the lowercase hex of the ciphertext. The IV
// is the first block of the key, so the output is deterministic: identical
// rows under the same key produce identical lines. That is a documented
// limitation of the format, not a property to rely on.
func Encode(row domain.Row, key []byte) (string, error) {
	raw, err := json.Marshal(row)
	if err != nil {
		return "", fmt.Errorf("marshal row: %w", err)
	}
	ct, err := EncryptCBC(key, key[:aes.BlockSize], raw)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(ct), nil
}

// Decode reverses Encode. Hex, block-size, padding, and JSON failures all
// surface as domain.ErrCorruptRecord.
func Decode(line string, key []byte) (domain.Row, error) {
	ct, err := hex.DecodeString(line)
	if err != nil {
		return nil, fmt.Errorf("%w: not valid hex: %v", domain.ErrCorruptRecord, err)
	}
	raw, err := DecryptCBC(key, key[:aes.BlockSize], ct)
	if err != nil {
		return nil, err
	}
	var row domain.Row
	if err := json.Unmarshal(raw, &row); err != nil {
		return nil, fmt.Errorf("%w: not valid JSON: %v", domain.ErrCorruptRecord, err)
	}
	return row, nil
}

// EncryptCBC pads plaintext with PKCS#7 and encrypts it with AES-CBC.
func EncryptCBC(key, iv, plaintext []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("new cipher: %w", err)
	}
	padded := pkcs7Pad(plaintext, aes.BlockSize)
	out := make([]byte, len(padded))
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(out, padded)
	return out, nil
}

// DecryptCBC decrypts AES-CBC ciphertext and strips PKCS#7 padding.
// A ciphertext that is empty or not block-aligned, or padding that does not
// verify, reports domain.ErrCorruptRecord.
func DecryptCBC(key, iv, ciphertext []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("new cipher: %w", err)
	}
	if len(ciphertext) == 0 || len(ciphertext)%aes.BlockSize != 0 {
		return nil, fmt.Errorf("%w: ciphertext length %d not block aligned", domain.ErrCorruptRecord, len(ciphertext))
	}
	out := make([]byte, len(ciphertext))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(out, ciphertext)
	return pkcs7Unpad(out, aes.BlockSize)
}

func pkcs7Pad(b []byte, size int) []byte {
	n := size - len(b)%size
	return append(b, bytes.Repeat([]byte{byte(n)}, n)...)
}

func pkcs7Unpad(b []byte, size int) ([]byte, error) {
	if len(b) == 0 || len(b)%size != 0 {
		return nil, fmt.Errorf("%w: bad padded length %d", domain.ErrCorruptRecord, len(b))
	}
	n := int(b[len(b)-1])
	if n == 0 || n > size {
		return nil, fmt.Errorf("%w: bad padding byte %d", domain.ErrCorruptRecord, n)
	}
	for _, c := range b[len(b)-n:] {
		if int(c) != n {
			return nil, fmt.Errorf("%w: inconsistent padding", domain.ErrCorruptRecord)
		}
	}
	return b[:len(b)-n], nil
}
