package vault

import "crypto/subtle"

// wipe overwrites b with zeros in a constant-time friendly way. Best-effort
// hygiene for derived keys and revealed secrets.
func wipe(b []byte) {
	if len(b) == 0 {
		return
	}
	zero := make([]byte, len(b))
	subtle.ConstantTimeCopy(1, b, zero)
}
