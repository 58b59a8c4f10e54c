package game

import (
	"strconv"
	"strings"
)

// checksumSalt is embedded in the shipped binary. Anyone who can read the
// delivered code can read the salt, so the digest is tamper evidence
// against casual edits and accidental corruption, not a cryptographic
// signature. Keep it honest: do not dress this up as security.
const checksumSalt = "tapvault-v2-rotational"

// Digest binds the counter fields and the rotating integrity token into a
// short hex string via a 31x rolling hash over the joined fields.
func Digest(actionCount uint64, resource float64, reward uint64, token string) string {
	var b strings.Builder
	b.WriteString(strconv.FormatUint(actionCount, 10))
	b.WriteByte(':')
	b.WriteString(strconv.FormatFloat(resource, 'f', -1, 64))
	b.WriteByte(':')
	b.WriteString(strconv.FormatUint(reward, 10))
	b.WriteByte(':')
	b.WriteString(token)
	b.WriteByte(':')
	b.WriteString(checksumSalt)

	var h int32
	for _, c := range []byte(b.String()) {
		h = h*31 + int32(c)
	}
	return formatHex32(h)
}

func VerifyDigest(actionCount uint64, resource float64, reward uint64, token, digest string) bool {
	return digest != "" && Digest(actionCount, resource, reward, token) == digest
}

// formatHex32 keeps the sign of the wrapped 32-bit accumulator, so negative
// hashes render as "-1a2b" rather than the two's-complement form.
func formatHex32(h int32) string {
	if h < 0 {
		return "-" + strconv.FormatInt(-int64(h), 16)
	}
	return strconv.FormatInt(int64(h), 16)
}
