package shroud

// Method identifies an anonymization transform.
// Use these constants in struct tags: `anonymize:"hash"`
type Method string

const (
	// MethodHash replaces the value with a deterministic hex digest.
	MethodHash Method = "hash"

	// MethodRedact replaces the value with a fixed literal.
	MethodRedact Method = "redact"

	// MethodMask hides all but the last four characters.
	MethodMask Method = "mask"

	// MethodRange generalizes a number to a multiple of an interval.
	MethodRange Method = "range"

	// MethodEncrypt is reserved for the AES transform returned by Encrypt.
	// It is not registered by default because it needs a key.
	MethodEncrypt Method = "encrypt"
)

// Rounding selects how Range snaps a value onto its interval.
type Rounding string

const (
	RoundFloor   Rounding = "floor"   // toward negative infinity (default)
	RoundCeiling Rounding = "ceiling" // toward positive infinity
	RoundNearest Rounding = "round"   // to nearest, ties away from zero
)

// HashAlgo represents a supported deterministic hash algorithm.
// Use these constants in struct tags: `anonymize:"hash,algo=sha512"`
type HashAlgo string

const (
	// HashSHA256 uses SHA-256 (default).
	HashSHA256 HashAlgo = "sha256"

	// HashSHA512 uses SHA-512.
	HashSHA512 HashAlgo = "sha512"

	// HashBLAKE2b uses BLAKE2b-256.
	HashBLAKE2b HashAlgo = "blake2b"

	// HashSHA3 uses SHA3-256.
	HashSHA3 HashAlgo = "sha3"
)

// MaskFormat selects a masking layout.
// Use these constants in struct tags: `anonymize:"mask,format=email"`
type MaskFormat string

const (
	MaskTail  MaskFormat = "tail"  // 1234567890123456 -> ************3456 (default)
	MaskEmail MaskFormat = "email" // alice@example.com -> a***@example.com
	MaskPhone MaskFormat = "phone" // (555) 123-4567 -> (***) ***-4567
	MaskCard  MaskFormat = "card"  // 4111 1111 1111 1111 -> **** **** **** 1111
	MaskIP    MaskFormat = "ip"    // 192.168.1.100 -> 192.168.xxx.xxx
	MaskName  MaskFormat = "name"  // John Smith -> J*** S****
)

var validRoundings = map[Rounding]bool{
	RoundFloor:   true,
	RoundCeiling: true,
	RoundNearest: true,
}

var validHashAlgos = map[HashAlgo]bool{
	HashSHA256:  true,
	HashSHA512:  true,
	HashBLAKE2b: true,
	HashSHA3:    true,
}

var validMaskFormats = map[MaskFormat]bool{
	MaskTail:  true,
	MaskEmail: true,
	MaskPhone: true,
	MaskCard:  true,
	MaskIP:    true,
	MaskName:  true,
}

// IsValidRounding returns true if r is a known rounding mode.
func IsValidRounding(r Rounding) bool {
	return validRoundings[r]
}

// IsValidHashAlgo returns true if the algorithm is a known hash algorithm.
func IsValidHashAlgo(algo HashAlgo) bool {
	return validHashAlgos[algo]
}

// IsValidMaskFormat returns true if the format is a known mask format.
func IsValidMaskFormat(f MaskFormat) bool {
	return validMaskFormats[f]
}
