package cryptox

// Argon2id parameters for newly hashed passwords. Stored hashes carry their
// own parameters so these can be raised without invalidating old hashes.
const (
	memory      = 19 * 1024 // KiB
	iterations  = 2
	parallelism = 1
	keyLength   = 32
	saltLength  = 16
)
