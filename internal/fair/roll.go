package fair

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strconv"
)

// Roll derives a 2-decimal number in [0,100) from the server seed, the
// player-supplied client seed and a per-player nonce. The hash is returned so
// players can verify the roll once the seed rotates.
func Roll(serverSeed, clientSeed string, nonce int) (float64, string) {

	h := hmac.New(sha256.New, []byte(serverSeed))
	h.Write([]byte(clientSeed + ":" + strconv.Itoa(nonce)))

	hash := hex.EncodeToString(h.Sum(nil))

	num, _ := strconv.ParseInt(hash[:8], 16, 64)

	roll := float64(num%10000) / 100

	return roll, hash
}
