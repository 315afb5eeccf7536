package fakehouse

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strconv"
)

// Roll derives a provably fair roll in [0, 100) from the seeds and nonce.
func Roll(serverSeed, clientSeed string, nonce int) (float64, string) {
	h := hmac.New(sha256.New, []byte(serverSeed))
	h.Write([]byte(clientSeed + ":" + strconv.Itoa(nonce)))

	hash := hex.EncodeToString(h.Sum(nil))
	num, _ := strconv.ParseInt(hash[:8], 16, 64)

	return float64(num%10000) / 100, hash
}

// Payout returns the winnings for a won bet at the given odds, net of the house edge.
func Payout(amountBet, winPercentage, edge float64) float64 {
	return amountBet * (100 / winPercentage) * (1 - edge)
}
