package contract

// packU64LE appends x in little-endian order so keys stay compact.
func packU64LE(x uint64, dst []byte) []byte {
	return append(dst,
		byte(x),
		byte(x>>8),
		byte(x>>16),
		byte(x>>24),
		byte(x>>32),
		byte(x>>40),
		byte(x>>48),
		byte(x>>56),
	)
}

func configKey() string   { return string([]byte{kConfig}) }
func balancesKey() string { return string([]byte{kBalances}) }
func claimsKey() string   { return string([]byte{kClaims}) }

// investmentKey mixes the investor address with the claimable ts.
// Key format: kInvestment|claimableTs|address
func investmentKey(k InvestmentKey) string {
	addr := k.Investor.String()
	buf := make([]byte, 0, 1+8+len(addr))
	buf = append(buf, kInvestment)
	buf = packU64LE(uint64(k.ClaimableTs), buf)
	buf = append(buf, addr...)
	return string(buf)
}

// multisigKey keeps one open request per function tag.
func multisigKey(fn MultisigFunction) string {
	return string(append([]byte{kMultisig}, fn...))
}
