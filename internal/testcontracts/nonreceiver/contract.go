package nonreceiver

// Ping is the only method of the contract, it can't accept NEP-11 tokens.
func Ping() int {
	return 1
}
