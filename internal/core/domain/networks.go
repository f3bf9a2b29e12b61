package domain

import "fmt"

// OracleFeeds maps a chain id to the price oracle contract serving the base
// asset quote on that network. Networks absent from the map are reported as
// unsupported, never called.
var OracleFeeds = map[uint64]string{
	11155111: "0x694AA1769357215DE4FAC081bf1f309aDC325306", // Sepolia ETH/USD
}

// OracleFeed resolves the oracle address for a chain id.
func OracleFeed(chainID uint64) (string, error) {
	addr, ok := OracleFeeds[chainID]
	if !ok {
		return "", fmt.Errorf("%w: chain id %d", ErrUnsupportedNetwork, chainID)
	}
	return addr, nil
}
