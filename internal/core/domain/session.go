package domain

// WalletSession identifies the acting wallet address. The zero value is the
// disconnected state; a single instance exists per running client.
type WalletSession struct {
	Address string `json:"address"`
}

// Connected reports whether a wallet is bound to the session.
func (s WalletSession) Connected() bool {
	return s.Address != ""
}
