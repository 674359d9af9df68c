package types

// WalletSession is the mutable connection state owned by the controller.
// It is replaced wholesale on connect and zeroed on disconnect or reset.
type WalletSession struct {
	Connected bool
	Address   string
	Chain     *ChainDescriptor
	ChainID   ChainID
}

// Reset clears every field of the session.
func (s *WalletSession) Reset() {
	*s = WalletSession{}
}
