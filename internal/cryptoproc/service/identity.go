package service

// IdentityProcessor is a no-op processor. The database facade uses it as the
// per-value processor of every EKVM it builds, since each region as a whole
// is encrypted by the region cipher.
type IdentityProcessor struct{}

// Encode implements domain.Processor.
func (IdentityProcessor) Encode(data []byte) []byte { return data }

// Decode implements domain.Processor.
func (IdentityProcessor) Decode(data []byte) ([]byte, error) { return data, nil }
