package qchain

import "fmt"

/*
QuantumNFT is an ownership tag for quantum circuits. It occupies qubits the
way a gate does but carries no unitary, so attaching one never changes what
a circuit computes. Metadata is copied on the way in and on the way out; a
token never shares a map with its caller.
*/
type QuantumNFT struct {
	numQubits int
	tokenID   string
	metadata  map[string]any
	label     string
}

// NewQuantumNFT mints a token spanning numQubits qubits. An empty label
// falls back to "quantum_nft".
func NewQuantumNFT(numQubits int, tokenID string, metadata map[string]any, label string) (*QuantumNFT, error) {
	if numQubits < 1 {
		return nil, fmt.Errorf("token needs at least one qubit, got %d", numQubits)
	}
	if tokenID == "" {
		return nil, fmt.Errorf("token id must not be empty")
	}
	if label == "" {
		label = "quantum_nft"
	}
	meta := make(map[string]any, len(metadata))
	for k, v := range metadata {
		meta[k] = v
	}
	return &QuantumNFT{
		numQubits: numQubits,
		tokenID:   tokenID,
		metadata:  meta,
		label:     label,
	}, nil
}

// NumQubits returns the register width the token spans.
func (n *QuantumNFT) NumQubits() int {
	return n.numQubits
}

// TokenID returns the token identifier.
func (n *QuantumNFT) TokenID() string {
	return n.tokenID
}

// Label returns the display label.
func (n *QuantumNFT) Label() string {
	return n.label
}

// Metadata returns a copy of the token metadata.
func (n *QuantumNFT) Metadata() map[string]any {
	meta := make(map[string]any, len(n.metadata))
	for k, v := range n.metadata {
		meta[k] = v
	}
	return meta
}

/*
Inverse returns an equivalent token. A tag carries no unitary, so it is its
own inverse; returning a copy keeps circuit inversion well defined.
*/
func (n *QuantumNFT) Inverse() *QuantumNFT {
	return &QuantumNFT{
		numQubits: n.numQubits,
		tokenID:   n.tokenID,
		metadata:  n.Metadata(),
		label:     n.label,
	}
}

func (n *QuantumNFT) String() string {
	return fmt.Sprintf("QuantumNFT(num_qubits=%d, token_id='%s')", n.numQubits, n.tokenID)
}
