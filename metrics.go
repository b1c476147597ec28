package qchain

// Info is the aggregate snapshot of a chain, shaped for the info endpoint.
type Info struct {
	ChainLength              int     `json:"chain_length"`
	Difficulty               int     `json:"difficulty"`
	IsValid                  bool    `json:"is_valid"`
	TotalQuantumEntanglement float64 `json:"total_quantum_entanglement"`
	AverageEntanglement      float64 `json:"average_entanglement"`
}

/*
Info aggregates the chain state: length, difficulty, validity, and the total
and average entanglement measure across consecutive block pairs. A chain of
a single block has no pairs and reports zero for both entanglement figures.
*/
func (c *Chain) Info() Info {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var total float64
	for i := 1; i < len(c.blocks); i++ {
		total += c.entanglementLocked(i)
	}
	average := 0.0
	if len(c.blocks) > 1 {
		average = total / float64(len(c.blocks)-1)
	}

	return Info{
		ChainLength:              len(c.blocks),
		Difficulty:               c.difficulty,
		IsValid:                  c.validateLocked(),
		TotalQuantumEntanglement: total,
		AverageEntanglement:      average,
	}
}
