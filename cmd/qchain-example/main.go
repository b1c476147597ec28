package main

import (
	"fmt"
	"log"

	"github.com/davecgh/go-spew/spew"
	"github.com/fatih/color"
	"github.com/google/uuid"

	"github.com/theapemachine/qchain"
)

// Walks the quantum blockchain end to end: mining, entangled links, tamper
// detection and a minted circuit token.

func main() {
	fmt.Println("=== Cadena de Bloques Cuántico (Quantum Blockchain) Example ===")
	fmt.Println()

	fmt.Println("1. Creating quantum blockchain...")
	sim := qchain.NewStatevectorSimulator()
	chain, err := qchain.NewChain(sim, qchain.DefaultDifficulty)
	if err != nil {
		log.Fatalf("creating chain: %v", err)
	}
	color.Green("   ✓ Created blockchain with %d initial block(s)", chain.Len())
	color.Green("   ✓ Mining difficulty set to %d", chain.Difficulty())
	fmt.Println()

	fmt.Println("2. Adding transaction blocks...")
	transactions := []string{
		"Alice transfers 100 quantum tokens to Bob",
		"Bob transfers 50 quantum tokens to Charlie",
		"Charlie transfers 25 quantum tokens to David",
	}
	for i, transaction := range transactions {
		index := i + 1
		fmt.Printf("   Adding block %d: %s\n", index, transaction)
		if err := chain.Append(transaction); err != nil {
			log.Fatalf("appending block %d: %v", index, err)
		}
		if chain.VerifyBlock(index) {
			color.Green("   ✓ Block %d quantum verification passed", index)
		} else {
			color.Red("   ✗ Block %d quantum verification failed", index)
		}
	}
	fmt.Println()

	fmt.Println("3. Blockchain status:")
	info := chain.Info()
	fmt.Printf("   Chain length: %d blocks\n", info.ChainLength)
	fmt.Printf("   Blockchain valid: %v\n", info.IsValid)
	fmt.Printf("   Total quantum entanglement: %.8f\n", info.TotalQuantumEntanglement)
	fmt.Printf("   Average entanglement: %.8f\n", info.AverageEntanglement)
	fmt.Println()

	fmt.Println("4. Testing blockchain security...")
	color.Cyan("   Original blockchain valid: %v", chain.Validate())

	block, ok := chain.Block(1)
	if !ok {
		log.Fatal("block 1 missing")
	}
	originalData := block.Data
	block.Data = "TAMPERED DATA"
	color.Red("   After tampering attempt: %v", chain.Validate())

	block.Data = originalData
	color.Green("   After restoration: %v", chain.Validate())
	fmt.Println()

	fmt.Println("5. Minting a circuit token...")
	token, err := qchain.NewQuantumNFT(qchain.BlockQubits, uuid.NewString(), map[string]any{
		"artist":  "qchain demo",
		"edition": 1,
	}, "")
	if err != nil {
		log.Fatalf("minting token: %v", err)
	}
	circuit, err := qchain.NewCircuit(qchain.BlockQubits)
	if err != nil {
		log.Fatalf("building circuit: %v", err)
	}
	if err := circuit.H(0); err != nil {
		log.Fatalf("building circuit: %v", err)
	}
	if err := circuit.CX(0, 1); err != nil {
		log.Fatalf("building circuit: %v", err)
	}
	if err := circuit.AttachNFT(token); err != nil {
		log.Fatalf("attaching token: %v", err)
	}
	state, err := sim.Run(circuit)
	if err != nil {
		log.Fatalf("running circuit: %v", err)
	}
	fmt.Printf("   %s\n", token)
	fmt.Println("   Bell state probabilities under the token:")
	spew.Dump(state.Probabilities())
	outcome := state.Measure(nil)
	fmt.Printf("   Measured basis state: |%02b>\n", outcome)
	fmt.Println()

	fmt.Println("6. Quantum blockchain demonstration complete!")
	color.Green("   • Quantum entanglement between blocks")
	color.Green("   • Quantum cryptographic security")
	color.Green("   • Tamper detection and verification")
	color.Green("   • Integration with classical blockchain concepts")
}
