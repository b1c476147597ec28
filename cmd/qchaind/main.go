package main

import (
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/fatih/color"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/spf13/viper"
	"github.com/theapemachine/errnie"

	"github.com/theapemachine/qchain"
)

// qchaind serves the informational API in front of a live chain.
// Configuration comes from QCHAIND_* environment variables:
// ADDR, DIFFICULTY, SEED and BLOCKS (demo blocks mined at startup).

type server struct {
	id    string
	chain *qchain.Chain
}

func main() {
	viper.SetEnvPrefix("qchaind")
	viper.AutomaticEnv()
	viper.SetDefault("addr", ":8080")
	viper.SetDefault("difficulty", qchain.DefaultDifficulty)
	viper.SetDefault("seed", 0)
	viper.SetDefault("blocks", 3)

	var opts []qchain.SimulatorOption
	if seed := viper.GetInt64("seed"); seed != 0 {
		opts = append(opts, qchain.WithSeed(seed))
	}
	sim := qchain.NewStatevectorSimulator(opts...)

	chain, err := qchain.NewChain(sim, viper.GetInt("difficulty"))
	if err != nil {
		log.Fatalf("building chain: %v", err)
	}
	for i := 1; i <= viper.GetInt("blocks"); i++ {
		if err := chain.Append(fmt.Sprintf("Bloque de demostración %d", i)); err != nil {
			log.Fatalf("mining demo block %d: %v", i, err)
		}
	}

	s := &server{
		id:    uuid.NewString(),
		chain: chain,
	}

	addr := viper.GetString("addr")
	color.Green("qchaind %s listening on %s (difficulty %d, %d blocks)",
		s.id, addr, chain.Difficulty(), chain.Len())

	if err := s.router().Run(addr); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}

func (s *server) router() *gin.Engine {
	r := gin.Default()

	// Fixed informational endpoints; no chain state behind them.
	r.GET("/nft", s.handleNFTInfo)
	r.GET("/quantum-ai", s.handleQuantumAI)

	blockchainGroup := r.Group("/blockchain")
	{
		blockchainGroup.GET("/", s.handleBlockchainInfo)

		// Live read-only views of the running chain.
		blockchainGroup.GET("/info", s.handleChainInfo)
		blockchainGroup.GET("/blocks", s.handleBlocks)
		blockchainGroup.GET("/blocks/:index", s.handleBlock)
		blockchainGroup.GET("/blocks/:index/verify", s.handleVerifyBlock)
	}

	return r
}

func (s *server) handleNFTInfo(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Información sobre NFTs cuánticos"})
}

func (s *server) handleBlockchainInfo(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Información sobre blockchain cuántica"})
}

// Integración futura de AI cuántica inteligente
func (s *server) handleQuantumAI(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Soporte para AI cuántica inteligente"})
}

func (s *server) handleChainInfo(c *gin.Context) {
	info := s.chain.Info()
	if !info.IsValid {
		errnie.Info("handleChainInfo - serving an invalid chain, length %d", info.ChainLength)
	}
	c.JSON(http.StatusOK, info)
}

func (s *server) handleBlocks(c *gin.Context) {
	count := s.chain.Len()
	blocks := make([]gin.H, 0, count)
	for i := 0; i < count; i++ {
		block, ok := s.chain.Block(i)
		if !ok {
			break
		}
		blocks = append(blocks, blockView(i, block))
	}
	c.JSON(http.StatusOK, gin.H{
		"server_id": s.id,
		"blocks":    blocks,
	})
}

func (s *server) handleBlock(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid block index"})
		return
	}
	block, ok := s.chain.Block(index)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "block not found"})
		return
	}
	c.JSON(http.StatusOK, blockView(index, block))
}

func (s *server) handleVerifyBlock(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid block index"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"index":    index,
		"verified": s.chain.VerifyBlock(index),
	})
}

// blockView flattens a block for JSON. Amplitudes are complex and do not
// marshal; the probability distribution carries the same information the
// quantum hash is built from.
func blockView(index int, b *qchain.Block) gin.H {
	return gin.H{
		"index":         index,
		"timestamp":     b.Timestamp.UTC().Format(time.RFC3339Nano),
		"data":          b.Data,
		"previous_hash": b.PreviousHash,
		"nonce":         b.Nonce,
		"quantum_hash":  b.QuantumHash,
		"hash":          b.Hash,
		"probabilities": b.QuantumState.Probabilities(),
	}
}
