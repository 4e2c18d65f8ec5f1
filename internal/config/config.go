package config

import (
	"os"
	"path"

	"github.com/yumyai/reblast/logger"
)

// Config carries the environment-derived settings every command shares.
type Config struct {
	// Directory blastn probes for taxdb.* files. Not required for remote
	// BLAST, but blastn complains loudly without it.
	BlastDB string

	// The blastn binary. A bare name is resolved through PATH.
	BlastBin string
}

// FromEnv reads the configuration from the environment, falling back to
// defaults when a variable is unset. godotenv has already been loaded by main.
func FromEnv() *Config {

	blastdb := os.Getenv("BLASTDB")

	if blastdb == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			home = "."
		}
		blastdb = path.Join(home, "blastdb")
		logger.Warn("No local environment (BLASTDB), using default value (~/blastdb)")
	}

	blastbin := os.Getenv("REBLAST_BLASTN")

	if blastbin == "" {
		blastbin = "blastn"
	}

	return &Config{
		BlastDB:  blastdb,
		BlastBin: blastbin,
	}
}
