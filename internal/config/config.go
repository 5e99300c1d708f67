// Package config holds the configuration types for both binaries.
package config

import (
	"os"
	"strconv"
)

// Defaults mirroring the original deployment.
const (
	DefaultWordsFile  = "hangman_words.txt"
	DefaultMaxClients = 3
)

// Server stores all parameters the server binary runs with. Port comes from
// the CLI; the rest from the environment (a .env file is honored).
type Server struct {
	Port       int
	WordsFile  string // HANGMAN_WORDS_FILE
	MaxClients int    // HANGMAN_MAX_CLIENTS — admission-control cap
	StatsAddr  string // HANGMAN_STATS_ADDR — empty disables the stats listener
	ResultsDB  string // HANGMAN_RESULTS_DB — empty disables the results store
}

// Client stores the client binary's target address.
type Client struct {
	Host string
	Port int
}

// ServerFromEnv builds a Server config for the given listen port, reading
// the optional knobs from the environment.
func ServerFromEnv(port int) Server {
	return Server{
		Port:       port,
		WordsFile:  getEnv("HANGMAN_WORDS_FILE", DefaultWordsFile),
		MaxClients: getEnvInt("HANGMAN_MAX_CLIENTS", DefaultMaxClients),
		StatsAddr:  os.Getenv("HANGMAN_STATS_ADDR"),
		ResultsDB:  os.Getenv("HANGMAN_RESULTS_DB"),
	}
}

func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getEnvInt(k string, def int) int {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 {
		return def
	}
	return n
}
