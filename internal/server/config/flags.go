package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/fingr/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":6969")
//	-d string   PostgreSQL DSN (empty runs fully in memory)
//	-e string   Redis address for the presence backend
//	-m string   registration mode: open, key, or closed
//	-k string   server registration key (used with -m key)
//	-s int      session duration, minutes
//
// The function first filters os.Args to only the flags it recognizes
// using flagx.FilterArgs, avoiding collisions with other components.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-d", "-e", "-m", "-k", "-s"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddr, "a", config.EndpointAddr, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.RedisAddr, "e", config.RedisAddr, "redis address for the presence backend")
	registration := fs.String("m", string(config.Registration), "registration mode: open, key or closed")
	fs.StringVar(&config.RegistrationKey, "k", config.RegistrationKey, "server registration key")
	sessionDuration := fs.Int("s", int(config.SessionDuration.Minutes()), "session duration (in minutes)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.Registration = RegistrationMode(*registration)
	config.SessionDuration = time.Duration(*sessionDuration) * time.Minute
}
