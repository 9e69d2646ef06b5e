// Command leadexport decrypts the local lead archive and prints each record
// as one JSON line on stdout.
package main

import (
	"encoding/json"
	"log"
	"os"

	"github.com/joho/godotenv"

	appconfig "github.com/glowcart/sales-agent/internal/config"
	"github.com/glowcart/sales-agent/internal/leads"
	"github.com/glowcart/sales-agent/pkg/logging"
)

func main() {
	_ = godotenv.Load()
	cfg := appconfig.Load()

	if cfg.LeadEncryptionKey == "" {
		log.Fatal("LEAD_ENCRYPTION_KEY is required")
	}
	cipher, err := leads.NewCipher(cfg.LeadEncryptionKey)
	if err != nil {
		log.Fatalf("init cipher: %v", err)
	}

	path := cfg.LeadLogPath
	if len(os.Args) > 1 {
		path = os.Args[1]
	}

	archiver := leads.NewArchiver(cipher, leads.NewFileLog(path), nil, nil, logging.New("error"))
	records, err := archiver.Export()
	if err != nil {
		log.Fatalf("read archive: %v", err)
	}

	enc := json.NewEncoder(os.Stdout)
	for _, record := range records {
		if err := enc.Encode(record); err != nil {
			log.Fatalf("encode record: %v", err)
		}
	}
}
