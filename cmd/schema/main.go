// Command schema writes JSON schema of newsbeat config, embedded into pkg/config for verification.
package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/invopop/jsonschema"

	"github.com/umputun/newsbeat/pkg/config"
)

func main() {
	outputPath := "schema.json"
	if len(os.Args) > 1 {
		outputPath = os.Args[1]
	}
	if err := writeSchema(outputPath); err != nil {
		log.Fatalf("failed to generate schema: %v", err)
	}
	fmt.Printf("schema written to %s\n", outputPath)
}

// writeSchema reflects config using yaml field names, the ones users write in config files
func writeSchema(path string) error {
	r := jsonschema.Reflector{FieldNameTag: "yaml"}
	schema := r.Reflect(&config.Config{})
	schema.Title = "newsbeat configuration"

	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil { //nolint:gosec // schema file is not sensitive
		return fmt.Errorf("write schema: %w", err)
	}
	return nil
}
