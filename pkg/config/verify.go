package config

import (
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"
)

//go:embed schema.json
var embeddedSchema string

// VerifyAgainstEmbeddedSchema validates the config against the embedded JSON schema
func VerifyAgainstEmbeddedSchema(cfg *Config) error {
	// parse schema
	var schema map[string]interface{}
	if err := json.Unmarshal([]byte(embeddedSchema), &schema); err != nil {
		return fmt.Errorf("parse embedded schema: %w", err)
	}

	// convert config to JSON for validation
	configData, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	var configMap map[string]interface{}
	if err := json.Unmarshal(configData, &configMap); err != nil {
		return fmt.Errorf("unmarshal config: %w", err)
	}

	// every top level section the schema knows about must be present
	if err := checkSections(schema, configMap); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	if err := validateRequiredFields(cfg); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	return nil
}

// checkSections compares top level properties of the Config definition with the marshaled config
func checkSections(schema, configMap map[string]interface{}) error {
	defs, ok := schema["$defs"].(map[string]interface{})
	if !ok {
		return fmt.Errorf("schema has no $defs")
	}
	root, ok := defs["Config"].(map[string]interface{})
	if !ok {
		return fmt.Errorf("schema has no Config definition")
	}
	props, ok := root["properties"].(map[string]interface{})
	if !ok {
		return fmt.Errorf("schema Config has no properties")
	}
	for name := range props {
		if _, found := configMap[name]; !found {
			return fmt.Errorf("config section %q missing", name)
		}
	}
	return nil
}

// validateRequiredFields performs basic validation of required fields
func validateRequiredFields(cfg *Config) error {
	if cfg.Server.Listen == "" {
		return fmt.Errorf("server.listen is required")
	}
	if cfg.Server.Timeout == 0 {
		return fmt.Errorf("server.timeout is required")
	}
	if cfg.Feed.Timeout == 0 {
		return fmt.Errorf("feed.timeout is required")
	}
	if cfg.LLM.MaxAttempts == 0 {
		return fmt.Errorf("llm.max_attempts is required")
	}
	if cfg.Cache.Prefix == "" {
		return fmt.Errorf("cache.prefix is required")
	}

	if cfg.Extraction.Enabled && cfg.Extraction.Timeout == 0 {
		return fmt.Errorf("extraction.timeout is required when extraction is enabled")
	}

	return nil
}

// GenerateSchema generates a JSON schema for the Config struct
func GenerateSchema() (*jsonschema.Schema, error) {
	return jsonschema.Reflect(&Config{}), nil
}
