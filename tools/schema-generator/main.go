package main

import (
	"encoding/json"
	"log"
	"os"
	"path/filepath"

	"github.com/grovetools/scaffolder/config"
	"github.com/grovetools/scaffolder/logging"
	"github.com/invopop/jsonschema"
)

func main() {
	schemaBytes, err := config.GenerateSchema()
	if err != nil {
		log.Fatalf("Error generating schema: %v", err)
	}

	outputDir := "schema/definitions"
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		log.Fatalf("Error creating schema directory: %v", err)
	}

	outputPath := filepath.Join(outputDir, "scaffolder.schema.json")
	if err := os.WriteFile(outputPath, schemaBytes, 0644); err != nil {
		log.Fatalf("Error writing schema file: %v", err)
	}
	log.Printf("Successfully generated config schema at %s", outputPath)

	r := &jsonschema.Reflector{
		AllowAdditionalProperties: true,
		ExpandedStruct:            true,
		FieldNameTag:              "yaml",
	}
	logSchema := r.Reflect(&logging.Config{})
	logSchema.Title = "Scaffolder Logging Configuration"
	logSchema.Description = "Schema for the 'logging' extension in scaffolder.yml."
	logSchema.Required = nil

	data, err := json.MarshalIndent(logSchema, "", "  ")
	if err != nil {
		log.Fatalf("Error marshaling schema: %v", err)
	}
	logPath := filepath.Join(outputDir, "logging.schema.json")
	if err := os.WriteFile(logPath, data, 0644); err != nil {
		log.Fatalf("Error writing schema file: %v", err)
	}
	log.Printf("Successfully generated logging schema at %s", logPath)
}
