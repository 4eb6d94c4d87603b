// Program to generate the JSON Schema for config files.
//
//go:generate go run .
package main

import (
	"go.scalc.org/scalc/go/jsonschema"
	"go.scalc.org/scalc/scalc/go/config"
)

func main() {
	jsonschema.GenerateSchema("../schema.json", &config.Config{})
}
