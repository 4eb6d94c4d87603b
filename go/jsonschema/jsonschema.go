// Package jsonschema has utility functions for creating JSON Schema files from
// structs, and also for validating a JSON document against a schema.
//
// To add validation to a config type, e.g. `config.Config`, add a `generate`
// sub-directory holding a small program that writes the schema next to the
// type:
//
//	//go:generate go run .
//	package main
//
//	func main() {
//		jsonschema.GenerateSchema("../schema.json", &config.Config{})
//	}
//
// then embed schema.json in the config package and call Validate on every
// document before decoding it.
package jsonschema

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/invopop/jsonschema"
	"github.com/xeipuuv/gojsonschema"
	"go.scalc.org/scalc/go/skerr"
	"go.scalc.org/scalc/go/sklog"
	"go.scalc.org/scalc/go/util"
)

// ErrSchemaViolation is returned from Validate if the document doesn't conform
// to the schema.
var ErrSchemaViolation = errors.New("schema violation")

// Validate returns nil if the document represents a JSON body that conforms to
// the schema. If err is ErrSchemaViolation then the slice of strings will
// contain a list of schema violations.
func Validate(ctx context.Context, document, schema []byte) ([]string, error) {
	schemaLoader := gojsonschema.NewBytesLoader(schema)
	documentLoader := gojsonschema.NewBytesLoader(document)
	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return nil, skerr.Wrapf(err, "failed while validating")
	}
	if len(result.Errors()) > 0 {
		formattedResults := make([]string, len(result.Errors()))
		for i, e := range result.Errors() {
			formattedResults[i] = fmt.Sprintf("%d: %s", i, e.String())
		}
		return formattedResults, ErrSchemaViolation
	}
	return nil, nil
}

// Schema returns the JSON Schema for 'v', indented.
func Schema(v interface{}) ([]byte, error) {
	b, err := json.MarshalIndent(jsonschema.Reflect(v), "", "  ")
	if err != nil {
		return nil, skerr.Wrap(err)
	}
	return b, nil
}

// GenerateSchema writes the JSON Schema for 'v' into 'filename' and will exit
// via sklog.Fatal if any errors occur. This function is designed for use
// in an app you would run via go generate.
func GenerateSchema(filename string, v interface{}) {
	b, err := Schema(v)
	if err != nil {
		sklog.Fatal(err)
	}
	err = util.WithWriteFile(filename, func(w io.Writer) error {
		_, err := w.Write(b)
		return err
	})
	if err != nil {
		sklog.Fatal(err)
	}
}
