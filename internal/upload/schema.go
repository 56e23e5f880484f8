package upload

import (
	"bytes"
	"encoding/json"
	"sync"

	_ "embed"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/rwx-research/stevedore-cli/internal/errors"
)

//go:embed upload.schema.json
var uploadSchemaJSON []byte

var (
	uploadSchema     *jsonschema.Schema
	compileOnce      sync.Once
	compileSchemaErr error
)

// compileSchema compiles the embedded upload schema once.
func compileSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		document, err := jsonschema.UnmarshalJSON(bytes.NewReader(uploadSchemaJSON))
		if err != nil {
			compileSchemaErr = errors.NewInternalError("Unable to unmarshal the upload schema: %s", err)
			return
		}

		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource("upload.schema.json", document); err != nil {
			compileSchemaErr = errors.NewInternalError("Unable to add the upload schema resource: %s", err)
			return
		}

		uploadSchema, compileSchemaErr = compiler.Compile("upload.schema.json")
		if compileSchemaErr != nil {
			compileSchemaErr = errors.NewInternalError("Unable to compile the upload schema: %s", compileSchemaErr)
		}
	})

	return uploadSchema, compileSchemaErr
}

// validateEnvelope validates the raw upload bytes against the embedded JSON schema. Schema violations
// are input errors: the upload as a whole is unparseable.
func validateEnvelope(raw []byte) error {
	schema, err := compileSchema()
	if err != nil {
		return err
	}

	var document any
	if err := json.Unmarshal(raw, &document); err != nil {
		return errors.NewInputError("Error deserializing json: %s", err)
	}

	if err := schema.Validate(document); err != nil {
		return errors.NewInputError("The upload does not match the raw upload schema: %s", err)
	}

	return nil
}
