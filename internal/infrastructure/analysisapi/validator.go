package analysisapi

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/kirillkom/style-sage/api"
)

const resultSchemaName = "AnalysisResult"

// ShapeValidator checks response bodies against the AnalysisResult schema of
// the embedded OpenAPI document.
type ShapeValidator struct {
	schema *openapi3.Schema
}

func NewShapeValidator() (*ShapeValidator, error) {
	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromData(api.Spec)
	if err != nil {
		return nil, fmt.Errorf("load openapi document: %w", err)
	}
	if err := doc.Validate(context.Background()); err != nil {
		return nil, fmt.Errorf("validate openapi document: %w", err)
	}

	ref, ok := doc.Components.Schemas[resultSchemaName]
	if !ok || ref == nil || ref.Value == nil {
		return nil, fmt.Errorf("openapi document has no %s schema", resultSchemaName)
	}
	return &ShapeValidator{schema: ref.Value}, nil
}

func (v *ShapeValidator) Validate(raw []byte) error {
	var value any
	if err := json.Unmarshal(raw, &value); err != nil {
		return fmt.Errorf("parse body: %w", err)
	}
	if err := v.schema.VisitJSON(value); err != nil {
		return fmt.Errorf("%s shape: %w", resultSchemaName, err)
	}
	return nil
}
