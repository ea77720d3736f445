/*
PURPOSE:
  Defines the plain data structures shared by the runtime backends,
  the engine and the output writers.

REQUIREMENTS:
  User-specified:
  - Verbose mode lists every graph node with its operation type and name.

  Implementation-discovered:
  - Both backends (TensorFlow, ONNX) describe nodes the same way.
  - JSON and CSV listings need stable field names.

ARCHITECTURE INTEGRATION:
  - Produced by: internal/runtime/tensorflow, internal/runtime/onnx
  - Consumed by: internal/engine, internal/output

ERROR HANDLING:
  - None (pure data structs).

IMPLEMENTATION RULES:
  - Keep structs simple and public.

USAGE:
  op := model.Op{Type: "Placeholder", Name: "input"}

SELF-HEALING INSTRUCTIONS:
  - If a listing needs a new column, add the field and update internal/output.

RELATED FILES:
  - internal/output/json.go
  - internal/output/csv.go

MAINTENANCE:
  - Update when a backend exposes more node metadata.
*/

package model

// Op describes a single node of a loaded graph.
type Op struct {
	Type       string `json:"type"`
	Name       string `json:"name"`
	NumOutputs int    `json:"num_outputs"`
}
