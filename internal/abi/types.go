// Package abi implements the ABI/descriptor emitter: the JSON contract
// interface description every public entry function, logged type, output
// message, and configurable produces alongside the finalized binary (spec
// §4.9 "ABI generation"), grounded on the original implementation's
// abi_generation/fuel_abi.rs declaration-gathering and type-deduplication
// passes.
package abi

// EncodingVersion is the ABI JSON document's schema version, carried as a
// plain string the way fuel_abi.rs stamps every generated document.
const EncodingVersion = "1"

// Program is the whole-module ABI descriptor (spec §4.9's ProgramABI):
// every type referenced by a public function, log, message, or
// configurable, deduplicated into two pools plus the declaration tables
// that reference them by id.
type Program struct {
	EncodingVersion string           `json:"encodingVersion"`
	ConcreteTypes   []ConcreteType   `json:"concreteTypes"`
	MetadataTypes   []MetadataType   `json:"metadataTypes,omitempty"`
	Functions       []Function       `json:"functions"`
	LoggedTypes     []LoggedType     `json:"loggedTypes,omitempty"`
	MessagesTypes   []MessageType    `json:"messagesTypes,omitempty"`
	Configurables   []Configurable   `json:"configurables,omitempty"`
}

// ConcreteType is one fully resolved, monomorphized type instance (spec
// §4.9 "ConcreteTypeId = sha256(canonical type string)"): the dedup unit
// every function input/output, logged type, message, and configurable
// ultimately points at.
type ConcreteType struct {
	ConcreteTypeId string   `json:"concreteTypeId"`
	Type           string   `json:"type"`
	MetadataTypeId *int     `json:"metadataTypeId,omitempty"`
	TypeArguments  []string `json:"typeArguments,omitempty"` // concrete type ids of this type's generic arguments
}

// MetadataType describes a struct or enum's shape -- field/variant names --
// so concrete instances of it can share one structural description (spec
// §4.9 "metadata/concrete type deduplication"). Densely renumbered in
// alphabetical-by-Type order once every type has been gathered.
type MetadataType struct {
	MetadataTypeId int             `json:"metadataTypeId"`
	Type           string          `json:"type"`
	Components     []TypeComponent `json:"components,omitempty"`
}

// TypeComponent names one field of a MetadataType's struct/enum shape.
type TypeComponent struct {
	Name           string `json:"name"`
	ConcreteTypeId string `json:"concreteTypeId"`
}

// Function is one public entry point's signature (spec §4.9): every
// function internal/declengine marks IsEntry, sorted by name.
type Function struct {
	Name       string            `json:"name"`
	Inputs     []TypeApplication `json:"inputs"`
	Output     TypeApplication   `json:"output"`
	Attributes []Attribute       `json:"attributes,omitempty"`
}

// TypeApplication pairs a parameter/return name with the concrete type it
// resolves to.
type TypeApplication struct {
	Name           string `json:"name"`
	ConcreteTypeId string `json:"concreteTypeId"`
}

// Attribute carries a function-level annotation (spec §4.9 supplemented
// feature: storage-read/write attributes on entry functions).
type Attribute struct {
	Name      string   `json:"name"`
	Arguments []string `json:"arguments,omitempty"`
}

// LoggedType is one distinct `log_id, type` pair observed across every
// __log call site in the module.
type LoggedType struct {
	LogId          uint64 `json:"logId,string"`
	ConcreteTypeId string `json:"concreteTypeId"`
}

// MessageType is one distinct type observed across every __smo call site.
type MessageType struct {
	MessageId      int    `json:"messageId"`
	ConcreteTypeId string `json:"concreteTypeId"`
}

// Configurable is one `configurable { .. }` block entry, with the byte
// offset codegen's data-section layout assigned it, as passed to Generate
// (0 for a name missing from that map). The offset is not written back
// into the manifest.
type Configurable struct {
	Name           string `json:"name"`
	ConcreteTypeId string `json:"concreteTypeId"`
	Offset         uint64 `json:"offset"`
}
