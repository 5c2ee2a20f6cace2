package config

// Version is the current funjs version.
// Set at build time via -ldflags or by writing to this file.
var Version = "0.2.0"

// ASTFileExt is the extension of serialized program files the CLI and
// module loader accept. The parser is an external collaborator; the
// engine only ever sees JSON-encoded ASTs.
const ASTFileExt = ".ast.json"

// ModuleFileExtensions are all recognized module file extensions, in
// resolution order.
var ModuleFileExtensions = []string{".ast.json", ".json"}

// Internal binding names. Bindings starting with this prefix are
// installed by the engine in function environments. Identifier lookup
// and `typeof` do not filter them: a user identifier with the same name
// resolves to the binding.
const InternalPrefix = "__"

const (
	ThisBindingName      = "this"
	HomeObjectBinding    = "__home_object"
	NewTargetBinding     = "__new_target"
	FunctionBinding      = "__function"
	FrameBinding         = "__frame"
	CallerBinding        = "__caller"
	GenThrowValBinding   = "__gen_throw_val"
	ComputedProtoBinding = "__computed_proto"
	FieldInitBinding     = "__class_field_initializer"
)

// Receiver marker slot names. Only MarkerRegex and MarkerDate are
// written (on RegExp and Date objects); the other receivers are
// dispatched by their Go value type.
const (
	MarkerPromise    = "__promise"
	MarkerMap        = "__map__"
	MarkerSet        = "__set__"
	MarkerGenerator  = "__generator__"
	MarkerTypedArray = "__typedarray"
	MarkerBuffer     = "__arraybuffer"
	MarkerDataView   = "__dataview"
	MarkerRegex      = "__regex"
	MarkerDate       = "__date"
)

// Well-known symbol names registered at engine init.
var WellKnownSymbols = []string{
	"iterator",
	"asyncIterator",
	"toPrimitive",
	"toStringTag",
	"hasInstance",
	"species",
	"isConcatSpreadable",
	"unscopables",
}

// DefaultMaxEvalDepth bounds evaluator recursion; see Options.
const DefaultMaxEvalDepth = 10000
