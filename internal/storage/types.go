package storage

// SymbolKind is the closed enumeration that node_kind maps to.
type SymbolKind string

const (
	KindType          SymbolKind = "TYPE"
	KindBuiltinType    SymbolKind = "BUILTIN_TYPE"
	KindModule         SymbolKind = "MODULE"
	KindNamespace      SymbolKind = "NAMESPACE"
	KindPackage        SymbolKind = "PACKAGE"
	KindStruct         SymbolKind = "STRUCT"
	KindClass          SymbolKind = "CLASS"
	KindInterface      SymbolKind = "INTERFACE"
	KindAnnotation     SymbolKind = "ANNOTATION"
	KindGlobalVariable SymbolKind = "GLOBAL_VARIABLE"
	KindField          SymbolKind = "FIELD"
	KindFunction       SymbolKind = "FUNCTION"
	KindMethod         SymbolKind = "METHOD"
	KindEnum           SymbolKind = "ENUM"
	KindEnumConstant   SymbolKind = "ENUM_CONSTANT"
	KindTypedef        SymbolKind = "TYPEDEF"
	KindTypeParameter  SymbolKind = "TYPE_PARAMETER"
	KindMacro          SymbolKind = "MACRO"
	KindUnion          SymbolKind = "UNION"
)

// EdgeKind is the closed enumeration edge_kind takes.
type EdgeKind string

const (
	EdgeMember                 EdgeKind = "MEMBER"
	EdgeTypeUsage              EdgeKind = "TYPE_USAGE"
	EdgeUsage                  EdgeKind = "USAGE"
	EdgeCall                   EdgeKind = "CALL"
	EdgeInheritance            EdgeKind = "INHERITANCE"
	EdgeOverride               EdgeKind = "OVERRIDE"
	EdgeTypeArgument           EdgeKind = "TYPE_ARGUMENT"
	EdgeTemplateSpecialization EdgeKind = "TEMPLATE_SPECIALIZATION"
	EdgeInclude                EdgeKind = "INCLUDE"
	EdgeImport                 EdgeKind = "IMPORT"
	EdgeMacroUsage             EdgeKind = "MACRO_USAGE"
	EdgeAnnotationUsage        EdgeKind = "ANNOTATION_USAGE"
)

// DefinitionKind classifies how a symbol's definition was established.
type DefinitionKind string

const (
	DefinitionExplicit  DefinitionKind = "EXPLICIT"
	DefinitionImplicit  DefinitionKind = "IMPLICIT"
	DefinitionAmbiguous DefinitionKind = "AMBIGUOUS"
)

// LocationKind is the closed enumeration source_location.kind takes.
type LocationKind string

const (
	LocationToken       LocationKind = "TOKEN"
	LocationScope       LocationKind = "SCOPE"
	LocationQualifier   LocationKind = "QUALIFIER"
	LocationLocalSymbol LocationKind = "LOCAL_SYMBOL"
	LocationSignature   LocationKind = "SIGNATURE"
)

// nodeKindBits assigns each Symbol Kind a distinct power-of-two bit, in
// glossary order. The database's node_kind column is schema-internal
// (its generation is out of scope for this adapter); this table is the
// adapter's own closed, internally-consistent mapping from that bitmask
// to SymbolKind; a node_kind is expected to carry exactly one such bit.
const (
	nodeKindType SymbolKindBit = 1 << iota
	nodeKindBuiltinType
	nodeKindModule
	nodeKindNamespace
	nodeKindPackage
	nodeKindStruct
	nodeKindClass
	nodeKindInterface
	nodeKindAnnotation
	nodeKindGlobalVariable
	nodeKindField
	nodeKindFunction
	nodeKindMethod
	nodeKindEnum
	nodeKindEnumConstant
	nodeKindTypedef
	nodeKindTypeParameter
	nodeKindMacro
	nodeKindUnion
)

// SymbolKindBit is the bitmask representation node_kind carries.
type SymbolKindBit int64

var symbolKindByBit = map[SymbolKindBit]SymbolKind{
	nodeKindType:          KindType,
	nodeKindBuiltinType:   KindBuiltinType,
	nodeKindModule:        KindModule,
	nodeKindNamespace:     KindNamespace,
	nodeKindPackage:       KindPackage,
	nodeKindStruct:        KindStruct,
	nodeKindClass:         KindClass,
	nodeKindInterface:     KindInterface,
	nodeKindAnnotation:    KindAnnotation,
	nodeKindGlobalVariable: KindGlobalVariable,
	nodeKindField:         KindField,
	nodeKindFunction:      KindFunction,
	nodeKindMethod:        KindMethod,
	nodeKindEnum:          KindEnum,
	nodeKindEnumConstant:  KindEnumConstant,
	nodeKindTypedef:       KindTypedef,
	nodeKindTypeParameter: KindTypeParameter,
	nodeKindMacro:         KindMacro,
	nodeKindUnion:         KindUnion,
}

var bitBySymbolKind = func() map[SymbolKind]SymbolKindBit {
	m := make(map[SymbolKind]SymbolKindBit, len(symbolKindByBit))
	for bit, kind := range symbolKindByBit {
		m[kind] = bit
	}
	return m
}()

// SymbolKindOf maps a node's raw node_kind to its SymbolKind. Returns
// false if no known bit is set (e.g. a non-symbol structural marker).
func SymbolKindOf(nodeKind int64) (SymbolKind, bool) {
	kind, ok := symbolKindByBit[SymbolKindBit(nodeKind)]
	return kind, ok
}

// NodeKindOf returns the raw node_kind bit for a SymbolKind, for use in
// building fixtures and test data.
func NodeKindOf(kind SymbolKind) int64 {
	return int64(bitBySymbolKind[kind])
}

// Node is one row of the node table: id zero denotes "missing".
type Node struct {
	ID             int64
	NodeKind       int64
	SerializedName string
}

// EdgeBrief is the (source, target, kind) projection of an edge row, with
// no edge id — the shape adjacency construction consumes.
type EdgeBrief struct {
	SourceID int64
	TargetID int64
	Kind     EdgeKind
}

// File is one row of the file table.
type File struct {
	ID       int64
	Path     string
	Language string
	Indexed  bool
	Complete bool
}

// SourceLocation is one row of the source_location table. Lines and
// columns are 1-based; EndCol is inclusive.
type SourceLocation struct {
	ID        int64
	FileID    int64
	StartLine int
	StartCol  int
	EndLine   int
	EndCol    int
	Kind      LocationKind
}
