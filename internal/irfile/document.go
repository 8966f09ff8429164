package irfile

// Document is the serialized form of a module.
type Document struct {
	Module    string         `yaml:"module" json:"module"`
	Types     []TypeDecl     `yaml:"types,omitempty" json:"types,omitempty"`
	Functions []FunctionDecl `yaml:"functions" json:"functions"`
}

// TypeDecl declares a struct type under a document-unique label.
type TypeDecl struct {
	Name   string   `yaml:"name" json:"name"`
	Fields []string `yaml:"fields" json:"fields"`
}

// FunctionDecl declares a function body.
type FunctionDecl struct {
	Name         string            `yaml:"name" json:"name"`
	Params       []string          `yaml:"params,omitempty" json:"params,omitempty"`
	Instructions []InstructionDecl `yaml:"instructions" json:"instructions"`
}

// InstructionDecl is one instruction. Source and InBounds apply to
// getelementptr only; Callee to call only.
type InstructionDecl struct {
	Result   string   `yaml:"result,omitempty" json:"result,omitempty"`
	Op       string   `yaml:"op" json:"op"`
	InBounds bool     `yaml:"inbounds,omitempty" json:"inbounds,omitempty"`
	Source   string   `yaml:"source,omitempty" json:"source,omitempty"`
	Type     string   `yaml:"type,omitempty" json:"type,omitempty"`
	Callee   string   `yaml:"callee,omitempty" json:"callee,omitempty"`
	Operands []string `yaml:"operands,omitempty" json:"operands,omitempty"`
}
