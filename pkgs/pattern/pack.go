package pattern

import (
	"encoding/json"
	"fmt"

	"github.com/latticec/wfc/core/types"
	"github.com/latticec/wfc/pkgs/token"
	"golang.org/x/mod/semver"
)

// EngineVersion is the pattern-API version pattern packs declare
// compatibility against (spec.md §4.4 FULL addition). Bumped only
// when Pack's JSON shape or Kind's semantics change incompatibly.
const EngineVersion = "v1.0.0"

// packSchemaJSON is the JSON Schema a pattern pack document must
// satisfy before it is decoded and compiled. Validated through
// core/types.Validator (santhosh-tekuri/jsonschema/v5), the concrete
// home SPEC_FULL.md §4.4 calls for.
const packSchemaJSON = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["apiVersion", "patterns"],
  "properties": {
    "apiVersion": {"type": "string"},
    "patterns": {
      "type": "object",
      "minProperties": 1,
      "additionalProperties": {"$ref": "#/$defs/node"}
    }
  },
  "$defs": {
    "node": {
      "type": "object",
      "required": ["kind"],
      "properties": {
        "kind": {"enum": ["token", "sequence", "choice", "optional", "repeat", "repeatOne", "reference"]},
        "tokenKind": {"type": "string"},
        "literal": {"type": "string"},
        "children": {"type": "array", "items": {"$ref": "#/$defs/node"}},
        "child": {"$ref": "#/$defs/node"},
        "name": {"type": "string"}
      }
    }
  }
}`

// Pack is the decoded JSON shape of a user-supplied grammar extension
// (spec.md §4.4, "user code may register additional named patterns").
type Pack struct {
	APIVersion string                     `json:"apiVersion"`
	Patterns   map[string]json.RawMessage `json:"patterns"`
}

// packNode mirrors Pattern but as a JSON-decodable tree.
type packNode struct {
	Kind      string     `json:"kind"`
	TokenKind string     `json:"tokenKind"`
	Literal   string     `json:"literal"`
	Children  []packNode `json:"children"`
	Child     *packNode  `json:"child"`
	Name      string     `json:"name"`
}

var tokenKindNames = map[string]token.Kind{
	"identifier":    token.Identifier,
	"keyword":       token.Keyword,
	"intLiteral":    token.IntLiteral,
	"floatLiteral":  token.FloatLiteral,
	"stringLiteral": token.StringLiteral,
	"charLiteral":   token.CharLiteral,
	"operator":      token.Operator,
	"punctuation":   token.Punctuation,
	"whitespace":    token.Whitespace,
	"comment":       token.Comment,
}

func (n packNode) compile() (*Pattern, error) {
	switch n.Kind {
	case "token":
		k, ok := tokenKindNames[n.TokenKind]
		if !ok {
			return nil, fmt.Errorf("pattern: unknown tokenKind %q", n.TokenKind)
		}
		return Match(k, n.Literal), nil
	case "sequence", "choice":
		children := make([]*Pattern, 0, len(n.Children))
		for _, c := range n.Children {
			p, err := c.compile()
			if err != nil {
				return nil, err
			}
			children = append(children, p)
		}
		if n.Kind == "sequence" {
			return Seq(children...), nil
		}
		return Choice(children...), nil
	case "optional", "repeat", "repeatOne":
		if n.Child == nil {
			return nil, fmt.Errorf("pattern: %s node missing child", n.Kind)
		}
		child, err := n.Child.compile()
		if err != nil {
			return nil, err
		}
		switch n.Kind {
		case "optional":
			return Opt(child), nil
		case "repeat":
			return Star(child), nil
		default:
			return Plus(child), nil
		}
	case "reference":
		if n.Name == "" {
			return nil, fmt.Errorf("pattern: reference node missing name")
		}
		return Ref(n.Name), nil
	default:
		return nil, fmt.Errorf("pattern: unknown node kind %q", n.Kind)
	}
}

// LoadPack validates raw against the pattern-pack JSON Schema, checks
// its declared apiVersion is semver-compatible with EngineVersion
// (same major version, per golang.org/x/mod/semver), compiles every
// named pattern, and registers them into reg. Fails atomically: no
// pattern from an invalid pack is registered.
func LoadPack(reg *Registry, raw []byte) error {
	validator := types.NewValidator(types.DefaultValidationConfig())
	doc, err := types.DecodeJSON(raw)
	if err != nil {
		return err
	}
	if err := validator.Validate([]byte(packSchemaJSON), doc); err != nil {
		return fmt.Errorf("pattern: pack failed schema validation: %w", err)
	}

	var pack Pack
	if err := json.Unmarshal(raw, &pack); err != nil {
		return fmt.Errorf("pattern: decoding pack: %w", err)
	}

	if !semver.IsValid(pack.APIVersion) {
		return fmt.Errorf("pattern: pack apiVersion %q is not valid semver", pack.APIVersion)
	}
	if semver.Major(pack.APIVersion) != semver.Major(EngineVersion) {
		return fmt.Errorf("pattern: pack apiVersion %s is incompatible with engine %s (major version mismatch)", pack.APIVersion, EngineVersion)
	}

	compiled := make(map[string]*Pattern, len(pack.Patterns))
	for name, rawNode := range pack.Patterns {
		var node packNode
		if err := json.Unmarshal(rawNode, &node); err != nil {
			return fmt.Errorf("pattern: decoding pack pattern %q: %w", name, err)
		}
		p, err := node.compile()
		if err != nil {
			return fmt.Errorf("pattern: compiling pack pattern %q: %w", name, err)
		}
		compiled[name] = p
	}

	for name, p := range compiled {
		if err := reg.Register(name, p); err != nil {
			return fmt.Errorf("pattern: registering pack pattern %q: %w", name, err)
		}
	}
	return nil
}
