package pattern

import "testing"

func TestLoadPackValidAndRegisters(t *testing.T) {
	raw := []byte(`{
		"apiVersion": "v1.2.0",
		"patterns": {
			"greeting": {
				"kind": "sequence",
				"children": [
					{"kind": "token", "tokenKind": "keyword", "literal": "hello"},
					{"kind": "token", "tokenKind": "identifier"}
				]
			}
		}
	}`)
	reg := NewRegistry()
	if err := LoadPack(reg, raw); err != nil {
		t.Fatalf("LoadPack: %v", err)
	}
	p, ok := reg.Lookup("greeting")
	if !ok {
		t.Fatal("LoadPack should register the \"greeting\" pattern")
	}
	if p.Kind != Sequence || len(p.Children) != 2 {
		t.Errorf("compiled pattern shape = %+v", p)
	}
}

func TestLoadPackRejectsMajorVersionMismatch(t *testing.T) {
	raw := []byte(`{
		"apiVersion": "v2.0.0",
		"patterns": {"x": {"kind": "token", "tokenKind": "identifier"}}
	}`)
	reg := NewRegistry()
	if err := LoadPack(reg, raw); err == nil {
		t.Fatal("LoadPack should reject a pack whose major version does not match EngineVersion")
	}
	if _, ok := reg.Lookup("x"); ok {
		t.Error("a rejected pack must not partially register patterns")
	}
}

func TestLoadPackRejectsSchemaViolation(t *testing.T) {
	raw := []byte(`{"apiVersion": "v1.0.0"}`) // missing required "patterns"
	reg := NewRegistry()
	if err := LoadPack(reg, raw); err == nil {
		t.Fatal("LoadPack should reject a document missing the required \"patterns\" property")
	}
}

func TestLoadPackRejectsUnknownNodeKind(t *testing.T) {
	raw := []byte(`{
		"apiVersion": "v1.0.0",
		"patterns": {"x": {"kind": "bogus"}}
	}`)
	reg := NewRegistry()
	if err := LoadPack(reg, raw); err == nil {
		t.Fatal("LoadPack should reject an unrecognised node kind")
	}
}

func TestLoadPackAtomicOnPartialFailure(t *testing.T) {
	raw := []byte(`{
		"apiVersion": "v1.0.0",
		"patterns": {
			"good": {"kind": "token", "tokenKind": "identifier"},
			"bad": {"kind": "reference"}
		}
	}`)
	reg := NewRegistry()
	if err := LoadPack(reg, raw); err == nil {
		t.Fatal("LoadPack should fail when any pattern in the pack fails to compile")
	}
	if _, ok := reg.Lookup("good"); ok {
		t.Error("LoadPack must not register any pattern from a pack that fails atomically")
	}
}
