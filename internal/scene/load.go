package scene

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"gopkg.in/yaml.v3"
)

//go:embed schema.cue
var schemaCUE string

// Load reads a scene file, choosing the decoder from the extension:
// .yaml and .yml for YAML, .cue for CUE.
func Load(path string) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeRead, Message: fmt.Sprintf("failed to read scene file: %v", err)}
	}

	var sc *Scene
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		sc, err = ParseYAML(data, path)
	case ".cue":
		sc, err = ParseCUE(data, path)
	default:
		return nil, &LoadError{Code: ErrCodeFormat, Message: fmt.Sprintf("unsupported scene file %q: want .yaml, .yml or .cue", path)}
	}
	if err != nil {
		return nil, err
	}
	sc.Dir = filepath.Dir(path)
	return sc, nil
}

// ParseYAML decodes a YAML scene. Unknown fields are rejected so typos
// surface as errors. name is used in messages.
func ParseYAML(data []byte, name string) (*Scene, error) {
	var sc Scene
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&sc); err != nil {
		return nil, &LoadError{Code: ErrCodeSyntax, Message: fmt.Sprintf("%s: %v", name, err)}
	}
	return finish(&sc, name)
}

// ParseCUE compiles a CUE scene, unifies it with the scene schema and
// decodes the result. Errors carry CUE positions.
func ParseCUE(data []byte, name string) (*Scene, error) {
	ctx := cuecontext.New()

	schema := ctx.CompileString(schemaCUE, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return nil, fromCUE(ErrCodeSchema, err)
	}

	v := ctx.CompileBytes(data, cue.Filename(name))
	if err := v.Err(); err != nil {
		return nil, fromCUE(ErrCodeSyntax, err)
	}

	src := v
	v = schema.LookupPath(cue.ParsePath("#Scene")).Unify(v)
	if err := v.Validate(cue.Concrete(true)); err != nil {
		return nil, schemaError(src, err)
	}

	var sc Scene
	if err := v.Decode(&sc); err != nil {
		return nil, schemaError(src, err)
	}
	return finish(&sc, name)
}

// schemaError positions a schema violation at the offending field in src,
// falling back to whatever position CUE reports.
func schemaError(src cue.Value, err error) *LoadError {
	le := fromCUE(ErrCodeSchema, err)
	if pos := sourcePos(src, err); pos.IsValid() {
		le.Pos = pos
	}
	return le
}

func finish(sc *Scene, name string) (*Scene, error) {
	sc.normalize()
	if err := sc.validate(); err != nil {
		return nil, &LoadError{Code: ErrCodeInvalid, Message: fmt.Sprintf("%s: %v", name, err)}
	}
	return sc, nil
}
