// Package driver decodes program payloads and orchestrates analysis
// runs for the CLI. The analyzer never parses source text: the
// frontend serializes files and modules into a msgpack payload and
// this package turns it back into a checkable program.
package driver

import (
	"errors"
	"fmt"
	"os"

	"github.com/vmihailenco/msgpack/v5"

	"vela/internal/ast"
	"vela/internal/source"
)

// Bump when the payload layout changes.
const payloadSchemaVersion uint16 = 1

var errEmptyPayload = errors.New("payload holds no modules")

// PayloadFile is one source file shipped inside the payload. File IDs
// are assigned in slice order, so spans inside the modules stay valid.
type PayloadFile struct {
	Path    string
	Content []byte
}

// Payload is the wire form of a program.
type Payload struct {
	Schema  uint16
	Files   []PayloadFile
	Modules []*ast.Module
}

// DecodePayload validates and unpacks a payload into a program and its
// file set.
func DecodePayload(data []byte) (*ast.Program, *source.FileSet, error) {
	var p Payload
	if err := msgpack.Unmarshal(data, &p); err != nil {
		return nil, nil, fmt.Errorf("decode payload: %w", err)
	}
	if p.Schema != payloadSchemaVersion {
		return nil, nil, fmt.Errorf("payload schema %d, this analyzer reads %d", p.Schema, payloadSchemaVersion)
	}
	if len(p.Modules) == 0 {
		return nil, nil, errEmptyPayload
	}

	fs := source.NewFileSet()
	for _, f := range p.Files {
		fs.Add(f.Path, f.Content)
	}

	seen := make(map[string]bool, len(p.Modules))
	for _, mod := range p.Modules {
		if mod == nil || mod.Name == "" {
			return nil, nil, errors.New("payload holds an unnamed module")
		}
		if seen[mod.Name] {
			return nil, nil, fmt.Errorf("payload holds module %q twice", mod.Name)
		}
		seen[mod.Name] = true
		if int(mod.File) >= fs.Len() {
			return nil, nil, fmt.Errorf("module %q references file %d, payload ships %d files", mod.Name, mod.File, fs.Len())
		}
	}
	return &ast.Program{Modules: p.Modules}, fs, nil
}

// EncodePayload is the inverse of DecodePayload, used by the frontend
// and by tests.
func EncodePayload(prog *ast.Program, fs *source.FileSet) ([]byte, error) {
	p := Payload{Schema: payloadSchemaVersion, Modules: prog.Modules}
	for i := 0; i < fs.Len(); i++ {
		f := fs.Get(source.FileID(i))
		p.Files = append(p.Files, PayloadFile{Path: f.Path, Content: f.Content})
	}
	return msgpack.Marshal(p)
}

// LoadPayload reads and decodes a payload file.
func LoadPayload(path string) (*ast.Program, *source.FileSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("read payload: %w", err)
	}
	return DecodePayload(data)
}
