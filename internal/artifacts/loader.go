package artifacts

import (
	"encoding/json"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/klauspost/compress/zstd"
)

const (
	jsonExt     = ".json"
	zstdJsonExt = ".json.zst"
	buildInfo   = "build-info"
)

type bytecodeObject struct {
	Object string `json:"object"`
}

// artifactFile is the subset of a forge style artifact that is read
type artifactFile struct {
	Bytecode          *bytecodeObject   `json:"bytecode"`
	DeployedBytecode  *bytecodeObject   `json:"deployedBytecode"`
	MethodIdentifiers map[string]string `json:"methodIdentifiers"`
}

// LoadDir reads every artifact below an output directory.
// Artifacts are keyed by file name without the json extension, so
// out/Token.sol/Token.json is keyed "Token" and zkout/Token.sol/Token.zk.json "Token.zk".
// Files ending in .json.zst are decompressed with zstd.
func LoadDir(dir string) (*Set, error) {
	arts := make(map[string]Artifact)
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if d.Name() == buildInfo {
				return filepath.SkipDir
			}
			return nil
		}

		name, ok := artifactName(d.Name())
		if !ok {
			return nil
		}

		a, err := readArtifact(path)
		if err != nil {
			return err
		}
		a.Name = name
		a.SourcePath, err = filepath.Rel(dir, filepath.Dir(path))
		if err != nil {
			return fmt.Errorf("failed to relativize %s: %w", path, err)
		}

		if prev, exists := arts[name]; exists {
			return fmt.Errorf("duplicate artifact %s in %s and %s", name, prev.SourcePath, a.SourcePath)
		}
		arts[name] = a
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load artifacts from %s: %w", dir, err)
	}
	return NewSet(arts), nil
}

func artifactName(fname string) (string, bool) {
	switch {
	case strings.HasSuffix(fname, zstdJsonExt):
		return strings.TrimSuffix(fname, zstdJsonExt), true
	case strings.HasSuffix(fname, jsonExt):
		return strings.TrimSuffix(fname, jsonExt), true
	}
	return "", false
}

func readArtifact(path string) (Artifact, error) {
	f, err := os.Open(path)
	if err != nil {
		return Artifact{}, fmt.Errorf("failed to open artifact %s: %w", path, err)
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(path, zstdJsonExt) {
		d, err := zstd.NewReader(f)
		if err != nil {
			return Artifact{}, fmt.Errorf("failed to create zstd reader: %w", err)
		}
		defer d.Close()
		r = d
	}

	var af artifactFile
	if err := json.NewDecoder(r).Decode(&af); err != nil {
		return Artifact{}, fmt.Errorf("failed to parse artifact %s: %w", path, err)
	}

	return Artifact{
		Bytecode:         resolveObject(af.Bytecode),
		DeployedBytecode: resolveObject(af.DeployedBytecode),
		Functions:        functionNames(af.MethodIdentifiers),
	}, nil
}

// resolveObject returns nil when the object is missing or not plain hex
func resolveObject(obj *bytecodeObject) []byte {
	if obj == nil {
		return nil
	}
	s := obj.Object
	if !strings.HasPrefix(s, "0x") {
		s = "0x" + s
	}
	b, err := hexutil.Decode(s)
	if err != nil {
		return nil
	}
	return b
}

func functionNames(ids map[string]string) []string {
	seen := make(map[string]struct{}, len(ids))
	res := make([]string, 0, len(ids))
	for sig := range ids {
		name := sig
		if i := strings.IndexByte(sig, '('); i >= 0 {
			name = sig[:i]
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		res = append(res, name)
	}
	sort.Strings(res)
	return res
}
