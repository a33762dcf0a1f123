package dualcompile

import (
	"bytes"
	"crypto/sha256"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

const (
	eraWordSize       = 32
	eraHashVersion    = 0x01
	maxEraCodeInWords = 1<<16 - 1
)

var errInvalidEraCode = errors.New("invalid era bytecode")

// PackedEraBytecode is the zk backend's deployed bytecode together with its content hash
type PackedEraBytecode struct {
	Hash        string   `json:"hash"`
	Bytecode    string   `json:"bytecode"`
	FactoryDeps []string `json:"factory_deps"`

	code []byte
	hash common.Hash
}

// UnpackEraBytecode reads a deployed zk payload.
// A payload starting with '{' is a packed JSON record; anything else is treated as
// raw era bytecode and its hash is computed.
func UnpackEraBytecode(raw []byte) (*PackedEraBytecode, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		var p PackedEraBytecode
		if err := json.Unmarshal(trimmed, &p); err != nil {
			return nil, fmt.Errorf("failed to decode packed era bytecode: %w", err)
		}
		code, err := hexutil.Decode(p.Bytecode)
		if err != nil {
			return nil, fmt.Errorf("failed to decode era bytecode hex: %w", err)
		}
		p.code = code
		if p.Hash == "" {
			p.hash, err = EraBytecodeHash(code)
			if err != nil {
				return nil, err
			}
			p.Hash = p.hash.Hex()
		} else {
			h, err := hexutil.Decode(p.Hash)
			if err != nil || len(h) != common.HashLength {
				return nil, fmt.Errorf("invalid era bytecode hash %q", p.Hash)
			}
			p.hash = common.BytesToHash(h)
		}
		return &p, nil
	}

	hash, err := EraBytecodeHash(raw)
	if err != nil {
		return nil, err
	}
	code := make([]byte, len(raw))
	copy(code, raw)
	return &PackedEraBytecode{
		Hash:     hash.Hex(),
		Bytecode: hexutil.Encode(code),
		code:     code,
		hash:     hash,
	}, nil
}

// BytecodeHash returns the era content hash
func (p *PackedEraBytecode) BytecodeHash() common.Hash {
	return p.hash
}

// Code returns the extracted era bytecode
func (p *PackedEraBytecode) Code() []byte {
	res := make([]byte, len(p.code))
	copy(res, p.code)
	return res
}

// EraBytecodeHash computes the versioned era bytecode hash:
// version byte, zero byte, code length in 32 byte words (big endian u16),
// followed by the last 28 bytes of sha256(code).
func EraBytecodeHash(code []byte) (common.Hash, error) {
	if len(code) == 0 || len(code)%eraWordSize != 0 {
		return common.Hash{}, fmt.Errorf("%w: length %d is not a positive multiple of %d",
			errInvalidEraCode, len(code), eraWordSize)
	}
	words := len(code) / eraWordSize
	if words > maxEraCodeInWords {
		return common.Hash{}, fmt.Errorf("%w: %d words exceed the limit", errInvalidEraCode, words)
	}
	if words%2 == 0 {
		return common.Hash{}, fmt.Errorf("%w: word count %d must be odd", errInvalidEraCode, words)
	}

	sum := sha256.Sum256(code)
	var h common.Hash
	h[0] = eraHashVersion
	binary.BigEndian.PutUint16(h[2:4], uint16(words))
	copy(h[4:], sum[4:])
	return h, nil
}
