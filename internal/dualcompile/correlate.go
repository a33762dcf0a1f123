// Package dualcompile pairs the artifacts of the EVM and zk compilers.
//
// Correlation is best effort: artifacts without resolvable bytecode or
// without a counterpart in the other set are skipped, never reported as
// errors. Callers decide whether a sparse result is acceptable.
package dualcompile

import (
	"log/slog"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/programme-lv/zktester/internal/artifacts"
)

// NameSeparator separates the logical contract name from the zk compiler's qualifier
const NameSeparator = "."

// DualCompiledContract holds the bytecode of one contract for both backends
type DualCompiledContract struct {
	Name string

	ZkBytecodeHash     common.Hash
	ZkDeployedBytecode []byte

	EvmBytecodeHash     common.Hash
	EvmBytecode         []byte
	EvmDeployedBytecode []byte
}

type evmBytecodes struct {
	bytecode         []byte
	deployedBytecode []byte
}

// LogicalName strips the qualifier after the first separator
func LogicalName(name string) string {
	logical, _, _ := strings.Cut(name, NameSeparator)
	return logical
}

// Correlate pairs the EVM artifacts with the zk artifacts by logical name.
// Only zk names are stripped to their logical form; EVM names are used as is.
// The order of the returned records carries no meaning.
func Correlate(evm, zk *artifacts.Set, logger *slog.Logger) []DualCompiledContract {
	if logger == nil {
		logger = slog.Default()
	}

	evmByName := make(map[string]evmBytecodes, evm.Len())
	evm.Each(func(a *artifacts.Artifact) {
		if !a.Resolved() {
			return
		}
		evmByName[a.Name] = evmBytecodes{
			bytecode:         a.Bytecode,
			deployedBytecode: a.DeployedBytecode,
		}
	})

	skipped := mapset.NewThreadUnsafeSet[string]()
	res := make([]DualCompiledContract, 0)
	zk.Each(func(a *artifacts.Artifact) {
		if a.DeployedBytecode == nil {
			skipped.Add(a.Name)
			return
		}
		packed, err := UnpackEraBytecode(a.DeployedBytecode)
		if err != nil {
			logger.Debug("skipping zk artifact", "name", a.Name, "error", err)
			skipped.Add(a.Name)
			return
		}

		name := LogicalName(a.Name)
		evmCode, ok := evmByName[name]
		if !ok {
			skipped.Add(a.Name)
			return
		}

		res = append(res, DualCompiledContract{
			Name:                name,
			ZkBytecodeHash:      packed.BytecodeHash(),
			ZkDeployedBytecode:  packed.Code(),
			EvmBytecodeHash:     crypto.Keccak256Hash(evmCode.deployedBytecode),
			EvmBytecode:         cloneBytes(evmCode.bytecode),
			EvmDeployedBytecode: cloneBytes(evmCode.deployedBytecode),
		})
	})

	if skipped.Cardinality() > 0 {
		logger.Debug("zk artifacts without a counterpart",
			"count", skipped.Cardinality(), "names", skipped.ToSlice())
	}
	logger.Debug("correlated dual compiled contracts", "count", len(res))
	return res
}

// Names returns the set of contract names in the list
func Names(contracts []DualCompiledContract) mapset.Set[string] {
	names := mapset.NewThreadUnsafeSet[string]()
	for _, c := range contracts {
		names.Add(c.Name)
	}
	return names
}

func cloneBytes(b []byte) []byte {
	res := make([]byte, len(b))
	copy(res, b)
	return res
}
