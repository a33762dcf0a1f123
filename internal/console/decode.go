// Package console decodes the ds-test style log events tests emit for
// console output.
package console

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/programme-lv/zktester/api"
)

type event struct {
	named bool
	args  abi.Arguments
}

var events = map[common.Hash]event{}

func register(sig string, named bool, types ...string) {
	args := make(abi.Arguments, 0, len(types))
	for _, ty := range types {
		t, err := abi.NewType(ty, "", nil)
		if err != nil {
			panic(fmt.Errorf("invalid console event type %s: %w", ty, err))
		}
		args = append(args, abi.Argument{Type: t})
	}
	events[crypto.Keccak256Hash([]byte(sig))] = event{named: named, args: args}
}

func init() {
	register("log(string)", false, "string")
	register("logs(bytes)", false, "bytes")
	register("log_address(address)", false, "address")
	register("log_bytes32(bytes32)", false, "bytes32")
	register("log_int(int256)", false, "int256")
	register("log_uint(uint256)", false, "uint256")
	register("log_bytes(bytes)", false, "bytes")
	register("log_string(string)", false, "string")
	register("log_named_address(string,address)", true, "string", "address")
	register("log_named_bytes32(string,bytes32)", true, "string", "bytes32")
	register("log_named_int(string,int256)", true, "string", "int256")
	register("log_named_uint(string,uint256)", true, "string", "uint256")
	register("log_named_bytes(string,bytes)", true, "string", "bytes")
	register("log_named_string(string,string)", true, "string", "string")
}

// Decoder turns raw log records into console lines
type Decoder struct{}

// DecodeConsoleLogs returns one line per recognised console event, in log
// order. Records that are not console events or fail to decode are skipped.
func (Decoder) DecodeConsoleLogs(logs []api.Log) []string {
	res := make([]string, 0, len(logs))
	for _, l := range logs {
		if line, ok := decodeLog(l); ok {
			res = append(res, line)
		}
	}
	return res
}

func decodeLog(l api.Log) (string, bool) {
	if len(l.Topics) == 0 {
		return "", false
	}
	ev, ok := events[l.Topics[0]]
	if !ok {
		return "", false
	}
	values, err := ev.args.Unpack(l.Data)
	if err != nil || len(values) != len(ev.args) {
		return "", false
	}
	if ev.named {
		return fmt.Sprintf("%s: %s", format(values[0]), format(values[1])), true
	}
	return format(values[0]), true
}

func format(v interface{}) string {
	switch v := v.(type) {
	case string:
		return v
	case *big.Int:
		return v.String()
	case common.Address:
		return v.Hex()
	case [32]byte:
		return hexutil.Encode(v[:])
	case []byte:
		return hexutil.Encode(v)
	default:
		return fmt.Sprint(v)
	}
}
