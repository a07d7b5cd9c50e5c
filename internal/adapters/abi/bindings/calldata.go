package bindings

import (
	"fmt"
	"math/big"
	"reflect"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
)

// PackPropose encodes governor.propose
func PackPropose(targets []common.Address, values []*big.Int, calldatas [][]byte, description string) ([]byte, error) {
	return GovernorMetaData.MustABI().Pack("propose", targets, values, calldatas, description)
}

// PackCastVote encodes castVote, or castVoteWithReason when reason is set
func PackCastVote(proposalID *big.Int, support uint8, reason string) ([]byte, error) {
	parsed := GovernorMetaData.MustABI()
	if reason != "" {
		return parsed.Pack("castVoteWithReason", proposalID, support, reason)
	}
	return parsed.Pack("castVote", proposalID, support)
}

// PackLifecycle encodes queue, execute or cancel
func PackLifecycle(method string, targets []common.Address, values []*big.Int, calldatas [][]byte, descriptionHash common.Hash) ([]byte, error) {
	switch method {
	case "queue", "execute", "cancel":
	default:
		return nil, fmt.Errorf("unknown governor lifecycle method %q", method)
	}
	return GovernorMetaData.MustABI().Pack(method, targets, values, calldatas, [32]byte(descriptionHash))
}

// PackTreasuryTransferETH encodes treasury.transferETH
func PackTreasuryTransferETH(to common.Address, amount *big.Int) ([]byte, error) {
	return TreasuryMetaData.MustABI().Pack("transferETH", to, amount)
}

// PackTreasuryTransferToken encodes treasury.transferToken
func PackTreasuryTransferToken(token, to common.Address, amount *big.Int) ([]byte, error) {
	return TreasuryMetaData.MustABI().Pack("transferToken", token, to, amount)
}

// PackERC20Transfer encodes token.transfer
func PackERC20Transfer(to common.Address, amount *big.Int) ([]byte, error) {
	return VotesTokenMetaData.MustABI().Pack("transfer", to, amount)
}

// PackDelegate encodes token.delegate
func PackDelegate(delegatee common.Address) ([]byte, error) {
	return VotesTokenMetaData.MustABI().Pack("delegate", delegatee)
}

// EncodeSignatureCall encodes a call from a human readable signature such as
// "transfer(address,uint256)" and string arguments. Only elementary types are
// supported.
func EncodeSignatureCall(signature string, args []string) ([]byte, error) {
	name, types, err := parseSignature(signature)
	if err != nil {
		return nil, err
	}
	if len(types) != len(args) {
		return nil, fmt.Errorf("%s expects %d arguments, got %d", name, len(types), len(args))
	}

	arguments := make(abi.Arguments, len(types))
	values := make([]interface{}, len(types))
	for i, t := range types {
		typ, err := abi.NewType(t, "", nil)
		if err != nil {
			return nil, fmt.Errorf("argument %d: unsupported type %q: %w", i, t, err)
		}
		arguments[i] = abi.Argument{Type: typ}

		value, err := convertArg(typ, args[i])
		if err != nil {
			return nil, fmt.Errorf("argument %d (%s): %w", i, t, err)
		}
		values[i] = value
	}

	packed, err := arguments.Pack(values...)
	if err != nil {
		return nil, fmt.Errorf("failed to encode arguments: %w", err)
	}

	canonical := name + "(" + strings.Join(types, ",") + ")"
	selector := crypto.Keccak256([]byte(canonical))[:4]
	return append(selector, packed...), nil
}

// parseSignature splits name(type,type) and normalizes uint/int aliases
func parseSignature(signature string) (string, []string, error) {
	signature = strings.ReplaceAll(strings.TrimSpace(signature), " ", "")
	open := strings.Index(signature, "(")
	if open <= 0 || !strings.HasSuffix(signature, ")") {
		return "", nil, fmt.Errorf("invalid function signature %q", signature)
	}
	name := signature[:open]
	inner := signature[open+1 : len(signature)-1]
	if strings.ContainsAny(inner, "()[]") {
		return "", nil, fmt.Errorf("invalid function signature %q: tuples and arrays are not supported", signature)
	}
	if inner == "" {
		return name, nil, nil
	}

	types := strings.Split(inner, ",")
	for i, t := range types {
		switch t {
		case "uint":
			types[i] = "uint256"
		case "int":
			types[i] = "int256"
		}
	}
	return name, types, nil
}

func convertArg(typ abi.Type, raw string) (interface{}, error) {
	raw = strings.TrimSpace(raw)
	switch typ.T {
	case abi.AddressTy:
		if !common.IsHexAddress(raw) {
			return nil, fmt.Errorf("invalid address %q", raw)
		}
		return common.HexToAddress(raw), nil
	case abi.BoolTy:
		return strconv.ParseBool(raw)
	case abi.StringTy:
		return raw, nil
	case abi.BytesTy:
		return hexutil.Decode(raw)
	case abi.FixedBytesTy:
		b, err := hexutil.Decode(raw)
		if err != nil {
			return nil, err
		}
		if len(b) > typ.Size {
			return nil, fmt.Errorf("value is %d bytes, type holds %d", len(b), typ.Size)
		}
		return fixedBytes(b, typ.Size), nil
	case abi.UintTy, abi.IntTy:
		n, ok := new(big.Int).SetString(strings.ReplaceAll(raw, "_", ""), 0)
		if !ok {
			return nil, fmt.Errorf("invalid integer %q", raw)
		}
		if typ.T == abi.UintTy && n.Sign() < 0 {
			return nil, fmt.Errorf("negative value for unsigned type")
		}
		return sizedInt(typ, n)
	default:
		return nil, fmt.Errorf("unsupported type %s", typ.String())
	}
}

// sizedInt converts to the Go type go-ethereum expects for the given integer size
func sizedInt(typ abi.Type, n *big.Int) (interface{}, error) {
	if typ.T == abi.UintTy {
		switch typ.Size {
		case 8:
			return uint8(n.Uint64()), checkBits(n, 8)
		case 16:
			return uint16(n.Uint64()), checkBits(n, 16)
		case 32:
			return uint32(n.Uint64()), checkBits(n, 32)
		case 64:
			return n.Uint64(), checkBits(n, 64)
		}
		return n, checkBits(n, typ.Size)
	}
	switch typ.Size {
	case 8:
		return int8(n.Int64()), checkSignedBits(n, 8)
	case 16:
		return int16(n.Int64()), checkSignedBits(n, 16)
	case 32:
		return int32(n.Int64()), checkSignedBits(n, 32)
	case 64:
		return n.Int64(), checkSignedBits(n, 64)
	}
	return n, checkSignedBits(n, typ.Size)
}

func checkBits(n *big.Int, bits int) error {
	if n.BitLen() > bits {
		return fmt.Errorf("value overflows uint%d", bits)
	}
	return nil
}

func checkSignedBits(n *big.Int, bits int) error {
	limit := new(big.Int).Lsh(big.NewInt(1), uint(bits-1))
	min := new(big.Int).Neg(limit)
	if n.Cmp(min) < 0 || n.Cmp(limit) >= 0 {
		return fmt.Errorf("value overflows int%d", bits)
	}
	return nil
}

// fixedBytes builds a [size]byte value, right padded
func fixedBytes(b []byte, size int) interface{} {
	arr := reflect.New(reflect.ArrayOf(size, reflect.TypeOf(byte(0)))).Elem()
	reflect.Copy(arr, reflect.ValueOf(b))
	return arr.Interface()
}
