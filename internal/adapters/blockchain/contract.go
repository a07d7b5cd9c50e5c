package blockchain

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/trebuchet-org/dao-cli/internal/adapters/abi/bindings"
	"github.com/trebuchet-org/dao-cli/internal/domain"
	"github.com/trebuchet-org/dao-cli/internal/domain/models"
)

// chain bundles what every contract client needs
type chain struct {
	pool   *ClientPool
	signer *Signer
	log    *slog.Logger
}

// contract is a bound contract on one chain
type contract struct {
	chainID uint64
	address common.Address
	abi     *abi.ABI
	backend Backend
	bound   *bind.BoundContract
}

func (c *chain) bindContract(ctx context.Context, chainID uint64, md *bindings.MetaData, address common.Address) (*contract, error) {
	backend, err := c.pool.Client(ctx, chainID)
	if err != nil {
		return nil, err
	}
	parsed, err := md.ParseABI()
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s ABI: %w", md.ID, err)
	}
	return &contract{
		chainID: chainID,
		address: address,
		abi:     parsed,
		backend: backend,
		bound:   bind.NewBoundContract(address, *parsed, backend, backend, backend),
	}, nil
}

// call runs a view method and returns its outputs
func (c *contract) call(ctx context.Context, method string, args ...interface{}) ([]interface{}, error) {
	var out []interface{}
	if err := c.bound.Call(&bind.CallOpts{Context: ctx}, &out, method, args...); err != nil {
		return nil, fmt.Errorf("%s(%s): %w", method, c.address.Hex(), err)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%s(%s): empty result", method, c.address.Hex())
	}
	return out, nil
}

func (c *contract) callBig(ctx context.Context, method string, args ...interface{}) (*big.Int, error) {
	out, err := c.call(ctx, method, args...)
	if err != nil {
		return nil, err
	}
	return toBig(out[0])
}

func (c *contract) callUint64(ctx context.Context, method string, args ...interface{}) (uint64, error) {
	n, err := c.callBig(ctx, method, args...)
	if err != nil {
		return 0, err
	}
	if !n.IsUint64() {
		return 0, fmt.Errorf("%s: value %s overflows uint64", method, n)
	}
	return n.Uint64(), nil
}

func (c *contract) callString(ctx context.Context, method string, args ...interface{}) (string, error) {
	out, err := c.call(ctx, method, args...)
	if err != nil {
		return "", err
	}
	s, ok := out[0].(string)
	if !ok {
		return "", fmt.Errorf("%s: unexpected result type %T", method, out[0])
	}
	return s, nil
}

func (c *contract) callAddress(ctx context.Context, method string, args ...interface{}) (common.Address, error) {
	out, err := c.call(ctx, method, args...)
	if err != nil {
		return common.Address{}, err
	}
	addr, ok := out[0].(common.Address)
	if !ok {
		return common.Address{}, fmt.Errorf("%s: unexpected result type %T", method, out[0])
	}
	return addr, nil
}

func (c *contract) callBool(ctx context.Context, method string, args ...interface{}) (bool, error) {
	out, err := c.call(ctx, method, args...)
	if err != nil {
		return false, err
	}
	b, ok := out[0].(bool)
	if !ok {
		return false, fmt.Errorf("%s: unexpected result type %T", method, out[0])
	}
	return b, nil
}

// send signs a method call, waits for it to be mined and checks its status
func (c *chain) send(ctx context.Context, ct *contract, value *big.Int, method string, args ...interface{}) (*models.TxResult, *types.Receipt, error) {
	opts, err := c.signer.TransactOpts(ctx, ct.chainID)
	if err != nil {
		return nil, nil, err
	}
	opts.Value = value

	var tx *types.Transaction
	if method == "" {
		tx, err = ct.bound.Transfer(opts)
	} else {
		tx, err = ct.bound.Transact(opts, method, args...)
	}
	if err != nil {
		label := method
		if label == "" {
			label = "transfer"
		}
		return nil, nil, fmt.Errorf("failed to send %s: %w", label, err)
	}

	c.log.Debug("Transaction sent", "method", method, "to", ct.address, "hash", tx.Hash())
	return c.wait(ctx, ct, opts.From, tx)
}

func (c *chain) wait(ctx context.Context, ct *contract, from common.Address, tx *types.Transaction) (*models.TxResult, *types.Receipt, error) {
	receipt, err := bind.WaitMined(ctx, ct.backend, tx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed waiting for %s: %w", tx.Hash().Hex(), err)
	}

	result := &models.TxResult{
		Hash:        tx.Hash(),
		From:        from,
		To:          ct.address,
		BlockNumber: receipt.BlockNumber.Uint64(),
		GasUsed:     receipt.GasUsed,
		Success:     receipt.Status == types.ReceiptStatusSuccessful,
	}
	if !result.Success {
		return result, receipt, fmt.Errorf("%s: %w", tx.Hash().Hex(), domain.ErrTransactionReverted)
	}
	return result, receipt, nil
}

func toBig(v interface{}) (*big.Int, error) {
	switch n := v.(type) {
	case *big.Int:
		return n, nil
	case uint8:
		return new(big.Int).SetUint64(uint64(n)), nil
	case uint16:
		return new(big.Int).SetUint64(uint64(n)), nil
	case uint32:
		return new(big.Int).SetUint64(uint64(n)), nil
	case uint64:
		return new(big.Int).SetUint64(n), nil
	default:
		return nil, fmt.Errorf("unexpected numeric type %T", v)
	}
}

// isMissingMethod reports whether a call failed because the contract lacks the method
func isMissingMethod(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, bind.ErrNoCode) || containsAny(err.Error(), "execution reverted", "no contract code", "abi: attempting to unmarshall an empty string")
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
