package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/trebuchet-org/dao-cli/internal/domain/models"
)

// renderTx prints the hash, block and gas of a mined transaction
func renderTx(out io.Writer, tx *models.TxResult, explorer string) {
	if tx == nil {
		return
	}
	kv(out, "Transaction", TxLink(tx, explorer))
	kv(out, "Block", Count(tx.BlockNumber))
	kv(out, "Gas used", Count(tx.GasUsed))
}

// TxLink renders an explorer URL when one is configured, otherwise the hash
func TxLink(tx *models.TxResult, explorer string) string {
	if explorer == "" {
		return tx.Hash.Hex()
	}
	return fmt.Sprintf("%s/tx/%s", strings.TrimRight(explorer, "/"), tx.Hash.Hex())
}

// TxRenderer renders plain write results
type TxRenderer struct {
	out      io.Writer
	explorer string
}

// NewTxRenderer creates a renderer for transaction results
func NewTxRenderer(out io.Writer, explorer string) *TxRenderer {
	return &TxRenderer{out: out, explorer: explorer}
}

// RenderSent prints a success line followed by the receipt
func (r *TxRenderer) RenderSent(message string, tx *models.TxResult) error {
	fmt.Fprintln(r.out, FormatSuccess(message))
	renderTx(r.out, tx, r.explorer)
	return nil
}

// RenderRequest prints an unsigned transaction for an external wallet
func (r *TxRenderer) RenderRequest(req *models.TxRequest) error {
	kv(r.out, "Chain", req.ChainID)
	kv(r.out, "To", Address(req.To))
	kv(r.out, "Value", Amount(req.Value, 18)+" ETH")
	kv(r.out, "Data", req.Data.String())
	return nil
}
