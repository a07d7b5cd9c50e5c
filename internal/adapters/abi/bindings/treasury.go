package bindings

// TreasuryMetaData covers the DAO treasury. Outgoing transfers are owner-only
// and the owner is the timelock (or the governor when there is none).
var TreasuryMetaData = MetaData{
	ID: "Treasury",
	ABI: `[
  {"type":"receive","stateMutability":"payable"},
  {"type":"function","name":"transferETH","inputs":[{"name":"to","type":"address"},{"name":"amount","type":"uint256"}],"outputs":[],"stateMutability":"nonpayable"},
  {"type":"function","name":"transferToken","inputs":[{"name":"token","type":"address"},{"name":"to","type":"address"},{"name":"amount","type":"uint256"}],"outputs":[],"stateMutability":"nonpayable"},
  {"type":"event","name":"ETHReceived","inputs":[{"name":"from","type":"address","indexed":true},{"name":"amount","type":"uint256","indexed":false}],"anonymous":false},
  {"type":"event","name":"ETHTransferred","inputs":[{"name":"to","type":"address","indexed":true},{"name":"amount","type":"uint256","indexed":false}],"anonymous":false},
  {"type":"event","name":"TokenTransferred","inputs":[{"name":"token","type":"address","indexed":true},{"name":"to","type":"address","indexed":true},{"name":"amount","type":"uint256","indexed":false}],"anonymous":false}
]`,
}
