package bindings

// TimelockMetaData covers OpenZeppelin TimelockController
var TimelockMetaData = MetaData{
	ID: "TimelockController",
	ABI: `[
  {"type":"function","name":"getMinDelay","inputs":[],"outputs":[{"name":"","type":"uint256"}],"stateMutability":"view"},
  {"type":"function","name":"isOperation","inputs":[{"name":"id","type":"bytes32"}],"outputs":[{"name":"","type":"bool"}],"stateMutability":"view"},
  {"type":"function","name":"isOperationPending","inputs":[{"name":"id","type":"bytes32"}],"outputs":[{"name":"","type":"bool"}],"stateMutability":"view"},
  {"type":"function","name":"isOperationReady","inputs":[{"name":"id","type":"bytes32"}],"outputs":[{"name":"","type":"bool"}],"stateMutability":"view"},
  {"type":"function","name":"isOperationDone","inputs":[{"name":"id","type":"bytes32"}],"outputs":[{"name":"","type":"bool"}],"stateMutability":"view"},
  {"type":"function","name":"getTimestamp","inputs":[{"name":"id","type":"bytes32"}],"outputs":[{"name":"","type":"uint256"}],"stateMutability":"view"},
  {"type":"function","name":"hasRole","inputs":[{"name":"role","type":"bytes32"},{"name":"account","type":"address"}],"outputs":[{"name":"","type":"bool"}],"stateMutability":"view"},
  {"type":"function","name":"PROPOSER_ROLE","inputs":[],"outputs":[{"name":"","type":"bytes32"}],"stateMutability":"view"},
  {"type":"function","name":"EXECUTOR_ROLE","inputs":[],"outputs":[{"name":"","type":"bytes32"}],"stateMutability":"view"},
  {"type":"function","name":"CANCELLER_ROLE","inputs":[],"outputs":[{"name":"","type":"bytes32"}],"stateMutability":"view"},
  {"type":"function","name":"DEFAULT_ADMIN_ROLE","inputs":[],"outputs":[{"name":"","type":"bytes32"}],"stateMutability":"view"},
  {"type":"function","name":"hashOperationBatch","inputs":[{"name":"targets","type":"address[]"},{"name":"values","type":"uint256[]"},{"name":"payloads","type":"bytes[]"},{"name":"predecessor","type":"bytes32"},{"name":"salt","type":"bytes32"}],"outputs":[{"name":"","type":"bytes32"}],"stateMutability":"pure"},
  {"type":"event","name":"CallScheduled","inputs":[{"name":"id","type":"bytes32","indexed":true},{"name":"index","type":"uint256","indexed":true},{"name":"target","type":"address","indexed":false},{"name":"value","type":"uint256","indexed":false},{"name":"data","type":"bytes","indexed":false},{"name":"predecessor","type":"bytes32","indexed":false},{"name":"delay","type":"uint256","indexed":false}],"anonymous":false},
  {"type":"event","name":"CallExecuted","inputs":[{"name":"id","type":"bytes32","indexed":true},{"name":"index","type":"uint256","indexed":true},{"name":"target","type":"address","indexed":false},{"name":"value","type":"uint256","indexed":false},{"name":"data","type":"bytes","indexed":false}],"anonymous":false},
  {"type":"event","name":"Cancelled","inputs":[{"name":"id","type":"bytes32","indexed":true}],"anonymous":false}
]`,
}

// Role identifiers as defined by TimelockController
var (
	ProposerRole  = keccakString("PROPOSER_ROLE")
	ExecutorRole  = keccakString("EXECUTOR_ROLE")
	CancellerRole = keccakString("CANCELLER_ROLE")
)
