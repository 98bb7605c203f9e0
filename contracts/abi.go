package contracts

import (
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

// PassABIJSON covers the eligibility credential (pass) and its delegation registry.
const PassABIJSON = `[
	{"type":"function","name":"balanceOf","stateMutability":"view","inputs":[{"name":"owner","type":"address"}],"outputs":[{"name":"","type":"uint256"}]},
	{"type":"function","name":"ownerOf","stateMutability":"view","inputs":[{"name":"tokenId","type":"uint256"}],"outputs":[{"name":"","type":"address"}]},
	{"type":"function","name":"address2id","stateMutability":"view","inputs":[{"name":"owner","type":"address"}],"outputs":[{"name":"","type":"uint256"}]},
	{"type":"function","name":"canActOnBehalf","stateMutability":"view","inputs":[{"name":"owner","type":"address"},{"name":"actor","type":"address"}],"outputs":[{"name":"","type":"bool"}]}
]`

// MinterABIJSON is the identity verifier that mints the pass on success.
const MinterABIJSON = `[
	{"type":"function","name":"verifySelfProof","stateMutability":"nonpayable","inputs":[{"name":"proof","type":"tuple","components":[
		{"name":"a","type":"uint256[2]"},
		{"name":"b","type":"uint256[2][2]"},
		{"name":"c","type":"uint256[2]"},
		{"name":"pubSignals","type":"uint256[21]"}
	]}],"outputs":[]}
]`

// TicketABIJSON is the ticket seller.
const TicketABIJSON = `[
	{"type":"function","name":"buyTicket","stateMutability":"payable","inputs":[{"name":"delegate_ids","type":"uint256[]"}],"outputs":[]},
	{"type":"function","name":"ticketPrice","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint256"}]},
	{"type":"function","name":"maxTicketAmountCanBuy","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint256"}]}
]`

var (
	PassABI   = mustParseABI(PassABIJSON)
	MinterABI = mustParseABI(MinterABIJSON)
	TicketABI = mustParseABI(TicketABIJSON)
)

func mustParseABI(def string) abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(def))
	if err != nil {
		panic(err)
	}
	return parsed
}
