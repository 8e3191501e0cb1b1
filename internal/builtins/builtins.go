// Package builtins defines the builtin functions of the EVM dialect of Yul.
//
// The table records the number of arguments and return values of each
// builtin, which the parser checks at every call site. Builtin names can
// never be declared by user code, so the disambiguator treats them as
// reserved.
package builtins

import "codeberg.org/saruga/yulopt/internal/lexer"

// Builtin represents a built-in function.
type Builtin struct {
	Name    string
	Args    int
	Returns int
}

// Table maps builtin function names to their definitions.
var Table = make(map[string]*Builtin)

func init() {
	registerArithmetic()
	registerComparison()
	registerBitwise()
	registerMemory()
	registerStorage()
	registerEnvironment()
	registerCalls()
	registerControl()
	registerLogging()
}

// Lookup returns the builtin function with the given name, or nil.
func Lookup(name string) *Builtin {
	return Table[name]
}

// ReservedNames builds the set of names user declarations may not take:
// keywords and builtin function names.
func ReservedNames() map[string]bool {
	reserved := make(map[string]bool, len(lexer.Keywords)+len(Table))
	for kw := range lexer.Keywords {
		reserved[kw] = true
	}
	for name := range Table {
		reserved[name] = true
	}
	return reserved
}

func register(args, returns int, names ...string) {
	for _, name := range names {
		Table[name] = &Builtin{Name: name, Args: args, Returns: returns}
	}
}

func registerArithmetic() {
	register(2, 1, "add", "sub", "mul", "div", "sdiv", "mod", "smod", "exp", "signextend")
	register(3, 1, "addmod", "mulmod")
}

func registerComparison() {
	register(2, 1, "lt", "gt", "slt", "sgt", "eq")
	register(1, 1, "iszero")
}

func registerBitwise() {
	register(2, 1, "and", "or", "xor", "byte", "shl", "shr", "sar")
	register(1, 1, "not")
}

func registerMemory() {
	register(1, 1, "mload")
	register(2, 0, "mstore", "mstore8")
	register(3, 0, "mcopy", "calldatacopy", "codecopy", "returndatacopy")
	register(0, 1, "msize")
	register(2, 1, "keccak256")
	register(4, 0, "extcodecopy")
}

func registerStorage() {
	register(1, 1, "sload", "tload")
	register(2, 0, "sstore", "tstore")
}

func registerEnvironment() {
	register(0, 1,
		"address", "origin", "caller", "callvalue", "calldatasize", "codesize",
		"gasprice", "coinbase", "timestamp", "number", "prevrandao", "gaslimit",
		"chainid", "basefee", "blobbasefee", "gas", "selfbalance", "returndatasize")
	register(1, 1, "calldataload", "blockhash", "blobhash", "balance", "extcodesize", "extcodehash")
	register(1, 0, "pop")
}

func registerCalls() {
	register(7, 1, "call", "callcode")
	register(6, 1, "delegatecall", "staticcall")
	register(3, 1, "create")
	register(4, 1, "create2")
}

func registerControl() {
	register(2, 0, "return", "revert")
	register(0, 0, "stop", "invalid")
	register(1, 0, "selfdestruct")
}

func registerLogging() {
	register(2, 0, "log0")
	register(3, 0, "log1")
	register(4, 0, "log2")
	register(5, 0, "log3")
	register(6, 0, "log4")
}
