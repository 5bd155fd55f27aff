// Package allowlist provides merkle-proof verification for the whitelist phase.
package allowlist

import (
	"bytes"
	"sort"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// Leaf computes the merkle leaf for an account: keccak256 of the 20-byte
// address. This is the cross-system contract with off-chain proof
// generators and must not change.
func Leaf(addr common.Address) common.Hash {
	return crypto.Keccak256Hash(addr.Bytes())
}

// hashPair hashes two nodes with the lower value first, so verification is
// agnostic to left/right position. Matches the OpenZeppelin sorted-pair rule.
func hashPair(a, b common.Hash) common.Hash {
	if bytes.Compare(a.Bytes(), b.Bytes()) <= 0 {
		return crypto.Keccak256Hash(a.Bytes(), b.Bytes())
	}
	return crypto.Keccak256Hash(b.Bytes(), a.Bytes())
}

// Verify reports whether proof demonstrates that addr is a member of the set
// committed to by root. A zero root never verifies: an unconfigured
// commitment must not behave as a fully open whitelist.
func Verify(root common.Hash, addr common.Address, proof []common.Hash) bool {
	if root == (common.Hash{}) {
		return false
	}

	node := Leaf(addr)
	for _, sibling := range proof {
		node = hashPair(node, sibling)
	}
	return node == root
}

// Tree is a merkle tree over a set of accounts, used by operators to build
// the committed root and hand out proofs. It uses the same leaf and
// sorted-pair rules as Verify.
type Tree struct {
	levels    [][]common.Hash
	leafIndex map[common.Hash]int
}

// NewTree builds a tree over the given accounts. Leaves are sorted and
// deduplicated so the root is deterministic regardless of input order.
// An odd node at any level is promoted unchanged to the next level.
func NewTree(accounts []common.Address) (*Tree, error) {
	if len(accounts) == 0 {
		return nil, ErrEmptySet
	}

	leaves := make([]common.Hash, 0, len(accounts))
	seen := make(map[common.Hash]bool)
	for _, acc := range accounts {
		leaf := Leaf(acc)
		if seen[leaf] {
			continue
		}
		seen[leaf] = true
		leaves = append(leaves, leaf)
	}
	sort.Slice(leaves, func(i, j int) bool {
		return bytes.Compare(leaves[i].Bytes(), leaves[j].Bytes()) < 0
	})

	leafIndex := make(map[common.Hash]int, len(leaves))
	for i, leaf := range leaves {
		leafIndex[leaf] = i
	}

	levels := [][]common.Hash{leaves}
	for current := leaves; len(current) > 1; {
		next := make([]common.Hash, 0, (len(current)+1)/2)
		for i := 0; i < len(current); i += 2 {
			if i+1 < len(current) {
				next = append(next, hashPair(current[i], current[i+1]))
			} else {
				next = append(next, current[i])
			}
		}
		levels = append(levels, next)
		current = next
	}

	return &Tree{levels: levels, leafIndex: leafIndex}, nil
}

// Root returns the committed root of the tree.
func (t *Tree) Root() common.Hash {
	top := t.levels[len(t.levels)-1]
	return top[0]
}

// ProofFor returns the membership proof for an account.
func (t *Tree) ProofFor(addr common.Address) ([]common.Hash, error) {
	idx, ok := t.leafIndex[Leaf(addr)]
	if !ok {
		return nil, ErrNotInSet
	}

	proof := make([]common.Hash, 0, len(t.levels))
	for _, level := range t.levels[:len(t.levels)-1] {
		sibling := idx ^ 1
		if sibling < len(level) {
			proof = append(proof, level[sibling])
		}
		idx /= 2
	}
	return proof, nil
}

// Len returns the number of distinct accounts in the tree.
func (t *Tree) Len() int {
	return len(t.levels[0])
}
