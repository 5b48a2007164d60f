// Package chain implements command checksum chains for tamper detection.
// Each command's checksum is computed as sha256(text + prev_checksum),
// creating a hash chain: modifying any command invalidates all subsequent
// checksums. A merkle root over the commands identifies a whole script.
package chain

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/cbergoon/merkletree"

	"github.com/hlop3z/oraddl/internal/alerr"
	"github.com/hlop3z/oraddl/internal/sqlgen"
)

// GenesisChecksum is the previous checksum of the first command.
const GenesisChecksum = "genesis"

// Link is a single command in the chain.
type Link struct {
	Index        int
	Kind         string // operation kind that produced the command, if known
	Checksum     string // sha256(text + prev_checksum)
	PrevChecksum string
	Text         string
}

// Chain is the computed chain of a script.
type Chain struct {
	Links []Link
	Root  string // merkle root over the command texts
}

// Compute builds the chain for generated commands.
func Compute(commands []sqlgen.Command) (*Chain, error) {
	texts := make([]string, len(commands))
	kinds := make([]string, len(commands))
	for i, c := range commands {
		texts[i] = c.Text
		kinds[i] = c.Kind
	}
	return compute(texts, kinds)
}

// ComputeTexts builds the chain for bare command texts, such as a parsed
// script file.
func ComputeTexts(texts []string) (*Chain, error) {
	return compute(texts, nil)
}

func compute(texts, kinds []string) (*Chain, error) {
	c := &Chain{Links: make([]Link, 0, len(texts))}

	prev := GenesisChecksum
	for i, text := range texts {
		sum := computeChecksum([]byte(text), prev)
		link := Link{
			Index:        i,
			Checksum:     sum,
			PrevChecksum: prev,
			Text:         text,
		}
		if i < len(kinds) {
			link.Kind = kinds[i]
		}
		c.Links = append(c.Links, link)
		prev = sum
	}

	root, err := merkleRoot(texts)
	if err != nil {
		return nil, err
	}
	c.Root = root
	return c, nil
}

// LastChecksum returns the checksum of the last link, or genesis if empty.
func (c *Chain) LastChecksum() string {
	if len(c.Links) == 0 {
		return GenesisChecksum
	}
	return c.Links[len(c.Links)-1].Checksum
}

// ShortRoot returns the first 12 characters of the merkle root.
func (c *Chain) ShortRoot() string {
	if len(c.Root) <= 12 {
		return c.Root
	}
	return c.Root[:12]
}

// computeChecksum computes sha256(content + prevChecksum).
func computeChecksum(content []byte, prevChecksum string) string {
	h := sha256.New()
	h.Write(content)
	h.Write([]byte(prevChecksum))
	return hex.EncodeToString(h.Sum(nil))
}

// -----------------------------------------------------------------------------
// Merkle root
// -----------------------------------------------------------------------------

// commandContent implements merkletree.Content for one command.
type commandContent struct {
	index int
	text  string
}

func (c commandContent) CalculateHash() ([]byte, error) {
	h := sha256.Sum256([]byte(fmt.Sprintf("%d:%s", c.index, c.text)))
	return h[:], nil
}

func (c commandContent) Equals(other merkletree.Content) (bool, error) {
	o, ok := other.(commandContent)
	if !ok {
		return false, nil
	}
	return c.index == o.index && c.text == o.text, nil
}

// merkleRoot returns the hex merkle root over texts in order.
func merkleRoot(texts []string) (string, error) {
	if len(texts) == 0 {
		return emptyHash(), nil
	}
	contents := make([]merkletree.Content, len(texts))
	for i, t := range texts {
		contents[i] = commandContent{index: i, text: t}
	}
	tree, err := merkletree.NewTree(contents)
	if err != nil {
		return "", alerr.Wrap(alerr.EInternalError, err, "failed to build merkle tree")
	}
	return hex.EncodeToString(tree.MerkleRoot()), nil
}

func emptyHash() string {
	h := sha256.Sum256(nil)
	return hex.EncodeToString(h[:])
}
