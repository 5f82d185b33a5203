// Package proposal extracts staged file changes from free-form model output.
package proposal

import (
	"encoding/json"
	"strings"
)

// ActionProposeCode tags a structured block as a file change proposal.
const ActionProposeCode = "propose_code"

// Proposal is a staged, human-approvable file change.
type Proposal struct {
	FileName    string `json:"fileName"`
	Content     string `json:"content"`
	Description string `json:"description"`
}

// Kind discriminates a parse Result.
type Kind int

const (
	// KindNone means the text carries no proposal.
	KindNone Kind = iota
	// KindValid means a well-formed proposal was found.
	KindValid
	// KindMalformed means a proposal block was found but could not be used.
	KindMalformed
)

func (k Kind) String() string {
	switch k {
	case KindValid:
		return "valid"
	case KindMalformed:
		return "malformed"
	default:
		return "none"
	}
}

// Result is the outcome of Parse. Proposal is set only for KindValid;
// Raw holds the block body for KindMalformed and KindValid.
type Result struct {
	Kind     Kind
	Proposal Proposal
	Raw      string
	Reason   string
}

// Found reports whether a usable proposal was extracted.
func (r Result) Found() bool {
	return r.Kind == KindValid
}

const (
	openFence  = "```json"
	closeFence = "```"
)

// firstBlock returns the body of the first fenced json block. JSON strings may
// carry their own fences, so closing fences are tried in order and the first
// body that is valid JSON wins. When none is, the shortest body is returned.
func firstBlock(text string) (string, bool) {
	start := strings.Index(text, openFence)
	if start < 0 {
		return "", false
	}
	rest := text[start+len(openFence):]

	first, found := "", false
	for offset := 0; ; {
		end := strings.Index(rest[offset:], closeFence)
		if end < 0 {
			break
		}
		body := strings.TrimSpace(rest[:offset+end])
		if json.Valid([]byte(body)) {
			return body, true
		}
		if !found {
			first, found = body, true
		}
		offset += end + len(closeFence)
	}
	return first, found
}

type wireProposal struct {
	Action      string  `json:"action"`
	FileName    *string `json:"fileName"`
	Content     *string `json:"content"`
	Description *string `json:"description"`
}

// Parse looks at the first fenced json block in text. It never fails:
// absent blocks and non-proposal JSON yield KindNone, unusable proposal
// blocks yield KindMalformed.
func Parse(text string) Result {
	raw, ok := firstBlock(text)
	if !ok {
		return Result{Kind: KindNone}
	}

	var wire wireProposal
	if err := json.Unmarshal([]byte(raw), &wire); err != nil {
		return Result{Kind: KindMalformed, Raw: raw, Reason: err.Error()}
	}
	if wire.Action != ActionProposeCode {
		return Result{Kind: KindNone}
	}
	if wire.FileName == nil || strings.TrimSpace(*wire.FileName) == "" {
		return Result{Kind: KindMalformed, Raw: raw, Reason: "missing fileName"}
	}
	if wire.Content == nil {
		return Result{Kind: KindMalformed, Raw: raw, Reason: "missing content"}
	}

	p := Proposal{FileName: *wire.FileName, Content: *wire.Content}
	if wire.Description != nil {
		p.Description = *wire.Description
	}
	return Result{Kind: KindValid, Proposal: p, Raw: raw}
}
