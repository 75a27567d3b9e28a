package run

import (
	"crypto/sha256"
	"fmt"
	"strconv"

	"dsemotion/domain/core"
)

// CodeVersion is recorded on every run so stored results can be traced to the
// classifier that produced them.
const CodeVersion = "1.0.0"

// Fingerprint ensures deterministic replay: two runs with the same fingerprint produce
// the same labels.
type Fingerprint struct {
	KnowledgeBase core.Hash `json:"knowledge_base"`
	Input         core.Hash `json:"input"`
	EvidenceMass  float64   `json:"evidence_mass"`
	StrictRanges  bool      `json:"strict_ranges"`
	CodeVersion   string    `json:"code_version"`
	Fingerprint   core.Hash `json:"fingerprint"` // Hash of all above
}

// NewFingerprint creates a fingerprint from determinism parameters
func NewFingerprint(kb, input core.Hash, evidenceMass float64, strict bool, codeVersion string) Fingerprint {
	return Fingerprint{
		KnowledgeBase: kb,
		Input:         input,
		EvidenceMass:  evidenceMass,
		StrictRanges:  strict,
		CodeVersion:   codeVersion,
		Fingerprint:   computeFingerprint(kb, input, evidenceMass, strict, codeVersion),
	}
}

func computeFingerprint(kb, input core.Hash, evidenceMass float64, strict bool, codeVersion string) core.Hash {
	data := fmt.Sprintf("kb:%s|input:%s|mass:%s|strict:%t|code:%s",
		kb, input, strconv.FormatFloat(evidenceMass, 'g', -1, 64), strict, codeVersion)

	hash := sha256.Sum256([]byte(data))
	return core.Hash(fmt.Sprintf("%x", hash))
}

// Validate checks if the fingerprint is complete and untampered.
func (f Fingerprint) Validate() error {
	if f.KnowledgeBase.IsEmpty() {
		return fmt.Errorf("fingerprint: knowledge base hash cannot be empty")
	}
	if f.Input.IsEmpty() {
		return fmt.Errorf("fingerprint: input hash cannot be empty")
	}
	if f.CodeVersion == "" {
		return fmt.Errorf("fingerprint: code version cannot be empty")
	}
	want := computeFingerprint(f.KnowledgeBase, f.Input, f.EvidenceMass, f.StrictRanges, f.CodeVersion)
	if f.Fingerprint != want {
		return fmt.Errorf("fingerprint: %s does not match its parameters", f.Fingerprint.Short())
	}
	return nil
}
