// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package output

import (
	"encoding/hex"
	"errors"
	"sync"

	"github.com/zeebo/blake3"

	"github.com/bureau-foundation/parkir/lib/codec"
	"github.com/bureau-foundation/parkir/lib/ticket"
)

// artifactDomainKey keys the artifact hash. The bytes are the ASCII
// domain name, zero-padded to 32.
var artifactDomainKey = [32]byte{
	'p', 'a', 'r', 'k', 'i', 'r', '.', 't', 'i', 'c', 'k', 'e', 't', '.',
	'a', 'r', 't', 'i', 'f', 'a', 'c', 't',
}

// Artifact is a ticket prepared for the output stages. The PDF form is
// produced on first use, so stages that do not need it (ESC/POS, text)
// are unaffected when it cannot be produced.
type Artifact struct {
	Document *ticket.Document
	ID       string

	materialize func(*ticket.Document) ([]byte, error)
	once        sync.Once
	pdf         []byte
	pdfErr      error
}

// NewArtifact prepares doc for output. materialize produces the PDF
// bytes when a stage asks for them.
func NewArtifact(doc *ticket.Document, materialize func(*ticket.Document) ([]byte, error)) (*Artifact, error) {
	if doc == nil {
		return nil, errors.New("document is missing")
	}
	encoded, err := codec.Marshal(doc)
	if err != nil {
		return nil, err
	}
	return &Artifact{Document: doc, ID: ArtifactID(encoded), materialize: materialize}, nil
}

// PDF returns the PDF form of the ticket, rendering it on the first
// call. Later calls return the same bytes or the same error.
func (a *Artifact) PDF() ([]byte, error) {
	a.once.Do(func() {
		if a.materialize == nil {
			a.pdfErr = errors.New("no PDF renderer configured")
			return
		}
		a.pdf, a.pdfErr = a.materialize(a.Document)
	})
	return a.pdf, a.pdfErr
}

// ShortID is the first 12 hex digits of the ID, used in file names.
func (a *Artifact) ShortID() string {
	if len(a.ID) <= 12 {
		return a.ID
	}
	return a.ID[:12]
}

// ArtifactID hashes the encoded document into a hex artifact ID.
func ArtifactID(data []byte) string {
	hasher, err := blake3.NewKeyed(artifactDomainKey[:])
	if err != nil {
		panic("output: BLAKE3 keyed hash initialization failed: " + err.Error())
	}
	hasher.Write(data)
	return hex.EncodeToString(hasher.Sum(nil))
}
