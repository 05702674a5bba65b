package registry

import (
	"strings"

	"github.com/google/uuid"
)

// NamespaceDocumentIdentity is the fixed UUID namespace for document
// identities, derived from "upstilatex/document-identity/v1" under the URL
// namespace. A fixed namespace keeps identities stable across machines and
// disjoint from other systems.
var NamespaceDocumentIdentity uuid.UUID

func init() {
	NamespaceDocumentIdentity = uuid.NewSHA1(uuid.NameSpaceURL, []byte("upstilatex/document-identity/v1"))
}

// DocumentID derives the deterministic UUID v5 identity for a document from
// its normalized content checksum. Moving or reformatting a document does
// not change its identity; editing its content does.
func DocumentID(checksum string) uuid.UUID {
	return uuid.NewSHA1(NamespaceDocumentIdentity, []byte(strings.ToLower(checksum)))
}
