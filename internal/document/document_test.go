package document

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/upsti/upstilatex/internal/files/filesystem"
	"github.com/upsti/upstilatex/internal/metadata"
	"github.com/upsti/upstilatex/pkg/upstilatex"
)

const v2Content = `%### BEGIN metadonnees_yaml ###
% titre: Liaisons
% classe: PTSI
%### END metadonnees_yaml ###
\documentclass{article}
\begin{document}
\end{document}
`

const v1Content = `\documentclass{article}
\usepackage{UPSTI_Document}
\newcommand{\UPSTIidTypeDocument}{1}
\newcommand{\UPSTImetaTitre}{Engrenages}
\begin{document}
\end{document}
`

const legacyContent = `\documentclass{article}
\newcommand{\EPBIdTypeDocument}{1}
\begin{document}
\end{document}
`

func newTestDocument(t *testing.T, path, content string) (*Document, *filesystem.MemoryFileSystem) {
	t.Helper()
	schema, catalogs, err := metadata.LoadDefault()
	if err != nil {
		t.Fatalf("LoadDefault failed: %v", err)
	}

	mfs := filesystem.NewMemoryFileSystem("/docs")
	if content != "" {
		mfs.AddFile(path, content)
	}

	opts := metadata.Options{
		Defaults: map[string]any{
			"matiere": "S2I",
			"classe":  "PT",
		},
		IDPrefix:    "EB",
		IDSeparator: ":",
		Now:         func() time.Time { return time.Unix(1000, 0) },
	}
	return New(mfs, "/docs/"+path, schema, catalogs, opts), mfs
}

// TestVersion_Detection tests classification of the three known formats.
func TestVersion_Detection(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    upstilatex.Version
	}{
		{"v2 front matter", v2Content, upstilatex.VersionV2FrontMatter},
		{"v1 macros", v1Content, upstilatex.VersionV1Macro},
		{"legacy EPB", legacyContent, upstilatex.VersionLegacy},
		{"plain latex", "\\documentclass{article}\n", upstilatex.VersionUnrecognized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, _ := newTestDocument(t, "doc.tex", tt.content)
			version, _, err := doc.Version()
			if err != nil {
				t.Fatalf("Version failed: %v", err)
			}
			if version != tt.want {
				t.Errorf("Expected %q, got %q", tt.want, version)
			}
		})
	}
}

// TestVersion_CommentedSignaturesIgnored tests that commented macro lines do
// not trigger classification.
func TestVersion_CommentedSignaturesIgnored(t *testing.T) {
	content := "% \\newcommand{\\UPSTIidTypeDocument}{1}\n\\documentclass{article}\n"
	doc, _ := newTestDocument(t, "doc.tex", content)

	version, diags, err := doc.Version()
	if err != nil {
		t.Fatalf("Version failed: %v", err)
	}
	if version != upstilatex.VersionUnrecognized {
		t.Errorf("Expected unrecognized, got %q", version)
	}
	if diags.Count(upstilatex.SeverityWarning) == 0 {
		t.Error("Expected a warning for the unrecognized format")
	}
}

// TestFile_ReadErrors tests the extension gate, missing files and binary
// detection.
func TestFile_ReadErrors(t *testing.T) {
	t.Run("wrong extension", func(t *testing.T) {
		doc, _ := newTestDocument(t, "notes.txt", "du texte")
		_, _, err := doc.Version()
		if !errors.Is(err, upstilatex.ErrDocumentUnreadable) {
			t.Errorf("Expected ErrDocumentUnreadable, got %v", err)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		doc, _ := newTestDocument(t, "ghost.tex", "")
		_, _, err := doc.Version()
		if !errors.Is(err, upstilatex.ErrDocumentNotFound) {
			t.Errorf("Expected ErrDocumentNotFound, got %v", err)
		}
	})

	t.Run("binary file", func(t *testing.T) {
		doc, _ := newTestDocument(t, "doc.tex", "PK\x03\x04\x00\x00fake zip")
		_, _, err := doc.Version()
		if !errors.Is(err, upstilatex.ErrDocumentUnreadable) {
			t.Errorf("Expected ErrDocumentUnreadable, got %v", err)
		}
	})
}

// TestFile_Latin1Fallback tests decoding of non-UTF-8 content.
func TestFile_Latin1Fallback(t *testing.T) {
	// "Mécanique" encoded in Latin-1: é is a lone 0xE9 byte.
	content := "% M\xe9canique\n" + v2Content
	doc, _ := newTestDocument(t, "doc.tex", content)

	text, diags, err := doc.File().Read()
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if !strings.Contains(text, "Mécanique") {
		t.Error("Expected Latin-1 bytes decoded to é")
	}
	if diags.Count(upstilatex.SeverityWarning) != 1 {
		t.Errorf("Expected one encoding warning, got: %v", diags)
	}
}

// TestMetadata_V2 tests end-to-end extraction and normalization of a v2
// document.
func TestMetadata_V2(t *testing.T) {
	doc, _ := newTestDocument(t, "doc.tex", v2Content)

	records, diags, err := doc.Metadata()
	if err != nil {
		t.Fatalf("Metadata failed: %v", err)
	}
	if diags.HasFatal() {
		t.Fatalf("Unexpected fatal diagnostics: %v", diags)
	}

	if records["titre"].Value != "Liaisons" {
		t.Errorf("Expected titre Liaisons, got %v", records["titre"].Value)
	}
	if records["filiere"].Value != "PT" {
		t.Errorf("Expected filiere deduced from PTSI, got %v", records["filiere"].Value)
	}
	if records["filiere"].Provenance != upstilatex.ProvenanceDeducted {
		t.Errorf("Expected deducted filiere, got %s", records["filiere"].Provenance)
	}
}

// TestMetadata_V1 tests extraction through the macro strategy, including the
// upgrade advisory.
func TestMetadata_V1(t *testing.T) {
	doc, _ := newTestDocument(t, "doc.tex", v1Content)

	records, diags, err := doc.Metadata()
	if err != nil {
		t.Fatalf("Metadata failed: %v", err)
	}

	if records["titre"].Value != "Engrenages" {
		t.Errorf("Expected titre from macro, got %v", records["titre"].Value)
	}
	if records["type_document"].Value != "cours" {
		t.Errorf("Expected id 1 resolved to cours, got %v", records["type_document"].Value)
	}
	if diags.Count(upstilatex.SeverityWarning) == 0 {
		t.Error("Expected the upgrade advisory warning")
	}
}

// TestMetadata_Legacy tests that EPB documents fail with a fatal diagnostic.
func TestMetadata_Legacy(t *testing.T) {
	doc, _ := newTestDocument(t, "doc.tex", legacyContent)

	_, diags, err := doc.Metadata()
	if !errors.Is(err, upstilatex.ErrUnsupportedVersion) {
		t.Errorf("Expected ErrUnsupportedVersion, got %v", err)
	}
	if !diags.HasFatal() {
		t.Errorf("Expected a fatal diagnostic, got: %v", diags)
	}
}

// TestSetMeta_V2 tests front-matter upsert and cache invalidation.
func TestSetMeta_V2(t *testing.T) {
	doc, _ := newTestDocument(t, "doc.tex", v2Content)

	if _, _, err := doc.Metadata(); err != nil {
		t.Fatalf("Metadata failed: %v", err)
	}

	if err := doc.SetMeta("titre", "Nouveau titre"); err != nil {
		t.Fatalf("SetMeta failed: %v", err)
	}

	records, _, err := doc.Metadata()
	if err != nil {
		t.Fatalf("Metadata after edit failed: %v", err)
	}
	if records["titre"].Value != "Nouveau titre" {
		t.Errorf("Expected edited titre, got %v", records["titre"].Value)
	}
	if records["classe"].Value != "PTSI" {
		t.Errorf("Expected untouched classe, got %v", records["classe"].Value)
	}
}

// TestSetMeta_UnknownField tests rejection of fields absent from the schema.
func TestSetMeta_UnknownField(t *testing.T) {
	doc, _ := newTestDocument(t, "doc.tex", v2Content)

	if err := doc.SetMeta("couleur_prefere", "bleu"); err == nil {
		t.Error("Expected an error for an unknown field")
	}
}

// TestDeleteMeta_V2 tests deletion and the missing-key error.
func TestDeleteMeta_V2(t *testing.T) {
	doc, _ := newTestDocument(t, "doc.tex", v2Content)

	if err := doc.DeleteMeta("classe"); err != nil {
		t.Fatalf("DeleteMeta failed: %v", err)
	}

	records, _, err := doc.Metadata()
	if err != nil {
		t.Fatalf("Metadata failed: %v", err)
	}
	if records["classe"].Provenance.Base() != upstilatex.ProvenanceDefault {
		t.Errorf("Expected classe back to default, got %s", records["classe"].Provenance)
	}

	if err := doc.DeleteMeta("bareme"); err == nil {
		t.Error("Expected an error deleting an undeclared field")
	}
}

// TestSetMeta_V1 tests macro replacement and insertion.
func TestSetMeta_V1(t *testing.T) {
	doc, mfs := newTestDocument(t, "doc.tex", v1Content)

	if err := doc.SetMeta("titre", "Transmission"); err != nil {
		t.Fatalf("SetMeta replace failed: %v", err)
	}
	if err := doc.SetMeta("classe", "PTSI"); err != nil {
		t.Fatalf("SetMeta insert failed: %v", err)
	}

	content, _ := mfs.ReadFile("/docs/doc.tex")
	text := string(content)
	if !strings.Contains(text, `\newcommand{\UPSTImetaTitre}{Transmission}`) {
		t.Errorf("Expected replaced declaration, got:\n%s", text)
	}
	if strings.Contains(text, "Engrenages") {
		t.Error("Old declaration value still present")
	}
	if !strings.Contains(text, `\newcommand{\UPSTImetaClasse}{PTSI}`) {
		t.Errorf("Expected inserted declaration, got:\n%s", text)
	}

	// The new declaration goes right after the package line.
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if strings.Contains(line, `\usepackage{UPSTI_Document}`) {
			if !strings.Contains(lines[i+1], `UPSTImetaClasse`) {
				t.Errorf("Expected insertion after the package line, got %q", lines[i+1])
			}
		}
	}
}

// TestDeleteMeta_V1 tests macro removal.
func TestDeleteMeta_V1(t *testing.T) {
	doc, mfs := newTestDocument(t, "doc.tex", v1Content)

	if err := doc.DeleteMeta("titre"); err != nil {
		t.Fatalf("DeleteMeta failed: %v", err)
	}

	content, _ := mfs.ReadFile("/docs/doc.tex")
	if strings.Contains(string(content), "UPSTImetaTitre") {
		t.Error("Expected the declaration to be removed")
	}

	if err := doc.DeleteMeta("titre"); err == nil {
		t.Error("Expected an error deleting a missing declaration")
	}
}

// TestUpgrade tests conversion of a v1 document to the front-matter format.
func TestUpgrade(t *testing.T) {
	doc, mfs := newTestDocument(t, "doc.tex", v1Content)

	if err := doc.Upgrade(); err != nil {
		t.Fatalf("Upgrade failed: %v", err)
	}

	content, _ := mfs.ReadFile("/docs/doc.tex")
	text := string(content)
	if !strings.Contains(text, "%### BEGIN metadonnees_yaml ###") {
		t.Errorf("Expected a front-matter block, got:\n%s", text)
	}
	if strings.Contains(text, `\newcommand{\UPSTImetaTitre}`) {
		t.Error("Expected old macro declarations to be stripped")
	}

	version, _, err := doc.Version()
	if err != nil {
		t.Fatalf("Version after upgrade failed: %v", err)
	}
	if version != upstilatex.VersionV2FrontMatter {
		t.Errorf("Expected v2 after upgrade, got %q", version)
	}

	records, _, err := doc.Metadata()
	if err != nil {
		t.Fatalf("Metadata after upgrade failed: %v", err)
	}
	if records["titre"].Value != "Engrenages" {
		t.Errorf("Expected titre preserved through upgrade, got %v", records["titre"].Value)
	}

	if err := doc.Upgrade(); err == nil {
		t.Error("Expected an error upgrading an already-current document")
	}
}
