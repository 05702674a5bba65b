package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/upsti/upstilatex/internal/ui"
)

func findCommand(t *testing.T, name string) bool {
	t.Helper()
	for _, cmd := range rootCmd.Commands() {
		if cmd.Name() == name {
			return true
		}
	}
	return false
}

func TestRootCommand_RegistersAllSubcommands(t *testing.T) {
	for _, name := range []string{"version", "infos", "list-files", "meta", "index", "compile", "watch", "upgrade"} {
		if !findCommand(t, name) {
			t.Errorf("Expected subcommand %q to be registered", name)
		}
	}
}

func TestRootCommand_PersistentFlags(t *testing.T) {
	for _, flag := range []string{"verbose", "no-color"} {
		if rootCmd.PersistentFlags().Lookup(flag) == nil {
			t.Errorf("Expected persistent flag --%s", flag)
		}
	}
}

func TestRootCommand_SilencesUsage(t *testing.T) {
	if !rootCmd.SilenceUsage {
		t.Error("Expected SilenceUsage to be set; usage spam on runtime errors is unhelpful")
	}
}

func TestRootCommand_LongDocumentsExitCodes(t *testing.T) {
	for _, want := range []string{"Exit Codes", "0  -", "12 -"} {
		if !strings.Contains(rootCmd.Long, want) {
			t.Errorf("Expected root Long to contain %q", want)
		}
	}
}

func TestMetaCommand_HasSetAndDelete(t *testing.T) {
	names := make(map[string]bool)
	for _, cmd := range metaCmd.Commands() {
		names[cmd.Name()] = true
	}
	if !names["set"] || !names["delete"] {
		t.Errorf("Expected meta set and meta delete, got %v", names)
	}
}

func TestSelectApprover(t *testing.T) {
	styles := ui.NewStyles(false)

	if _, ok := selectApprover(true, true, styles).(*ui.ForcedApprover); !ok {
		t.Error("Expected --yes to select the forced approver")
	}
	if _, ok := selectApprover(false, true, styles).(*ui.ConfirmApprover); !ok {
		t.Error("Expected a terminal to select the confirm prompt")
	}
	if _, ok := selectApprover(false, false, styles).(*ui.InteractiveApprover); !ok {
		t.Error("Expected piped input to select the plain reader")
	}
}

const testFrontMatterDoc = `%### BEGIN metadonnees_yaml ###
% titre: Engrenages
% classe: PTSI
%### END metadonnees_yaml ###
\documentclass{article}
\begin{document}
\end{document}
`

func writeTestDoc(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "doc.tex")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func runCLI(t *testing.T, args ...string) error {
	t.Helper()
	rootCmd.SetArgs(args)
	defer rootCmd.SetArgs(nil)
	return rootCmd.Execute()
}

func TestMetaSetAndDelete_FrontMatterRoundTrip(t *testing.T) {
	path := writeTestDoc(t, testFrontMatterDoc)

	if err := runCLI(t, "meta", "set", path, "sous_titre", "Trains epicycloidaux"); err != nil {
		t.Fatalf("meta set: %v", err)
	}
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(content), "sous_titre: Trains epicycloidaux") {
		t.Errorf("Expected new field in front matter, got:\n%s", content)
	}

	if err := runCLI(t, "meta", "delete", path, "sous_titre"); err != nil {
		t.Fatalf("meta delete: %v", err)
	}
	content, err = os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(content), "sous_titre") {
		t.Errorf("Expected field removed, got:\n%s", content)
	}
}

func TestMetaSet_ParsesTypedValues(t *testing.T) {
	path := writeTestDoc(t, testFrontMatterDoc)

	if err := runCLI(t, "meta", "set", path, "a_trous", "true"); err != nil {
		t.Fatalf("meta set: %v", err)
	}
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(content), "a_trous: true") {
		t.Errorf("Expected boolean value in front matter, got:\n%s", content)
	}
}

func TestUpgrade_MacroDocument(t *testing.T) {
	path := writeTestDoc(t, `\documentclass{article}
\usepackage{UPSTI_Document}
\newcommand{\UPSTImetaTitre}{Statique}
\newcommand{\UPSTIidTypeDocument}{2}
\begin{document}
\end{document}
`)

	if err := runCLI(t, "upgrade", path); err != nil {
		t.Fatalf("upgrade: %v", err)
	}
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	text := string(content)
	if !strings.Contains(text, "BEGIN metadonnees_yaml") {
		t.Errorf("Expected front-matter block after upgrade, got:\n%s", text)
	}
	if strings.Contains(text, `\newcommand{\UPSTImetaTitre}`) {
		t.Errorf("Expected macro declarations removed, got:\n%s", text)
	}
}
