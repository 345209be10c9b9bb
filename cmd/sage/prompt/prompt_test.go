package promptcmder

import (
	"bytes"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/sage/pkg/persona"
)

var _ = Describe("Prompt Command", func() {
	var (
		tmpDir string
		out    bytes.Buffer
	)

	BeforeEach(func() {
		tmpDir = GinkgoT().TempDir()
		out.Reset()
	})

	run := func(args ...string) error {
		cmd := NewPromptCmd()
		cmd.SetOut(&out)
		cmd.SetArgs(args)
		return cmd.Execute()
	}

	It("prints the default persona prompt", func() {
		Expect(run("I feel anxious today")).To(Succeed())
		Expect(out.String()).To(Equal(persona.Supportive + "\nUser: I feel anxious today\nSage:\n"))
	})

	It("includes windowed history from a file", func() {
		historyPath := filepath.Join(tmpDir, "history.json")
		Expect(os.WriteFile(historyPath, []byte(`[
			{"role": "user", "content": "hi"},
			{"role": "assistant", "content": "hello love"},
			{"role": "system", "content": "hidden"}
		]`), 0o600)).To(Succeed())

		Expect(run("--relationship", "--history", historyPath, "miss you")).To(Succeed())
		Expect(out.String()).To(Equal(persona.Romantic + "\nUser: hi\nSage: hello love\nUser: miss you\nSage:\n"))
	})

	It("applies the configured history window and persona", func() {
		configPath := filepath.Join(tmpDir, "sage.toml")
		Expect(os.WriteFile(configPath, []byte("[policy]\nhistory_window = 1\n[persona]\nsupportive = \"Be kind.\"\n"), 0o600)).To(Succeed())

		historyPath := filepath.Join(tmpDir, "history.json")
		Expect(os.WriteFile(historyPath, []byte(`[{"role":"user","content":"old"},{"role":"assistant","content":"new"}]`), 0o600)).To(Succeed())

		Expect(run("--config", configPath, "--history", historyPath, "now")).To(Succeed())
		Expect(out.String()).To(Equal("Be kind.\nSage: new\nUser: now\nSage:\n"))
	})

	It("uses a system override", func() {
		Expect(run("--system", "", "hi")).To(Succeed())
		Expect(out.String()).To(Equal("\nUser: hi\nSage:\n"))
	})

	It("fails on an unreadable history file", func() {
		Expect(run("--history", filepath.Join(tmpDir, "missing.json"), "hi")).To(HaveOccurred())
	})
})
