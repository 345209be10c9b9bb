package servecmder

import (
	"context"
	"os"
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"

	"github.com/papercomputeco/sage/pkg/config"
)

var _ = Describe("Serve Command", func() {
	var tmpDir string

	BeforeEach(func() {
		tmpDir = GinkgoT().TempDir()
	})

	It("overrides file values with flags that were set", func() {
		configPath := filepath.Join(tmpDir, "sage.toml")
		Expect(os.WriteFile(configPath, []byte("listen = \":7000\"\n[engine]\nmodel = \"mistral\"\n"), 0o600)).To(Succeed())

		cmder := &serveCommander{}
		cmd := newServeCmd(cmder)
		Expect(cmd.ParseFlags([]string{"--config", configPath, "--model", "llama3", "--stream-delay", "10ms"})).To(Succeed())

		cfg, err := cmder.loadConfig(cmd)
		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.Listen).To(Equal(":7000"))
		Expect(cfg.Engine.Model).To(Equal("llama3"))
		Expect(cfg.Stream.Delay).To(Equal(10 * time.Millisecond))
	})

	It("leaves file values alone when no flags are set", func() {
		cmder := &serveCommander{}
		cmd := newServeCmd(cmder)
		Expect(cmd.ParseFlags(nil)).To(Succeed())

		cfg, err := cmder.loadConfig(cmd)
		Expect(err).NotTo(HaveOccurred())
		Expect(cfg).To(Equal(config.Default()))
	})

	It("rejects an unknown engine before starting", func() {
		cmd := NewServeCmd()
		cmd.SetArgs([]string{"--engine", "hal9000"})
		Expect(cmd.Execute()).To(MatchError(ContainSubstring("hal9000")))
	})

	It("builds a server from the default configuration", func() {
		srv, err := newServer(context.Background(), config.Default(), zap.NewNop())
		Expect(err).NotTo(HaveOccurred())
		Expect(srv).NotTo(BeNil())
	})
})
