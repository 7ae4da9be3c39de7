package main

import (
	"bytes"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/arithjit/jit"
)

var _ = Describe("arithjit", func() {
	var (
		dir            string
		stdout, stderr *bytes.Buffer
		cleanups       []func()
	)

	script := func(name, content string) string {
		path := filepath.Join(dir, name)
		Expect(os.WriteFile(path, []byte(content), 0o644)).To(Succeed())

		return path
	}

	runArgs := func(args ...string) int {
		return run(args, stdout, stderr, func(f func()) {
			cleanups = append(cleanups, f)
		})
	}

	requireNative := func() {
		if _, err := jit.InitNativeTarget(); err != nil {
			Skip("no native code generator for this host: " + err.Error())
		}
	}

	BeforeEach(func() {
		dir = GinkgoT().TempDir()
		stdout = new(bytes.Buffer)
		stderr = new(bytes.Buffer)
		cleanups = nil
	})

	AfterEach(func() {
		for _, f := range cleanups {
			f()
		}
	})

	It("should print one result per instruction", func() {
		requireNative()

		code := runArgs(script("code.txt", "add 2, 3\nmul 4, 5\nxor 6, 3\n"))

		Expect(code).To(Equal(0))
		Expect(stdout.String()).To(Equal("5\n20\n5\n"))
	})

	It("should reject a malformed line before running anything", func() {
		code := runArgs(script("bad.txt", "add 1, 2\nfoo bar\n"))

		Expect(code).To(Equal(1))
		Expect(stdout.String()).To(BeEmpty())
		Expect(stderr.String()).To(ContainSubstring("FormatError"))
		Expect(stderr.String()).To(ContainSubstring(`"foo bar"`))
	})

	It("should keep earlier results when an opcode is unknown", func() {
		requireNative()

		code := runArgs(script("div.txt", "add 1, 2\ndiv 3, 4\n"))

		Expect(code).To(Equal(1))
		Expect(stdout.String()).To(Equal("3\n"))
		Expect(stderr.String()).To(ContainSubstring(`UnknownOpcodeError: line 2: unknown opcode "div"`))
	})

	It("should report a missing script", func() {
		code := runArgs(filepath.Join(dir, "missing.txt"))

		Expect(code).To(Equal(1))
		Expect(stderr.String()).To(ContainSubstring("IOError"))
	})

	It("should apply strict whitespace from the flag", func() {
		path := script("ws.txt", " add 1, 2\n")

		Expect(runArgs("-strict", path)).To(Equal(1))
		Expect(stderr.String()).To(ContainSubstring("leading or trailing whitespace"))
	})

	It("should read settings from a config file", func() {
		requireNative()

		path := script("ops.txt", "sub 10, 4\nsub 1, 1\n")
		cfg := script("run.yaml", "script: "+path+"\nstats: true\n")

		code := runArgs("-config", cfg)

		Expect(code).To(Equal(0))
		Expect(stdout.String()).To(Equal("6\n0\n"))
		Expect(stderr.String()).To(ContainSubstring("instructions executed: 2"))
		Expect(stderr.String()).To(ContainSubstring("Native Code"))
		Expect(stderr.String()).To(ContainSubstring("xor"))
	})

	It("should let flags override the config file", func() {
		requireNative()

		path := script("ws.txt", " add 1, 2\n")
		cfg := script("run.toml", "strict_whitespace = true\n")

		Expect(runArgs("-config", cfg, "-strict=false", path)).To(Equal(0))
		Expect(stdout.String()).To(Equal("3\n"))
	})

	It("should reject an invalid config file", func() {
		cfg := script("run.toml", "log_level = \"loud\"\n")

		Expect(runArgs("-config", cfg)).To(Equal(1))
		Expect(stderr.String()).To(ContainSubstring("unknown log level"))
	})

	It("should write the IR to a file", func() {
		requireNative()

		irPath := filepath.Join(dir, "module.ll")

		code := runArgs("-emit-ir", irPath, script("code.txt", "xor 1, 1\n"))
		Expect(code).To(Equal(0))

		for _, f := range cleanups {
			f()
		}
		cleanups = nil

		data, err := os.ReadFile(irPath)
		Expect(err).NotTo(HaveOccurred())
		Expect(string(data)).To(ContainSubstring("@mul(i64 %a, i64 %b)"))
	})

	It("should verify native results", func() {
		requireNative()

		code := runArgs("-verify", script("code.txt", "mul 9223372036854775807, 2\nadd 1, 2\n"))

		Expect(code).To(Equal(0))
		Expect(stdout.String()).To(Equal("-2\n3\n"))
	})

	It("should reject unknown flags", func() {
		Expect(runArgs("-fast")).To(Equal(1))
	})

	It("should accept at most one script", func() {
		Expect(runArgs("a.txt", "b.txt")).To(Equal(1))
		Expect(stderr.String()).To(ContainSubstring("expected at most one script"))
	})

	It("should produce identical output across runs", func() {
		requireNative()

		path := script("code.txt", "add -7, 3\nmul -3, -3\nsub 0, 9223372036854775807\nxor 255, 15\n")

		Expect(runArgs(path)).To(Equal(0))
		first := stdout.String()

		stdout.Reset()
		Expect(runArgs(path)).To(Equal(0))

		Expect(stdout.String()).To(Equal(first))
		Expect(first).To(Equal("-4\n9\n-9223372036854775807\n240\n"))
	})
})
