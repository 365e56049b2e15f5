package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"precheck/internal/analysis"
	"precheck/internal/testsupport"
)

type cliTestEnv struct {
	baseDir    string
	configPath string
	workDir    string
	logDir     string
	binDir     string
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	homeDir := filepath.Join(base, "home")
	if err := os.MkdirAll(homeDir, 0o755); err != nil {
		t.Fatalf("mkdir home: %v", err)
	}
	t.Setenv("HOME", homeDir)

	env := &cliTestEnv{
		baseDir:    base,
		configPath: filepath.Join(base, "config.toml"),
		workDir:    filepath.Join(base, "work"),
		logDir:     filepath.Join(base, "logs"),
		binDir:     filepath.Join(base, "bin"),
	}

	writeTestConfig(t, env)
	testsupport.InstallStubBinaries(t, env.binDir, "ffmpeg")
	writeWhisperStub(t, env.binDir, "hello everyone welcome back to the channel")

	return env
}

func writeTestConfig(t *testing.T, env *cliTestEnv) {
	t.Helper()
	content := fmt.Sprintf(`[paths]
work_dir = %q
log_dir = %q

[analysis]
no_reference_policy = "fixed"
no_reference_score = 30
`, env.workDir, env.logDir)
	testsupport.WriteFile(t, env.configPath, []byte(content))
}

// writeWhisperStub installs a whisper stand-in that ignores its audio input
// and writes the given transcript as whisper-shaped JSON into --output_dir.
func writeWhisperStub(t *testing.T, dir, transcript string) {
	t.Helper()
	encoded, err := json.Marshal(map[string]string{"text": transcript})
	if err != nil {
		t.Fatalf("encode transcript: %v", err)
	}
	script := fmt.Sprintf(`#!/bin/sh
out=""
while [ $# -gt 0 ]; do
    if [ "$1" = "--output_dir" ]; then
        out="$2"
        shift
    fi
    shift
done
printf '%%s' '%s' > "$out/audio.json"
`, string(encoded))
	testsupport.StubBinary(t, dir, "whisper", script)
}

func writeTestVideo(t *testing.T, env *cliTestEnv, name string) string {
	t.Helper()
	path := filepath.Join(env.baseDir, name)
	testsupport.WriteFile(t, path, []byte("not a real container"))
	return path
}

func runCLI(t *testing.T, configPath string, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	if configPath != "" {
		args = append([]string{"--config", configPath}, args...)
	}
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}

func TestCLIAnalyzeCleanTranscript(t *testing.T) {
	env := setupCLITestEnv(t)
	video := writeTestVideo(t, env, "talk.mp4")

	out, _, err := runCLI(t, env.configPath, "analyze", video)
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	requireContains(t, out, "Similarity score")
	requireContains(t, out, "30%")
	requireContains(t, out, "LOW")
	requireContains(t, out, "No sensitive language detected.")
	requireContains(t, out, "hello everyone welcome back to the channel")
}

func TestCLIAnalyzeJSONOutput(t *testing.T) {
	env := setupCLITestEnv(t)
	writeWhisperStub(t, env.binDir, "and then I will kill you")
	video := writeTestVideo(t, env, "clip.mkv")

	out, _, err := runCLI(t, env.configPath, "analyze", video, "--json")
	if err != nil {
		t.Fatalf("analyze --json: %v", err)
	}

	var result analysis.Result
	if err := json.Unmarshal([]byte(out), &result); err != nil {
		t.Fatalf("decode result: %v\noutput: %s", err, out)
	}
	if result.RiskLevel != "high" {
		t.Fatalf("expected high risk, got %q", result.RiskLevel)
	}
	if len(result.SensitiveHits) == 0 || result.SensitiveHits[0] != "kill" {
		t.Fatalf("expected kill hit, got %v", result.SensitiveHits)
	}
	if result.SimilarityScore != 30 {
		t.Fatalf("expected fixed policy score 30, got %d", result.SimilarityScore)
	}
}

func TestCLIAnalyzeWithReference(t *testing.T) {
	env := setupCLITestEnv(t)
	video := writeTestVideo(t, env, "lecture.mp4")

	refPath := filepath.Join(env.baseDir, "script.txt")
	testsupport.WriteFile(t, refPath, []byte("hello everyone welcome back to the channel"))

	out, _, err := runCLI(t, env.configPath, "analyze", video, "--reference", refPath)
	if err != nil {
		t.Fatalf("analyze with reference: %v", err)
	}
	requireContains(t, out, "100%")
	requireContains(t, out, "HIGH")
	requireContains(t, out, "closely matches a reference")
}

func TestCLIAnalyzeCleansWorkDir(t *testing.T) {
	env := setupCLITestEnv(t)
	video := writeTestVideo(t, env, "short.mp4")

	if _, _, err := runCLI(t, env.configPath, "analyze", video); err != nil {
		t.Fatalf("analyze: %v", err)
	}

	entries, err := os.ReadDir(env.workDir)
	if err != nil {
		t.Fatalf("read work dir: %v", err)
	}
	for _, entry := range entries {
		if entry.Name() == "precheck.lock" {
			continue
		}
		t.Fatalf("unexpected leftover in work dir: %s", entry.Name())
	}
}

func TestCLIAnalyzeMissingVideo(t *testing.T) {
	env := setupCLITestEnv(t)

	_, _, err := runCLI(t, env.configPath, "analyze", filepath.Join(env.baseDir, "nope.mp4"))
	if err == nil {
		t.Fatal("expected error for missing video file")
	}
	if !strings.Contains(err.Error(), "open video") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestCLIAnalyzeRejectsUnknownModel(t *testing.T) {
	env := setupCLITestEnv(t)
	video := writeTestVideo(t, env, "talk.mp4")

	_, _, err := runCLI(t, env.configPath, "analyze", video, "--model", "enormous")
	if err == nil {
		t.Fatal("expected error for unknown model size")
	}
	if !strings.Contains(err.Error(), "unknown model size") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestCLIDepsCommand(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, env.configPath, "deps")
	if err != nil {
		t.Fatalf("deps: %v", err)
	}
	requireContains(t, out, "ffmpeg")
	requireContains(t, out, "whisper")
	requireContains(t, out, "ok")
}

func TestCLIDepsReportsMissingTool(t *testing.T) {
	env := setupCLITestEnv(t)
	content := fmt.Sprintf(`[paths]
work_dir = %q
log_dir = %q

[tools]
whisper_binary = "definitely-not-installed"
`, env.workDir, env.logDir)
	testsupport.WriteFile(t, env.configPath, []byte(content))

	out, _, err := runCLI(t, env.configPath, "deps")
	if err == nil {
		t.Fatal("expected error when a tool is missing")
	}
	requireContains(t, out, "definitely-not-installed")
}

func TestCLIConfigInitAndValidate(t *testing.T) {
	env := setupCLITestEnv(t)

	target := filepath.Join(env.baseDir, "generated", "config.toml")
	out, _, err := runCLI(t, "", "config", "init", "--path", target)
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, out, "Wrote sample configuration")
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected config file at %s: %v", target, err)
	}

	if _, _, err := runCLI(t, "", "config", "init", "--path", target); err == nil {
		t.Fatal("expected error without --overwrite")
	}
	if _, _, err := runCLI(t, "", "config", "init", "--path", target, "--overwrite"); err != nil {
		t.Fatalf("config init --overwrite: %v", err)
	}

	out, _, err = runCLI(t, env.configPath, "config", "validate")
	if err != nil {
		t.Fatalf("config validate: %v", err)
	}
	requireContains(t, out, "is valid")
	requireContains(t, out, env.workDir)
}
