// SPDX-License-Identifier: MPL-2.0

package p2

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/wso2/carbon-p2/pkg/types"
)

type (
	// mockCommandRecorder captures the launcher command lines and replaces
	// the process with TestHelperProcess.
	mockCommandRecorder struct {
		mu          sync.Mutex
		invocations []mockInvocation
		exitCode    int
		stdout      string
		sleep       time.Duration
		printCwd    bool
	}

	mockInvocation struct {
		Name string
		Args []string
	}
)

func (m *mockCommandRecorder) commandFunc(t *testing.T) ExecCommandFunc {
	t.Helper()
	return func(ctx context.Context, name string, args ...string) *exec.Cmd {
		m.mu.Lock()
		m.invocations = append(m.invocations, mockInvocation{Name: name, Args: args})
		m.mu.Unlock()

		cs := []string{"-test.run=TestHelperProcess", "--", name}
		cs = append(cs, args...)
		//nolint:gosec // TestHelperProcess is a test-only pattern
		cmd := exec.CommandContext(ctx, os.Args[0], cs...)
		cmd.Env = []string{
			"GO_WANT_HELPER_PROCESS=1",
			fmt.Sprintf("GO_HELPER_EXIT_CODE=%d", m.exitCode),
			fmt.Sprintf("GO_HELPER_STDOUT=%s", m.stdout),
			fmt.Sprintf("GO_HELPER_SLEEP=%s", m.sleep),
		}
		if m.printCwd {
			cmd.Env = append(cmd.Env, "GO_HELPER_PRINT_CWD=1")
		}
		return cmd
	}
}

func (m *mockCommandRecorder) last(t *testing.T) mockInvocation {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.invocations) == 0 {
		t.Fatal("no commands were invoked")
	}
	return m.invocations[len(m.invocations)-1]
}

// TestHelperProcess is not a real test. It stands in for the launcher when
// GO_WANT_HELPER_PROCESS is set.
func TestHelperProcess(t *testing.T) {
	if os.Getenv("GO_WANT_HELPER_PROCESS") != "1" {
		return
	}

	if os.Getenv("GO_HELPER_PRINT_CWD") == "1" {
		wd, _ := os.Getwd()
		fmt.Fprint(os.Stdout, wd)
	}
	if stdout := os.Getenv("GO_HELPER_STDOUT"); stdout != "" {
		fmt.Fprint(os.Stdout, stdout)
	}
	if d, err := time.ParseDuration(os.Getenv("GO_HELPER_SLEEP")); err == nil && d > 0 {
		time.Sleep(d)
	}

	exitCode := 0
	if code := os.Getenv("GO_HELPER_EXIT_CODE"); code != "" {
		fmt.Sscanf(code, "%d", &exitCode)
	}
	os.Exit(exitCode)
}

func newTestRunner(t *testing.T, rec *mockCommandRecorder, stdout io.Writer) *LauncherRunner {
	t.Helper()
	return NewLauncherRunner("/opt/eclipse/eclipse",
		WithExecCommand(rec.commandFunc(t)),
		WithOutput(stdout, io.Discard),
		WithLauncherLogger(log.New(io.Discard)),
	)
}

func TestLauncherRunner_CommandLine(t *testing.T) {
	t.Parallel()

	rec := &mockCommandRecorder{}
	var out bytes.Buffer
	r := newTestRunner(t, rec, &out)

	inv := UpdateCategories("file:/repo", "file:/cat.xml")
	code, err := r.Execute(context.Background(), inv)
	if err != nil || code != 0 {
		t.Fatalf("Execute() = %d, %v", code, err)
	}

	got := rec.last(t)
	if got.Name != "/opt/eclipse/eclipse" {
		t.Errorf("launcher = %q", got.Name)
	}
	want := append([]string{"-nosplash", "-application", string(ApplicationCategoryPublisher)}, inv.Args...)
	if !slices.Equal(got.Args, want) {
		t.Errorf("args\n got: %v\nwant: %v", got.Args, want)
	}
}

func TestLauncherRunner_WorkDirAndOutput(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	rec := &mockCommandRecorder{printCwd: true, stdout: "|published"}
	var out bytes.Buffer
	r := newTestRunner(t, rec, &out)

	if _, err := r.Execute(context.Background(), UpdateCategories("a", "b").In(dir)); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	wd, _, found := strings.Cut(out.String(), "|")
	if !found {
		t.Fatalf("unexpected output %q", out.String())
	}
	want, _ := filepath.EvalSymlinks(dir)
	if got, _ := filepath.EvalSymlinks(wd); got != want {
		t.Errorf("working directory = %q, want %q", got, want)
	}
	if !strings.HasSuffix(out.String(), "published") {
		t.Errorf("tool output not streamed: %q", out.String())
	}
}

func TestLauncherRunner_NonZeroExit(t *testing.T) {
	t.Parallel()

	rec := &mockCommandRecorder{exitCode: 13}
	r := newTestRunner(t, rec, io.Discard)

	code, err := r.Execute(context.Background(), UninstallFeatures("A/1.0", Layout{Destination: "/d", Profile: "p"}))
	if err != nil {
		t.Fatalf("non-zero exit should not be an error, got %v", err)
	}
	if code != 13 {
		t.Errorf("ExitCode = %d, want 13", code)
	}
}

func TestLauncherRunner_Timeout(t *testing.T) {
	t.Parallel()

	rec := &mockCommandRecorder{sleep: 30 * time.Second}
	r := newTestRunner(t, rec, io.Discard)

	start := time.Now()
	code, err := r.Execute(context.Background(), UpdateCategories("a", "b").WithTimeout(200*time.Millisecond))
	if !errors.Is(err, ErrToolTimeout) {
		t.Fatalf("Execute() error = %v, want ErrToolTimeout", err)
	}
	if code != types.ExitCodeAbnormal {
		t.Errorf("ExitCode = %d, want %d", code, types.ExitCodeAbnormal)
	}
	if elapsed := time.Since(start); elapsed > 20*time.Second {
		t.Errorf("process was not killed promptly (%s)", elapsed)
	}
}

func TestLauncherRunner_Cancelled(t *testing.T) {
	t.Parallel()

	rec := &mockCommandRecorder{sleep: 30 * time.Second}
	r := newTestRunner(t, rec, io.Discard)

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	_, err := r.Execute(ctx, UpdateCategories("a", "b"))
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("Execute() error = %v, want the context error", err)
	}
	if errors.Is(err, ErrToolTimeout) {
		t.Error("caller cancellation must not be reported as a tool timeout")
	}
}

func TestLauncherRunner_MissingLauncher(t *testing.T) {
	t.Parallel()

	r := NewLauncherRunner(filepath.Join(t.TempDir(), "no-such-launcher"),
		WithOutput(io.Discard, io.Discard),
		WithLauncherLogger(log.New(io.Discard)),
	)
	code, err := r.Execute(context.Background(), UpdateCategories("a", "b"))
	if err == nil {
		t.Fatal("expected a launch error")
	}
	if code != types.ExitCodeAbnormal {
		t.Errorf("ExitCode = %d, want abnormal", code)
	}
}

func TestDisplay(t *testing.T) {
	t.Parallel()

	inv := Invocation{Application: ApplicationDirector, Args: []string{"-destination", "/opt/my app", "-profile", "p1"}}
	got := Display("eclipse", inv)
	want := "eclipse -nosplash -application org.eclipse.equinox.p2.director -destination '/opt/my app' -profile p1"
	if got != want {
		t.Errorf("Display() = %q, want %q", got, want)
	}
}
