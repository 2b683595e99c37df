// SPDX-License-Identifier: MPL-2.0

package profile

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"slices"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/wso2/carbon-p2/internal/issue"
	"github.com/wso2/carbon-p2/internal/p2"
	"github.com/wso2/carbon-p2/internal/staging"
	"github.com/wso2/carbon-p2/internal/testutil"
	"github.com/wso2/carbon-p2/pkg/types"
)

type fakeRunner struct {
	calls []p2.Invocation
	code  types.ExitCode
}

func (f *fakeRunner) Execute(_ context.Context, inv p2.Invocation) (types.ExitCode, error) {
	f.calls = append(f.calls, inv)
	return f.code, nil
}

func newTestManager(runner p2.ToolRunner, opts ...Option) *Manager {
	return New(runner, append([]Option{WithLogger(log.New(io.Discard))}, opts...)...)
}

func registry(dest, profile string) string {
	return p2.Layout{Destination: dest, Profile: profile}.ProfileRegistry()
}

func TestInstall(t *testing.T) {
	t.Parallel()

	dest := t.TempDir()
	reg := registry(dest, DefaultProfile)
	for _, name := range []string{"1000.profile", "2000.profile", "3000.profile"} {
		testutil.MustWriteFile(t, filepath.Join(reg, name), "<profile/>")
	}
	testutil.MustWriteFile(t, filepath.Join(dest, DefaultProfile, "configuration", "config.ini"),
		"osgi.bundles=a,b\neclipse.p2.data.area=@config.dir/p2\n")

	runner := &fakeRunner{}
	err := newTestManager(runner).Install(context.Background(), InstallRequest{
		Destination: dest,
		Repository:  "file:/repo",
		Features:    []p2.IU{{ID: "A", Version: "1.0"}, {ID: "B", Version: "2.0"}},
	})
	if err != nil {
		t.Fatalf("Install() error = %v", err)
	}

	if len(runner.calls) != 1 {
		t.Fatalf("calls = %d", len(runner.calls))
	}
	inv := runner.calls[0]
	if v, _ := inv.Flag("-installIU"); v != "A/1.0,B/2.0" {
		t.Errorf("-installIU = %q", v)
	}
	if v, _ := inv.Flag("-profile"); v != DefaultProfile {
		t.Errorf("-profile = %q, want default profile", v)
	}

	got := testutil.MustReadFile(t, filepath.Join(dest, DefaultProfile, "configuration", "config.ini"))
	if want := "osgi.bundles=a,b\neclipse.p2.data.area=@config.dir/../../p2/\n"; got != want {
		t.Errorf("config.ini = %q, want %q", got, want)
	}

	for _, name := range []string{"1000.profile", "2000.profile"} {
		if testutil.Exists(filepath.Join(reg, name)) {
			t.Errorf("%s should have been pruned", name)
		}
	}
	if !testutil.Exists(filepath.Join(reg, "3000.profile")) {
		t.Error("newest snapshot must be kept")
	}
}

func TestInstall_FeatureGroupsAndKeepOldProfiles(t *testing.T) {
	t.Parallel()

	dest := t.TempDir()
	reg := registry(dest, "p1")
	testutil.MustWriteFile(t, filepath.Join(reg, "1.profile"), "")
	testutil.MustWriteFile(t, filepath.Join(reg, "2.profile"), "")

	runner := &fakeRunner{}
	err := newTestManager(runner).Install(context.Background(), InstallRequest{
		Destination:     dest,
		Profile:         "p1",
		Repository:      "file:/repo",
		Features:        []p2.IU{{ID: "org.example", Version: "1.0.0"}},
		FeatureGroups:   true,
		KeepOldProfiles: true,
	})
	if err != nil {
		t.Fatalf("Install() error = %v", err)
	}
	if v, _ := runner.calls[0].Flag("-installIU"); v != "org.example.feature.group/1.0.0" {
		t.Errorf("-installIU = %q", v)
	}
	if !testutil.Exists(filepath.Join(reg, "1.profile")) {
		t.Error("snapshots must be kept when pruning is disabled")
	}
}

func TestInstall_LauncherIni(t *testing.T) {
	t.Parallel()

	dest := t.TempDir()
	ini := filepath.Join(dest, "p1", "eclipse.ini")
	testutil.MustWriteFile(t, ini, "-startup\nplugins/launcher.jar\n")

	err := newTestManager(&fakeRunner{}).Install(context.Background(), InstallRequest{
		Destination: dest,
		Profile:     "p1",
		Repository:  "file:/repo",
		Features:    []p2.IU{{ID: "A", Version: "1"}},
	})
	if err != nil {
		t.Fatal(err)
	}
	if got, want := testutil.MustReadFile(t, ini), "-install\n"+filepath.Join(dest, "p1"); got != want {
		t.Errorf("eclipse.ini = %q, want %q", got, want)
	}
}

func TestInstall_NoLauncherIniIsNotCreated(t *testing.T) {
	t.Parallel()

	dest := t.TempDir()
	err := newTestManager(&fakeRunner{}).Install(context.Background(), InstallRequest{
		Destination: dest,
		Repository:  "file:/repo",
		Features:    []p2.IU{{ID: "A", Version: "1"}},
	})
	if err != nil {
		t.Fatal(err)
	}
	if testutil.Exists(filepath.Join(dest, DefaultProfile, "eclipse.ini")) {
		t.Error("eclipse.ini must only be rewritten when it exists")
	}
}

func TestInstall_Validation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		req  InstallRequest
	}{
		{name: "no destination", req: InstallRequest{Repository: "r", Features: []p2.IU{{ID: "A", Version: "1"}}}},
		{name: "no repository", req: InstallRequest{Destination: "/d", Features: []p2.IU{{ID: "A", Version: "1"}}}},
		{name: "no features", req: InstallRequest{Destination: "/d", Repository: "r"}},
		{name: "blank feature id", req: InstallRequest{Destination: "/d", Repository: "r", Features: []p2.IU{{ID: " ", Version: "1"}}, FeatureGroups: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			runner := &fakeRunner{}
			err := newTestManager(runner).Install(context.Background(), tt.req)

			var stepErr *StepError
			if !errors.As(err, &stepErr) || stepErr.Step != StepValidate {
				t.Fatalf("Install() error = %v, want VALIDATE step error", err)
			}
			if !errors.Is(err, issue.ErrConfiguration) {
				t.Errorf("error does not wrap ErrConfiguration: %v", err)
			}
			if len(runner.calls) != 0 {
				t.Error("tool must not run for an invalid request")
			}
		})
	}
}

func TestInstall_ToolFailureSkipsBootConfig(t *testing.T) {
	t.Parallel()

	dest := t.TempDir()
	err := newTestManager(&fakeRunner{code: 1}).Install(context.Background(), InstallRequest{
		Destination: dest,
		Repository:  "file:/repo",
		Features:    []p2.IU{{ID: "A", Version: "1"}},
	})

	var stepErr *StepError
	if !errors.As(err, &stepErr) || stepErr.Step != StepInstall || !errors.Is(err, p2.ErrExternalTool) {
		t.Fatalf("Install() error = %v, want INSTALL tool failure", err)
	}
	if testutil.Exists(filepath.Join(dest, DefaultProfile, "configuration", "config.ini")) {
		t.Error("boot configuration must not be touched after a failed install")
	}
}

func TestInstall_PruneFailureIsFatal(t *testing.T) {
	t.Parallel()

	dest := t.TempDir()
	reg := registry(dest, DefaultProfile)
	testutil.MustWriteFile(t, filepath.Join(reg, "1.profile"), "")
	testutil.MustWriteFile(t, filepath.Join(reg, "2.profile"), "")

	removeErr := errors.New("read-only file system")
	m := newTestManager(&fakeRunner{}, WithRemove(func(string) error { return removeErr }))
	err := m.Install(context.Background(), InstallRequest{
		Destination: dest,
		Repository:  "file:/repo",
		Features:    []p2.IU{{ID: "A", Version: "1"}},
	})

	var stepErr *StepError
	if !errors.As(err, &stepErr) || stepErr.Step != StepPrune {
		t.Fatalf("Install() error = %v, want PRUNE step error", err)
	}
	if !errors.Is(err, staging.ErrStagingIO) || !errors.Is(err, removeErr) {
		t.Errorf("error = %v", err)
	}
	if !issue.IsFatal(err) {
		t.Error("prune failure must be fatal")
	}
}

func TestUninstall(t *testing.T) {
	t.Parallel()

	runner := &fakeRunner{}
	err := newTestManager(runner).Uninstall(context.Background(), UninstallRequest{
		Destination: "/opt/app/",
		Profile:     "p1",
		Features:    []p2.IU{{ID: "org.example.feature", Version: "1.0.0"}},
	})
	if err != nil {
		t.Fatalf("Uninstall() error = %v", err)
	}

	if len(runner.calls) != 1 {
		t.Fatalf("calls = %d", len(runner.calls))
	}
	args := runner.calls[0].Args
	if !containsPair(args, "-uninstallIU", "org.example.feature/1.0.0") {
		t.Errorf("args %v missing -uninstallIU org.example.feature/1.0.0", args)
	}
	if !containsPair(args, "-profile", "p1") {
		t.Errorf("args %v missing -profile p1", args)
	}
	if slices.Contains(args, "-installIU") {
		t.Errorf("args %v must not contain -installIU", args)
	}
	if !containsPair(args, "-destination", filepath.FromSlash("/opt/app/p1")) {
		t.Errorf("args %v missing -destination /opt/app/p1", args)
	}
}

func TestUninstall_NoBootConfigRewriteOrPrune(t *testing.T) {
	t.Parallel()

	dest := t.TempDir()
	ini := filepath.Join(dest, "p1", "configuration", "config.ini")
	testutil.MustWriteFile(t, ini, "eclipse.p2.data.area=@config.dir/p2\n")
	reg := registry(dest, "p1")
	testutil.MustWriteFile(t, filepath.Join(reg, "1.profile"), "")
	testutil.MustWriteFile(t, filepath.Join(reg, "2.profile"), "")

	err := newTestManager(&fakeRunner{}).Uninstall(context.Background(), UninstallRequest{
		Destination: dest,
		Profile:     "p1",
		Features:    []p2.IU{{ID: "A", Version: "1"}},
	})
	if err != nil {
		t.Fatal(err)
	}
	if got := testutil.MustReadFile(t, ini); got != "eclipse.p2.data.area=@config.dir/p2\n" {
		t.Errorf("config.ini changed to %q", got)
	}
	if !testutil.Exists(filepath.Join(reg, "1.profile")) {
		t.Error("uninstall must not prune")
	}
}

func TestGenerateProfile(t *testing.T) {
	t.Parallel()

	dest := t.TempDir()
	runner := &fakeRunner{}
	err := newTestManager(runner).GenerateProfile(context.Background(), GenerateRequest{
		Destination: dest,
		Repository:  "file:/repo",
		ProductID:   "carbon.product.id",
	})
	if err != nil {
		t.Fatalf("GenerateProfile() error = %v", err)
	}
	inv := runner.calls[0]
	if v, _ := inv.Flag("-installIU"); v != "carbon.product.id" {
		t.Errorf("-installIU = %q", v)
	}
	if v, _ := inv.Flag("-p2.arch"); v != "x86" {
		t.Errorf("-p2.arch = %q", v)
	}
	ini := testutil.MustReadFile(t, filepath.Join(dest, DefaultProfile, "configuration", "config.ini"))
	if ini != "eclipse.p2.data.area=@config.dir/../../p2/\n" {
		t.Errorf("config.ini = %q", ini)
	}

	err = newTestManager(runner).GenerateProfile(context.Background(), GenerateRequest{Destination: dest, Repository: "r"})
	if !errors.Is(err, issue.ErrConfiguration) {
		t.Errorf("missing product id: error = %v", err)
	}
}

func containsPair(args []string, flag, value string) bool {
	for i := 0; i+1 < len(args); i++ {
		if args[i] == flag && args[i+1] == value {
			return true
		}
	}
	return false
}
