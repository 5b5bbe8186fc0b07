package app

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/semmidev/robobak/internal/config"
	"github.com/semmidev/robobak/internal/domain"
	. "github.com/smartystreets/goconvey/convey"
)

func TestIdentityFromEnv(t *testing.T) {
	Convey("Given the Windows identity variables", t, func() {
		env := map[string]string{"USERNAME": "bob", "COMPUTERNAME": "DESKTOP-01"}
		getenv := func(k string) string { return env[k] }

		Convey("When both are set", func() {
			id, err := IdentityFromEnv(getenv)
			So(err, ShouldBeNil)
			So(id, ShouldResemble, domain.Identity{Username: "bob", ComputerName: "DESKTOP-01"})
		})

		Convey("When COMPUTERNAME is missing", func() {
			delete(env, "COMPUTERNAME")
			_, err := IdentityFromEnv(getenv)
			So(errors.Is(err, domain.ErrMissingIdentity), ShouldBeTrue)
			So(err.Error(), ShouldContainSubstring, "COMPUTERNAME")
		})
	})
}

func TestNewWithoutIdentity(t *testing.T) {
	Convey("Given a valid configuration but no COMPUTERNAME", t, func() {
		tempDir, err := os.MkdirTemp("", "app_test")
		So(err, ShouldBeNil)
		defer os.RemoveAll(tempDir)

		t.Setenv("USERNAME", "bob")
		t.Setenv("COMPUTERNAME", "")

		cfgPath := filepath.Join(tempDir, config.FileName)
		So(os.WriteFile(cfgPath, []byte(`{"backup_directory": "/backup"}`), 0644), ShouldBeNil)
		cfg, err := config.Load(cfgPath)
		So(err, ShouldBeNil)

		application, err := New(cfg)

		Convey("It should fail and leave the reason in the log file", func() {
			So(application, ShouldBeNil)
			So(errors.Is(err, domain.ErrMissingIdentity), ShouldBeTrue)

			content, readErr := os.ReadFile(cfg.LogFile)
			So(readErr, ShouldBeNil)
			So(string(content), ShouldContainSubstring, "Startup failed")
			So(string(content), ShouldContainSubstring, "COMPUTERNAME")
		})
	})
}

func TestApp(t *testing.T) {
	Convey("Given a configuration with a dry run", t, func() {
		tempDir, err := os.MkdirTemp("", "app_test")
		So(err, ShouldBeNil)
		defer os.RemoveAll(tempDir)

		t.Setenv("USERNAME", "bob")
		t.Setenv("COMPUTERNAME", "PC")

		cfgPath := filepath.Join(tempDir, config.FileName)
		So(os.WriteFile(cfgPath, []byte(`{
			"backup_directory": "`+filepath.ToSlash(filepath.Join(tempDir, "backup"))+`",
			"home_directory": "/home",
			"source_directories": ["%HOME%/Documents"],
			"robocopy": {"path": "`+filepath.ToSlash(filepath.Join(tempDir, "missing-robocopy"))+`"}
		}`), 0644), ShouldBeNil)

		cfg, err := config.Load(cfgPath)
		So(err, ShouldBeNil)

		application, err := New(cfg)
		So(err, ShouldBeNil)
		defer application.Shutdown()

		Convey("It should resolve targets under user and computer", func() {
			report, err := application.Status(context.Background())
			So(err, ShouldBeNil)
			So(report.Root, ShouldEqual, filepath.Join(tempDir, "backup", "bob", "PC"))
			So(len(report.Targets), ShouldEqual, 1)
			So(report.Targets[0].Target.Source, ShouldEqual, filepath.Join("/home", "bob", "Documents"))
		})

		Convey("Run should fail when the copy tool is missing and log to the default file", func() {
			err := application.Run(context.Background())
			So(errors.Is(err, domain.ErrCopyFailed), ShouldBeTrue)

			_, statErr := os.Stat(filepath.Join(tempDir, "backup.log"))
			So(statErr, ShouldBeNil)
		})

		Convey("Serve should refuse to start without a schedule", func() {
			err := application.Serve(context.Background())
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "no schedule configured")
		})

		Convey("Install in dry run should write the task definition only", func() {
			err := application.Install(context.Background(), InstallOptions{DryRun: true})
			So(err, ShouldBeNil)

			_, statErr := os.Stat(filepath.Join(tempDir, generatedTaskFile))
			So(statErr, ShouldBeNil)
		})

		Convey("The task action should point back at the configuration", func() {
			action := application.taskAction(`C:\Tools\robobak.exe`)
			So(action.Arguments, ShouldEqual, `--config "`+cfgPath+`"`)
			So(action.WorkDir, ShouldEqual, tempDir)
			So(action.Author, ShouldEqual, `PC\bob`)
		})
	})
}
