package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/semmidev/robobak/internal/domain"
	"github.com/semmidev/robobak/internal/usecase"
	. "github.com/smartystreets/goconvey/convey"
)

func TestRootCmd(t *testing.T) {
	Convey("Given the root command", t, func() {
		tempDir, err := os.MkdirTemp("", "cli_test")
		So(err, ShouldBeNil)
		defer os.RemoveAll(tempDir)

		t.Setenv("USERNAME", "bob")
		t.Setenv("COMPUTERNAME", "PC")

		cfgPath := filepath.Join(tempDir, "backup.json")
		So(os.WriteFile(cfgPath, []byte(`{
			"backup_directory": "`+filepath.ToSlash(filepath.Join(tempDir, "backup"))+`",
			"home_directory": "/home",
			"source_directories": ["%HOME%/Documents"],
			"dryrun": false
		}`), 0644), ShouldBeNil)

		Convey("When a flag is set explicitly it overrides the file", func() {
			opts := &rootOptions{configPath: cfgPath}
			cmd := NewRootCmd()
			So(cmd.ParseFlags([]string{"--dry-run", "--debug"}), ShouldBeNil)
			opts.dryRun, opts.debug = true, true

			cfg, err := opts.loadConfig(cmd)
			So(err, ShouldBeNil)
			So(cfg.DryRun, ShouldBeTrue)
			So(cfg.Debug, ShouldBeTrue)
		})

		Convey("When no flag is set the file wins", func() {
			opts := &rootOptions{configPath: cfgPath}
			cfg, err := opts.loadConfig(NewRootCmd())
			So(err, ShouldBeNil)
			So(cfg.DryRun, ShouldBeFalse)
		})

		Convey("When running status", func() {
			cmd := NewRootCmd()
			var out bytes.Buffer
			cmd.SetOut(&out)
			cmd.SetArgs([]string{"status", "--config", cfgPath})

			err := cmd.ExecuteContext(context.Background())

			Convey("It should print the resolved target", func() {
				So(err, ShouldBeNil)
				So(out.String(), ShouldContainSubstring, filepath.Join(tempDir, "backup", "bob", "PC"))
				So(out.String(), ShouldContainSubstring, filepath.Join("/home", "bob", "Documents"))
				So(out.String(), ShouldContainSubstring, "never")
				So(out.String(), ShouldContainSubstring, "The backup directory is empty.")
			})
		})

		Convey("When the config file is missing", func() {
			cmd := NewRootCmd()
			cmd.SetArgs([]string{"--config", filepath.Join(tempDir, "missing.json")})

			err := cmd.ExecuteContext(context.Background())

			Convey("It should fail with a load error", func() {
				So(err, ShouldNotBeNil)
				So(err.Error(), ShouldContainSubstring, "load config")
			})
		})

		Convey("When given an argument", func() {
			cmd := NewRootCmd()
			cmd.SetArgs([]string{"extra"})
			So(cmd.ExecuteContext(context.Background()), ShouldNotBeNil)
		})
	})
}

func TestPrintStatus(t *testing.T) {
	Convey("Given a status report with a mirrored entry", t, func() {
		report := &usecase.StatusReport{
			Root: "/backup/bob/PC",
			Targets: []usecase.TargetStatus{{
				Target: domain.Target{Kind: domain.KindDirectory, Source: "/home/bob/Documents", Destination: "/backup/bob/PC/home/bob/Documents"},
				Mirror: domain.Entry{Exists: true, ModTime: time.Now().Add(-3 * time.Hour)},
			}},
			Entries: []domain.Entry{{Path: "/backup/bob/PC/home", Exists: true, ModTime: time.Now().Add(-3 * time.Hour)}},
		}

		var out bytes.Buffer
		printStatus(&out, report)

		Convey("It should show humanized ages", func() {
			So(out.String(), ShouldContainSubstring, "3 hours ago")
			So(out.String(), ShouldContainSubstring, "/backup/bob/PC/home")
		})
	})
}
