package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

func writeConfig(dir, content string) string {
	path := filepath.Join(dir, FileName)
	So(os.WriteFile(path, []byte(content), 0644), ShouldBeNil)
	return path
}

func TestLoad(t *testing.T) {
	Convey("Given a configuration file", t, func() {
		tempDir, err := os.MkdirTemp("", "config_test")
		So(err, ShouldBeNil)
		defer os.RemoveAll(tempDir)

		Convey("When it only sets the backup directory", func() {
			path := writeConfig(tempDir, `{"backup_directory": "/mnt/backup"}`)
			cfg, err := Load(path)

			Convey("It should apply defaults", func() {
				So(err, ShouldBeNil)
				So(cfg.BackupDirectory, ShouldEqual, "/mnt/backup")
				So(cfg.DryRun, ShouldBeTrue)
				So(cfg.Debug, ShouldBeFalse)
				So(cfg.Notification, ShouldBeFalse)
				So(cfg.LogFile, ShouldEqual, filepath.Join(tempDir, "backup.log"))
				So(cfg.IconFile, ShouldEqual, filepath.Join(tempDir, "backup.ico"))
				So(cfg.NotifyDuration, ShouldEqual, 5*time.Second)
				So(cfg.Robocopy.Path, ShouldEqual, "robocopy")
				So(cfg.Robocopy.Retries, ShouldEqual, 2)
				So(cfg.Robocopy.WaitSeconds, ShouldEqual, 10)
				So(cfg.Task.Name, ShouldEqual, "ScheduledBackup")
				So(cfg.Dir(), ShouldEqual, tempDir)
			})
		})

		Convey("When it sets every documented key", func() {
			path := writeConfig(tempDir, `{
				"backup_directory": "/mnt/backup/",
				"home_directory": "/home",
				"source_directories": ["%HOME%/Documents", "/srv/data"],
				"source_files": ["%HOME%/.bashrc"],
				"debug": true,
				"dryrun": false,
				"notification": true,
				"schedule": "0 30 12 * * *",
				"robocopy": {"retries": 5},
				"notifiers": [{"type": "telegram", "enabled": true, "bot_token": "t", "chat_id": "42"}],
				"task": {"template": "task.xml"}
			}`)
			cfg, err := Load(path)

			Convey("It should read them all", func() {
				So(err, ShouldBeNil)
				So(cfg.BackupDirectory, ShouldEqual, "/mnt/backup")
				So(cfg.HomeDirectory, ShouldEqual, "/home")
				So(cfg.SourceDirectories, ShouldResemble, []string{"%HOME%/Documents", "/srv/data"})
				So(cfg.SourceFiles, ShouldResemble, []string{"%HOME%/.bashrc"})
				So(cfg.Debug, ShouldBeTrue)
				So(cfg.DryRun, ShouldBeFalse)
				So(cfg.Notification, ShouldBeTrue)
				So(cfg.Robocopy.Retries, ShouldEqual, 5)
				So(cfg.Robocopy.WaitSeconds, ShouldEqual, 10)
				So(cfg.Task.Template, ShouldEqual, filepath.Join(tempDir, "task.xml"))
				So(len(cfg.GetEnabledNotifiers()), ShouldEqual, 1)
				So(cfg.GetEnabledNotifiers()[0].Type, ShouldEqual, "telegram")
			})
		})

		Convey("When the backup directory is missing", func() {
			path := writeConfig(tempDir, `{"source_directories": []}`)
			cfg, err := Load(path)

			Convey("It should fail validation", func() {
				So(cfg, ShouldBeNil)
				So(err, ShouldNotBeNil)
				So(err.Error(), ShouldContainSubstring, "backup_directory is required")
			})
		})

		Convey("When the schedule is not a valid cron expression", func() {
			path := writeConfig(tempDir, `{"backup_directory": "/b", "schedule": "every day"}`)
			_, err := Load(path)

			Convey("It should fail validation", func() {
				So(err, ShouldNotBeNil)
				So(err.Error(), ShouldContainSubstring, "schedule")
			})
		})

		Convey("When a notifier type is unknown", func() {
			path := writeConfig(tempDir, `{"backup_directory": "/b", "notifiers": [{"type": "pager"}]}`)
			_, err := Load(path)

			Convey("It should fail validation", func() {
				So(err, ShouldNotBeNil)
				So(err.Error(), ShouldContainSubstring, `unknown type "pager"`)
			})
		})

		Convey("When the file does not exist", func() {
			_, err := Load(filepath.Join(tempDir, "missing.json"))

			Convey("It should return an error", func() {
				So(err, ShouldNotBeNil)
				So(err.Error(), ShouldContainSubstring, "failed to read config")
			})
		})
	})
}

func TestExpandHome(t *testing.T) {
	Convey("Given %HOME% placeholders", t, func() {
		home := filepath.Join("/home", "bob")

		Convey("Each expanded entry equals the home directory followed by the suffix", func() {
			suffixes := []string{"/Documents", "/Pictures/2024", "/.ssh/config", ""}
			for _, suffix := range suffixes {
				So(ExpandHome(HomeMarker+suffix, home), ShouldEqual, filepath.Clean(home+suffix))
			}
		})

		Convey("Entries without a marker are only cleaned", func() {
			So(ExpandHome("/srv//data/", home), ShouldEqual, "/srv/data")
		})

		Convey("Config expands both lists", func() {
			cfg := &Config{
				SourceDirectories: []string{"%HOME%/Documents"},
				SourceFiles:       []string{"%HOME%/notes.txt"},
			}
			So(cfg.ExpandedDirectories(home), ShouldResemble, []string{filepath.Join(home, "Documents")})
			So(cfg.ExpandedFiles(home), ShouldResemble, []string{filepath.Join(home, "notes.txt")})
		})
	})

	Convey("Given a home_directory", t, func() {
		cfg := &Config{HomeDirectory: "/home"}

		Convey("The user home is home_directory joined with the username", func() {
			home, err := cfg.UserHome("bob")
			So(err, ShouldBeNil)
			So(home, ShouldEqual, filepath.Join("/home", "bob"))
		})
	})

	Convey("Given notification is off", t, func() {
		cfg := &Config{Notifiers: []NotifierConfig{{Type: "desktop", Enabled: true}}}

		Convey("No notifier is enabled", func() {
			So(cfg.GetEnabledNotifiers(), ShouldBeEmpty)
		})

		Convey("Turning it on without a list falls back to the desktop notifier", func() {
			cfg.Notification = true
			cfg.Notifiers = nil
			So(cfg.GetEnabledNotifiers(), ShouldResemble, []NotifierConfig{{Type: "desktop", Enabled: true}})
		})
	})
}
