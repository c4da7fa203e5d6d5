package database

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/semmidev/mongos3/internal/config"
	"github.com/semmidev/mongos3/internal/infrastructure/process"
	. "github.com/smartystreets/goconvey/convey"
)

type recordingRunner struct {
	commands []process.Command
	err      error
}

func (r *recordingRunner) Run(_ context.Context, c process.Command) error {
	r.commands = append(r.commands, c)
	return r.err
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.MongoDB.URI = "mongodb://localhost:27017"
	cfg.MongoDB.Database = "shop"
	cfg.Tools.MongodumpPath = "/opt/bin/mongodump"
	cfg.Tools.MongorestorePath = "/opt/bin/mongorestore"
	return cfg
}

func TestMongoDBDatabase(t *testing.T) {
	Convey("Given a MongoDB adapter", t, func() {
		tempDir, err := os.MkdirTemp("", "mongodb_test")
		So(err, ShouldBeNil)
		defer os.RemoveAll(tempDir)

		runner := &recordingRunner{}
		db := NewMongoDB(testConfig(), runner)
		db.now = func() time.Time {
			return time.Date(2024, 2, 1, 9, 5, 3, 7000000, time.UTC)
		}

		So(db.GetName(), ShouldEqual, "shop")

		Convey("Dump method", func() {
			backupDir := filepath.Join(tempDir, "nested", "backups")

			Convey("When mongodump succeeds", func() {
				result, err := db.Dump(context.Background(), backupDir)

				Convey("It should create the backup directory and return the result", func() {
					So(err, ShouldBeNil)

					info, err := os.Stat(backupDir)
					So(err, ShouldBeNil)
					So(info.IsDir(), ShouldBeTrue)

					So(result.DatabaseName, ShouldEqual, "shop")
					So(result.Timestamp, ShouldEqual, "2024-02-01T09-05-03-007Z")
					So(result.OutputPath, ShouldEqual, filepath.Join(backupDir, "shop-2024-02-01T09-05-03-007Z"))
					So(result.BackupID(), ShouldEqual, "shop-2024-02-01T09-05-03-007Z")
				})

				Convey("It should invoke mongodump with the fixed argument shape", func() {
					So(len(runner.commands), ShouldEqual, 1)
					cmd := runner.commands[0]
					So(cmd.Name, ShouldEqual, "mongodump")
					So(cmd.Path, ShouldEqual, "/opt/bin/mongodump")
					So(cmd.Args, ShouldResemble, []string{
						"--uri", "mongodb://localhost:27017",
						"--db", "shop",
						"--out", result.OutputPath,
						"--gzip",
					})
				})
			})

			Convey("When mongodump fails", func() {
				runner.err = &process.ExitError{Name: "mongodump", Code: 1, Stderr: "auth failed"}
				_, err := db.Dump(context.Background(), backupDir)

				Convey("It should propagate the error unchanged", func() {
					var exitErr *process.ExitError
					So(errors.As(err, &exitErr), ShouldBeTrue)
					So(err.Error(), ShouldEqual, "mongodump failed with exit code 1: auth failed")
				})
			})
		})

		Convey("Restore method", func() {
			source := filepath.Join(tempDir, "restores", "shop-2024-02-01T09-05-03-007Z")

			Convey("When drop is disabled", func() {
				result, err := db.Restore(context.Background(), source, false)

				Convey("It should point mongorestore at the database sub-path", func() {
					So(err, ShouldBeNil)
					So(result.DatabaseName, ShouldEqual, "shop")
					So(result.SourcePath, ShouldEqual, source)

					cmd := runner.commands[0]
					So(cmd.Name, ShouldEqual, "mongorestore")
					So(cmd.Path, ShouldEqual, "/opt/bin/mongorestore")
					So(cmd.Args, ShouldResemble, []string{
						"--uri", "mongodb://localhost:27017",
						"--db", "shop",
						"--gzip",
						filepath.Join(source, "shop"),
					})
				})
			})

			Convey("When drop is enabled", func() {
				_, err := db.Restore(context.Background(), source, true)

				Convey("It should pass --drop", func() {
					So(err, ShouldBeNil)
					args := runner.commands[0].Args
					So(args[len(args)-1], ShouldEqual, "--drop")
				})
			})

			Convey("When mongorestore is missing", func() {
				runner.err = process.ErrExecutableNotFound
				_, err := db.Restore(context.Background(), source, false)

				Convey("It should return the not-found error", func() {
					So(errors.Is(err, process.ErrExecutableNotFound), ShouldBeTrue)
				})
			})
		})
	})
}
